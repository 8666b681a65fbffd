// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package source

import (
	"context"
	"io"
	"net/http"
	"os"

	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(SchemeFile, func(ctx context.Context) (Source, error) { return &FileSource{}, nil })
	Register(SchemeHTTP, func(ctx context.Context) (Source, error) { return &HTTPSource{}, nil })
}

// 📂 FileSource reads documents from the local file system
type FileSource struct{}

func (s *FileSource) Fetch(ctx context.Context, loc Location) ([]byte, error) {
	data, err := os.ReadFile(loc.Path)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return data, nil
}

// 🌐 HTTPSource downloads documents over http(s)
type HTTPSource struct {
	Client *http.Client // defaults to http.DefaultClient
}

func (s *HTTPSource) Fetch(ctx context.Context, loc Location) ([]byte, error) {
	body, err := DownloadFile(ctx, s.Client, loc.Path)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.Errorf("reading response: %w", err)
	}
	return data, nil
}

// 📥 DownloadFile downloads a file from a URL with context support
func DownloadFile(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Errorf("downloading file: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}
