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

package github

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/stylecheck/pkg/source"
	"gitlab.com/tozd/go/errors"
)

func init() {
	source.Register(source.SchemeGitHub, New)
}

// 🔌 ContentsClient is the slice of the GitHub API this source needs
type ContentsClient interface {
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
}

// 🎯 Source reads documents from GitHub repositories
type Source struct {
	client ContentsClient
}

// 🏭 New creates a GitHub source. GITHUB_TOKEN is used when set; public
// repositories work without it.
func New(ctx context.Context) (source.Source, error) {
	logger := zerolog.Ctx(ctx)

	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	} else {
		logger.Debug().Msg("GITHUB_TOKEN not set, using unauthenticated client")
	}

	return NewWithClient(client.Repositories), nil
}

// NewWithClient creates a GitHub source on top of an existing client
func NewWithClient(client ContentsClient) *Source {
	return &Source{client: client}
}

// 🔍 parseRepo splits a repository reference into owner and name
func parseRepo(repo string) (owner, name string, err error) {
	repo = strings.TrimSuffix(strings.TrimSuffix(repo, "/"), ".git")
	parts := strings.Split(repo, "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return "", "", errors.Errorf("invalid repository format: %s", repo)
	}

	return parts[len(parts)-2], parts[len(parts)-1], nil
}

// 📄 Fetch retrieves a single file's contents
func (s *Source) Fetch(ctx context.Context, loc source.Location) ([]byte, error) {
	owner, name, err := parseRepo(loc.Repo)
	if err != nil {
		return nil, errors.Errorf("parsing repo: %w", err)
	}

	var opts *github.RepositoryContentGetOptions
	if loc.Ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: loc.Ref}
	}

	content, dir, _, err := s.client.GetContents(ctx, owner, name, loc.Path, opts)
	if err != nil {
		return nil, errors.Errorf("getting file content: %w", err)
	}
	if content == nil {
		return nil, errors.Errorf("%s is a directory with %d entries", loc.Path, len(dir))
	}

	data, err := content.GetContent()
	if err != nil {
		return nil, errors.Errorf("decoding content: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("repo", loc.Repo).
		Str("ref", loc.Ref).
		Str("path", loc.Path).
		Str("sha", content.GetSHA()).
		Msg("fetched file from github")

	return []byte(data), nil
}

// 🔗 Permalink returns a browser link to the file
func Permalink(loc source.Location) string {
	ref := loc.Ref
	if ref == "" {
		ref = "HEAD"
	}
	return fmt.Sprintf("https://github.com/%s/blob/%s/%s", loc.Repo, ref, loc.Path)
}
