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

package grammar

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultEndpoint is the public LanguageTool service
	DefaultEndpoint = "https://api.languagetool.org"
	// DefaultTimeout bounds a single check call
	DefaultTimeout = 10 * time.Second
	// DefaultLanguage is sent when no language is configured
	DefaultLanguage = "en-US"
)

// 🌐 LanguageTool is an Advisor backed by a LanguageTool HTTP server
type LanguageTool struct {
	endpoint string
	language string
	timeout  time.Duration
	client   *http.Client
}

// LanguageToolOption configures a LanguageTool client
type LanguageToolOption func(*LanguageTool)

// WithEndpoint sets the base URL of the LanguageTool server
func WithEndpoint(endpoint string) LanguageToolOption {
	return func(lt *LanguageTool) {
		lt.endpoint = strings.TrimRight(endpoint, "/")
	}
}

// WithLanguage sets the language code sent with every check
func WithLanguage(lang string) LanguageToolOption {
	return func(lt *LanguageTool) {
		lt.language = lang
	}
}

// WithTimeout sets the per-call timeout
func WithTimeout(d time.Duration) LanguageToolOption {
	return func(lt *LanguageTool) {
		lt.timeout = d
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) LanguageToolOption {
	return func(lt *LanguageTool) {
		lt.client = c
	}
}

// 🏭 NewLanguageTool creates a LanguageTool advisor
func NewLanguageTool(opts ...LanguageToolOption) *LanguageTool {
	lt := &LanguageTool{
		endpoint: DefaultEndpoint,
		language: DefaultLanguage,
		timeout:  DefaultTimeout,
		client:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(lt)
	}
	return lt
}

type checkResponse struct {
	Matches []struct {
		Message      string `json:"message"`
		Offset       *int   `json:"offset"`
		Length       *int   `json:"length"`
		Replacements []struct {
			Value string `json:"value"`
		} `json:"replacements"`
		Rule struct {
			ID string `json:"id"`
		} `json:"rule"`
	} `json:"matches"`
}

// 🔍 Check posts text to /v2/check and converts the matches to corrections
func (lt *LanguageTool) Check(ctx context.Context, text string) ([]Correction, error) {
	logger := zerolog.Ctx(ctx)

	if lt.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, lt.timeout)
		defer cancel()
	}

	form := url.Values{}
	form.Set("text", text)
	form.Set("language", lt.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, lt.endpoint+"/v2/check", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := lt.client.Do(req)
	if err != nil {
		return nil, errors.Errorf("calling languagetool: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Errorf("unexpected status code %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Errorf("decoding languagetool response: %w", err)
	}

	offsets := utf16ToByteOffsets(text)
	out := make([]Correction, 0, len(parsed.Matches))
	for i, m := range parsed.Matches {
		if m.Offset == nil || m.Length == nil {
			return nil, errors.Errorf("match %d: missing offset or length", i)
		}
		start, end := *m.Offset, *m.Offset+*m.Length
		if start < 0 || *m.Length < 0 || end >= len(offsets) {
			return nil, errors.Errorf("match %d: span [%d, %d) outside text", i, start, end)
		}

		c := Correction{
			Offset:  offsets[start],
			Length:  offsets[end] - offsets[start],
			RuleID:  m.Rule.ID,
			Message: m.Message,
		}
		for _, r := range m.Replacements {
			c.Replacements = append(c.Replacements, r.Value)
		}
		out = append(out, c)
	}

	logger.Debug().Int("corrections", len(out)).Str("language", lt.language).Msg("languagetool check complete")
	return out, nil
}

// utf16ToByteOffsets maps every UTF-16 code unit offset of s, plus the end
// offset, to a byte offset. The second half of a surrogate pair maps to the
// start of its rune.
func utf16ToByteOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i, r := range s {
		offsets = append(offsets, i)
		if r >= 0x10000 && r <= utf8.MaxRune {
			offsets = append(offsets, i)
		}
	}
	return append(offsets, len(s))
}
