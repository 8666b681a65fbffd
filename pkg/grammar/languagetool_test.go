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
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguageTool_Check(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		status      int
		body        string
		want        []Correction
		wantErr     bool
		errContains string
	}{
		{
			name:   "ascii_offsets",
			text:   "This are wrong.",
			status: http.StatusOK,
			body:   `{"matches":[{"message":"Agreement","offset":5,"length":3,"replacements":[{"value":"is"},{"value":"were"}],"rule":{"id":"THIS_NNS"}}]}`,
			want: []Correction{
				{Offset: 5, Length: 3, Replacements: []string{"is", "were"}, RuleID: "THIS_NNS", Message: "Agreement"},
			},
		},
		{
			name:   "utf16_offsets_converted",
			text:   "Café 😀 teh end",
			status: http.StatusOK,
			// "Café " is 5 code units, the emoji is 2, then a space
			body: `{"matches":[{"message":"Typo","offset":8,"length":3,"replacements":[{"value":"the"}],"rule":{"id":"MORFOLOGIK"}}]}`,
			want: []Correction{
				{Offset: 11, Length: 3, Replacements: []string{"the"}, RuleID: "MORFOLOGIK", Message: "Typo"},
			},
		},
		{
			name:   "no_matches",
			text:   "Fine text.",
			status: http.StatusOK,
			body:   `{"matches":[]}`,
			want:   []Correction{},
		},
		{
			name:        "server_error",
			text:        "x",
			status:      http.StatusInternalServerError,
			body:        "boom",
			wantErr:     true,
			errContains: "unexpected status code 500",
		},
		{
			name:        "malformed_json",
			text:        "x",
			status:      http.StatusOK,
			body:        `{"matches":`,
			wantErr:     true,
			errContains: "decoding languagetool response",
		},
		{
			name:        "missing_offset",
			text:        "abc",
			status:      http.StatusOK,
			body:        `{"matches":[{"message":"m","length":1}]}`,
			wantErr:     true,
			errContains: "missing offset or length",
		},
		{
			name:        "span_outside_text",
			text:        "abc",
			status:      http.StatusOK,
			body:        `{"matches":[{"message":"m","offset":2,"length":5}]}`,
			wantErr:     true,
			errContains: "outside text",
		},
	}

	ctx := zerolog.New(os.Stderr).WithContext(context.Background())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/v2/check", r.URL.Path)
				assert.NoError(t, r.ParseForm())
				assert.Equal(t, tt.text, r.PostForm.Get("text"))
				assert.Equal(t, "en-GB", r.PostForm.Get("language"))

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			lt := NewLanguageTool(WithEndpoint(srv.URL+"/"), WithLanguage("en-GB"), WithHTTPClient(srv.Client()))
			got, err := lt.Check(ctx, tt.text)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			for _, c := range got {
				assert.True(t, c.Offset+c.Length <= len(tt.text))
			}
		})
	}
}

func TestLanguageTool_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	lt := NewLanguageTool(WithEndpoint(srv.URL), WithTimeout(50*time.Millisecond))
	_, err := lt.Check(context.Background(), "slow")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calling languagetool")
}

func TestUTF16ToByteOffsets(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []int
	}{
		{name: "empty", in: "", want: []int{0}},
		{name: "ascii", in: "ab", want: []int{0, 1, 2}},
		{name: "two_byte_rune", in: "é!", want: []int{0, 2, 3}},
		{name: "surrogate_pair", in: "😀x", want: []int{0, 0, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, utf16ToByteOffsets(tt.in))
		})
	}
}
