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

package operation

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/stylecheck/pkg/config"
	"github.com/walteh/stylecheck/pkg/fragment"
	"github.com/walteh/stylecheck/pkg/rules"
	"github.com/walteh/stylecheck/pkg/suggest"
	"golang.org/x/text/language"
)

func testContext() context.Context {
	return zerolog.New(os.Stderr).WithContext(context.Background())
}

func TestNew(t *testing.T) {
	set := rules.Default(language.AmericanEnglish)

	tests := []struct {
		name        string
		opts        Options
		wantErr     bool
		errContains string
	}{
		{
			name: "valid_options",
			opts: Options{Rules: set, Extractor: fragment.NewExtractor()},
		},
		{
			name:        "missing_rules",
			opts:        Options{Extractor: fragment.NewExtractor()},
			wantErr:     true,
			errContains: "rule set is required",
		},
		{
			name:        "missing_extractor",
			opts:        Options{Rules: set},
			wantErr:     true,
			errContains: "extractor is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := New(tt.opts)
			if tt.wantErr {
				require.Error(t, err, "New should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}
			require.NoError(t, err, "New should succeed")
			assert.NotNil(t, op)
		})
	}
}

func TestCheckApplyDiff(t *testing.T) {
	ctx := testContext()
	src := []byte("<html>\n<body>\n<p>Click on the button to send an e-mail.</p>\n<p>Save &amp; Exit.</p>\n<script>click on</script>\n</body>\n</html>\n")

	op, err := FromConfig(ctx, config.Default())
	require.NoError(t, err)

	report, err := op.Check(ctx, src)
	require.NoError(t, err)
	require.Len(t, report.Fragments, 2, "script content is not a fragment")
	assert.Empty(t, report.Warnings)

	var pairs []string
	for _, s := range report.Suggestions {
		pairs = append(pairs, fmt.Sprintf("%s:%s>%s", s.RuleID, s.Before, s.After))
	}
	assert.Equal(t, []string{"MSTP.001:Click on>Click", "MSTP.003:e-mail>email", "MSTP.009:&>and"}, pairs)
	assert.Equal(t, string(src), report.Document.Render(), "check must not modify the document")

	t.Run("nothing_accepted", func(t *testing.T) {
		out, err := op.Apply(ctx, src, report.Suggestions)
		require.NoError(t, err)
		assert.Equal(t, string(src), out.Document)
		assert.Zero(t, out.Applied)
		assert.True(t, out.Diff.Empty(), "identical documents diff to nothing")
	})

	t.Run("all_accepted", func(t *testing.T) {
		decisions := append([]suggest.Suggestion(nil), report.Suggestions...)
		suggest.AcceptAll(decisions)

		out, err := op.Apply(ctx, src, decisions)
		require.NoError(t, err)
		assert.Equal(t, "<html>\n<body>\n<p>Click the button to send an email.</p>\n<p>Save and Exit.</p>\n<script>click on</script>\n</body>\n</html>\n", out.Document)
		assert.Equal(t, string(src), out.Original)
		assert.Equal(t, 3, out.Applied)
		assert.Equal(t, 2, out.Changed)
		assert.Equal(t, 2, out.Diff.Stats.Added)
		assert.Equal(t, 2, out.Diff.Stats.Removed)
		assert.Contains(t, out.Diff.Unified(), "+<p>Save and Exit.</p>")
		assert.Equal(t, string(src), report.Document.Render(), "apply works on its own parse, not the checked tree")
	})

	t.Run("separate_operator_applies_saved_decisions", func(t *testing.T) {
		decisions := append([]suggest.Suggestion(nil), report.Suggestions...)
		suggest.AcceptAll(decisions)

		later, err := FromConfig(ctx, config.Default())
		require.NoError(t, err)
		out, err := later.Apply(ctx, src, decisions)
		require.NoError(t, err)
		assert.Equal(t, 3, out.Applied)
		assert.Zero(t, out.Skipped, "fragment indices from a fresh parse match the checked ones")
	})

	t.Run("decisions_round_trip_through_csv", func(t *testing.T) {
		decisions := append([]suggest.Suggestion(nil), report.Suggestions...)
		decisions[1].Accepted = true

		var buf bytes.Buffer
		require.NoError(t, suggest.WriteCSV(&buf, decisions))
		read, err := suggest.ReadCSV(&buf)
		require.NoError(t, err)

		out, err := op.Apply(ctx, src, read)
		require.NoError(t, err)
		assert.Contains(t, out.Document, "Click on the button to send an email.")
		assert.Contains(t, out.Document, "Save &amp; Exit.")
		assert.Equal(t, 1, out.Applied)
	})
}

func TestFromConfig_SkipTagsAndCustomRules(t *testing.T) {
	ctx := testContext()

	cfg := &config.Config{
		SkipTags: []string{"script", "style", "code"},
		Enable:   []string{"house.*", "MSTP.008"},
		Rules:    []config.RuleConfig{{ID: "house.utilize", Pattern: `\butilize\b`, Replacement: "use", IgnoreCase: true, PreserveCase: true}},
	}
	require.NoError(t, cfg.Validate())

	op, err := FromConfig(ctx, cfg)
	require.NoError(t, err)

	report, err := op.Check(ctx, []byte(`<p>Utilize <code>pick()</code> to pick.</p>`))
	require.NoError(t, err)

	require.Len(t, report.Suggestions, 2)
	assert.Equal(t, "house.utilize", report.Suggestions[0].RuleID)
	assert.Equal(t, "Use", report.Suggestions[0].After, "case should be preserved")
	assert.Equal(t, "MSTP.008", report.Suggestions[1].RuleID)
	assert.Equal(t, "pick", report.Suggestions[1].Before)
}

func TestFromConfig_GrammarAdvisor(t *testing.T) {
	ctx := testContext()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		assert.Equal(t, "en-US", r.PostForm.Get("language"))
		w.Header().Set("Content-Type", "application/json")
		switch r.PostForm.Get("text") {
		case "This are fine.":
			fmt.Fprint(w, `{"matches":[{"message":"Agreement","offset":5,"length":3,"replacements":[{"value":"is"}],"rule":{"id":"AGREEMENT"}}]}`)
		case "Broken one.":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			fmt.Fprint(w, `{"matches":[]}`)
		}
	}))
	defer srv.Close()

	cfg := &config.Config{Grammar: config.GrammarConfig{Enabled: true, Endpoint: srv.URL}}
	require.NoError(t, cfg.Validate())

	op, err := FromConfig(ctx, cfg)
	require.NoError(t, err)

	src := []byte(`<p>Click on it.</p><p>This are fine.</p><p>Broken one.</p>`)
	report, err := op.Check(ctx, src)
	require.NoError(t, err, "advisor failures are warnings")
	assert.True(t, report.Grammar)
	assert.Equal(t, 16, report.Rules)

	require.Len(t, report.Suggestions, 2)
	assert.Equal(t, suggest.CategoryStyle, report.Suggestions[0].Category)
	assert.Equal(t, suggest.Suggestion{
		Category:    suggest.CategoryGrammar,
		RuleID:      "AGREEMENT",
		Description: "Agreement",
		Path:        "p",
		Fragment:    1,
		Before:      "are",
		After:       "is",
	}, report.Suggestions[1])

	require.Len(t, report.Warnings, 1)
	assert.Equal(t, 2, report.Warnings[0].Fragment)

	suggest.AcceptAll(report.Suggestions)
	out, err := op.Apply(ctx, src, report.Suggestions)
	require.NoError(t, err)
	assert.Equal(t, `<p>Click it.</p><p>This is fine.</p><p>Broken one.</p>`, out.Document)
}

func TestApply_BadDecisionsAreSkipped(t *testing.T) {
	ctx := testContext()
	op, err := FromConfig(ctx, config.Default())
	require.NoError(t, err)

	src := []byte(`<p>Pick a file.</p>`)
	out, err := op.Apply(ctx, src, []suggest.Suggestion{
		{Category: suggest.CategoryStyle, RuleID: "MSTP.008", Path: "p", Fragment: 0, Before: "pick", After: "choose", Accepted: true},
		{Category: suggest.CategoryStyle, RuleID: "MSTP.008", Path: "p", Fragment: 0, Before: "Pick", After: "Choose", Accepted: true},
	})
	require.NoError(t, err)
	assert.Equal(t, `<p>Choose a file.</p>`, out.Document)
	assert.Equal(t, 1, out.Applied)
	assert.Equal(t, 1, out.Skipped)
}
