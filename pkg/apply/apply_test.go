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

package apply

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/stylecheck/pkg/fragment"
	"github.com/walteh/stylecheck/pkg/markup"
	"github.com/walteh/stylecheck/pkg/rules"
	"github.com/walteh/stylecheck/pkg/suggest"
	"golang.org/x/text/language"
)

func testContext() context.Context {
	return zerolog.New(os.Stderr).WithContext(context.Background())
}

func load(t *testing.T, ctx context.Context, src string) (*markup.Document, []fragment.Fragment) {
	t.Helper()
	doc, err := markup.ParseString(ctx, src)
	require.NoError(t, err, "parsing markup should succeed")
	frags, err := fragment.NewExtractor().Extract(ctx, doc)
	require.NoError(t, err, "extracting fragments should succeed")
	return doc, frags
}

func TestApply_Scenarios(t *testing.T) {
	ctx := testContext()

	tests := []struct {
		name        string
		doc         string
		want        string
		wantChanged int
		wantApplied int
	}{
		{
			name:        "click_on_and_email",
			doc:         `<html><body><p class="step">Click on the button to send an e-mail.</p></body></html>`,
			want:        `<html><body><p class="step">Click the button to send an email.</p></body></html>`,
			wantChanged: 1,
			wantApplied: 2,
		},
		{
			name:        "ampersand_entity",
			doc:         `<p>Save &amp; Exit.</p>`,
			want:        `<p>Save and Exit.</p>`,
			wantChanged: 1,
			wantApplied: 1,
		},
		{
			name:        "markup_and_skipped_containers_untouched",
			doc:         "<!DOCTYPE html>\n<p title=\"click on\">Pick a file &nbsp;now.</p>\n<script>pick()</script>\n<p>Nothing here.</p>\n",
			want:        "<!DOCTYPE html>\n<p title=\"click on\">Choose a file &nbsp;now.</p>\n<script>pick()</script>\n<p>Nothing here.</p>\n",
			wantChanged: 1,
			wantApplied: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, frags := load(t, ctx, tt.doc)
			res, err := suggest.NewGenerator(rules.Default(language.AmericanEnglish)).Generate(ctx, frags)
			require.NoError(t, err)

			sugg := res.Suggestions
			suggest.AcceptAll(sugg)

			out, err := Apply(ctx, doc, frags, sugg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Document)
			assert.Equal(t, tt.wantChanged, out.Changed)
			assert.Equal(t, tt.wantApplied, out.Applied)
			assert.Equal(t, 0, out.Skipped)
		})
	}
}

func TestApply_NothingAcceptedIsByteIdentical(t *testing.T) {
	ctx := testContext()
	src := "<html>\r\n<body><p>Click on it &amp; pick.</p><p>e-mail</p>\r\n</body></html>"
	doc, frags := load(t, ctx, src)

	res, err := suggest.NewGenerator(rules.Default(language.AmericanEnglish)).Generate(ctx, frags)
	require.NoError(t, err)
	require.NotEmpty(t, res.Suggestions)

	out, err := Apply(ctx, doc, frags, res.Suggestions)
	require.NoError(t, err)
	assert.Equal(t, src, out.Document)
	assert.Equal(t, 0, out.Changed)

	out, err = Apply(ctx, doc, frags, nil)
	require.NoError(t, err)
	assert.Equal(t, src, out.Document)
	assert.Equal(t, 0, out.Changed)
}

func TestApply_MissingBeforeIsSkipped(t *testing.T) {
	ctx := testContext()
	doc, frags := load(t, ctx, `<p>Click on the button.</p>`)
	require.Len(t, frags, 1)

	sugg := []suggest.Suggestion{
		{Category: suggest.CategoryStyle, RuleID: "A", Path: frags[0].Path, Fragment: 0, Before: "Click on", After: "Click", Accepted: true},
		// consumed by the pair above
		{Category: suggest.CategoryStyle, RuleID: "B", Path: frags[0].Path, Fragment: 0, Before: "click on", After: "select", Accepted: true},
		{Category: suggest.CategoryStyle, RuleID: "C", Path: frags[0].Path, Fragment: 0, Before: "Click on the", After: "Press the", Accepted: true},
	}

	out, err := Apply(ctx, doc, frags, sugg)
	require.NoError(t, err)
	assert.Equal(t, `<p>Click the button.</p>`, out.Document)
	assert.Equal(t, 1, out.Changed)
	assert.Equal(t, 1, out.Applied)
	assert.Equal(t, 2, out.Skipped)
}

func TestApply_FirstOccurrencePerPair(t *testing.T) {
	ctx := testContext()
	doc, frags := load(t, ctx, `<p>pick this, pick that, pick more</p>`)

	pair := suggest.Suggestion{Category: suggest.CategoryStyle, RuleID: "MSTP.008", Path: "p", Fragment: 0, Before: "pick", After: "choose", Accepted: true}
	out, err := Apply(ctx, doc, frags, []suggest.Suggestion{pair, pair})
	require.NoError(t, err)
	assert.Equal(t, `<p>choose this, choose that, pick more</p>`, out.Document)
	assert.Equal(t, 2, out.Applied)
	assert.Equal(t, 1, out.Changed)
}

func TestApply_IdenticalPathsDoNotBleed(t *testing.T) {
	ctx := testContext()
	doc, frags := load(t, ctx, `<ul><li>Click on Save.</li><li>Click on Close.</li></ul>`)
	require.Len(t, frags, 2)
	require.Equal(t, frags[0].Path, frags[1].Path, "siblings share a display path")

	out, err := Apply(ctx, doc, frags, []suggest.Suggestion{
		{Category: suggest.CategoryStyle, RuleID: "MSTP.001", Path: frags[1].Path, Fragment: 1, Before: "Click on", After: "Click", Accepted: true},
	})
	require.NoError(t, err)
	assert.Equal(t, `<ul><li>Click on Save.</li><li>Click Close.</li></ul>`, out.Document)
	assert.Equal(t, 1, out.Changed)
}

func TestApply_PathFallback(t *testing.T) {
	ctx := testContext()
	doc, frags := load(t, ctx, `<ul><li>Open the file.</li><li>Click on Close.</li></ul>`)

	out, err := Apply(ctx, doc, frags, []suggest.Suggestion{
		{Category: suggest.CategoryStyle, RuleID: "MSTP.001", Path: "ul > li", Fragment: suggest.NoFragment, Before: "Click on", After: "Click", Accepted: true},
		{Category: suggest.CategoryStyle, RuleID: "X", Path: "div", Fragment: suggest.NoFragment, Before: "Open", After: "Load", Accepted: true},
	})
	require.NoError(t, err)
	assert.Equal(t, `<ul><li>Open the file.</li><li>Click Close.</li></ul>`, out.Document)
	assert.Equal(t, 1, out.Changed)
	assert.Equal(t, 1, out.Skipped, "unknown path is skipped")
}

func TestApply_StaleDecisionIsSkipped(t *testing.T) {
	ctx := testContext()
	doc, frags := load(t, ctx, `<p>Click on it.</p>`)

	out, err := Apply(ctx, doc, frags, []suggest.Suggestion{
		{Category: suggest.CategoryStyle, RuleID: "MSTP.001", Path: "div > p", Fragment: 0, Before: "Click on", After: "Click", Accepted: true},
		{Category: suggest.CategoryStyle, RuleID: "MSTP.001", Path: "p", Fragment: 7, Before: "Click on", After: "Click", Accepted: true},
	})
	require.NoError(t, err)
	assert.Equal(t, `<p>Click on it.</p>`, out.Document)
	assert.Equal(t, 2, out.Skipped)
}

func TestApply_NilDocument(t *testing.T) {
	_, err := Apply(context.Background(), nil, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document is required")
}
