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

package markup

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RenderIsByteIdentical(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "plain_text", input: "just text, no tags"},
		{
			name:  "full_document",
			input: "<!DOCTYPE html>\n<html lang=\"en\">\n<head><title>A &amp; B</title>\n<style>p { color: red; }</style></head>\n<body>\n  <p class='x'  id=main>Hello&nbsp;world</p>\n</body>\n</html>\n",
		},
		{
			name:  "xml_declaration_and_namespaced_tags",
			input: "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<html xmlns:MadCap=\"http://www.madcapsoftware.com/Schemas/MadCap.xsd\"><body><MadCap:keyword term=\"x\" /><p>Text</p></body></html>",
		},
		{name: "stray_end_tag", input: "<div>a</span>b</div>"},
		{name: "unclosed_elements", input: "<div><p>one<p>two"},
		{name: "crlf_line_endings", input: "<p>one\r\ntwo</p>\r\n"},
		{name: "truncated_tag", input: "<p>text</p><div"},
		{name: "script_with_markup_chars", input: "<script>if (a < b && c) { x = '<p>'; }</script>"},
		{name: "comments_and_cdata", input: "<!-- note --><![CDATA[ raw ]]><p>x</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseString(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.input, doc.Render(), "unmodified document should render byte-identical")

			var buf bytes.Buffer
			n, err := doc.WriteTo(&buf)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.input)), n)
			assert.Equal(t, tt.input, buf.String())
		})
	}
}

func TestParse_Tree(t *testing.T) {
	doc, err := ParseString(context.Background(), `<html><body><div id="main" class="content wide"><p>First</p><p>Second<br>line</p></div><script>var x;</script></body></html>`)
	require.NoError(t, err)

	texts := doc.TextNodes()
	require.Len(t, texts, 4)

	assert.Equal(t, "First", texts[0].Text())
	p := texts[0].Element()
	require.NotNil(t, p)
	assert.Equal(t, "p", p.Tag)

	div := p.Element()
	require.NotNil(t, div)
	assert.Equal(t, "div", div.Tag)
	assert.Equal(t, "main", div.ID())
	assert.Equal(t, []string{"content", "wide"}, div.Classes())

	assert.Equal(t, "Second", texts[1].Text())
	assert.Equal(t, "line", texts[2].Text())
	assert.Equal(t, "p", texts[2].Element().Tag, "void br should not swallow following text")

	assert.Equal(t, "var x;", texts[3].Text())
	assert.Equal(t, "script", texts[3].Element().Tag)
}

func TestParse_ImpliedEnd(t *testing.T) {
	doc, err := ParseString(context.Background(), `<body><p>one<p>two<div>three</div></body>`)
	require.NoError(t, err)

	texts := doc.TextNodes()
	require.Len(t, texts, 3)
	for _, n := range texts[:2] {
		assert.Equal(t, "p", n.Element().Tag)
		assert.Equal(t, "body", n.Element().Element().Tag, "sibling paragraphs should not nest")
	}
	assert.Equal(t, "body", texts[2].Element().Element().Tag, "div should close the open paragraph")
}

func TestNode_TextDecodesEntities(t *testing.T) {
	doc, err := ParseString(context.Background(), `<p>Save &amp; Exit &lt;now&gt; &#169; &copy &unknown; & done</p>`)
	require.NoError(t, err)

	texts := doc.TextNodes()
	require.Len(t, texts, 1)
	assert.Equal(t, "Save & Exit <now> © © &unknown; & done", texts[0].Text())
}

func TestNode_ReplaceFirst(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		before  string
		after   string
		wantOK  bool
		wantDoc string
	}{
		{
			name:    "literal_text",
			input:   `<p class="a">Click on the button.</p>`,
			before:  "Click on",
			after:   "Click",
			wantOK:  true,
			wantDoc: `<p class="a">Click the button.</p>`,
		},
		{
			name:    "entity_replaced_entirely",
			input:   `<p>Save &amp; Exit.</p>`,
			before:  "&",
			after:   "and",
			wantOK:  true,
			wantDoc: `<p>Save and Exit.</p>`,
		},
		{
			name:    "other_entities_untouched",
			input:   `<p>A&nbsp;e-mail &amp; more</p>`,
			before:  "e-mail",
			after:   "email",
			wantOK:  true,
			wantDoc: `<p>A&nbsp;email &amp; more</p>`,
		},
		{
			name:    "first_occurrence_only",
			input:   `<p>pick one, pick two</p>`,
			before:  "pick",
			after:   "choose",
			wantOK:  true,
			wantDoc: `<p>choose one, pick two</p>`,
		},
		{
			name:    "inserted_text_is_escaped",
			input:   `<p>R and D</p>`,
			before:  "and",
			after:   "&",
			wantOK:  true,
			wantDoc: `<p>R &amp; D</p>`,
		},
		{
			name:    "span_across_entity",
			input:   `<p>x&amp;y</p>`,
			before:  "x&",
			after:   "z",
			wantOK:  true,
			wantDoc: `<p>zy</p>`,
		},
		{
			name:    "missing_before",
			input:   `<p>nothing</p>`,
			before:  "absent",
			after:   "x",
			wantOK:  false,
			wantDoc: `<p>nothing</p>`,
		},
		{
			name:    "deletion",
			input:   `<p>very very good</p>`,
			before:  "very ",
			after:   "",
			wantOK:  true,
			wantDoc: `<p>very good</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseString(context.Background(), tt.input)
			require.NoError(t, err)

			texts := doc.TextNodes()
			require.Len(t, texts, 1)

			ok := texts[0].ReplaceFirst(tt.before, tt.after)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantDoc, doc.Render())
		})
	}
}

func TestSplitText_PartialEntityCut(t *testing.T) {
	segs := splitText("a&notit;b", false)
	require.Equal(t, "a¬it;b", joinText(segs))

	out := replaceSpan(segs, 1, 3, "X", false)
	assert.Equal(t, "aXit;b", joinText(out))
	assert.Equal(t, "aXit;b", joinRaw(out), "uncovered text of a cut reference is kept")
}
