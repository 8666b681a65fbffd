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

package diff

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnified(t *testing.T) {
	tests := []struct {
		name      string
		before    string
		after     string
		opts      Options
		want      string
		wantStats Stats
	}{
		{
			name:   "identical",
			before: "<p>same</p>\n",
			after:  "<p>same</p>\n",
			want:   "",
		},
		{
			name:   "one_line_changed",
			before: "a\nb\nc\n",
			after:  "a\nB\nc\n",
			want: "--- original.html\n" +
				"+++ cleaned.html\n" +
				"@@ -1,3 +1,3 @@\n" +
				" a\n" +
				"-b\n" +
				"+B\n" +
				" c\n",
			wantStats: Stats{Added: 1, Removed: 1},
		},
		{
			name:   "custom_headers_no_context",
			before: "a\nb\nc\n",
			after:  "a\nc\n",
			opts:   Options{FromFile: "in.htm", ToFile: "out.htm", Context: -1},
			want: "--- in.htm\n" +
				"+++ out.htm\n" +
				"@@ -2 +1,0 @@\n" +
				"-b\n",
			wantStats: Stats{Removed: 1},
		},
		{
			name:   "removed_line_starting_with_dashes_is_not_a_header",
			before: "x\n--- note\n",
			after:  "x\n",
			want: "--- original.html\n" +
				"+++ cleaned.html\n" +
				"@@ -1,2 +1 @@\n" +
				" x\n" +
				"---- note\n",
			wantStats: Stats{Removed: 1},
		},
		{
			name:   "missing_final_newline",
			before: "a\nb",
			after:  "a\nB",
			want: "--- original.html\n" +
				"+++ cleaned.html\n" +
				"@@ -1,2 +1,2 @@\n" +
				" a\n" +
				"-b\n" +
				"+B\n",
			wantStats: Stats{Added: 1, Removed: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, stats, err := Unified(tt.before, tt.after, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantStats, stats)
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "trailing_newline", in: "a\nb\n", want: []string{"a\n", "b\n"}},
		{name: "no_trailing_newline", in: "a\nb", want: []string{"a\n", "b\n"}},
		{name: "blank_last_line_kept", in: "a\n\n", want: []string{"a\n", "\n"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitLines(tt.in))
		})
	}
}

func TestCompute_Empty(t *testing.T) {
	d, err := Compute("<html>\n<p>x</p>\n</html>", "<html>\n<p>x</p>\n</html>", Options{})
	require.NoError(t, err)
	assert.True(t, d.Empty())
	assert.Equal(t, Stats{}, d.Stats)
	assert.Equal(t, "", d.Unified())
	assert.Equal(t, preOpen+"\n</pre>", d.HTML())
	assert.Equal(t, "", d.Terminal())
}

func TestHTML_EscapesAndColors(t *testing.T) {
	got, stats, err := HTML("<p>Click on it.</p>\n", "<p>Click it.</p>\n", Options{})
	require.NoError(t, err)
	assert.Equal(t, Stats{Added: 1, Removed: 1}, stats)

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, preOpen, lines[0])
	assert.Equal(t, "--- original.html", lines[1])
	assert.Equal(t, "<span style='background:#ffecec'>-&lt;p&gt;Click on it.&lt;/p&gt;</span>", lines[4])
	assert.Equal(t, "<span style='background:#eaffea'>+&lt;p&gt;Click it.&lt;/p&gt;</span>", lines[5])
	assert.Equal(t, "</pre>", lines[6])
}

func TestTerminal_NoColor(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	got, _, err := Terminal("keep\nClick on it\nold\n", "keep\nClick it\n", Options{})
	require.NoError(t, err)
	assert.Equal(t, "--- original.html\n"+
		"+++ cleaned.html\n"+
		"@@ -1,3 +1,2 @@\n"+
		" keep\n"+
		"-Click on it\n"+
		"-old\n"+
		"+Click it\n", got)

	got, _, err = Terminal("a\nb\n", "a\nB\n", Options{})
	require.NoError(t, err)
	assert.Contains(t, got, "-b\n+B\n", "paired lines keep their text when color is off")
}

func TestTerminal_EmphasizesChangedWords(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	old, updated := emphasize("Click on it", "Click it")
	assert.True(t,
		strings.Contains(old, removedEmphasis.Sprint("on ")) || strings.Contains(old, removedEmphasis.Sprint(" on")),
		"deleted word should be emphasized: %q", old)
	assert.NotContains(t, updated, "on")
	assert.True(t, strings.HasPrefix(updated, "\x1b[32mClick"), "unchanged words keep the added color: %q", updated)
}

func TestOptions_MaxLength(t *testing.T) {
	long := strings.Repeat("界", 20)
	got, _, err := Unified("a\n", long+"\n", Options{MaxLength: 11})
	require.NoError(t, err)

	for _, line := range strings.Split(strings.TrimSuffix(got, "\n"), "\n") {
		assert.LessOrEqual(t, displayWidth(line), 11, "line %q exceeds width", line)
	}
	assert.Contains(t, got, "+界界界界…")
}

func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		switch {
		case r == '…':
			w++
		case r >= 0x2E80:
			w += 2
		default:
			w++
		}
	}
	return w
}
