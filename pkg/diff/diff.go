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

	"github.com/mattn/go-runewidth"
	"github.com/pmezard/go-difflib/difflib"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultFromFile = "original.html"
	DefaultToFile   = "cleaned.html"
	DefaultContext  = 3
)

// 🔧 Options controls diff rendering
type Options struct {
	FromFile  string // Header name of the original, DefaultFromFile when empty
	ToFile    string // Header name of the result, DefaultToFile when empty
	Context   int    // Lines of context; 0 means DefaultContext, negative means none
	MaxLength int    // Display width each rendered line is cut to; 0 disables
}

func (o Options) withDefaults() Options {
	if o.FromFile == "" {
		o.FromFile = DefaultFromFile
	}
	if o.ToFile == "" {
		o.ToFile = DefaultToFile
	}
	switch {
	case o.Context == 0:
		o.Context = DefaultContext
	case o.Context < 0:
		o.Context = 0
	}
	return o
}

// 🏷️ Kind classifies a line of unified diff output
type Kind int

const (
	KindHeader Kind = iota
	KindHunk
	KindContext
	KindAdded
	KindRemoved
)

// Line is one line of unified diff output, prefix included
type Line struct {
	Kind Kind
	Text string
}

// 📊 Stats counts changed lines, headers excluded
type Stats struct {
	Added   int
	Removed int
}

// Diff is a computed line diff ready for rendering
type Diff struct {
	Lines []Line
	Stats Stats

	opts Options
}

// 🔍 Compute diffs two documents line by line
func Compute(before, after string, opts Options) (*Diff, error) {
	opts = opts.withDefaults()

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(before),
		B:        splitLines(after),
		FromFile: opts.FromFile,
		ToFile:   opts.ToFile,
		Context:  opts.Context,
		Eol:      "\n",
	})
	if err != nil {
		return nil, errors.Errorf("computing unified diff: %w", err)
	}

	d := &Diff{opts: opts}
	if text == "" {
		return d, nil
	}

	for i, raw := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		l := Line{Text: raw}
		switch {
		case i < 2:
			l.Kind = KindHeader
		case strings.HasPrefix(raw, "@@"):
			l.Kind = KindHunk
		case strings.HasPrefix(raw, "+"):
			l.Kind = KindAdded
			d.Stats.Added++
		case strings.HasPrefix(raw, "-"):
			l.Kind = KindRemoved
			d.Stats.Removed++
		default:
			l.Kind = KindContext
		}
		d.Lines = append(d.Lines, l)
	}
	return d, nil
}

// splitLines cuts s into newline-terminated lines. A missing final newline is
// added so the last line compares equal either way; a trailing newline does
// not produce an extra empty line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if last := len(lines) - 1; lines[last] == "" {
		lines = lines[:last]
	} else {
		lines[last] += "\n"
	}
	return lines
}

// Empty reports whether the documents were identical
func (d *Diff) Empty() bool {
	return len(d.Lines) == 0
}

// display cuts a line to the configured width
func (d *Diff) display(s string) string {
	if d.opts.MaxLength <= 0 {
		return s
	}
	return runewidth.Truncate(s, d.opts.MaxLength, "…")
}

// 📝 Unified renders plain unified diff text
func (d *Diff) Unified() string {
	var b strings.Builder
	for _, l := range d.Lines {
		b.WriteString(d.display(l.Text))
		b.WriteByte('\n')
	}
	return b.String()
}

// Unified diffs two documents and renders plain unified diff text
func Unified(before, after string, opts Options) (string, Stats, error) {
	d, err := Compute(before, after, opts)
	if err != nil {
		return "", Stats{}, err
	}
	return d.Unified(), d.Stats, nil
}
