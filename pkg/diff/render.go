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
	"html"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	preOpen      = "<pre style='font-family: ui-monospace, Menlo, Consolas, monospace; font-size:12px; white-space: pre-wrap'>"
	addedStyle   = "background:#eaffea"
	removedStyle = "background:#ffecec"
)

// 🌐 HTML renders the diff as a preformatted block with added lines on green
// and removed lines on red. Line text is escaped.
func (d *Diff) HTML() string {
	lines := make([]string, 0, len(d.Lines)+2)
	lines = append(lines, preOpen)
	for _, l := range d.Lines {
		text := html.EscapeString(d.display(l.Text))
		switch l.Kind {
		case KindAdded:
			lines = append(lines, "<span style='"+addedStyle+"'>"+text+"</span>")
		case KindRemoved:
			lines = append(lines, "<span style='"+removedStyle+"'>"+text+"</span>")
		default:
			lines = append(lines, text)
		}
	}
	lines = append(lines, "</pre>")
	return strings.Join(lines, "\n")
}

// HTML diffs two documents and renders an HTML block
func HTML(before, after string, opts Options) (string, Stats, error) {
	d, err := Compute(before, after, opts)
	if err != nil {
		return "", Stats{}, err
	}
	return d.HTML(), d.Stats, nil
}

var (
	headerColor     = color.New(color.Bold)
	hunkColor       = color.New(color.FgCyan)
	addedColor      = color.New(color.FgGreen)
	removedColor    = color.New(color.FgRed)
	addedEmphasis   = color.New(color.FgGreen, color.Bold, color.ReverseVideo)
	removedEmphasis = color.New(color.FgRed, color.Bold, color.ReverseVideo)
)

// 🎨 Terminal renders the diff with ANSI colors. A run of removed lines
// followed by a run of added lines of the same length is paired line by line
// and the changed words are emphasized.
func (d *Diff) Terminal() string {
	var b strings.Builder
	write := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	for i := 0; i < len(d.Lines); {
		l := d.Lines[i]
		switch l.Kind {
		case KindHeader:
			write(headerColor.Sprint(d.display(l.Text)))
			i++
		case KindHunk:
			write(hunkColor.Sprint(d.display(l.Text)))
			i++
		case KindContext:
			write(d.display(l.Text))
			i++
		case KindAdded:
			write(addedColor.Sprint(d.display(l.Text)))
			i++
		case KindRemoved:
			removed := run(d.Lines, i, KindRemoved)
			added := run(d.Lines, i+len(removed), KindAdded)
			if len(added) != len(removed) || d.opts.MaxLength > 0 {
				for _, r := range removed {
					write(removedColor.Sprint(d.display(r.Text)))
				}
				i += len(removed)
				continue
			}
			var olds, news []string
			for j := range removed {
				o, n := emphasize(removed[j].Text[1:], added[j].Text[1:])
				olds = append(olds, removedColor.Sprint("-")+o)
				news = append(news, addedColor.Sprint("+")+n)
			}
			for _, s := range olds {
				write(s)
			}
			for _, s := range news {
				write(s)
			}
			i += len(removed) + len(added)
		}
	}
	return b.String()
}

// Terminal diffs two documents and renders colored text
func Terminal(before, after string, opts Options) (string, Stats, error) {
	d, err := Compute(before, after, opts)
	if err != nil {
		return "", Stats{}, err
	}
	return d.Terminal(), d.Stats, nil
}

func run(lines []Line, start int, kind Kind) []Line {
	end := start
	for end < len(lines) && lines[end].Kind == kind {
		end++
	}
	return lines[start:end]
}

// emphasize colors the old and new versions of a line, highlighting the
// spans that differ
func emphasize(oldLine, newLine string) (string, string) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(oldLine, newLine, false))

	var o, n strings.Builder
	for _, df := range diffs {
		switch df.Type {
		case diffmatchpatch.DiffEqual:
			o.WriteString(removedColor.Sprint(df.Text))
			n.WriteString(addedColor.Sprint(df.Text))
		case diffmatchpatch.DiffDelete:
			o.WriteString(removedEmphasis.Sprint(df.Text))
		case diffmatchpatch.DiffInsert:
			n.WriteString(addedEmphasis.Sprint(df.Text))
		}
	}
	return o.String(), n.String()
}
