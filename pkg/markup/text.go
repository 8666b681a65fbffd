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
	"strings"

	"golang.org/x/net/html"
)

// segment is a run of raw source bytes and the text it decodes to. Literal
// segments decode to themselves; entity segments hold one character reference.
type segment struct {
	raw    string
	text   string
	entity bool
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// splitText breaks raw text content into literal runs and character references
func splitText(raw string, rawText bool) []segment {
	if raw == "" {
		return nil
	}
	if rawText {
		return []segment{{raw: raw, text: raw}}
	}

	var segs []segment
	start := 0
	flush := func(end int) {
		if end > start {
			segs = append(segs, segment{raw: raw[start:end], text: raw[start:end]})
		}
	}

	for i := 0; i < len(raw); {
		if raw[i] != '&' {
			i++
			continue
		}
		j := referenceEnd(raw, i)
		ref := raw[i:j]
		decoded := html.UnescapeString(ref)
		if j == i+1 || decoded == ref {
			i++
			continue
		}
		flush(i)
		segs = append(segs, segment{raw: ref, text: decoded, entity: true})
		i = j
		start = j
	}
	flush(len(raw))
	return segs
}

// referenceEnd returns the end of a candidate character reference starting at i
func referenceEnd(s string, i int) int {
	j := i + 1
	if j < len(s) && s[j] == '#' {
		j++
		if j < len(s) && (s[j] == 'x' || s[j] == 'X') {
			j++
		}
	}
	for j < len(s) && isAlnum(s[j]) {
		j++
	}
	if j < len(s) && s[j] == ';' {
		j++
	}
	return j
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func joinText(segs []segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.text)
	}
	return b.String()
}

func joinRaw(segs []segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.raw)
	}
	return b.String()
}

// replaceSpan rewrites the decoded span [start, end) with repl. Only the raw
// bytes covering the span change; a character reference cut by the span keeps
// its uncovered text, re-escaped.
func replaceSpan(segs []segment, start, end int, repl string, rawText bool) []segment {
	escape := func(s string) string {
		if rawText {
			return s
		}
		return textEscaper.Replace(s)
	}
	literal := func(text string) segment {
		return segment{raw: escape(text), text: text}
	}

	out := make([]segment, 0, len(segs)+2)
	inserted := false
	insert := func() {
		if !inserted && repl != "" {
			out = append(out, literal(repl))
		}
		inserted = true
	}

	pos := 0
	for _, seg := range segs {
		segStart, segEnd := pos, pos+len(seg.text)
		pos = segEnd

		if segEnd <= start {
			out = append(out, seg)
			continue
		}
		if segStart >= end {
			insert()
			out = append(out, seg)
			continue
		}

		if segStart < start {
			prefix := seg.text[:start-segStart]
			if seg.entity {
				out = append(out, literal(prefix))
			} else {
				out = append(out, segment{raw: prefix, text: prefix})
			}
		}
		if segEnd >= end {
			insert()
			if segEnd > end {
				suffix := seg.text[end-segStart:]
				if seg.entity {
					out = append(out, literal(suffix))
				} else {
					out = append(out, segment{raw: suffix, text: suffix})
				}
			}
		}
	}
	insert()
	return out
}
