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

package fragment

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/stylecheck/pkg/markup"
	"gitlab.com/tozd/go/errors"
)

// PathSeparator joins the ancestors of a structural path
const PathSeparator = " > "

// DefaultSkipTags are the non-prose containers skipped by default
var DefaultSkipTags = []string{"script", "style"}

// DefaultMinLength is the minimum trimmed length, in characters, of a fragment
const DefaultMinLength = 2

// 📄 Fragment is an addressable run of prose text
type Fragment struct {
	Index   int    // Position in document order, unique within one extraction
	Content string // Decoded text at extraction time
	Path    string // Display locator, not unique

	node *markup.Node
}

// Node returns the live text node the fragment was read from
func (f Fragment) Node() *markup.Node {
	return f.node
}

// 🔧 Extractor walks a markup tree and yields fragments
type Extractor struct {
	skip      map[string]bool
	minLength int
}

// Option configures an Extractor
type Option func(*Extractor)

// WithSkipTags replaces the set of non-prose containers
func WithSkipTags(tags ...string) Option {
	return func(e *Extractor) {
		e.skip = make(map[string]bool, len(tags))
		for _, t := range tags {
			e.skip[strings.ToLower(t)] = true
		}
	}
}

// WithMinLength sets the minimum trimmed length of a fragment
func WithMinLength(n int) Option {
	return func(e *Extractor) {
		e.minLength = n
	}
}

// 🏭 NewExtractor creates an extractor with the default policy
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{minLength: DefaultMinLength}
	WithSkipTags(DefaultSkipTags...)(e)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// 🔍 Extract returns the document's prose fragments in document order. The
// tree is only read.
func (e *Extractor) Extract(ctx context.Context, doc *markup.Document) ([]Fragment, error) {
	if doc == nil {
		return nil, errors.New("document is required")
	}
	logger := zerolog.Ctx(ctx)

	var out []Fragment
	skipped := 0
	for _, n := range doc.TextNodes() {
		if el := n.Element(); el != nil && e.skip[el.Tag] {
			skipped++
			continue
		}
		text := n.Text()
		if utf8.RuneCountInString(strings.TrimSpace(text)) < e.minLength {
			continue
		}
		out = append(out, Fragment{
			Index:   len(out),
			Content: text,
			Path:    Path(n),
			node:    n,
		})
	}

	logger.Debug().Int("fragments", len(out)).Int("skipped_containers", skipped).Msg("extracted fragments")
	return out, nil
}

// 🧭 Path builds the structural locator of a node from its element ancestors,
// root first, e.g. "html > body > div#main.content > p"
func Path(n *markup.Node) string {
	var parts []string
	for el := n.Element(); el != nil; el = el.Element() {
		name := el.Tag
		if id := el.ID(); id != "" {
			name += "#" + id
		}
		if classes := el.Classes(); len(classes) > 0 {
			name += "." + strings.Join(classes, ".")
		}
		parts = append(parts, name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, PathSeparator)
}
