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
	"io"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/net/html"
)

// 🏷️ NodeType identifies the kind of a node
type NodeType int

const (
	DocumentNode NodeType = iota
	ElementNode
	TextNode
	CommentNode
	DoctypeNode
	EndTagNode // closing tag token, kept for serialization only
	RawNode    // trailing bytes the tokenizer could not complete
)

// String returns a string representation of NodeType
func (t NodeType) String() string {
	switch t {
	case DocumentNode:
		return "document"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case DoctypeNode:
		return "doctype"
	case EndTagNode:
		return "end_tag"
	case RawNode:
		return "raw"
	default:
		return "unknown"
	}
}

// 🌳 Node is one node of the markup tree
type Node struct {
	Type     NodeType
	Tag      string // Lower-cased tag name for elements and end tags
	Attrs    []html.Attribute
	Parent   *Node
	Children []*Node

	raw     string
	segs    []segment
	rawText bool
}

// ID returns the element's id attribute
func (n *Node) ID() string {
	return n.Attr("id")
}

// Classes returns the element's class names in source order
func (n *Node) Classes() []string {
	return strings.Fields(n.Attr("class"))
}

// Attr returns the value of the named attribute, or ""
func (n *Node) Attr(key string) string {
	for _, a := range n.Attrs {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

// Element returns the nearest element ancestor, or nil at the top level
func (n *Node) Element() *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == ElementNode {
			return p
		}
	}
	return nil
}

// Text returns the decoded text of a text node
func (n *Node) Text() string {
	if n.Type != TextNode {
		return ""
	}
	return joinText(n.segs)
}

// Raw returns the source bytes of the node's own token
func (n *Node) Raw() string {
	if n.Type == TextNode {
		return joinRaw(n.segs)
	}
	return n.raw
}

// 🔄 ReplaceFirst replaces the first occurrence of before in the node's text.
// It reports false, changing nothing, when before does not occur.
func (n *Node) ReplaceFirst(before, after string) bool {
	if n.Type != TextNode || before == "" {
		return false
	}
	i := strings.Index(n.Text(), before)
	if i < 0 {
		return false
	}
	n.segs = replaceSpan(n.segs, i, i+len(before), after, n.rawText)
	return true
}

// 📄 Document is a parsed markup document that serializes back to its exact
// source bytes, apart from text rewritten through ReplaceFirst
type Document struct {
	Root   *Node
	tokens []*Node
}

// rawTextTags are elements whose content is not entity-decoded
var rawTextTags = map[string]bool{
	"script": true, "style": true, "xmp": true, "iframe": true,
	"noembed": true, "noframes": true, "noscript": true, "plaintext": true,
}

var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "param": true,
	"source": true, "track": true, "wbr": true,
}

// impliedEnd lists, per start tag, the open elements it closes implicitly
var impliedEnd = map[string][]string{
	"p":      {"p"},
	"li":     {"li"},
	"dt":     {"dt", "dd"},
	"dd":     {"dt", "dd"},
	"tr":     {"tr", "td", "th"},
	"td":     {"td", "th"},
	"th":     {"td", "th"},
	"option": {"option"},
}

func init() {
	for _, tag := range []string{
		"address", "article", "aside", "blockquote", "div", "dl", "fieldset", "footer",
		"form", "h1", "h2", "h3", "h4", "h5", "h6", "header", "hr", "menu", "nav", "ol",
		"pre", "section", "table", "ul",
	} {
		impliedEnd[tag] = append(impliedEnd[tag], "p")
	}
}

// 📝 Parse reads a markup document. Parsing is lenient: stray end tags are
// kept verbatim and unclosed elements close at the end of input.
func Parse(ctx context.Context, r io.Reader) (*Document, error) {
	logger := zerolog.Ctx(ctx)

	doc := &Document{Root: &Node{Type: DocumentNode}}
	stack := []*Node{doc.Root}
	current := func() *Node { return stack[len(stack)-1] }

	appendChild := func(n *Node) {
		parent := current()
		n.Parent = parent
		parent.Children = append(parent.Children, n)
		doc.tokens = append(doc.tokens, n)
	}

	var src bytes.Buffer
	consumed := 0

	z := html.NewTokenizer(io.TeeReader(r, &src))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				break
			}
			return nil, errors.Errorf("tokenizing markup: %w", z.Err())
		}

		raw := string(z.Raw())
		consumed += len(raw)
		tok := z.Token()

		switch tt {
		case html.TextToken:
			parent := current()
			appendChild(&Node{
				Type:    TextNode,
				segs:    splitText(raw, parent.Type == ElementNode && rawTextTags[parent.Tag]),
				rawText: parent.Type == ElementNode && rawTextTags[parent.Tag],
			})

		case html.StartTagToken, html.SelfClosingTagToken:
			for _, closes := range impliedEnd[tok.Data] {
				if cur := current(); cur.Type == ElementNode && cur.Tag == closes {
					stack = stack[:len(stack)-1]
					break
				}
			}
			n := &Node{Type: ElementNode, Tag: tok.Data, Attrs: tok.Attr, raw: raw}
			appendChild(n)
			if tt == html.StartTagToken && !voidTags[tok.Data] {
				stack = append(stack, n)
			}

		case html.EndTagToken:
			doc.tokens = append(doc.tokens, &Node{Type: EndTagNode, Tag: tok.Data, raw: raw})
			closed := false
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].Tag == tok.Data {
					stack = stack[:i]
					closed = true
					break
				}
			}
			if !closed {
				logger.Debug().Str("tag", tok.Data).Msg("stray end tag kept verbatim")
			}

		case html.CommentToken:
			appendChild(&Node{Type: CommentNode, raw: raw})

		case html.DoctypeToken:
			appendChild(&Node{Type: DoctypeNode, raw: raw})
		}
	}

	if rest := src.Bytes()[consumed:]; len(rest) > 0 {
		doc.tokens = append(doc.tokens, &Node{Type: RawNode, raw: string(rest)})
	}

	logger.Debug().Int("tokens", len(doc.tokens)).Msg("parsed markup document")
	return doc, nil
}

// ParseString parses a markup document held in memory
func ParseString(ctx context.Context, s string) (*Document, error) {
	return Parse(ctx, strings.NewReader(s))
}

// 🚶 Walk visits every node below the root in document order. Returning
// false from fn skips the node's children.
func (d *Document) Walk(fn func(n *Node) bool) {
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			if fn(c) {
				walk(c)
			}
		}
	}
	walk(d.Root)
}

// TextNodes returns every text node in document order
func (d *Document) TextNodes() []*Node {
	var out []*Node
	d.Walk(func(n *Node) bool {
		if n.Type == TextNode {
			out = append(out, n)
		}
		return true
	})
	return out
}

// 📤 Render serializes the document
func (d *Document) Render() string {
	var b strings.Builder
	for _, t := range d.tokens {
		b.WriteString(t.Raw())
	}
	return b.String()
}

// WriteTo writes the serialized document to w
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.Render())
	if err != nil {
		return int64(n), errors.Errorf("writing document: %w", err)
	}
	return int64(n), nil
}
