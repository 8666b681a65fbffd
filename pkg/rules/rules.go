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

package rules

import (
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Match is a single matched span of a rule pattern
type Match struct {
	Start  int      // Byte offset of the match in the scanned text
	End    int      // Byte offset just past the match
	Text   string   // Exact matched text, source casing preserved
	Groups []string // Capture groups, Groups[0] == Text

	indexes []int
}

// 🔄 Replacement is either a literal template or a function of the match.
// The zero value is the empty literal.
type Replacement struct {
	literal  string
	computed func(m Match) string
}

// 📝 Literal builds a replacement from a template; $1 and ${name} expand
// against the capture groups of the single match being replaced.
func Literal(template string) Replacement {
	return Replacement{literal: template}
}

// ⚙️ Computed builds a replacement from a pure function of the match
func Computed(fn func(m Match) string) Replacement {
	return Replacement{computed: fn}
}

// IsComputed reports whether the replacement is a function
func (r Replacement) IsComputed() bool {
	return r.computed != nil
}

// String returns the literal template, or a marker for computed replacements
func (r Replacement) String() string {
	if r.computed != nil {
		return "<computed>"
	}
	return r.literal
}

// 📏 Rule maps a pattern to a replacement
type Rule struct {
	ID          string
	Description string
	Pattern     *regexp.Regexp
	Replacement Replacement
}

// 🔍 FindAll returns every non-overlapping match of the rule in text
func (r *Rule) FindAll(text string) []Match {
	all := r.Pattern.FindAllStringSubmatchIndex(text, -1)
	if len(all) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(all))
	for _, idx := range all {
		groups := make([]string, len(idx)/2)
		for g := range groups {
			if idx[2*g] >= 0 {
				groups[g] = text[idx[2*g]:idx[2*g+1]]
			}
		}
		matches = append(matches, Match{
			Start:   idx[0],
			End:     idx[1],
			Text:    text[idx[0]:idx[1]],
			Groups:  groups,
			indexes: idx,
		})
	}
	return matches
}

// 🔄 Replace returns the replacement text for one matched span of text
func (r *Rule) Replace(text string, m Match) string {
	if r.Replacement.computed != nil {
		return r.Replacement.computed(m)
	}
	if m.indexes == nil {
		// match built by hand, re-run the pattern against the span alone
		return r.Pattern.ReplaceAllString(m.Text, r.Replacement.literal)
	}
	return string(r.Pattern.ExpandString(nil, r.Replacement.literal, text, m.indexes))
}

// 📚 Set is an ordered, read-only catalog of rules
type Set struct {
	rules []*Rule
	byID  map[string]*Rule
}

// 🏭 NewSet builds a set, keeping the given order as matching priority
func NewSet(rules ...*Rule) (*Set, error) {
	s := &Set{
		rules: make([]*Rule, 0, len(rules)),
		byID:  make(map[string]*Rule, len(rules)),
	}
	for i, r := range rules {
		if r == nil {
			return nil, errors.Errorf("rule %d: rule is nil", i)
		}
		if r.ID == "" {
			return nil, errors.Errorf("rule %d: id is required", i)
		}
		if r.Pattern == nil {
			return nil, errors.Errorf("rule %s: pattern is required", r.ID)
		}
		if _, dup := s.byID[r.ID]; dup {
			return nil, errors.Errorf("rule %s: duplicate id", r.ID)
		}
		s.byID[r.ID] = r
		s.rules = append(s.rules, r)
	}
	return s, nil
}

// Rules returns the rules in priority order
func (s *Set) Rules() []*Rule {
	out := make([]*Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Len returns the number of rules
func (s *Set) Len() int {
	return len(s.rules)
}

// Get looks a rule up by id
func (s *Set) Get(id string) (*Rule, bool) {
	r, ok := s.byID[id]
	return r, ok
}

// 🎛️ Select narrows the set with rule-id glob patterns. An empty enable list
// keeps every rule; disable patterns are applied after enable patterns.
func (s *Set) Select(enable, disable []string) (*Set, error) {
	for _, p := range append(append([]string{}, enable...), disable...) {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Errorf("invalid rule pattern %q", p)
		}
	}

	var kept []*Rule
	for _, r := range s.rules {
		if len(enable) > 0 && !matchAny(enable, r.ID) {
			continue
		}
		if matchAny(disable, r.ID) {
			continue
		}
		kept = append(kept, r)
	}
	return NewSet(kept...)
}

func matchAny(patterns []string, id string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, id); ok {
			return true
		}
	}
	return false
}
