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

package suggest

import (
	"gitlab.com/tozd/go/errors"
)

// 🏷️ Category says which pass produced a suggestion
type Category string

const (
	CategoryStyle   Category = "style"
	CategoryGrammar Category = "grammar"
)

// ParseCategory validates a category name
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryStyle, CategoryGrammar:
		return Category(s), nil
	default:
		return "", errors.Errorf("unknown category %q", s)
	}
}

// NoFragment marks a suggestion that is not tied to a fragment index
const NoFragment = -1

// 💡 Suggestion is one proposed before/after change to a fragment. Only
// Accepted changes after creation.
type Suggestion struct {
	Category    Category
	RuleID      string
	Description string
	Path        string // Display locator of the fragment
	Fragment    int    // Fragment index, or NoFragment
	Before      string // Literal text found in the fragment
	After       string
	Accepted    bool
}

// 🔑 Key is the identity of a suggestion for deduplication
type Key struct {
	Category Category
	RuleID   string
	Fragment int
	Path     string
	Before   string
	After    string
}

// Key returns the suggestion's identity
func (s Suggestion) Key() Key {
	return Key{
		Category: s.Category,
		RuleID:   s.RuleID,
		Fragment: s.Fragment,
		Path:     s.Path,
		Before:   s.Before,
		After:    s.After,
	}
}

// 🧹 Dedupe drops repeated suggestions, keeping the first of each key in order
func Dedupe(suggestions []Suggestion) []Suggestion {
	seen := make(map[Key]bool, len(suggestions))
	out := make([]Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		k := s.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}

// AcceptAll marks every suggestion accepted
func AcceptAll(suggestions []Suggestion) {
	for i := range suggestions {
		suggestions[i].Accepted = true
	}
}

// RejectAll marks every suggestion rejected
func RejectAll(suggestions []Suggestion) {
	for i := range suggestions {
		suggestions[i].Accepted = false
	}
}

// Accepted returns the accepted suggestions in order
func Accepted(suggestions []Suggestion) []Suggestion {
	var out []Suggestion
	for _, s := range suggestions {
		if s.Accepted {
			out = append(out, s)
		}
	}
	return out
}
