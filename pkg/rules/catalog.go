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
	"unicode"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// 📋 Definition is the declarative form of a rule, as found in config files
type Definition struct {
	ID           string
	Description  string
	Pattern      string
	Replacement  string
	IgnoreCase   bool // Match without regard to case
	PreserveCase bool // Carry the casing of the matched text over to the replacement
}

// 🔨 Compile turns a definition into a rule
func Compile(def Definition, tag language.Tag) (*Rule, error) {
	if def.ID == "" {
		return nil, errors.Errorf("id is required")
	}
	if def.Pattern == "" {
		return nil, errors.Errorf("rule %s: pattern is required", def.ID)
	}

	expr := def.Pattern
	if def.IgnoreCase {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Errorf("rule %s: compiling pattern: %w", def.ID, err)
	}

	r := &Rule{
		ID:          def.ID,
		Description: def.Description,
		Pattern:     re,
		Replacement: Literal(def.Replacement),
	}
	if def.PreserveCase {
		template := def.Replacement
		r.Replacement = Computed(func(m Match) string {
			return PreserveCase(tag, m.Text, expand(re, template, m))
		})
	}
	return r, nil
}

// expand resolves template group references against a match, using offsets
// relative to the matched span
func expand(re *regexp.Regexp, template string, m Match) string {
	idx := make([]int, len(m.indexes))
	for i, v := range m.indexes {
		if v >= 0 {
			v -= m.Start
		}
		idx[i] = v
	}
	if len(idx) == 0 {
		idx = re.FindStringSubmatchIndex(m.Text)
		if idx == nil {
			return template
		}
	}
	return string(re.ExpandString(nil, template, m.Text, idx))
}

// 🔠 PreserveCase shapes repl after the casing of src: an all-caps source
// gives an all-caps replacement, a capitalized source a capitalized one.
func PreserveCase(tag language.Tag, src, repl string) string {
	if repl == "" {
		return repl
	}
	if isAllUpper(src) {
		return cases.Upper(tag).String(repl)
	}
	first, _ := utf8.DecodeRuneInString(src)
	if unicode.IsUpper(first) {
		_, size := utf8.DecodeRuneInString(repl)
		return cases.Upper(tag).String(repl[:size]) + repl[size:]
	}
	return repl
}

func isAllUpper(s string) bool {
	letters := 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
		letters++
	}
	return letters > 1
}

// passiveVoice finds a form of "to be" followed by a regular past participle
var passiveVoice = regexp.MustCompile(`(?i)\b(?:is|are|was|were|be|been|being)\s+[a-z]{2,}ed\b`)

const passiveNote = " (passive voice: consider rewriting in active voice)"

// 📚 Default returns the built-in MSTP catalog
func Default(tag language.Tag) *Set {
	keep := func(repl string) Replacement {
		return Computed(func(m Match) string {
			return PreserveCase(tag, m.Text, repl)
		})
	}

	set, err := NewSet(
		&Rule{
			ID:          "MSTP.001",
			Description: "Use 'click' instead of 'click on' for UI actions.",
			Pattern:     regexp.MustCompile(`(?i)\bclick on\b`),
			Replacement: keep("click"),
		},
		&Rule{
			ID:          "MSTP.002",
			Description: "Prefer 'sign in' over 'login' when used as a verb.",
			Pattern:     regexp.MustCompile(`(?i)\blog ?in\b`),
			Replacement: keep("sign in"),
		},
		&Rule{
			ID:          "MSTP.003",
			Description: "Use 'email' (one word).",
			Pattern:     regexp.MustCompile(`(?i)\be-?mail\b`),
			Replacement: keep("email"),
		},
		&Rule{
			ID:          "MSTP.004",
			Description: "Replace 'click OK' dialog guidance with 'select OK'.",
			Pattern:     regexp.MustCompile(`(?i)\bclick\s+OK\b`),
			Replacement: keep("select OK"),
		},
		&Rule{
			ID:          "MSTP.005",
			Description: "Avoid Latin abbreviations: replace 'e.g.' with 'for example'.",
			Pattern:     regexp.MustCompile(`(?i)\be\.g\.`),
			Replacement: keep("for example"),
		},
		&Rule{
			ID:          "MSTP.006",
			Description: "Avoid Latin abbreviations: replace 'i.e.' with 'that is'.",
			Pattern:     regexp.MustCompile(`(?i)\bi\.e\.`),
			Replacement: keep("that is"),
		},
		&Rule{
			ID:          "MSTP.007",
			Description: "Sentence case for button names: 'Save As' -> 'Save as'.",
			Pattern:     regexp.MustCompile(`\b(Save) (As)\b`),
			Replacement: Literal("${1} as"),
		},
		&Rule{
			ID:          "MSTP.008",
			Description: "Use 'choose' instead of 'pick'.",
			Pattern:     regexp.MustCompile(`(?i)\bpick\b`),
			Replacement: keep("choose"),
		},
		&Rule{
			ID:          "MSTP.009",
			Description: "Spell out 'and' instead of using an ampersand.",
			Pattern:     regexp.MustCompile(`\B&\B`),
			Replacement: Literal("and"),
		},
		&Rule{
			ID:          "MSTP.010",
			Description: "Use 'set up' (two words) as a verb.",
			Pattern:     regexp.MustCompile(`(?i)\b(please|to|must|can|should|will|you) setup\b`),
			Replacement: Literal("${1} set up"),
		},
		&Rule{
			ID:          "MSTP.011",
			Description: "Use 'that' instead of 'which' for restrictive clauses.",
			Pattern:     regexp.MustCompile(`(?i)\bwhich you\b`),
			Replacement: keep("that you"),
		},
		&Rule{
			ID:          "MSTP.012",
			Description: "Avoid 'etc.': use 'and so on'.",
			Pattern:     regexp.MustCompile(`(?i)\betc\.`),
			Replacement: keep("and so on"),
		},
		&Rule{
			ID:          "MSTP.013",
			Description: "Write the OK button name in all caps.",
			Pattern:     regexp.MustCompile(`(?i)\bok\b`),
			Replacement: Computed(func(Match) string { return "OK" }),
		},
		&Rule{
			ID:          "MSTP.014",
			Description: "Use numerals for 10 and greater.",
			Pattern:     numberPhrase,
			Replacement: Computed(numerals),
		},
		&Rule{
			ID:          "MSTP.015",
			Description: "Write 'internet' in lowercase.",
			Pattern:     regexp.MustCompile(`\b(the|on|over|via|across|from|to) Internet\b`),
			Replacement: Literal("${1} internet"),
		},
		&Rule{
			ID:          "MSTP.016",
			Description: "Prefer active voice.",
			Pattern:     passiveVoice,
			Replacement: Computed(func(m Match) string {
				return m.Text + passiveNote
			}),
		},
	)
	if err != nil {
		panic(err)
	}
	return set
}
