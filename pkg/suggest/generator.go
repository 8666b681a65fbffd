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
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/stylecheck/pkg/fragment"
	"github.com/walteh/stylecheck/pkg/grammar"
	"github.com/walteh/stylecheck/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// ⚠️ Warning records a fragment the grammar pass could not check
type Warning struct {
	Fragment int
	Path     string
	Err      error
}

// String returns a one-line description of the warning
func (w Warning) String() string {
	return fmt.Sprintf("grammar check skipped for fragment %d (%s): %v", w.Fragment, w.Path, w.Err)
}

// 📊 Result is the output of one generation run
type Result struct {
	Suggestions []Suggestion
	Warnings    []Warning
}

// 🏭 Generator produces suggestions from fragments
type Generator struct {
	rules   *rules.Set
	advisor grammar.Advisor
}

// Option configures a Generator
type Option func(*Generator)

// WithAdvisor enables the grammar pass
func WithAdvisor(a grammar.Advisor) Option {
	return func(g *Generator) {
		g.advisor = a
	}
}

// NewGenerator creates a generator over a rule set. A nil set behaves as empty.
func NewGenerator(set *rules.Set, opts ...Option) *Generator {
	g := &Generator{rules: set}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// 🔍 Generate runs the style pass over every fragment, then the grammar pass
// when an advisor is configured, and returns the deduplicated list. Grammar
// failures become warnings. The only error is cancellation of ctx.
func (g *Generator) Generate(ctx context.Context, frags []fragment.Fragment) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	res := &Result{}

	if g.rules != nil {
		all := g.rules.Rules()
		for _, f := range frags {
			for _, r := range all {
				res.Suggestions = append(res.Suggestions, styleSuggestions(r, f)...)
			}
		}
	}
	styleCount := len(res.Suggestions)

	if g.advisor != nil {
		for _, f := range frags {
			if err := ctx.Err(); err != nil {
				return nil, errors.Errorf("generating suggestions: %w", err)
			}
			sugg, err := g.grammarSuggestions(ctx, f)
			if err != nil {
				logger.Warn().Err(err).Int("fragment", f.Index).Str("path", f.Path).Msg("grammar check failed")
				res.Warnings = append(res.Warnings, Warning{Fragment: f.Index, Path: f.Path, Err: err})
				continue
			}
			res.Suggestions = append(res.Suggestions, sugg...)
		}
	}

	total := len(res.Suggestions)
	res.Suggestions = Dedupe(res.Suggestions)

	logger.Debug().
		Int("fragments", len(frags)).
		Int("style", styleCount).
		Int("grammar", total-styleCount).
		Int("duplicates", total-len(res.Suggestions)).
		Int("warnings", len(res.Warnings)).
		Msg("generated suggestions")
	return res, nil
}

func styleSuggestions(r *rules.Rule, f fragment.Fragment) []Suggestion {
	var out []Suggestion
	for _, m := range r.FindAll(f.Content) {
		after := r.Replace(f.Content, m)
		if after == m.Text {
			continue
		}
		out = append(out, Suggestion{
			Category:    CategoryStyle,
			RuleID:      r.ID,
			Description: r.Description,
			Path:        f.Path,
			Fragment:    f.Index,
			Before:      m.Text,
			After:       after,
		})
	}
	return out
}

func (g *Generator) grammarSuggestions(ctx context.Context, f fragment.Fragment) ([]Suggestion, error) {
	corrections, err := g.advisor.Check(ctx, f.Content)
	if err != nil {
		return nil, errors.Errorf("checking grammar: %w", err)
	}

	var out []Suggestion
	for _, c := range corrections {
		if len(c.Replacements) == 0 {
			continue
		}
		if c.Offset < 0 || c.Length < 0 || c.Offset+c.Length > len(f.Content) {
			return nil, errors.Errorf("correction %s: span [%d, %d) outside fragment", c.RuleID, c.Offset, c.Offset+c.Length)
		}
		before := f.Content[c.Offset : c.Offset+c.Length]
		after := c.Replacements[0]
		if strings.TrimSpace(before) == "" || strings.TrimSpace(before) == strings.TrimSpace(after) {
			continue
		}
		out = append(out, Suggestion{
			Category:    CategoryGrammar,
			RuleID:      c.RuleID,
			Description: c.Message,
			Path:        f.Path,
			Fragment:    f.Index,
			Before:      before,
			After:       after,
		})
	}
	return out, nil
}
