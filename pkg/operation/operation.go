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

package operation

import (
	"bytes"
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/stylecheck/pkg/apply"
	"github.com/walteh/stylecheck/pkg/config"
	"github.com/walteh/stylecheck/pkg/diff"
	"github.com/walteh/stylecheck/pkg/fragment"
	"github.com/walteh/stylecheck/pkg/grammar"
	"github.com/walteh/stylecheck/pkg/markup"
	"github.com/walteh/stylecheck/pkg/rules"
	"github.com/walteh/stylecheck/pkg/suggest"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operator runs the stages of the pipeline on one document. Stages are
// independent: Apply only needs the source bytes and a list of decisions.
type Operator interface {
	// Check extracts fragments and proposes deduplicated suggestions
	Check(ctx context.Context, src []byte) (*Report, error)
	// Apply writes the accepted decisions into a fresh parse of src. It does
	// not reuse the tree from Check, so decisions saved as CSV can be applied
	// in a later run; parsing is deterministic and fragment indices line up.
	Apply(ctx context.Context, src []byte, decisions []suggest.Suggestion) (*Outcome, error)
	// Diff compares two serialized documents
	Diff(ctx context.Context, before, after string) (*diff.Diff, error)
}

// 🔧 Options contains configuration for the operator
type Options struct {
	// Rules is the active rule set
	Rules *rules.Set
	// Extractor decides which text nodes become fragments
	Extractor *fragment.Extractor
	// Advisor is the optional grammar advisor
	Advisor grammar.Advisor
	// Diff controls diff headers, context and truncation
	Diff diff.Options
}

// 📋 Report is the result of the check stage
type Report struct {
	Document    *markup.Document
	Fragments   []fragment.Fragment
	Suggestions []suggest.Suggestion
	Warnings    []suggest.Warning
	Rules       int  // Number of active rules
	Grammar     bool // Whether the grammar advisor ran
}

// 📦 Outcome is the result of the apply stage
type Outcome struct {
	*apply.Result
	Original string
	Diff     *diff.Diff
}

// 🏭 New creates a new operator with the given options
func New(opts Options) (Operator, error) {
	if opts.Rules == nil {
		return nil, errors.Errorf("rule set is required")
	}
	if opts.Extractor == nil {
		return nil, errors.Errorf("extractor is required")
	}
	return &operator{
		extractor: opts.Extractor,
		generator: newGenerator(opts.Rules, opts.Advisor),
		rules:     opts.Rules.Len(),
		grammar:   opts.Advisor != nil,
		diffOpts:  opts.Diff,
	}, nil
}

func newGenerator(set *rules.Set, advisor grammar.Advisor) *suggest.Generator {
	if advisor == nil {
		return suggest.NewGenerator(set)
	}
	return suggest.NewGenerator(set, suggest.WithAdvisor(advisor))
}

// 🏗️ FromConfig builds an operator from a validated configuration. The
// LanguageTool advisor is attached when grammar checking is enabled.
func FromConfig(ctx context.Context, cfg *config.Config) (Operator, error) {
	set, err := cfg.RuleSet()
	if err != nil {
		return nil, errors.Errorf("building rule set: %w", err)
	}

	opts := Options{
		Rules:     set,
		Extractor: fragment.NewExtractor(fragment.WithSkipTags(cfg.SkipTags...), fragment.WithMinLength(cfg.MinLength)),
		Diff: diff.Options{
			Context:   cfg.Diff.Context,
			MaxLength: cfg.Diff.MaxLength,
		},
	}
	if cfg.Grammar.Enabled {
		opts.Advisor = grammar.NewLanguageTool(
			grammar.WithEndpoint(cfg.Grammar.Endpoint),
			grammar.WithLanguage(cfg.Language),
			grammar.WithTimeout(cfg.Grammar.TimeoutDuration()),
		)
	}

	zerolog.Ctx(ctx).Debug().
		Int("rules", set.Len()).
		Bool("grammar", opts.Advisor != nil).
		Msg("operator configured")

	return New(opts)
}

// 🎮 operator implements the Operator interface
type operator struct {
	extractor *fragment.Extractor
	generator *suggest.Generator
	rules     int
	grammar   bool
	diffOpts  diff.Options
}

func (o *operator) parse(ctx context.Context, src []byte) (*markup.Document, []fragment.Fragment, error) {
	doc, err := markup.Parse(ctx, bytes.NewReader(src))
	if err != nil {
		return nil, nil, errors.Errorf("parsing document: %w", err)
	}
	frags, err := o.extractor.Extract(ctx, doc)
	if err != nil {
		return nil, nil, errors.Errorf("extracting fragments: %w", err)
	}
	return doc, frags, nil
}

// 🔍 Check parses src and proposes suggestions
func (o *operator) Check(ctx context.Context, src []byte) (*Report, error) {
	logger := zerolog.Ctx(ctx)

	doc, frags, err := o.parse(ctx, src)
	if err != nil {
		return nil, err
	}

	res, err := o.generator.Generate(ctx, frags)
	if err != nil {
		return nil, errors.Errorf("generating suggestions: %w", err)
	}

	logger.Debug().
		Int("fragments", len(frags)).
		Int("suggestions", len(res.Suggestions)).
		Msg("check complete")

	return &Report{
		Document:    doc,
		Fragments:   frags,
		Suggestions: res.Suggestions,
		Warnings:    res.Warnings,
		Rules:       o.rules,
		Grammar:     o.grammar,
	}, nil
}

// 🔄 Apply writes the accepted decisions into src and diffs the result. The
// Report.Document from Check is left untouched.
func (o *operator) Apply(ctx context.Context, src []byte, decisions []suggest.Suggestion) (*Outcome, error) {
	doc, frags, err := o.parse(ctx, src)
	if err != nil {
		return nil, err
	}
	original := doc.Render()

	res, err := apply.Apply(ctx, doc, frags, decisions)
	if err != nil {
		return nil, errors.Errorf("applying decisions: %w", err)
	}

	d, err := o.Diff(ctx, original, res.Document)
	if err != nil {
		return nil, err
	}

	return &Outcome{Result: res, Original: original, Diff: d}, nil
}

// 📊 Diff compares two serialized documents
func (o *operator) Diff(ctx context.Context, before, after string) (*diff.Diff, error) {
	d, err := diff.Compute(before, after, o.diffOpts)
	if err != nil {
		return nil, errors.Errorf("computing diff: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Int("added", d.Stats.Added).Int("removed", d.Stats.Removed).Msg("diff computed")
	return d, nil
}
