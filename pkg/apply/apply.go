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

package apply

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/stylecheck/pkg/fragment"
	"github.com/walteh/stylecheck/pkg/markup"
	"github.com/walteh/stylecheck/pkg/suggest"
	"gitlab.com/tozd/go/errors"
)

// 📊 Result is the outcome of applying accepted suggestions
type Result struct {
	Document string // Serialized document after substitution
	Changed  int    // Fragments whose text changed
	Applied  int    // Suggestions that replaced text
	Skipped  int    // Accepted suggestions whose before text was not found
}

// queue holds the accepted pairs for one fragment in generation order
type queue struct {
	frag  fragment.Fragment
	pairs []suggest.Suggestion
}

// 🔄 Apply writes the accepted suggestions back into doc. Each fragment's
// accepted pairs are consumed in order, each replacing the first remaining
// occurrence of its before text; a pair whose before text is absent is
// skipped. Suggestions without a fragment index are matched by path.
func Apply(ctx context.Context, doc *markup.Document, frags []fragment.Fragment, suggestions []suggest.Suggestion) (*Result, error) {
	if doc == nil {
		return nil, errors.New("document is required")
	}
	logger := zerolog.Ctx(ctx)
	res := &Result{}

	accepted := suggest.Accepted(suggestions)
	if len(accepted) == 0 {
		res.Document = doc.Render()
		return res, nil
	}

	queues, unmatched := group(frags, accepted)
	res.Skipped += unmatched

	for _, q := range queues {
		node := q.frag.Node()
		if node == nil {
			res.Skipped += len(q.pairs)
			continue
		}

		original := node.Text()
		for len(q.pairs) > 0 {
			pair := q.pairs[0]
			q.pairs = q.pairs[1:]

			if !node.ReplaceFirst(pair.Before, pair.After) {
				logger.Debug().
					Int("fragment", q.frag.Index).
					Str("rule", pair.RuleID).
					Str("before", pair.Before).
					Msg("before text not found, skipping")
				res.Skipped++
				continue
			}
			res.Applied++
		}

		if node.Text() != original {
			res.Changed++
		}
	}

	res.Document = doc.Render()
	logger.Debug().
		Int("changed", res.Changed).
		Int("applied", res.Applied).
		Int("skipped", res.Skipped).
		Msg("applied suggestions")
	return res, nil
}

// group builds one queue per fragment in first-seen order. It returns the
// number of suggestions that name no known fragment.
func group(frags []fragment.Fragment, accepted []suggest.Suggestion) ([]*queue, int) {
	byIndex := make(map[int]fragment.Fragment, len(frags))
	byPath := make(map[string][]fragment.Fragment)
	for _, f := range frags {
		byIndex[f.Index] = f
		byPath[f.Path] = append(byPath[f.Path], f)
	}

	var order []*queue
	queues := make(map[int]*queue)
	enqueue := func(f fragment.Fragment, s suggest.Suggestion) {
		q, ok := queues[f.Index]
		if !ok {
			q = &queue{frag: f}
			queues[f.Index] = q
			order = append(order, q)
		}
		q.pairs = append(q.pairs, s)
	}

	unmatched := 0
	for _, s := range accepted {
		if s.Fragment >= 0 {
			f, ok := byIndex[s.Fragment]
			// a path that disagrees with the index means the decision came
			// from a different revision of the document
			if !ok || (s.Path != "" && s.Path != f.Path) {
				unmatched++
				continue
			}
			enqueue(f, s)
			continue
		}

		// no index: the first fragment at this path that still contains
		// before, else the first at the path
		candidates := byPath[s.Path]
		if len(candidates) == 0 {
			unmatched++
			continue
		}
		target := candidates[0]
		for _, f := range candidates {
			if containsText(f, s.Before) {
				target = f
				break
			}
		}
		enqueue(target, s)
	}
	return order, unmatched
}

func containsText(f fragment.Fragment, s string) bool {
	n := f.Node()
	if n == nil {
		return false
	}
	return s != "" && strings.Contains(n.Text(), s)
}
