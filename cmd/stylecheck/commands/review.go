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

package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/stylecheck/cmd/stylecheck/opts"
	"github.com/walteh/stylecheck/pkg/suggest"
	"gitlab.com/tozd/go/errors"
)

// decision is the reviewer's answer for one suggestion
type decision int

const (
	decisionAccept decision = iota
	decisionReject
	decisionAcceptRest
	decisionRejectRest
	decisionStop
)

var decisionLabels = []string{
	"accept",
	"reject",
	"accept all remaining",
	"reject all remaining",
	"stop reviewing",
}

// prompter asks the reviewer about suggestion i of n
type prompter func(s suggest.Suggestion, i, n int) (decision, error)

// 💬 interactivePrompt asks with a pterm select on the terminal
func interactivePrompt(s suggest.Suggestion, i, n int) (decision, error) {
	title := fmt.Sprintf("[%d/%d] %s %s at %s: %q → %q", i+1, n, s.Category, s.RuleID, s.Path, s.Before, s.After)
	answer, err := pterm.DefaultInteractiveSelect.
		WithOptions(decisionLabels).
		WithDefaultOption(decisionLabels[decisionAccept]).
		Show(title)
	if err != nil {
		return decisionStop, errors.Errorf("reading answer: %w", err)
	}
	for d, label := range decisionLabels {
		if label == answer {
			return decision(d), nil
		}
	}
	return decisionStop, errors.Errorf("unexpected answer %q", answer)
}

// review walks the suggestions and records each decision in place. Anything
// left undecided after a stop stays rejected.
func review(suggestions []suggest.Suggestion, ask prompter, progress func(int)) error {
	suggest.RejectAll(suggestions)

	for i := range suggestions {
		d, err := ask(suggestions[i], i, len(suggestions))
		if err != nil {
			return err
		}

		switch d {
		case decisionAccept:
			suggestions[i].Accepted = true
		case decisionReject:
		case decisionAcceptRest:
			suggest.AcceptAll(suggestions[i:])
			progress(len(suggestions))
			return nil
		case decisionRejectRest, decisionStop:
			progress(len(suggestions))
			return nil
		}
		progress(i + 1)
	}
	return nil
}

// NewReviewCmd creates a new review command
func NewReviewCmd(o *opts.RootOpts) *cobra.Command {
	return newReviewCmd(o, interactivePrompt)
}

func newReviewCmd(o *opts.RootOpts, ask prompter) *cobra.Command {
	var (
		csvPath  string
		outPath  string
		showDiff bool
	)

	cmd := &cobra.Command{
		Use:   "review <document>",
		Short: "Accept or reject each suggestion interactively",
		Long: `Review checks a document and asks about every suggestion in turn. Accepted
suggestions are applied and the cleaned document is written next to the
input (or to --out). Decisions can also be saved as CSV for a later "apply".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			doc, err := readDocument(ctx, args[0])
			if err != nil {
				return err
			}

			op, report, err := check(ctx, o, doc)
			if err != nil {
				return err
			}
			defer o.Console.EndDocument(ctx)

			if len(report.Suggestions) == 0 {
				o.UserLogger.LogValidation(true, "no suggestions, document is clean", nil)
				return nil
			}

			o.Files.StartOperation(ctx, len(report.Suggestions))
			err = review(report.Suggestions, ask, func(done int) {
				o.Files.UpdateProgress(ctx, done)
			})
			o.Files.FinishOperation(ctx)
			if err != nil {
				return errors.Errorf("reviewing suggestions: %w", err)
			}

			for _, s := range report.Suggestions {
				o.Console.LogSuggestion(ctx, entry(s))
			}

			if csvPath != "" {
				if err := writeCSV(ctx, o, cmd.OutOrStdout(), csvPath, report.Suggestions); err != nil {
					return err
				}
			}

			accepted := suggest.Accepted(report.Suggestions)
			if len(accepted) == 0 {
				o.UserLogger.LogStateChange("nothing accepted, document left as is")
				return nil
			}

			out, err := op.Apply(ctx, doc.src, accepted)
			if err != nil {
				return err
			}

			dest := outPath
			if dest == "" {
				dest = cleanedPath(doc.loc)
			}
			if err := writeOutcome(ctx, o, out, dest); err != nil {
				return err
			}

			if showDiff {
				fmt.Fprint(cmd.OutOrStdout(), out.Diff.Terminal())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", `save decisions as CSV to this path ("-" for stdout)`)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "where to write the cleaned document (default: <name>.cleaned.<ext>)")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a colored diff of the applied changes")

	return cmd
}
