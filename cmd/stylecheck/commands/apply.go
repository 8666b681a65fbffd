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
	"os"

	"github.com/spf13/cobra"
	"github.com/walteh/stylecheck/cmd/stylecheck/opts"
	"github.com/walteh/stylecheck/pkg/operation"
	"github.com/walteh/stylecheck/pkg/suggest"
	"gitlab.com/tozd/go/errors"
)

// NewApplyCmd creates a new apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	var (
		decisionsPath string
		outPath       string
		showDiff      bool
		htmlDiffPath  string
	)

	cmd := &cobra.Command{
		Use:   "apply <document>",
		Short: "Apply accepted decisions from a CSV file",
		Long: `Apply reads a decisions CSV (as written by "check --csv" or "review --csv"),
writes every accepted suggestion into a fresh parse of the document and saves
the cleaned result. Decisions that no longer match the document are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			decisions, err := readDecisions(decisionsPath)
			if err != nil {
				return err
			}

			doc, err := readDocument(ctx, args[0])
			if err != nil {
				return err
			}

			op, err := operation.FromConfig(ctx, o.Config)
			if err != nil {
				return err
			}

			out, err := op.Apply(ctx, doc.src, decisions)
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

			if htmlDiffPath != "" {
				info, err := o.Files.WriteDocument(ctx, htmlDiffPath, "diff", []byte(out.Diff.HTML()), false)
				if err != nil {
					return errors.Errorf("writing %s: %w", htmlDiffPath, err)
				}
				o.UserLogger.LogFileChange(info)
			}

			if showDiff {
				fmt.Fprint(cmd.OutOrStdout(), out.Diff.Terminal())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&decisionsPath, "decisions", "", "CSV file with reviewed suggestions")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "where to write the cleaned document (default: <name>.cleaned.<ext>)")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a colored diff of the applied changes")
	cmd.Flags().StringVar(&htmlDiffPath, "diff-html", "", "also write an HTML diff to this path")
	_ = cmd.MarkFlagRequired("decisions")

	return cmd
}

func readDecisions(path string) ([]suggest.Suggestion, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening decisions: %w", err)
	}
	defer f.Close()

	decisions, err := suggest.ReadCSV(f)
	if err != nil {
		return nil, errors.Errorf("reading decisions from %s: %w", path, err)
	}
	return decisions, nil
}
