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
	"github.com/spf13/cobra"
	"github.com/walteh/stylecheck/cmd/stylecheck/opts"
	"github.com/walteh/stylecheck/pkg/suggest"
)

// NewCheckCmd creates a new check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	var (
		csvPath   string
		acceptAll bool
	)

	cmd := &cobra.Command{
		Use:   "check <document>",
		Short: "List style and grammar suggestions for a document",
		Long: `Check parses a document, extracts its text fragments and prints every
suggestion the active rules (and the grammar advisor, when enabled) propose.
Suggestions can be exported as CSV and later fed to "apply".

A document is a local path, an http(s) URL or github:owner/repo[@ref]:path.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			doc, err := readDocument(ctx, args[0])
			if err != nil {
				return err
			}

			_, report, err := check(ctx, o, doc)
			if err != nil {
				return err
			}

			if acceptAll {
				suggest.AcceptAll(report.Suggestions)
			}

			var style, grammar int
			for _, s := range report.Suggestions {
				o.Console.LogSuggestion(ctx, entry(s))
				if s.Category == suggest.CategoryGrammar {
					grammar++
				} else {
					style++
				}
			}

			if csvPath != "" {
				if err := writeCSV(ctx, o, cmd.OutOrStdout(), csvPath, report.Suggestions); err != nil {
					return err
				}
			}

			o.Console.Successf("%d style and %d grammar suggestion(s)", style, grammar)
			o.Console.EndDocument(ctx)
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", `export suggestions as CSV to this path ("-" for stdout)`)
	cmd.Flags().BoolVar(&acceptAll, "accept-all", false, "mark every suggestion accepted in the export")

	return cmd
}
