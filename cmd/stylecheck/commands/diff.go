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
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/stylecheck/cmd/stylecheck/opts"
	"github.com/walteh/stylecheck/pkg/diff"
	"gitlab.com/tozd/go/errors"
)

// NewDiffCmd creates a new diff command
func NewDiffCmd(o *opts.RootOpts) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "diff <before> <after>",
		Short: "Show the differences between two documents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			before, err := readDocument(ctx, args[0])
			if err != nil {
				return err
			}
			after, err := readDocument(ctx, args[1])
			if err != nil {
				return err
			}

			d, err := diff.Compute(string(before.src), string(after.src), diff.Options{
				FromFile:  before.label(),
				ToFile:    after.label(),
				Context:   o.Config.Diff.Context,
				MaxLength: o.Config.Diff.MaxLength,
			})
			if err != nil {
				return errors.Errorf("computing diff: %w", err)
			}

			if d.Empty() {
				o.UserLogger.LogValidation(true, "documents are identical", nil)
				return nil
			}

			rendered, err := renderDiff(d, format)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprint(w, rendered)
			if !strings.HasSuffix(rendered, "\n") {
				fmt.Fprintln(w)
			}
			o.Console.Infof("%d line(s) added, %d removed", d.Stats.Added, d.Stats.Removed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "unified", "output format: unified, html or terminal")

	return cmd
}
