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
	"github.com/walteh/stylecheck/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// NewRulesCmd creates a new rules command
func NewRulesCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the active rules in priority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := o.Config.RuleSet()
			if err != nil {
				return errors.Errorf("building rule set: %w", err)
			}

			table, err := rulesTable(set)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), table)
			o.Console.Infof("%d active rule(s)", set.Len())
			return nil
		},
	}
}

func rulesTable(set *rules.Set) (string, error) {
	data := pterm.TableData{{"ID", "Pattern", "Replacement", "Description"}}
	for _, r := range set.Rules() {
		data = append(data, []string{r.ID, r.Pattern.String(), r.Replacement.String(), r.Description})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", errors.Errorf("rendering rule table: %w", err)
	}
	return out + "\n", nil
}
