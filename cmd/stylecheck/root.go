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

package main

import (
	"context"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/stylecheck/cmd/stylecheck/commands"
	"github.com/walteh/stylecheck/cmd/stylecheck/opts"
	"github.com/walteh/stylecheck/cmd/stylecheck/ui"
	"github.com/walteh/stylecheck/pkg/config"
	"github.com/walteh/stylecheck/pkg/log"
	"github.com/walteh/stylecheck/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// newRootCmd builds the command tree around a shared RootOpts
func newRootCmd(o *opts.RootOpts, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stylecheck",
		Short: "Check markup documents against a writing style guide",
		Long: `stylecheck scans HTML topics for style and terminology problems,
proposes replacements, lets you accept or reject each one, and writes a
cleaned document together with a diff of what changed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context(), o.Debug, stderr)
			cmd.SetContext(ctx)

			if o.NoColor {
				color.NoColor = true
				pterm.DisableStyling()
			}

			cfg, err := loadConfig(ctx, o.ConfigFile)
			if err != nil {
				return err
			}

			level := zerolog.WarnLevel
			if o.Debug {
				level = zerolog.DebugLevel
			}

			o.Config = cfg
			o.Console = log.New(cmd.ErrOrStderr(), level)
			o.UserLogger = ui.NewUserLogger(ctx, cmd.ErrOrStderr())
			o.Files = status.New(".", zerolog.Ctx(ctx))

			cmd.SetContext(log.NewContext(ctx, o.Console))
			return nil
		},
	}

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewCheckCmd(o),
		commands.NewReviewCmd(o),
		commands.NewApplyCmd(o),
		commands.NewDiffCmd(o),
		commands.NewRulesCmd(o),
		commands.NewVersionCmd(o),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "", "config file path (default: .stylecheck.{yaml,yml,hcl,json} in the working directory)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&o.NoColor, "no-color", false, "disable colored output")
}

// loadConfig reads an explicit config file, the first one found in the
// working directory, or falls back to defaults
func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	logger := zerolog.Ctx(ctx)

	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Errorf("getting working directory: %w", err)
		}
		found, ok := config.Find(wd)
		if !ok {
			logger.Debug().Msg("no config file found, using defaults")
			return config.Default(), nil
		}
		path = found
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// setupLogging attaches a zerolog logger to ctx based on flags
func setupLogging(ctx context.Context, debug bool, w io.Writer) context.Context {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
	return logger.WithContext(ctx)
}
