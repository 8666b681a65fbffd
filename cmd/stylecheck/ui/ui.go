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

package ui

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/stylecheck/pkg/status"
	"github.com/walteh/stylecheck/pkg/suggest"
)

// 📢 UserLogger provides user-friendly feedback about a run
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
	out io.Writer
}

// 🎯 NewUserLogger creates a new user logger writing to out
func NewUserLogger(ctx context.Context, out io.Writer) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
		out: out,
	}
}

func (u *UserLogger) print(p *pterm.PrefixPrinter, msg string) {
	fmt.Fprint(u.out, p.Sprintln(msg))
}

// 📝 LogFileChange reports an output file with appropriate emoji and formatting
func (u *UserLogger) LogFileChange(info status.FileInfo) {
	relPath := filepath.Base(info.Path)

	var prefix, action string
	var printer *pterm.PrefixPrinter
	switch info.Status {
	case status.StatusNew:
		prefix = "✨"
		action = "Created"
		printer = pterm.Success.WithPrefix(pterm.Prefix{Text: prefix})
	case status.StatusModified:
		prefix = "🔄"
		action = "Updated"
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: prefix})
	default:
		prefix = "⏭️"
		action = "Unchanged"
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: prefix})
	}

	msg := fmt.Sprintf("%s %s", action, relPath)
	if info.Type != "" {
		msg += fmt.Sprintf(" (%s)", info.Type)
	}
	if info.Backup != "" {
		msg += fmt.Sprintf(", previous content in %s", filepath.Base(info.Backup))
	}

	if info.Error != nil {
		u.print(pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}), msg)
		u.print(&pterm.Error, info.Error.Error())
		u.log.Error().Err(info.Error).Msg(msg)
		return
	}
	u.print(printer, msg)
	u.log.Info().Msg(msg)
}

// ⚠️ LogWarnings reports grammar advisor failures
func (u *UserLogger) LogWarnings(warnings []suggest.Warning) {
	for _, w := range warnings {
		u.print(pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}), w.String())
		u.log.Warn().Err(w.Err).Int("fragment", w.Fragment).Str("path", w.Path).Msg("grammar advisor warning")
	}
}

// 📊 LogStateChange logs a step of the run
func (u *UserLogger) LogStateChange(description string) {
	u.print(pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"}), description)
	u.log.Info().Msg(description)
}

// 🔍 LogValidation logs validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	switch {
	case valid:
		u.print(pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}), description)
		u.log.Info().Msg(description)
	case err != nil:
		u.print(pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}), description)
		u.print(&pterm.Error, err.Error())
		u.log.Error().Err(err).Msg(description)
	default:
		u.print(pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}), description)
		u.log.Warn().Msg(description)
	}
}
