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

package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	entryIndent = 4  // spaces to indent entries
	nameWidth   = 35 // Base width for file names and rule ids
	typeWidth   = 15 // Width for output kind or category
	statusWidth = 15 // Width for status text
	textWidth   = 40 // Width for before/after text
)

// 🎯 FileOperation represents an output file written by a run
type FileOperation struct {
	Path       string // File path
	Type       string // Output kind (cleaned/backup/csv/diff)
	Status     string // Operation status
	IsNew      bool   // Whether the file did not exist before
	IsModified bool   // Whether existing content changed
	Changes    int    // Number of applied suggestions
}

// 💡 SuggestionEntry is one suggestion as shown on the console
type SuggestionEntry struct {
	Category string
	RuleID   string
	Path     string
	Before   string
	After    string
	Accepted bool
}

// 📄 DocumentOperation describes the document a run is processing
type DocumentOperation struct {
	Source    string // Where the markup came from
	Fragments int    // Number of extracted fragments
	Rules     int    // Number of active rules
	Grammar   bool   // Whether the grammar advisor is enabled
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog        zerolog.Logger
	console     io.Writer
	mu          sync.Mutex
	currentDoc  *DocumentOperation
	suggestions int
	accepted    int
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.IsNew:
		symbol = '✓'
		symbolColor = color.FgGreen
	case op.IsModified:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	var typeColor color.Attribute
	switch op.Type {
	case "cleaned":
		typeColor = color.FgGreen
	case "backup":
		typeColor = color.FgYellow
	default:
		typeColor = color.FgBlue
	}

	return fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", entryIndent),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(typeColor).Sprint(fmt.Sprintf("%-*s", typeWidth, op.Type)),
		fmt.Sprintf("%-*s", statusWidth, op.Status))
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatFileOperation(op))

	l.zlog.Info().
		Str("file", op.Path).
		Str("type", op.Type).
		Str("status", op.Status).
		Bool("is_new", op.IsNew).
		Bool("is_modified", op.IsModified).
		Int("changes", op.Changes).
		Msg("file operation")
}

// clip shortens text to a display width, flattening whitespace
func clip(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

// 📝 formatSuggestion formats a suggestion for display
func (l *Logger) formatSuggestion(s SuggestionEntry) string {
	symbol := color.New(color.Faint).Sprint("○")
	if s.Accepted {
		symbol = color.New(color.FgGreen).Sprint("●")
	}

	categoryColor := color.FgMagenta
	if s.Category == "grammar" {
		categoryColor = color.FgYellow
	}

	return fmt.Sprintf("%s%s %s %s %s %s %s",
		strings.Repeat(" ", entryIndent),
		symbol,
		color.New(categoryColor).Sprint(fmt.Sprintf("%-*s", 8, s.Category)),
		fmt.Sprintf("%-*s", typeWidth, s.RuleID),
		color.New(color.FgRed).Sprint(clip(s.Before, textWidth/2)),
		color.New(color.Faint).Sprint("→"),
		color.New(color.FgGreen).Sprint(clip(s.After, textWidth/2)))
}

// 📝 LogSuggestion logs one suggestion of the current document
func (l *Logger) LogSuggestion(ctx context.Context, s SuggestionEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.suggestions++
	if s.Accepted {
		l.accepted++
	}

	fmt.Fprintln(l.console, l.formatSuggestion(s))

	l.zlog.Debug().
		Str("category", s.Category).
		Str("rule", s.RuleID).
		Str("path", s.Path).
		Str("before", s.Before).
		Str("after", s.After).
		Bool("accepted", s.Accepted).
		Msg("suggestion")
}

// 📝 StartDocument starts reporting on a document
func (l *Logger) StartDocument(ctx context.Context, op DocumentOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentDoc = &op
	l.suggestions = 0
	l.accepted = 0

	fmt.Fprintf(l.console, "[checking %s]\n",
		color.New(color.FgCyan).Sprint(op.Source))

	grammarState := "style only"
	if op.Grammar {
		grammarState = "style + grammar"
	}
	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprintf("%d fragments, %d rules", op.Fragments, op.Rules),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(grammarState))

	l.zlog.Info().
		Str("source", op.Source).
		Int("fragments", op.Fragments).
		Int("rules", op.Rules).
		Bool("grammar", op.Grammar).
		Msg("starting document")
}

// 📝 EndDocument ends the current document
func (l *Logger) EndDocument(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentDoc == nil {
		return
	}

	l.zlog.Info().
		Str("source", l.currentDoc.Source).
		Int("suggestions", l.suggestions).
		Int("accepted", l.accepted).
		Msg("document complete")

	l.currentDoc = nil
	l.suggestions = 0
	l.accepted = 0
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("stylecheck")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
