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
	"bytes"
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/walteh/stylecheck/cmd/stylecheck/opts"
	"github.com/walteh/stylecheck/pkg/diff"
	"github.com/walteh/stylecheck/pkg/log"
	"github.com/walteh/stylecheck/pkg/operation"
	"github.com/walteh/stylecheck/pkg/source"
	"github.com/walteh/stylecheck/pkg/source/github"
	"github.com/walteh/stylecheck/pkg/status"
	"github.com/walteh/stylecheck/pkg/suggest"
	"gitlab.com/tozd/go/errors"
)

// document is a fetched source ready for the pipeline
type document struct {
	src []byte
	loc source.Location
}

func (d document) label() string {
	if d.loc.Scheme == source.SchemeGitHub {
		return github.Permalink(d.loc)
	}
	return d.loc.String()
}

func readDocument(ctx context.Context, ref string) (*document, error) {
	src, loc, err := source.Read(ctx, ref)
	if err != nil {
		return nil, errors.Errorf("reading document: %w", err)
	}
	return &document{src: src, loc: loc}, nil
}

// cleanedPath is where a cleaned copy of loc goes when --out is not given:
// next to a local file, or in the working directory for remote documents
func cleanedPath(loc source.Location) string {
	name := loc.Path
	if loc.Scheme != source.SchemeFile {
		name = path.Base(strings.SplitN(name, "?", 2)[0])
	}
	ext := filepath.Ext(name)
	if ext == "" {
		ext = ".html"
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".cleaned" + ext
}

func entry(s suggest.Suggestion) log.SuggestionEntry {
	return log.SuggestionEntry{
		Category: string(s.Category),
		RuleID:   s.RuleID,
		Path:     s.Path,
		Before:   s.Before,
		After:    s.After,
		Accepted: s.Accepted,
	}
}

// check runs the check stage and prints the document header
func check(ctx context.Context, o *opts.RootOpts, doc *document) (operation.Operator, *operation.Report, error) {
	op, err := operation.FromConfig(ctx, o.Config)
	if err != nil {
		return nil, nil, err
	}

	report, err := op.Check(ctx, doc.src)
	if err != nil {
		return nil, nil, errors.Errorf("checking %s: %w", doc.loc, err)
	}

	o.Console.StartDocument(ctx, log.DocumentOperation{
		Source:    doc.label(),
		Fragments: len(report.Fragments),
		Rules:     report.Rules,
		Grammar:   report.Grammar,
	})
	o.UserLogger.LogWarnings(report.Warnings)

	return op, report, nil
}

// writeCSV exports suggestions to path, or to w when path is "-"
func writeCSV(ctx context.Context, o *opts.RootOpts, w io.Writer, path string, suggestions []suggest.Suggestion) error {
	var buf bytes.Buffer
	if err := suggest.WriteCSV(&buf, suggestions); err != nil {
		return errors.Errorf("encoding suggestions: %w", err)
	}

	if path == "-" {
		_, err := w.Write(buf.Bytes())
		return err
	}

	info, err := o.Files.WriteDocument(ctx, path, "csv", buf.Bytes(), false)
	if err != nil {
		return errors.Errorf("writing %s: %w", path, err)
	}
	o.UserLogger.LogFileChange(info)
	return nil
}

// writeOutcome writes the cleaned document and reports the apply counters
func writeOutcome(ctx context.Context, o *opts.RootOpts, out *operation.Outcome, dest string) error {
	if out.Skipped > 0 {
		o.Console.Warningf("%d accepted suggestion(s) no longer matched the document and were skipped", out.Skipped)
	}
	o.Console.Successf("applied %d suggestion(s) across %d fragment(s)", out.Applied, out.Changed)

	info, err := o.Files.WriteDocument(ctx, dest, "cleaned", []byte(out.Document), o.Config.Output.Backup)
	if err != nil {
		return errors.Errorf("writing %s: %w", dest, err)
	}
	o.UserLogger.LogFileChange(info)
	o.Console.LogFileOperation(ctx, log.FileOperation{
		Path:       dest,
		Type:       "cleaned",
		Status:     info.Status.String(),
		IsNew:      info.Status == status.StatusNew,
		IsModified: info.Status == status.StatusModified,
		Changes:    out.Applied,
	})
	return nil
}

// renderDiff renders d in one of the supported formats
func renderDiff(d *diff.Diff, format string) (string, error) {
	switch format {
	case "unified", "":
		return d.Unified(), nil
	case "html":
		return d.HTML(), nil
	case "terminal":
		return d.Terminal(), nil
	default:
		return "", errors.Errorf("unknown diff format %q (want unified, html or terminal)", format)
	}
}
