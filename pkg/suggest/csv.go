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

package suggest

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Header is the column order written by WriteCSV
var Header = []string{"category", "rule_id", "description", "path", "before", "after", "accepted", "fragment"}

// fragment is optional on read so older exports still load
var requiredColumns = []string{"category", "rule_id", "description", "path", "before", "after", "accepted"}

// 📤 WriteCSV exports suggestions with a header row
func WriteCSV(w io.Writer, suggestions []Suggestion) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return errors.Errorf("writing header: %w", err)
	}
	for i, s := range suggestions {
		row := []string{
			string(s.Category),
			s.RuleID,
			s.Description,
			s.Path,
			s.Before,
			s.After,
			strconv.FormatBool(s.Accepted),
			strconv.Itoa(s.Fragment),
		}
		if err := cw.Write(row); err != nil {
			return errors.Errorf("writing row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Errorf("flushing csv: %w", err)
	}
	return nil
}

// 📥 ReadCSV loads suggestions, typically carrying a reviewer's decisions.
// Columns are matched by header name.
func ReadCSV(r io.Reader) ([]Suggestion, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("reading header: empty input")
		}
		return nil, errors.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, errors.Errorf("missing column %q", name)
		}
	}
	fragCol, hasFrag := cols["fragment"]

	var out []Suggestion
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Errorf("reading row %d: %w", line, err)
		}
		if len(rec) < len(header) {
			return nil, errors.Errorf("row %d: expected %d fields, got %d", line, len(header), len(rec))
		}

		cat, err := ParseCategory(rec[cols["category"]])
		if err != nil {
			return nil, errors.Errorf("row %d: %w", line, err)
		}

		accepted := false
		if v := strings.TrimSpace(rec[cols["accepted"]]); v != "" {
			accepted, err = strconv.ParseBool(v)
			if err != nil {
				return nil, errors.Errorf("row %d: parsing accepted: %w", line, err)
			}
		}

		frag := NoFragment
		if hasFrag {
			if v := strings.TrimSpace(rec[fragCol]); v != "" {
				frag, err = strconv.Atoi(v)
				if err != nil {
					return nil, errors.Errorf("row %d: parsing fragment: %w", line, err)
				}
				if frag < 0 {
					frag = NoFragment
				}
			}
		}

		out = append(out, Suggestion{
			Category:    cat,
			RuleID:      rec[cols["rule_id"]],
			Description: rec[cols["description"]],
			Path:        rec[cols["path"]],
			Fragment:    frag,
			Before:      rec[cols["before"]],
			After:       rec[cols["after"]],
			Accepted:    accepted,
		})
	}
	return out, nil
}
