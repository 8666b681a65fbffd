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

package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// 🧪 TestDefaultFileFormatter tests the default file formatter implementation
func TestDefaultFileFormatter(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		fileType    string
		status      string
		isNew       bool
		isModified  bool
		want        string
		description string
	}{
		{
			name:        "new_file",
			path:        "cleaned.html",
			fileType:    "cleaned",
			status:      "new",
			isNew:       true,
			want:        "✨ Created cleaned.html (cleaned)",
			description: "should show creation symbol for new files",
		},
		{
			name:        "modified_file",
			path:        "suggestions.csv",
			fileType:    "csv",
			status:      "modified",
			isModified:  true,
			want:        "📝 Modified suggestions.csv (csv)",
			description: "should show modification symbol for changed files",
		},
		{
			name:        "unchanged_file",
			path:        "diff.html",
			fileType:    "diff",
			status:      "unchanged",
			want:        "👍 Unchanged diff.html (diff)",
			description: "should show unchanged symbol for stable files",
		},
		{
			name:        "error_status",
			path:        "out.html",
			status:      "error",
			want:        "❌ Failed out.html",
			description: "should omit the type when empty",
		},
		{
			name:        "multiple_states",
			path:        "conflict.html",
			fileType:    "cleaned",
			isNew:       true,
			isModified:  true,
			want:        "✨ Created conflict.html (cleaned)",
			description: "new takes precedence",
		},
	}

	formatter := NewDefaultFileFormatter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatter.FormatFileOperation(tt.path, tt.fileType, tt.status, tt.isNew, tt.isModified)
			assert.Equal(t, tt.want, got, tt.description)
		})
	}
}

// 🧪 TestProgressFormatting tests progress message formatting
func TestProgressFormatting(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		expected string
	}{
		{name: "zero_progress", current: 0, total: 10, expected: "⏳ Progress: 0/10 (0%)"},
		{name: "half_progress", current: 5, total: 10, expected: "⏳ Progress: 5/10 (50%)"},
		{name: "complete", current: 10, total: 10, expected: "✅ Progress: 10/10 (100%)"},
		{name: "zero_total", current: 0, total: 0, expected: "✅ Progress: 0/0 (0%)"},
		{name: "zero_total_with_current", current: 5, total: 0, expected: "✅ Progress: 5/0 (100%)"},
	}

	formatter := NewDefaultFileFormatter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatter.FormatProgress(tt.current, tt.total))
		})
	}
}

// 🧪 TestErrorFormatting tests error message formatting
func TestErrorFormatting(t *testing.T) {
	formatter := NewDefaultFileFormatter()

	assert.Equal(t, "❌ Error: assert.AnError general error for testing", formatter.FormatError(assert.AnError))
	assert.Equal(t, "", formatter.FormatError(nil))
}
