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

package grammar

import "context"

// ✏️ Correction is one candidate grammar fix for a span of checked text
type Correction struct {
	Offset       int      // Byte offset into the checked text
	Length       int      // Byte length of the flagged span
	Replacements []string // Candidate replacements, best first
	RuleID       string
	Message      string
}

// 🔌 Advisor checks free text and returns candidate corrections
type Advisor interface {
	Check(ctx context.Context, text string) ([]Correction, error)
}
