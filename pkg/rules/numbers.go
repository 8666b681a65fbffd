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

package rules

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	unitWords = map[string]int{
		"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	}
	teenWords = map[string]int{
		"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
		"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
	}
	tensWords = map[string]int{
		"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50, "sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
	}
)

const (
	anyNumberWord = `one|two|three|four|five|six|seven|eight|nine|` +
		`ten|eleven|twelve|thirteen|fourteen|fifteen|sixteen|seventeen|eighteen|nineteen|` +
		`twenty|thirty|forty|fifty|sixty|seventy|eighty|ninety|hundred|thousand`
	bigNumberWord = `ten|eleven|twelve|thirteen|fourteen|fifteen|sixteen|seventeen|eighteen|nineteen|` +
		`twenty|thirty|forty|fifty|sixty|seventy|eighty|ninety|hundred|thousand`
)

// numberPhrase matches a whole run of number words joined by spaces or
// hyphens that spells a value of ten or more, so compounds such as
// "twenty-one" or "two hundred" are converted as one unit
var numberPhrase = regexp.MustCompile(`(?i)\b(?:(?:` + anyNumberWord + `)[ \t-]+)*(?:` + bigNumberWord + `)(?:[ \t-]+(?:` + anyNumberWord + `))*\b`)

// spellNumber converts a run of English number words to digits. It returns
// false for runs that do not read as a single number, like "one two" or a
// bare "hundred".
func spellNumber(phrase string) (string, bool) {
	words := strings.FieldsFunc(strings.ToLower(phrase), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '-'
	})

	total, current := 0, 0
	for _, w := range words {
		if v, ok := unitWords[w]; ok {
			if current%10 != 0 {
				return "", false
			}
			current += v
			continue
		}
		if v, ok := teenWords[w]; ok {
			if current%100 != 0 {
				return "", false
			}
			current += v
			continue
		}
		if v, ok := tensWords[w]; ok {
			if current%100 != 0 {
				return "", false
			}
			current += v
			continue
		}
		switch w {
		case "hundred":
			if current == 0 || current >= 100 {
				return "", false
			}
			current *= 100
		case "thousand":
			if current == 0 || total != 0 {
				return "", false
			}
			total, current = current*1000, 0
		default:
			return "", false
		}
	}

	n := total + current
	if n < 10 {
		return "", false
	}
	return strconv.Itoa(n), true
}

// numerals replaces a number phrase with digits, or leaves it as written
// when it cannot be read as one number
func numerals(m Match) string {
	if digits, ok := spellNumber(m.Text); ok {
		return digits
	}
	return m.Text
}
