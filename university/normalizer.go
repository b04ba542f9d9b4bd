// Copyright 2025 Poiesic Systems
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


// Package university normalizes Japanese university affiliation names.
//
// Affiliation strings in researcher profiles mix the institution with its
// corporate wrapper and sub-organization, e.g.
// "国立大学法人東京大学大学院工学研究科". NormalizeName reduces these to the
// bare institution name so allow-list filtering and statistics group rows
// from the same university together.
package university

import (
	"regexp"
	"strings"
)

// corporatePrefix strips the legal-entity wrapper in front of the name.
var corporatePrefix = regexp.MustCompile(`^(国立大学法人|公立大学法人|学校法人)\s*`)

// suffixPatterns remove graduate schools, faculties, hospitals, and other
// attached organs from the end of the name. Order matters: compound
// patterns run before their shorter tails.
var suffixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`大学院医学研究院$`),
	regexp.MustCompile(`大学院歯学研究院$`),
	regexp.MustCompile(`大学院新領域創成科学研究科$`),
	regexp.MustCompile(`大学院人文社会系研究科$`),
	regexp.MustCompile(`大学院総合文化研究科$`),
	regexp.MustCompile(`大学院農学生命科学研究科$`),
	regexp.MustCompile(`大学院薬学系研究科$`),
	regexp.MustCompile(`大学院医学系研究科$`),
	regexp.MustCompile(`大学院医学研究科$`),
	regexp.MustCompile(`大学院工学研究科$`),
	regexp.MustCompile(`医学部附属病院$`),
	regexp.MustCompile(`附属病院$`),
	regexp.MustCompile(`病院$`),
	regexp.MustCompile(`医学研究院$`),
	regexp.MustCompile(`歯学研究院$`),
	regexp.MustCompile(`医学系研究科$`),
	regexp.MustCompile(`医学研究科$`),
	regexp.MustCompile(`医学医療系$`),
	regexp.MustCompile(`医学部$`),
	regexp.MustCompile(`医科学研究所$`),
	regexp.MustCompile(`新領域創成科学研究科$`),
	regexp.MustCompile(`人文社会系研究科$`),
	regexp.MustCompile(`総合文化研究科$`),
	regexp.MustCompile(`農学生命科学研究科$`),
	regexp.MustCompile(`薬学系研究科$`),
	regexp.MustCompile(`歯学研究科$`),
	regexp.MustCompile(`工学研究科$`),
	regexp.MustCompile(`研究科$`),
	regexp.MustCompile(`学部$`),
	regexp.MustCompile(`史料編纂所$`),
	regexp.MustCompile(`研究所$`),
	regexp.MustCompile(`センター$`),
	regexp.MustCompile(`研究院$`),
	regexp.MustCompile(`短期大学部$`),
	regexp.MustCompile(`短期大$`),
	regexp.MustCompile(`大学院$`),
}

var whitespace = regexp.MustCompile(`[\s　]+`)

// NormalizeName reduces an affiliation string to the bare university name.
// Returns an empty string for empty input.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}

	normalized := strings.TrimSpace(name)
	normalized = whitespace.ReplaceAllString(normalized, "")
	normalized = corporatePrefix.ReplaceAllString(normalized, "")

	for _, pattern := range suffixPatterns {
		normalized = pattern.ReplaceAllString(normalized, "")
	}

	// Institutional mergers: the former Tokyo Institute of Technology and
	// Tokyo Medical and Dental University are both Institute of Science
	// Tokyo since 2024.
	if strings.Contains(normalized, "東京工業大学") || strings.Contains(normalized, "東京医科歯科大学") {
		normalized = "東京科学大学"
	}

	return strings.TrimSpace(normalized)
}

// Matches reports whether an affiliation belongs to one of the allowed
// universities. Both sides are normalized before comparison; an allow-list
// entry matches when the normalized affiliation equals it or contains it.
func Matches(affiliation string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	normalized := NormalizeName(affiliation)
	if normalized == "" {
		return false
	}
	for _, u := range allowed {
		target := NormalizeName(u)
		if target == "" {
			continue
		}
		if normalized == target || strings.Contains(normalized, target) {
			return true
		}
	}
	return false
}
