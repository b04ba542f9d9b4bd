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


package search

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/scholarseek/core"
)

// seniorMarkers disqualify a researcher outright. Ordered most-specific
// first so the reported reason names the narrowest matching term.
var seniorMarkers = []string{
	"名誉教授",
	"元教授",
	"学部長",
	"学長",
	"理事",
	"所長",
	"退職",
	"教授",
	"professor emeritus",
	"former professor",
	"emeritus",
	"professor",
	"director",
	"dean",
	"retired",
}

// earlyCareerMarkers are job-title terms accepted as structured evidence
// of an early career stage. Ordered most-specific first.
var earlyCareerMarkers = []string{
	"特任助教",
	"助教",
	"ポスドク",
	"博士研究員",
	"特別研究員",
	"博士課程",
	"学振",
	"講師",
	"assistant professor",
	"postdoctoral",
	"postdoc",
	"research associate",
	"doctoral student",
	"jsps fellow",
	"lecturer",
}

// earlyCareerKeywords are free-text biography phrases counted as
// cumulative heuristic evidence.
var earlyCareerKeywords = []string{
	"若手研究者賞",
	"若手",
	"early career",
	"early-career",
	"young researcher",
	"rising star",
}

var (
	// "<year>-<position>" and "<year>年 <position>" career lines.
	careerLinePattern = regexp.MustCompile(`(?m)(\d{4})\s*[-–—年]\s*([^\n]+)`)
	// Explicit current-position statements.
	currentPositionPattern = regexp.MustCompile(`(?mi)(?:現職|current position)\s*[:：]\s*([^\n]+)`)

	phdYearPatterns = []*regexp.Regexp{
		regexp.MustCompile(`((?:19|20)\d{2})\s*年[^\n]{0,10}?博士`),
		regexp.MustCompile(`博士[^\n]{0,15}?((?:19|20)\d{2})\s*年`),
		regexp.MustCompile(`(?i)ph\.?\s?d\.?[^\n]{0,15}?((?:19|20)\d{2})`),
		regexp.MustCompile(`(?i)((?:19|20)\d{2})[^\n]{0,15}?ph\.?\s?d`),
	}

	agePattern       = regexp.MustCompile(`(\d{2})\s*歳`)
	birthYearPattern = regexp.MustCompile(`((?:19|20)\d{2})\s*年\s*生まれ`)
	yearPattern      = regexp.MustCompile(`(?:19|20)\d{2}`)
)

// Classifier decides whether a researcher counts as early-career, from
// the record's text fields alone. The current year is injected so the
// decision is a pure function of (record, currentYear).
type Classifier struct {
	currentYear int
}

// NewClassifier creates a classifier anchored at the given year.
func NewClassifier(currentYear int) *Classifier {
	return &Classifier{currentYear: currentYear}
}

// Classify returns whether the record looks early-career plus the
// human-readable evidence. Exclusion always wins: a senior marker
// anywhere in the job titles or biography yields (false, [that reason])
// and discards all other evidence. Deterministic and idempotent.
func (c *Classifier) Classify(record *core.ResearcherRecord) (bool, []string) {
	if reason, ok := c.exclusionRule(record); ok {
		return false, []string{reason}
	}

	if reason, ok := c.jobTitleRule(record); ok {
		return true, []string{reason}
	}

	if reason, ok := c.currentPositionRule(record); ok {
		return true, []string{reason}
	}

	var reasons []string
	if reason, ok := c.doctorateYearRule(record); ok {
		reasons = append(reasons, reason)
	}
	if reason, ok := c.firstPaperRule(record); ok {
		reasons = append(reasons, reason)
	}
	if reason, ok := c.ageRule(record); ok {
		reasons = append(reasons, reason)
	}
	if reason, ok := c.keywordRule(record); ok {
		reasons = append(reasons, reason)
	}

	reasons = dedupeStrings(reasons)
	return len(reasons) > 0, reasons
}

// exclusionRule scans job titles and biography for senior markers.
func (c *Classifier) exclusionRule(record *core.ResearcherRecord) (string, bool) {
	combined := record.JobTitleJA + " " + record.JobTitleEN + " " + record.Biography
	if marker, ok := findSeniorMarker(combined); ok {
		return "シニア職位のため除外: " + marker, true
	}
	return "", false
}

// jobTitleRule looks for early-career markers in the structured job-title
// fields. A marker counts only when no senior marker shares the field.
func (c *Classifier) jobTitleRule(record *core.ResearcherRecord) (string, bool) {
	for _, field := range []string{record.JobTitleJA, record.JobTitleEN} {
		if field == "" {
			continue
		}
		if _, senior := findSeniorMarker(field); senior {
			continue
		}
		if marker, ok := findEarlyCareerMarker(field); ok {
			return "職名が若手ポジション: " + marker, true
		}
	}
	return "", false
}

// currentPositionRule extracts current-position spans from the biography
// and searches them for the same early-career markers.
func (c *Classifier) currentPositionRule(record *core.ResearcherRecord) (string, bool) {
	if record.Biography == "" {
		return "", false
	}

	var spans []string
	for _, match := range careerLinePattern.FindAllStringSubmatch(record.Biography, -1) {
		spans = append(spans, match[2])
	}
	for _, match := range currentPositionPattern.FindAllStringSubmatch(record.Biography, -1) {
		spans = append(spans, match[1])
	}

	for _, span := range spans {
		if _, senior := findSeniorMarker(span); senior {
			continue
		}
		if marker, ok := findEarlyCareerMarker(span); ok {
			return "経歴の現職記載が若手ポジション: " + marker, true
		}
	}
	return "", false
}

// doctorateYearRule checks for a doctorate awarded within the last 15 years.
func (c *Classifier) doctorateYearRule(record *core.ResearcherRecord) (string, bool) {
	for _, pattern := range phdYearPatterns {
		match := pattern.FindStringSubmatch(record.Biography)
		if match == nil {
			continue
		}
		year, err := strconv.Atoi(match[1])
		if err != nil || !c.plausibleYear(year) {
			continue
		}
		if c.currentYear-year <= 15 {
			return fmt.Sprintf("博士号取得から15年以内 (%d年)", year), true
		}
	}
	return "", false
}

// firstPaperRule treats a first-authored paper within the last 10 years
// as a proxy for years active.
func (c *Classifier) firstPaperRule(record *core.ResearcherRecord) (string, bool) {
	match := yearPattern.FindString(record.FirstPaperTitle)
	if match == "" {
		return "", false
	}
	year, err := strconv.Atoi(match)
	if err != nil || !c.plausibleYear(year) {
		return "", false
	}
	if c.currentYear-year <= 10 {
		return fmt.Sprintf("初著論文から10年以内 (%d年)", year), true
	}
	return "", false
}

// ageRule accepts an explicit age of 25-45 or a birth year implying one.
func (c *Classifier) ageRule(record *core.ResearcherRecord) (string, bool) {
	if match := agePattern.FindStringSubmatch(record.Biography); match != nil {
		if age, err := strconv.Atoi(match[1]); err == nil && age >= 25 && age <= 45 {
			return fmt.Sprintf("年齢が%d歳", age), true
		}
	}
	if match := birthYearPattern.FindStringSubmatch(record.Biography); match != nil {
		if birth, err := strconv.Atoi(match[1]); err == nil && c.plausibleYear(birth) {
			age := c.currentYear - birth
			if age >= 25 && age <= 45 {
				return fmt.Sprintf("生年から推定%d歳", age), true
			}
		}
	}
	return "", false
}

// keywordRule checks for explicit early-career mentions.
func (c *Classifier) keywordRule(record *core.ResearcherRecord) (string, bool) {
	lowered := strings.ToLower(record.Biography)
	for _, keyword := range earlyCareerKeywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			return "若手キーワードの記載: " + keyword, true
		}
	}
	return "", false
}

func (c *Classifier) plausibleYear(year int) bool {
	return year >= 1950 && year <= c.currentYear
}

// findSeniorMarker reports the first senior marker found in the text.
// The early-career title "assistant professor" is masked out first so its
// "professor" substring cannot disqualify assistant professors.
func findSeniorMarker(text string) (string, bool) {
	lowered := strings.ToLower(text)
	lowered = strings.ReplaceAll(lowered, "assistant professor", " ")
	for _, marker := range seniorMarkers {
		if strings.Contains(lowered, marker) {
			return marker, true
		}
	}
	return "", false
}

// findEarlyCareerMarker reports the first early-career marker in the text.
func findEarlyCareerMarker(text string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, marker := range earlyCareerMarkers {
		if strings.Contains(lowered, marker) {
			return marker, true
		}
	}
	return "", false
}

// dedupeStrings removes duplicates while preserving first-seen order.
func dedupeStrings(values []string) []string {
	if len(values) <= 1 {
		return values
	}
	seen := make(map[string]bool, len(values))
	deduped := values[:0]
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			deduped = append(deduped, v)
		}
	}
	return deduped
}
