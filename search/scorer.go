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
	"sort"
	"strings"

	"github.com/poiesic/scholarseek/core"
)

// Field weights for lexical relevance. A token found in a higher-weighted
// field contributes more to the total; the total is unbounded and scales
// with the number of query tokens.
const (
	weightName         = 10
	weightKeywords     = 8
	weightFields       = 6
	weightPaperTitle   = 5
	weightProjectTitle = 5
	weightBiography    = 4
)

// RelevanceScore computes the weighted lexical score of a record against
// pre-tokenized lowercase query tokens. Matching is case-insensitive
// substring containment per field per token.
func RelevanceScore(record *core.ResearcherRecord, tokens []string) int {
	name := strings.ToLower(record.NameJA + " " + record.NameEN)
	keywords := strings.ToLower(record.Keywords)
	fields := strings.ToLower(record.Fields)
	paper := strings.ToLower(record.FirstPaperTitle)
	project := strings.ToLower(record.FirstProjectTitle)
	biography := strings.ToLower(record.Biography)

	score := 0
	for _, token := range tokens {
		if strings.Contains(name, token) {
			score += weightName
		}
		if strings.Contains(keywords, token) {
			score += weightKeywords
		}
		if strings.Contains(fields, token) {
			score += weightFields
		}
		if strings.Contains(paper, token) {
			score += weightPaperTitle
		}
		if strings.Contains(project, token) {
			score += weightProjectTitle
		}
		if strings.Contains(biography, token) {
			score += weightBiography
		}
	}
	return score
}

// rankByRelevance scores every candidate against the query and returns up
// to limit results ordered by score descending, then name ascending for a
// deterministic order on ties. Candidates with a zero score are dropped.
func rankByRelevance(candidates []*core.ResearcherRecord, query string, limit int) []*RankedResult {
	tokens := tokenize(query)

	results := make([]*RankedResult, 0, len(candidates))
	for _, candidate := range candidates {
		score := RelevanceScore(candidate, tokens)
		if score == 0 {
			continue
		}
		results = append(results, &RankedResult{
			ResearcherRecord: candidate,
			Score:            score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].NameJA < results[j].NameJA
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
