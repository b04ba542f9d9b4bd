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
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/scholarseek/ai"
)

// expandedQueryTerms caps how many leading keywords are joined into the
// expanded query string used for retrieval.
const expandedQueryTerms = 5

const expansionPromptTemplate = `あなたは学術研究データベースの検索アシスタントです。
ユーザーが入力した「元のキーワード」について、そのキーワードを含む研究情報をより効果的に見つけるために、
関連性の高い類義語、上位/下位概念語、英語の対応語（もしあれば）、具体的な技術名や物質名などを考慮し、
検索に有効そうなキーワードを最大10個提案してください。
提案は日本語の単語または短いフレーズで、カンマ区切りで出力してください。元のキーワード自体も提案に含めてください。

元のキーワード: 「%s」

提案:`

// Expander widens a short query into related search terms via the
// generator. It never returns an error: every failure path resolves to
// the degenerate expansion of the original query alone.
type Expander struct {
	generator ai.Generator
	logger    *slog.Logger
}

// NewExpander creates a query expander.
func NewExpander(generator ai.Generator) *Expander {
	return &Expander{
		generator: generator,
		logger:    slog.Default().With("component", "expander"),
	}
}

// Expand asks the generator for related terms and builds an Expansion.
// The original query is always the first keyword, duplicates are removed
// order-preserving, and the expanded query joins the first five keywords.
func (e *Expander) Expand(ctx context.Context, query string) *Expansion {
	degenerate := &Expansion{
		OriginalQuery: query,
		Keywords:      []string{query},
		ExpandedQuery: query,
	}

	if e.generator == nil {
		return degenerate
	}

	prompt := fmt.Sprintf(expansionPromptTemplate, query)
	response, err := e.generator.GenerateText(ctx, prompt,
		ai.WithTemperature(0.2),
		ai.WithMaxTokens(200),
		ai.WithTopP(0.8))
	if err != nil {
		e.logger.Warn("query expansion failed, using original query", "query", query, "err", err)
		return degenerate
	}

	keywords := parseExpansionKeywords(query, response)
	if len(keywords) <= 1 {
		e.logger.Debug("query expansion produced nothing new", "query", query)
		return degenerate
	}

	joined := keywords
	if len(joined) > expandedQueryTerms {
		joined = joined[:expandedQueryTerms]
	}

	expansion := &Expansion{
		OriginalQuery: query,
		Keywords:      keywords,
		ExpandedQuery: strings.Join(joined, " "),
	}
	e.logger.Info("query expanded", "query", query, "keywords", len(keywords))
	return expansion
}

// parseExpansionKeywords splits a comma-separated response into a
// deduplicated keyword list with the original query first. Dedupe is
// case-insensitive so a model echoing the query in a different case
// does not produce a duplicate.
func parseExpansionKeywords(query, response string) []string {
	keywords := []string{query}
	seen := map[string]bool{strings.ToLower(query): true}

	for _, part := range strings.Split(response, ",") {
		keyword := strings.TrimSpace(part)
		if keyword == "" || seen[strings.ToLower(keyword)] {
			continue
		}
		seen[strings.ToLower(keyword)] = true
		keywords = append(keywords, keyword)
	}
	return keywords
}
