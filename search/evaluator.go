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
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/poiesic/scholarseek/ai"
)

// evalBatchSize bounds how many researchers go into one evaluation prompt.
const evalBatchSize = 5

// Criterion weights for the composite evaluation score.
var evalWeights = map[string]float64{
	"keyword_match":       0.25,
	"research_directness": 0.20,
	"expertise_depth":     0.15,
	"practical_evidence":  0.15,
	"research_quality":    0.10,
	"interdisciplinary":   0.10,
	"recency":             0.05,
}

// Evaluator scores ranked results against the query with an LLM on seven
// weighted criteria. It annotates results in place and never fails the
// request: any batch failure degrades to a heuristic score derived from
// the lexical relevance already computed.
type Evaluator struct {
	generator ai.Generator
	logger    *slog.Logger
}

// NewEvaluator creates a result evaluator. The generator may be nil, in
// which case only the heuristic scoring runs.
func NewEvaluator(generator ai.Generator) *Evaluator {
	return &Evaluator{
		generator: generator,
		logger:    slog.Default().With("component", "evaluator"),
	}
}

type batchEvaluation struct {
	Evaluations []struct {
		ResearcherIndex int                `json:"researcher_index"`
		Scores          map[string]float64 `json:"scores"`
	} `json:"evaluations"`
}

// Evaluate fills EvalScore for every result, processing sequential
// batches of five.
func (e *Evaluator) Evaluate(ctx context.Context, results []*RankedResult, query string) {
	for start := 0; start < len(results); start += evalBatchSize {
		end := min(start+evalBatchSize, len(results))
		e.evaluateBatch(ctx, results[start:end], query)
	}
}

func (e *Evaluator) evaluateBatch(ctx context.Context, batch []*RankedResult, query string) {
	if e.generator == nil {
		e.fallbackScores(batch, query)
		return
	}

	prompt := e.buildPrompt(batch, query)
	response, err := e.generator.GenerateText(ctx, prompt,
		ai.WithTemperature(0.1),
		ai.WithMaxTokens(2048),
		ai.WithTopP(0.8),
		ai.WithJSONMode())
	if err != nil {
		e.logger.Warn("evaluation batch failed, using heuristic scores", "err", err)
		e.fallbackScores(batch, query)
		return
	}

	var parsed batchEvaluation
	if err := json.Unmarshal([]byte(repairEvaluationJSON(response)), &parsed); err != nil {
		e.logger.Warn("unparseable evaluation response, using heuristic scores", "err", err)
		e.fallbackScores(batch, query)
		return
	}

	scored := make(map[int]bool)
	for _, eval := range parsed.Evaluations {
		idx := eval.ResearcherIndex - 1
		if idx < 0 || idx >= len(batch) {
			continue
		}
		batch[idx].EvalScore = weightedTotal(eval.Scores)
		scored[idx] = true
	}

	// Anything the model skipped still gets a score.
	for i, result := range batch {
		if !scored[i] {
			e.fallbackScores([]*RankedResult{result}, query)
		}
	}
}

func (e *Evaluator) buildPrompt(batch []*RankedResult, query string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "以下の研究者と検索クエリ「%s」の関連性を評価してください。\n\n", query)

	for i, result := range batch {
		bio := result.Biography
		if runes := []rune(bio); len(runes) > 300 {
			bio = string(runes[:300])
		}
		fmt.Fprintf(&sb, `研究者%d:
名前: %s
所属: %s
研究キーワード: %s
研究分野: %s
プロフィール: %s
主要論文: %s
主要プロジェクト: %s

`, i+1, result.NameJA, result.AffiliationJA, result.Keywords,
			result.Fields, bio, result.FirstPaperTitle, result.FirstProjectTitle)
	}

	sb.WriteString(`各研究者について、以下の7つの観点で1-10点で評価し、JSON形式で出力してください：

1. keyword_match: クエリと研究キーワードの一致度
2. research_directness: 研究内容とクエリの直接的関連性
3. expertise_depth: 該当分野での専門性の深さ
4. practical_evidence: 具体的な実績・エビデンス
5. research_quality: 研究の質と影響力
6. interdisciplinary: 学際性・応用可能性
7. recency: 研究の最新性

出力形式:
{"evaluations": [{"researcher_index": 1, "scores": {"keyword_match": 8, "research_directness": 9, "expertise_depth": 7, "practical_evidence": 8, "research_quality": 7, "interdisciplinary": 6, "recency": 8}}]}
`)
	return sb.String()
}

// fallbackScores derives a score from evidence already in hand: the
// lexical relevance score or the vector distance.
func (e *Evaluator) fallbackScores(batch []*RankedResult, query string) {
	tokens := tokenize(query)
	for _, result := range batch {
		scores := map[string]float64{
			"expertise_depth":    5,
			"practical_evidence": 5,
			"research_quality":   5,
			"interdisciplinary":  5,
			"recency":            5,
		}

		keywordHits := 0
		fieldHits := 0
		loweredKeywords := strings.ToLower(result.Keywords)
		loweredFields := strings.ToLower(result.Fields)
		for _, token := range tokens {
			if strings.Contains(loweredKeywords, token) {
				keywordHits++
			}
			if strings.Contains(loweredFields, token) {
				fieldHits++
			}
		}
		scores["keyword_match"] = min(10, float64(3+keywordHits*2))
		scores["research_directness"] = min(10, float64(5+fieldHits))

		result.EvalScore = weightedTotal(scores)
	}
}

// weightedTotal computes the weighted criterion average on a 0-10 scale,
// rounded to one decimal. Missing criteria default to the midpoint.
func weightedTotal(scores map[string]float64) float64 {
	var weightedSum, totalWeight float64
	for criterion, weight := range evalWeights {
		score, ok := scores[criterion]
		if !ok {
			score = 5
		}
		weightedSum += score * weight
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 5.0
	}
	total := weightedSum / totalWeight
	return float64(int(total*10+0.5)) / 10
}

var trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)

// repairEvaluationJSON fixes the formatting issues models commonly emit:
// markdown code fences, leading prose around the object, and trailing
// commas before a closing brace or bracket.
func repairEvaluationJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start > 0 {
		s = s[start:]
	}
	if end := strings.LastIndex(s, "}"); end >= 0 && end < len(s)-1 {
		s = s[:end+1]
	}

	return trailingCommaPattern.ReplaceAllString(s, "$1")
}
