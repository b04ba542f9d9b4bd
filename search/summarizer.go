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
	"time"

	"golang.org/x/time/rate"

	"github.com/poiesic/scholarseek/ai"
	"github.com/poiesic/scholarseek/core"
)

// rateLimitSentinel is the summary stored when the generator signals a
// quota condition.
const rateLimitSentinel = "⚠️ API制限のため要約をスキップしました"

const summaryPromptTemplate = `検索クエリ: 「%s」
研究者: %s (%s)
研究キーワード: %s
プロフィール概要: %s

この研究者と検索クエリとの関連性を200字以内で簡潔に説明してください:`

// summaryBioLimit bounds how much biography goes into the prompt.
const summaryBioLimit = 200

// Summarizer generates a short relevance explanation per result.
// Calls run strictly serially with a fixed inter-call delay; the throttle
// is a rate budget for the generation service, not a performance knob.
type Summarizer struct {
	generator ai.Generator
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// NewSummarizer creates a summarizer with a 0.5 second inter-call delay.
func NewSummarizer(generator ai.Generator) *Summarizer {
	return &Summarizer{
		generator: generator,
		limiter:   rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		logger:    slog.Default().With("component", "summarizer"),
	}
}

// Summarize fills the Summary field of every result in place. A single
// item's failure never aborts the remaining items: rate-limit failures
// store a fixed sentinel, any other failure stores a generic fallback
// naming the query.
func (s *Summarizer) Summarize(ctx context.Context, results []*RankedResult, query string) {
	if s.generator == nil || len(results) == 0 {
		return
	}

	fallback := fmt.Sprintf("「%s」に関連する研究を行っています。", query)

	for _, result := range results {
		if err := s.limiter.Wait(ctx); err != nil {
			// Request cancelled; leave the remaining summaries empty.
			s.logger.Debug("summarization cancelled", "err", err)
			return
		}

		bio := result.Biography
		if runes := []rune(bio); len(runes) > summaryBioLimit {
			bio = string(runes[:summaryBioLimit])
		}

		prompt := fmt.Sprintf(summaryPromptTemplate,
			query, result.NameJA, result.AffiliationJA, result.Keywords, bio)

		summary, err := s.generator.GenerateText(ctx, prompt,
			ai.WithTemperature(0.1),
			ai.WithMaxTokens(200),
			ai.WithTopP(0.8))
		switch {
		case err != nil && ai.IsRateLimit(err):
			s.logger.Warn("summary skipped, rate limited", "researcher", result.NameJA, "err", err)
			result.Summary = rateLimitSentinel
		case err != nil:
			s.logger.Warn("summary generation failed", "researcher", result.NameJA, "err", err)
			result.Summary = fallback
		case summary == "":
			result.Summary = fallback
		default:
			result.Summary = summary
		}
	}
}

// SummarizeOne generates a relevance explanation for a single record.
// Used by the standalone summary endpoint.
func (s *Summarizer) SummarizeOne(ctx context.Context, record *core.ResearcherRecord, query string) string {
	result := &RankedResult{ResearcherRecord: record}
	s.Summarize(ctx, []*RankedResult{result}, query)
	return result.Summary
}
