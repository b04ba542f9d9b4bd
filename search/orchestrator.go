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

	"github.com/poiesic/scholarseek/ai"
	"github.com/poiesic/scholarseek/core"
	"github.com/poiesic/scholarseek/warehouse"
)

// Orchestrator coordinates one search request end to end: capability
// resolution, optional query expansion, ranked retrieval, early-career
// classification, post-filtering, and optional summarization and
// evaluation. It always produces a well-formed envelope; degraded
// capabilities surface only in the ExecutedInfo line.
type Orchestrator struct {
	warehouse   warehouse.Warehouse
	embedder    ai.Embedder
	generator   ai.Generator
	ranker      *Ranker
	expander    *Expander
	summarizer  *Summarizer
	evaluator   *Evaluator
	classifier  *Classifier
	logger      *slog.Logger
	currentYear int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithCurrentYear anchors the classifier's year-based heuristics.
// Default is the current wall-clock year.
func WithCurrentYear(year int) Option {
	return func(o *Orchestrator) error {
		o.currentYear = year
		return nil
	}
}

// NewOrchestrator creates a search orchestrator. The provider may be
// nil, in which case semantic ranking, expansion, summarization, and
// evaluation silently downgrade to the lexical path.
func NewOrchestrator(wh warehouse.Warehouse, provider ai.AIProvider, opts ...Option) (*Orchestrator, error) {
	if wh == nil {
		return nil, ErrWarehouseRequired
	}

	o := &Orchestrator{
		warehouse:   wh,
		logger:      slog.Default().With("component", "orchestrator"),
		currentYear: time.Now().Year(),
	}
	if provider != nil {
		o.embedder = provider.Embedder()
		o.generator = provider.Generator()
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	o.ranker = NewRanker(wh, o.embedder)
	o.expander = NewExpander(o.generator)
	o.summarizer = NewSummarizer(o.generator)
	o.evaluator = NewEvaluator(o.generator)
	o.classifier = NewClassifier(o.currentYear)

	return o, nil
}

// Summarizer exposes the per-record summarizer for the standalone
// summary endpoint.
func (o *Orchestrator) Summarizer() *Summarizer {
	return o.summarizer
}

// SemanticAvailable reports whether the embedding capability is wired.
func (o *Orchestrator) SemanticAvailable() bool {
	return o.embedder != nil
}

// GenerationAvailable reports whether the text-generation capability is wired.
func (o *Orchestrator) GenerationAvailable() bool {
	return o.generator != nil
}

// Search runs the full pipeline for validated criteria.
// Returns an error only for invalid criteria; every runtime failure,
// including total warehouse unavailability, is reported inside the
// envelope instead.
func (o *Orchestrator) Search(ctx context.Context, criteria *core.SearchCriteria) (*Response, error) {
	return o.SearchWithMonitor(ctx, criteria, nil)
}

// SearchWithMonitor runs the full pipeline with monitoring callbacks at
// each stage.
func (o *Orchestrator) SearchWithMonitor(ctx context.Context, criteria *core.SearchCriteria, monitor SearchMonitor) (*Response, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	start := time.Now()

	if err := core.ValidateCriteria(criteria); err != nil {
		return nil, err
	}

	monitor.Start(criteria.Query)
	o.logger.Info("search started", "query", criteria.Query, "method", criteria.Method)

	// Total warehouse unavailability is the one hard failure.
	if err := o.warehouse.Ping(ctx); err != nil {
		o.logger.Error("warehouse unreachable", "err", err)
		response := o.errorResponse(criteria, err, start)
		monitor.Finish(response)
		return response, nil
	}

	method, useExpansion, useSummary, useEvaluation := o.resolveCapabilities(criteria, monitor)

	// Expansion only changes the retrieval query; the envelope always
	// echoes the original.
	searchQuery := criteria.Query
	var expansion *Expansion
	if useExpansion {
		if expanded := o.expander.Expand(ctx, criteria.Query); !expanded.Degenerate() {
			expansion = expanded
			searchQuery = expanded.ExpandedQuery
			monitor.AfterExpansion(expanded)
		}
	}

	filter := &warehouse.Filter{
		Universities:    criteria.Universities,
		ExcludeKeywords: criteria.ExcludeKeywords,
	}

	var results []*RankedResult
	var err error
	if method == core.MethodSemantic {
		results, method, err = o.ranker.RankSemantic(ctx, searchQuery, criteria.Limit, filter)
	} else {
		results, err = o.ranker.RankKeyword(ctx, searchQuery, criteria.Limit, filter)
	}
	if err != nil {
		o.logger.Error("retrieval failed", "method", method, "err", err)
		response := o.errorResponse(criteria, err, start)
		monitor.Finish(response)
		return response, nil
	}
	monitor.AfterRetrieval(results)

	for _, result := range results {
		result.IsYoung, result.YoungReasons = o.classifier.Classify(result.ResearcherRecord)
	}
	monitor.AfterClassification(results)

	if criteria.YoungOnly {
		// Strict post-filter after limit truncation; the final count may
		// undershoot the requested limit and no backfill query runs.
		filtered := results[:0]
		for _, result := range results {
			if result.IsYoung {
				filtered = append(filtered, result)
			}
		}
		results = filtered
		monitor.AfterYoungFilter(results)
	}

	if useSummary && len(results) > 0 {
		o.summarizer.Summarize(ctx, results, criteria.Query)
	}
	if useEvaluation && len(results) > 0 {
		o.evaluator.Evaluate(ctx, results, criteria.Query)
	}

	duration := time.Since(start)
	response := &Response{
		Status:           "success",
		Query:            criteria.Query,
		Method:           method,
		Results:          results,
		Total:            len(results),
		ExecutionSeconds: duration.Seconds(),
		ExecutedInfo:     executedInfo(method, useExpansion, useSummary, criteria.YoungOnly, duration),
		Expansion:        expansion,
	}

	o.logger.Info("search completed",
		"query", criteria.Query,
		"method", method,
		"results", len(results),
		"duration", duration)
	monitor.Finish(response)
	return response, nil
}

// resolveCapabilities downgrades the requested method and feature flags
// to what the wired dependencies can actually serve.
func (o *Orchestrator) resolveCapabilities(criteria *core.SearchCriteria, monitor SearchMonitor) (core.SearchMethod, bool, bool, bool) {
	method := criteria.Method
	useExpansion := criteria.UseExpansion
	useSummary := criteria.UseSummary
	useEvaluation := criteria.UseEvaluation

	downgraded := false
	if method == core.MethodSemantic && o.embedder == nil {
		o.logger.Warn("semantic search unavailable, downgrading to keyword", "query", criteria.Query)
		method = core.MethodKeyword
		downgraded = true
	}
	if o.generator == nil {
		useExpansion = false
		useSummary = false
		useEvaluation = false
	}

	// Expansion would not alter the query embedding; it only applies to
	// the lexical path.
	if method == core.MethodSemantic && useExpansion {
		o.logger.Info("query expansion disabled for semantic search")
		useExpansion = false
	}

	monitor.MethodResolved(string(method), downgraded)
	return method, useExpansion, useSummary, useEvaluation
}

func (o *Orchestrator) errorResponse(criteria *core.SearchCriteria, err error, start time.Time) *Response {
	duration := time.Since(start)
	return &Response{
		Status:           "error",
		Query:            criteria.Query,
		Method:           criteria.Method,
		Results:          []*RankedResult{},
		ExecutionSeconds: duration.Seconds(),
		ErrorMessage:     err.Error(),
	}
}

// executedInfo builds the one-line human-readable description of what
// actually ran.
func executedInfo(method core.SearchMethod, expansion, summary, youngOnly bool, duration time.Duration) string {
	info := fmt.Sprintf("検索実行 (方法: %s", method)
	if expansion {
		info += ", キーワード拡張: ON"
	}
	if summary {
		info += ", AI要約: ON"
	}
	if youngOnly {
		info += ", 若手フィルタ: ON"
	}
	info += fmt.Sprintf(", 実行時間: %.2f秒)", duration.Seconds())
	return info
}
