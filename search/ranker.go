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
	"log/slog"
	"sort"

	"github.com/poiesic/scholarseek/ai"
	"github.com/poiesic/scholarseek/core"
	"github.com/poiesic/scholarseek/warehouse"
)

// embedBatchSize bounds the realtime fallback's embedding batches.
// Small batches keep individual failures cheap and respect service
// rate limits.
const embedBatchSize = 5

// candidateBioLimit caps how much biography enters the candidate text
// embedded in the realtime fallback.
const candidateBioLimit = 200

// Ranker produces ranked researcher candidates for a query. The semantic
// path runs a fallback chain: warehouse-native vector search, then
// realtime brute-force cosine ranking over a lexically prefiltered
// candidate set, then plain lexical scoring.
type Ranker struct {
	warehouse warehouse.Warehouse
	embedder  ai.Embedder
	logger    *slog.Logger
}

// NewRanker creates a ranker over the given warehouse and embedder.
// The embedder may be nil, in which case only the lexical path works.
func NewRanker(wh warehouse.Warehouse, embedder ai.Embedder) *Ranker {
	return &Ranker{
		warehouse: wh,
		embedder:  embedder,
		logger:    slog.Default().With("component", "ranker"),
	}
}

// RankKeyword scores every filtered record lexically and returns up to
// limit results, score descending with name-ascending tie-break.
func (r *Ranker) RankKeyword(ctx context.Context, query string, limit int, filter *warehouse.Filter) ([]*RankedResult, error) {
	candidates, err := r.warehouse.Scan(ctx, filter)
	if err != nil {
		return nil, err
	}
	return rankByRelevance(candidates, query, limit), nil
}

// RankSemantic ranks candidates by ascending cosine distance to the
// query embedding, falling back through the documented chain. The
// returned method names the path that actually produced the results,
// so a full degradation to lexical scoring is visible to the caller.
// The only error it returns is total warehouse failure on the final
// lexical path.
func (r *Ranker) RankSemantic(ctx context.Context, query string, limit int, filter *warehouse.Filter) ([]*RankedResult, core.SearchMethod, error) {
	queryVector, err := r.embedQuery(ctx, query)
	if err != nil {
		r.logger.Warn("query embedding failed, falling back to keyword ranking", "query", query, "err", err)
		results, err := r.RankKeyword(ctx, query, limit, filter)
		return results, core.MethodKeyword, err
	}

	results, err := r.rankNative(ctx, queryVector, limit, filter)
	if err == nil {
		return results, core.MethodSemantic, nil
	}
	r.logger.Warn("native vector search failed, falling back to realtime ranking", "err", err)

	results, err = r.rankRealtime(ctx, query, queryVector, limit, filter)
	if err == nil {
		return results, core.MethodSemantic, nil
	}
	r.logger.Warn("realtime ranking failed, falling back to keyword ranking", "err", err)

	results, err = r.RankKeyword(ctx, query, limit, filter)
	return results, core.MethodKeyword, err
}

// embedQuery generates the query embedding and reconciles its dimension
// with the corpus. Embedding services may return a different dimension
// than the stored vectors.
func (r *Ranker) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if r.embedder == nil {
		return nil, ErrAIProviderRequired
	}
	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(vector) != core.EmbeddingDim {
		r.logger.Debug("normalizing query vector dimension",
			"from", len(vector), "to", core.EmbeddingDim)
		vector = core.NormalizeDimension(vector, core.EmbeddingDim)
	}
	return vector, nil
}

// rankNative asks the warehouse's vector operator for nearest neighbors.
// topK over-fetches to leave room for downstream post-filtering.
func (r *Ranker) rankNative(ctx context.Context, queryVector []float32, limit int, filter *warehouse.Filter) ([]*RankedResult, error) {
	topK := max(50, limit*5)
	records, distances, err := r.warehouse.VectorSearch(ctx, queryVector, topK, filter)
	if err != nil {
		return nil, err
	}

	results := make([]*RankedResult, 0, min(limit, len(records)))
	for i, record := range records {
		if len(results) >= limit {
			break
		}
		results = append(results, &RankedResult{
			ResearcherRecord: record,
			Distance:         distances[i],
		})
	}
	return results, nil
}

// rankRealtime fetches a bounded candidate set via a cheap lexical
// prefilter on the first query token, embeds each candidate's text on
// the fly, and ranks by cosine distance. A failed embedding batch
// degrades those candidates to zero vectors instead of aborting.
func (r *Ranker) rankRealtime(ctx context.Context, query string, queryVector []float32, limit int, filter *warehouse.Filter) ([]*RankedResult, error) {
	token := firstToken(query)
	candidates, err := r.warehouse.Candidates(ctx, token, filter, limit*5)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		r.logger.Info("no realtime candidates found", "token", token)
		return []*RankedResult{}, nil
	}

	texts := make([]string, len(candidates))
	for i, candidate := range candidates {
		texts[i] = candidate.CandidateText(candidateBioLimit)
	}

	embeddings := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := min(start+embedBatchSize, len(texts))
		batch, err := r.embedder.EmbedTexts(ctx, texts[start:end])
		if err != nil {
			r.logger.Warn("embedding batch failed, degrading to zero vectors",
				"batch", start/embedBatchSize+1, "err", err)
			batch = make([][]float32, end-start)
			for i := range batch {
				batch[i] = make([]float32, len(queryVector))
			}
		}
		embeddings = append(embeddings, batch...)
	}

	results := make([]*RankedResult, 0, len(candidates))
	for i, candidate := range candidates {
		if i >= len(embeddings) {
			break
		}
		embedding := core.NormalizeDimension(embeddings[i], len(queryVector))
		similarity := core.CosineSimilarity(queryVector, embedding)
		results = append(results, &RankedResult{
			ResearcherRecord: candidate,
			Distance:         1.0 - similarity,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
