package search

import "github.com/poiesic/scholarseek/core"

// RankedResult is one researcher candidate after ranking and annotation.
// Exactly one of Score or Distance is meaningful, depending on the
// resolved search method. Created once per candidate per request and
// never persisted.
type RankedResult struct {
	*core.ResearcherRecord

	// Score is the weighted lexical relevance score. Unbounded; it grows
	// with query token count.
	Score int `json:"relevance_score,omitempty"`

	// Distance is the cosine distance to the query embedding,
	// lower is more similar. An exact match is distance 0, so the
	// field always serializes.
	Distance float64 `json:"distance"`

	// EvalScore is the LLM evaluation total on a 0-10 scale, present
	// only when the evaluator ran.
	EvalScore float64 `json:"evaluation_score,omitempty"`

	IsYoung      bool     `json:"is_young_researcher"`
	YoungReasons []string `json:"young_researcher_reasons,omitempty"`

	// Summary is the generated relevance explanation, present only when
	// summarization ran.
	Summary string `json:"llm_summary,omitempty"`
}

// Expansion records the outcome of LLM query expansion.
type Expansion struct {
	OriginalQuery string `json:"original_query"`
	// Keywords is deduplicated and order-preserving, with the original
	// query always first.
	Keywords []string `json:"expanded_keywords"`
	// ExpandedQuery is the first five keywords joined by spaces.
	ExpandedQuery string `json:"expanded_query"`
}

// Degenerate reports whether expansion produced nothing beyond the
// original query.
func (e *Expansion) Degenerate() bool {
	return len(e.Keywords) <= 1 && e.ExpandedQuery == e.OriginalQuery
}

// Response is the envelope returned for every search request.
// Callers always receive a well-formed envelope; Status is "error" only
// when the warehouse itself is unreachable.
type Response struct {
	Status           string            `json:"status"`
	Query            string            `json:"query"`
	Method           core.SearchMethod `json:"method"`
	Results          []*RankedResult   `json:"results"`
	Total            int               `json:"total"`
	ExecutionSeconds float64           `json:"execution_time"`
	ExecutedInfo     string            `json:"executed_query_info"`
	Expansion        *Expansion        `json:"expanded_info"`
	ErrorMessage     string            `json:"error_message,omitempty"`
}
