package warehouse

import (
	"context"

	"github.com/poiesic/scholarseek/core"
)

// Filter restricts which researcher rows a query may return.
// A zero Filter matches everything.
type Filter struct {
	// Universities is an affiliation allow-list. When non-empty, only
	// records whose normalized affiliation matches one of the entries
	// are returned.
	Universities []string

	// ExcludeKeywords removes records whose keywords, fields, or
	// biography contain ANY of the given terms (case-insensitive
	// substring). All terms must be absent for a record to survive.
	ExcludeKeywords []string
}

// Empty reports whether the filter imposes no restrictions.
func (f *Filter) Empty() bool {
	return f == nil || (len(f.Universities) == 0 && len(f.ExcludeKeywords) == 0)
}

// Warehouse provides query access to the researcher corpus.
// Implementations must be thread-safe and support concurrent access.
type Warehouse interface {
	// Ping verifies the warehouse connection is usable.
	// Returns ErrUnavailable if the corpus cannot be reached.
	Ping(ctx context.Context) error

	// VectorSearch returns up to topK records nearest to the query vector
	// by cosine distance, ascending. The returned distances slice is
	// aligned with the records slice. The filter is applied before
	// ranking so topK survivors are returned where possible.
	// The query vector must already match the corpus dimension.
	VectorSearch(ctx context.Context, vector []float32, topK int, filter *Filter) ([]*core.ResearcherRecord, []float64, error)

	// Candidates returns up to limit records whose keywords, fields, or
	// biography contain the token (case-insensitive substring), with the
	// filter applied. Used as the cheap prefilter for realtime ranking.
	Candidates(ctx context.Context, token string, filter *Filter, limit int) ([]*core.ResearcherRecord, error)

	// Scan returns all records surviving the filter.
	// Used by the lexical ranking path, which scores every candidate.
	Scan(ctx context.Context, filter *Filter) ([]*core.ResearcherRecord, error)

	// InsertResearchers adds records to the corpus. Records are keyed by
	// profile URL; inserting an existing URL replaces the stored row.
	InsertResearchers(ctx context.Context, records ...*core.ResearcherRecord) error

	// Count returns the number of records in the corpus.
	Count(ctx context.Context) (int, error)

	// Close releases the underlying connection.
	Close() error
}
