package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// EmbeddingDim is the dimension of the embedding vectors stored in the
// warehouse corpus. Query vectors are reconciled to this length before
// any similarity computation.
const EmbeddingDim = 768

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// SearchMethod selects the ranking strategy for a search request.
type SearchMethod string

const (
	// MethodKeyword ranks candidates by weighted lexical relevance.
	MethodKeyword SearchMethod = "keyword"
	// MethodSemantic ranks candidates by cosine distance to the query embedding.
	MethodSemantic SearchMethod = "semantic"
)

// ResearcherRecord represents one researcher row from the warehouse.
// All text fields may be empty; matching code must treat empty as "no data"
// rather than an error. Records are immutable once fetched for a request.
type ResearcherRecord struct {
	NameJA            string    `json:"name_ja"`
	NameEN            string    `json:"name_en,omitempty"`
	AffiliationJA     string    `json:"main_affiliation_name_ja,omitempty"`
	AffiliationEN     string    `json:"main_affiliation_name_en,omitempty"`
	JobTitleJA        string    `json:"main_affiliation_job_ja,omitempty"`
	JobTitleEN        string    `json:"main_affiliation_job_en,omitempty"`
	Keywords          string    `json:"research_keywords_ja,omitempty"` // free-text research keywords, comma separated
	Fields            string    `json:"research_fields_ja,omitempty"`   // free-text research fields
	Biography         string    `json:"profile_ja,omitempty"`
	FirstPaperTitle   string    `json:"paper_title_ja_first,omitempty"`
	FirstProjectTitle string    `json:"project_title_ja_first,omitempty"`
	ProfileURL        string    `json:"researchmap_url"`
	Embedding         []float32 `json:"-"` // precomputed corpus embedding, may be nil
}

// CandidateText returns the text used when embedding a record on the fly:
// keywords, fields, and the leading portion of the biography.
func (r *ResearcherRecord) CandidateText(bioLimit int) string {
	bio := r.Biography
	if bioLimit > 0 && len([]rune(bio)) > bioLimit {
		bio = string([]rune(bio)[:bioLimit])
	}
	return r.Keywords + " " + r.Fields + " " + bio
}

// SearchCriteria is the validated value object built from one search request.
// It is passed by reference through the pipeline and never mutated, except
// that Method may be downgraded from semantic to keyword when the embedding
// capability is unavailable.
type SearchCriteria struct {
	Query           string
	Method          SearchMethod
	Limit           int
	ExcludeKeywords []string
	Universities    []string // affiliation allow-list, empty means no restriction
	UseExpansion    bool
	UseSummary      bool
	UseEvaluation   bool
	YoungOnly       bool
}

// ProjectStatus tracks the lifecycle of a dashboard project.
type ProjectStatus string

const (
	ProjectStatusDraft             ProjectStatus = "draft"
	ProjectStatusActive            ProjectStatus = "active"
	ProjectStatusMatchingRequested ProjectStatus = "matching_requested"
	ProjectStatusCompleted         ProjectStatus = "completed"
)

// Project is a dashboard project grouping bookmarked researchers.
type Project struct {
	Id          string        `json:"id"` // UUID
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	Bookmarks   []string      `json:"bookmarks"` // researcher profile URLs
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// HasBookmark reports whether the project already bookmarks the given profile URL.
func (p *Project) HasBookmark(profileURL string) bool {
	for _, b := range p.Bookmarks {
		if b == profileURL {
			return true
		}
	}
	return false
}

// AnalysisRecord stores the outcome of a researcher profile analysis.
// The Id is content-derived from the profile URL so repeated analyses of
// the same profile overwrite rather than accumulate.
type AnalysisRecord struct {
	Id         ID        `json:"id"`
	ProfileURL string    `json:"researchmap_url"`
	Analysis   string    `json:"analysis"`
	Keywords   []string  `json:"keywords,omitempty"`
	StoredAt   time.Time `json:"stored_at"`
}
