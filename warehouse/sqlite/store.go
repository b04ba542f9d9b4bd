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


package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/scholarseek/core"
	"github.com/poiesic/scholarseek/storage"
	"github.com/poiesic/scholarseek/university"
	"github.com/poiesic/scholarseek/warehouse"
	_ "modernc.org/sqlite"
)

// researcherColumns is the column list for INSERT statements.
const researcherColumns = `profile_url, name_ja, name_en,
	affiliation_ja, affiliation_en, job_title_ja, job_title_en,
	keywords, fields, biography,
	first_paper_title, first_project_title, embedding`

// selectResearcherFields is the field list for SELECT queries. Nullable
// text columns go through COALESCE so rows written by external tooling
// with NULLs scan as empty strings.
const selectResearcherFields = `profile_url, name_ja, COALESCE(name_en, ''),
	COALESCE(affiliation_ja, ''), COALESCE(affiliation_en, ''),
	COALESCE(job_title_ja, ''), COALESCE(job_title_en, ''),
	COALESCE(keywords, ''), COALESCE(fields, ''), COALESCE(biography, ''),
	COALESCE(first_paper_title, ''), COALESCE(first_project_title, ''), embedding`

// Store implements warehouse.Warehouse on a SQLite database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ warehouse.Warehouse = (*Store)(nil)

// Open opens or creates a researcher corpus at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", warehouse.ErrUnavailable, err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "warehouse"),
	}, nil
}

// OpenMemory opens an in-memory corpus for testing.
func OpenMemory() (*Store, error) {
	return Open(":memory:")
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS researchers (
			profile_url TEXT PRIMARY KEY,
			name_ja TEXT NOT NULL,
			name_en TEXT,
			affiliation_ja TEXT,
			affiliation_en TEXT,
			job_title_ja TEXT,
			job_title_en TEXT,
			keywords TEXT,
			fields TEXT,
			biography TEXT,
			first_paper_title TEXT,
			first_project_title TEXT,
			embedding BLOB
		);

		CREATE INDEX IF NOT EXISTS idx_researchers_affiliation
			ON researchers(affiliation_ja);
	`
	_, err := db.Exec(schema)
	return err
}

// Ping verifies the corpus connection is usable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", warehouse.ErrUnavailable, err)
	}
	return nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Count returns the number of records in the corpus.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM researchers").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", warehouse.ErrUnavailable, err)
	}
	return count, nil
}

// InsertResearchers adds records to the corpus, replacing rows that
// share a profile URL.
func (s *Store) InsertResearchers(ctx context.Context, records ...*core.ResearcherRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", warehouse.ErrUnavailable, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO researchers (`+researcherColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		if record.ProfileURL == "" {
			return fmt.Errorf("%w: record %q has no profile URL", warehouse.ErrInvalidQuery, record.NameJA)
		}
		var embedding []byte
		if len(record.Embedding) > 0 {
			embedding = storage.MarshalVector(record.Embedding)
		}
		_, err := stmt.ExecContext(ctx,
			record.ProfileURL, record.NameJA, record.NameEN,
			record.AffiliationJA, record.AffiliationEN,
			record.JobTitleJA, record.JobTitleEN,
			record.Keywords, record.Fields, record.Biography,
			record.FirstPaperTitle, record.FirstProjectTitle, embedding)
		if err != nil {
			return fmt.Errorf("inserting researcher %q: %w", record.ProfileURL, err)
		}
	}

	return tx.Commit()
}

// VectorSearch returns up to topK records nearest to the query vector by
// cosine distance. Rows are filtered before ranking so topK survivors are
// returned where possible.
func (s *Store) VectorSearch(ctx context.Context, vector []float32, topK int, filter *warehouse.Filter) ([]*core.ResearcherRecord, []float64, error) {
	if len(vector) == 0 {
		return nil, nil, warehouse.ErrInvalidVector
	}
	if topK <= 0 {
		return nil, nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+selectResearcherFields+" FROM researchers WHERE embedding IS NOT NULL")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", warehouse.ErrUnavailable, err)
	}
	defer rows.Close()

	type scored struct {
		record   *core.ResearcherRecord
		distance float64
	}
	var candidates []scored

	for rows.Next() {
		record, err := scanResearcher(rows)
		if err != nil {
			return nil, nil, err
		}
		if !matchesFilter(record, filter) {
			continue
		}
		similarity := core.CosineSimilarity(vector, record.Embedding)
		candidates = append(candidates, scored{record: record, distance: 1.0 - similarity})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", warehouse.ErrUnavailable, err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	records := make([]*core.ResearcherRecord, len(candidates))
	distances := make([]float64, len(candidates))
	for i, c := range candidates {
		records[i] = c.record
		distances[i] = c.distance
	}
	return records, distances, nil
}

// Candidates returns up to limit records whose keywords, fields, or
// biography contain the token, with the filter applied.
func (s *Store) Candidates(ctx context.Context, token string, filter *warehouse.Filter, limit int) ([]*core.ResearcherRecord, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: empty candidate token", warehouse.ErrInvalidQuery)
	}
	if limit <= 0 {
		return nil, nil
	}

	pattern := "%" + strings.ToLower(token) + "%"
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+selectResearcherFields+` FROM researchers
		WHERE lower(keywords) LIKE ? OR lower(fields) LIKE ? OR lower(biography) LIKE ?`,
		pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", warehouse.ErrUnavailable, err)
	}
	defer rows.Close()

	var records []*core.ResearcherRecord
	for rows.Next() {
		record, err := scanResearcher(rows)
		if err != nil {
			return nil, err
		}
		if !matchesFilter(record, filter) {
			continue
		}
		records = append(records, record)
		if len(records) >= limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", warehouse.ErrUnavailable, err)
	}
	return records, nil
}

// Scan returns all records surviving the filter.
func (s *Store) Scan(ctx context.Context, filter *warehouse.Filter) ([]*core.ResearcherRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+selectResearcherFields+" FROM researchers")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", warehouse.ErrUnavailable, err)
	}
	defer rows.Close()

	var records []*core.ResearcherRecord
	for rows.Next() {
		record, err := scanResearcher(rows)
		if err != nil {
			return nil, err
		}
		if !matchesFilter(record, filter) {
			continue
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", warehouse.ErrUnavailable, err)
	}
	return records, nil
}

func scanResearcher(rows *sql.Rows) (*core.ResearcherRecord, error) {
	var record core.ResearcherRecord
	var embedding []byte
	err := rows.Scan(
		&record.ProfileURL, &record.NameJA, &record.NameEN,
		&record.AffiliationJA, &record.AffiliationEN,
		&record.JobTitleJA, &record.JobTitleEN,
		&record.Keywords, &record.Fields, &record.Biography,
		&record.FirstPaperTitle, &record.FirstProjectTitle, &embedding)
	if err != nil {
		return nil, fmt.Errorf("scanning researcher row: %w", err)
	}
	if len(embedding) > 0 {
		vector, err := storage.UnmarshalVector(embedding)
		if err != nil {
			return nil, fmt.Errorf("decoding embedding for %q: %w", record.ProfileURL, err)
		}
		record.Embedding = vector
	}
	return &record, nil
}

// matchesFilter applies university and exclusion filtering. University
// matching goes through the normalizer, so stored affiliations with
// department tails still match their base university name.
func matchesFilter(record *core.ResearcherRecord, filter *warehouse.Filter) bool {
	if filter.Empty() {
		return true
	}

	if len(filter.Universities) > 0 {
		affiliation := record.AffiliationJA
		if affiliation == "" {
			affiliation = record.AffiliationEN
		}
		if !university.Matches(affiliation, filter.Universities) {
			return false
		}
	}

	if len(filter.ExcludeKeywords) > 0 {
		haystack := strings.ToLower(record.Keywords + " " + record.Fields + " " + record.Biography)
		for _, term := range filter.ExcludeKeywords {
			term = strings.ToLower(strings.TrimSpace(term))
			if term == "" {
				continue
			}
			if strings.Contains(haystack, term) {
				return false
			}
		}
	}

	return true
}
