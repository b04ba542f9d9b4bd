package search

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/scholarseek/ai/mock"
	"github.com/poiesic/scholarseek/core"
	"github.com/poiesic/scholarseek/warehouse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWarehouse is an in-memory warehouse with injectable failures,
// shared by the ranker and orchestrator tests.
type fakeWarehouse struct {
	records []*core.ResearcherRecord

	pingErr       error
	vectorErr     error
	candidatesErr error
	scanErr       error

	vectorCalls    int
	candidateCalls int
	scanCalls      int
}

var _ warehouse.Warehouse = (*fakeWarehouse)(nil)

func (f *fakeWarehouse) Ping(ctx context.Context) error {
	return f.pingErr
}

func (f *fakeWarehouse) VectorSearch(ctx context.Context, vector []float32, topK int, filter *warehouse.Filter) ([]*core.ResearcherRecord, []float64, error) {
	f.vectorCalls++
	if f.vectorErr != nil {
		return nil, nil, f.vectorErr
	}
	records := f.filtered(filter)
	if len(records) > topK {
		records = records[:topK]
	}
	distances := make([]float64, len(records))
	for i := range distances {
		distances[i] = float64(i) * 0.1
	}
	return records, distances, nil
}

func (f *fakeWarehouse) Candidates(ctx context.Context, token string, filter *warehouse.Filter, limit int) ([]*core.ResearcherRecord, error) {
	f.candidateCalls++
	if f.candidatesErr != nil {
		return nil, f.candidatesErr
	}
	var matched []*core.ResearcherRecord
	for _, record := range f.filtered(filter) {
		haystack := strings.ToLower(record.Keywords + " " + record.Fields + " " + record.Biography)
		if strings.Contains(haystack, strings.ToLower(token)) {
			matched = append(matched, record)
			if len(matched) >= limit {
				break
			}
		}
	}
	return matched, nil
}

func (f *fakeWarehouse) Scan(ctx context.Context, filter *warehouse.Filter) ([]*core.ResearcherRecord, error) {
	f.scanCalls++
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	return f.filtered(filter), nil
}

func (f *fakeWarehouse) InsertResearchers(ctx context.Context, records ...*core.ResearcherRecord) error {
	f.records = append(f.records, records...)
	return nil
}

func (f *fakeWarehouse) Count(ctx context.Context) (int, error) {
	return len(f.records), nil
}

func (f *fakeWarehouse) Close() error {
	return nil
}

func (f *fakeWarehouse) filtered(filter *warehouse.Filter) []*core.ResearcherRecord {
	if filter.Empty() {
		return f.records
	}
	var out []*core.ResearcherRecord
	for _, record := range f.records {
		excluded := false
		haystack := strings.ToLower(record.Keywords + " " + record.Fields + " " + record.Biography)
		for _, term := range filter.ExcludeKeywords {
			if strings.Contains(haystack, strings.ToLower(term)) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		if len(filter.Universities) > 0 {
			matched := false
			for _, u := range filter.Universities {
				if strings.Contains(record.AffiliationJA, u) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		out = append(out, record)
	}
	return out
}

func rankerCorpus() []*core.ResearcherRecord {
	return []*core.ResearcherRecord{
		{NameJA: "田中", ProfileURL: "https://researchmap.jp/t", Keywords: "機械学習, 深層学習", Fields: "情報科学", AffiliationJA: "東京大学"},
		{NameJA: "鈴木", ProfileURL: "https://researchmap.jp/s", Keywords: "機械学習, ロボティクス", Fields: "工学", AffiliationJA: "大阪大学"},
		{NameJA: "佐藤", ProfileURL: "https://researchmap.jp/a", Keywords: "触媒化学", Fields: "化学", AffiliationJA: "京都大学"},
	}
}

func TestRankSemanticNativePath(t *testing.T) {
	wh := &fakeWarehouse{records: rankerCorpus()}
	ranker := NewRanker(wh, mock.NewMockEmbedder())

	results, method, err := ranker.RankSemantic(context.Background(), "機械学習", 2, nil)
	require.NoError(t, err)
	assert.Equal(t, core.MethodSemantic, method)
	require.Len(t, results, 2)
	assert.Equal(t, 1, wh.vectorCalls)
	assert.Zero(t, wh.candidateCalls)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i].Distance, results[i-1].Distance)
	}
}

func TestRankSemanticRealtimeFallback(t *testing.T) {
	wh := &fakeWarehouse{
		records:   rankerCorpus(),
		vectorErr: errors.New("vector operator unavailable"),
	}
	ranker := NewRanker(wh, mock.NewMockEmbedder())

	results, method, err := ranker.RankSemantic(context.Background(), "機械学習", 2, nil)
	require.NoError(t, err)
	assert.Equal(t, core.MethodSemantic, method)
	assert.Equal(t, 1, wh.candidateCalls)
	// Only the two records mentioning the first token are candidates.
	require.Len(t, results, 2)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i].Distance, results[i-1].Distance)
	}
}

func TestRankSemanticBatchFailureDegradesToZeroVectors(t *testing.T) {
	wh := &fakeWarehouse{
		records:   rankerCorpus(),
		vectorErr: errors.New("vector operator unavailable"),
	}
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("batch embedding failed")
	}
	ranker := NewRanker(wh, embedder)

	results, method, err := ranker.RankSemantic(context.Background(), "機械学習", 5, nil)
	require.NoError(t, err)
	assert.Equal(t, core.MethodSemantic, method)
	require.NotEmpty(t, results)
	// Zero vectors mean similarity 0 and maximal distance 1.
	for _, result := range results {
		assert.InDelta(t, 1.0, result.Distance, 1e-9)
	}
}

func TestRankSemanticKeywordFallback(t *testing.T) {
	t.Run("query embedding fails", func(t *testing.T) {
		wh := &fakeWarehouse{records: rankerCorpus()}
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("embedding service unreachable")
		}
		ranker := NewRanker(wh, embedder)

		results, method, err := ranker.RankSemantic(context.Background(), "機械学習", 10, nil)
		require.NoError(t, err)
		assert.Equal(t, core.MethodKeyword, method)
		require.Len(t, results, 2)
		assert.Greater(t, results[0].Score, 0)
		assert.Zero(t, results[0].Distance)
	})

	t.Run("both vector paths fail", func(t *testing.T) {
		wh := &fakeWarehouse{
			records:       rankerCorpus(),
			vectorErr:     errors.New("vector operator unavailable"),
			candidatesErr: errors.New("candidate query failed"),
		}
		ranker := NewRanker(wh, mock.NewMockEmbedder())

		results, method, err := ranker.RankSemantic(context.Background(), "機械学習", 10, nil)
		require.NoError(t, err)
		assert.Equal(t, core.MethodKeyword, method)
		assert.Equal(t, 1, wh.scanCalls)
		require.NotEmpty(t, results)
	})
}

func TestRankKeywordFilters(t *testing.T) {
	wh := &fakeWarehouse{records: rankerCorpus()}
	ranker := NewRanker(wh, nil)

	filter := &warehouse.Filter{ExcludeKeywords: []string{"ロボティクス"}}
	results, err := ranker.RankKeyword(context.Background(), "機械学習", 10, filter)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "田中", results[0].NameJA)
}

func TestRankedResultDistanceAlwaysSerialized(t *testing.T) {
	// The best semantic match can legitimately sit at distance 0 and
	// must still report its distance to API consumers.
	result := &RankedResult{
		ResearcherRecord: &core.ResearcherRecord{NameJA: "田中", ProfileURL: "https://researchmap.jp/tanaka"},
		Distance:         0,
	}

	payload, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"distance":0`)
}
