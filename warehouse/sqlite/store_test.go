package sqlite

import (
	"context"
	"testing"

	"github.com/poiesic/scholarseek/core"
	"github.com/poiesic/scholarseek/warehouse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testRecords() []*core.ResearcherRecord {
	return []*core.ResearcherRecord{
		{
			ProfileURL:    "https://researchmap.jp/tanaka",
			NameJA:        "田中太郎",
			AffiliationJA: "国立大学法人東京大学大学院情報理工学系研究科",
			JobTitleJA:    "助教",
			Keywords:      "機械学習, 深層学習",
			Fields:        "情報科学",
			Biography:     "2020年-東京大学助教",
			Embedding:     []float32{1, 0, 0},
		},
		{
			ProfileURL:    "https://researchmap.jp/yamada",
			NameJA:        "山田花子",
			AffiliationJA: "京都大学医学部",
			JobTitleJA:    "教授",
			Keywords:      "ゲノム医学",
			Fields:        "医学",
			Biography:     "ゲノム解析の研究",
			Embedding:     []float32{0, 1, 0},
		},
		{
			ProfileURL:    "https://researchmap.jp/suzuki",
			NameJA:        "鈴木一郎",
			AffiliationJA: "大阪大学",
			JobTitleJA:    "准教授",
			Keywords:      "machine learning, robotics",
			Fields:        "工学",
			Biography:     "ロボット制御の研究",
			Embedding:     []float32{0.9, 0.1, 0},
		},
	}
}

func TestInsertAndCount(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.InsertResearchers(ctx, testRecords()...))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Re-inserting the same profile URL replaces the row.
	updated := testRecords()[0]
	updated.JobTitleJA = "講師"
	require.NoError(t, store.InsertResearchers(ctx, updated))

	count, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	records, err := store.Scan(ctx, nil)
	require.NoError(t, err)
	for _, r := range records {
		if r.ProfileURL == updated.ProfileURL {
			assert.Equal(t, "講師", r.JobTitleJA)
		}
	}
}

func TestInsertRequiresProfileURL(t *testing.T) {
	store := openTestStore(t)

	err := store.InsertResearchers(context.Background(), &core.ResearcherRecord{NameJA: "匿名"})
	require.Error(t, err)
	assert.ErrorIs(t, err, warehouse.ErrInvalidQuery)
}

func TestVectorSearch(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.InsertResearchers(ctx, testRecords()...))

	t.Run("orders by cosine distance ascending", func(t *testing.T) {
		records, distances, err := store.VectorSearch(ctx, []float32{1, 0, 0}, 3, nil)
		require.NoError(t, err)
		require.Len(t, records, 3)
		require.Len(t, distances, 3)

		assert.Equal(t, "田中太郎", records[0].NameJA)
		assert.InDelta(t, 0.0, distances[0], 1e-9)
		for i := 1; i < len(distances); i++ {
			assert.GreaterOrEqual(t, distances[i], distances[i-1])
		}
	})

	t.Run("respects topK", func(t *testing.T) {
		records, _, err := store.VectorSearch(ctx, []float32{1, 0, 0}, 1, nil)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("applies filter before ranking", func(t *testing.T) {
		filter := &warehouse.Filter{Universities: []string{"京都大学"}}
		records, _, err := store.VectorSearch(ctx, []float32{1, 0, 0}, 3, filter)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "山田花子", records[0].NameJA)
	})

	t.Run("rejects empty vector", func(t *testing.T) {
		_, _, err := store.VectorSearch(ctx, nil, 3, nil)
		assert.ErrorIs(t, err, warehouse.ErrInvalidVector)
	})
}

func TestCandidates(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.InsertResearchers(ctx, testRecords()...))

	t.Run("matches keywords case-insensitively", func(t *testing.T) {
		records, err := store.Candidates(ctx, "MACHINE", nil, 10)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "鈴木一郎", records[0].NameJA)
	})

	t.Run("matches biography", func(t *testing.T) {
		records, err := store.Candidates(ctx, "ゲノム", nil, 10)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("respects limit", func(t *testing.T) {
		records, err := store.Candidates(ctx, "の研究", nil, 1)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("rejects empty token", func(t *testing.T) {
		_, err := store.Candidates(ctx, "  ", nil, 10)
		assert.ErrorIs(t, err, warehouse.ErrInvalidQuery)
	})
}

func TestScanFilters(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.InsertResearchers(ctx, testRecords()...))

	t.Run("normalized university match", func(t *testing.T) {
		// Stored affiliation carries a corporate prefix and a graduate
		// school tail; the filter names only the base university.
		filter := &warehouse.Filter{Universities: []string{"東京大学"}}
		records, err := store.Scan(ctx, filter)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "田中太郎", records[0].NameJA)
	})

	t.Run("exclusion removes matching records", func(t *testing.T) {
		filter := &warehouse.Filter{ExcludeKeywords: []string{"ロボット"}}
		records, err := store.Scan(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("empty filter returns everything", func(t *testing.T) {
		records, err := store.Scan(ctx, &warehouse.Filter{})
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})
}

func TestScanToleratesNullColumns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	// A corpus populated by external tooling may leave every optional
	// column NULL rather than writing empty strings.
	_, err := store.db.ExecContext(ctx,
		"INSERT INTO researchers (profile_url, name_ja) VALUES (?, ?)",
		"https://researchmap.jp/sparse", "匿名希望")
	require.NoError(t, err)

	records, err := store.Scan(ctx, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "匿名希望", records[0].NameJA)
	assert.Empty(t, records[0].NameEN)
	assert.Empty(t, records[0].Biography)
	assert.Nil(t, records[0].Embedding)

	// Candidate scans must also survive rows where only some of the
	// searchable columns are populated.
	_, err = store.db.ExecContext(ctx,
		"INSERT INTO researchers (profile_url, name_ja, biography) VALUES (?, ?, ?)",
		"https://researchmap.jp/partial", "佐藤次郎", "機械学習の研究")
	require.NoError(t, err)

	results, err := store.Candidates(ctx, "機械学習", nil, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "佐藤次郎", results[0].NameJA)
	assert.Empty(t, results[0].Keywords)
}
