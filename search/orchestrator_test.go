package search

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/scholarseek/ai"
	"github.com/poiesic/scholarseek/ai/mock"
	"github.com/poiesic/scholarseek/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orchestratorCorpus() []*core.ResearcherRecord {
	return []*core.ResearcherRecord{
		{
			NameJA:        "田中太郎",
			ProfileURL:    "https://researchmap.jp/tanaka",
			Keywords:      "機械学習, 深層学習",
			Fields:        "情報科学",
			JobTitleJA:    "助教",
			AffiliationJA: "東京大学",
		},
		{
			NameJA:        "鈴木一郎",
			ProfileURL:    "https://researchmap.jp/suzuki",
			Keywords:      "機械学習, ロボティクス",
			Fields:        "工学",
			JobTitleJA:    "教授",
			AffiliationJA: "大阪大学",
		},
		{
			NameJA:        "山田花子",
			ProfileURL:    "https://researchmap.jp/yamada",
			Keywords:      "機械学習",
			Fields:        "医学",
			JobTitleJA:    "准教授",
			AffiliationJA: "京都大学",
		},
	}
}

func newTestOrchestrator(t *testing.T, wh *fakeWarehouse, provider ai.AIProvider) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(wh, provider, WithCurrentYear(2026))
	require.NoError(t, err)
	return o
}

func TestNewOrchestrator(t *testing.T) {
	t.Run("requires warehouse", func(t *testing.T) {
		_, err := NewOrchestrator(nil, mock.NewMockProvider())
		assert.ErrorIs(t, err, ErrWarehouseRequired)
	})

	t.Run("nil provider allowed", func(t *testing.T) {
		o, err := NewOrchestrator(&fakeWarehouse{}, nil)
		require.NoError(t, err)
		assert.False(t, o.SemanticAvailable())
		assert.False(t, o.GenerationAvailable())
	})
}

func TestSearchKeyword(t *testing.T) {
	wh := &fakeWarehouse{records: orchestratorCorpus()}
	o := newTestOrchestrator(t, wh, mock.NewMockProvider())

	response, err := o.Search(context.Background(), &core.SearchCriteria{
		Query:  "機械学習",
		Method: core.MethodKeyword,
		Limit:  10,
	})
	require.NoError(t, err)

	assert.Equal(t, "success", response.Status)
	assert.Equal(t, "機械学習", response.Query)
	assert.Equal(t, core.MethodKeyword, response.Method)
	assert.Equal(t, 3, response.Total)
	assert.Len(t, response.Results, 3)
	assert.NotEmpty(t, response.ExecutedInfo)
	assert.Nil(t, response.Expansion)
	assert.GreaterOrEqual(t, response.ExecutionSeconds, 0.0)

	// Every result is classified.
	for _, result := range response.Results {
		if result.JobTitleJA == "助教" {
			assert.True(t, result.IsYoung)
		}
		if result.JobTitleJA == "教授" {
			assert.False(t, result.IsYoung)
		}
	}
}

func TestSearchCapabilityDowngrade(t *testing.T) {
	t.Run("semantic without embedder coerces to keyword", func(t *testing.T) {
		wh := &fakeWarehouse{records: orchestratorCorpus()}
		o := newTestOrchestrator(t, wh, nil)

		response, err := o.Search(context.Background(), &core.SearchCriteria{
			Query:  "機械学習",
			Method: core.MethodSemantic,
			Limit:  10,
		})
		require.NoError(t, err)
		assert.Equal(t, "success", response.Status)
		assert.Equal(t, core.MethodKeyword, response.Method)
		assert.NotEmpty(t, response.Results)
		assert.Greater(t, response.Results[0].Score, 0)
	})

	t.Run("embedder failure at call time coerces to keyword", func(t *testing.T) {
		wh := &fakeWarehouse{records: orchestratorCorpus()}
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("embedding service unreachable")
		}
		provider := mock.NewMockProviderWithServices(embedder, mock.NewMockGenerator())
		o := newTestOrchestrator(t, wh, provider)

		response, err := o.Search(context.Background(), &core.SearchCriteria{
			Query:  "AI",
			Method: core.MethodSemantic,
			Limit:  10,
		})
		require.NoError(t, err)
		assert.Equal(t, "success", response.Status)
		assert.Equal(t, core.MethodKeyword, response.Method)
	})

	t.Run("expansion disabled for semantic method", func(t *testing.T) {
		wh := &fakeWarehouse{records: orchestratorCorpus()}
		generator := mock.NewMockGenerator()
		provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), generator)
		o := newTestOrchestrator(t, wh, provider)

		response, err := o.Search(context.Background(), &core.SearchCriteria{
			Query:        "機械学習",
			Method:       core.MethodSemantic,
			Limit:        10,
			UseExpansion: true,
		})
		require.NoError(t, err)
		assert.Equal(t, core.MethodSemantic, response.Method)
		assert.Nil(t, response.Expansion)
		assert.Zero(t, generator.CallCount())
	})
}

func TestSearchExpansion(t *testing.T) {
	wh := &fakeWarehouse{records: orchestratorCorpus()}
	generator := mock.NewMockGenerator()
	generator.Responses = []string{"機械学習, 深層学習, AI"}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), generator)
	o := newTestOrchestrator(t, wh, provider)

	response, err := o.Search(context.Background(), &core.SearchCriteria{
		Query:        "機械学習",
		Method:       core.MethodKeyword,
		Limit:        10,
		UseExpansion: true,
	})
	require.NoError(t, err)

	// The envelope echoes the original query; the expansion rides along
	// as metadata.
	assert.Equal(t, "機械学習", response.Query)
	require.NotNil(t, response.Expansion)
	assert.Equal(t, []string{"機械学習", "深層学習", "AI"}, response.Expansion.Keywords)
	assert.Equal(t, "機械学習 深層学習 AI", response.Expansion.ExpandedQuery)
}

func TestSearchYoungFilter(t *testing.T) {
	wh := &fakeWarehouse{records: orchestratorCorpus()}
	o := newTestOrchestrator(t, wh, mock.NewMockProvider())

	unfiltered, err := o.Search(context.Background(), &core.SearchCriteria{
		Query:  "機械学習",
		Method: core.MethodKeyword,
		Limit:  10,
	})
	require.NoError(t, err)

	filtered, err := o.Search(context.Background(), &core.SearchCriteria{
		Query:     "機械学習",
		Method:    core.MethodKeyword,
		Limit:     10,
		YoungOnly: true,
	})
	require.NoError(t, err)

	// Strict post-filter: count can only shrink and every survivor is
	// young. No backfill runs.
	assert.LessOrEqual(t, filtered.Total, unfiltered.Total)
	require.Len(t, filtered.Results, 1)
	for _, result := range filtered.Results {
		assert.True(t, result.IsYoung)
	}
}

func TestSearchSummaries(t *testing.T) {
	wh := &fakeWarehouse{records: orchestratorCorpus()[:1]}
	generator := mock.NewMockGenerator()
	generator.Responses = []string{"機械学習研究との関連が深い。"}
	provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), generator)
	o := newTestOrchestrator(t, wh, provider)

	response, err := o.Search(context.Background(), &core.SearchCriteria{
		Query:      "機械学習",
		Method:     core.MethodKeyword,
		Limit:      10,
		UseSummary: true,
	})
	require.NoError(t, err)
	require.Len(t, response.Results, 1)
	assert.Equal(t, "機械学習研究との関連が深い。", response.Results[0].Summary)
}

func TestSearchErrorEnvelope(t *testing.T) {
	t.Run("warehouse unreachable", func(t *testing.T) {
		wh := &fakeWarehouse{pingErr: errors.New("connection refused")}
		o := newTestOrchestrator(t, wh, mock.NewMockProvider())

		response, err := o.Search(context.Background(), &core.SearchCriteria{
			Query:  "機械学習",
			Method: core.MethodKeyword,
			Limit:  10,
		})
		require.NoError(t, err)
		assert.Equal(t, "error", response.Status)
		assert.Contains(t, response.ErrorMessage, "connection refused")
		assert.Empty(t, response.Results)
		assert.GreaterOrEqual(t, response.ExecutionSeconds, 0.0)
	})

	t.Run("scan failure during retrieval", func(t *testing.T) {
		wh := &fakeWarehouse{scanErr: errors.New("query engine down")}
		o := newTestOrchestrator(t, wh, mock.NewMockProvider())

		response, err := o.Search(context.Background(), &core.SearchCriteria{
			Query:  "機械学習",
			Method: core.MethodKeyword,
			Limit:  10,
		})
		require.NoError(t, err)
		assert.Equal(t, "error", response.Status)
	})

	t.Run("invalid criteria is a caller error", func(t *testing.T) {
		o := newTestOrchestrator(t, &fakeWarehouse{}, mock.NewMockProvider())
		_, err := o.Search(context.Background(), &core.SearchCriteria{Query: "   "})
		assert.ErrorIs(t, err, core.ErrEmptyQuery)
	})
}

func TestSearchWithMonitor(t *testing.T) {
	wh := &fakeWarehouse{records: orchestratorCorpus()}
	o := newTestOrchestrator(t, wh, mock.NewMockProvider())

	monitor := &recordingMonitor{}
	response, err := o.SearchWithMonitor(context.Background(), &core.SearchCriteria{
		Query:     "機械学習",
		Method:    core.MethodKeyword,
		Limit:     10,
		YoungOnly: true,
	}, monitor)
	require.NoError(t, err)

	assert.Equal(t, "機械学習", monitor.startedQuery)
	assert.Equal(t, "keyword", monitor.resolvedMethod)
	assert.Equal(t, 3, monitor.retrieved)
	assert.Equal(t, 1, monitor.afterYoungFilter)
	assert.Same(t, response, monitor.finished)
}

type recordingMonitor struct {
	startedQuery     string
	resolvedMethod   string
	retrieved        int
	afterYoungFilter int
	finished         *Response
}

func (m *recordingMonitor) Start(query string) { m.startedQuery = query }

func (m *recordingMonitor) MethodResolved(method string, _ bool) { m.resolvedMethod = method }

func (m *recordingMonitor) AfterExpansion(_ *Expansion) {}
func (m *recordingMonitor) AfterRetrieval(results []*RankedResult) {
	m.retrieved = len(results)
}

func (m *recordingMonitor) AfterClassification(_ []*RankedResult) {}

func (m *recordingMonitor) AfterYoungFilter(results []*RankedResult) {
	m.afterYoungFilter = len(results)
}

func (m *recordingMonitor) Finish(response *Response) { m.finished = response }
