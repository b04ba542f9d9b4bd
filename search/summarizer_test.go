package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/poiesic/scholarseek/ai"
	"github.com/poiesic/scholarseek/ai/mock"
	"github.com/poiesic/scholarseek/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeResults(n int) []*RankedResult {
	results := make([]*RankedResult, n)
	for i := range results {
		results[i] = &RankedResult{
			ResearcherRecord: &core.ResearcherRecord{
				NameJA:   fmt.Sprintf("研究者%d", i+1),
				Keywords: "機械学習",
			},
		}
	}
	return results
}

func TestSummarize(t *testing.T) {
	ctx := context.Background()

	t.Run("fills every summary", func(t *testing.T) {
		generator := mock.NewMockGenerator()
		generator.Responses = []string{"機械学習の研究との関連が深い。"}

		results := makeResults(2)
		NewSummarizer(generator).Summarize(ctx, results, "機械学習")

		for _, result := range results {
			assert.Equal(t, "機械学習の研究との関連が深い。", result.Summary)
		}
	})

	t.Run("rate limit on one call does not abort the rest", func(t *testing.T) {
		call := 0
		generator := mock.NewMockGenerator()
		generator.GenerateTextFunc = func(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
			call++
			if call == 3 {
				return "", errors.New("429 rate limit exceeded")
			}
			return fmt.Sprintf("要約%d", call), nil
		}

		results := makeResults(5)
		NewSummarizer(generator).Summarize(ctx, results, "機械学習")

		require.Equal(t, 5, call)
		assert.Equal(t, "要約1", results[0].Summary)
		assert.Equal(t, "要約2", results[1].Summary)
		assert.Equal(t, rateLimitSentinel, results[2].Summary)
		assert.Equal(t, "要約4", results[3].Summary)
		assert.Equal(t, "要約5", results[4].Summary)
	})

	t.Run("generic failure falls back to query reference", func(t *testing.T) {
		generator := mock.NewMockGenerator()
		generator.GenerateTextFunc = func(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
			return "", errors.New("connection reset")
		}

		results := makeResults(1)
		NewSummarizer(generator).Summarize(ctx, results, "触媒化学")
		assert.Equal(t, "「触媒化学」に関連する研究を行っています。", results[0].Summary)
	})

	t.Run("empty response falls back", func(t *testing.T) {
		generator := mock.NewMockGenerator()
		generator.Responses = []string{""}

		results := makeResults(1)
		NewSummarizer(generator).Summarize(ctx, results, "触媒化学")
		assert.Contains(t, results[0].Summary, "触媒化学")
	})

	t.Run("nil generator leaves summaries empty", func(t *testing.T) {
		results := makeResults(2)
		NewSummarizer(nil).Summarize(ctx, results, "機械学習")
		for _, result := range results {
			assert.Empty(t, result.Summary)
		}
	})
}

func TestSummarizeOne(t *testing.T) {
	generator := mock.NewMockGenerator()
	generator.Responses = []string{"ロボット制御研究との関連。"}

	record := &core.ResearcherRecord{NameJA: "田中", Keywords: "ロボティクス"}
	summary := NewSummarizer(generator).SummarizeOne(context.Background(), record, "ロボット")
	assert.Equal(t, "ロボット制御研究との関連。", summary)
}
