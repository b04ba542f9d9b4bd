package search

import (
	"testing"

	"github.com/poiesic/scholarseek/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevanceScore(t *testing.T) {
	t.Run("keyword field match per token", func(t *testing.T) {
		// "machine" and "learning" each hit the keywords field.
		record := &core.ResearcherRecord{
			NameJA:   "Taro Yamada",
			Keywords: "machine learning, robotics",
		}
		score := RelevanceScore(record, tokenize("machine learning"))
		assert.Equal(t, 16, score)
	})

	t.Run("weights per field", func(t *testing.T) {
		tokens := tokenize("quantum")
		cases := []struct {
			name   string
			record *core.ResearcherRecord
			want   int
		}{
			{"name", &core.ResearcherRecord{NameJA: "Quantum Taro"}, 10},
			{"keywords", &core.ResearcherRecord{Keywords: "quantum computing"}, 8},
			{"fields", &core.ResearcherRecord{Fields: "quantum physics"}, 6},
			{"paper", &core.ResearcherRecord{FirstPaperTitle: "Quantum entanglement"}, 5},
			{"project", &core.ResearcherRecord{FirstProjectTitle: "Quantum devices"}, 5},
			{"biography", &core.ResearcherRecord{Biography: "Works on quantum theory"}, 4},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				assert.Equal(t, tc.want, RelevanceScore(tc.record, tokens))
			})
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		record := &core.ResearcherRecord{Keywords: "Machine Learning"}
		assert.Equal(t, 8, RelevanceScore(record, tokenize("MACHINE")))
	})

	t.Run("monotonic under added occurrences", func(t *testing.T) {
		tokens := tokenize("robotics control")
		base := &core.ResearcherRecord{Keywords: "robotics"}
		richer := &core.ResearcherRecord{Keywords: "robotics", Fields: "control engineering"}
		assert.GreaterOrEqual(t, RelevanceScore(richer, tokens), RelevanceScore(base, tokens))
	})

	t.Run("no match scores zero", func(t *testing.T) {
		record := &core.ResearcherRecord{Keywords: "chemistry"}
		assert.Equal(t, 0, RelevanceScore(record, tokenize("robotics")))
	})
}

func TestRankByRelevance(t *testing.T) {
	candidates := []*core.ResearcherRecord{
		{NameJA: "佐藤", Keywords: "化学"},
		{NameJA: "田中", Keywords: "machine learning", Fields: "machine vision"},
		{NameJA: "鈴木", Keywords: "machine learning, robotics"},
		{NameJA: "加藤", Biography: "machine operator"},
	}

	t.Run("orders by score descending", func(t *testing.T) {
		results := rankByRelevance(candidates, "machine", 10)
		require.Len(t, results, 3)
		assert.Equal(t, "田中", results[0].NameJA) // keywords + fields = 14
		for i := 1; i < len(results); i++ {
			assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
		}
	})

	t.Run("ties break by name ascending", func(t *testing.T) {
		tied := []*core.ResearcherRecord{
			{NameJA: "b researcher", Keywords: "machine"},
			{NameJA: "a researcher", Keywords: "machine"},
		}
		results := rankByRelevance(tied, "machine", 10)
		require.Len(t, results, 2)
		assert.Equal(t, "a researcher", results[0].NameJA)
		assert.Equal(t, "b researcher", results[1].NameJA)
	})

	t.Run("zero scores dropped", func(t *testing.T) {
		results := rankByRelevance(candidates, "astronomy", 10)
		assert.Empty(t, results)
	})

	t.Run("respects limit", func(t *testing.T) {
		results := rankByRelevance(candidates, "machine", 2)
		assert.Len(t, results, 2)
	})
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"machine", "learning"}, tokenize("  Machine   Learning "))
	assert.Empty(t, tokenize("   "))
	assert.Equal(t, "機械学習", firstToken("機械学習 ロボティクス"))
}
