package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent("https://example.org/researchers/0001")
		id2 := IDFromContent("https://example.org/researchers/0001")
		assert.Equal(t, id1, id2)
	})

	t.Run("different content produces different IDs", func(t *testing.T) {
		id1 := IDFromContent("https://example.org/researchers/0001")
		id2 := IDFromContent("https://example.org/researchers/0002")
		assert.NotEqual(t, id1, id2)
	})

	t.Run("empty content is valid", func(t *testing.T) {
		id := IDFromContent("")
		assert.Equal(t, id, IDFromContent(""))
	})
}

func TestCandidateText(t *testing.T) {
	record := &ResearcherRecord{
		Keywords:  "機械学習, データマイニング",
		Fields:    "情報学",
		Biography: "2018年東京大学大学院修了。以後、機械学習の研究に従事。",
	}

	t.Run("concatenates keywords, fields, and biography", func(t *testing.T) {
		text := record.CandidateText(0)
		assert.Contains(t, text, "機械学習")
		assert.Contains(t, text, "情報学")
		assert.Contains(t, text, "東京大学")
	})

	t.Run("truncates biography by rune count", func(t *testing.T) {
		text := record.CandidateText(5)
		assert.Contains(t, text, "2018年")
		assert.NotContains(t, text, "修了")
	})

	t.Run("empty record produces whitespace only", func(t *testing.T) {
		empty := &ResearcherRecord{}
		assert.Equal(t, "  ", empty.CandidateText(200))
	})
}

func TestProjectHasBookmark(t *testing.T) {
	project := &Project{
		Name:      "AI matching",
		Status:    ProjectStatusDraft,
		Bookmarks: []string{"https://example.org/researchers/0001"},
	}

	assert.True(t, project.HasBookmark("https://example.org/researchers/0001"))
	assert.False(t, project.HasBookmark("https://example.org/researchers/0002"))
}
