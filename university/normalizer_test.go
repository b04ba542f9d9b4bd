package university

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"bare university", "東京大学", "東京大学"},
		{"corporate prefix", "国立大学法人東京大学", "東京大学"},
		{"school corporation prefix", "学校法人早稲田大学", "早稲田大学"},
		{"graduate school suffix", "東京大学大学院工学研究科", "東京大学"},
		{"compound graduate suffix", "東京大学大学院医学系研究科", "東京大学"},
		{"hospital suffix", "大阪大学医学部附属病院", "大阪大学"},
		{"faculty suffix", "京都大学医学部", "京都大学"},
		{"institute suffix", "東京大学史料編纂所", "東京大学"},
		{"fullwidth spaces removed", "東京大学　大学院", "東京大学"},
		{"prefix and suffix together", "国立大学法人 筑波大学 医学医療系", "筑波大学"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}

func TestNormalizeNameMergers(t *testing.T) {
	t.Run("tokyo tech merged into Science Tokyo", func(t *testing.T) {
		assert.Equal(t, "東京科学大学", NormalizeName("東京工業大学"))
	})

	t.Run("TMDU merged into Science Tokyo", func(t *testing.T) {
		assert.Equal(t, "東京科学大学", NormalizeName("東京医科歯科大学大学院医歯学総合研究科"))
	})

	t.Run("Science Tokyo unchanged", func(t *testing.T) {
		assert.Equal(t, "東京科学大学", NormalizeName("東京科学大学"))
	})
}

func TestMatches(t *testing.T) {
	t.Run("empty allow-list matches everything", func(t *testing.T) {
		assert.True(t, Matches("東京大学", nil))
		assert.True(t, Matches("", nil))
	})

	t.Run("matches after normalization on both sides", func(t *testing.T) {
		assert.True(t, Matches("国立大学法人東京大学大学院工学研究科", []string{"東京大学"}))
	})

	t.Run("merged institution matches new name", func(t *testing.T) {
		assert.True(t, Matches("東京工業大学", []string{"東京科学大学"}))
	})

	t.Run("non-member rejected", func(t *testing.T) {
		assert.False(t, Matches("京都大学", []string{"東京大学", "大阪大学"}))
	})

	t.Run("empty affiliation rejected by non-empty allow-list", func(t *testing.T) {
		assert.False(t, Matches("", []string{"東京大学"}))
	})
}
