package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencyTableAdd(t *testing.T) {
	ft := make(FrequencyTable)
	ft.Add([]string{"great", "video"})
	ft.Add([]string{"great", "great", "content"})

	assert.Equal(t, 3, ft["great"])
	assert.Equal(t, 1, ft["video"])
	assert.Equal(t, 1, ft["content"])
	assert.Equal(t, 5, ft.Total())
	assert.Equal(t, 3, ft.Vocab())
}

func TestFrequencyTableEmpty(t *testing.T) {
	ft := NewFrequencyTable(nil)
	assert.Equal(t, 0, ft.Total())
	assert.Equal(t, 0, ft.Vocab())
	assert.Empty(t, ft.TopK(10))

	ft.Add(nil)
	assert.Equal(t, 0, ft.Total())
}

func TestFrequencyTableTotalIsCommentSum(t *testing.T) {
	seqs := [][]string{
		{"a", "b", "c"},
		{"a", "a"},
		nil,
		{"d"},
	}
	ft := NewFrequencyTable(seqs)

	tokens := 0
	for _, s := range seqs {
		tokens += len(s)
	}
	assert.Equal(t, tokens, ft.Total())
}

func TestTopK(t *testing.T) {
	ft := FrequencyTable{"great": 3, "video": 1, "content": 1}

	top := ft.TopK(1)
	require.Len(t, top, 1)
	assert.Equal(t, WordCount{Word: "great", Count: 3}, top[0])

	full := ft.TopK(0)
	require.Len(t, full, 3)
	assert.Equal(t, "great", full[0].Word)
	// ties rank lexicographically
	assert.Equal(t, "content", full[1].Word)
	assert.Equal(t, "video", full[2].Word)
}

func TestTopKLargerThanVocab(t *testing.T) {
	ft := FrequencyTable{"only": 2}
	top := ft.TopK(100)
	require.Len(t, top, 1)
	assert.Equal(t, "only", top[0].Word)
}

func TestTopKDeterministic(t *testing.T) {
	ft := FrequencyTable{"zebra": 2, "apple": 2, "mango": 2, "kiwi": 5}
	for i := 0; i < 10; i++ {
		top := ft.TopK(4)
		require.Len(t, top, 4)
		assert.Equal(t, []string{"kiwi", "apple", "mango", "zebra"},
			[]string{top[0].Word, top[1].Word, top[2].Word, top[3].Word})
	}
}

func TestBigrams(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   []string
	}{
		{"pairs", []string{"a", "b", "c"}, []string{"a b", "b c"}},
		{"single token", []string{"a"}, nil},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Bigrams(tt.tokens))
		})
	}
}

func TestNGrams(t *testing.T) {
	tokens := []string{"a", "b", "c", "d"}
	assert.Equal(t, []string{"a b c", "b c d"}, NGrams(tokens, 3))
	assert.Equal(t, Bigrams(tokens), NGrams(tokens, 2))
	assert.Nil(t, NGrams(tokens, 0))
	assert.Nil(t, NGrams(tokens, 5))
}
