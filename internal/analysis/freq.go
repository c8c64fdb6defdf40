package analysis

import (
	"sort"
	"strings"
)

// Frequency aggregation: token sequences in, ranked counts out.
// Pure functions of their input; an empty input yields an empty table.

// FrequencyTable maps a token to its occurrence count across all comments.
type FrequencyTable map[string]int

// WordCount is one ranked entry of a frequency table.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// NewFrequencyTable builds a table from a sequence of token sequences.
func NewFrequencyTable(tokenSeqs [][]string) FrequencyTable {
	ft := make(FrequencyTable)
	for _, tokens := range tokenSeqs {
		ft.Add(tokens)
	}
	return ft
}

// Add increments the count of every token in the sequence.
func (ft FrequencyTable) Add(tokens []string) {
	for _, t := range tokens {
		ft[t]++
	}
}

// Total returns the sum of all counts — the number of tokens aggregated.
func (ft FrequencyTable) Total() int {
	total := 0
	for _, n := range ft {
		total += n
	}
	return total
}

// Vocab returns the number of distinct tokens.
func (ft FrequencyTable) Vocab() int { return len(ft) }

// TopK returns the k highest-count entries, descending by count.
// Ties order lexicographically ascending, so rankings are deterministic.
// k <= 0 returns the full ranking.
func (ft FrequencyTable) TopK(k int) []WordCount {
	ranked := make([]WordCount, 0, len(ft))
	for w, n := range ft {
		ranked = append(ranked, WordCount{Word: w, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Word < ranked[j].Word
	})
	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// Bigrams returns the space-joined adjacent token pairs of one sequence.
func Bigrams(tokens []string) []string {
	if len(tokens) < 2 {
		return nil
	}
	out := make([]string, 0, len(tokens)-1)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// NGrams generalizes Bigrams to windows of n tokens.
func NGrams(tokens []string, n int) []string {
	if n <= 0 || len(tokens) < n {
		return nil
	}
	out := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		out = append(out, strings.Join(tokens[i:i+n], " "))
	}
	return out
}
