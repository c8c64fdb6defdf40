package analysis

import (
	"sort"
	"strings"
	"time"

	"github.com/anatolykoptev/go_comments/internal/engine"
)

// Corpus statistics over one bucket of cleaned comments.

// BucketStats summarizes a bucket for the basic report.
type BucketStats struct {
	Comments       int     `json:"comments"`
	UniqueAuthors  int     `json:"unique_authors"`
	AvgWords       float64 `json:"avg_words"`
	AvgChars       float64 `json:"avg_chars"`
	VocabSize      int     `json:"vocab_size"`
	TypeTokenRatio float64 `json:"type_token_ratio"`
}

// DayCount is one day of the comment time distribution.
type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// ComputeStats derives bucket statistics from comments and their cleaned
// text (parallel slices).
func ComputeStats(comments []engine.Comment, cleaned []string, ft FrequencyTable) BucketStats {
	s := BucketStats{Comments: len(comments)}
	if len(comments) == 0 {
		return s
	}

	authors := make(map[string]bool)
	totalWords, totalChars := 0, 0
	for i, c := range comments {
		if c.Author != "" {
			authors[c.Author] = true
		}
		clean := ""
		if i < len(cleaned) {
			clean = cleaned[i]
		}
		totalChars += len([]rune(clean))
		if clean != "" {
			totalWords += len(strings.Fields(clean))
		}
	}
	s.UniqueAuthors = len(authors)
	s.AvgWords = float64(totalWords) / float64(len(comments))
	s.AvgChars = float64(totalChars) / float64(len(comments))
	s.VocabSize = ft.Vocab()
	if total := ft.Total(); total > 0 {
		s.TypeTokenRatio = float64(ft.Vocab()) / float64(total)
	}
	return s
}

// TimeDistribution groups comments by publication day, sorted by date.
// Comments without a parseable timestamp are skipped.
func TimeDistribution(comments []engine.Comment) []DayCount {
	byDay := make(map[string]int)
	for _, c := range comments {
		if c.PublishedAt == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, c.PublishedAt)
		if err != nil {
			continue
		}
		byDay[ts.UTC().Format("2006-01-02")]++
	}
	out := make([]DayCount, 0, len(byDay))
	for d, n := range byDay {
		out = append(out, DayCount{Date: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// TopLiked returns the n most-liked comments, descending by like count.
// Ties keep the original fetch order (API relevance).
func TopLiked(comments []engine.Comment, n int) []engine.Comment {
	if n <= 0 || len(comments) == 0 {
		return nil
	}
	ranked := make([]engine.Comment, len(comments))
	copy(ranked, comments)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].LikeCount > ranked[j].LikeCount })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// DedupComments drops duplicate comment IDs, keeping first occurrence.
// Comments without an ID are kept as-is.
func DedupComments(comments []engine.Comment) []engine.Comment {
	seen := make(map[string]bool, len(comments))
	out := make([]engine.Comment, 0, len(comments))
	for _, c := range comments {
		if c.ID != "" {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
		}
		out = append(out, c)
	}
	return out
}
