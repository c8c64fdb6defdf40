package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	CommentFetches      atomic.Int64
	CommentPages        atomic.Int64
	ReplyFetches        atomic.Int64
	VideoMetaFetches    atomic.Int64
	APIKeyFallbacks     atomic.Int64
	FetchErrors         atomic.Int64
	AnalyzeRuns         atomic.Int64
	LLMCalls            atomic.Int64
	LLMErrors           atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"comment_fetches":    metrics.CommentFetches.Load(),
		"comment_pages":      metrics.CommentPages.Load(),
		"reply_fetches":      metrics.ReplyFetches.Load(),
		"video_meta_fetches": metrics.VideoMetaFetches.Load(),
		"api_key_fallbacks":  metrics.APIKeyFallbacks.Load(),
		"fetch_errors":       metrics.FetchErrors.Load(),
		"analyze_runs":       metrics.AnalyzeRuns.Load(),
		"llm_calls":          metrics.LLMCalls.Load(),
		"llm_errors":         metrics.LLMErrors.Load(),
		"cache_hits":         hits,
		"cache_misses":       misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"comment_fetches", "comment_pages", "reply_fetches",
		"video_meta_fetches", "api_key_fallbacks", "fetch_errors",
		"analyze_runs", "llm_calls", "llm_errors",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the sources/ sub-package.
func IncrCommentFetches()   { metrics.CommentFetches.Add(1) }
func IncrCommentPages()     { metrics.CommentPages.Add(1) }
func IncrReplyFetches()     { metrics.ReplyFetches.Add(1) }
func IncrVideoMetaFetches() { metrics.VideoMetaFetches.Add(1) }
func IncrAPIKeyFallbacks()  { metrics.APIKeyFallbacks.Add(1) }
func IncrFetchErrors()      { metrics.FetchErrors.Add(1) }

// IncrAnalyzeRuns is incremented by the analysis pipeline per completed run.
func IncrAnalyzeRuns() { metrics.AnalyzeRuns.Add(1) }
