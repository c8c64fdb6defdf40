package engine

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	YouTubeAPIKey         string
	YouTubeAPIKeyFallback string
	IncludeReplies        bool
	CommentOrder          string // "relevance" or "time"
	MaxCommentPages       int    // 0 = unlimited
	APIRequestsPerSec     float64
	FetchTimeout          time.Duration

	// Analysis knobs.
	LangShareThreshold float64 // min share of comments for a language to get its own bucket
	TopWords           int
	TopBigrams         int
	TopLiked           int

	// Sentiment/topic labeling. Nil client = labeling disabled.
	LLMModel       string
	LLMTemperature float64
	LLMMaxTokens   int
	LLMClient      *llm.Client

	// Storage.
	DataDir     string // root for runs/ and the SQLite index
	DatabaseURL string // optional Postgres archive

	CacheMaxEntries      int
	CacheCleanupInterval time.Duration
	HTTPClient           *http.Client
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (sources, analysis).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if c.CommentOrder == "" {
		c.CommentOrder = "relevance"
	}
	cfg = c
	Cfg = &cfg
	initAPILimiter(c.APIRequestsPerSec)
}
