// go_comments — YouTube comment fetch & analysis MCP server.
//
// Exposes five MCP tools: comments_fetch, comments_analyze, word_frequency,
// runs_list, run_report. Runs as HTTP MCP server or stdio transport.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_comments/internal/analysis"
	"github.com/anatolykoptev/go_comments/internal/commentserver"
	"github.com/anatolykoptev/go_comments/internal/engine"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	initEngine()

	slog.Info("starting go_comments",
		slog.String("port", mcpPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_comments",
		Version: version,
	}, nil)

	commentserver.RegisterTools(server)
	slog.Info("tools registered", slog.Int("count", 5))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_comments",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		YouTubeAPIKey:         env.Str("YOUTUBE_API_KEY", ""),
		YouTubeAPIKeyFallback: env.Str("YOUTUBE_API_KEY_FALLBACK", ""),
		IncludeReplies:        env.Str("INCLUDE_REPLIES", "true") != "false",
		CommentOrder:          env.Str("COMMENT_ORDER", "relevance"),
		MaxCommentPages:       env.Int("MAX_COMMENT_PAGES", 0),
		APIRequestsPerSec:     env.Float("API_REQUESTS_PER_SEC", 8),
		FetchTimeout:          env.Duration("FETCH_TIMEOUT", 10*time.Second),

		LangShareThreshold: env.Float("LANG_SHARE_THRESHOLD", 0.20),
		TopWords:           env.Int("TOP_WORDS", 50),
		TopBigrams:         env.Int("TOP_BIGRAMS", 50),
		TopLiked:           env.Int("TOP_LIKED", 15),

		LLMModel:       env.Str("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature: env.Float("LLM_TEMPERATURE", 0.1),
		LLMMaxTokens:   env.Int("LLM_MAX_TOKENS", 2048),

		DataDir:     env.Str("DATA_DIR", ""),
		DatabaseURL: env.Str("DATABASE_URL", ""),

		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	// LLM client (optional — labeling is skipped without a key)
	if apiKey := env.Str("LLM_API_KEY", ""); apiKey != "" {
		c.LLMClient = llm.NewClient(
			env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
			apiKey, c.LLMModel,
			llm.WithFallbackKeys(env.List("LLM_API_KEY_FALLBACKS", "")),
			llm.WithMaxTokens(c.LLMMaxTokens),
			llm.WithTemperature(c.LLMTemperature),
			llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
		)
		slog.Info("llm labeling enabled", slog.String("model", c.LLMModel))
	}

	engine.Init(c)

	// Postgres archive (optional)
	if c.DatabaseURL != "" {
		a, err := analysis.ConnectArchive(context.Background(), c.DatabaseURL)
		if err != nil {
			slog.Warn("comment archive init failed", slog.Any("error", err))
		} else {
			analysis.SetArchive(a)
			slog.Info("comment archive initialized")
		}
	}

	cacheTTL := env.Duration("CACHE_TTL", 15*time.Minute)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}
