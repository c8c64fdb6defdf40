package commentserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_comments/internal/analysis"
)

func registerCommentsAnalyze(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "comments_analyze",
		Description: "Run the full comment analysis pipeline for a YouTube video: fetch comments, split into language buckets, normalize text, aggregate word/bigram frequencies, compute corpus stats, and write per-run CSV reports. Returns the run summary with top words per bucket and report file paths.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input analysis.RunInput) (*mcp.CallToolResult, analysis.RunResult, error) {
		if input.URL == "" {
			return nil, analysis.RunResult{}, errors.New("url is required")
		}

		result, err := analysis.Run(ctx, input)
		if err != nil {
			return nil, analysis.RunResult{}, err
		}
		return nil, *result, nil
	})
}
