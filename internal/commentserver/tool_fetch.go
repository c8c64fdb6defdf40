package commentserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_comments/internal/engine"
	"github.com/anatolykoptev/go_comments/internal/engine/sources"
)

// FetchToolInput extends the engine fetch input with an output cap.
type FetchToolInput struct {
	engine.FetchInput
	Limit int `json:"limit,omitempty" jsonschema:"Max comments returned inline (default 50; the full set is reported in counts)"`
}

// FetchToolOutput is the comments_fetch response.
type FetchToolOutput struct {
	Video    engine.VideoMeta `json:"video"`
	Total    int              `json:"total"`
	TopLevel int              `json:"top_level"`
	Replies  int              `json:"replies"`
	Pages    int              `json:"pages"`
	Comments []engine.Comment `json:"comments"`
}

func registerCommentsFetch(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "comments_fetch",
		Description: "Fetch all comments for a YouTube video via the Data API v3 (paginated, including reply threads). Accepts a watch/shorts/youtu.be URL or a raw 11-char video ID. Returns video metadata, counts, and the comment records.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input FetchToolInput) (*mcp.CallToolResult, FetchToolOutput, error) {
		if input.URL == "" {
			return nil, FetchToolOutput{}, errors.New("url is required")
		}

		result, err := sources.FetchComments(ctx, input.FetchInput)
		if err != nil {
			return nil, FetchToolOutput{}, err
		}

		limit := input.Limit
		if limit <= 0 || limit > 500 {
			limit = 50
		}
		comments := result.Comments
		if len(comments) > limit {
			comments = comments[:limit]
		}

		return nil, FetchToolOutput{
			Video:    result.Video,
			Total:    len(result.Comments),
			TopLevel: result.TopLevel,
			Replies:  result.Replies,
			Pages:    result.Pages,
			Comments: comments,
		}, nil
	})
}
