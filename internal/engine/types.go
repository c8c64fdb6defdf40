package engine

// --- Core comment types ---

// Comment is a single YouTube comment (top-level or reply).
// Immutable once fetched; ParentID is empty for top-level comments.
type Comment struct {
	ID          string `json:"comment_id"`
	ParentID    string `json:"parent_id,omitempty"`
	Author      string `json:"author,omitempty"`
	LikeCount   int    `json:"like_count"`
	PublishedAt string `json:"published_at,omitempty"` // RFC 3339, as returned by the API
	Text        string `json:"text"`
}

// IsReply reports whether the comment is a reply to another comment.
func (c Comment) IsReply() bool { return c.ParentID != "" }

// VideoMeta describes the video a comment set belongs to.
type VideoMeta struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title,omitempty"`
	ChannelTitle string `json:"channel_title,omitempty"`
}

// FetchInput controls a comment fetch.
type FetchInput struct {
	URL            string `json:"url" jsonschema:"YouTube URL or 11-char video ID"`
	IncludeReplies *bool  `json:"include_replies,omitempty" jsonschema:"Also fetch reply threads (default: true)"`
	Order          string `json:"order,omitempty" jsonschema:"Comment order: relevance (default) or time"`
	MaxPages       int    `json:"max_pages,omitempty" jsonschema:"Cap on commentThreads pages, 100 comments each (default: unlimited)"`
}

// FetchResult is a materialized comment set for one video.
type FetchResult struct {
	Video    VideoMeta `json:"video"`
	Comments []Comment `json:"comments"`
	TopLevel int       `json:"top_level"`
	Replies  int       `json:"replies"`
	Pages    int       `json:"pages"`
}

// --- Sentiment/topic labeling types ---

// CommentLabels is the structured output of the optional LLM labeling pass.
type CommentLabels struct {
	Sentiment string   `json:"sentiment"` // positive, neutral, negative, mixed
	Topics    []string `json:"topics,omitempty"`
	Summary   string   `json:"summary,omitempty"`
}
