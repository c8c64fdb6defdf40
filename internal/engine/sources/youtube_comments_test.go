package sources

import "testing"

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"raw id", "dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"raw id with spaces", "  dQw4w9WgXcQ  ", "dQw4w9WgXcQ", false},
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"watch url extra params", "https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", false},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"short link with query", "https://youtu.be/dQw4w9WgXcQ?si=xyz", "dQw4w9WgXcQ", false},
		{"shorts url", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"no scheme", "youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"too short", "abc123", "", true},
		{"not a video url", "https://www.youtube.com/@somechannel", "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractVideoID(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractVideoID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestToComment(t *testing.T) {
	in := ytComment{
		ID: "cmt1",
		Snippet: ytCommentSnippet{
			AuthorDisplayName: "alice",
			TextDisplay:       "this is <b>great</b> &amp; fun",
			LikeCount:         7,
			PublishedAt:       "2025-03-01T10:00:00Z",
		},
	}

	got := toComment(in, "parent1")
	if got.ID != "cmt1" || got.ParentID != "parent1" || got.Author != "alice" {
		t.Errorf("identity fields mismatch: %+v", got)
	}
	if got.LikeCount != 7 || got.PublishedAt != "2025-03-01T10:00:00Z" {
		t.Errorf("metadata mismatch: %+v", got)
	}
	if got.Text == in.Snippet.TextDisplay {
		t.Errorf("text should be flattened from HTML, got %q", got.Text)
	}
	if !got.IsReply() {
		t.Error("comment with parent should be a reply")
	}

	top := toComment(in, "")
	if top.IsReply() {
		t.Error("comment without parent should not be a reply")
	}
}

func TestQuotaError(t *testing.T) {
	err := &quotaError{Body: `{"error":{"reason":"quotaExceeded"}}`}
	if err.Error() == "" {
		t.Error("quota error should describe itself")
	}
}
