package analysis

import (
	"context"
	"sync"
	"testing"

	"github.com/anatolykoptev/go_comments/internal/engine"
)

// resetStore points the run index at a fresh temp dir for one test.
func resetStore(t *testing.T) {
	t.Helper()
	if storeDB != nil {
		storeDB.Close()
	}
	storeDB = nil
	storeOnce = sync.Once{}
	storeErr = nil
	engine.Init(engine.Config{DataDir: t.TempDir()})
}

func TestSaveAndGetRun(t *testing.T) {
	resetStore(t)
	ctx := context.Background()

	rec := RunRecord{
		RunID:   "20250301_120000__abc123XYZ_-",
		VideoID: "abc123XYZ_-",
		Title:   "Test video",
		RunPath: "/tmp/run",
	}
	comments := []engine.Comment{
		{ID: "c1", Author: "alice", Text: "Great video!", LikeCount: 4, PublishedAt: "2025-03-01T10:00:00Z"},
		{ID: "c2", ParentID: "c1", Author: "bob", Text: "agreed", LikeCount: 1},
	}

	if err := SaveRun(ctx, rec, comments); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := GetRun(ctx, rec.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.VideoID != rec.VideoID {
		t.Errorf("video id = %q, want %q", got.VideoID, rec.VideoID)
	}
	if got.Title != "Test video" {
		t.Errorf("title = %q", got.Title)
	}
	if got.CommentCount != 2 {
		t.Errorf("comment count = %d, want 2", got.CommentCount)
	}
	if got.CreatedAt == "" {
		t.Error("created_at should be filled in on save")
	}
}

func TestSaveRunValidation(t *testing.T) {
	resetStore(t)
	if err := SaveRun(context.Background(), RunRecord{}, nil); err == nil {
		t.Error("expected error for missing run_id/video_id")
	}
}

func TestGetRunNotFound(t *testing.T) {
	resetStore(t)
	if _, err := GetRun(context.Background(), "nope"); err == nil {
		t.Error("expected error for unknown run")
	}
}

func TestListRuns(t *testing.T) {
	resetStore(t)
	ctx := context.Background()

	recs := []RunRecord{
		{RunID: "r1", VideoID: "v1", RunPath: "/p1", CreatedAt: "2025-03-01T10:00:00Z"},
		{RunID: "r2", VideoID: "v2", RunPath: "/p2", CreatedAt: "2025-03-02T10:00:00Z"},
		{RunID: "r3", VideoID: "v3", RunPath: "/p3", CreatedAt: "2025-03-03T10:00:00Z"},
	}
	for _, r := range recs {
		if err := SaveRun(ctx, r, nil); err != nil {
			t.Fatalf("SaveRun %s: %v", r.RunID, err)
		}
	}

	runs, err := ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	// newest first
	if runs[0].RunID != "r3" || runs[1].RunID != "r2" {
		t.Errorf("order = %s,%s, want r3,r2", runs[0].RunID, runs[1].RunID)
	}
}

func TestLoadComments(t *testing.T) {
	resetStore(t)
	ctx := context.Background()

	rec := RunRecord{RunID: "r1", VideoID: "v1", RunPath: "/p1"}
	comments := []engine.Comment{
		{ID: "c1", Text: "one like", LikeCount: 1},
		{ID: "c2", Text: "most liked", LikeCount: 9},
		{ID: "c3", Text: "unliked"},
	}
	if err := SaveRun(ctx, rec, comments); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := LoadComments(ctx, "r1")
	if err != nil {
		t.Fatalf("LoadComments: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d comments, want 3", len(got))
	}
	if got[0].ID != "c2" {
		t.Errorf("first comment = %s, want c2 (highest likes)", got[0].ID)
	}
}

func TestSaveRunDuplicateID(t *testing.T) {
	resetStore(t)
	ctx := context.Background()

	rec := RunRecord{RunID: "r1", VideoID: "v1", RunPath: "/p1"}
	if err := SaveRun(ctx, rec, nil); err != nil {
		t.Fatalf("first SaveRun: %v", err)
	}
	if err := SaveRun(ctx, rec, nil); err == nil {
		t.Error("expected primary key violation on duplicate run_id")
	}
}
