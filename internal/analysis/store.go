package analysis

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/anatolykoptev/go_comments/internal/engine"
)

// Local run index: SQLite keeps every fetched comment set and the run
// metadata, so reports can be regenerated and runs listed without re-hitting
// the Data API.

// RunRecord is one row of the run index.
type RunRecord struct {
	RunID        string `json:"run_id"`
	VideoID      string `json:"video_id"`
	Title        string `json:"title,omitempty"`
	ChannelTitle string `json:"channel_title,omitempty"`
	CommentCount int    `json:"comment_count"`
	RunPath      string `json:"run_path"`
	CreatedAt    string `json:"created_at"`
	Params       string `json:"params,omitempty"` // JSON-encoded RunParams
}

var (
	storeDB   *sql.DB
	storeOnce sync.Once
	storeErr  error
)

// openStoreDB opens (or creates) the SQLite run index under DataDir.
func openStoreDB() (*sql.DB, error) {
	storeOnce.Do(func() {
		dir := engine.Cfg.DataDir
		if dir == "" {
			dir = filepath.Join(os.Getenv("HOME"), ".go_comments")
		}
		if err := os.MkdirAll(dir, 0o750); err != nil {
			storeErr = fmt.Errorf("store: mkdir %s: %w", dir, err)
			return
		}
		dbPath := filepath.Join(dir, "comments.db")
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			storeErr = fmt.Errorf("store: open db: %w", err)
			return
		}
		db.SetMaxOpenConns(1) // SQLite: single writer
		if err := initStoreSchema(db); err != nil {
			storeErr = fmt.Errorf("store: init schema: %w", err)
			return
		}
		storeDB = db
	})
	return storeDB, storeErr
}

func initStoreSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		run_id        TEXT PRIMARY KEY,
		video_id      TEXT NOT NULL,
		title         TEXT,
		channel_title TEXT,
		comment_count INTEGER NOT NULL DEFAULT 0,
		run_path      TEXT NOT NULL,
		created_at    TEXT NOT NULL,
		params        TEXT
	)`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS comments (
		run_id       TEXT NOT NULL,
		comment_id   TEXT NOT NULL,
		parent_id    TEXT,
		author       TEXT,
		like_count   INTEGER NOT NULL DEFAULT 0,
		published_at TEXT,
		text         TEXT NOT NULL,
		PRIMARY KEY (run_id, comment_id)
	)`)
	return err
}

// SaveRun persists the run record and its comment set in one transaction.
func SaveRun(ctx context.Context, rec RunRecord, comments []engine.Comment) error {
	if rec.RunID == "" || rec.VideoID == "" {
		return errors.New("store: run_id and video_id are required")
	}
	db, err := openStoreDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if rec.CreatedAt == "" {
		rec.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, video_id, title, channel_title, comment_count, run_path, created_at, params)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.VideoID, rec.Title, rec.ChannelTitle, len(comments), rec.RunPath, rec.CreatedAt, rec.Params,
	)
	if err != nil {
		return fmt.Errorf("store: insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO comments (run_id, comment_id, parent_id, author, like_count, published_at, text)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare: %w", err)
	}
	defer stmt.Close()

	for _, c := range comments {
		if _, err := stmt.ExecContext(ctx, rec.RunID, c.ID, c.ParentID, c.Author, c.LikeCount, c.PublishedAt, c.Text); err != nil {
			return fmt.Errorf("store: insert comment %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	db, err := openStoreDB()
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := db.QueryContext(ctx,
		`SELECT run_id, video_id, title, channel_title, comment_count, run_path, created_at, params
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	runs := []RunRecord{}
	for rows.Next() {
		var r RunRecord
		var title, channel, params sql.NullString
		if err := rows.Scan(&r.RunID, &r.VideoID, &title, &channel, &r.CommentCount, &r.RunPath, &r.CreatedAt, &params); err != nil {
			continue
		}
		r.Title = title.String
		r.ChannelTitle = channel.String
		r.Params = params.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun looks up a single run by ID.
func GetRun(ctx context.Context, runID string) (*RunRecord, error) {
	db, err := openStoreDB()
	if err != nil {
		return nil, err
	}

	var r RunRecord
	var title, channel, params sql.NullString
	err = db.QueryRowContext(ctx,
		`SELECT run_id, video_id, title, channel_title, comment_count, run_path, created_at, params
		 FROM runs WHERE run_id = ?`, runID).
		Scan(&r.RunID, &r.VideoID, &title, &channel, &r.CommentCount, &r.RunPath, &r.CreatedAt, &params)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: run %q not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get run: %w", err)
	}
	r.Title = title.String
	r.ChannelTitle = channel.String
	r.Params = params.String
	return &r, nil
}

// LoadComments returns the stored comment set of a run, fetch order lost —
// ordered by like count for stable output.
func LoadComments(ctx context.Context, runID string) ([]engine.Comment, error) {
	db, err := openStoreDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT comment_id, parent_id, author, like_count, published_at, text
		 FROM comments WHERE run_id = ? ORDER BY like_count DESC, comment_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: load comments: %w", err)
	}
	defer rows.Close()

	var comments []engine.Comment
	for rows.Next() {
		var c engine.Comment
		var parent, author, published sql.NullString
		if err := rows.Scan(&c.ID, &parent, &author, &c.LikeCount, &published, &c.Text); err != nil {
			continue
		}
		c.ParentID = parent.String
		c.Author = author.String
		c.PublishedAt = published.String
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// encodeParams JSON-encodes run params for the runs table.
func encodeParams(p RunParams) string {
	data, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(data)
}
