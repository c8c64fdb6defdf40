package analysis

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anatolykoptev/go_comments/internal/engine"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Optional Postgres archive. When DATABASE_URL is configured, every run is
// mirrored there; otherwise the SQLite index is the only store. Archive
// failures degrade to local-only with a warning, never fail a run.

// Archive holds the pgx connection pool for comment archival.
type Archive struct {
	pool *pgxpool.Pool
}

// Package-level singleton, set from main.go.
var archive *Archive

// SetArchive sets the package-level archive instance.
func SetArchive(a *Archive) { archive = a }

// GetArchive returns the package-level archive instance (may be nil).
func GetArchive() *Archive { return archive }

// ConnectArchive creates a pgx pool and applies the archive schema.
func ConnectArchive(ctx context.Context, databaseURL string) (*Archive, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	config.MaxConns = 5
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	a := &Archive{pool: pool}
	if err := a.applySchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	slog.Info("comment archive connected", slog.String("addr", config.ConnConfig.Host))
	return a, nil
}

// Close releases the connection pool.
func (a *Archive) Close() {
	a.pool.Close()
}

func (a *Archive) applySchema(ctx context.Context) error {
	ddl, err := schemaFS.ReadFile("schema/archive.sql")
	if err != nil {
		return err
	}
	_, err = a.pool.Exec(ctx, string(ddl))
	return err
}

// ArchiveRun mirrors a run and its comments into Postgres.
func (a *Archive) ArchiveRun(ctx context.Context, rec RunRecord, comments []engine.Comment) error {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("archive: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var params any
	if rec.Params != "" {
		params = rec.Params
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO comment_runs (run_id, video_id, title, channel_title, comment_count, params)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (run_id) DO NOTHING`,
		rec.RunID, rec.VideoID, rec.Title, rec.ChannelTitle, len(comments), params,
	)
	if err != nil {
		return fmt.Errorf("archive: insert run: %w", err)
	}

	batch := &pgx.Batch{}
	for _, c := range comments {
		var published any
		if c.PublishedAt != "" {
			if ts, err := time.Parse(time.RFC3339, c.PublishedAt); err == nil {
				published = ts
			}
		}
		batch.Queue(
			`INSERT INTO archived_comments (run_id, comment_id, parent_id, author, like_count, published_at, text)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (run_id, comment_id) DO NOTHING`,
			rec.RunID, c.ID, nullIfEmpty(c.ParentID), nullIfEmpty(c.Author), c.LikeCount, published, c.Text,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("archive: insert comments: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("archive: commit: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
