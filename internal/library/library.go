// Package library keeps a local history of produced clips in sqlite so
// repeat runs can list what already exists on disk.
package library

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/clipforge/clipforge/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS clips (
	id               TEXT PRIMARY KEY,
	source_video_id  TEXT NOT NULL,
	start_sec        REAL NOT NULL,
	end_sec          REAL NOT NULL,
	file_path        TEXT NOT NULL,
	tiktok_formatted INTEGER NOT NULL DEFAULT 0,
	created_at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_clips_source ON clips(source_video_id);
`

type Library struct {
	conn *sql.DB
}

func Open(dbPath string) (*Library, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Library{conn: conn}, nil
}

func (l *Library) Close() error {
	return l.conn.Close()
}

func (l *Library) Record(ctx context.Context, clip types.DownloadedClip) error {
	_, err := l.conn.ExecContext(ctx,
		`INSERT INTO clips (id, source_video_id, start_sec, end_sec, file_path, tiktok_formatted, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		clip.ID, clip.SourceVideoID, clip.Start, clip.End, clip.FilePath,
		boolToInt(clip.TikTokFormatted), clip.CreatedAt.Format("2006-01-02T15:04:05Z"),
	)
	if err != nil {
		return fmt.Errorf("insert clip: %w", err)
	}
	return nil
}

// List returns recorded clips, newest first.
func (l *Library) List(ctx context.Context) ([]types.DownloadedClip, error) {
	rows, err := l.conn.QueryContext(ctx,
		`SELECT id, source_video_id, start_sec, end_sec, file_path, tiktok_formatted, created_at
		 FROM clips ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query clips: %w", err)
	}
	defer rows.Close()

	var clips []types.DownloadedClip
	for rows.Next() {
		var (
			c       types.DownloadedClip
			tiktok  int
			created string
		)
		if err := rows.Scan(&c.ID, &c.SourceVideoID, &c.Start, &c.End, &c.FilePath, &tiktok, &created); err != nil {
			return nil, fmt.Errorf("scan clip: %w", err)
		}
		c.TikTokFormatted = tiktok == 1
		c.CreatedAt = parseCreatedAt(created)
		clips = append(clips, c)
	}
	return clips, rows.Err()
}

// ListBySource returns clips cut from a single video, newest first.
func (l *Library) ListBySource(ctx context.Context, videoID string) ([]types.DownloadedClip, error) {
	rows, err := l.conn.QueryContext(ctx,
		`SELECT id, source_video_id, start_sec, end_sec, file_path, tiktok_formatted, created_at
		 FROM clips WHERE source_video_id = ? ORDER BY created_at DESC, id`, videoID)
	if err != nil {
		return nil, fmt.Errorf("query clips: %w", err)
	}
	defer rows.Close()

	var clips []types.DownloadedClip
	for rows.Next() {
		var (
			c       types.DownloadedClip
			tiktok  int
			created string
		)
		if err := rows.Scan(&c.ID, &c.SourceVideoID, &c.Start, &c.End, &c.FilePath, &tiktok, &created); err != nil {
			return nil, fmt.Errorf("scan clip: %w", err)
		}
		c.TikTokFormatted = tiktok == 1
		c.CreatedAt = parseCreatedAt(created)
		clips = append(clips, c)
	}
	return clips, rows.Err()
}

func parseCreatedAt(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05Z", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
