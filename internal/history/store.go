// Package history records task runs in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	task        TEXT    NOT NULL,
	network     TEXT    NOT NULL,
	args        TEXT    NOT NULL DEFAULT '',
	started_at  INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	status      TEXT    NOT NULL,
	error       TEXT    NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS runs_task_idx ON runs (task, started_at);
`

// Run statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Run is one recorded task invocation.
type Run struct {
	ID        int64
	Task      string
	Network   string
	Args      string
	StartedAt time.Time
	Duration  time.Duration
	Status    string
	Error     string
}

// Store persists runs.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the database location under the user cache directory.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate cache directory: %w", err)
	}
	return filepath.Join(dir, "tooling", "history.db"), nil
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts r and returns its id.
func (s *Store) Record(ctx context.Context, r Run) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (task, network, args, started_at, duration_ms, status, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Task, r.Network, r.Args, r.StartedAt.UnixMilli(), r.Duration.Milliseconds(), r.Status, r.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to record run: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit runs, newest first. An empty task matches all.
func (s *Store) Recent(ctx context.Context, task string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var (
		q    strings.Builder
		args []any
	)
	q.WriteString(`SELECT id, task, network, args, started_at, duration_ms, status, error FROM runs`)
	if task != "" {
		q.WriteString(` WHERE task = ?`)
		args = append(args, task)
	}
	q.WriteString(` ORDER BY started_at DESC, id DESC LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			startedMs  int64
			durationMs int64
		)
		if err := rows.Scan(&r.ID, &r.Task, &r.Network, &r.Args, &startedMs, &durationMs, &r.Status, &r.Error); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt = time.UnixMilli(startedMs)
		r.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
