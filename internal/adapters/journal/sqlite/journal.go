// Package sqlite keeps an append-only journal of install sessions. Only
// counts and outcomes are stored; plans are never persisted.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/depsync/internal/domain"
	"github.com/bnema/depsync/internal/ports"
	_ "modernc.org/sqlite"
)

const Schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	started_at INTEGER NOT NULL,
	finished_at INTEGER NOT NULL,
	source TEXT NOT NULL,
	envs TEXT NOT NULL DEFAULT '',
	outcome TEXT NOT NULL,
	state TEXT NOT NULL,
	failed_in TEXT NOT NULL DEFAULT '',
	to_install INTEGER NOT NULL DEFAULT 0,
	to_remove INTEGER NOT NULL DEFAULT 0,
	error TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at);
`

const (
	journalDirMode = 0o700
	envSeparator   = ","
)

type Journal struct {
	db *sql.DB
}

var _ ports.SessionJournal = (*Journal)(nil)

// Open creates the database file and its directory when missing.
func Open(ctx context.Context, path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), journalDirMode); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	journal := New(db)
	if err := journal.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return journal, nil
}

func New(db *sql.DB) *Journal {
	return &Journal{db: db}
}

func (j *Journal) Init(ctx context.Context) error {
	if _, err := j.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("init journal schema: %w", err)
	}
	return nil
}

func (j *Journal) Record(ctx context.Context, report domain.SessionReport) error {
	s := report.Summary()
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO sessions (id, started_at, finished_at, source, envs, outcome, state, failed_in, to_install, to_remove, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID,
		s.StartedAt.UnixMilli(),
		s.FinishedAt.UnixMilli(),
		s.Source,
		strings.Join(s.Environments, envSeparator),
		string(s.Outcome),
		string(s.State),
		string(s.FailedIn),
		s.ToInstall,
		s.ToRemove,
		s.Error,
	)
	if err != nil {
		return fmt.Errorf("insert session %s: %w", s.ID, err)
	}
	return nil
}

// List returns the newest sessions first. A non-positive limit returns all.
func (j *Journal) List(ctx context.Context, limit int) ([]domain.SessionSummary, error) {
	query := `SELECT id, started_at, finished_at, source, envs, outcome, state, failed_in, to_install, to_remove, error
		FROM sessions ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	summaries := []domain.SessionSummary{}
	for rows.Next() {
		var (
			s                 domain.SessionSummary
			started, finished int64
			envs              string
			outcome, state    string
			failedIn          string
		)
		if err := rows.Scan(&s.ID, &started, &finished, &s.Source, &envs, &outcome, &state, &failedIn, &s.ToInstall, &s.ToRemove, &s.Error); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		s.StartedAt = time.UnixMilli(started).UTC()
		s.FinishedAt = time.UnixMilli(finished).UTC()
		s.Outcome = domain.Outcome(outcome)
		s.State = domain.SessionState(state)
		s.FailedIn = domain.SessionState(failedIn)
		if envs != "" {
			s.Environments = strings.Split(envs, envSeparator)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return summaries, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}
