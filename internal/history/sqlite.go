package history

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

	ferrors "git.home.luguber.info/inful/bookpress/internal/foundation/errors"
)

// ErrNotFound is returned by Get for an unknown run id.
var ErrNotFound = errors.New("run not found")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryHistory, "create history directory").
				WithContext("path", dbPath).
				Build()
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// single connection: :memory: databases are per-connection
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		command TEXT NOT NULL,
		outcome TEXT NOT NULL,
		exit_code INTEGER NOT NULL,
		failed_step TEXT,
		started_at INTEGER NOT NULL,
		ended_at INTEGER NOT NULL,
		steps TEXT NOT NULL,
		book_title TEXT,
		git_commit TEXT,
		git_branch TEXT,
		git_dirty INTEGER NOT NULL DEFAULT 0,
		fingerprint TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores a run.
func (s *SQLiteStore) Record(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	steps, err := json.Marshal(run.Steps)
	if err != nil {
		return fmt.Errorf("marshal steps: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, command, outcome, exit_code, failed_step, started_at, ended_at,
			steps, book_title, git_commit, git_branch, git_dirty, fingerprint)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Command, run.Outcome, run.ExitCode, run.FailedStep,
		run.Start.UnixNano(), run.End.UnixNano(), string(steps),
		run.BookTitle, run.Commit, run.Branch, run.Dirty, run.Fingerprint,
	)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryHistory, "insert run").
			WithContext("run_id", run.ID).
			Build()
	}
	return nil
}

const selectRuns = `SELECT id, command, outcome, exit_code, failed_step, started_at, ended_at,
	steps, book_title, git_commit, git_branch, git_dirty, fingerprint FROM runs`

// List returns runs newest first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, selectRuns+" ORDER BY started_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return runs, nil
}

// Get returns one run by id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, selectRuns+" WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return run, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		r                  Run
		failed, title      sql.NullString
		commit, branch, fp sql.NullString
		start, end         int64
		steps              string
	)
	err := sc.Scan(&r.ID, &r.Command, &r.Outcome, &r.ExitCode, &failed, &start, &end,
		&steps, &title, &commit, &branch, &r.Dirty, &fp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	r.FailedStep = failed.String
	r.BookTitle = title.String
	r.Commit = commit.String
	r.Branch = branch.String
	r.Fingerprint = fp.String
	r.Start = time.Unix(0, start)
	r.End = time.Unix(0, end)
	if err := json.Unmarshal([]byte(steps), &r.Steps); err != nil {
		return nil, fmt.Errorf("unmarshal steps: %w", err)
	}
	return &r, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
