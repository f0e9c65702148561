// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout has a fixed width so stored times compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for courses, sessions and progress.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS course_settings (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			version INTEGER NOT NULL,
			lesson_size INTEGER NOT NULL,
			pct_errors REAL NOT NULL,
			pct_repetition REAL NOT NULL,
			decay REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS course_lists (
			position INTEGER PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			source_timestamp TEXT NOT NULL,
			content_hash TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS course_words (
			list_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			direction INTEGER NOT NULL,
			pair_index INTEGER NOT NULL,
			asked_times INTEGER NOT NULL,
			last_asked TEXT,
			error_rate REAL NOT NULL,
			PRIMARY KEY (list_id, position)
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			list_id TEXT NOT NULL,
			words INTEGER NOT NULL,
			bins INTEGER NOT NULL,
			asked INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			finished INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_words (
			session_id TEXT NOT NULL,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			attempts INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			bin INTEGER NOT NULL,
			PRIMARY KEY (session_id, question, answer)
		);`,
		`CREATE TABLE IF NOT EXISTS daily_progress (
			day TEXT PRIMARY KEY,
			correct INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS active_session (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			saved_at TEXT NOT NULL,
			data TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_session_words_word ON session_words(question, answer);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// rollback is deferred by write transactions; it is a no-op after Commit.
func rollback(tx *sql.Tx) {
	if rerr := tx.Rollback(); rerr != nil {
		// Best-effort rollback.
		_ = rerr
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(v string) (time.Time, error) {
	return time.Parse(timeLayout, v)
}

func closeRows(rows *sql.Rows) {
	if cerr := rows.Close(); cerr != nil {
		// Best-effort rows close.
		_ = cerr
	}
}

func withTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer rollback(tx)
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
