// Package history keeps a local log of clipboard operations in SQLite.
// Only metadata is stored: never the clipboard text and never the secret.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const selectEntries = `SELECT
		id,
		operation,
		target,
		outcome,
		status_code,
		bytes,
		message,
		created_at
	FROM history`

type Entry struct {
	ID         string    `json:"id" yaml:"id"`
	Operation  string    `json:"operation" yaml:"operation"`
	Target     string    `json:"target" yaml:"target"`
	Outcome    string    `json:"outcome" yaml:"outcome"`
	StatusCode int       `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	Bytes      int       `json:"bytes" yaml:"bytes"`
	Message    string    `json:"message" yaml:"message"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

type Store struct {
	db         *sql.DB
	maxEntries int
}

// Open opens (creating if needed) the history database at dbPath. When
// maxEntries is positive, older entries beyond it are pruned on insert.
func Open(dbPath string, maxEntries int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, maxEntries: maxEntries}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return s, nil
}

func (s *Store) init() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS history (
			id TEXT PRIMARY KEY,
			operation TEXT NOT NULL,
			target TEXT NOT NULL,
			outcome TEXT NOT NULL,
			status_code INTEGER NOT NULL DEFAULT 0,
			bytes INTEGER NOT NULL DEFAULT 0,
			message TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_created_at ON history(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_history_operation ON history(operation)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// DefaultPath returns the history database location in the user cache dir.
func DefaultPath() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	return filepath.Join(cacheDir, "srvclip", "history.db")
}

// Add stores e, filling in ID and CreatedAt when unset.
func (s *Store) Add(e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC()

	query := `
		INSERT INTO history
		(id, operation, target, outcome, status_code, bytes, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := s.db.Exec(query, e.ID, e.Operation, e.Target, e.Outcome, e.StatusCode, e.Bytes, e.Message, e.CreatedAt); err != nil {
		return e, fmt.Errorf("failed to save history entry: %w", err)
	}

	if s.maxEntries > 0 {
		if err := s.prune(s.maxEntries); err != nil {
			return e, err
		}
	}
	return e, nil
}

func (s *Store) prune(keep int) error {
	query := `DELETE FROM history WHERE rowid NOT IN (
		SELECT rowid FROM history ORDER BY created_at DESC, rowid DESC LIMIT ?
	)`
	if _, err := s.db.Exec(query, keep); err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first. operation filters by
// operation name when non-empty. limit <= 0 means no limit.
func (s *Store) List(operation string, limit int) ([]Entry, error) {
	query := selectEntries + " WHERE 1=1"
	args := []any{}

	if operation != "" {
		query += " AND operation = ?"
		args = append(args, operation)
	}

	query += " ORDER BY created_at DESC, rowid DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := e.Scan(rows); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of stored entries.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM history").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}

// Clear deletes every entry and returns how many were removed.
func (s *Store) Clear() (int64, error) {
	res, err := s.db.Exec("DELETE FROM history")
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return res.RowsAffected()
}

func (e *Entry) Scan(rows *sql.Rows) error {
	return rows.Scan(
		&e.ID,
		&e.Operation,
		&e.Target,
		&e.Outcome,
		&e.StatusCode,
		&e.Bytes,
		&e.Message,
		&e.CreatedAt,
	)
}
