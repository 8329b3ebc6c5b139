// Package history keeps a bounded, SQLite-backed log of commands and the
// assistant's replies.
package history

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// Entry is one command/response exchange.
type Entry struct {
	ID        string    `json:"id"`
	Command   string    `json:"command"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// Store provides SQLite-backed storage for history entries.
type Store struct {
	db         *sql.DB
	maxEntries int

	idMu    sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

// NewStore opens (or creates) the SQLite database at dbPath and
// ensures the history table exists. At most maxEntries rows are kept.
func NewStore(dbPath string, maxEntries int) (*Store, error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("max entries must be positive, got %d", maxEntries)
	}

	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := createTable(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:         db,
		maxEntries: maxEntries,
		entropy:    ulid.Monotonic(rand.Reader, 0),
		now:        time.Now,
	}, nil
}

func createTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS history (
			id         TEXT PRIMARY KEY,
			command    TEXT NOT NULL,
			response   TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// newID returns a ULID; monotonic entropy keeps IDs ordered within a millisecond.
func (s *Store) newID(t time.Time) (string, error) {
	s.idMu.Lock()
	defer s.idMu.Unlock()

	id, err := ulid.New(ulid.Timestamp(t), s.entropy)
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

// Append records an exchange and prunes the oldest rows beyond the bound.
func (s *Store) Append(ctx context.Context, command, response string) error {
	now := s.now()
	id, err := s.newID(now)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO history (id, command, response, created_at) VALUES (?, ?, ?, ?)`,
		id, command, response, now.UnixMilli(),
	); err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM history WHERE id NOT IN (
			SELECT id FROM history ORDER BY id DESC LIMIT ?
		)`, s.maxEntries,
	); err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history entry: %w", err)
	}
	return nil
}

// List returns up to limit most recent entries, oldest first.
// A non-positive limit returns everything kept.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = s.maxEntries
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, command, response, created_at FROM (
			SELECT id, command, response, created_at FROM history ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			created int64
		)
		if err := rows.Scan(&e.ID, &e.Command, &e.Response, &created); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.CreatedAt = time.UnixMilli(created)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return entries, nil
}

// Clear deletes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
