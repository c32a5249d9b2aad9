// Package runs persists a ledger of completed pipeline runs.
package runs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Record is one completed pipeline run.
type Record struct {
	ID          int64     `json:"id"`
	Parameter   string    `json:"parameter"`
	Temporal    string    `json:"temporal"`
	Start       time.Time `json:"start"`
	Stop        time.Time `json:"stop"`
	Slices      int       `json:"slices"`
	CompletedAt time.Time `json:"completed_at"`
}

// Store is a SQLite-backed run ledger.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the ledger database and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run ledger: %w", err)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	parameter TEXT NOT NULL,
	temporal TEXT NOT NULL,
	start_at TEXT NOT NULL,
	stop_at TEXT NOT NULL,
	slices INTEGER NOT NULL,
	completed_at TEXT NOT NULL
);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}
	return nil
}

// Insert records a completed run and returns its assigned ID.
func (s *Store) Insert(ctx context.Context, r Record) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (parameter, temporal, start_at, stop_at, slices, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.Parameter, r.Temporal,
		r.Start.UTC().Format(time.RFC3339),
		r.Stop.UTC().Format(time.RFC3339),
		r.Slices,
		r.CompletedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run record: %w", err)
	}
	return res.LastInsertId()
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, parameter, temporal, start_at, stop_at, slices, completed_at
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Record
	for rows.Next() {
		var r Record
		var start, stop, completed string
		if err := rows.Scan(&r.ID, &r.Parameter, &r.Temporal, &start, &stop, &r.Slices, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan run record: %w", err)
		}
		if r.Start, err = time.Parse(time.RFC3339, start); err != nil {
			return nil, fmt.Errorf("invalid start_at in ledger: %w", err)
		}
		if r.Stop, err = time.Parse(time.RFC3339, stop); err != nil {
			return nil, fmt.Errorf("invalid stop_at in ledger: %w", err)
		}
		if r.CompletedAt, err = time.Parse(time.RFC3339, completed); err != nil {
			return nil, fmt.Errorf("invalid completed_at in ledger: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
