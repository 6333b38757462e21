// Package sqlite stores the ledger in a local SQLite file. It backs the dev
// environment and the store tests; production runs on postgres.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/thecleanest/thecleanest/pkg/db"
)

// DB provides ledger storage on SQLite
type DB struct {
	conn *sql.DB
}

var _ db.Database = (*DB)(nil)

// NewDB opens the SQLite database at path. Use ":memory:" for a throwaway
// database. Writes are serialised through a single connection.
func NewDB(ctx context.Context, path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	for _, pragma := range []string{
		`PRAGMA foreign_keys = ON`,
		`PRAGMA busy_timeout = 5000`,
	} {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database
func (d *DB) Close() {
	d.conn.Close()
}

// Migrations returns the schema statements, one statement per string
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS worker (
			id    TEXT PRIMARY KEY,
			name  TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE
		)`,

		`CREATE TABLE IF NOT EXISTS assignment (
			id                 TEXT PRIMARY KEY,
			date               TEXT NOT NULL UNIQUE,
			worker_id          TEXT REFERENCES worker (id),
			defer_code         TEXT NOT NULL UNIQUE,
			status             TEXT NOT NULL DEFAULT 'scheduled'
			                   CHECK (status IN ('scheduled', 'deferred', 'reassigned')),
			deferred_worker_id TEXT REFERENCES worker (id),
			proposed_worker_id TEXT REFERENCES worker (id)
		)`,

		// one debit per skipped assignment
		`CREATE TABLE IF NOT EXISTS debit (
			id                    TEXT PRIMARY KEY,
			worker_id             TEXT NOT NULL REFERENCES worker (id),
			skipped_assignment_id TEXT NOT NULL UNIQUE REFERENCES assignment (id),
			amount                INTEGER NOT NULL DEFAULT 1,
			created_at            TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_debit_worker ON debit (worker_id)`,

		`CREATE TABLE IF NOT EXISTS credit (
			id           TEXT PRIMARY KEY,
			worker_id    TEXT NOT NULL REFERENCES worker (id),
			skipped_date TEXT NOT NULL,
			amount       INTEGER NOT NULL DEFAULT 1,
			created_at   TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_credit_worker ON credit (worker_id)`,
		`CREATE INDEX IF NOT EXISTS idx_credit_date ON credit (skipped_date)`,

		`CREATE TABLE IF NOT EXISTS event (
			id        TEXT PRIMARY KEY,
			kind      TEXT NOT NULL CHECK (kind IN ('bone', 'nudge')),
			worker_id TEXT NOT NULL REFERENCES worker (id),
			timestamp TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_event_kind_worker ON event (kind, worker_id, timestamp)`,
	}
}

// RunMigrations creates the schema. Every statement is idempotent.
func (d *DB) RunMigrations(ctx context.Context) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range Migrations() {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration statement %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migrations: %w", err)
	}
	return nil
}
