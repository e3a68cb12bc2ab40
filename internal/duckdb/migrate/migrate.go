// Package migrate applies the versioned DuckDB schema for persisted
// collector snapshots.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration is one schema step. Versions must be strictly increasing.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Migrations is the ordered schema history.
var Migrations = []Migration{
	{1, "create_entries", `CREATE TABLE IF NOT EXISTS entries (
		seq          INTEGER PRIMARY KEY,
		bucket       UTINYINT NOT NULL,
		severity     TINYINT NOT NULL,
		content      VARCHAR NOT NULL,
		stack_trace  VARCHAR NOT NULL,
		timestamp_ns BIGINT NOT NULL
	)`},
	{2, "create_counters", `CREATE TABLE IF NOT EXISTS counters (
		bucket VARCHAR PRIMARY KEY,
		count  BIGINT NOT NULL
	)`},
	{3, "create_snapshots", `CREATE TABLE IF NOT EXISTS snapshots (
		saved_at    TIMESTAMP DEFAULT current_timestamp,
		entry_count INTEGER NOT NULL
	)`},
}

// Runner applies Migrations to a database.
type Runner struct {
	db         *sql.DB
	migrations []Migration
}

// NewRunner creates a runner for db. Passing migrations overrides the
// default schema history.
func NewRunner(db *sql.DB, migrations ...Migration) *Runner {
	if len(migrations) == 0 {
		migrations = Migrations
	}
	return &Runner{db: db, migrations: migrations}
}

func (r *Runner) bootstrap(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		name       VARCHAR NOT NULL,
		applied_at TIMESTAMP DEFAULT current_timestamp
	)`)
	return err
}

// Version returns the highest applied migration version, 0 if none.
func (r *Runner) Version(ctx context.Context) (int, error) {
	if err := r.bootstrap(ctx); err != nil {
		return 0, fmt.Errorf("migrate: bootstrap: %w", err)
	}
	var v sql.NullInt64
	if err := r.db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&v); err != nil {
		return 0, fmt.Errorf("migrate: read version: %w", err)
	}
	return int(v.Int64), nil
}

// Run applies pending migrations, each in its own transaction.
func (r *Runner) Run(ctx context.Context) error {
	current, err := r.Version(ctx)
	if err != nil {
		return err
	}

	for _, m := range r.migrations {
		if m.Version <= current {
			continue
		}
		if err := r.apply(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) apply(ctx context.Context, m Migration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migrate: begin %s: %w", m.Name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("migrate: executing %s: %w", m.Name, err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
		return fmt.Errorf("migrate: recording %s: %w", m.Name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate: commit %s: %w", m.Name, err)
	}
	return nil
}
