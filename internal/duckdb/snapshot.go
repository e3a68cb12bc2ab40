package duckdb

import (
	"context"
	"fmt"
	"time"

	"github.com/tinytelemetry/actorlog/internal/model"
)

var counterBuckets = [...]model.Bucket{model.BucketInfo, model.BucketWarn, model.BucketError}

// SaveSnapshot replaces the persisted state with snap in one transaction.
func (s *Store) SaveSnapshot(ctx context.Context, snap model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("duckdb: begin snapshot: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM entries"); err != nil {
		return fmt.Errorf("duckdb: clear entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM counters"); err != nil {
		return fmt.Errorf("duckdb: clear counters: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO entries (seq, bucket, severity, content, stack_trace, timestamp_ns) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("duckdb: prepare entries: %w", err)
	}
	defer stmt.Close()

	for i, e := range snap.Entries {
		if _, err := stmt.ExecContext(ctx, i, uint8(e.Bucket), int8(e.Severity), e.Content, e.StackTrace, e.Timestamp.UnixNano()); err != nil {
			return fmt.Errorf("duckdb: insert entry %d: %w", i, err)
		}
	}

	counts := [...]int{snap.Counts.Info, snap.Counts.Warn, snap.Counts.Error}
	for i, b := range counterBuckets {
		if _, err := tx.ExecContext(ctx, "INSERT INTO counters (bucket, count) VALUES (?, ?)", b.String(), counts[i]); err != nil {
			return fmt.Errorf("duckdb: insert counter %s: %w", b, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO snapshots (entry_count) VALUES (?)", len(snap.Entries)); err != nil {
		return fmt.Errorf("duckdb: record snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("duckdb: commit snapshot: %w", err)
	}
	return nil
}

// WriteSnapshot implements snapshot.Writer.
func (s *Store) WriteSnapshot(ctx context.Context, snap model.Snapshot) error {
	return s.SaveSnapshot(ctx, snap)
}

// LoadSnapshot returns the persisted state, or an empty snapshot when
// nothing has been saved yet.
func (s *Store) LoadSnapshot(ctx context.Context) (model.Snapshot, error) {
	var snap model.Snapshot

	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT bucket, severity, content, stack_trace, timestamp_ns FROM entries ORDER BY seq`)
	if err != nil {
		return snap, fmt.Errorf("duckdb: query entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bucket   uint8
			severity int8
			st       model.EntryState
			tsNanos  int64
		)
		if err := rows.Scan(&bucket, &severity, &st.Content, &st.StackTrace, &tsNanos); err != nil {
			return snap, fmt.Errorf("duckdb: scan entry: %w", err)
		}
		st.Bucket = model.Bucket(bucket)
		st.Severity = model.Severity(severity)
		st.Timestamp = time.Unix(0, tsNanos).UTC()
		snap.Entries = append(snap.Entries, st)
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("duckdb: iterate entries: %w", err)
	}

	crows, err := s.db.QueryContext(ctx, "SELECT bucket, count FROM counters")
	if err != nil {
		return snap, fmt.Errorf("duckdb: query counters: %w", err)
	}
	defer crows.Close()

	for crows.Next() {
		var name string
		var count int64
		if err := crows.Scan(&name, &count); err != nil {
			return snap, fmt.Errorf("duckdb: scan counter: %w", err)
		}
		switch name {
		case model.BucketInfo.String():
			snap.Counts.Info = int(count)
		case model.BucketWarn.String():
			snap.Counts.Warn = int(count)
		case model.BucketError.String():
			snap.Counts.Error = int(count)
		}
	}
	if err := crows.Err(); err != nil {
		return snap, fmt.Errorf("duckdb: iterate counters: %w", err)
	}
	return snap, nil
}

// EntryCount returns the number of persisted entries.
func (s *Store) EntryCount(ctx context.Context) (int64, error) {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("duckdb: count entries: %w", err)
	}
	return n, nil
}

// SnapshotCount returns how many snapshots have been saved.
func (s *Store) SnapshotCount(ctx context.Context) (int64, error) {
	ctx, cancel := s.queryCtx(ctx)
	defer cancel()

	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM snapshots").Scan(&n); err != nil {
		return 0, fmt.Errorf("duckdb: count snapshots: %w", err)
	}
	return n, nil
}
