package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/tinytelemetry/actorlog/internal/collector"
	"github.com/tinytelemetry/actorlog/internal/duckdb"
	"github.com/tinytelemetry/actorlog/internal/logparse"
	"github.com/tinytelemetry/actorlog/internal/logsource"
	"github.com/tinytelemetry/actorlog/internal/model"
	"github.com/tinytelemetry/actorlog/internal/snapshot"
)

// lineIngester turns raw input lines into collector entries.
type lineIngester struct {
	owner    *collector.Owner
	fallback model.Severity
	echo     bool
}

func newLineIngester(owner *collector.Owner, cfg appConfig) lineIngester {
	return lineIngester{
		owner:    owner,
		fallback: logparse.NormalizeSeverity(cfg.DefaultSeverity, model.Info),
		echo:     cfg.ConsoleEcho,
	}
}

func (in lineIngester) Ingest(line logsource.Line) {
	severity := logparse.ExtractSeverityFromText(line.Text, in.fallback)
	if in.echo {
		in.owner.LogWithConsole(severity, line.Text)
		return
	}
	in.owner.Log(severity, line.Text)
}

// Run drains lines until the channel closes or ctx ends.
func (in lineIngester) Run(ctx context.Context, lines <-chan logsource.Line) int {
	n := 0
	for {
		select {
		case <-ctx.Done():
			return n
		case line, ok := <-lines:
			if !ok {
				return n
			}
			in.Ingest(line)
			n++
		}
	}
}

// restoreState reloads persisted state into owner. The DuckDB store wins
// over the snapshot file when it holds any entries or counters.
func restoreState(ctx context.Context, owner *collector.Owner, store *duckdb.Store, cfg appConfig) (string, error) {
	if store != nil {
		snap, err := store.LoadSnapshot(ctx)
		if err != nil {
			return "", fmt.Errorf("load snapshot from duckdb: %w", err)
		}
		if len(snap.Entries) > 0 || snap.Counts.Total() > 0 {
			owner.Restore(snap)
			return store.Path(), nil
		}
	}

	if cfg.SnapshotPath == "" {
		return "", nil
	}
	snap, err := snapshot.Load(cfg.SnapshotPath, snapshot.Format(cfg.SnapshotFormat))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("load snapshot file: %w", err)
	}
	owner.Restore(snap)
	log.Printf("restore: %d entries from %s", len(snap.Entries), cfg.SnapshotPath)
	return cfg.SnapshotPath, nil
}
