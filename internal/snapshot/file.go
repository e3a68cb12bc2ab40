package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tinytelemetry/actorlog/internal/model"
)

const (
	defaultFileMode = 0644
	defaultDirMode  = 0755
)

// Save writes snap to path in format f. The file is replaced atomically:
// data goes to a synced temp file that is then renamed over path.
func Save(path string, snap model.Snapshot, f Format) error {
	if path == "" {
		return errors.New("snapshot: path is empty")
	}
	data, err := Marshal(snap, f)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), defaultDirMode); err != nil {
		return fmt.Errorf("snapshot: mkdir: %w", err)
	}

	tmp := path + ".tmp"
	fh, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, defaultFileMode)
	if err != nil {
		return fmt.Errorf("snapshot: open tmp: %w", err)
	}
	if _, err := fh.Write(data); err != nil {
		_ = fh.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("snapshot: write tmp: %w", err)
	}
	if err := fh.Sync(); err != nil {
		_ = fh.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("snapshot: sync tmp: %w", err)
	}
	if err := fh.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("snapshot: close tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("snapshot: rename: %w", err)
	}
	return nil
}

// Load reads a snapshot from path. A missing file yields an empty snapshot
// and an error matching os.ErrNotExist.
func Load(path string, f Format) (model.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("snapshot: read: %w", err)
	}
	return Decode(bytes.NewReader(data), f)
}

// FileWriter persists snapshots to a single file.
type FileWriter struct {
	Path   string
	Format Format
}

// WriteSnapshot implements Writer.
func (w FileWriter) WriteSnapshot(_ context.Context, snap model.Snapshot) error {
	return Save(w.Path, snap, w.Format)
}
