// Package snapshot encodes, stores and periodically persists collector
// state.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/tinytelemetry/actorlog/internal/model"
	"gopkg.in/yaml.v3"
)

// Format names a snapshot encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatOTLP Format = "otlp"
)

// ErrUnknownFormat is returned for formats other than json, yaml and otlp.
var ErrUnknownFormat = errors.New("snapshot: unknown format")

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "otlp", "pb", "binpb":
		return FormatOTLP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatOTLP:
		return "application/x-protobuf"
	default:
		return "application/json"
	}
}

// Encode writes snap to w in format f.
func Encode(w io.Writer, snap model.Snapshot, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("snapshot: encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("snapshot: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("snapshot: encode yaml: %w", err)
		}
		return nil
	case FormatOTLP:
		data, err := MarshalOTLP(snap)
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("snapshot: write otlp: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Decode reads a snapshot in format f from r.
func Decode(r io.Reader, f Format) (model.Snapshot, error) {
	var snap model.Snapshot
	switch f {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&snap); err != nil {
			return snap, fmt.Errorf("snapshot: decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&snap); err != nil && !errors.Is(err, io.EOF) {
			return snap, fmt.Errorf("snapshot: decode yaml: %w", err)
		}
	case FormatOTLP:
		data, err := io.ReadAll(r)
		if err != nil {
			return snap, fmt.Errorf("snapshot: read otlp: %w", err)
		}
		return UnmarshalOTLP(data)
	default:
		return snap, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	return snap, nil
}

// Marshal is Encode into a byte slice.
func Marshal(snap model.Snapshot, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, snap, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
