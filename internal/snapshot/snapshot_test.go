package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/tinytelemetry/actorlog/internal/model"
	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
	"google.golang.org/protobuf/proto"
)

func testSnapshot() model.Snapshot {
	ts := time.Date(2025, 6, 1, 8, 30, 0, 123456789, time.UTC)
	return model.Snapshot{
		Entries: []model.EntryState{
			{Bucket: model.BucketInfo, Severity: model.Info, Content: "boot complete", Timestamp: ts},
			{Bucket: model.BucketError, Severity: model.Fatal, Content: "disk failure",
				StackTrace: "<b>main</b> | main.go <a cs=\"/src/main.go\" ln=\"9\" cn=\"0\"><b>[9]</b></a>\n",
				Timestamp:  ts.Add(time.Second)},
		},
		Counts: model.Counts{Info: 7, Warn: 0, Error: 1},
	}
}

func assertSnapshotEqual(t *testing.T, got, want model.Snapshot) {
	t.Helper()
	if got.Counts != want.Counts {
		t.Errorf("counts = %+v, want %+v", got.Counts, want.Counts)
	}
	if len(got.Entries) != len(want.Entries) {
		t.Fatalf("entries = %d, want %d", len(got.Entries), len(want.Entries))
	}
	for i := range want.Entries {
		g, w := got.Entries[i], want.Entries[i]
		if g.Bucket != w.Bucket || g.Severity != w.Severity || g.Content != w.Content ||
			g.StackTrace != w.StackTrace || !g.Timestamp.Equal(w.Timestamp) {
			t.Errorf("entry %d = %+v, want %+v", i, g, w)
		}
	}
}

func TestRoundTripAllFormats(t *testing.T) {
	want := testSnapshot()
	for _, f := range []Format{FormatJSON, FormatYAML, FormatOTLP} {
		t.Run(string(f), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "state."+string(f))
			if err := Save(path, want, f); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
				t.Errorf("temp file left behind: %v", err)
			}
			got, err := Load(path, f)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			assertSnapshotEqual(t, got, want)
		})
	}
}

func TestOTLPShape(t *testing.T) {
	data, err := MarshalOTLP(testSnapshot())
	if err != nil {
		t.Fatalf("MarshalOTLP: %v", err)
	}
	var logs logspb.LogsData
	if err := proto.Unmarshal(data, &logs); err != nil {
		t.Fatalf("proto.Unmarshal: %v", err)
	}
	records := logs.GetResourceLogs()[0].GetScopeLogs()[0].GetLogRecords()
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[1].GetSeverityNumber() != logspb.SeverityNumber_SEVERITY_NUMBER_FATAL {
		t.Errorf("severity number = %v, want FATAL", records[1].GetSeverityNumber())
	}
	if records[1].GetSeverityText() != "FATAL" {
		t.Errorf("severity text = %q", records[1].GetSeverityText())
	}
	if records[0].GetBody().GetStringValue() != "boot complete" {
		t.Errorf("body = %q", records[0].GetBody().GetStringValue())
	}
}

func TestSeverityFromNumberRanges(t *testing.T) {
	tests := []struct {
		n        logspb.SeverityNumber
		expected model.Severity
	}{
		{logspb.SeverityNumber_SEVERITY_NUMBER_TRACE, model.Debug},
		{logspb.SeverityNumber_SEVERITY_NUMBER_DEBUG4, model.Debug},
		{logspb.SeverityNumber_SEVERITY_NUMBER_INFO2, model.Info},
		{logspb.SeverityNumber_SEVERITY_NUMBER_WARN3, model.Warn},
		{logspb.SeverityNumber_SEVERITY_NUMBER_ERROR4, model.Error},
		{logspb.SeverityNumber_SEVERITY_NUMBER_FATAL2, model.Fatal},
	}
	for _, tt := range tests {
		if got := severityFromNumber(tt.n); got != tt.expected {
			t.Errorf("severityFromNumber(%v) = %v, want %v", tt.n, got, tt.expected)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"json", FormatJSON}, {"", FormatJSON}, {".json", FormatJSON},
		{"YAML", FormatYAML}, {"yml", FormatYAML},
		{"otlp", FormatOTLP}, {".pb", FormatOTLP},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if err != nil || got != tt.expected {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.input, got, err, tt.expected)
		}
	}

	if _, err := ParseFormat("xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ParseFormat(xml) err = %v, want ErrUnknownFormat", err)
	}
	if f, err := FormatForPath("/tmp/state.yaml"); err != nil || f != FormatYAML {
		t.Errorf("FormatForPath = %q, %v", f, err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"), FormatJSON)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load missing err = %v, want os.ErrNotExist", err)
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	if _, err := Marshal(testSnapshot(), Format("xml")); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Marshal xml err = %v, want ErrUnknownFormat", err)
	}
}

type staticSource struct{ snap model.Snapshot }

func (s staticSource) Snapshot() model.Snapshot { return s.snap }

type countingWriter struct {
	mu     sync.Mutex
	writes int
	last   model.Snapshot
	err    error
}

func (w *countingWriter) WriteSnapshot(_ context.Context, snap model.Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes++
	w.last = snap
	return w.err
}

func (w *countingWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}

func TestFlusherFinalFlushOnStop(t *testing.T) {
	w := &countingWriter{}
	failing := &countingWriter{err: errors.New("boom")}
	f := NewFlusher(staticSource{testSnapshot()}, []Writer{failing, w}, FlusherConfig{Interval: time.Hour})
	f.Stop()
	f.Stop()

	if w.count() != 1 {
		t.Errorf("writes after Stop = %d, want 1", w.count())
	}
	if failing.count() != 1 {
		t.Errorf("failing writer calls = %d, want 1", failing.count())
	}
	if w.last.Counts.Info != 7 {
		t.Errorf("flushed counts = %+v", w.last.Counts)
	}
}

func TestFlusherTicks(t *testing.T) {
	w := &countingWriter{}
	f := NewFlusher(staticSource{}, []Writer{w}, FlusherConfig{Interval: 10 * time.Millisecond})
	defer f.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for w.count() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("flusher wrote %d times, want at least 2", w.count())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNewFlusherDisabled(t *testing.T) {
	if f := NewFlusher(staticSource{}, nil); f != nil {
		t.Error("NewFlusher without writers returned a flusher")
	}
}

func TestFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	w := FileWriter{Path: path, Format: FormatYAML}
	if err := w.WriteSnapshot(context.Background(), testSnapshot()); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	got, err := Load(path, FormatYAML)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assertSnapshotEqual(t, got, testSnapshot())
}
