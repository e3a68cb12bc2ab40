package logsource

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"
)

func collect(t *testing.T, src LogSource) []Line {
	t.Helper()
	var out []Line
	timeout := time.After(2 * time.Second)
	for {
		select {
		case l, ok := <-src.Lines():
			if !ok {
				return out
			}
			out = append(out, l)
		case <-timeout:
			t.Fatal("timed out waiting for lines channel to close")
		}
	}
}

func TestReaderSourceSkipsBlankLines(t *testing.T) {
	src := NewReaderSource(context.Background(), strings.NewReader("INFO one\n\nERROR two\n"), ReaderConfig{Name: "test"})

	got := collect(t, src)
	if len(got) != 2 {
		t.Fatalf("lines = %d, want 2: %+v", len(got), got)
	}
	if got[0].Text != "INFO one" || got[1].Text != "ERROR two" {
		t.Errorf("lines = %+v", got)
	}
	if got[0].Source != "test" {
		t.Errorf("source = %q, want test", got[0].Source)
	}
}

func TestReaderSourceStopClosesLines(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	defer func() { _ = w.Close() }()
	defer func() { _ = r.Close() }()

	src := NewReaderSource(context.Background(), r)
	src.Stop()

	select {
	case _, ok := <-src.Lines():
		if ok {
			t.Fatal("expected lines channel to be closed after Stop")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for lines channel to close")
	}
}

func TestReaderSourceStopIsIdempotent(t *testing.T) {
	src := NewReaderSource(context.Background(), strings.NewReader(""))
	src.Stop()
	src.Stop()
	if src.Name() != "reader" {
		t.Errorf("Name = %q, want reader", src.Name())
	}
}
