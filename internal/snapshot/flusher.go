package snapshot

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/tinytelemetry/actorlog/internal/model"
)

// DefaultFlushInterval is used when FlusherConfig.Interval is zero.
const DefaultFlushInterval = 30 * time.Second

// Source provides the state to persist.
type Source interface {
	Snapshot() model.Snapshot
}

// Writer persists a snapshot.
type Writer interface {
	WriteSnapshot(ctx context.Context, snap model.Snapshot) error
}

// FlusherConfig holds configuration for a Flusher.
type FlusherConfig struct {
	Interval time.Duration
	Timeout  time.Duration
}

// Flusher periodically writes a source's snapshot to one or more writers
// and writes a final snapshot on Stop.
type Flusher struct {
	src      Source
	writers  []Writer
	interval time.Duration
	timeout  time.Duration
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewFlusher starts a flusher. Returns nil when there is nothing to write to.
func NewFlusher(src Source, writers []Writer, conf ...FlusherConfig) *Flusher {
	if src == nil || len(writers) == 0 {
		return nil
	}
	interval := DefaultFlushInterval
	timeout := 10 * time.Second
	if len(conf) > 0 {
		if conf[0].Interval > 0 {
			interval = conf[0].Interval
		}
		if conf[0].Timeout > 0 {
			timeout = conf[0].Timeout
		}
	}

	f := &Flusher{
		src:      src,
		writers:  writers,
		interval: interval,
		timeout:  timeout,
		done:     make(chan struct{}),
	}
	f.wg.Add(1)
	go f.tickLoop()
	return f
}

func (f *Flusher) tickLoop() {
	defer f.wg.Done()
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			f.Flush()
		case <-f.done:
			f.Flush() // final flush
			return
		}
	}
}

// Flush writes the current snapshot to every writer. Failures are logged
// and do not stop the remaining writers.
func (f *Flusher) Flush() {
	snap := f.src.Snapshot()
	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()

	for _, w := range f.writers {
		if err := w.WriteSnapshot(ctx, snap); err != nil {
			log.Printf("snapshot: flush error: %v", err)
		}
	}
}

// Stop signals the flusher to stop and waits for the final flush.
func (f *Flusher) Stop() {
	f.stopOnce.Do(func() {
		close(f.done)
	})
	f.wg.Wait()
}
