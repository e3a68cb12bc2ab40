package collector

import (
	"sync"

	"github.com/tinytelemetry/actorlog/internal/model"
)

// Owner serializes access to a Collector shared by several goroutines.
type Owner struct {
	mu sync.Mutex
	c  *Collector
}

// NewOwner takes ownership of c. Callers must not use c directly afterwards.
func NewOwner(c *Collector) *Owner {
	return &Owner{c: c}
}

// Do runs fn with exclusive access to the collector.
func (o *Owner) Do(fn func(c *Collector)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fn(o.c)
}

// Log records message. The default skip starts the trace at the caller of
// Owner.Log.
func (o *Owner) Log(severity model.Severity, message string, skipFrames ...int) {
	s := skip(skipFrames)
	o.mu.Lock()
	defer o.mu.Unlock()
	o.c.Log(severity, message, s+1)
}

// LogWithConsole records message and echoes it to the console.
func (o *Owner) LogWithConsole(severity model.Severity, message string, skipFrames ...int) {
	s := skip(skipFrames)
	o.mu.Lock()
	defer o.mu.Unlock()
	o.c.LogWithConsole(severity, message, s+1)
}

func (o *Owner) Entries() []model.LogEntry {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.c.Entries()
}

func (o *Owner) Counts() model.Counts {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.c.Counts()
}

func (o *Owner) Filter(search string) []model.LogEntry {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.c.Filter(search)
}

func (o *Owner) Snapshot() model.Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.c.Snapshot()
}

func (o *Owner) Restore(snap model.Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.c.Restore(snap)
}
