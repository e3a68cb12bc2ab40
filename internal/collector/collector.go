// Package collector accumulates leveled log entries with call-site stack
// traces and per-bucket counters.
//
// A Collector is not safe for concurrent use. Hosts that log from several
// goroutines share it through an Owner.
package collector

import (
	"time"

	"github.com/tinytelemetry/actorlog/internal/model"
	"github.com/tinytelemetry/actorlog/internal/stacktrace"
)

const defaultCapacity = 1000

// Config holds the optional collaborators of a Collector.
type Config struct {
	// AutoClear empties the entry buffer once it holds more than
	// model.AutoClearThreshold entries. Counters are not reset.
	AutoClear bool
	Console   model.ConsoleSink
	Matcher   model.Matcher
	Tracer    stacktrace.Tracer
	Clock     func() time.Time
}

// Collector is an in-memory log buffer with per-bucket counters.
type Collector struct {
	entries   []model.LogEntry
	counts    model.Counts
	autoClear bool

	console model.ConsoleSink
	matcher model.Matcher
	tracer  stacktrace.Tracer
	now     func() time.Time
}

// New creates a collector. Without a config, auto-clear is off, console
// echo and matching are no-ops and traces come from the Go runtime.
func New(conf ...Config) *Collector {
	var cfg Config
	if len(conf) > 0 {
		cfg = conf[0]
	}

	c := &Collector{
		entries:   make([]model.LogEntry, 0, defaultCapacity),
		autoClear: cfg.AutoClear,
		console:   cfg.Console,
		matcher:   cfg.Matcher,
		tracer:    cfg.Tracer,
		now:       cfg.Clock,
	}
	if c.console == nil {
		c.console = nopConsole{}
	}
	if c.matcher == nil {
		c.matcher = model.NopMatcher{}
	}
	if c.tracer == nil {
		c.tracer = stacktrace.Runtime{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Log records message at severity. skipFrames defaults to
// model.DefaultSkipFrames, which starts the trace at the caller of Log.
func (c *Collector) Log(severity model.Severity, message string, skipFrames ...int) {
	c.evict()
	c.record(severity, message, skip(skipFrames))
}

// LogWithConsole records message like Log and then echoes it to the
// console channel for severity.
func (c *Collector) LogWithConsole(severity model.Severity, message string, skipFrames ...int) {
	c.evict()
	c.record(severity, message, skip(skipFrames))
	c.console.Echo(model.ChannelFor(severity), message)
}

func skip(frames []int) int {
	if len(frames) > 0 && frames[0] >= 0 {
		return frames[0]
	}
	return model.DefaultSkipFrames
}

// evict applies the auto-clear policy. Only the entries go; the counters
// keep counting across the clear.
func (c *Collector) evict() {
	if c.autoClear && len(c.entries) > model.AutoClearThreshold {
		clear(c.entries)
		c.entries = c.entries[:0]
	}
}

// record must be called directly from Log or LogWithConsole: the extra
// skipped frame below accounts for record itself.
func (c *Collector) record(severity model.Severity, message string, skipFrames int) {
	severity = severity.Clamp()
	bucket := model.BucketOf(severity)
	trace := c.tracer.Capture(model.TraceDepth(bucket), skipFrames+1)

	c.entries = append(c.entries, model.NewEntry(severity, message, trace, c.now(), c.matcher))
	c.counts.Add(bucket)
}

// Entries returns a copy of the collected entries in insertion order.
func (c *Collector) Entries() []model.LogEntry {
	out := make([]model.LogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of buffered entries.
func (c *Collector) Len() int { return len(c.entries) }

// Counts returns the per-bucket counters.
func (c *Collector) Counts() model.Counts { return c.counts }

// AutoClear reports whether the auto-clear policy is enabled.
func (c *Collector) AutoClear() bool { return c.autoClear }

// Filter returns the entries whose content matches search.
func (c *Collector) Filter(search string) []model.LogEntry {
	var out []model.LogEntry
	for _, e := range c.entries {
		if e.Match(search) {
			out = append(out, e)
		}
	}
	return out
}

// Snapshot returns the collector state as plain data.
func (c *Collector) Snapshot() model.Snapshot {
	states := make([]model.EntryState, len(c.entries))
	for i, e := range c.entries {
		states[i] = e.State()
	}
	return model.Snapshot{Entries: states, Counts: c.counts}
}

// Restore replaces the collector state with snap. Restored entries use the
// collector's matcher.
func (c *Collector) Restore(snap model.Snapshot) {
	entries := make([]model.LogEntry, len(snap.Entries), max(len(snap.Entries), defaultCapacity))
	for i, st := range snap.Entries {
		entries[i] = model.EntryFromState(st, c.matcher)
	}
	c.entries = entries
	c.counts = snap.Counts
}

type nopConsole struct{}

func (nopConsole) Echo(model.Channel, string) {}
