package model

import "time"

// Counts holds the per-bucket counters of a collector.
type Counts struct {
	Info  int `json:"info" yaml:"info"`
	Warn  int `json:"warn" yaml:"warn"`
	Error int `json:"error" yaml:"error"`
}

// Total returns the sum of all buckets.
func (c Counts) Total() int {
	return c.Info + c.Warn + c.Error
}

// Add increments the counter for b.
func (c *Counts) Add(b Bucket) {
	switch b {
	case BucketWarn:
		c.Warn++
	case BucketError:
		c.Error++
	default:
		c.Info++
	}
}

// EntryState is the plain-data form of a LogEntry.
type EntryState struct {
	Bucket     Bucket    `json:"bucket" yaml:"bucket"`
	Severity   Severity  `json:"severity" yaml:"severity"`
	Content    string    `json:"content" yaml:"content"`
	StackTrace string    `json:"stack_trace" yaml:"stack_trace"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
}

// Snapshot is the serializable state of a collector: its entries in
// insertion order plus the three counters.
type Snapshot struct {
	Entries []EntryState `json:"entries" yaml:"entries"`
	Counts  Counts       `json:"counts" yaml:"counts"`
}
