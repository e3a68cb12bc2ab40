package model

import (
	"encoding/binary"
	"time"

	"github.com/zeebo/xxh3"
)

// LogEntry is one collected log event. It is immutable after creation.
type LogEntry struct {
	bucket     Bucket
	severity   Severity
	content    string
	stackTrace string
	timestamp  time.Time
	matcher    Matcher
}

// NewEntry builds an entry. The timestamp is stored in UTC and a nil
// matcher is replaced with NopMatcher.
func NewEntry(severity Severity, content, stackTrace string, ts time.Time, matcher Matcher) LogEntry {
	severity = severity.Clamp()
	if matcher == nil {
		matcher = NopMatcher{}
	}
	return LogEntry{
		bucket:     BucketOf(severity),
		severity:   severity,
		content:    content,
		stackTrace: stackTrace,
		timestamp:  ts.UTC(),
		matcher:    matcher,
	}
}

// EntryFromState rebuilds an entry from its plain-data form. The stored
// bucket is kept as-is so restored entries count the way they did when
// they were first logged.
func EntryFromState(st EntryState, matcher Matcher) LogEntry {
	e := NewEntry(st.Severity, st.Content, st.StackTrace, st.Timestamp, matcher)
	e.bucket = st.Bucket
	return e
}

func (e LogEntry) Bucket() Bucket       { return e.bucket }
func (e LogEntry) Severity() Severity   { return e.severity }
func (e LogEntry) Content() string      { return e.content }
func (e LogEntry) StackTrace() string   { return e.stackTrace }
func (e LogEntry) Timestamp() time.Time { return e.timestamp }

// Match reports whether search matches the entry content using the
// matcher the entry was created with.
func (e LogEntry) Match(search string) bool {
	if e.matcher == nil {
		return false
	}
	return e.matcher.Match(search, e.content)
}

// Hash identifies an entry by bucket, content and timestamp.
func (e LogEntry) Hash() uint64 {
	buf := make([]byte, 0, 9+len(e.content))
	buf = append(buf, byte(e.bucket))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(e.timestamp.UnixNano()))
	buf = append(buf, e.content...)
	return xxh3.Hash(buf)
}

// Equal compares the same fields Hash covers.
func (e LogEntry) Equal(other LogEntry) bool {
	return e.bucket == other.bucket &&
		e.content == other.content &&
		e.timestamp.Equal(other.timestamp)
}

// State returns the plain-data form of the entry.
func (e LogEntry) State() EntryState {
	return EntryState{
		Bucket:     e.bucket,
		Severity:   e.severity,
		Content:    e.content,
		StackTrace: e.stackTrace,
		Timestamp:  e.timestamp,
	}
}
