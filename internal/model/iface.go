package model

// Matcher answers whether search text matches an entry's content.
// Hosts without a search capability use NopMatcher.
type Matcher interface {
	Match(search, content string) bool
}

// NopMatcher never matches.
type NopMatcher struct{}

func (NopMatcher) Match(string, string) bool { return false }

// ConsoleSink receives echoed messages on one of three channels.
type ConsoleSink interface {
	Echo(ch Channel, message string)
}

// EntryReader is the read-only view over collected entries used by the
// HTTP API and the terminal viewer.
type EntryReader interface {
	Entries() []LogEntry
	Counts() Counts
	Filter(search string) []LogEntry
}
