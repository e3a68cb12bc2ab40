package model

// Collector defaults.
const (
	// AutoClearThreshold is the entry count above which an auto-clearing
	// collector empties its buffer on the next log call.
	AutoClearThreshold = 100

	InfoTraceDepth  = 5
	WarnTraceDepth  = 10
	ErrorTraceDepth = 20

	// DefaultSkipFrames hides the logging method itself, so traces start at
	// the call site.
	DefaultSkipFrames = 1
)
