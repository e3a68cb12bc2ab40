package logsource

// Line is one raw input line tagged with the source it came from.
type Line struct {
	Source string
	Text   string
}

// LogSource is a unified interface for line-oriented inputs.
type LogSource interface {
	Lines() <-chan Line // closed when the source is exhausted or stopped
	Stop()
	Name() string
}
