package model

// Severity is the level a caller logs at. Higher values are more severe.
type Severity int

const (
	Debug Severity = iota
	Info
	Warn
	Error
	Fatal
)

var severityNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

// String returns the upper-case level name.
func (s Severity) String() string {
	return severityNames[s.Clamp()]
}

// Valid reports whether s is one of the five defined levels.
func (s Severity) Valid() bool {
	return s >= Debug && s <= Fatal
}

// Clamp maps out-of-range values onto the nearest defined level.
func (s Severity) Clamp() Severity {
	if s < Debug {
		return Debug
	}
	if s > Fatal {
		return Fatal
	}
	return s
}

// Bucket is the three-way counting class a severity collapses into.
type Bucket uint8

const (
	BucketInfo Bucket = iota
	BucketWarn
	BucketError
)

var bucketNames = [...]string{"info", "warn", "error"}

func (b Bucket) String() string {
	if int(b) < len(bucketNames) {
		return bucketNames[b]
	}
	return "unknown"
}

var severityBuckets = [...]Bucket{
	Debug: BucketInfo,
	Info:  BucketInfo,
	Warn:  BucketWarn,
	Error: BucketError,
	Fatal: BucketError,
}

// BucketOf returns the counting bucket for s.
func BucketOf(s Severity) Bucket {
	return severityBuckets[s.Clamp()]
}

var bucketDepths = [...]int{
	BucketInfo:  InfoTraceDepth,
	BucketWarn:  WarnTraceDepth,
	BucketError: ErrorTraceDepth,
}

// TraceDepth returns how many stack frames are examined for entries in b.
func TraceDepth(b Bucket) int {
	if int(b) < len(bucketDepths) {
		return bucketDepths[b]
	}
	return ErrorTraceDepth
}

// Channel selects which console stream an echoed message goes to.
type Channel int

const (
	ChannelStandard Channel = iota
	ChannelWarning
	ChannelError
)

var bucketChannels = [...]Channel{
	BucketInfo:  ChannelStandard,
	BucketWarn:  ChannelWarning,
	BucketError: ChannelError,
}

// ChannelFor returns the console channel for s.
func ChannelFor(s Severity) Channel {
	return bucketChannels[BucketOf(s)]
}

func (c Channel) String() string {
	switch c {
	case ChannelWarning:
		return "warning"
	case ChannelError:
		return "error"
	default:
		return "standard"
	}
}
