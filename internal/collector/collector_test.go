package collector

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tinytelemetry/actorlog/internal/model"
	"github.com/tinytelemetry/actorlog/internal/stacktrace"
)

type recordingTracer struct {
	depths []int
	skips  []int
}

func (r *recordingTracer) Capture(depth, skip int) string {
	r.depths = append(r.depths, depth)
	r.skips = append(r.skips, skip)
	return ""
}

type echo struct {
	ch  model.Channel
	msg string
}

type recordingConsole struct {
	echoes []echo
}

func (r *recordingConsole) Echo(ch model.Channel, msg string) {
	r.echoes = append(r.echoes, echo{ch, msg})
}

type containsMatcher struct{}

func (containsMatcher) Match(search, content string) bool {
	return strings.Contains(content, search)
}

func newTestCollector(t *testing.T, autoClear bool) *Collector {
	t.Helper()
	return New(Config{AutoClear: autoClear, Tracer: stacktrace.None{}})
}

func TestLogExample(t *testing.T) {
	c := newTestCollector(t, false)

	c.Log(model.Info, "boot complete")
	c.Log(model.Error, "disk failure")

	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	want := model.Counts{Info: 1, Warn: 0, Error: 1}
	if got := c.Counts(); got != want {
		t.Errorf("Counts = %+v, want %+v", got, want)
	}

	entries := c.Entries()
	if entries[0].Content() != "boot complete" || entries[1].Content() != "disk failure" {
		t.Errorf("entries out of order: %q, %q", entries[0].Content(), entries[1].Content())
	}
	if entries[1].Bucket() != model.BucketError {
		t.Errorf("bucket = %v, want error", entries[1].Bucket())
	}
}

func TestCountersPartitionByBucket(t *testing.T) {
	tests := []struct {
		severity model.Severity
		expected model.Counts
	}{
		{model.Debug, model.Counts{Info: 1}},
		{model.Info, model.Counts{Info: 1}},
		{model.Warn, model.Counts{Warn: 1}},
		{model.Error, model.Counts{Error: 1}},
		{model.Fatal, model.Counts{Error: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.severity.String(), func(t *testing.T) {
			c := newTestCollector(t, false)
			c.Log(tt.severity, "msg")
			if got := c.Counts(); got != tt.expected {
				t.Errorf("Counts = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestLenMatchesCallsWithoutAutoClear(t *testing.T) {
	c := newTestCollector(t, false)
	severities := []model.Severity{model.Debug, model.Info, model.Warn, model.Error, model.Fatal}

	for i := 0; i < 503; i++ {
		c.Log(severities[i%len(severities)], "m")
	}
	if c.Len() != 503 {
		t.Errorf("Len = %d, want 503", c.Len())
	}
	counts := c.Counts()
	if counts.Total() != 503 {
		t.Errorf("counter total = %d, want 503", counts.Total())
	}
	// 503 calls cycle through 5 levels: 101 of the first three, 100 of the rest.
	want := model.Counts{Info: 101 + 101, Warn: 101, Error: 100 + 100}
	if counts != want {
		t.Errorf("Counts = %+v, want %+v", counts, want)
	}
}

func TestAutoClearKeepsCounters(t *testing.T) {
	c := newTestCollector(t, true)

	for i := 0; i < 101; i++ {
		c.Log(model.Warn, "w")
	}
	if c.Len() != 101 {
		t.Fatalf("Len after 101 calls = %d, want 101", c.Len())
	}

	c.Log(model.Info, "after clear")
	if c.Len() != 1 {
		t.Fatalf("Len after clearing call = %d, want 1", c.Len())
	}
	if got := c.Entries()[0].Content(); got != "after clear" {
		t.Errorf("surviving entry = %q, want %q", got, "after clear")
	}

	// The clear drops entries only; counters keep growing.
	want := model.Counts{Info: 1, Warn: 101}
	if got := c.Counts(); got != want {
		t.Errorf("Counts after clear = %+v, want %+v", got, want)
	}
}

func TestAutoClearThresholdIsExclusive(t *testing.T) {
	c := newTestCollector(t, true)
	for i := 0; i < 100; i++ {
		c.Log(model.Info, "i")
	}
	c.Log(model.Info, "101st")
	if c.Len() != 101 {
		t.Errorf("Len = %d, want 101 (clear only above 100)", c.Len())
	}
}

func TestAutoClearAppliesToConsoleVariant(t *testing.T) {
	c := New(Config{AutoClear: true, Tracer: stacktrace.None{}, Console: &recordingConsole{}})
	for i := 0; i < 101; i++ {
		c.LogWithConsole(model.Error, "e")
	}
	c.LogWithConsole(model.Error, "e")
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
	if c.Counts().Error != 102 {
		t.Errorf("error count = %d, want 102", c.Counts().Error)
	}
}

func TestTraceDepthPerBucket(t *testing.T) {
	tracer := &recordingTracer{}
	c := New(Config{Tracer: tracer})

	c.Log(model.Debug, "d")
	c.Log(model.Info, "i")
	c.Log(model.Warn, "w")
	c.Log(model.Error, "e")
	c.Log(model.Fatal, "f")

	want := []int{5, 5, 10, 20, 20}
	for i, d := range want {
		if tracer.depths[i] != d {
			t.Errorf("call %d depth = %d, want %d", i, tracer.depths[i], d)
		}
	}
}

func TestSkipFramesForwarded(t *testing.T) {
	tracer := &recordingTracer{}
	c := New(Config{Tracer: tracer})

	c.Log(model.Info, "default")
	c.Log(model.Info, "none", 0)
	c.LogWithConsole(model.Info, "three", 3)
	c.Log(model.Info, "negative", -4)

	// record itself adds one frame on top of the requested skip.
	want := []int{2, 1, 4, 2}
	for i, s := range want {
		if tracer.skips[i] != s {
			t.Errorf("call %d skip = %d, want %d", i, tracer.skips[i], s)
		}
	}
}

func TestRuntimeTraceStartsAtCallSite(t *testing.T) {
	c := New()
	c.Log(model.Error, "boom")

	trace := c.Entries()[0].StackTrace()
	first, _, _ := strings.Cut(trace, "\n")
	if !strings.HasPrefix(first, "<b>TestRuntimeTraceStartsAtCallSite</b> | collector_test.go") {
		t.Errorf("first trace line = %q, want the test function", first)
	}
}

func TestRuntimeTraceIncludesLoggerWithZeroSkip(t *testing.T) {
	c := New()
	c.Log(model.Info, "boom", 0)

	first, _, _ := strings.Cut(c.Entries()[0].StackTrace(), "\n")
	if !strings.HasPrefix(first, "<b>(*Collector).Log</b> | collector.go") {
		t.Errorf("first trace line = %q, want the Log frame", first)
	}
}

func TestNoMetadataFallback(t *testing.T) {
	c := newTestCollector(t, false)
	c.Log(model.Fatal, "no frames")
	if got := c.Entries()[0].StackTrace(); got != "" {
		t.Errorf("trace = %q, want empty", got)
	}
	if c.Counts().Error != 1 {
		t.Errorf("error count = %d, want 1", c.Counts().Error)
	}
}

func TestLogWithConsoleRouting(t *testing.T) {
	console := &recordingConsole{}
	c := New(Config{Console: console, Tracer: stacktrace.None{}})

	c.LogWithConsole(model.Debug, "d")
	c.LogWithConsole(model.Info, "i")
	c.LogWithConsole(model.Warn, "w")
	c.LogWithConsole(model.Error, "e")
	c.LogWithConsole(model.Fatal, "f")
	c.Log(model.Error, "silent")

	want := []echo{
		{model.ChannelStandard, "d"},
		{model.ChannelStandard, "i"},
		{model.ChannelWarning, "w"},
		{model.ChannelError, "e"},
		{model.ChannelError, "f"},
	}
	if len(console.echoes) != len(want) {
		t.Fatalf("echoes = %d, want %d", len(console.echoes), len(want))
	}
	for i := range want {
		if console.echoes[i] != want[i] {
			t.Errorf("echo %d = %+v, want %+v", i, console.echoes[i], want[i])
		}
	}
	if c.Len() != 6 {
		t.Errorf("Len = %d, want 6", c.Len())
	}
}

func TestOutOfRangeSeverityClamps(t *testing.T) {
	c := newTestCollector(t, false)
	c.Log(model.Severity(-2), "low")
	c.Log(model.Severity(99), "high")

	if got := c.Counts(); got != (model.Counts{Info: 1, Error: 1}) {
		t.Errorf("Counts = %+v", got)
	}
	if got := c.Entries()[1].Severity(); got != model.Fatal {
		t.Errorf("severity = %v, want FATAL", got)
	}
}

func TestTimestampFromClock(t *testing.T) {
	ts := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	c := New(Config{Tracer: stacktrace.None{}, Clock: func() time.Time { return ts }})

	c.Log(model.Info, "same")
	c.Log(model.Info, "same")

	entries := c.Entries()
	if !entries[0].Timestamp().Equal(ts) {
		t.Errorf("timestamp = %v, want %v", entries[0].Timestamp(), ts)
	}
	if entries[0].Hash() != entries[1].Hash() {
		t.Error("identical severity, message and timestamp hashed differently")
	}
}

func TestFilter(t *testing.T) {
	c := New(Config{Tracer: stacktrace.None{}, Matcher: containsMatcher{}})
	c.Log(model.Info, "disk ok")
	c.Log(model.Error, "disk failure")
	c.Log(model.Warn, "network slow")

	got := c.Filter("disk")
	if len(got) != 2 {
		t.Fatalf("Filter(disk) = %d entries, want 2", len(got))
	}

	plain := newTestCollector(t, false)
	plain.Log(model.Info, "disk ok")
	if got := plain.Filter("disk"); len(got) != 0 {
		t.Errorf("Filter without capability = %d entries, want 0", len(got))
	}
}

func TestEntriesIsACopy(t *testing.T) {
	c := newTestCollector(t, false)
	c.Log(model.Info, "a")
	entries := c.Entries()
	entries[0] = model.LogEntry{}
	if c.Entries()[0].Content() != "a" {
		t.Error("mutating Entries() result changed the collector")
	}
}

func TestSnapshotRestore(t *testing.T) {
	src := newTestCollector(t, true)
	src.Log(model.Info, "one")
	src.Log(model.Warn, "two")
	src.Log(model.Fatal, "three")

	snap := src.Snapshot()
	if len(snap.Entries) != 3 || snap.Counts != (model.Counts{Info: 1, Warn: 1, Error: 1}) {
		t.Fatalf("snapshot = %+v", snap)
	}

	dst := New(Config{Tracer: stacktrace.None{}, Matcher: containsMatcher{}})
	dst.Restore(snap)
	if dst.Len() != 3 || dst.Counts() != src.Counts() {
		t.Fatalf("restored Len=%d Counts=%+v", dst.Len(), dst.Counts())
	}
	for i, e := range dst.Entries() {
		if !e.Equal(src.Entries()[i]) {
			t.Errorf("entry %d differs after restore", i)
		}
	}
	// Restored entries pick up the new collector's matcher.
	if len(dst.Filter("thr")) != 1 {
		t.Error("restored entries do not use the collector matcher")
	}

	dst.Log(model.Info, "four")
	if dst.Counts().Info != 2 {
		t.Errorf("info count after restore+log = %d, want 2", dst.Counts().Info)
	}
}

func TestOwnerConcurrentLog(t *testing.T) {
	owner := NewOwner(newTestCollector(t, false))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				owner.Log(model.Warn, "w")
			}
		}()
	}
	wg.Wait()

	if got := owner.Counts().Warn; got != 400 {
		t.Errorf("warn count = %d, want 400", got)
	}
	owner.Do(func(c *Collector) {
		if c.Len() != 400 {
			t.Errorf("Len = %d, want 400", c.Len())
		}
	})
}

func TestOwnerTraceStartsAtCallSite(t *testing.T) {
	owner := NewOwner(New())
	owner.Log(model.Error, "boom")

	first, _, _ := strings.Cut(owner.Entries()[0].StackTrace(), "\n")
	if !strings.HasPrefix(first, "<b>TestOwnerTraceStartsAtCallSite</b>") {
		t.Errorf("first trace line = %q, want the test function", first)
	}
}
