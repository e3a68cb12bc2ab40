package snapshot

import (
	"fmt"
	"time"

	"github.com/tinytelemetry/actorlog/internal/model"
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
	"google.golang.org/protobuf/proto"
)

const (
	scopeName = "github.com/tinytelemetry/actorlog"

	attrBucket     = "actorlog.bucket"
	attrStackTrace = "code.stacktrace"
	attrCountInfo  = "actorlog.count.info"
	attrCountWarn  = "actorlog.count.warn"
	attrCountError = "actorlog.count.error"
)

var severityNumbers = [...]logspb.SeverityNumber{
	model.Debug: logspb.SeverityNumber_SEVERITY_NUMBER_DEBUG,
	model.Info:  logspb.SeverityNumber_SEVERITY_NUMBER_INFO,
	model.Warn:  logspb.SeverityNumber_SEVERITY_NUMBER_WARN,
	model.Error: logspb.SeverityNumber_SEVERITY_NUMBER_ERROR,
	model.Fatal: logspb.SeverityNumber_SEVERITY_NUMBER_FATAL,
}

// ToOTLP converts a snapshot to an OTLP LogsData message. Counters travel
// as resource attributes.
func ToOTLP(snap model.Snapshot) *logspb.LogsData {
	records := make([]*logspb.LogRecord, 0, len(snap.Entries))
	for _, e := range snap.Entries {
		sev := e.Severity.Clamp()
		ts := uint64(e.Timestamp.UnixNano())
		rec := &logspb.LogRecord{
			TimeUnixNano:         ts,
			ObservedTimeUnixNano: ts,
			SeverityNumber:       severityNumbers[sev],
			SeverityText:         sev.String(),
			Body:                 stringValue(e.Content),
			Attributes: []*commonpb.KeyValue{
				intAttr(attrBucket, int64(e.Bucket)),
			},
		}
		if e.StackTrace != "" {
			rec.Attributes = append(rec.Attributes, &commonpb.KeyValue{Key: attrStackTrace, Value: stringValue(e.StackTrace)})
		}
		records = append(records, rec)
	}

	return &logspb.LogsData{
		ResourceLogs: []*logspb.ResourceLogs{{
			Resource: &resourcepb.Resource{
				Attributes: []*commonpb.KeyValue{
					intAttr(attrCountInfo, int64(snap.Counts.Info)),
					intAttr(attrCountWarn, int64(snap.Counts.Warn)),
					intAttr(attrCountError, int64(snap.Counts.Error)),
				},
			},
			ScopeLogs: []*logspb.ScopeLogs{{
				Scope:      &commonpb.InstrumentationScope{Name: scopeName},
				LogRecords: records,
			}},
		}},
	}
}

// MarshalOTLP encodes snap as a binary OTLP LogsData message.
func MarshalOTLP(snap model.Snapshot) ([]byte, error) {
	data, err := proto.Marshal(ToOTLP(snap))
	if err != nil {
		return nil, fmt.Errorf("snapshot: marshal otlp: %w", err)
	}
	return data, nil
}

// UnmarshalOTLP decodes a LogsData message written by MarshalOTLP.
func UnmarshalOTLP(data []byte) (model.Snapshot, error) {
	var snap model.Snapshot
	var logs logspb.LogsData
	if err := proto.Unmarshal(data, &logs); err != nil {
		return snap, fmt.Errorf("snapshot: unmarshal otlp: %w", err)
	}

	for _, rl := range logs.GetResourceLogs() {
		for _, kv := range rl.GetResource().GetAttributes() {
			n := int(kv.GetValue().GetIntValue())
			switch kv.GetKey() {
			case attrCountInfo:
				snap.Counts.Info += n
			case attrCountWarn:
				snap.Counts.Warn += n
			case attrCountError:
				snap.Counts.Error += n
			}
		}
		for _, sl := range rl.GetScopeLogs() {
			for _, rec := range sl.GetLogRecords() {
				snap.Entries = append(snap.Entries, entryFromRecord(rec))
			}
		}
	}
	return snap, nil
}

func entryFromRecord(rec *logspb.LogRecord) model.EntryState {
	sev := severityFromNumber(rec.GetSeverityNumber())
	st := model.EntryState{
		Bucket:    model.BucketOf(sev),
		Severity:  sev,
		Content:   rec.GetBody().GetStringValue(),
		Timestamp: time.Unix(0, int64(rec.GetTimeUnixNano())).UTC(),
	}
	for _, kv := range rec.GetAttributes() {
		switch kv.GetKey() {
		case attrBucket:
			st.Bucket = model.Bucket(kv.GetValue().GetIntValue())
		case attrStackTrace:
			st.StackTrace = kv.GetValue().GetStringValue()
		}
	}
	return st
}

// severityFromNumber maps the OTLP ranges (DEBUG..DEBUG4 and so on) back
// onto the five levels.
func severityFromNumber(n logspb.SeverityNumber) model.Severity {
	switch {
	case n >= logspb.SeverityNumber_SEVERITY_NUMBER_FATAL:
		return model.Fatal
	case n >= logspb.SeverityNumber_SEVERITY_NUMBER_ERROR:
		return model.Error
	case n >= logspb.SeverityNumber_SEVERITY_NUMBER_WARN:
		return model.Warn
	case n >= logspb.SeverityNumber_SEVERITY_NUMBER_INFO:
		return model.Info
	default:
		return model.Debug
	}
}

func stringValue(s string) *commonpb.AnyValue {
	return &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: s}}
}

func intAttr(key string, v int64) *commonpb.KeyValue {
	return &commonpb.KeyValue{Key: key, Value: &commonpb.AnyValue{Value: &commonpb.AnyValue_IntValue{IntValue: v}}}
}
