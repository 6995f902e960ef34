package logforge

import "time"

// inlineRecordCapacity is the default inline buffer size for OwnedRecord,
// chosen to avoid a heap allocation on common log lines (spec.md §5).
const inlineRecordCapacity = 250

// Source is an optional call-site location. An empty Source has Line == 0;
// formatters must suppress the field in that case.
type Source struct {
	File     string
	Line     int
	Function string
}

// Empty reports whether the source location carries no information.
func (s Source) Empty() bool {
	return s.Line == 0
}

// Record is a single log event. LoggerName and Payload are borrowed views:
// they point into memory owned by the call site (Payload) or the logger
// (LoggerName) and must not be retained past the call that produced them
// unless converted to an OwnedRecord.
type Record struct {
	Time       time.Time
	Level      Level
	LoggerName string
	ThreadID   uint64
	Source     Source
	Payload    []byte

	// ColorRangeStart/End are filled in by the formatter (the %^/%$ flags,
	// or implicitly by %+) and consumed by the console sink to bracket the
	// level substring with ANSI escapes.
	ColorRangeStart int
	ColorRangeEnd   int
}

// OwnedRecord is a Record whose LoggerName and Payload bytes are copied
// into a buffer owned by the record itself, so it can outlive the stack
// frame that produced it (e.g. when crossing the async queue boundary).
type OwnedRecord struct {
	Record

	inline [inlineRecordCapacity]byte
	spill  []byte // used only if inline capacity is exceeded
}

// NewOwnedRecord copies rec's LoggerName and Payload into an internal
// buffer and rebases the views of the returned record onto it. The
// original rec is left untouched.
func NewOwnedRecord(rec *Record) *OwnedRecord {
	o := &OwnedRecord{Record: *rec}

	need := len(rec.LoggerName) + len(rec.Payload)
	var buf []byte
	if need <= len(o.inline) {
		buf = o.inline[:need]
	} else {
		o.spill = make([]byte, need)
		buf = o.spill
	}

	n := copy(buf, rec.LoggerName)
	copy(buf[n:], rec.Payload)

	o.LoggerName = string(buf[:n])
	o.Payload = buf[n:need]
	return o
}

// Clone returns a new OwnedRecord that is an independent copy of o.
func (o *OwnedRecord) Clone() *OwnedRecord {
	return NewOwnedRecord(&o.Record)
}
