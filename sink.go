package logforge

import (
	"bytes"
	"sync"
	"sync/atomic"
)

// Sink is a terminal destination for records. Implementations serialize
// Log/Flush on their own lock (sinkBase provides this); ShouldLog is a
// lock-free comparison against the sink's own threshold, independent of
// whatever level gate the owning Logger applies.
type Sink interface {
	Log(rec *Record) error
	Flush() error
	SetPattern(pattern string) error
	SetFormatter(f Formatter)
	SetLevel(level Level)
	ShouldLog(level Level) bool
}

// nopLocker satisfies sync.Locker with no-op methods, letting single-
// threaded ("_st") sinks pay zero synchronization cost while sharing the
// exact same sinkBase plumbing as multi-threaded ("_mt") sinks. This is
// the Go translation of the reference implementation's mutex-as-type-
// parameter: the lock kind is chosen at construction time rather than at
// compile time, but a single-threaded sink still never touches a real
// mutex.
type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}

// sinkBase factors the locking pattern and formatter/level state shared by
// every concrete sink. It is embedded, not used standalone.
type sinkBase struct {
	mu        sync.Locker
	level     atomic.Int32
	formatter atomic.Pointer[Formatter]
	scratch   bytes.Buffer // reused only while mu is held
}

// newSinkBase constructs the shared state for a sink. threaded selects a
// real *sync.Mutex; otherwise a nopLocker is used.
func newSinkBase(threaded bool, level Level, pattern string) sinkBase {
	b := sinkBase{}
	if threaded {
		b.mu = &sync.Mutex{}
	} else {
		b.mu = nopLocker{}
	}
	b.level.Store(int32(level))
	f := Formatter(NewPatternFormatter(pattern))
	b.formatter.Store(&f)
	return b
}

func (b *sinkBase) ShouldLog(level Level) bool {
	return level >= Level(b.level.Load())
}

func (b *sinkBase) SetLevel(level Level) {
	b.level.Store(int32(level))
}

// SetPattern compiles pattern into a fresh formatter. Per spec.md §9's
// Open Question (c), this always compiles the given pattern rather than
// silently building a default one.
func (b *sinkBase) SetPattern(pattern string) error {
	f := Formatter(NewPatternFormatter(pattern))
	b.formatter.Store(&f)
	return nil
}

func (b *sinkBase) SetFormatter(f Formatter) {
	b.formatter.Store(&f)
}

func (b *sinkBase) formatterSnapshot() Formatter {
	return *b.formatter.Load()
}

// NopSink discards every record and reports every level as disabled. It
// keeps the registry's default logger in a safe, inert state before any
// real sink is attached.
type NopSink struct{}

func (NopSink) Log(*Record) error          { return nil }
func (NopSink) Flush() error                { return nil }
func (NopSink) SetPattern(string) error     { return nil }
func (NopSink) SetFormatter(Formatter)      {}
func (NopSink) SetLevel(Level)              {}
func (NopSink) ShouldLog(level Level) bool  { return false }
