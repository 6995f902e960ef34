package logforge

import (
	"sync/atomic"

	"github.com/copperhq/logforge/internal/osfacade"
)

// AsyncLogger offloads dispatch onto a worker pool's goroutines instead of
// running sinks on the calling goroutine. It holds a non-owning handle to
// its pool: if the pool has already been released when a post is
// attempted, the post fails and is reported through the logger's error
// handler rather than panicking (spec.md §4.5's weak-handle semantics —
// Go's garbage collector makes a literal weak pointer unnecessary for
// memory safety, but the *lifetime ordering* the reference implementation
// relies on — "the pool owns nothing of the logger" — still matters, so
// this type models it with an atomic pointer that Registry.Shutdown
// clears for every async logger registered with that registry).
type AsyncLogger struct {
	backend *Logger
	pool    atomic.Pointer[workerPool]
	policy  OverflowPolicy
}

// newAsyncLogger wraps backend so its Log/Flush calls are dispatched by
// pool's workers instead of synchronously.
func newAsyncLogger(backend *Logger, pool *workerPool, policy OverflowPolicy) *AsyncLogger {
	al := &AsyncLogger{backend: backend, policy: policy}
	al.pool.Store(pool)
	return al
}

// detachPool clears the non-owning pool handle. Called by the registry
// when the pool is released, so subsequent posts fail cleanly instead of
// reaching a torn-down pool.
func (al *AsyncLogger) detachPool() {
	al.pool.Store(nil)
}

// Name returns the backing logger's name.
func (al *AsyncLogger) Name() string { return al.backend.Name() }

// Level returns the backing logger's current severity threshold.
func (al *AsyncLogger) Level() Level { return al.backend.Level() }

// SetLevel changes the backing logger's severity threshold.
func (al *AsyncLogger) SetLevel(level Level) { al.backend.SetLevel(level) }

// SetFlushLevel sets the backing logger's flush threshold.
func (al *AsyncLogger) SetFlushLevel(level Level) { al.backend.SetFlushLevel(level) }

// SetErrorHandler replaces the backing logger's error handler.
func (al *AsyncLogger) SetErrorHandler(h ErrorHandler) { al.backend.SetErrorHandler(h) }

// IsEnabled reports whether level would currently pass the backing
// logger's threshold.
func (al *AsyncLogger) IsEnabled(level Level) bool { return al.backend.IsEnabled(level) }

// Log constructs a record, copies it into an owned buffer, and posts it to
// the worker pool. Ordering: records from a single goroutine reach sinks
// in call order under PolicyBlock; under PolicyOverrunOldest that holds
// only for records that survive the queue (spec.md §4.5).
func (al *AsyncLogger) Log(loc Source, level Level, payload []byte) {
	if level < al.backend.Level() {
		return
	}

	rec := Record{
		Time:       osfacade.Now(),
		Level:      level,
		LoggerName: al.backend.name,
		ThreadID:   osfacade.ThreadID(),
		Source:     loc,
		Payload:    payload,
	}
	owned := NewOwnedRecord(&rec)
	al.post(asyncMessage{tag: tagLog, rec: owned, logger: al})
}

// Flush posts a flush message, processed asynchronously like any log
// message (so it respects queue ordering relative to prior Log calls
// under PolicyBlock).
func (al *AsyncLogger) Flush() {
	al.post(asyncMessage{tag: tagFlush, logger: al})
}

func (al *AsyncLogger) post(msg asyncMessage) {
	pool := al.pool.Load()
	if pool == nil {
		al.backend.reportError(ErrPoolGone)
		return
	}
	pool.post(msg, al.policy)
}

// backendSinkIt runs the backend logger's synchronous dispatch on behalf
// of a worker goroutine.
func (al *AsyncLogger) backendSinkIt(rec *OwnedRecord) {
	al.backend.sinkIt(&rec.Record)
	if rec.Level != Off && rec.Level >= al.backend.FlushLevel() {
		al.backend.flushAll()
	}
}

// backendFlush runs the backend logger's synchronous flush on behalf of a
// worker goroutine.
func (al *AsyncLogger) backendFlush() {
	al.backend.flushAll()
}
