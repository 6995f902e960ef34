package logforge

import (
	"errors"
	"fmt"
)

// Error kind sentinels, per the error taxonomy: io, config, lifetime.
// Wrap these with fmt.Errorf("...: %w", ErrIO) to preserve the kind while
// attaching context.
var (
	// ErrIO covers open/write/flush/rename/stat failures.
	ErrIO = errors.New("logforge: io error")
	// ErrConfig covers invalid capacity, thread count, max-size/max-files
	// out of range, reopen without prior open, duplicate logger name.
	ErrConfig = errors.New("logforge: config error")
	// ErrLifetime covers an async submission after the worker pool has
	// been released.
	ErrLifetime = errors.New("logforge: lifetime error")
)

// ErrPoolGone is reported to a logger's error handler when a producer
// posts after the worker pool has been released. It wraps ErrLifetime so
// callers can match on either the specific or the general sentinel.
var ErrPoolGone = fmt.Errorf("async log: thread pool doesn't exist anymore: %w", ErrLifetime)
