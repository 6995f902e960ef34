package logforge

import (
	"fmt"
	"os"
	"runtime"
	"sync"
)

var (
	defaultRegistry = NewRegistry()

	defaultMu     sync.Mutex
	defaultLogger namedLogger = NewLogger("default", NopSink{})
)

// Default returns the process-wide default logger.
func Default() namedLogger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultLogger
}

// SetDefault replaces the process-wide default logger, flushing the
// previous one first (for an AsyncLogger that flush is posted to its
// worker pool and not waited for).
func SetDefault(l namedLogger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger != nil {
		defaultLogger.Flush()
	}
	defaultLogger = l
}

// DefaultRegistry returns the process-wide registry that the
// EnableDefaultLoggerFor* helpers build their async loggers on.
func DefaultRegistry() *Registry { return defaultRegistry }

// EnableDefaultLoggerForUtility configures the default logger for
// short-lived command-line tools: colorized console output at Info plus a
// best-effort log file, both synchronous (no worker pool, so nothing is
// lost if the process exits abruptly).
func EnableDefaultLoggerForUtility() {
	file, err := NewFileSink("logforge.log", false)
	var sinks []Sink
	console := NewConsoleSink(os.Stdout, false)
	console.SetLevel(Info)
	sinks = append(sinks, console)
	if err == nil {
		sinks = append(sinks, file)
	}
	SetDefault(NewLogger("default", sinks...))
}

// EnableDefaultLoggerForService configures the default logger for
// long-running services: a size-rotating file sink plus a Warning-level
// console sink, both dispatched asynchronously so logging never blocks
// the serving path.
func EnableDefaultLoggerForService(logPath string) error {
	rotating, err := NewRotatingFileSink(logPath, 100*1024*1024, 10, false, true)
	if err != nil {
		return err
	}
	console := NewConsoleSink(os.Stderr, true)
	console.SetLevel(Warning)

	al, err := defaultRegistry.NewAsyncLogger("default", PolicyBlock, rotating, console)
	if err != nil {
		return err
	}
	SetDefault(al)
	return nil
}

// EnableDefaultLoggerForLogServer configures the default logger for
// pure log-forwarding processes: durable date-rotating file storage only,
// dispatched asynchronously with an overrun policy so a stalled sink
// cannot back-pressure producers.
func EnableDefaultLoggerForLogServer(logPath string) error {
	daily, err := NewDailyFileSink(logPath, 0, 0, 14, nil, true)
	if err != nil {
		return err
	}
	al, err := defaultRegistry.NewAsyncLogger("default", PolicyOverrunOldest, daily)
	if err != nil {
		return err
	}
	SetDefault(al)
	return nil
}

// Shutdown flushes the default logger, replaces it with an inert one, and
// then shuts down the default registry (stopping its periodic flusher,
// dropping its loggers, and releasing its worker pool, in that order).
func Shutdown() {
	defaultMu.Lock()
	if defaultLogger != nil {
		defaultLogger.Flush()
	}
	defaultLogger = NewLogger("default", NopSink{})
	defaultMu.Unlock()

	defaultRegistry.Shutdown()
}

func captureSource(skip int) Source {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Source{}
	}
	fn := ""
	if pc, _, _, ok := runtime.Caller(skip); ok {
		if f := runtime.FuncForPC(pc); f != nil {
			fn = f.Name()
		}
	}
	return Source{File: file, Line: line, Function: fn}
}

// IsDebugEnabled reports whether the default logger currently admits
// Debug-level records.
func IsDebugEnabled() bool { return Default().IsEnabled(Debug) }

// Tracef logs at Trace level using fmt.Sprintf semantics. Compiles to a
// no-op when MinLevel > Trace (see level_default.go/level_release.go).
func Tracef(format string, v ...interface{}) {
	if Trace < MinLevel {
		return
	}
	logf(Trace, format, v...)
}

// Debugf logs at Debug level using fmt.Sprintf semantics. Compiles to a
// no-op when MinLevel > Debug (see level_default.go/level_release.go).
func Debugf(format string, v ...interface{}) {
	if Debug < MinLevel {
		return
	}
	logf(Debug, format, v...)
}

// Infof logs at Info level using fmt.Sprintf semantics.
func Infof(format string, v ...interface{}) {
	if Info < MinLevel {
		return
	}
	logf(Info, format, v...)
}

// Warnf logs at Warning level using fmt.Sprintf semantics.
func Warnf(format string, v ...interface{}) {
	if Warning < MinLevel {
		return
	}
	logf(Warning, format, v...)
}

// Errorf logs at Error level using fmt.Sprintf semantics.
func Errorf(format string, v ...interface{}) {
	if Error < MinLevel {
		return
	}
	logf(Error, format, v...)
}

// Fatalf logs at Fatal level, runs Shutdown (which flushes only the
// default logger, then drops the default registry's loggers and releases
// its worker pool), then exits the process with status 1.
func Fatalf(format string, v ...interface{}) {
	logf(Fatal, format, v...)
	Shutdown()
	os.Exit(1)
}

func logf(level Level, format string, v ...interface{}) {
	l := Default()
	if !l.IsEnabled(level) {
		return
	}
	l.Log(captureSource(3), level, []byte(fmt.Sprintf(format, v...)))
}
