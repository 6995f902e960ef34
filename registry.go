package logforge

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// namedLogger is the common surface the registry manages, satisfied by
// both *Logger (synchronous) and *AsyncLogger.
type namedLogger interface {
	Name() string
	Level() Level
	SetLevel(Level)
	SetFlushLevel(Level)
	SetErrorHandler(ErrorHandler)
	IsEnabled(Level) bool
	Log(Source, Level, []byte)
	Flush()
	Sinks() []Sink
}

// Sinks lets AsyncLogger satisfy namedLogger alongside Logger.
func (al *AsyncLogger) Sinks() []Sink { return al.backend.Sinks() }

const (
	defaultAsyncQueueCapacity = 8192
	defaultAsyncThreadCount   = 1
)

// Registry is the process-wide table of named loggers and global
// defaults. Use NewRegistry to construct one (the package also exposes a
// single process-default instance via the free functions in global.go).
type Registry struct {
	mu      sync.RWMutex // guards loggers and levelOverrides
	loggers map[string]namedLogger

	levelOverrides map[string]Level

	defaultMu     sync.Mutex
	defaultLogger namedLogger

	globalLevel      atomic.Int32
	globalFlushLevel atomic.Int32
	globalPattern    atomic.Pointer[string]
	errorHandler     atomic.Pointer[ErrorHandler]
	autoRegister     atomic.Bool

	flusherMu sync.Mutex
	flusher   *periodicFlusher

	// poolMu is independent of mu: it must never be held while mu is
	// held, matching spec.md §5's lock-order rule (registry.map -> sink,
	// with the pool mutex kept out of that chain entirely).
	poolMu sync.Mutex
	pool   *workerPool
}

// NewRegistry constructs an empty registry with a nop default logger,
// level Info, flush level Off, and the default pattern "%+".
func NewRegistry() *Registry {
	r := &Registry{
		loggers:        make(map[string]namedLogger),
		levelOverrides: make(map[string]Level),
	}
	r.globalLevel.Store(int32(Info))
	r.globalFlushLevel.Store(int32(Off))
	pattern := "%+"
	r.globalPattern.Store(&pattern)
	h := ErrorHandler(func(string, error) {})
	r.errorHandler.Store(&h)
	r.autoRegister.Store(true)
	r.defaultLogger = NewLogger("default", NopSink{})
	return r
}

// Register adds logger to the table under its own name. It fails if a
// logger with that name already exists.
func (r *Registry) Register(l namedLogger) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.loggers[l.Name()]; exists {
		return fmt.Errorf("%w: logger %q already registered", ErrConfig, l.Name())
	}
	r.loggers[l.Name()] = l
	return nil
}

// Initialize applies the registry's current global formatter, level
// (global or per-name override), flush threshold, and error handler to l,
// then — if automatic registration is enabled — registers it.
func (r *Registry) Initialize(l namedLogger) error {
	pattern := *r.globalPattern.Load()
	for _, sink := range l.Sinks() {
		_ = sink.SetPattern(pattern)
	}

	r.mu.RLock()
	level, overridden := r.levelOverrides[l.Name()]
	r.mu.RUnlock()
	if !overridden {
		level = Level(r.globalLevel.Load())
	}
	l.SetLevel(level)
	l.SetFlushLevel(Level(r.globalFlushLevel.Load()))
	l.SetErrorHandler(*r.errorHandler.Load())

	if r.autoRegister.Load() {
		return r.Register(l)
	}
	return nil
}

// Get returns the logger registered under name, if any.
func (r *Registry) Get(name string) (namedLogger, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.loggers[name]
	return l, ok
}

// Drop removes the logger registered under name, if any.
func (r *Registry) Drop(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.loggers, name)
}

// DropAll removes every registered logger.
func (r *Registry) DropAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loggers = make(map[string]namedLogger)
}

// DefaultLogger returns the registry's default logger.
func (r *Registry) DefaultLogger() namedLogger {
	r.defaultMu.Lock()
	defer r.defaultMu.Unlock()
	return r.defaultLogger
}

// SetDefaultLogger replaces the default logger.
func (r *Registry) SetDefaultLogger(l namedLogger) {
	r.defaultMu.Lock()
	defer r.defaultMu.Unlock()
	r.defaultLogger = l
}

// SetLevel sets the global level and applies it to every currently
// registered logger that has no per-name override.
func (r *Registry) SetLevel(level Level) {
	r.globalLevel.Store(int32(level))
	r.ApplyAll(func(l namedLogger) {
		r.mu.RLock()
		_, overridden := r.levelOverrides[l.Name()]
		r.mu.RUnlock()
		if !overridden {
			l.SetLevel(level)
		}
	})
}

// SetLevels installs per-name level overrides and, if defaultLevel is
// non-nil, also updates the global level. Names not present in overrides
// keep the global level.
func (r *Registry) SetLevels(overrides map[string]Level, defaultLevel *Level) {
	r.mu.Lock()
	for name, lvl := range overrides {
		r.levelOverrides[name] = lvl
	}
	r.mu.Unlock()

	if defaultLevel != nil {
		r.globalLevel.Store(int32(*defaultLevel))
	}

	r.ApplyAll(func(l namedLogger) {
		if lvl, ok := overrides[l.Name()]; ok {
			l.SetLevel(lvl)
		} else if defaultLevel != nil {
			l.SetLevel(*defaultLevel)
		}
	})
}

// SetPattern has every sink of every registered logger compile pattern
// into its own independent formatter, and stores it as the global default
// for loggers initialized afterward.
func (r *Registry) SetPattern(pattern string) {
	r.globalPattern.Store(&pattern)
	r.ApplyAll(func(l namedLogger) {
		for _, sink := range l.Sinks() {
			_ = sink.SetPattern(pattern)
		}
	})
}

// SetFormatter applies an independent clone of f to every sink of every
// registered logger.
func (r *Registry) SetFormatter(f Formatter) {
	r.ApplyAll(func(l namedLogger) {
		for _, sink := range l.Sinks() {
			sink.SetFormatter(f.Clone())
		}
	})
}

// SetFlushLevel sets the global flush threshold and applies it to every
// registered logger.
func (r *Registry) SetFlushLevel(level Level) {
	r.globalFlushLevel.Store(int32(level))
	r.ApplyAll(func(l namedLogger) { l.SetFlushLevel(level) })
}

// FlushAll flushes every registered logger.
func (r *Registry) FlushAll() {
	r.ApplyAll(func(l namedLogger) { l.Flush() })
}

// SetErrorHandler sets the global error handler and applies it to every
// registered logger.
func (r *Registry) SetErrorHandler(h ErrorHandler) {
	r.errorHandler.Store(&h)
	r.ApplyAll(func(l namedLogger) { l.SetErrorHandler(h) })
}

// SetAutomaticRegistration controls whether Initialize registers the
// logger it is given.
func (r *Registry) SetAutomaticRegistration(enabled bool) {
	r.autoRegister.Store(enabled)
}

// ApplyAll invokes f for every currently registered logger. f must not
// call back into Register/Drop/DropAll (it runs under a read lock).
func (r *Registry) ApplyAll(f func(namedLogger)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.loggers {
		f(l)
	}
}

// InitAsync explicitly creates the worker pool with the given queue
// capacity and thread count. It fails if a pool already exists.
func (r *Registry) InitAsync(queueCapacity, threadCount int) error {
	r.poolMu.Lock()
	defer r.poolMu.Unlock()
	if r.pool != nil {
		return fmt.Errorf("%w: worker pool already initialized", ErrConfig)
	}
	pool, err := newWorkerPool(queueCapacity, threadCount)
	if err != nil {
		return err
	}
	r.pool = pool
	return nil
}

// ensurePool returns the current pool, lazily creating one with default
// capacity/thread-count if none exists yet (spec.md §3: "The worker pool
// is created lazily on first async logger or explicit init").
func (r *Registry) ensurePool() (*workerPool, error) {
	r.poolMu.Lock()
	defer r.poolMu.Unlock()
	if r.pool == nil {
		pool, err := newWorkerPool(defaultAsyncQueueCapacity, defaultAsyncThreadCount)
		if err != nil {
			return nil, err
		}
		r.pool = pool
	}
	return r.pool, nil
}

// Pool is the registry's exported get_tp: it returns the currently
// installed worker pool handle, or nil if none has been created yet
// (spec.md §4.6 lists get_tp/set_tp as part of the Registry's required
// contract). The returned handle is the same one new async loggers are
// wired to; it stays valid until the registry is shut down.
func (r *Registry) Pool() *workerPool {
	r.poolMu.Lock()
	defer r.poolMu.Unlock()
	return r.pool
}

// SetPool is the registry's exported set_tp: it installs pool as the
// registry's worker pool, so an embedder can share one pool across
// multiple registries. It fails if a pool is already installed — callers
// that need to replace one must Shutdown the registry first.
func (r *Registry) SetPool(pool *workerPool) error {
	r.poolMu.Lock()
	defer r.poolMu.Unlock()
	if r.pool != nil {
		return fmt.Errorf("%w: worker pool already initialized", ErrConfig)
	}
	r.pool = pool
	return nil
}

// PoolStats is a snapshot of a registry's worker pool, reported by
// logctl's metrics subcommand.
type PoolStats struct {
	Installed      bool
	QueueSize      int
	Workers        int
	OverrunCounter uint64
}

// PoolStats reports a snapshot of the registry's worker pool, or the zero
// value (Installed: false) if none has been created yet.
func (r *Registry) PoolStats() PoolStats {
	pool := r.Pool()
	if pool == nil {
		return PoolStats{}
	}
	return PoolStats{
		Installed:      true,
		QueueSize:      pool.QueueSize(),
		Workers:        pool.Workers(),
		OverrunCounter: pool.OverrunCounter(),
	}
}

// LoggerNames returns the names of every currently registered logger, in
// no particular order.
func (r *Registry) LoggerNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.loggers))
	for name := range r.loggers {
		names = append(names, name)
	}
	return names
}

// NewAsyncLogger builds an AsyncLogger over sinks and wires it to the
// registry's worker pool (creating one with default settings if needed).
func (r *Registry) NewAsyncLogger(name string, policy OverflowPolicy, sinks ...Sink) (*AsyncLogger, error) {
	pool, err := r.ensurePool()
	if err != nil {
		return nil, err
	}
	backend := NewLogger(name, sinks...)
	return newAsyncLogger(backend, pool, policy), nil
}

// FlushEvery starts a background goroutine that calls FlushAll on the
// given interval. Calling it again replaces any previously running
// flusher.
func (r *Registry) FlushEvery(interval time.Duration) {
	r.flusherMu.Lock()
	defer r.flusherMu.Unlock()
	if r.flusher != nil {
		r.flusher.stop()
	}
	r.flusher = newPeriodicFlusher(interval, r.FlushAll)
}

// Shutdown stops the periodic flusher, drops all loggers, and releases
// the worker pool, in that order — guaranteeing no producer remains when
// the pool is torn down (spec.md §4.6).
func (r *Registry) Shutdown() {
	r.flusherMu.Lock()
	if r.flusher != nil {
		r.flusher.stop()
		r.flusher = nil
	}
	r.flusherMu.Unlock()

	r.mu.Lock()
	loggers := r.loggers
	r.loggers = make(map[string]namedLogger)
	r.mu.Unlock()

	for _, l := range loggers {
		if al, ok := l.(*AsyncLogger); ok {
			al.detachPool()
		}
	}

	r.poolMu.Lock()
	pool := r.pool
	r.pool = nil
	r.poolMu.Unlock()
	if pool != nil {
		pool.Close()
	}
}

// periodicFlusher runs f on a ticker until stopped.
type periodicFlusher struct {
	ticker *time.Ticker
	done   chan struct{}
}

func newPeriodicFlusher(interval time.Duration, f func()) *periodicFlusher {
	pf := &periodicFlusher{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-pf.ticker.C:
				f()
			case <-pf.done:
				return
			}
		}
	}()
	return pf
}

func (pf *periodicFlusher) stop() {
	pf.ticker.Stop()
	close(pf.done)
}
