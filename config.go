package logforge

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// BootstrapConfig is the YAML-decodable shape for the whole process's
// logging setup: a set of named sinks and a set of named loggers that
// reference them, applied to a Registry in one pass (DESIGN.md's
// "bootstrap" flow — the library itself never reads files on its own).
type BootstrapConfig struct {
	Pattern        string                 `yaml:"pattern"`
	Level          string                 `yaml:"level"`
	FlushLevel     string                 `yaml:"flush_level"`
	FlushEvery     string                 `yaml:"flush_every"`
	Async          *AsyncConfig           `yaml:"async"`
	Sinks          map[string]SinkConfig  `yaml:"sinks"`
	Loggers        map[string]LoggerEntry `yaml:"loggers"`
}

// AsyncConfig controls the registry's shared worker pool.
type AsyncConfig struct {
	QueueCapacity int `yaml:"queue_capacity"`
	ThreadCount   int `yaml:"thread_count"`
}

// SinkConfig describes one named sink. Type selects which fields apply:
// "console", "file", "rotating_file", or "daily_file".
type SinkConfig struct {
	Type       string `yaml:"type"`
	Path       string `yaml:"path"`
	Level      string `yaml:"level"`
	Pattern    string `yaml:"pattern"`
	MaxSizeMB  int64  `yaml:"max_size_mb"`
	MaxFiles   int    `yaml:"max_files"`
	RotateOpen bool   `yaml:"rotate_on_open"`
	MaxDays    int    `yaml:"max_days"`
	Hour       int    `yaml:"rotation_hour"`
	Minute     int    `yaml:"rotation_minute"`
	Stderr     bool   `yaml:"stderr"`
}

// LoggerEntry names the sinks a logger writes to and whether dispatch is
// asynchronous.
type LoggerEntry struct {
	Sinks      []string `yaml:"sinks"`
	Level      string   `yaml:"level"`
	Async      bool     `yaml:"async"`
	Overrun    bool     `yaml:"overrun_on_full"` // false = block, true = overrun-oldest
	Default    bool     `yaml:"default"`
}

// LoadBootstrapConfig reads and parses a YAML bootstrap file. It does not
// touch a Registry; call ApplyBootstrapConfig to do that.
func LoadBootstrapConfig(path string) (*BootstrapConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading config %s: %v", ErrConfig, path, err)
	}
	cfg := &BootstrapConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing config %s: %v", ErrConfig, path, err)
	}
	return cfg, nil
}

// ApplyBootstrapConfig builds the sinks and loggers described by cfg and
// registers them on r. On any error, sinks/loggers already built are left
// in place (callers that need atomicity should apply to a fresh Registry
// and swap it in).
func ApplyBootstrapConfig(r *Registry, cfg *BootstrapConfig) error {
	if cfg.Pattern != "" {
		r.SetPattern(cfg.Pattern)
	}
	if cfg.Level != "" {
		lvl, err := ParseLevel(cfg.Level)
		if err != nil {
			return err
		}
		r.SetLevel(lvl)
	}
	if cfg.FlushLevel != "" {
		lvl, err := ParseLevel(cfg.FlushLevel)
		if err != nil {
			return err
		}
		r.SetFlushLevel(lvl)
	}
	if cfg.Async != nil {
		if err := r.InitAsync(cfg.Async.QueueCapacity, cfg.Async.ThreadCount); err != nil {
			return err
		}
	}

	sinks := make(map[string]Sink, len(cfg.Sinks))
	for name, sc := range cfg.Sinks {
		sink, err := buildSink(sc)
		if err != nil {
			return fmt.Errorf("sink %q: %w", name, err)
		}
		sinks[name] = sink
	}

	for name, entry := range cfg.Loggers {
		resolved := make([]Sink, 0, len(entry.Sinks))
		for _, sinkName := range entry.Sinks {
			sink, ok := sinks[sinkName]
			if !ok {
				return fmt.Errorf("%w: logger %q references unknown sink %q", ErrConfig, name, sinkName)
			}
			resolved = append(resolved, sink)
		}

		var l namedLogger
		if entry.Async {
			policy := PolicyBlock
			if entry.Overrun {
				policy = PolicyOverrunOldest
			}
			al, err := r.NewAsyncLogger(name, policy, resolved...)
			if err != nil {
				return fmt.Errorf("logger %q: %w", name, err)
			}
			l = al
		} else {
			l = NewLogger(name, resolved...)
		}

		if entry.Level != "" {
			lvl, err := ParseLevel(entry.Level)
			if err != nil {
				return fmt.Errorf("logger %q: %w", name, err)
			}
			l.SetLevel(lvl)
		}

		if err := r.Register(l); err != nil {
			return err
		}
		if entry.Default {
			r.SetDefaultLogger(l)
		}
	}

	if cfg.FlushEvery != "" {
		d, err := time.ParseDuration(cfg.FlushEvery)
		if err != nil {
			return fmt.Errorf("%w: flush_every: %v", ErrConfig, err)
		}
		r.FlushEvery(d)
	}

	return nil
}

func buildSink(sc SinkConfig) (Sink, error) {
	var sink Sink
	var err error

	switch sc.Type {
	case "console":
		out := os.Stdout
		if sc.Stderr {
			out = os.Stderr
		}
		sink = NewConsoleSink(out, true)
	case "file":
		sink, err = NewFileSink(sc.Path, true)
	case "rotating_file":
		maxSize := sc.MaxSizeMB * 1024 * 1024
		if maxSize <= 0 {
			maxSize = 10 * 1024 * 1024
		}
		sink, err = NewRotatingFileSink(sc.Path, maxSize, sc.MaxFiles, sc.RotateOpen, true)
	case "daily_file":
		sink, err = NewDailyFileSink(sc.Path, sc.Hour, sc.Minute, sc.MaxDays, nil, true)
	default:
		return nil, fmt.Errorf("%w: unknown sink type %q", ErrConfig, sc.Type)
	}
	if err != nil {
		return nil, err
	}

	if sc.Level != "" {
		lvl, perr := ParseLevel(sc.Level)
		if perr != nil {
			return nil, perr
		}
		sink.SetLevel(lvl)
	}
	if sc.Pattern != "" {
		if perr := sink.SetPattern(sc.Pattern); perr != nil {
			return nil, perr
		}
	}
	return sink, nil
}
