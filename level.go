package logforge

import (
	"fmt"
	"strings"
)

// Level is a totally ordered log severity. Comparisons use the plain
// integer order, so "level < threshold" style gates work without a
// dedicated comparator.
type Level int32

const (
	Trace Level = iota
	Debug
	Info
	Warning
	Error
	Fatal
	// Off disables all output. It is valid as a threshold but must never
	// appear on a record payload.
	Off
)

var levelNames = [...]string{
	Trace:   "trace",
	Debug:   "debug",
	Info:    "info",
	Warning: "warning",
	Error:   "error",
	Fatal:   "fatal",
	Off:     "off",
}

// String renders the level using its lowercase name, matching the %l
// pattern flag.
func (l Level) String() string {
	if l >= Trace && l <= Off {
		return levelNames[l]
	}
	return fmt.Sprintf("level(%d)", int32(l))
}

// ParseLevel maps a level name (case-insensitive) back to a Level.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(name) {
	case "trace":
		return Trace, nil
	case "debug":
		return Debug, nil
	case "info":
		return Info, nil
	case "warning", "warn":
		return Warning, nil
	case "error":
		return Error, nil
	case "fatal":
		return Fatal, nil
	case "off":
		return Off, nil
	default:
		return Off, fmt.Errorf("%w: unknown level %q", ErrConfig, name)
	}
}
