package logforge

import (
	"bytes"
	"io"
	"os"

	"github.com/copperhq/logforge/internal/osfacade"
)

const (
	ansiReset      = "\x1b[m"
	ansiBold       = "\x1b[1m"
	ansiBoldOnRed  = "\x1b[1m\x1b[41m"
	ansiFgWhite    = "\x1b[37m"
	ansiFgCyan     = "\x1b[36m"
	ansiFgGreen    = "\x1b[32m"
	ansiFgYellow   = "\x1b[33m"
	ansiFgRed      = "\x1b[31m"
)

// defaultColors is the console sink's default level->color map, per
// spec.md §4.3: trace=white, debug=cyan, info=green, warning=bold yellow,
// error=bold red, fatal=bold-on-red, off=reset.
func defaultColors() map[Level]string {
	return map[Level]string{
		Trace:   ansiFgWhite,
		Debug:   ansiFgCyan,
		Info:    ansiFgGreen,
		Warning: ansiBold + ansiFgYellow,
		Error:   ansiBold + ansiFgRed,
		Fatal:   ansiBoldOnRed,
		Off:     ansiReset,
	}
}

// ConsoleSink writes formatted records to an io.Writer (ordinarily
// os.Stdout or os.Stderr). When the record carries a non-empty color
// range (set by the "%^"/"%$" flags or implicitly by "%+"), the bytes
// inside that range are bracketed with the level's ANSI color,
// unconditionally — spec.md §4.3 colors whenever
// ColorRangeEnd > ColorRangeStart, with no terminal check, matching the
// reference project's stdout/stderr color sinks.
type ConsoleSink struct {
	sinkBase
	out        io.Writer
	isTerminal bool
	colors     map[Level]string
}

// NewConsoleSink constructs a console sink writing to out. threaded
// selects whether the sink serializes itself with a real mutex; pass
// false only when the caller already guarantees single-threaded use.
func NewConsoleSink(out io.Writer, threaded bool) *ConsoleSink {
	fd := -1
	switch out {
	case os.Stdout:
		fd = int(os.Stdout.Fd())
	case os.Stderr:
		fd = int(os.Stderr.Fd())
	}

	return &ConsoleSink{
		sinkBase:   newSinkBase(threaded, Trace, "%+"),
		out:        out,
		isTerminal: fd >= 0 && osfacade.IsTerminal(fd),
		colors:     defaultColors(),
	}
}

// NewStdoutSink returns a thread-safe console sink targeting stdout.
func NewStdoutSink() *ConsoleSink {
	return NewConsoleSink(os.Stdout, true)
}

// NewStderrSink returns a thread-safe console sink targeting stderr. This
// resolves spec.md §9 Open Question (a): the reference project's
// stderr_color_sink constructs against stdout, which this implementation
// does not reproduce — callers get the stream they ask for.
func NewStderrSink() *ConsoleSink {
	return NewConsoleSink(os.Stderr, true)
}

// SetColor replaces the ANSI escape used for level.
func (c *ConsoleSink) SetColor(level Level, escape string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.colors[level] = escape
}

// IsTerminal reports whether the sink's target was an interactive
// terminal at construction time. It is informational only — it no longer
// gates coloring, which spec.md §4.3 requires unconditionally.
func (c *ConsoleSink) IsTerminal() bool { return c.isTerminal }

func (c *ConsoleSink) Log(rec *Record) error {
	if !c.ShouldLog(rec.Level) {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.scratch.Reset()
	c.formatterSnapshot().Format(rec, &c.scratch)
	buf := c.scratch.Bytes()

	if rec.ColorRangeEnd > rec.ColorRangeStart {
		color := c.colors[rec.Level]
		var out bytes.Buffer
		out.Write(buf[:rec.ColorRangeStart])
		out.WriteString(color)
		out.Write(buf[rec.ColorRangeStart:rec.ColorRangeEnd])
		out.WriteString(ansiReset)
		out.Write(buf[rec.ColorRangeEnd:])
		_, err := c.out.Write(out.Bytes())
		return err
	}

	_, err := c.out.Write(buf)
	return err
}

func (c *ConsoleSink) Flush() error {
	if f, ok := c.out.(interface{ Sync() error }); ok {
		return f.Sync()
	}
	return nil
}
