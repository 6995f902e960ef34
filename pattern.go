package logforge

import (
	"bytes"
	"strconv"
	"time"

	"github.com/copperhq/logforge/internal/osfacade"
)

// Formatter renders a Record into dest, appending a trailing newline.
// Implementations never fail: unknown pattern flags degrade to literal
// output rather than erroring.
type Formatter interface {
	Format(rec *Record, dest *bytes.Buffer)
	Clone() Formatter
}

// flagFormatter renders one compiled piece of a pattern.
type flagFormatter interface {
	format(rec *Record, tm time.Time, dest *bytes.Buffer)
}

// PatternFormatter compiles a %-flag pattern string into an ordered list
// of flagFormatters once, then replays that list for every record.
type PatternFormatter struct {
	pattern    string
	formatters []flagFormatter

	lastSecond int64
	cachedTM   time.Time
}

// NewPatternFormatter compiles pattern into a reusable formatter. An empty
// pattern is treated as "%+", the full default rendering.
func NewPatternFormatter(pattern string) *PatternFormatter {
	if pattern == "" {
		pattern = "%+"
	}
	f := &PatternFormatter{pattern: pattern, lastSecond: -1}
	f.compile()
	return f
}

// Format renders rec into dest per the compiled pattern, plus a trailing
// newline.
func (f *PatternFormatter) Format(rec *Record, dest *bytes.Buffer) {
	sec := rec.Time.Unix()
	if sec != f.lastSecond {
		f.cachedTM = rec.Time.Local()
		f.lastSecond = sec
	}

	for _, ff := range f.formatters {
		ff.format(rec, f.cachedTM, dest)
	}
	dest.WriteByte('\n')
}

// Clone returns an independent formatter compiled from the same pattern
// string (recompiling, not sharing any cache state — so
// Format(clone(p), r) == Format(p, r) for all patterns p and records r).
func (f *PatternFormatter) Clone() Formatter {
	return NewPatternFormatter(f.pattern)
}

func (f *PatternFormatter) compile() {
	f.formatters = f.formatters[:0]

	var literal []byte
	flushLiteral := func() {
		if len(literal) > 0 {
			f.formatters = append(f.formatters, literalFormatter{data: append([]byte(nil), literal...)})
			literal = literal[:0]
		}
	}

	runes := []byte(f.pattern)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if ch != '%' {
			literal = append(literal, ch)
			continue
		}

		// '%' introduces a flag; a trailing lone '%' is ignored.
		i++
		if i >= len(runes) {
			break
		}
		flushLiteral()
		f.formatters = append(f.formatters, compileFlag(runes[i]))
	}
	flushLiteral()
}

func compileFlag(ch byte) flagFormatter {
	switch ch {
	case '+':
		return newFullFormatter()
	case 'v':
		return payloadFormatter{}
	case 'l':
		return levelFormatter{}
	case 'n':
		return loggerNameFormatter{}
	case 't':
		return threadIDFormatter{}
	case 'Y':
		return dateFieldFormatter{field: fieldYear}
	case 'm':
		return dateFieldFormatter{field: fieldMonth}
	case 'd':
		return dateFieldFormatter{field: fieldDay}
	case 'H':
		return dateFieldFormatter{field: fieldHour}
	case 'M':
		return dateFieldFormatter{field: fieldMinute}
	case 'S':
		return dateFieldFormatter{field: fieldSecond}
	case 'e':
		return dateFieldFormatter{field: fieldMillis}
	case 'f':
		return dateFieldFormatter{field: fieldMicros}
	case 'F':
		return dateFieldFormatter{field: fieldNanos}
	case 'g':
		return sourceFormatter{field: sourceFile}
	case 's':
		return sourceFormatter{field: sourceBasename}
	case 'L':
		return sourceFormatter{field: sourceLine}
	case '@':
		return sourceFormatter{field: sourceFunc}
	case '^':
		return colorStartFormatter{}
	case '$':
		return colorEndFormatter{}
	case '%':
		return literalFormatter{data: []byte{'%'}}
	default:
		return literalFormatter{data: []byte{'%', ch}}
	}
}

// literalFormatter emits verbatim pattern text.
type literalFormatter struct{ data []byte }

func (l literalFormatter) format(_ *Record, _ time.Time, dest *bytes.Buffer) {
	dest.Write(l.data)
}

type payloadFormatter struct{}

func (payloadFormatter) format(rec *Record, _ time.Time, dest *bytes.Buffer) {
	dest.Write(rec.Payload)
}

type levelFormatter struct{}

func (levelFormatter) format(rec *Record, _ time.Time, dest *bytes.Buffer) {
	dest.WriteString(rec.Level.String())
}

type loggerNameFormatter struct{}

func (loggerNameFormatter) format(rec *Record, _ time.Time, dest *bytes.Buffer) {
	dest.WriteString(rec.LoggerName)
}

type threadIDFormatter struct{}

func (threadIDFormatter) format(rec *Record, _ time.Time, dest *bytes.Buffer) {
	dest.WriteString(strconv.FormatUint(rec.ThreadID, 10))
}

type colorStartFormatter struct{}

func (colorStartFormatter) format(rec *Record, _ time.Time, dest *bytes.Buffer) {
	rec.ColorRangeStart = dest.Len()
}

type colorEndFormatter struct{}

func (colorEndFormatter) format(rec *Record, _ time.Time, dest *bytes.Buffer) {
	rec.ColorRangeEnd = dest.Len()
}

type dateField int

const (
	fieldYear dateField = iota
	fieldMonth
	fieldDay
	fieldHour
	fieldMinute
	fieldSecond
	fieldMillis
	fieldMicros
	fieldNanos
)

type dateFieldFormatter struct{ field dateField }

func (d dateFieldFormatter) format(rec *Record, tm time.Time, dest *bytes.Buffer) {
	switch d.field {
	case fieldYear:
		writePadded(dest, tm.Year(), 4)
	case fieldMonth:
		writePadded(dest, int(tm.Month()), 2)
	case fieldDay:
		writePadded(dest, tm.Day(), 2)
	case fieldHour:
		writePadded(dest, tm.Hour(), 2)
	case fieldMinute:
		writePadded(dest, tm.Minute(), 2)
	case fieldSecond:
		writePadded(dest, tm.Second(), 2)
	case fieldMillis:
		writePadded(dest, rec.Time.Nanosecond()/1e6, 3)
	case fieldMicros:
		writePadded(dest, (rec.Time.Nanosecond()/1e3)%1000, 3)
	case fieldNanos:
		writePadded(dest, rec.Time.Nanosecond()%1000, 3)
	}
}

type sourceField int

const (
	sourceFile sourceField = iota
	sourceBasename
	sourceLine
	sourceFunc
)

type sourceFormatter struct{ field sourceField }

func (s sourceFormatter) format(rec *Record, _ time.Time, dest *bytes.Buffer) {
	if rec.Source.Empty() {
		return
	}
	switch s.field {
	case sourceFile:
		dest.WriteString(rec.Source.File)
	case sourceBasename:
		dest.WriteString(osfacade.Basename(rec.Source.File))
	case sourceLine:
		dest.WriteString(strconv.Itoa(rec.Source.Line))
	case sourceFunc:
		dest.WriteString(rec.Source.Function)
	}
}

// fullFormatter renders the default "%+" layout:
//
//	[YYYY-MM-DD HH-MM-SS.mmm] [logger] [level] [thread] [basename:line func] payload
//
// with [logger], [thread], and [basename:line func] suppressed when their
// underlying field is empty/zero. It caches the fixed to-the-second prefix
// since most records within a run share the same wall-clock second.
type fullFormatter struct {
	cachedSecond int64
	cachedPrefix []byte
}

func (f *fullFormatter) format(rec *Record, tm time.Time, dest *bytes.Buffer) {
	sec := rec.Time.Unix()
	if sec != f.cachedSecond || f.cachedPrefix == nil {
		var buf bytes.Buffer
		buf.WriteByte('[')
		writePadded(&buf, tm.Year(), 4)
		buf.WriteByte('-')
		writePadded(&buf, int(tm.Month()), 2)
		buf.WriteByte('-')
		writePadded(&buf, tm.Day(), 2)
		buf.WriteByte(' ')
		writePadded(&buf, tm.Hour(), 2)
		buf.WriteByte('-')
		writePadded(&buf, tm.Minute(), 2)
		buf.WriteByte('-')
		writePadded(&buf, tm.Second(), 2)
		buf.WriteByte('.')

		f.cachedPrefix = buf.Bytes()
		f.cachedSecond = sec
	}

	dest.Write(f.cachedPrefix)
	writePadded(dest, rec.Time.Nanosecond()/1e6, 3)
	dest.WriteByte(']')
	dest.WriteByte(' ')

	if rec.LoggerName != "" {
		dest.WriteByte('[')
		dest.WriteString(rec.LoggerName)
		dest.WriteByte(']')
		dest.WriteByte(' ')
	}

	dest.WriteByte('[')
	rec.ColorRangeStart = dest.Len()
	dest.WriteString(rec.Level.String())
	rec.ColorRangeEnd = dest.Len()
	dest.WriteByte(']')
	dest.WriteByte(' ')

	if rec.ThreadID != 0 {
		dest.WriteByte('[')
		dest.WriteString(strconv.FormatUint(rec.ThreadID, 10))
		dest.WriteByte(']')
		dest.WriteByte(' ')
	}

	if !rec.Source.Empty() {
		dest.WriteByte('[')
		dest.WriteString(osfacade.Basename(rec.Source.File))
		dest.WriteByte(':')
		dest.WriteString(strconv.Itoa(rec.Source.Line))
		dest.WriteByte(' ')
		dest.WriteString(rec.Source.Function)
		dest.WriteByte(']')
		dest.WriteByte(' ')
	}

	dest.Write(rec.Payload)
}

// newFullFormatter gives each compiled "%+" occurrence its own
// second-granularity cache.
func newFullFormatter() flagFormatter {
	return &fullFormatter{cachedSecond: -1}
}

func writePadded(dest *bytes.Buffer, v, width int) {
	// Left-pads the decimal form of v with zeros up to width; values
	// already at least width digits long are written unchanged.
	s := strconv.Itoa(v)
	for len(s) < width {
		s = "0" + s
	}
	dest.WriteString(s)
}
