package logforge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	sinkBase
	records []string
	flushes int
	failLog bool
	panics  bool
}

func newRecordingSink(level Level) *recordingSink {
	return &recordingSink{sinkBase: newSinkBase(false, level, "%v")}
}

func (s *recordingSink) Log(rec *Record) error {
	if !s.ShouldLog(rec.Level) {
		return nil
	}
	if s.panics {
		panic("boom")
	}
	if s.failLog {
		return errors.New("sink failed")
	}
	s.records = append(s.records, string(rec.Payload))
	return nil
}

func (s *recordingSink) Flush() error {
	s.flushes++
	return nil
}

func TestLogger_BelowLevelIsSkipped(t *testing.T) {
	sink := newRecordingSink(Trace)
	l := NewLogger("svc", sink)
	l.SetLevel(Warning)

	l.Log(Source{}, Info, []byte("ignored"))
	assert.Empty(t, sink.records)
}

func TestLogger_DispatchesToEveryAdmittingSink(t *testing.T) {
	sinkA := newRecordingSink(Trace)
	sinkB := newRecordingSink(Error)
	l := NewLogger("svc", sinkA, sinkB)

	l.Log(Source{}, Info, []byte("hello"))
	assert.Equal(t, []string{"hello"}, sinkA.records)
	assert.Empty(t, sinkB.records)
}

func TestLogger_FlushLevelTriggersFlushOfAllSinks(t *testing.T) {
	sinkA := newRecordingSink(Trace)
	sinkB := newRecordingSink(Trace)
	l := NewLogger("svc", sinkA, sinkB)
	l.SetFlushLevel(Error)

	l.Log(Source{}, Info, []byte("no flush"))
	assert.Equal(t, 0, sinkA.flushes)

	l.Log(Source{}, Error, []byte("flush now"))
	assert.Equal(t, 1, sinkA.flushes)
	assert.Equal(t, 1, sinkB.flushes)
}

func TestLogger_SinkErrorRoutesToErrorHandler(t *testing.T) {
	sink := newRecordingSink(Trace)
	sink.failLog = true
	l := NewLogger("svc", sink)

	var gotName string
	var gotErr error
	l.SetErrorHandler(func(name string, err error) {
		gotName = name
		gotErr = err
	})

	l.Log(Source{}, Info, []byte("x"))
	assert.Equal(t, "svc", gotName)
	require.Error(t, gotErr)
}

func TestLogger_SinkPanicIsRecoveredAndReported(t *testing.T) {
	sink := newRecordingSink(Trace)
	sink.panics = true
	l := NewLogger("svc", sink)

	var gotErr error
	l.SetErrorHandler(func(_ string, err error) { gotErr = err })

	assert.NotPanics(t, func() {
		l.Log(Source{}, Info, []byte("x"))
	})
	require.Error(t, gotErr)
}

func TestLogger_CloneSharesSinksButNotErrorHandlerState(t *testing.T) {
	sink := newRecordingSink(Trace)
	l := NewLogger("svc", sink)
	l.SetLevel(Warning)

	clone := l.Clone("svc-clone")
	assert.Equal(t, "svc-clone", clone.Name())
	assert.Equal(t, Warning, clone.Level())

	clone.Log(Source{}, Warning, []byte("via clone"))
	assert.Equal(t, []string{"via clone"}, sink.records)
}

func TestLogger_IsEnabled(t *testing.T) {
	l := NewLogger("svc", newRecordingSink(Trace))
	l.SetLevel(Warning)
	assert.False(t, l.IsEnabled(Info))
	assert.True(t, l.IsEnabled(Error))
}
