package logforge

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSinkBase_ShouldLogRespectsLevel(t *testing.T) {
	b := newSinkBase(false, Warning, "%v")
	assert.False(t, b.ShouldLog(Info))
	assert.True(t, b.ShouldLog(Warning))
	assert.True(t, b.ShouldLog(Error))
}

func TestSinkBase_SetLevelChangesGate(t *testing.T) {
	b := newSinkBase(false, Info, "%v")
	b.SetLevel(Error)
	assert.False(t, b.ShouldLog(Warning))
	assert.True(t, b.ShouldLog(Error))
}

func TestSinkBase_SetPatternAlwaysRecompiles(t *testing.T) {
	b := newSinkBase(false, Trace, "%v")
	require := assert.New(t)
	require.NoError(b.SetPattern("[%l] %v"))

	rec := &Record{Level: Info, Payload: []byte("hi")}
	var buf bytes.Buffer
	b.formatterSnapshot().Format(rec, &buf)
	require.Equal("[info] hi\n", buf.String())
}

func TestSinkBase_NopLockerIsSafeNoop(t *testing.T) {
	var l nopLocker
	l.Lock()
	l.Unlock()
}

func TestNopSink_NeverLogs(t *testing.T) {
	s := NopSink{}
	assert.False(t, s.ShouldLog(Fatal))
	assert.NoError(t, s.Log(&Record{}))
	assert.NoError(t, s.Flush())
	assert.NoError(t, s.SetPattern("%v"))
}
