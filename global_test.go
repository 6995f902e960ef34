package logforge

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withDefaultLogger swaps in l as the process default for the duration of
// the test and restores the previous default afterward, since Default is a
// package-level singleton shared across the whole test binary.
func withDefaultLogger(t *testing.T, l namedLogger) {
	t.Helper()
	prev := Default()
	SetDefault(l)
	t.Cleanup(func() { SetDefault(prev) })
}

func TestDefault_ReturnsCurrentLogger(t *testing.T) {
	sink := newRecordingSink(Trace)
	l := NewLogger("custom", sink)
	withDefaultLogger(t, l)

	assert.Same(t, l, Default())
}

func TestSetDefault_FlushesPreviousLogger(t *testing.T) {
	sink := newRecordingSink(Trace)
	old := NewLogger("old", sink)
	withDefaultLogger(t, old)

	SetDefault(NewLogger("new", newRecordingSink(Trace)))
	assert.Equal(t, 1, sink.flushes)
}

func TestIsDebugEnabled_ReflectsDefaultLoggerLevel(t *testing.T) {
	sink := newRecordingSink(Trace)
	l := NewLogger("svc", sink)
	withDefaultLogger(t, l)

	l.SetLevel(Debug)
	assert.True(t, IsDebugEnabled())

	l.SetLevel(Info)
	assert.False(t, IsDebugEnabled())
}

func TestLevelHelpers_RouteThroughDefaultLogger(t *testing.T) {
	sink := newRecordingSink(Trace)
	l := NewLogger("svc", sink)
	l.SetLevel(Trace)
	withDefaultLogger(t, l)

	Tracef("t%d", 1)
	Debugf("d%d", 2)
	Infof("i%d", 3)
	Warnf("w%d", 4)
	Errorf("e%d", 5)

	require.Len(t, sink.records, 5)
	assert.Equal(t, []string{"t1", "d2", "i3", "w4", "e5"}, sink.records)
}

func TestLevelHelpers_SkipDisabledLevels(t *testing.T) {
	sink := newRecordingSink(Trace)
	l := NewLogger("svc", sink)
	l.SetLevel(Error)
	withDefaultLogger(t, l)

	Debugf("should not appear")
	Infof("should not appear either")
	Errorf("this one lands")

	assert.Equal(t, []string{"this one lands"}, sink.records)
}

func TestEnableDefaultLoggerForUtility_InstallsConsoleAndFileSinks(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	t.Chdir(t.TempDir())

	EnableDefaultLoggerForUtility()

	l := Default()
	assert.GreaterOrEqual(t, len(l.Sinks()), 1)
}

func TestEnableDefaultLoggerForService_BuildsAsyncDefaultLogger(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	logPath := filepath.Join(t.TempDir(), "service.log")
	require.NoError(t, EnableDefaultLoggerForService(logPath))

	l := Default()
	_, isAsync := l.(*AsyncLogger)
	assert.True(t, isAsync)

	l.Log(Source{}, Error, []byte("boom"))
	l.Flush()
}

func TestEnableDefaultLoggerForLogServer_BuildsAsyncDailyLogger(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	logPath := filepath.Join(t.TempDir(), "server.log")
	require.NoError(t, EnableDefaultLoggerForLogServer(logPath))

	l := Default()
	_, isAsync := l.(*AsyncLogger)
	assert.True(t, isAsync)

	l.Log(Source{}, Info, []byte("forwarded"))
	l.Flush()
}

func TestCaptureSource_ReportsCallerLocation(t *testing.T) {
	src := captureSource(1)
	assert.Contains(t, src.File, "global_test.go")
	assert.Greater(t, src.Line, 0)
}
