package logforge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSink_LogWritesFormattedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	s, err := NewFileSink(path, false)
	require.NoError(t, err)
	require.NoError(t, s.SetPattern("%l %v"))

	require.NoError(t, s.Log(&Record{Level: Info, Payload: []byte("hello")}))
	require.NoError(t, s.Flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "info hello\n", string(data))
}

func TestFileSink_BelowThresholdIsSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	s, err := NewFileSink(path, false)
	require.NoError(t, err)
	s.SetLevel(Error)

	require.NoError(t, s.Log(&Record{Level: Info, Payload: []byte("ignored")}))
	require.NoError(t, s.Flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFileSink_Close(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	s, err := NewFileSink(path, false)
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}
