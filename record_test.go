package logforge

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_Empty(t *testing.T) {
	assert.True(t, Source{}.Empty())
	assert.False(t, Source{File: "x.go", Line: 1}.Empty())
}

func TestNewOwnedRecord_InlineCopy(t *testing.T) {
	rec := &Record{
		Time:       time.Now(),
		Level:      Info,
		LoggerName: "svc",
		Payload:    []byte("hello world"),
	}
	owned := NewOwnedRecord(rec)

	assert.Equal(t, "svc", owned.LoggerName)
	assert.Equal(t, "hello world", string(owned.Payload))
	assert.Nil(t, owned.spill)

	// Mutating the caller's buffers must not affect the owned copy.
	rec.Payload[0] = 'X'
	assert.Equal(t, "hello world", string(owned.Payload))
}

func TestNewOwnedRecord_SpillsPastInlineCapacity(t *testing.T) {
	payload := strings.Repeat("a", inlineRecordCapacity+10)
	rec := &Record{LoggerName: "svc", Payload: []byte(payload)}

	owned := NewOwnedRecord(rec)
	require.NotNil(t, owned.spill)
	assert.Equal(t, payload, string(owned.Payload))
	assert.Equal(t, "svc", owned.LoggerName)
}

func TestOwnedRecord_Clone(t *testing.T) {
	rec := &Record{LoggerName: "svc", Payload: []byte("payload")}
	original := NewOwnedRecord(rec)
	clone := original.Clone()

	assert.Equal(t, original.LoggerName, clone.LoggerName)
	assert.Equal(t, string(original.Payload), string(clone.Payload))

	clone.Payload[0] = 'X'
	assert.NotEqual(t, string(original.Payload), string(clone.Payload))
}
