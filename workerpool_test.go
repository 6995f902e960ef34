package logforge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool_RejectsInvalidThreadCount(t *testing.T) {
	_, err := newWorkerPool(8, 0)
	assert.Error(t, err)

	_, err = newWorkerPool(8, 1001)
	assert.Error(t, err)
}

func TestWorkerPool_RejectsInvalidQueueCapacity(t *testing.T) {
	_, err := newWorkerPool(0, 1)
	assert.Error(t, err)
}

func TestWorkerPool_ProcessesLogAndFlushMessages(t *testing.T) {
	sink := newRecordingSink(Trace)
	backend := NewLogger("svc", sink)
	pool, err := newWorkerPool(16, 1)
	require.NoError(t, err)
	al := newAsyncLogger(backend, pool, PolicyBlock)

	al.Log(Source{}, Info, []byte("async hello"))
	al.Flush()
	pool.Close()

	assert.Equal(t, []string{"async hello"}, sink.records)
	assert.Equal(t, 1, sink.flushes)
}

func TestWorkerPool_CloseDrainsEveryWorker(t *testing.T) {
	pool, err := newWorkerPool(4, 3)
	require.NoError(t, err)
	pool.Close() // must return, not hang
	assert.Equal(t, 0, pool.QueueSize())
}

func TestAsyncLogger_PostsAreOrderedUnderBlockingPolicy(t *testing.T) {
	sink := newRecordingSink(Trace)
	backend := NewLogger("svc", sink)
	pool, err := newWorkerPool(16, 1)
	require.NoError(t, err)
	al := newAsyncLogger(backend, pool, PolicyBlock)

	for i := 0; i < 5; i++ {
		al.Log(Source{}, Info, []byte{byte('0' + i)})
	}
	al.Flush()
	pool.Close()

	require.Len(t, sink.records, 5)
	assert.Equal(t, "01234", joinRecords(sink.records))
}

func joinRecords(records []string) string {
	out := ""
	for _, r := range records {
		out += r
	}
	return out
}

func TestAsyncLogger_DetachedPoolReportsErrorInsteadOfBlocking(t *testing.T) {
	sink := newRecordingSink(Trace)
	backend := NewLogger("svc", sink)
	pool, err := newWorkerPool(4, 1)
	require.NoError(t, err)
	al := newAsyncLogger(backend, pool, PolicyBlock)

	var gotErr error
	backend.SetErrorHandler(func(_ string, err error) { gotErr = err })

	al.detachPool()
	al.Log(Source{}, Info, []byte("dropped"))

	require.Error(t, gotErr)
	assert.ErrorIs(t, gotErr, ErrPoolGone)
	pool.Close()
}

func TestAsyncLogger_OverrunOldestPolicyDoesNotBlockProducer(t *testing.T) {
	sink := newRecordingSink(Trace)
	backend := NewLogger("svc", sink)
	pool, err := newWorkerPool(1, 1)
	require.NoError(t, err)
	al := newAsyncLogger(backend, pool, PolicyOverrunOldest)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			al.Log(Source{}, Info, []byte("x"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("overrun-oldest posting should never block the producer")
	}
	pool.Close()
}
