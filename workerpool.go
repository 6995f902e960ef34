package logforge

import (
	"fmt"
	"sync"
	"time"

	"github.com/copperhq/logforge/internal/queue"
)

// OverflowPolicy selects what an async logger does when the pool's queue
// is full.
type OverflowPolicy int

const (
	// PolicyBlock guarantees zero loss, trading it for producer back
	// pressure once the queue is full.
	PolicyBlock OverflowPolicy = iota
	// PolicyOverrunOldest guarantees bounded producer latency, trading it
	// for losing the oldest pending record on overflow.
	PolicyOverrunOldest
)

type asyncTag int

const (
	tagLog asyncTag = iota
	tagFlush
	tagTerminate
)

type asyncMessage struct {
	tag    asyncTag
	rec    *OwnedRecord
	logger *AsyncLogger
}

// workerDequeueTimeout is the only timed operation in the async path
// (spec.md §5): it lets a worker periodically wake even on an idle queue,
// so shutdown doesn't require waking every waiter explicitly.
const workerDequeueTimeout = 10 * time.Second

// workerPool owns the bounded queue and the fixed set of goroutines that
// service it. It is created lazily by the registry on first async use.
type workerPool struct {
	q       *queue.Queue[asyncMessage]
	wg      sync.WaitGroup
	workers int
}

// newWorkerPool validates 1 <= threadCount <= 1000 and starts threadCount
// goroutines draining a queue of the given capacity.
func newWorkerPool(queueCapacity, threadCount int) (*workerPool, error) {
	if threadCount < 1 || threadCount > 1000 {
		return nil, fmt.Errorf("%w: worker pool thread count must be in [1, 1000], got %d", ErrConfig, threadCount)
	}
	if queueCapacity < 1 {
		return nil, fmt.Errorf("%w: worker pool queue capacity must be >= 1", ErrConfig)
	}

	p := &workerPool{
		q:       queue.New[asyncMessage](queueCapacity),
		workers: threadCount,
	}
	for i := 0; i < threadCount; i++ {
		p.wg.Add(1)
		go p.workerLoop()
	}
	return p, nil
}

func (p *workerPool) workerLoop() {
	defer p.wg.Done()
	for p.processNext() {
	}
}

// processNext dequeues and handles one message, returning false once a
// terminate message has been consumed.
func (p *workerPool) processNext() bool {
	msg, ok := p.q.DequeueFor(workerDequeueTimeout)
	if !ok {
		return true // timed out with nothing to do; keep waiting
	}

	switch msg.tag {
	case tagLog:
		msg.logger.backendSinkIt(msg.rec)
	case tagFlush:
		msg.logger.backendFlush()
	case tagTerminate:
		return false
	}
	return true
}

func (p *workerPool) post(msg asyncMessage, policy OverflowPolicy) {
	if policy == PolicyBlock {
		p.q.Enqueue(msg)
	} else {
		p.q.EnqueueNoWait(msg)
	}
}

// Close posts one terminate message per worker and joins them. Pending
// messages queued behind a given worker's terminate are still processed
// by other workers; once every worker has consumed its terminate, any
// remaining queued messages are dropped (spec.md §4.5's Cancellation).
func (p *workerPool) Close() {
	for i := 0; i < p.workers; i++ {
		p.q.Enqueue(asyncMessage{tag: tagTerminate})
	}
	p.wg.Wait()
}

// QueueSize returns a snapshot of the number of queued messages.
func (p *workerPool) QueueSize() int { return p.q.Size() }

// OverrunCounter returns a snapshot of the cumulative overrun count.
func (p *workerPool) OverrunCounter() uint64 { return p.q.OverrunCounter() }

// Workers returns the number of goroutines servicing the pool's queue.
func (p *workerPool) Workers() int { return p.workers }
