package worker

import (
	"sync"
)

// SyncQueue is a channel-backed job queue that allows multiple concurrent
// senders and receivers and never blocks indefinitely on enqueueing, resizing
// the internal channel when full. Dequeue order is not guaranteed while a
// resize is in progress, which stops happening once the queue size stabilizes.
type SyncQueue struct {
	resizeLock sync.RWMutex
	queue      chan Job
}

func NewSyncQueue(initialCapacity int) *SyncQueue {
	if initialCapacity <= 0 {
		panic("Sync queue capacity must be greater than zero")
	}
	return &SyncQueue{
		queue: make(chan Job, initialCapacity),
	}
}

func (q *SyncQueue) Enqueue(job Job) {
	for !q.tryEnqueue(job) {
		q.resize()
	}
}

func (q *SyncQueue) Dequeue() Job {
	for {
		if job, ok := <-q.queue; ok {
			return job
		}
		// A closed channel means a resize is taking place. Lock&unlock to wait
		// for it to finish and try again.
		q.resizeLock.RLock()
		q.resizeLock.RUnlock()
	}
}

func (q *SyncQueue) Len() int {
	return len(q.queue)
}

func (q *SyncQueue) tryEnqueue(job Job) bool {
	q.resizeLock.RLock()
	defer q.resizeLock.RUnlock()
	select {
	case q.queue <- job:
		return true
	default:
		return false
	}
}

func (q *SyncQueue) resize() {
	q.resizeLock.Lock()
	defer q.resizeLock.Unlock()

	if hasSpaceInBuffer(q.queue) {
		// Queue probably resized by some other routine
		return
	}

	close(q.queue)
	resized := make(chan Job, 2*cap(q.queue))
	for job := range q.queue {
		resized <- job
	}
	q.queue = resized
}

// Checking only len < cap would be bug-prone as a single concurrent receive
// could make that true and keep us stuck in a tryEnqueue-resize loop, so we
// require at least a third of the capacity to be unused.
func hasSpaceInBuffer(c <-chan Job) bool {
	return 3*len(c) <= 2*cap(c)
}
