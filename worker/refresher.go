package worker

import (
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
)

type Job func()

// Refresher runs cache refetch jobs in the background, avoiding the
// rescheduling of a job that is already queued for the same key. Callers get
// no completion signal here; jobs report their results through whatever state
// they close over.
type Refresher struct {
	jobQueue      *SyncQueue
	scheduledJobs sync.Map

	stopOnce sync.Once
	stopCh   chan struct{}
}

func StartRefresher(initialCapacity int) *Refresher {
	r := &Refresher{
		jobQueue: NewSyncQueue(initialCapacity),
		stopCh:   make(chan struct{}),
	}
	go r.mainLoop()
	return r
}

// Schedule enqueues the job in case no job for the same key is already
// pending. Returns true if the job was scheduled now or false if one was
// already in the queue.
func (r *Refresher) Schedule(key string, job Job) bool {
	if _, alreadyScheduled := r.scheduledJobs.LoadOrStore(key, true); alreadyScheduled {
		return false
	}

	r.jobQueue.Enqueue(func() {
		defer r.scheduledJobs.Delete(key)
		job()
	})
	return true
}

// Stop terminates the background loop after the current job finishes. Jobs
// still in the queue are dropped.
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
		// Unblock the dequeue in case the queue is empty.
		r.jobQueue.Enqueue(func() {})
	})
}

func (r *Refresher) mainLoop() {
	for {
		job := r.jobQueue.Dequeue()
		select {
		case <-r.stopCh:
			return
		default:
		}
		runRecovering(job)
	}
}

func runRecovering(job Job) {
	defer func() {
		panicVal := recover()
		if panicVal == nil {
			return
		}
		logrus.WithFields(logrus.Fields{
			"category":    "fatal_error",
			"code":        "refresher_panic",
			"panic_value": panicVal,
			"stack":       string(debug.Stack()),
		}).Error("Panic in background refresher job")
	}()
	job()
}
