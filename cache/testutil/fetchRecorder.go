package testutil

import (
	"sync"
)

// FetchRecorder is a controllable fetcher for cache tests: it counts calls,
// can be told what to return, and can be gated so tests control exactly when
// an in-flight fetch resolves.
type FetchRecorder struct {
	mu    sync.Mutex
	calls int
	value interface{}
	err   error
	gate  chan struct{}
}

func NewFetchRecorder(value interface{}) *FetchRecorder {
	return &FetchRecorder{value: value}
}

func (r *FetchRecorder) Fetch() (interface{}, error) {
	r.mu.Lock()
	r.calls++
	gate := r.gate
	value, err := r.value, r.err
	r.mu.Unlock()

	if gate != nil {
		<-gate
		// Re-read after the gate so tests can change the outcome while the
		// fetch is held in flight.
		r.mu.Lock()
		value, err = r.value, r.err
		r.mu.Unlock()
	}
	return value, err
}

func (r *FetchRecorder) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// Hold gates subsequent fetches until Release is called.
func (r *FetchRecorder) Hold() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gate = make(chan struct{})
}

func (r *FetchRecorder) Release() {
	r.mu.Lock()
	gate := r.gate
	r.gate = nil
	r.mu.Unlock()
	if gate != nil {
		close(gate)
	}
}

func (r *FetchRecorder) Succeed(value interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value, r.err = value, nil
}

func (r *FetchRecorder) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}
