package mutation

import (
	"sync"
)

type registry struct {
	mu  *sync.Mutex
	ids map[string]bool
}

func newRegistry() registry {
	return registry{mu: &sync.Mutex{}, ids: map[string]bool{}}
}

func (r registry) begin(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ids[id] {
		return false
	}
	r.ids[id] = true
	return true
}

func (r registry) end(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ids, id)
}

func (r registry) active(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ids[id]
}
