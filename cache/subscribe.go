package cache

// Subscribe registers a listener that is notified with a fresh Result after
// every transition of the entry (fetch landing, invalidation, live patch).
// The rendering layer is just one possible subscriber.
//
// While at least one subscription is live the entry is pinned against
// eviction; the garbage-collection window only starts counting once the last
// subscriber is gone.
func (s *Store) Subscribe(key Key, listener Listener) (unsubscribe func()) {
	s.mu.Lock()
	e := s.entryLocked(key)
	id := e.nextListID
	e.nextListID++
	e.listeners[id] = listener
	s.touchLocked(e)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		e, ok := s.lookupLocked(key)
		if !ok {
			return
		}
		delete(e.listeners, id)
		s.touchLocked(e)
	}
}

// notifyLocked snapshots the entry and its listeners under the lock; the
// returned closure must be invoked after the lock is released.
func notifyLocked(e *entry) func() {
	listeners := e.collectListeners()
	if listeners == nil {
		return func() {}
	}
	res := e.snapshot()
	return func() {
		for _, l := range listeners {
			l(res)
		}
	}
}
