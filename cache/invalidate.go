package cache

import (
	"strings"
	"time"
)

// Invalidate marks the entry for key infinitely stale so the next read
// triggers a refetch. The currently displayed value is kept, flickering to an
// empty state on every mutation is exactly what this avoids.
func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	e, ok := s.lookupLocked(key)
	if !ok {
		s.mu.Unlock()
		return
	}
	notify := s.invalidateLocked(e)
	s.mu.Unlock()
	notify()
}

// InvalidateResource invalidates every entry whose key belongs to resource,
// regardless of params. Used after mutations whose effect spans an unknown
// set of parameterized reads (e.g. archiving an email touches every filter).
func (s *Store) InvalidateResource(resource string) {
	prefix := resource + keySeparator

	s.mu.Lock()
	var notifies []func()
	for keyStr, item := range s.entries.Items() {
		if keyStr != resource && !strings.HasPrefix(keyStr, prefix) {
			continue
		}
		e := item.Object.(*entry)
		notifies = append(notifies, s.invalidateLocked(e))
	}
	s.mu.Unlock()

	for _, notify := range notifies {
		notify()
	}
}

func (s *Store) invalidateLocked(e *entry) func() {
	e.fetchedAt = time.Time{}
	if e.fetching {
		e.staleOnLand = true
	}
	s.touchLocked(e)
	return notifyLocked(e)
}
