package cache

// ApplyPatch merges a live-update payload into every entry whose key belongs
// to resource, using the provided merger. Subscribers see the merged value
// without any refetch.
//
// The patch and merger are remembered on the entry: if a fetch for the entry
// was already in flight when the patch arrived, its landing value gets the
// patch re-applied on top, so the push data wins no matter which response
// arrives first.
func (s *Store) ApplyPatch(resource string, payload map[string]interface{}, merge Merger) {
	if len(payload) == 0 || merge == nil {
		return
	}

	s.mu.Lock()
	var notifies []func()
	now := s.opts.Now()
	for _, item := range s.entries.Items() {
		e, ok := item.Object.(*entry)
		if !ok || e.key.Resource != resource {
			continue
		}

		e.lastPatch = payload
		e.lastMerge = merge
		e.patchedAt = now
		if e.hasValue {
			e.value = merge(e.value, payload)
		} else {
			e.value = merge(nil, payload)
			e.hasValue = true
		}
		s.touchLocked(e)
		notifies = append(notifies, notifyLocked(e))
	}
	s.mu.Unlock()

	for _, notify := range notifies {
		notify()
	}
}
