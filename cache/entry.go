package cache

import (
	"time"
)

// Result is the synchronous answer to a cache read: the best currently-known
// value plus the flags a view needs to render loading and error affordances.
type Result struct {
	Hit       bool
	Value     interface{}
	FetchedAt time.Time
	IsLoading bool
	Err       error
}

type Fetcher func() (interface{}, error)

type Listener func(Result)

type entry struct {
	key Key

	value     interface{}
	hasValue  bool
	fetchedAt time.Time
	err       error

	// Freshness policy requested by the most recent read. Reads never block
	// on it, it only schedules background refreshes.
	staleAfter time.Duration

	fetching bool
	fetchSeq uint64

	// Set by Invalidate while a fetch is in flight so the landing response is
	// displayed but immediately considered stale again.
	staleOnLand bool

	// Last live-update frame applied to this entry, kept so a fetch that was
	// already in flight when the frame arrived does not clobber it.
	lastPatch map[string]interface{}
	lastMerge Merger
	patchedAt time.Time

	listeners  map[int]Listener
	nextListID int
}

func newEntry(key Key) *entry {
	return &entry{key: key, listeners: map[int]Listener{}}
}

func (e *entry) snapshot() Result {
	return Result{
		Hit:       e.hasValue,
		Value:     e.value,
		FetchedAt: e.fetchedAt,
		IsLoading: e.fetching,
		Err:       e.err,
	}
}

func (e *entry) isStale(now time.Time) bool {
	if !e.hasValue || e.fetchedAt.IsZero() {
		return true
	}
	return now.Sub(e.fetchedAt) > e.staleAfter
}

func (e *entry) collectListeners() []Listener {
	if len(e.listeners) == 0 {
		return nil
	}
	ls := make([]Listener, 0, len(e.listeners))
	for _, l := range e.listeners {
		ls = append(ls, l)
	}
	return ls
}
