package cache

import (
	"sync"
	"time"

	gocache "github.com/pmylund/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/fikiri/go-client/metrics"
	"github.com/fikiri/go-client/worker"
)

const (
	DefaultGCWindow   = 5 * time.Minute
	DefaultStaleAfter = time.Minute

	cacheLogCategory = "fetch_cache"
)

// Merger combines a cached value with the payload of a live-update frame.
// Frame fields win, cached fields the frame omits survive.
type Merger func(base interface{}, patch map[string]interface{}) interface{}

type Options struct {
	// GCWindow is how long an entry with no subscribers survives after its
	// last use before being evicted.
	GCWindow time.Duration

	// Now is overridable for tests.
	Now func() time.Time
}

// Store is the client-side fetch cache: a per-key map of last fetched values
// with staleness-driven background refresh, request de-duplication and
// subscriber notification. It holds no business logic, network calls made by
// the fetchers it is handed are its only side effect.
//
// Stores are constructed explicitly and torn down explicitly. There is no
// package-level instance.
type Store struct {
	entries *gocache.Cache
	flight  singleflight.Group
	refresh *worker.Refresher
	opts    Options

	mu sync.Mutex
}

func New(opts Options) *Store {
	if opts.GCWindow <= 0 {
		opts.GCWindow = DefaultGCWindow
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		entries: gocache.New(opts.GCWindow, opts.GCWindow/2),
		refresh: worker.StartRefresher(64),
		opts:    opts,
	}
}

// Teardown stops the background refresher. Pending refetches are dropped;
// in-flight ones finish and are discarded against the entry sequence check.
func (s *Store) Teardown() {
	s.refresh.Stop()
}

// Read returns the best currently-known value for key synchronously, never
// blocking on the network. A background refetch is dispatched when the entry
// is absent or older than staleAfter and no fetch for it is in flight, so any
// number of concurrent reads within the staleness window costs at most one
// network call.
func (s *Store) Read(key Key, fetch Fetcher, staleAfter time.Duration) Result {
	if err := key.validate(); err != nil {
		return Result{Err: err}
	}
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}

	s.mu.Lock()
	e := s.entryLocked(key)
	e.staleAfter = staleAfter

	startFetch := !e.fetching && e.isStale(s.opts.Now())
	var seq uint64
	if startFetch {
		e.fetching = true
		e.fetchSeq++
		seq = e.fetchSeq
	}
	res := e.snapshot()
	s.touchLocked(e)
	s.mu.Unlock()

	metrics.CacheRead(key.Resource, readOutcome(res, startFetch))

	if startFetch {
		startedAt := s.opts.Now()
		scheduled := s.refresh.Schedule(key.String(), func() {
			s.runFetch(key, fetch, seq, startedAt)
		})
		if !scheduled {
			// The refresher still holds the dedup mark of a fetch that already
			// landed. Undo the claim so the next read dispatches again instead
			// of the entry being stuck loading forever.
			s.mu.Lock()
			if e, ok := s.lookupLocked(key); ok && e.fetchSeq == seq {
				e.fetching = false
			}
			s.mu.Unlock()
		}
	}
	return res
}

// Fetch is the blocking variant of Read for callers that need a fresh value
// in hand (server-side rendering, tests). It shares in-flight requests with
// background refetches through the same per-key flight group.
func (s *Store) Fetch(key Key, fetch Fetcher, staleAfter time.Duration) (interface{}, error) {
	if err := key.validate(); err != nil {
		return nil, err
	}
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}

	s.mu.Lock()
	e := s.entryLocked(key)
	e.staleAfter = staleAfter
	if !e.isStale(s.opts.Now()) {
		value := e.value
		s.touchLocked(e)
		s.mu.Unlock()
		metrics.CacheRead(key.Resource, metrics.ReadHit)
		return value, nil
	}

	owner := !e.fetching
	var seq uint64
	if owner {
		e.fetching = true
		e.fetchSeq++
		seq = e.fetchSeq
	}
	s.mu.Unlock()

	startedAt := s.opts.Now()
	value, err, _ := s.flight.Do(key.String(), func() (interface{}, error) {
		metrics.FetchStarted()
		v, ferr := fetch()
		metrics.FetchFinished(key.Resource, ferr)
		return v, ferr
	})
	if owner {
		s.applyFetchResult(key, seq, startedAt, value, err)
	}
	return value, err
}

// Get copies the current value for key into result, reporting whether a value
// was present. It does not trigger a refetch.
func (s *Store) Get(key Key, result interface{}) (hit bool, err error) {
	s.mu.Lock()
	e, ok := s.lookupLocked(key)
	if !ok || !e.hasValue {
		s.mu.Unlock()
		return false, nil
	}
	value := e.value
	s.touchLocked(e)
	s.mu.Unlock()

	return true, setPointer(result, value)
}

func (s *Store) runFetch(key Key, fetch Fetcher, seq uint64, startedAt time.Time) {
	value, err, _ := s.flight.Do(key.String(), func() (interface{}, error) {
		metrics.FetchStarted()
		v, ferr := fetch()
		metrics.FetchFinished(key.Resource, ferr)
		return v, ferr
	})
	s.applyFetchResult(key, seq, startedAt, value, err)
}

// applyFetchResult lands a fetch on its entry. Failed refreshes keep the
// previous value intact (last-known-good) and only record the error; a frame
// that arrived while the fetch was in flight is re-applied on top so live
// data wins regardless of arrival order.
func (s *Store) applyFetchResult(key Key, seq uint64, startedAt time.Time, value interface{}, fetchErr error) {
	s.mu.Lock()
	e, ok := s.lookupLocked(key)
	if !ok || e.fetchSeq != seq {
		s.mu.Unlock()
		return
	}

	e.fetching = false
	if fetchErr != nil {
		e.err = fetchErr
		logFetchError(key, e.hasValue, fetchErr)
	} else {
		if e.lastPatch != nil && e.patchedAt.After(startedAt) && e.lastMerge != nil {
			value = e.lastMerge(value, e.lastPatch)
		}
		e.value = value
		e.hasValue = true
		e.err = nil
		if e.staleOnLand {
			e.staleOnLand = false
			e.fetchedAt = time.Time{}
		} else {
			e.fetchedAt = s.opts.Now()
		}
	}
	notify := notifyLocked(e)
	s.touchLocked(e)
	s.mu.Unlock()

	notify()
}

func (s *Store) entryLocked(key Key) *entry {
	if e, ok := s.lookupLocked(key); ok {
		return e
	}
	e := newEntry(key)
	s.entries.Set(key.String(), e, s.opts.GCWindow)
	return e
}

func (s *Store) lookupLocked(key Key) (*entry, bool) {
	v, ok := s.entries.Get(key.String())
	if !ok {
		return nil, false
	}
	return v.(*entry), true
}

// touchLocked renews the eviction window for unsubscribed entries and pins
// subscribed ones. Eviction must never reap an entry while a view holds a
// live subscription to it.
func (s *Store) touchLocked(e *entry) {
	if len(e.listeners) > 0 {
		s.entries.Set(e.key.String(), e, gocache.NoExpiration)
	} else {
		s.entries.Set(e.key.String(), e, s.opts.GCWindow)
	}
}

func readOutcome(res Result, startedFetch bool) string {
	switch {
	case !res.Hit:
		return metrics.ReadMiss
	case startedFetch:
		return metrics.ReadStale
	default:
		return metrics.ReadHit
	}
}
