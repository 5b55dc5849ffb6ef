package view

import (
	"context"
	"sync"
	"time"

	"github.com/fikiri/go-client/cache"
	"github.com/fikiri/go-client/live"
)

// Snapshot is what a bound view renders: the merged value plus loading and
// error affordances.
type Snapshot struct {
	Value     interface{}
	IsLoading bool
	Err       error
}

// Binding subscribes a view to one cache key and, optionally, one pushed
// resource. Every emitted snapshot blends the cached value with the last live
// frame by fixed precedence: frame fields win, cached fields the frame omits
// survive.
type Binding struct {
	resource string
	listener func(Snapshot)

	mu        sync.Mutex
	cacheRes  cache.Result
	lastFrame map[string]interface{}

	broker      live.Broker
	src         live.FrameSource
	unsubscribe func()
	cancel      context.CancelFunc
}

// Bind wires the view up and emits an initial snapshot from the non-blocking
// cache read. broker may be nil for views without a live slice.
func Bind(store *cache.Store, broker live.Broker, key cache.Key, resource string,
	fetch cache.Fetcher, staleAfter time.Duration, listener func(Snapshot)) (*Binding, error) {

	b := &Binding{resource: resource, listener: listener}

	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	if broker != nil && resource != "" {
		src, err := broker.Subscribe(ctx)
		if err != nil {
			cancel()
			return nil, err
		}
		b.broker = broker
		b.src = src
		go b.consumeFrames(ctx, src)
	}

	b.unsubscribe = store.Subscribe(key, b.onCacheUpdate)
	b.onCacheUpdate(store.Read(key, fetch, staleAfter))
	return b, nil
}

// Detach stops both subscriptions. The broker requires the explicit
// unsubscription even with the context cancelled, otherwise it keeps the
// binding's channel in its client list forever. The entry's eviction window
// starts once no other binding holds it.
func (b *Binding) Detach() {
	b.cancel()
	if b.broker != nil {
		b.broker.Unsubscribe(b.src)
	}
	b.unsubscribe()
}

func (b *Binding) onCacheUpdate(res cache.Result) {
	b.mu.Lock()
	b.cacheRes = res
	snap := b.mergedLocked()
	b.mu.Unlock()
	b.listener(snap)
}

func (b *Binding) consumeFrames(ctx context.Context, src live.FrameSource) {
	for {
		select {
		case frame, ok := <-src:
			if !ok {
				return
			}
			if frame.Resource != b.resource {
				continue
			}
			b.mu.Lock()
			b.lastFrame = frame.Payload
			snap := b.mergedLocked()
			b.mu.Unlock()
			b.listener(snap)

		case <-ctx.Done():
			return
		}
	}
}

func (b *Binding) mergedLocked() Snapshot {
	value := b.cacheRes.Value
	if b.lastFrame != nil {
		value = live.Merge(value, b.lastFrame)
	}
	return Snapshot{
		Value:     value,
		IsLoading: b.cacheRes.IsLoading,
		Err:       b.cacheRes.Err,
	}
}
