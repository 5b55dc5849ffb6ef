package live

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/fikiri/go-client/cache"
	"github.com/fikiri/go-client/metrics"
)

// Reconciler is the single entry point applying push data onto the fetch
// cache. Both the streaming transport and the polling fallback feed it, so
// either transport produces identical observable behavior.
type Reconciler struct {
	store *cache.Store
}

func NewReconciler(store *cache.Store) *Reconciler {
	return &Reconciler{store: store}
}

// Apply merges the frame into every cache entry of its resource. Views
// subscribed to those entries are notified without any refetch.
func (r *Reconciler) Apply(frame Frame) {
	if !knownResource(frame.Resource) {
		logrus.WithFields(logrus.Fields{
			"category": "live_reconciler",
			"code":     "unknown_resource",
			"resource": frame.Resource,
		}).Debug("Dropping frame for unknown resource")
		return
	}

	metrics.LiveFrame(frame.Resource)
	r.store.ApplyPatch(frame.Resource, frame.Payload, cache.Merger(Merge))
}

// Run consumes frames from src until it closes or ctx is done.
func (r *Reconciler) Run(ctx context.Context, src FrameSource) {
	for {
		select {
		case frame, ok := <-src:
			if !ok {
				return
			}
			r.Apply(frame)
		case <-ctx.Done():
			return
		}
	}
}
