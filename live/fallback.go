package live

import (
	"context"

	"github.com/fikiri/go-client/poll"
)

// FetchFrames asks the backend for the current state of the pushed resources,
// shaped as frames so the reconciler treats it exactly like stream data.
type FetchFrames func(ctx context.Context) ([]Frame, error)

// RunFallback substitutes polling for the push channel. Each round fetches
// the current slices and feeds them through the same reconciliation entry
// point as streamed frames, so views cannot tell the transports apart. The
// poller's bounds make the fallback give up with a terminal error instead of
// hammering the backend forever.
func RunFallback(ctx context.Context, p poll.Poller, fetch FetchFrames, rec *Reconciler) error {
	return p.Run(ctx, func(ctx context.Context) (bool, error) {
		frames, err := fetch(ctx)
		if err != nil {
			return false, err
		}
		for _, frame := range frames {
			rec.Apply(frame)
		}
		return false, nil
	})
}
