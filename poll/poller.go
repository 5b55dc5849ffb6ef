package poll

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrExhausted is returned when polling gives up without the condition being
// met. Callers surface it as a terminal failure state instead of polling
// forever.
var ErrExhausted = errors.New("polling attempts exhausted")

const (
	defaultInterval    = 2 * time.Second
	defaultMaxAttempts = 30
)

// CheckFn reports whether the awaited condition is met. A non-nil error does
// not abort the loop, it just burns an attempt.
type CheckFn func(ctx context.Context) (done bool, err error)

// Poller is a repeated timer with bounded attempts and duration, used where
// push notifications are unavailable (status-check loops, live-update
// fallback).
type Poller struct {
	Interval    time.Duration
	MaxAttempts int
	MaxDuration time.Duration
}

// Run invokes fn once per interval until it reports done, the attempt or
// duration bound is hit, or ctx is cancelled.
func (p Poller) Run(ctx context.Context, fn CheckFn) error {
	interval := p.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if p.MaxDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.MaxDuration)
		defer cancel()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		done, err := fn(ctx)
		if done {
			return nil
		}
		if err != nil {
			lastErr = err
			logrus.WithFields(logrus.Fields{
				"category": "poller",
				"code":     "poll_attempt_failed",
				"attempt":  attempt,
			}).WithError(err).Warn("Poll attempt failed")
		}

		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "Polling interrupted after %d attempts", attempt)
		case <-ticker.C:
		}
	}

	if lastErr != nil {
		return errors.Wrapf(ErrExhausted, "last attempt error: %v", lastErr)
	}
	return errors.WithStack(ErrExhausted)
}
