package mutation

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/fikiri/go-client/cache"
	"github.com/fikiri/go-client/metrics"
)

// ErrInFlight means a mutation with the same action ID has not resolved yet.
// The UI keeps the triggering control disabled while this is the case.
var ErrInFlight = errors.New("mutation already in flight for this action")

// Action describes one write against the backend.
type Action struct {
	// ID keys the in-flight guard, e.g. "cancel" or "remove-"+leadID, so two
	// different entities' concurrent mutations remain independent.
	ID string

	Call func(ctx context.Context) error

	// Cache keys marked stale once the call succeeds. On failure the cache is
	// untouched.
	Invalidates []cache.Key

	// Resources invalidated across all their parameterized keys.
	InvalidatesResources []string

	// Description is the human-readable name used in failure notifications,
	// e.g. "Could not move the lead". Falls back to the action ID.
	Description string
}

func (a Action) describe() string {
	if a.Description != "" {
		return a.Description
	}
	return "Action " + a.ID + " failed"
}

// Notifier turns mutation failures into user-facing notifications.
// notify.Center satisfies it.
type Notifier interface {
	PushError(err error, context string)
}

// Executor performs write calls and reconciles the fetch cache afterwards.
// Mutations are never written into the cache directly and never silently
// retried; duplicate side effects like double-charging are worse than asking
// the user to click again.
type Executor struct {
	store    *cache.Store
	inflight registry
	notifier Notifier
}

func NewExecutor(store *cache.Store) *Executor {
	return &Executor{store: store, inflight: newRegistry()}
}

// SetNotifier routes every mutation failure to n as a dismissible
// notification, so no failure escapes as an uncaught error.
func (e *Executor) SetNotifier(n Notifier) {
	e.notifier = n
}

func (e *Executor) Do(ctx context.Context, action Action) error {
	if action.Call == nil {
		return errors.Errorf("Mutation %q has no call", action.ID)
	}
	if !e.inflight.begin(action.ID) {
		return errors.WithStack(ErrInFlight)
	}
	defer e.inflight.end(action.ID)

	err := action.Call(ctx)
	metrics.MutationDone(err)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"category": "mutation",
			"code":     "mutation_failed",
			"action":   action.ID,
		}).WithError(err).Warn("Mutation failed, cache left untouched")
		if e.notifier != nil {
			e.notifier.PushError(err, action.describe())
		}
		return errors.Wrapf(err, "Mutation %q failed", action.ID)
	}

	for _, key := range action.Invalidates {
		e.store.Invalidate(key)
	}
	for _, resource := range action.InvalidatesResources {
		e.store.InvalidateResource(resource)
	}
	return nil
}

// InFlight reports whether the action's control should stay disabled.
func (e *Executor) InFlight(actionID string) bool {
	return e.inflight.active(actionID)
}
