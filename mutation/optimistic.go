package mutation

import (
	"context"
)

// WithOptimisticUpdate is the transaction-like wrapper behind every
// optimistic UI interaction: apply the speculative local change first for
// perceived responsiveness, then commit; when the commit fails, rollback
// restores the pre-change snapshot verbatim and the error is returned for
// display.
//
// The snapshot discipline is the caller's: deep-copy the local state before
// apply (see crm.Board.Clone), never reconstruct it after the fact.
func WithOptimisticUpdate(apply func(), commit func() error, rollback func()) error {
	apply()
	if err := commit(); err != nil {
		rollback()
		return err
	}
	return nil
}

// DoOptimistic runs the action under WithOptimisticUpdate. The speculative
// change lives in local view state only; the shared cache is reconciled
// through the action's invalidations once the backend confirms.
func (e *Executor) DoOptimistic(ctx context.Context, action Action, apply, rollback func()) error {
	return WithOptimisticUpdate(apply, func() error {
		return e.Do(ctx, action)
	}, rollback)
}
