package crm

import (
	"github.com/pkg/errors"
)

// Board is the Kanban view state: stage name to ordered leads. It is local
// optimistic view state, distinct from the shared fetch cache; drag moves are
// applied here first and only persisted through a mutation.
type Board map[string][]Lead

// Clone deep-copies the board. Callers snapshot before a speculative move and
// restore the snapshot verbatim if the persisting mutation fails.
func (b Board) Clone() Board {
	cloned := make(Board, len(b))
	for stage, leads := range b {
		bucket := make([]Lead, len(leads))
		copy(bucket, leads)
		cloned[stage] = bucket
	}
	return cloned
}

// Move splices the lead at fromIdx out of the from bucket and into the to
// bucket at toIdx, rewriting its stage field. Indexes are positions at the
// time of the call; toIdx is clamped to the target bucket length.
func (b Board) Move(from string, fromIdx int, to string, toIdx int) error {
	fromBucket, ok := b[from]
	if !ok {
		return errors.Errorf("Unknown stage %q", from)
	}
	if _, ok := b[to]; !ok {
		return errors.Errorf("Unknown stage %q", to)
	}
	if fromIdx < 0 || fromIdx >= len(fromBucket) {
		return errors.Errorf("No lead at position %d of stage %q", fromIdx, from)
	}

	lead := fromBucket[fromIdx]
	b[from] = append(fromBucket[:fromIdx:fromIdx], fromBucket[fromIdx+1:]...)

	lead.Stage = to
	toBucket := b[to]
	if toIdx < 0 {
		toIdx = 0
	}
	if toIdx > len(toBucket) {
		toIdx = len(toBucket)
	}
	spliced := make([]Lead, 0, len(toBucket)+1)
	spliced = append(spliced, toBucket[:toIdx]...)
	spliced = append(spliced, lead)
	spliced = append(spliced, toBucket[toIdx:]...)
	b[to] = spliced

	return nil
}
