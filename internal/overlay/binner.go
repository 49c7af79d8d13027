package overlay

import (
	"fmt"
	"sort"

	"github.com/chartmark/chartmark/internal/errors"
	"github.com/chartmark/chartmark/pkg/types"
)

// BindResult reports what BindEvents produced. Placed plus Dropped equals
// the total number of events across all sets.
type BindResult struct {
	// Rows is the input row sequence with one counter field appended
	// per event set (same backing slice; row contents are mutated).
	Rows []types.Row

	// Columns holds one event-marker descriptor per event set, in set
	// order, appended unconditionally even when nothing was binned.
	Columns []types.Column

	// Placed counts events written into some row's counter.
	Placed int

	// Dropped counts events discarded because no rows existed to
	// receive them.
	Dropped int
}

// BindEvents assigns every event in every set to its nearest row by axis
// key and accumulates a per-row counter under the set's ID.
//
// Rows must be non-decreasing by axis key (ExtendBounds output
// qualifies). Unsorted rows or non-finite axis values produce undefined
// bucket assignment rather than an error; approximate placement is
// acceptable for a chart overlay and a hard failure would break
// rendering entirely.
//
// Events are consumed in ascending timestamp order against a cursor that
// only moves forward, so each set costs O(rows + events) after the sort.
// Equidistant events bind to the earlier row.
func BindEvents(rows []types.Row, axisKey string, sets []types.EventSet) BindResult {
	res := BindResult{
		Rows:    rows,
		Columns: make([]types.Column, 0, len(sets)),
	}

	for _, set := range sets {
		res.Columns = append(res.Columns, types.Column{
			ID:   set.ID,
			Name: set.Name,
			Kind: types.KindEventMarker,
		})

		switch {
		case len(rows) == 0:
			// No buckets to write into; the descriptor still appears
			// so downstream layers stay shape-stable.
			res.Dropped += len(set.Times)

		case len(rows) == 1:
			rows[0][set.ID] = int64(len(set.Times))
			res.Placed += len(set.Times)

		default:
			res.Placed += bindSorted(rows, axisKey, set)
		}
	}

	return res
}

// bindSorted runs the forward-cursor merge for a set against at least two
// rows. The cursor i is never reset between timestamps: timestamps are
// processed ascending, so the window [rows[i], rows[i+1]] only ever needs
// to move right.
func bindSorted(rows []types.Row, axisKey string, set types.EventSet) int {
	times := append([]int64(nil), set.Times...)
	sort.Slice(times, func(a, b int) bool { return times[a] < times[b] })

	placed := 0
	i := 0
	last := len(rows) - 1

	for _, t := range times {
		target := i
		for i < last {
			lo, _ := rows[i].Millis(axisKey)
			hi, _ := rows[i+1].Millis(axisKey)

			if t <= lo {
				// At or left of the current boundary (covers left
				// overflow when i == 0).
				target = i
				break
			}
			if t <= hi {
				if t-lo <= hi-t {
					target = i
				} else {
					target = i + 1
				}
				break
			}
			if i+1 == last {
				// Right edge overflow.
				target = i + 1
				break
			}
			i++
		}

		rows[target][set.ID] = rows[target].Count(set.ID) + 1
		placed++
	}

	return placed
}

// ValidateEventSets rejects set IDs that would collide with the axis key
// or with each other before any row is touched.
func ValidateEventSets(axisKey string, sets []types.EventSet) error {
	seen := make(map[string]bool, len(sets))
	for _, set := range sets {
		if set.ID == "" {
			return errors.NewValidationError(errors.CodeInvalidAxisKey, "event set has empty ID")
		}
		if set.ID == axisKey {
			return errors.NewValidationError(errors.CodeKeyCollision,
				fmt.Sprintf("event set %q collides with axis key", set.ID))
		}
		if seen[set.ID] {
			return errors.NewValidationError(errors.CodeKeyCollision,
				fmt.Sprintf("duplicate event set ID %q", set.ID))
		}
		seen[set.ID] = true
	}
	return nil
}
