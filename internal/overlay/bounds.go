// Package overlay implements the chart-annotation core: extending a
// sparse time-bucketed row sequence to the chart's declared range, and
// binning timestamped event sets into per-bucket marker columns.
package overlay

import (
	"github.com/chartmark/chartmark/internal/errors"
	"github.com/chartmark/chartmark/pkg/types"
)

// ExtendBounds pads rows so they cover [startMs, endMs] at the given
// bucket interval. Existing rows are never mutated, reordered, or
// removed; synthesized rows carry only the axis key and are stepped by
// intervalMs from the nearest existing boundary, so the outermost
// synthesized keys may overshoot the declared range the way
// interval-based histogram buckets do.
//
// Returns a VALIDATION error for a non-positive interval or an inverted
// range instead of looping.
func ExtendBounds(rows []types.Row, axisKey string, intervalMs, startMs, endMs int64) ([]types.Row, error) {
	if intervalMs <= 0 {
		return nil, errors.NewValidationError(errors.CodeInvalidInterval, "bucket interval must be positive")
	}
	if startMs > endMs {
		return nil, errors.NewValidationError(errors.CodeInvalidRange, "range start is after range end")
	}

	if len(rows) == 0 {
		out := make([]types.Row, 0, (endMs-startMs)/intervalMs+1)
		for t := startMs; t <= endMs; t += intervalMs {
			out = append(out, types.Row{axisKey: t})
		}
		return out, nil
	}

	dataStart, okStart := rows[0].Millis(axisKey)
	dataEnd, okEnd := rows[len(rows)-1].Millis(axisKey)
	if !okStart || !okEnd {
		// Boundary rows without a readable axis value leave nothing to
		// step from; best effort is the input unchanged.
		return rows, nil
	}

	// Walk down from the first existing boundary, collecting the
	// synthesized keys in descending order, then reverse into place.
	var prefixKeys []int64
	for lo := dataStart; lo > startMs; {
		lo -= intervalMs
		prefixKeys = append(prefixKeys, lo)
	}

	out := make([]types.Row, 0, len(prefixKeys)+len(rows))
	for i := len(prefixKeys) - 1; i >= 0; i-- {
		out = append(out, types.Row{axisKey: prefixKeys[i]})
	}
	out = append(out, rows...)

	for hi := dataEnd; hi < endMs; {
		hi += intervalMs
		out = append(out, types.Row{axisKey: hi})
	}

	return out, nil
}
