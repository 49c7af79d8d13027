package overlay

import (
	"github.com/chartmark/chartmark/pkg/types"
)

// Apply runs the full overlay pipeline on a frame: validate set keys,
// extend the rows to the axis range, bind every event set, and append
// the marker column descriptors.
//
// The frame's row and column slices are replaced; callers must not
// mutate the inputs concurrently for the duration of the call.
func Apply(frame types.Frame, dim types.AxisDimension, sets []types.EventSet) (types.Frame, BindResult, error) {
	if err := ValidateEventSets(dim.Key, sets); err != nil {
		return frame, BindResult{}, err
	}

	rows, err := ExtendBounds(frame.Rows, dim.Key, dim.IntervalMs, dim.StartMs, dim.EndMs)
	if err != nil {
		return frame, BindResult{}, err
	}

	res := BindEvents(rows, dim.Key, sets)
	frame.Rows = res.Rows
	frame.Columns = append(frame.Columns, res.Columns...)
	return frame, res, nil
}
