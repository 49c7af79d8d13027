package types

// EventSet is a named collection of timestamped point events to overlay on
// a time-series chart. ID doubles as the field key of the marker column the
// binner appends, so IDs must be unique per frame and must not collide with
// the axis key.
type EventSet struct {
	// ID is the field key the binned counter column will occupy
	ID string `json:"id"`

	// Name is the display name for the marker column
	Name string `json:"name"`

	// Times holds event timestamps in milliseconds since epoch.
	// Order is not significant; the binner sorts a copy.
	Times []int64 `json:"times"`
}
