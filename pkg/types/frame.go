// Package types provides core data types for chartmark.
package types

// Axis value kind tags used in column descriptors.
const (
	// KindTime marks the bucketed time axis column.
	KindTime = "time"

	// KindEventMarker marks a column produced by binning an event set.
	KindEventMarker = "event-marker"
)

// Row is a single time bucket: a mapping from field key to value. One
// distinguished field (the frame's axis key) holds the bucket boundary in
// milliseconds since epoch.
type Row map[string]interface{}

// Column describes one field of a frame.
type Column struct {
	// ID is the field key this column occupies in each row
	ID string `json:"id"`

	// Name is the human-readable display name
	Name string `json:"name"`

	// Kind is an optional tag ("time", "event-marker", or empty)
	Kind string `json:"kind,omitempty"`
}

// Frame is an ordered sequence of rows plus their column descriptors, as
// produced by an upstream aggregation stage. Row order is significant:
// after bounds extension rows are non-decreasing by axis key.
type Frame struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Millis reads a field as a millisecond timestamp. JSON decoding yields
// float64 for all numbers, so both integer and float encodings are
// accepted. The second return is false when the field is absent or not
// numeric.
func (r Row) Millis(key string) (int64, bool) {
	switch v := r[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case float32:
		return int64(v), true
	default:
		return 0, false
	}
}

// Count reads a field as an accumulated counter, defaulting to zero when
// the field is absent.
func (r Row) Count(key string) int64 {
	switch v := r[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}
