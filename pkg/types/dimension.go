package types

// AxisDimension describes the bucketed time axis of a chart: which field
// keys the buckets, the bucketing interval, and the declared chart range.
// It enumerates exactly the fields the overlay reads; provenance of the
// values (query DSL, UI state) is the caller's concern.
type AxisDimension struct {
	// Key is the field key holding each row's bucket boundary
	Key string `json:"key" yaml:"key"`

	// Label is the axis display label
	Label string `json:"label" yaml:"label"`

	// IntervalMs is the bucket width in milliseconds (must be positive)
	IntervalMs int64 `json:"interval_ms" yaml:"interval_ms"`

	// StartMs is the declared chart range start in milliseconds
	StartMs int64 `json:"start_ms" yaml:"start_ms"`

	// EndMs is the declared chart range end in milliseconds
	EndMs int64 `json:"end_ms" yaml:"end_ms"`
}
