package htm

// SpatialPoolerMetrics reports behavioral counters for a spatial pooler
// instance.
type SpatialPoolerMetrics struct {
	Iterations      int64 `json:"iterations"`
	LearnIterations int64 `json:"learn_iterations"`
	// InhibitionRadius is the radius in effect after the last step.
	InhibitionRadius int `json:"inhibition_radius"`
	// WinnerCount is the winner column count of the last step.
	WinnerCount int `json:"winner_count"`
	// RaiseCapEvents counts raise-to-threshold loops that hit their safety
	// bound before reaching the stimulus threshold.
	RaiseCapEvents int64 `json:"raise_cap_events"`
}

// TemporalMemoryMetrics reports behavioral counters for a temporal memory
// instance.
type TemporalMemoryMetrics struct {
	Iterations      int64 `json:"iterations"`
	SegmentCount    int   `json:"segment_count"`
	ActiveCells     int   `json:"active_cells"`
	WinnerCells     int   `json:"winner_cells"`
	PredictiveCells int   `json:"predictive_cells"`
}
