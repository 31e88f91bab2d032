package htm

// TemporalMemoryConfig holds every tunable parameter of the temporal memory.
type TemporalMemoryConfig struct {
	// CellsPerColumn is the number of cells stacked in each mini-column.
	CellsPerColumn int `json:"cells_per_column" yaml:"cells_per_column" validate:"gt=0"`

	// ActivationThreshold is the connected-synapse count at which a
	// segment becomes active.
	ActivationThreshold int `json:"activation_threshold" yaml:"activation_threshold" validate:"gt=0"`
	// MinThreshold is the potential-synapse count at which a segment is
	// considered matching.
	MinThreshold int `json:"min_threshold" yaml:"min_threshold" validate:"gt=0"`
	// MaxNewSynapseCount caps synapse growth per learning event.
	MaxNewSynapseCount int `json:"max_new_synapse_count" yaml:"max_new_synapse_count" validate:"gt=0"`
	// MaxSegmentsPerCell caps distal segments per cell; exceeding it
	// recycles the least recently used segment.
	MaxSegmentsPerCell int `json:"max_segments_per_cell" yaml:"max_segments_per_cell" validate:"gt=0"`
	// MaxSynapsesPerSegment caps synapses per segment; exceeding it
	// discards the weakest synapse.
	MaxSynapsesPerSegment int `json:"max_synapses_per_segment" yaml:"max_synapses_per_segment" validate:"gt=0"`

	InitialPermanence   float32 `json:"initial_permanence" yaml:"initial_permanence" validate:"gte=0,lte=1"`
	ConnectedPermanence float32 `json:"connected_permanence" yaml:"connected_permanence" validate:"gte=0,lte=1"`
	PermanenceIncrement float32 `json:"permanence_increment" yaml:"permanence_increment" validate:"gte=0,lte=1"`
	PermanenceDecrement float32 `json:"permanence_decrement" yaml:"permanence_decrement" validate:"gte=0,lte=1"`
	// PredictedSegmentDecrement punishes matching segments in columns
	// that failed to activate. Zero disables punishment.
	PredictedSegmentDecrement float32 `json:"predicted_segment_decrement" yaml:"predicted_segment_decrement" validate:"gte=0,lte=1"`

	// Seed is the four-word PRNG seed for tie-breaking.
	Seed [4]uint32 `json:"seed" yaml:"seed,flow"`
}

// DefaultTemporalMemoryConfig returns the reference defaults.
func DefaultTemporalMemoryConfig() *TemporalMemoryConfig {
	return &TemporalMemoryConfig{
		CellsPerColumn:            32,
		ActivationThreshold:       13,
		MinThreshold:              10,
		MaxNewSynapseCount:        20,
		MaxSegmentsPerCell:        255,
		MaxSynapsesPerSegment:     255,
		InitialPermanence:         0.21,
		ConnectedPermanence:       0.5,
		PermanenceIncrement:       0.1,
		PermanenceDecrement:       0.1,
		PredictedSegmentDecrement: 0.0,
		Seed:                      [4]uint32{42, 0, 0, 0},
	}
}

// Validate checks the configuration ranges.
func (c *TemporalMemoryConfig) Validate() error {
	if c.CellsPerColumn <= 0 {
		return NewErrorWithField(ErrorInvalidConfig, "cells per column must be positive", "cells_per_column")
	}
	if c.ActivationThreshold <= 0 {
		return NewErrorWithField(ErrorInvalidConfig, "activation threshold must be positive", "activation_threshold")
	}
	if c.MinThreshold <= 0 {
		return NewErrorWithField(ErrorInvalidConfig, "min threshold must be positive", "min_threshold")
	}
	if c.MaxSegmentsPerCell <= 0 {
		return NewErrorWithField(ErrorInvalidConfig, "max segments per cell must be positive", "max_segments_per_cell")
	}
	if c.MaxSynapsesPerSegment <= 0 {
		return NewErrorWithField(ErrorInvalidConfig, "max synapses per segment must be positive", "max_synapses_per_segment")
	}
	if c.ConnectedPermanence < 0 || c.ConnectedPermanence > 1 {
		return NewErrorWithField(ErrorInvalidConfig, "connected permanence must be in [0, 1]", "connected_permanence")
	}
	if c.InitialPermanence < 0 || c.InitialPermanence > 1 {
		return NewErrorWithField(ErrorInvalidConfig, "initial permanence must be in [0, 1]", "initial_permanence")
	}
	return nil
}
