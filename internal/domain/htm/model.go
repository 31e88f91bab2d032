package htm

// ClassifierConfig describes the optional SDR classifier attached to a
// model.
type ClassifierConfig struct {
	// Steps are the prediction horizons to learn, in time steps.
	Steps []int `json:"steps" yaml:"steps,flow" validate:"required,min=1,dive,gte=0"`
	// Alpha controls weight adaptation speed.
	Alpha float64 `json:"alpha" yaml:"alpha" validate:"gt=0,lte=1"`
	// ActValueAlpha controls the rolling average of actual bucket values.
	ActValueAlpha float64 `json:"act_value_alpha" yaml:"act_value_alpha" validate:"gte=0,lte=1"`
}

// DefaultClassifierConfig returns single-step prediction defaults.
func DefaultClassifierConfig() *ClassifierConfig {
	return &ClassifierConfig{Steps: []int{1}, Alpha: 0.1, ActValueAlpha: 0.3}
}

// ModelConfig assembles a full HTM pipeline: an optional encoder feeding the
// spatial pooler, an optional temporal memory over the pooler's winners and
// an optional classifier over the winner columns.
type ModelConfig struct {
	Name string `json:"name" yaml:"name"`

	// Encoder is optional; models without one accept raw binary input.
	Encoder *EncoderConfig `json:"encoder,omitempty" yaml:"encoder,omitempty"`

	SpatialPooler *SpatialPoolerConfig `json:"spatial_pooler" yaml:"spatial_pooler" validate:"required"`

	// TemporalMemory is optional; models without one stop at winner
	// columns.
	TemporalMemory *TemporalMemoryConfig `json:"temporal_memory,omitempty" yaml:"temporal_memory,omitempty"`

	// Classifier is optional; it consumes the sorted winner columns.
	Classifier *ClassifierConfig `json:"classifier,omitempty" yaml:"classifier,omitempty"`
}

// Validate validates the pipeline configuration bottom up.
func (c *ModelConfig) Validate() error {
	if c.SpatialPooler == nil {
		return NewErrorWithField(ErrorInvalidConfig, "spatial pooler configuration is required", "spatial_pooler")
	}
	if err := c.SpatialPooler.Validate(); err != nil {
		return err
	}
	if c.Encoder != nil {
		if err := c.Encoder.Validate(); err != nil {
			return err
		}
		if c.Encoder.Size != c.SpatialPooler.NumInputs() {
			return NewErrorWithField(ErrorInvalidConfig,
				"encoder size must match the spatial pooler input width", "encoder.size")
		}
	}
	if c.TemporalMemory != nil {
		if err := c.TemporalMemory.Validate(); err != nil {
			return err
		}
	}
	if c.Classifier != nil && len(c.Classifier.Steps) == 0 {
		return NewErrorWithField(ErrorInvalidConfig, "classifier needs at least one step", "classifier.steps")
	}
	return nil
}
