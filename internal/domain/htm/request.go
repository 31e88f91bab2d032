package htm

// ComputeRequest carries one time step of input for a model. Exactly one of
// Value (requires a configured encoder) or ActiveBits (raw binary input)
// must be supplied.
type ComputeRequest struct {
	// Value is the scalar input for encoder-backed models.
	Value *float64 `json:"value,omitempty"`
	// ActiveBits are the indices of the on bits for raw binary input.
	ActiveBits []int `json:"active_bits,omitempty"`
	// Learn enables spatial pooler, temporal memory and classifier
	// adaptation for this step.
	Learn bool `json:"learn"`
	// Infer enables classifier inference for this step.
	Infer bool `json:"infer"`
	// BucketIndex overrides the encoder-derived classifier bucket; raw
	// binary models that use the classifier must set it.
	BucketIndex *int `json:"bucket_index,omitempty"`
}

// Validate checks the request shape against the model capabilities.
func (r *ComputeRequest) Validate(hasEncoder bool) error {
	if r.Value == nil && r.ActiveBits == nil {
		return NewError(ErrorInvalidInput, "either value or active_bits must be provided")
	}
	if r.Value != nil && r.ActiveBits != nil {
		return NewError(ErrorInvalidInput, "value and active_bits are mutually exclusive")
	}
	if r.Value != nil && !hasEncoder {
		return NewError(ErrorInvalidInput, "model has no encoder; provide active_bits")
	}
	for _, bit := range r.ActiveBits {
		if bit < 0 {
			return NewError(ErrorInvalidInput, "active bits must be non-negative")
		}
	}
	return nil
}

// CellRef identifies a temporal memory cell in API responses.
type CellRef struct {
	Column int `json:"column"`
	Cell   int `json:"cell"`
}

// Prediction is one classifier result in an API response.
type Prediction struct {
	Step               int       `json:"step"`
	Likelihoods        []float64 `json:"likelihoods"`
	MostProbableBucket int       `json:"most_probable_bucket"`
	PredictedValue     float64   `json:"predicted_value"`
}

// ComputeResponse reports the outcome of one time step.
type ComputeResponse struct {
	ModelID   string `json:"model_id"`
	RecordNum int    `json:"record_num"`
	// WinnerColumns are the spatial pooler winners, sorted ascending.
	WinnerColumns []int `json:"winner_columns"`
	// Sparsity is the winner fraction of the column space.
	Sparsity float64 `json:"sparsity"`
	// ActiveCells and PredictiveCells are present when the model runs a
	// temporal memory.
	ActiveCells     []CellRef `json:"active_cells,omitempty"`
	PredictiveCells []CellRef `json:"predictive_cells,omitempty"`
	// Predictions are present when the model runs a classifier and the
	// request asked for inference.
	Predictions []Prediction `json:"predictions,omitempty"`
}

// ModelInfo summarizes a model instance.
type ModelInfo struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	NumInputs  int          `json:"num_inputs"`
	NumColumns int          `json:"num_columns"`
	HasEncoder bool         `json:"has_encoder"`
	HasMemory  bool         `json:"has_temporal_memory"`
	RecordNum  int          `json:"record_num"`
	Config     *ModelConfig `json:"config,omitempty"`
}

// ModelMetrics bundles the per-component counters of a model.
type ModelMetrics struct {
	ModelID        string                 `json:"model_id"`
	SpatialPooler  SpatialPoolerMetrics   `json:"spatial_pooler"`
	TemporalMemory *TemporalMemoryMetrics `json:"temporal_memory,omitempty"`
}
