package htm

import "fmt"

// SynapsePermanenceOptions bundles the permanence constants that govern
// proximal synapse learning in the spatial pooler.
type SynapsePermanenceOptions struct {
	// InactiveDec is subtracted from synapses whose input bit was off.
	InactiveDec float32 `json:"inactive_dec" yaml:"inactive_dec" validate:"gte=0,lte=1"`
	// ActiveInc is added to synapses whose input bit was on.
	ActiveInc float32 `json:"active_inc" yaml:"active_inc" validate:"gte=0,lte=1"`
	// Connected is the permanence threshold at or above which a synapse
	// participates in overlap computation.
	Connected float32 `json:"connected" yaml:"connected" validate:"gte=0,lte=1"`
	// BelowStimulusInc is the bump applied while raising a column's
	// connected count up to the stimulus threshold. Derived from Connected
	// at initialization.
	BelowStimulusInc float32 `json:"below_stimulus_inc" yaml:"below_stimulus_inc"`
	// Min and Max clamp every permanence after learning.
	Min float32 `json:"min" yaml:"min"`
	Max float32 `json:"max" yaml:"max"`
	// TrimThreshold zeroes permanences at or below it. Derived from
	// ActiveInc at initialization; a configured value is replaced.
	TrimThreshold float32 `json:"trim_threshold" yaml:"trim_threshold"`
}

// DefaultSynapsePermanenceOptions returns the reference permanence constants.
func DefaultSynapsePermanenceOptions() SynapsePermanenceOptions {
	return SynapsePermanenceOptions{
		InactiveDec:      0.008,
		ActiveInc:        0.05,
		Connected:        0.10,
		BelowStimulusInc: 0.10 / 10.0,
		Min:              0.0,
		Max:              1.0,
		TrimThreshold:    0.05 / 2.0,
	}
}

// SpatialPoolerConfig holds every tunable parameter of the spatial pooler.
// Dimension vectors describe the input and column spaces; the remaining
// values control potential pool generation, inhibition and learning.
type SpatialPoolerConfig struct {
	InputDimensions  []int `json:"input_dimensions" yaml:"input_dimensions" validate:"required,min=1,dive,gt=0"`
	ColumnDimensions []int `json:"column_dimensions" yaml:"column_dimensions" validate:"required,min=1,dive,gt=0"`

	// PotentialRadius bounds how far from its center input a column may
	// form potential synapses. -1 means the entire input space.
	PotentialRadius int `json:"potential_radius" yaml:"potential_radius" validate:"gte=-1"`
	// PotentialPct is the fraction of the potential neighborhood sampled
	// into each column's pool.
	PotentialPct float64 `json:"potential_pct" yaml:"potential_pct" validate:"gt=0,lte=1"`

	// GlobalInhibition selects the global winner-take-all path regardless
	// of the inhibition radius.
	GlobalInhibition bool `json:"global_inhibition" yaml:"global_inhibition"`
	// LocalAreaDensity is the target fraction of winners per inhibition
	// area. Values <= 0 defer to NumActiveColumnsPerInhArea.
	LocalAreaDensity float64 `json:"local_area_density" yaml:"local_area_density"`
	// NumActiveColumnsPerInhArea is the absolute winner count per
	// inhibition area, used when LocalAreaDensity is unset.
	NumActiveColumnsPerInhArea float64 `json:"num_active_columns_per_inh_area" yaml:"num_active_columns_per_inh_area"`
	// StimulusThreshold is the minimum overlap (boosted on learning steps)
	// a column needs to compete at all.
	StimulusThreshold float32 `json:"stimulus_threshold" yaml:"stimulus_threshold" validate:"gte=0"`

	MinPctOverlapDutyCycles float32 `json:"min_pct_overlap_duty_cycles" yaml:"min_pct_overlap_duty_cycles" validate:"gte=0,lte=1"`
	MinPctActiveDutyCycles  float32 `json:"min_pct_active_duty_cycles" yaml:"min_pct_active_duty_cycles" validate:"gte=0,lte=1"`
	DutyCyclePeriod         int     `json:"duty_cycle_period" yaml:"duty_cycle_period" validate:"gt=0"`
	MaxBoost                float32 `json:"max_boost" yaml:"max_boost" validate:"gte=1"`
	WrapAround              bool    `json:"wrap_around" yaml:"wrap_around"`

	InitConnectedPct float32 `json:"init_connected_pct" yaml:"init_connected_pct" validate:"gte=0,lte=1"`
	// UpdatePeriod is the iteration interval at which the inhibition
	// radius and minimum duty cycles are recomputed.
	UpdatePeriod int `json:"update_period" yaml:"update_period" validate:"gt=0"`

	// CompatibilityMode selects the materialize-and-shuffle potential
	// sampler that reproduces the NuPIC-lineage implementations draw for
	// draw. The default is classical reservoir sampling.
	CompatibilityMode bool `json:"compatibility_mode" yaml:"compatibility_mode"`

	Permanence SynapsePermanenceOptions `json:"permanence" yaml:"permanence"`

	// Seed is the four-word PRNG seed. A zero seed is replaced by the
	// historical default [42,0,0,0].
	Seed [4]uint32 `json:"seed" yaml:"seed,flow"`
}

// DefaultSpatialPoolerConfig returns the reference defaults for the given
// input and column dimensions.
func DefaultSpatialPoolerConfig(inputDimensions, columnDimensions []int) *SpatialPoolerConfig {
	return &SpatialPoolerConfig{
		InputDimensions:            inputDimensions,
		ColumnDimensions:           columnDimensions,
		PotentialRadius:            16,
		PotentialPct:               0.5,
		GlobalInhibition:           false,
		LocalAreaDensity:           -1.0,
		NumActiveColumnsPerInhArea: 0.0,
		StimulusThreshold:          0.0,
		MinPctOverlapDutyCycles:    0.001,
		MinPctActiveDutyCycles:     0.001,
		DutyCyclePeriod:            1000,
		MaxBoost:                   10.0,
		WrapAround:                 true,
		InitConnectedPct:           0.5,
		UpdatePeriod:               50,
		Permanence:                 DefaultSynapsePermanenceOptions(),
		Seed:                       [4]uint32{42, 0, 0, 0},
	}
}

// NumInputs returns the product of the input dimensions.
func (c *SpatialPoolerConfig) NumInputs() int {
	return dimensionProduct(c.InputDimensions)
}

// NumColumns returns the product of the column dimensions.
func (c *SpatialPoolerConfig) NumColumns() int {
	return dimensionProduct(c.ColumnDimensions)
}

// Validate checks the configuration. Inhibition parameters get their own
// error type so callers can distinguish the unsatisfiable winner-selection
// case from ordinary range errors.
func (c *SpatialPoolerConfig) Validate() error {
	if dimensionProduct(c.InputDimensions) <= 0 {
		return NewErrorWithField(ErrorInvalidConfig, "input dimension product must be positive", "input_dimensions")
	}
	if dimensionProduct(c.ColumnDimensions) <= 0 {
		return NewErrorWithField(ErrorInvalidConfig, "column dimension product must be positive", "column_dimensions")
	}
	if c.NumActiveColumnsPerInhArea == 0 && (c.LocalAreaDensity == 0 || c.LocalAreaDensity > 0.5) {
		return NewError(ErrorInvalidInhibition,
			"num_active_columns_per_inh_area is 0 and local_area_density is unset or above 0.5")
	}
	if c.MaxBoost < 1 {
		return NewErrorWithField(ErrorInvalidConfig,
			fmt.Sprintf("max boost %.3f must be at least 1", c.MaxBoost), "max_boost")
	}
	if c.DutyCyclePeriod <= 0 {
		return NewErrorWithField(ErrorInvalidConfig, "duty cycle period must be positive", "duty_cycle_period")
	}
	if c.UpdatePeriod <= 0 {
		return NewErrorWithField(ErrorInvalidConfig, "update period must be positive", "update_period")
	}
	if c.PotentialPct <= 0 || c.PotentialPct > 1 {
		return NewErrorWithField(ErrorInvalidConfig, "potential pct must be in (0, 1]", "potential_pct")
	}
	if c.Permanence.Connected < c.Permanence.Min || c.Permanence.Connected > c.Permanence.Max {
		return NewErrorWithField(ErrorInvalidConfig,
			"connected permanence must lie within [min, max]", "permanence.connected")
	}
	return nil
}

func dimensionProduct(dimensions []int) int {
	if len(dimensions) == 0 {
		return 0
	}
	product := 1
	for _, d := range dimensions {
		product *= d
	}
	return product
}
