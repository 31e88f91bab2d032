package htm

// Encoder type names understood by the sensor registry.
const (
	EncoderTypeScalar   = "scalar"
	EncoderTypeAdaptive = "adaptive_scalar"
	EncoderTypeDelta    = "delta"
)

// EncoderConfig describes a scalar encoder instance.
type EncoderConfig struct {
	// Type selects the encoder implementation.
	Type string `json:"type" yaml:"type" validate:"required,oneof=scalar adaptive_scalar delta"`
	// Width is the number of bits a single value lights up; must be odd.
	Width int `json:"width" yaml:"width" validate:"required,gt=0"`
	// Size is the total output width in bits.
	Size int `json:"size" yaml:"size" validate:"required,gt=0"`
	// Min and Max bound the input range (fixed-range scalar encoder) or
	// seed it (adaptive encoders).
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
	// Periodic wraps the representation around the range boundary.
	Periodic bool `json:"periodic" yaml:"periodic"`
	// WindowSize is the adaptation window of the adaptive encoders.
	WindowSize int `json:"window_size" yaml:"window_size"`
}

// Validate checks structural encoder constraints.
func (c *EncoderConfig) Validate() error {
	if c.Width%2 == 0 {
		return NewErrorWithField(ErrorInvalidConfig, "encoder width must be odd", "width")
	}
	if c.Size <= 0 {
		return NewErrorWithField(ErrorInvalidConfig, "encoder size must be positive", "size")
	}
	return nil
}
