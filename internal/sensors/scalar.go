package sensors

import (
	"math"

	"github.com/htm-project/htm-core/internal/domain/htm"
)

// ScalarEncoder maps a bounded scalar onto a contiguous run of Width active
// bits. Non-periodic encoders clip out-of-range inputs to the range ends;
// periodic encoders wrap both the input and the bit run around the output.
type ScalarEncoder struct {
	size         int
	internalSize int
	width        int
	halfWidth    int
	padding      int
	radius       float64
	resolution   float64
	wrap         bool

	output []bool

	min           float64
	max           float64
	internalRange float64
	valueRange    float64
}

// NewScalarEncoder creates an encoder of the given total size over
// [min, max]. Width must be odd so a value has an unambiguous center bit.
func NewScalarEncoder(width int, min, max float64, size int, wrap bool) (*ScalarEncoder, error) {
	return newScalarEncoder(size, width, 0, 0, min, max, wrap)
}

// NewScalarEncoderWithResolution creates an encoder whose size is derived
// from the distance between two distinguishable inputs.
func NewScalarEncoderWithResolution(width int, min, max, resolution float64, wrap bool) (*ScalarEncoder, error) {
	return newScalarEncoder(0, width, 0, resolution, min, max, wrap)
}

// NewScalarEncoderWithRadius creates an encoder whose size is derived from
// the input distance at which two representations stop overlapping.
func NewScalarEncoderWithRadius(width int, min, max, radius float64, wrap bool) (*ScalarEncoder, error) {
	return newScalarEncoder(0, width, radius, 0, min, max, wrap)
}

func newScalarEncoder(size, width int, radius, resolution, min, max float64, wrap bool) (*ScalarEncoder, error) {
	if width%2 == 0 {
		return nil, htm.NewErrorWithField(htm.ErrorInvalidConfig,
			"width must be an odd number (to eliminate centering difficulty)", "width")
	}
	if math.IsNaN(min) || math.IsNaN(max) {
		return nil, htm.NewErrorWithField(htm.ErrorInvalidConfig, "min or max is NaN", "min")
	}
	if min >= max {
		return nil, htm.NewErrorWithField(htm.ErrorInvalidConfig, "max must be greater than min", "max")
	}

	halfWidth := (width - 1) / 2
	padding := 0
	if !wrap {
		padding = halfWidth
	}
	e := &ScalarEncoder{
		size:          size,
		internalSize:  size,
		width:         width,
		halfWidth:     halfWidth,
		padding:       padding,
		radius:        radius,
		resolution:    resolution,
		wrap:          wrap,
		min:           min,
		max:           max,
		internalRange: max - min,
		valueRange:    max - min,
	}
	if err := e.init(); err != nil {
		return nil, err
	}
	e.internalSize = e.size - 2*e.padding
	e.output = make([]bool, e.size)
	return e, nil
}

func (e *ScalarEncoder) init() error {
	if e.size != 0 {
		if e.wrap {
			e.resolution = e.internalRange / float64(e.size)
		} else {
			e.resolution = e.internalRange / float64(e.size-e.width)
		}
		e.radius = float64(e.width) * e.resolution
		if e.wrap {
			e.valueRange = e.internalRange
		} else {
			e.valueRange = e.internalRange + e.resolution
		}
		return nil
	}

	switch {
	case e.radius != 0:
		e.resolution = e.radius / float64(e.width)
	case e.resolution != 0:
		e.radius = e.resolution * float64(e.width)
	default:
		return htm.NewErrorWithField(htm.ErrorInvalidConfig,
			"one of size, radius, resolution must be specified", "size")
	}
	if e.wrap {
		e.valueRange = e.internalRange
	} else {
		e.valueRange = e.internalRange + e.resolution
	}
	n := float64(e.width)*e.valueRange/e.radius + 2.0*float64(e.padding)
	e.size = int(n + 0.5)
	return nil
}

// Size returns the output width in bits.
func (e *ScalarEncoder) Size() int { return e.size }

// Resolution returns the input distance between adjacent buckets.
func (e *ScalarEncoder) Resolution() float64 { return e.resolution }

// Encode returns the binary representation of the input. NaN encodes to an
// all-zero vector. The returned slice is reused between calls.
func (e *ScalarEncoder) Encode(input float64) []bool {
	e.EncodeInto(input, e.output)
	return e.output
}

// EncodeInto writes the binary representation of the input into output.
func (e *ScalarEncoder) EncodeInto(input float64, output []bool) {
	for i := range output[:e.size] {
		output[i] = false
	}
	if math.IsNaN(input) {
		return
	}

	bucket := e.firstOnBit(input)
	minBin := bucket
	maxBin := bucket + 2*e.halfWidth
	if e.wrap {
		if maxBin >= e.size {
			for i := 0; i <= maxBin-e.size; i++ {
				output[i] = true
			}
			maxBin = e.size - 1
		}
		if minBin < 0 {
			for i := e.size + minBin; i < e.size; i++ {
				output[i] = true
			}
			minBin = 0
		}
	}
	for i := minBin; i <= maxBin; i++ {
		output[i] = true
	}
}

// BucketIndex returns the classifier bucket for the input. For periodic
// encoders the bucket is the index of the center bit; otherwise it is the
// index of the leftmost bit.
func (e *ScalarEncoder) BucketIndex(input float64) (int, bool) {
	if math.IsNaN(input) {
		return 0, false
	}
	minBin := e.firstOnBit(input)
	if e.wrap {
		bucket := minBin + e.halfWidth
		if bucket < 0 {
			bucket += e.size
		}
		return bucket, true
	}
	return minBin, true
}

// BucketValue returns the representative input value of a bucket.
func (e *ScalarEncoder) BucketValue(bucket int) float64 {
	if e.wrap {
		return e.min + (float64(bucket)+0.5)*e.resolution
	}
	return e.min + float64(bucket)*e.resolution
}

func (e *ScalarEncoder) firstOnBit(input float64) int {
	if e.wrap {
		input = math.Mod(input, e.internalRange)
		if input < 0 {
			input += e.internalRange
		}
		input += e.min
	} else {
		if input < e.min {
			input = e.min
		}
		if input > e.max {
			input = e.max
		}
	}

	var centerBin int
	if e.wrap {
		centerBin = int((input - e.min) * float64(e.internalSize) / e.valueRange)
	} else {
		centerBin = int(((input - e.min) + e.resolution/2.0) / e.resolution)
	}
	return centerBin + e.padding - e.halfWidth
}
