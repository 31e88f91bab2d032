package sensors

import "math"

// DeltaEncoder encodes the difference between consecutive inputs through an
// adaptive scalar encoder, so the representation tracks rate of change
// rather than absolute level. The first input encodes a delta of zero.
type DeltaEncoder struct {
	encoder   *AdaptiveScalarEncoder
	prevValue float64
	seen      bool
}

// NewDeltaEncoder creates a delta encoder with the default window.
func NewDeltaEncoder(width, size int, min, max float64) (*DeltaEncoder, error) {
	return NewDeltaEncoderWindow(width, size, min, max, defaultWindowSize)
}

// NewDeltaEncoderWindow creates a delta encoder with an explicit window.
func NewDeltaEncoderWindow(width, size int, min, max float64, windowSize int) (*DeltaEncoder, error) {
	inner, err := NewAdaptiveScalarEncoderWindow(width, size, min, max, windowSize)
	if err != nil {
		return nil, err
	}
	return &DeltaEncoder{encoder: inner}, nil
}

// Size returns the output width in bits.
func (e *DeltaEncoder) Size() int { return e.encoder.Size() }

// Encode encodes the delta from the previous input.
func (e *DeltaEncoder) Encode(input float64) []bool {
	return e.encoder.Encode(e.delta(input))
}

// EncodeInto encodes the delta from the previous input into output.
func (e *DeltaEncoder) EncodeInto(input float64, output []bool) {
	e.encoder.EncodeInto(e.delta(input), output)
}

// BucketIndex buckets the delta from the previous input.
func (e *DeltaEncoder) BucketIndex(input float64) (int, bool) {
	if math.IsNaN(input) {
		return 0, false
	}
	d := input
	if e.seen {
		d = input - e.prevValue
	} else {
		d = 0
	}
	return e.encoder.BucketIndex(d)
}

// BucketValue returns the representative delta of a bucket.
func (e *DeltaEncoder) BucketValue(bucket int) float64 {
	return e.encoder.BucketValue(bucket)
}

func (e *DeltaEncoder) delta(input float64) float64 {
	if math.IsNaN(input) {
		return input
	}
	d := 0.0
	if e.seen {
		d = input - e.prevValue
	}
	e.prevValue = input
	e.seen = true
	return d
}
