package sensors

import "math"

// defaultWindowSize is the number of recent inputs the adaptive encoders
// consider when widening their range.
const defaultWindowSize = 300

// AdaptiveScalarEncoder wraps a non-periodic scalar encoder whose input
// range grows to cover the values observed in a sliding window. The range
// never shrinks, so previously learned representations stay valid.
type AdaptiveScalarEncoder struct {
	encoder *ScalarEncoder
	window  []float64
	head    int
	filled  bool
}

// NewAdaptiveScalarEncoder creates an adaptive encoder with the default
// window. Pass min == max to start the encoder unanchored: the first input
// defines the initial range.
func NewAdaptiveScalarEncoder(width, size int, min, max float64) (*AdaptiveScalarEncoder, error) {
	return NewAdaptiveScalarEncoderWindow(width, size, min, max, defaultWindowSize)
}

// NewAdaptiveScalarEncoderWindow creates an adaptive encoder with an
// explicit window size. Pass min == max to start unanchored.
func NewAdaptiveScalarEncoderWindow(width, size int, min, max float64, windowSize int) (*AdaptiveScalarEncoder, error) {
	if min == max {
		// The inner encoder requires a non-degenerate range; the first
		// observed input replaces this placeholder.
		max = min + 1
	}
	inner, err := NewScalarEncoder(width, min, max, size, false)
	if err != nil {
		return nil, err
	}
	if windowSize <= 0 {
		windowSize = defaultWindowSize
	}
	return &AdaptiveScalarEncoder{
		encoder: inner,
		window:  make([]float64, 0, windowSize),
	}, nil
}

// Size returns the output width in bits.
func (e *AdaptiveScalarEncoder) Size() int { return e.encoder.Size() }

// Encode updates the range from the input, then encodes it.
func (e *AdaptiveScalarEncoder) Encode(input float64) []bool {
	if !math.IsNaN(input) {
		e.updateMinMax(input)
	}
	return e.encoder.Encode(input)
}

// EncodeInto updates the range from the input, then encodes it into output.
func (e *AdaptiveScalarEncoder) EncodeInto(input float64, output []bool) {
	if !math.IsNaN(input) {
		e.updateMinMax(input)
	}
	e.encoder.EncodeInto(input, output)
}

// BucketIndex updates the range from the input, then buckets it.
func (e *AdaptiveScalarEncoder) BucketIndex(input float64) (int, bool) {
	if math.IsNaN(input) {
		return 0, false
	}
	e.updateMinMax(input)
	return e.encoder.BucketIndex(input)
}

// BucketValue returns the representative input value of a bucket under the
// current range.
func (e *AdaptiveScalarEncoder) BucketValue(bucket int) float64 {
	return e.encoder.BucketValue(bucket)
}

func (e *AdaptiveScalarEncoder) updateMinMax(input float64) {
	if len(e.window) < cap(e.window) {
		e.window = append(e.window, input)
	} else {
		e.window[e.head] = input
		e.head = (e.head + 1) % cap(e.window)
		e.filled = true
	}

	if !e.filled && len(e.window) == 1 && e.encoder.max-e.encoder.min == 1 {
		// First observation of an unanchored encoder pins the range.
		e.encoder.min = input
		e.encoder.max = input + 1
		e.refreshEncoderParams()
		return
	}

	min := math.Inf(1)
	max := math.Inf(-1)
	for _, v := range e.window {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	update := false
	if min < e.encoder.min {
		e.encoder.min = min
		update = true
	}
	if max > e.encoder.max {
		e.encoder.max = max
		update = true
	}
	if update {
		e.refreshEncoderParams()
	}
}

// refreshEncoderParams re-derives the inner encoder's resolution, radius and
// range from the widened min/max, keeping the output size fixed.
func (e *AdaptiveScalarEncoder) refreshEncoderParams() {
	inner := e.encoder
	inner.internalRange = inner.max - inner.min
	inner.resolution = inner.internalRange / float64(inner.size-inner.width)
	inner.radius = float64(inner.width) * inner.resolution
	inner.valueRange = inner.internalRange + inner.resolution
	inner.internalSize = inner.size - 2*inner.padding
}
