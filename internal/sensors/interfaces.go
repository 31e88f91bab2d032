// Package sensors provides the scalar input encoders that feed the spatial
// pooler: fixed-range, adaptive-range and delta encoders, plus a registry
// mapping encoder type names to factories.
package sensors

import "github.com/htm-project/htm-core/internal/domain/htm"

// Encoder converts scalar inputs into binary vectors aligned to the spatial
// pooler's input space.
type Encoder interface {
	// Encode returns the binary representation of the input. The returned
	// slice is reused between calls; copy it to retain.
	Encode(input float64) []bool

	// EncodeInto writes the binary representation into output, which must
	// be at least Size() long.
	EncodeInto(input float64, output []bool)

	// BucketIndex returns the classifier bucket the input falls into, and
	// false for inputs that cannot be bucketed (NaN).
	BucketIndex(input float64) (int, bool)

	// BucketValue returns the representative input value of a bucket.
	BucketValue(bucket int) float64

	// Size returns the width of the produced binary vectors.
	Size() int
}

// Factory creates a configured encoder instance.
type Factory func(config htm.EncoderConfig) (Encoder, error)
