package sensors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htm-project/htm-core/internal/domain/htm"
)

func activeBits(bits []bool) []int {
	var out []int
	for i, b := range bits {
		if b {
			out = append(out, i)
		}
	}
	return out
}

func TestScalarEncoderNonPeriodic(t *testing.T) {
	// size 11, width 3 over [0, 8]: resolution (8-0)/(11-3) = 1.
	e, err := NewScalarEncoder(3, 0, 8, 11, false)
	require.NoError(t, err)
	require.Equal(t, 11, e.Size())
	assert.InDelta(t, 1.0, e.Resolution(), 1e-9)

	assert.Equal(t, []int{0, 1, 2}, activeBits(e.Encode(0)))
	assert.Equal(t, []int{1, 2, 3}, activeBits(e.Encode(1)))
	assert.Equal(t, []int{8, 9, 10}, activeBits(e.Encode(8)))

	// Out-of-range inputs clip to the range ends.
	assert.Equal(t, []int{0, 1, 2}, activeBits(e.Encode(-5)))
	assert.Equal(t, []int{8, 9, 10}, activeBits(e.Encode(100)))
}

func TestScalarEncoderBucketIndexNonPeriodic(t *testing.T) {
	e, err := NewScalarEncoder(3, 0, 8, 11, false)
	require.NoError(t, err)

	bucket, ok := e.BucketIndex(0)
	require.True(t, ok)
	assert.Equal(t, 0, bucket)

	bucket, ok = e.BucketIndex(8)
	require.True(t, ok)
	assert.Equal(t, 8, bucket)

	_, ok = e.BucketIndex(math.NaN())
	assert.False(t, ok)
}

func TestScalarEncoderPeriodicWrapsBits(t *testing.T) {
	// size 8, width 3 over [0, 8) periodic: resolution 1, no padding.
	e, err := NewScalarEncoder(3, 0, 8, 8, true)
	require.NoError(t, err)
	require.Equal(t, 8, e.Size())

	// Value 0 sits on the boundary: its run wraps into the top bit.
	assert.Equal(t, []int{0, 1, 7}, activeBits(e.Encode(0)))
	assert.Equal(t, []int{1, 2, 3}, activeBits(e.Encode(2)))
	// Periodic inputs wrap modulo the range.
	assert.Equal(t, activeBits(e.Encode(1)), activeBits(e.Encode(9)))
}

func TestScalarEncoderNaNEncodesToZeroVector(t *testing.T) {
	e, err := NewScalarEncoder(3, 0, 8, 11, false)
	require.NoError(t, err)
	assert.Empty(t, activeBits(e.Encode(math.NaN())))
}

func TestScalarEncoderAlwaysLightsWidthBits(t *testing.T) {
	e, err := NewScalarEncoder(5, -10, 10, 41, false)
	require.NoError(t, err)
	for v := -12.0; v <= 12.0; v += 0.5 {
		assert.Len(t, activeBits(e.Encode(v)), 5, "value %f", v)
	}
}

func TestScalarEncoderRejectsBadConfig(t *testing.T) {
	_, err := NewScalarEncoder(4, 0, 8, 11, false)
	assert.Error(t, err, "even width")
	_, err = NewScalarEncoder(3, 8, 8, 11, false)
	assert.Error(t, err, "empty range")
	_, err = NewScalarEncoder(3, math.NaN(), 8, 11, false)
	assert.Error(t, err, "NaN bound")
}

func TestScalarEncoderDerivedSize(t *testing.T) {
	e, err := NewScalarEncoderWithResolution(3, 0, 8, 1, false)
	require.NoError(t, err)
	assert.Greater(t, e.Size(), 0)
	assert.Len(t, activeBits(e.Encode(4)), 3)

	e, err = NewScalarEncoderWithRadius(3, 0, 8, 3, false)
	require.NoError(t, err)
	assert.Greater(t, e.Size(), 0)
	assert.Len(t, activeBits(e.Encode(4)), 3)
}

func TestAdaptiveEncoderExtendsRange(t *testing.T) {
	e, err := NewAdaptiveScalarEncoderWindow(3, 20, 0, 0, 10)
	require.NoError(t, err)

	first := append([]bool(nil), e.Encode(5)...)
	assert.Len(t, activeBits(first), 3)

	// A much larger input widens the range without changing the size.
	e.Encode(100)
	assert.Equal(t, 20, e.Size())
	assert.Len(t, activeBits(e.Encode(50)), 3)

	bucket, ok := e.BucketIndex(100)
	require.True(t, ok)
	assert.GreaterOrEqual(t, bucket, 0)
	assert.Less(t, bucket, e.Size())
}

func TestDeltaEncoderEncodesDifferences(t *testing.T) {
	e, err := NewDeltaEncoderWindow(3, 20, -10, 10, 10)
	require.NoError(t, err)

	reference, err := NewAdaptiveScalarEncoderWindow(3, 20, -10, 10, 10)
	require.NoError(t, err)

	inputs := []float64{5, 7, 4, 4, 9}
	deltas := []float64{0, 2, -3, 0, 5}
	for i, input := range inputs {
		got := append([]bool(nil), e.Encode(input)...)
		want := append([]bool(nil), reference.Encode(deltas[i])...)
		assert.Equal(t, want, got, "input %f should encode delta %f", input, deltas[i])
	}
}

func TestRegistryCreatesAllBuiltinTypes(t *testing.T) {
	registry := DefaultRegistry()
	assert.ElementsMatch(t, []string{"scalar", "adaptive_scalar", "delta"}, registry.List())

	for _, encoderType := range registry.List() {
		encoder, err := registry.Create(encoderConfig(encoderType))
		require.NoError(t, err, encoderType)
		assert.Greater(t, encoder.Size(), 0)
	}
}

func TestRegistryRejectsUnknownAndDuplicate(t *testing.T) {
	registry := DefaultRegistry()

	_, err := registry.Create(encoderConfig("nope"))
	assert.Error(t, err)

	err = registry.Register("scalar", func(config htm.EncoderConfig) (Encoder, error) {
		return NewScalarEncoder(config.Width, config.Min, config.Max, config.Size, config.Periodic)
	})
	assert.Error(t, err, "duplicate registration must fail")

	err = registry.Register("", nil)
	assert.Error(t, err)

	assert.True(t, registry.IsRegistered("scalar"))
	assert.False(t, registry.IsRegistered("nope"))
}

func encoderConfig(encoderType string) htm.EncoderConfig {
	return htm.EncoderConfig{
		Type:       encoderType,
		Width:      3,
		Size:       20,
		Min:        0,
		Max:        10,
		WindowSize: 10,
	}
}
