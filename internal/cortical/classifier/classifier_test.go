package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pattern gives each bucket a disjoint pair of active columns.
func pattern(bucket int) []int {
	return []int{bucket * 3, bucket*3 + 1}
}

func TestSingleStepLearnsOneHotAssociation(t *testing.T) {
	cls, err := NewSDRClassifier([]int{0}, 0.1, 0.3, 40)
	require.NoError(t, err)

	record := 0
	for epoch := 0; epoch < 50; epoch++ {
		for bucket := 0; bucket < 10; bucket++ {
			cls.Compute(record, bucket, float64(bucket), pattern(bucket), true, false)
			record++
		}
	}

	for bucket := 0; bucket < 10; bucket++ {
		results := cls.Infer(pattern(bucket))
		require.Len(t, results, 1)
		assert.Equal(t, 0, results[0].Step)
		assert.Equal(t, bucket, results[0].MostProbableBucket(),
			"bucket %d should be most probable for its own pattern", bucket)
	}
}

func TestLikelihoodsAreNormalized(t *testing.T) {
	cls, err := NewSDRClassifier([]int{0}, 0.1, 0.3, 40)
	require.NoError(t, err)

	for i := 0; i < 30; i++ {
		cls.Compute(i, i%3, float64(i%3), pattern(i%3), true, false)
	}
	results := cls.Infer(pattern(1))
	total := 0.0
	for _, v := range results[0].Likelihoods {
		require.GreaterOrEqual(t, v, 0.0)
		total += v
	}
	assert.InDelta(t, 1.0, total, 1e-6)
}

func TestMultiStepPrediction(t *testing.T) {
	cls, err := NewSDRClassifier([]int{1}, 0.2, 0.3, 40)
	require.NoError(t, err)

	// Repeating cycle 0 -> 1 -> 2 -> 0: one step ahead of bucket b is
	// (b+1) mod 3.
	record := 0
	for epoch := 0; epoch < 100; epoch++ {
		for bucket := 0; bucket < 3; bucket++ {
			cls.Compute(record, bucket, float64(bucket), pattern(bucket), true, false)
			record++
		}
	}

	for bucket := 0; bucket < 3; bucket++ {
		results := cls.Infer(pattern(bucket))
		require.Len(t, results, 1)
		assert.Equal(t, 1, results[0].Step)
		assert.Equal(t, (bucket+1)%3, results[0].MostProbableBucket(),
			"pattern of bucket %d should predict the next bucket", bucket)
	}
}

func TestBucketGrowth(t *testing.T) {
	cls, err := NewSDRClassifier([]int{0}, 0.1, 0.3, 40)
	require.NoError(t, err)

	results := cls.Compute(0, 0, 0, pattern(0), true, true)
	require.Len(t, results, 1)
	assert.Len(t, results[0].Likelihoods, 1)

	cls.Compute(1, 7, 7, pattern(7), true, false)
	results = cls.Infer(pattern(7))
	assert.Len(t, results[0].Likelihoods, 8, "likelihood vector grows with the highest bucket seen")
}

func TestActualValueTracking(t *testing.T) {
	cls, err := NewSDRClassifier([]int{0}, 0.1, 0.3, 40)
	require.NoError(t, err)

	cls.Compute(0, 2, 10.0, pattern(2), true, false)
	assert.InDelta(t, 10.0, cls.ActualValue(2), 1e-9, "first observation pins the bucket value")

	cls.Compute(1, 2, 20.0, pattern(2), true, false)
	assert.InDelta(t, 13.0, cls.ActualValue(2), 1e-9, "subsequent observations blend by actValueAlpha")

	assert.Equal(t, 0.0, cls.ActualValue(99), "unknown buckets read as zero")
}

func TestRecordNumberOffset(t *testing.T) {
	cls, err := NewSDRClassifier([]int{0}, 0.1, 0.3, 40)
	require.NoError(t, err)

	// Records starting at an arbitrary offset behave like records from 0.
	record := 1000
	for epoch := 0; epoch < 30; epoch++ {
		for bucket := 0; bucket < 3; bucket++ {
			cls.Compute(record, bucket, float64(bucket), pattern(bucket), true, false)
			record++
		}
	}
	results := cls.Infer(pattern(2))
	assert.Equal(t, 2, results[0].MostProbableBucket())
}

func TestConstructorValidation(t *testing.T) {
	_, err := NewSDRClassifier(nil, 0.1, 0.3, 40)
	assert.Error(t, err)
	_, err = NewSDRClassifier([]int{0}, 0.1, 0.3, 0)
	assert.Error(t, err)
}
