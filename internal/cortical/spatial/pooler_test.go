package spatial

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htm-project/htm-core/internal/domain/htm"
)

// oneHotConfig mirrors the reference single-input classifier example: ten
// input bits into one hundred columns under global inhibition.
func oneHotConfig() *htm.SpatialPoolerConfig {
	config := htm.DefaultSpatialPoolerConfig([]int{10}, []int{100})
	config.PotentialRadius = 3
	config.GlobalInhibition = true
	config.NumActiveColumnsPerInhArea = 0.02 * float64(config.NumColumns())
	config.Permanence.ActiveInc = 0.01
	config.CompatibilityMode = true
	config.Seed = [4]uint32{42, 0, 0, 0}
	return config
}

func runOneHotSequence(t *testing.T, pooler *SpatialPooler, epochs int) [][]int {
	t.Helper()
	input := make([]bool, pooler.NumInputs())
	var history [][]int
	for epoch := 0; epoch < epochs; epoch++ {
		for value := 0; value < 10; value++ {
			for i := range input {
				input[i] = false
			}
			input[value] = true
			pooler.Compute(input, true)

			winners := append([]int(nil), pooler.WinnerColumns()...)
			sort.Ints(winners)
			history = append(history, winners)
		}
	}
	return history
}

func TestOneHotDeterminism(t *testing.T) {
	first, err := NewSpatialPooler(oneHotConfig())
	require.NoError(t, err)
	second, err := NewSpatialPooler(oneHotConfig())
	require.NoError(t, err)

	historyA := runOneHotSequence(t, first, 3)
	historyB := runOneHotSequence(t, second, 3)

	require.Equal(t, len(historyA), len(historyB))
	for step := range historyA {
		assert.Equal(t, historyA[step], historyB[step], "winners diverged at step %d", step)
	}
}

func TestOneHotWinnerBounds(t *testing.T) {
	pooler, err := NewSpatialPooler(oneHotConfig())
	require.NoError(t, err)

	for _, winners := range runOneHotSequence(t, pooler, 2) {
		assert.NotEmpty(t, winners)
		assert.LessOrEqual(t, len(winners), 2, "winner count must respect the density bound")
		for _, column := range winners {
			assert.GreaterOrEqual(t, column, 0)
			assert.Less(t, column, pooler.NumColumns())
		}
	}
}

func TestReservoirModeDeterminism(t *testing.T) {
	config := oneHotConfig()
	config.CompatibilityMode = false
	first, err := NewSpatialPooler(config)
	require.NoError(t, err)

	configB := oneHotConfig()
	configB.CompatibilityMode = false
	second, err := NewSpatialPooler(configB)
	require.NoError(t, err)

	assert.Equal(t, runOneHotSequence(t, first, 2), runOneHotSequence(t, second, 2))
}

func TestPartitionInvariantHoldsAcrossLearning(t *testing.T) {
	pooler, err := NewSpatialPooler(oneHotConfig())
	require.NoError(t, err)

	input := make([]bool, pooler.NumInputs())
	for step := 0; step < 30; step++ {
		for i := range input {
			input[i] = false
		}
		input[step%10] = true
		pooler.Compute(input, true)

		for column := 0; column < pooler.NumColumns(); column++ {
			assertPartitioned(t, pooler.PotentialPool(), column, pooler.Config().Permanence.Connected)
		}
	}
}

func TestPermanencesStayInRange(t *testing.T) {
	pooler, err := NewSpatialPooler(oneHotConfig())
	require.NoError(t, err)

	input := make([]bool, pooler.NumInputs())
	for step := 0; step < 50; step++ {
		for i := range input {
			input[i] = step%2 == 0
		}
		pooler.Compute(input, true)
	}

	options := pooler.Config().Permanence
	for column := 0; column < pooler.NumColumns(); column++ {
		for _, synapse := range pooler.PotentialPool().SynapsesByColumn(column) {
			assert.GreaterOrEqual(t, synapse.Permanence, options.Min)
			assert.LessOrEqual(t, synapse.Permanence, options.Max)
		}
	}
}

func TestComputeWithoutLearningDoesNotMutatePermanences(t *testing.T) {
	pooler, err := NewSpatialPooler(oneHotConfig())
	require.NoError(t, err)

	before := snapshotPermanences(pooler)
	input := make([]bool, pooler.NumInputs())
	input[4] = true
	pooler.Compute(input, false)
	assert.Equal(t, before, snapshotPermanences(pooler))
}

func snapshotPermanences(pooler *SpatialPooler) []float32 {
	var out []float32
	for column := 0; column < pooler.NumColumns(); column++ {
		for _, synapse := range pooler.PotentialPool().SynapsesByColumn(column) {
			out = append(out, synapse.Permanence)
		}
	}
	return out
}

func TestLocalInhibitionSmoke(t *testing.T) {
	config := htm.DefaultSpatialPoolerConfig([]int{16}, []int{16})
	config.PotentialRadius = 4
	config.GlobalInhibition = false
	config.LocalAreaDensity = 0.3
	config.Seed = [4]uint32{42, 0, 0, 0}

	pooler, err := NewSpatialPooler(config)
	require.NoError(t, err)

	input := make([]bool, pooler.NumInputs())
	for i := 0; i < len(input); i += 2 {
		input[i] = true
	}
	for step := 0; step < 20; step++ {
		pooler.Compute(input, true)
		winners := pooler.WinnerColumns()
		seen := make(map[int]bool)
		for _, column := range winners {
			require.GreaterOrEqual(t, column, 0)
			require.Less(t, column, pooler.NumColumns())
			require.False(t, seen[column], "duplicate winner %d", column)
			seen[column] = true
		}
	}
	assert.GreaterOrEqual(t, pooler.InhibitionRadius(), 1)
}

func TestInvalidInhibitionConfig(t *testing.T) {
	config := oneHotConfig()
	config.NumActiveColumnsPerInhArea = 0
	config.LocalAreaDensity = 0

	_, err := NewSpatialPooler(config)
	require.Error(t, err)
	assert.True(t, htm.IsErrorType(err, htm.ErrorInvalidInhibition))
}

func TestInvalidConfigRejected(t *testing.T) {
	config := oneHotConfig()
	config.MaxBoost = 0.5
	_, err := NewSpatialPooler(config)
	require.Error(t, err)
	assert.True(t, htm.IsErrorType(err, htm.ErrorInvalidConfig))

	config = oneHotConfig()
	config.ColumnDimensions = []int{0}
	_, err = NewSpatialPooler(config)
	require.Error(t, err)
	assert.True(t, htm.IsErrorType(err, htm.ErrorInvalidConfig))
}

func TestPotentialRadiusMinusOneCoversAllInputs(t *testing.T) {
	config := oneHotConfig()
	config.PotentialRadius = -1
	config.PotentialPct = 1.0

	pooler, err := NewSpatialPooler(config)
	require.NoError(t, err)
	for column := 0; column < pooler.NumColumns(); column++ {
		assert.Equal(t, pooler.NumInputs(), pooler.PotentialPool().Size(column))
	}
}

func TestMetricsTracksIterations(t *testing.T) {
	pooler, err := NewSpatialPooler(oneHotConfig())
	require.NoError(t, err)

	input := make([]bool, pooler.NumInputs())
	input[0] = true
	pooler.Compute(input, true)
	pooler.Compute(input, false)

	metrics := pooler.Metrics()
	assert.Equal(t, int64(2), metrics.Iterations)
	assert.Equal(t, int64(1), metrics.LearnIterations)
}
