// Package spatial implements the HTM spatial pooler: competitive inhibition
// over learned potential-pool synapses with Hebbian updates, duty-cycle
// tracking and boosting. Given a binary input vector, each compute step
// produces the set of winner columns and per-column overlap scores.
package spatial

import (
	"fmt"
	"sort"

	"github.com/htm-project/htm-core/internal/cortical/rng"
	"github.com/htm-project/htm-core/internal/cortical/topology"
	"github.com/htm-project/htm-core/internal/domain/htm"
)

// SpatialPooler transforms binary input vectors into sparse winner-column
// sets. All operations are single-threaded and synchronous; given identical
// configuration, seed and input sequence, state and outputs are
// byte-identical across runs.
type SpatialPooler struct {
	config *htm.SpatialPoolerConfig
	random *rng.Universal

	numInputs  int
	numColumns int

	columnTopology *topology.Topology
	inputTopology  *topology.Topology

	pool *PotentialPool

	iterationNum      int
	iterationLearnNum int
	inhibitionRadius  int
	potentialRadius   int

	overlapDutyCycles    []float32
	activeDutyCycles     []float32
	minOverlapDutyCycles []float32
	minActiveDutyCycles  []float32
	boostFactors         []float32

	overlaps           []float32
	tieBrokenOverlaps  []float32
	winnerColumns      []int
	raiseCapEvents     int64
	scratchCoordinates []int
}

// NewSpatialPooler validates the configuration and builds a fully
// initialized pooler: potential pools generated, permanences raised to the
// stimulus threshold and the initial inhibition radius computed.
func NewSpatialPooler(config *htm.SpatialPoolerConfig) (*SpatialPooler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	numInputs := config.NumInputs()
	numColumns := config.NumColumns()

	sp := &SpatialPooler{
		config:               config,
		numInputs:            numInputs,
		numColumns:           numColumns,
		columnTopology:       topology.New(config.ColumnDimensions),
		inputTopology:        topology.New(config.InputDimensions),
		overlapDutyCycles:    make([]float32, numColumns),
		activeDutyCycles:     make([]float32, numColumns),
		minOverlapDutyCycles: make([]float32, numColumns),
		minActiveDutyCycles:  make([]float32, numColumns),
		boostFactors:         make([]float32, numColumns),
		overlaps:             make([]float32, numColumns),
		tieBrokenOverlaps:    make([]float32, numColumns),
		winnerColumns:        make([]int, 0, numColumns),
	}
	for i := range sp.boostFactors {
		sp.boostFactors[i] = 1.0
	}

	seed := config.Seed
	if seed == ([4]uint32{}) {
		seed = [4]uint32{42, 0, 0, 0}
	}
	sp.random = rng.FromSeed(seed)

	// Post-init coupling: the bump and trim constants are derived from the
	// configured connected threshold and active increment.
	sp.config.Permanence.BelowStimulusInc = sp.config.Permanence.Connected / 10.0
	sp.config.Permanence.TrimThreshold = sp.config.Permanence.ActiveInc / 2.0
	sp.potentialRadius = sp.config.PotentialRadius
	if sp.potentialRadius == -1 {
		sp.potentialRadius = numInputs
	}

	sp.pool = NewPotentialPool(numColumns, numInputs)
	sp.connectAndConfigureInputs()
	sp.updateInhibitionRadius()

	return sp, nil
}

// connectAndConfigureInputs generates each column's potential pool and raises
// its permanences until the column can reach the stimulus threshold.
func (sp *SpatialPooler) connectAndConfigureInputs() {
	buffer := make([]int, sp.numInputs)
	threshold := int(sp.config.StimulusThreshold + 0.5)
	for column := 0; column < sp.numColumns; column++ {
		sample := sp.mapPotential(column, buffer)
		sort.Ints(sample)
		sp.pool.SetupPool(column, sample, sp.config.InitConnectedPct, &sp.config.Permanence, sp.random)
		if sp.pool.UpdatePermanences(column, true, threshold, &sp.config.Permanence) {
			sp.raiseCapEvents++
		}
	}
}

// mapPotential samples the candidate inputs of one column: the neighborhood
// of the column's center input, thinned to PotentialPct of its size. The
// returned slice aliases buffer.
func (sp *SpatialPooler) mapPotential(column int, buffer []int) []int {
	center := sp.mapColumn(column)
	neighborhood := sp.inputTopology.Neighborhood(center, sp.potentialRadius, true)
	finalSize := sp.potentialSynapses(neighborhood.Size())

	if sp.config.CompatibilityMode {
		return sampleIntoCompat(sp.random, neighborhood, finalSize, buffer)
	}
	return sampleInto(sp.random, neighborhood, finalSize, buffer)
}

// mapColumn projects a column index to its center input index by scaling
// each coordinate from column space into input space. When the two spaces
// have different ranks, only the leading shared axes participate.
func (sp *SpatialPooler) mapColumn(column int) int {
	columnCoords := sp.columnTopology.Coordinates(column, sp.scratchCoordinates)
	sp.scratchCoordinates = columnCoords
	inputDims := sp.inputTopology.Dimensions()
	columnDims := sp.columnTopology.Dimensions()
	shared := len(columnDims)
	if len(inputDims) < shared {
		shared = len(inputDims)
	}
	for i := 0; i < shared; i++ {
		colDim := float32(columnDims[i])
		inDim := float32(inputDims[i])
		mapped := int((float32(columnCoords[i])/colDim)*inDim + (inDim/colDim)*0.5)
		if mapped > inputDims[i]-1 {
			mapped = inputDims[i] - 1
		}
		if mapped < 0 {
			mapped = 0
		}
		columnCoords[i] = mapped
	}
	return sp.inputTopology.Index(columnCoords[:shared])
}

// potentialSynapses rounds PotentialPct of a neighborhood size to nearest.
func (sp *SpatialPooler) potentialSynapses(neighborhoodSize int) int {
	return int(float64(neighborhoodSize)*sp.config.PotentialPct + 0.5)
}

// Compute runs one time step over the input vector. When learn is set, the
// winners adapt their synapses and the homeostatic machinery (duty cycles,
// boosting, weak-column bumping, periodic radius refresh) runs.
//
// Winner columns are retrievable through WinnerColumns afterwards; they are
// not sorted. Compute never fails: bits beyond the input width are ignored.
func (sp *SpatialPooler) Compute(input []bool, learn bool) {
	sp.updateIterationNumber(learn)
	sp.calculateOverlaps(input)
	sp.boost(learn)
	sp.inhibitColumns()

	if learn {
		sp.adaptSynapses(input)
		sp.updateDutyCycles()
		sp.bumpUpWeakColumns()
		sp.updateBoostFactors()
		if sp.iterationNum%sp.config.UpdatePeriod == 0 {
			sp.updateInhibitionRadius()
			sp.updateMinDutyCycles()
		}
	}
}

func (sp *SpatialPooler) updateIterationNumber(learn bool) {
	sp.iterationNum++
	if learn {
		sp.iterationLearnNum++
	}
}

// calculateOverlaps counts, per column, the connected synapses whose input
// bit is on. Only the connected prefix of each pool bucket is visited.
func (sp *SpatialPooler) calculateOverlaps(input []bool) {
	for column := 0; column < sp.numColumns; column++ {
		counter := 0
		for _, synapse := range sp.pool.ConnectedByColumn(column) {
			if synapse.Input < len(input) && input[synapse.Input] {
				counter++
			}
		}
		sp.overlaps[column] = float32(counter)
	}
}

// boost scales overlaps by the per-column boost factors during learning.
func (sp *SpatialPooler) boost(learn bool) {
	if !learn {
		return
	}
	for i := range sp.overlaps {
		sp.overlaps[i] *= sp.boostFactors[i]
	}
}

// WinnerColumns returns the winners of the last compute step. The slice is
// reused between steps; callers that retain or sort it must copy first.
func (sp *SpatialPooler) WinnerColumns() []int { return sp.winnerColumns }

// Overlaps returns the per-column overlap scores of the last compute step
// (boosted when the step was a learning step).
func (sp *SpatialPooler) Overlaps() []float32 { return sp.overlaps }

// NumInputs returns the input space size.
func (sp *SpatialPooler) NumInputs() int { return sp.numInputs }

// NumColumns returns the column space size.
func (sp *SpatialPooler) NumColumns() int { return sp.numColumns }

// InhibitionRadius returns the current inhibition radius.
func (sp *SpatialPooler) InhibitionRadius() int { return sp.inhibitionRadius }

// Iteration returns the number of compute steps performed.
func (sp *SpatialPooler) Iteration() int { return sp.iterationNum }

// LearnIteration returns the number of learning compute steps performed.
func (sp *SpatialPooler) LearnIteration() int { return sp.iterationLearnNum }

// PotentialPool exposes the proximal synapse store for inspection.
func (sp *SpatialPooler) PotentialPool() *PotentialPool { return sp.pool }

// Config returns a copy of the active configuration.
func (sp *SpatialPooler) Config() htm.SpatialPoolerConfig { return *sp.config }

// BoostFactors returns the per-column boost factors.
func (sp *SpatialPooler) BoostFactors() []float32 { return sp.boostFactors }

// Metrics reports behavioral counters for the pooler instance.
func (sp *SpatialPooler) Metrics() htm.SpatialPoolerMetrics {
	return htm.SpatialPoolerMetrics{
		Iterations:       int64(sp.iterationNum),
		LearnIterations:  int64(sp.iterationLearnNum),
		InhibitionRadius: sp.inhibitionRadius,
		WinnerCount:      len(sp.winnerColumns),
		RaiseCapEvents:   sp.raiseCapEvents,
	}
}

// String describes the pooler dimensions, mainly for logs.
func (sp *SpatialPooler) String() string {
	return fmt.Sprintf("SpatialPooler(inputs=%v columns=%v radius=%d)",
		sp.config.InputDimensions, sp.config.ColumnDimensions, sp.inhibitionRadius)
}
