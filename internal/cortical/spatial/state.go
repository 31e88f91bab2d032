package spatial

import (
	"github.com/htm-project/htm-core/internal/cortical/topology"
	"github.com/htm-project/htm-core/internal/domain/htm"
)

// State is the serializable snapshot of a spatial pooler. The generator
// state is not part of it: the pooler only draws random numbers during
// initialization, so a restored instance computes identically to the
// original.
type State struct {
	Config htm.SpatialPoolerConfig `msgpack:"config"`

	Iteration        int `msgpack:"iteration"`
	LearnIteration   int `msgpack:"learn_iteration"`
	InhibitionRadius int `msgpack:"inhibition_radius"`

	OverlapDutyCycles    []float32 `msgpack:"overlap_duty_cycles"`
	ActiveDutyCycles     []float32 `msgpack:"active_duty_cycles"`
	MinOverlapDutyCycles []float32 `msgpack:"min_overlap_duty_cycles"`
	MinActiveDutyCycles  []float32 `msgpack:"min_active_duty_cycles"`
	BoostFactors         []float32 `msgpack:"boost_factors"`

	PoolInputs       []int32   `msgpack:"pool_inputs"`
	PoolPermanences  []float32 `msgpack:"pool_permanences"`
	PoolCounts       []int32   `msgpack:"pool_counts"`
	PoolConnectedLen []int32   `msgpack:"pool_connected_len"`
}

// State captures the pooler's complete learned state.
func (sp *SpatialPooler) State() *State {
	state := &State{
		Config:               *sp.config,
		Iteration:            sp.iterationNum,
		LearnIteration:       sp.iterationLearnNum,
		InhibitionRadius:     sp.inhibitionRadius,
		OverlapDutyCycles:    append([]float32(nil), sp.overlapDutyCycles...),
		ActiveDutyCycles:     append([]float32(nil), sp.activeDutyCycles...),
		MinOverlapDutyCycles: append([]float32(nil), sp.minOverlapDutyCycles...),
		MinActiveDutyCycles:  append([]float32(nil), sp.minActiveDutyCycles...),
		BoostFactors:         append([]float32(nil), sp.boostFactors...),
		PoolCounts:           make([]int32, sp.numColumns),
		PoolConnectedLen:     make([]int32, sp.numColumns),
	}
	for column := 0; column < sp.numColumns; column++ {
		state.PoolCounts[column] = int32(sp.pool.Size(column))
		state.PoolConnectedLen[column] = int32(sp.pool.ConnectedLen(column))
		for _, synapse := range sp.pool.SynapsesByColumn(column) {
			state.PoolInputs = append(state.PoolInputs, int32(synapse.Input))
			state.PoolPermanences = append(state.PoolPermanences, synapse.Permanence)
		}
	}
	return state
}

// FromState rebuilds a pooler from a snapshot without re-running
// initialization.
func FromState(state *State) (*SpatialPooler, error) {
	cfg := state.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	numInputs := cfg.NumInputs()
	numColumns := cfg.NumColumns()
	if len(state.PoolCounts) != numColumns || len(state.BoostFactors) != numColumns {
		return nil, htm.NewError(htm.ErrorInvalidConfig, "snapshot column state does not match dimensions")
	}

	sp := &SpatialPooler{
		config:               &cfg,
		numInputs:            numInputs,
		numColumns:           numColumns,
		columnTopology:       topology.New(cfg.ColumnDimensions),
		inputTopology:        topology.New(cfg.InputDimensions),
		iterationNum:         state.Iteration,
		iterationLearnNum:    state.LearnIteration,
		inhibitionRadius:     state.InhibitionRadius,
		overlapDutyCycles:    append([]float32(nil), state.OverlapDutyCycles...),
		activeDutyCycles:     append([]float32(nil), state.ActiveDutyCycles...),
		minOverlapDutyCycles: append([]float32(nil), state.MinOverlapDutyCycles...),
		minActiveDutyCycles:  append([]float32(nil), state.MinActiveDutyCycles...),
		boostFactors:         append([]float32(nil), state.BoostFactors...),
		overlaps:             make([]float32, numColumns),
		tieBrokenOverlaps:    make([]float32, numColumns),
		winnerColumns:        make([]int, 0, numColumns),
	}
	sp.potentialRadius = cfg.PotentialRadius
	if sp.potentialRadius == -1 {
		sp.potentialRadius = numInputs
	}

	sp.pool = NewPotentialPool(numColumns, numInputs)
	cursor := 0
	for column := 0; column < numColumns; column++ {
		count := int(state.PoolCounts[column])
		if cursor+count > len(state.PoolInputs) {
			return nil, htm.NewError(htm.ErrorInvalidConfig, "snapshot synapse table is truncated")
		}
		for i := 0; i < count; i++ {
			sp.pool.insert(column, Synapse{
				Input:      int(state.PoolInputs[cursor]),
				Permanence: state.PoolPermanences[cursor],
			})
			cursor++
		}
		sp.pool.connectedLen[column] = int(state.PoolConnectedLen[column])
	}
	return sp, nil
}
