package spatial

import (
	"github.com/htm-project/htm-core/internal/cortical/rng"
	"github.com/htm-project/htm-core/internal/domain/htm"
)

// Synapse is a proximal synapse: a candidate input index and the learned
// permanence of the connection. A permanence of exactly 0 marks a trimmed
// synapse that still occupies its pool slot.
type Synapse struct {
	Input      int
	Permanence float32
}

// PotentialPool stores the proximal synapses of every column in a single
// fixed-capacity bucket per column, allocated once at initialization.
//
// Each column's bucket is kept partially sorted: the first
// connectedLen[column] entries all have permanence at or above the connected
// threshold and the remainder fall below it. Only the prefix partition is an
// invariant; relative order inside either side is not.
type PotentialPool struct {
	synapses     []Synapse
	counts       []int
	connectedLen []int
	maxPotential int
}

// NewPotentialPool allocates a pool for columnCount columns with room for
// maxPotential synapses each.
func NewPotentialPool(columnCount, maxPotential int) *PotentialPool {
	return &PotentialPool{
		synapses:     make([]Synapse, columnCount*maxPotential),
		counts:       make([]int, columnCount),
		connectedLen: make([]int, columnCount),
		maxPotential: maxPotential,
	}
}

// SetupPool fills a column's bucket from the candidate input indices. Each
// candidate draws its initial permanence from the generator: with probability
// initConnectedPct the permanence lands in the connected band
// [connected, max), otherwise below it. Permanences at or below the trim
// threshold are recorded as 0. Values are quantized to five decimals so that
// runs from the same seed are bit-identical across platforms.
func (p *PotentialPool) SetupPool(column int, candidates []int, initConnectedPct float32, options *htm.SynapsePermanenceOptions, random *rng.Universal) {
	for _, input := range candidates {
		var permanence float32
		if random.NextFloat32() <= initConnectedPct {
			permanence = options.Connected + (options.Max-options.Connected)*random.NextFloat32()
		} else {
			permanence = options.Connected * random.NextFloat32()
		}
		if permanence > options.TrimThreshold {
			permanence = quantizePermanence(permanence)
		} else {
			permanence = 0
		}
		p.insert(column, Synapse{Input: input, Permanence: permanence})
	}
	p.PartitionByConnected(column, options.Connected)
}

func (p *PotentialPool) insert(column int, synapse Synapse) {
	count := p.counts[column]
	if count >= p.maxPotential {
		panic("spatial: potential pool bucket overflow")
	}
	p.synapses[column*p.maxPotential+count] = synapse
	p.counts[column] = count + 1
}

func quantizePermanence(permanence float32) float32 {
	return float32(int32(permanence*100000.0)) / 100000.0
}

// PartitionByConnected restores the connected-prefix partition of a column's
// bucket in place and records the new prefix length.
func (p *PotentialPool) PartitionByConnected(column int, connected float32) int {
	bucket := p.SynapsesByColumn(column)
	pivot := 0
	for i := range bucket {
		if bucket[i].Permanence >= connected {
			if pivot != i {
				bucket[i], bucket[pivot] = bucket[pivot], bucket[i]
			}
			pivot++
		}
	}
	p.connectedLen[column] = pivot
	return pivot
}

// UpdatePermanences applies the post-learning bookkeeping to one column:
// optionally raise permanences until the connected count reaches the stimulus
// threshold, trim and clamp every permanence, then re-partition.
//
// Returns true if the raise loop hit its safety bound before reaching the
// threshold (only possible when the threshold exceeds the pool size; the
// permanences are saturated at Max by then).
func (p *PotentialPool) UpdatePermanences(column int, raise bool, stimulusThreshold int, options *htm.SynapsePermanenceOptions) bool {
	capped := false
	if raise {
		capped = p.RaisePermanenceToThreshold(column, stimulusThreshold, options)
	}
	bucket := p.SynapsesByColumn(column)
	for i := range bucket {
		if bucket[i].Permanence <= options.TrimThreshold {
			bucket[i].Permanence = 0
		} else {
			bucket[i].Permanence = clamp(bucket[i].Permanence, options.Min, options.Max)
		}
	}
	p.PartitionByConnected(column, options.Connected)
	return capped
}

// RaisePermanenceToThreshold bumps every synapse of the column by
// BelowStimulusInc until at least stimulusThreshold of them are connected.
// The loop is capped at ceil((Max-Min)/BelowStimulusInc)+1 passes; past that
// point every permanence already sits at Max and further passes cannot
// change the count.
func (p *PotentialPool) RaisePermanenceToThreshold(column int, stimulusThreshold int, options *htm.SynapsePermanenceOptions) bool {
	bucket := p.SynapsesByColumn(column)
	maxPasses := 0
	if options.BelowStimulusInc > 0 {
		ratio := (options.Max - options.Min) / options.BelowStimulusInc
		maxPasses = int(ratio)
		if float32(maxPasses) < ratio {
			maxPasses++
		}
		maxPasses++
	}
	for pass := 0; ; pass++ {
		connected := 0
		for i := range bucket {
			if bucket[i].Permanence >= options.Connected {
				connected++
			}
		}
		if connected >= stimulusThreshold {
			return false
		}
		if pass >= maxPasses {
			return true
		}
		for i := range bucket {
			bucket[i].Permanence += options.BelowStimulusInc
		}
	}
}

// SynapsesByColumn returns the mutable occupied slice of a column's bucket.
// Callers that change permanences must re-partition afterwards.
func (p *PotentialPool) SynapsesByColumn(column int) []Synapse {
	start := column * p.maxPotential
	return p.synapses[start : start+p.counts[column]]
}

// ConnectedByColumn returns the connected prefix of a column's bucket.
func (p *PotentialPool) ConnectedByColumn(column int) []Synapse {
	start := column * p.maxPotential
	return p.synapses[start : start+p.connectedLen[column]]
}

// ConnectedLen returns the connected prefix length of a column.
func (p *PotentialPool) ConnectedLen(column int) int {
	return p.connectedLen[column]
}

// Size returns the occupied synapse count of a column.
func (p *PotentialPool) Size(column int) int {
	return p.counts[column]
}

func clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
