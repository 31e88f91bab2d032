package temporal

import (
	"sort"

	"github.com/htm-project/htm-core/internal/cortical/rng"
)

// permanenceDestroyThreshold removes synapses whose permanence decays below
// it, together with their reverse-index entries.
const permanenceDestroyThreshold = 1e-5

// Synapse is a distal synapse: the presynaptic cell and the permanence of
// the connection.
type Synapse struct {
	Cell       Cell
	Permanence float32
}

// Segment is a dendritic segment holding distal synapses. A segment with no
// synapses is an empty slot that insertion may reclaim.
type Segment struct {
	cell     Cell
	synapses []Synapse
	lastUsed uint64
}

// NewSegment creates a detached segment owned by the given cell. Attach it
// with TemporalMemory.AddSegment.
func NewSegment(owner Cell) *Segment {
	return &Segment{cell: owner}
}

// Owner returns the cell the segment belongs to.
func (s *Segment) Owner() Cell { return s.cell }

// Synapses returns the segment's synapses. The slice is live; callers must
// not mutate it.
func (s *Segment) Synapses() []Synapse { return s.synapses }

// NumSynapses returns the synapse count.
func (s *Segment) NumSynapses() int { return len(s.synapses) }

// LastUsedIteration returns the iteration the segment was last active in.
func (s *Segment) LastUsedIteration() uint64 { return s.lastUsed }

// CreateSynapse appends a synapse to the segment without touching the
// reverse index. Used when seeding detached segments; the index entries are
// created on AddSegment.
func (s *Segment) CreateSynapse(presynaptic Cell, permanence float32) {
	s.synapses = append(s.synapses, Synapse{Cell: presynaptic, Permanence: permanence})
}

// recycleKey orders segments for least-recently-used reclamation. Empty
// segments always lose: their key is zero regardless of when they were last
// touched.
func (s *Segment) recycleKey() uint64 {
	if len(s.synapses) == 0 {
		return 0
	}
	return s.lastUsed
}

// adaptSegment reinforces the segment against the previously active cells:
// synapses onto them gain permInc, the rest lose permDec. Crossing the
// connected threshold in either direction updates the reverse-index entry;
// permanences cap at 1.0, and synapses decaying below the destroy threshold
// are removed along with their index entries.
func (tm *TemporalMemory) adaptSegment(ref SegmentRef, segment *Segment, prevActive CellSet, permInc, permDec float32) {
	connected := tm.config.ConnectedPermanence
	index := 0
	for index < len(segment.synapses) {
		synapse := &segment.synapses[index]
		oldPermanence := synapse.Permanence
		if prevActive.Contains(synapse.Cell) {
			synapse.Permanence += permInc
		} else {
			synapse.Permanence -= permDec
		}

		if oldPermanence < connected {
			if synapse.Permanence >= connected {
				tm.setLink(synapse.Cell, ref, true)
			}
		} else if synapse.Permanence < connected {
			tm.setLink(synapse.Cell, ref, false)
		}

		if synapse.Permanence > 1.0 {
			synapse.Permanence = 1.0
		}
		if synapse.Permanence < permanenceDestroyThreshold {
			tm.removeLink(synapse.Cell, ref)
			last := len(segment.synapses) - 1
			segment.synapses[index] = segment.synapses[last]
			segment.synapses = segment.synapses[:last]
			continue
		}
		index++
	}
}

// growSynapses adds up to desired new synapses from the source cells to the
// segment at the initial permanence, skipping cells that are already
// presynaptic. Growth beyond the per-segment synapse budget evicts the
// weakest synapses.
func (tm *TemporalMemory) growSynapses(ref SegmentRef, segment *Segment, sources CellSet, desired int, random *rng.Universal) {
	if desired <= 0 || len(sources) == 0 {
		return
	}
	candidates := make([]Cell, 0, len(sources))
	for cell := range sources {
		candidates = append(candidates, cell)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Less(candidates[j]) })

	for _, synapse := range segment.synapses {
		i := sort.Search(len(candidates), func(k int) bool { return !candidates[k].Less(synapse.Cell) })
		if i < len(candidates) && candidates[i] == synapse.Cell {
			candidates = append(candidates[:i], candidates[i+1:]...)
		}
	}

	actual := desired
	if actual > len(candidates) {
		actual = len(candidates)
	}
	for i := 0; i < actual; i++ {
		pick := int(random.NextBounded(int32(len(candidates))))
		cell := candidates[pick]
		segment.synapses = append(segment.synapses, Synapse{Cell: cell, Permanence: tm.config.InitialPermanence})
		tm.setLink(cell, ref, tm.config.InitialPermanence >= tm.config.ConnectedPermanence)
		candidates = append(candidates[:pick], candidates[pick+1:]...)
	}

	for len(segment.synapses) > tm.config.MaxSynapsesPerSegment {
		weakest := 0
		for i := 1; i < len(segment.synapses); i++ {
			if segment.synapses[i].Permanence < segment.synapses[weakest].Permanence {
				weakest = i
			}
		}
		tm.removeLink(segment.synapses[weakest].Cell, ref)
		last := len(segment.synapses) - 1
		segment.synapses[weakest] = segment.synapses[last]
		segment.synapses = segment.synapses[:last]
	}
}
