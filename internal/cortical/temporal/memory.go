package temporal

import (
	"sort"

	"github.com/htm-project/htm-core/internal/cortical/rng"
	"github.com/htm-project/htm-core/internal/domain/htm"
)

// TemporalMemory learns temporal sequences over sparse column activations.
//
// The synapse graph is indexed both ways: segmentsByCell maps each cell to
// its segments, and synapseIndex maps each presynaptic cell to the segments
// reached from it, together with a connected bit that is kept coherent with
// the underlying permanence on every mutation. Dendrite activation walks the
// reverse index of the active cells only, so a step costs O(active synapses)
// rather than O(all synapses).
type TemporalMemory struct {
	config  *htm.TemporalMemoryConfig
	columns int
	random  *rng.Universal

	activeCells     CellSet
	prevActiveCells CellSet
	winnerCells     CellSet
	prevWinnerCells CellSet

	segmentsByCell map[Cell][]*Segment
	synapseIndex   map[Cell]map[SegmentRef]bool

	segmentsActive   []SegmentScore
	segmentsMatching []SegmentScore
	predictiveCells  map[Cell]int

	iteration uint64
}

// NewTemporalMemory creates a temporal memory over the given column count.
func NewTemporalMemory(columns int, config *htm.TemporalMemoryConfig) (*TemporalMemory, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if columns <= 0 {
		return nil, htm.NewErrorWithField(htm.ErrorInvalidConfig, "column count must be positive", "columns")
	}
	seed := config.Seed
	if seed == ([4]uint32{}) {
		seed = [4]uint32{42, 0, 0, 0}
	}
	return &TemporalMemory{
		config:          config,
		columns:         columns,
		random:          rng.FromSeed(seed),
		activeCells:     make(CellSet),
		prevActiveCells: make(CellSet),
		winnerCells:     make(CellSet),
		prevWinnerCells: make(CellSet),
		segmentsByCell:  make(map[Cell][]*Segment),
		synapseIndex:    make(map[Cell]map[SegmentRef]bool),
		predictiveCells: make(map[Cell]int),
	}, nil
}

// Compute runs one time step: cell activation against the predictions from
// the previous step, then dendrite activation to form the next predictions.
// activeColumns must be sorted ascending.
func (tm *TemporalMemory) Compute(activeColumns []int, learn bool) {
	tm.activateCells(activeColumns, learn)
	tm.ActivateDendrites(learn)
}

// Reset clears the active, winner, predictive and segment activity caches.
// The segment graph and the iteration counter survive; the next sequence
// starts from a clean activation state.
func (tm *TemporalMemory) Reset() {
	tm.activeCells = make(CellSet)
	tm.winnerCells = make(CellSet)
	tm.segmentsActive = tm.segmentsActive[:0]
	tm.segmentsMatching = tm.segmentsMatching[:0]
	tm.predictiveCells = make(map[Cell]int)
}

// ActivateDendrites recomputes the active and matching segment lists from
// the current active cells via the reverse index. When learn is set, active
// segments are stamped with the current iteration and the iteration counter
// advances.
func (tm *TemporalMemory) ActivateDendrites(learn bool) {
	tm.segmentsActive = tm.segmentsActive[:0]
	tm.segmentsMatching = tm.segmentsMatching[:0]
	tm.predictiveCells = make(map[Cell]int)

	type overlap struct {
		connected int
		potential int
	}
	counters := make(map[SegmentRef]*overlap)
	for cell := range tm.activeCells {
		for ref, connected := range tm.synapseIndex[cell] {
			counter := counters[ref]
			if counter == nil {
				counter = &overlap{}
				counters[ref] = counter
			}
			if connected {
				counter.connected++
			}
			counter.potential++
		}
	}

	for ref, counter := range counters {
		if counter.connected >= tm.config.ActivationThreshold {
			tm.segmentsActive = append(tm.segmentsActive, SegmentScore{Ref: ref, Matched: counter.potential})
		}
		if counter.potential >= tm.config.MinThreshold {
			tm.segmentsMatching = append(tm.segmentsMatching, SegmentScore{Ref: ref, Matched: counter.potential})
		}
	}
	sort.Slice(tm.segmentsActive, func(i, j int) bool {
		return tm.segmentsActive[i].Ref.Less(tm.segmentsActive[j].Ref)
	})
	sort.Slice(tm.segmentsMatching, func(i, j int) bool {
		return tm.segmentsMatching[i].Ref.Less(tm.segmentsMatching[j].Ref)
	})

	for _, score := range tm.segmentsActive {
		tm.predictiveCells[score.Ref.Cell]++
	}

	if learn {
		for _, score := range tm.segmentsActive {
			tm.segment(score.Ref).lastUsed = tm.iteration
		}
		tm.iteration++
	}
}

// segment resolves a ref to its segment.
func (tm *TemporalMemory) segment(ref SegmentRef) *Segment {
	return tm.segmentsByCell[ref.Cell][ref.Segment]
}

// setLink upserts the reverse-index entry for (presynaptic, segment).
func (tm *TemporalMemory) setLink(presynaptic Cell, ref SegmentRef, connected bool) {
	links := tm.synapseIndex[presynaptic]
	if links == nil {
		links = make(map[SegmentRef]bool)
		tm.synapseIndex[presynaptic] = links
	}
	links[ref] = connected
}

// removeLink deletes the reverse-index entry for (presynaptic, segment).
func (tm *TemporalMemory) removeLink(presynaptic Cell, ref SegmentRef) {
	links := tm.synapseIndex[presynaptic]
	delete(links, ref)
	if len(links) == 0 {
		delete(tm.synapseIndex, presynaptic)
	}
}

// allocateSegment finds the slot for a new segment on the cell: the first
// empty slot if one exists, a fresh slot while under the per-cell budget,
// or the least recently used segment otherwise, whose synapses are unlinked
// before the slot is reused.
func (tm *TemporalMemory) allocateSegment(cell Cell) (SegmentRef, *Segment) {
	segments := tm.segmentsByCell[cell]

	for i, segment := range segments {
		if len(segment.synapses) == 0 {
			segment.lastUsed = tm.iteration
			return SegmentRef{Cell: cell, Segment: i}, segment
		}
	}

	if len(segments) < tm.config.MaxSegmentsPerCell {
		segment := &Segment{cell: cell, lastUsed: tm.iteration}
		tm.segmentsByCell[cell] = append(segments, segment)
		return SegmentRef{Cell: cell, Segment: len(segments)}, segment
	}

	victim := 0
	for i := 1; i < len(segments); i++ {
		if segments[i].recycleKey() < segments[victim].recycleKey() {
			victim = i
		}
	}
	ref := SegmentRef{Cell: cell, Segment: victim}
	segment := segments[victim]
	for _, synapse := range segment.synapses {
		tm.removeLink(synapse.Cell, ref)
	}
	segment.synapses = segment.synapses[:0]
	segment.lastUsed = tm.iteration
	return ref, segment
}

// AddSegment attaches a detached segment to the graph, honoring the
// per-cell segment budget, and registers its synapses in the reverse index.
// Returns the ref of the slot the segment landed in.
func (tm *TemporalMemory) AddSegment(segment *Segment) SegmentRef {
	ref, slot := tm.allocateSegment(segment.cell)
	slot.synapses = append(slot.synapses[:0], segment.synapses...)
	for _, synapse := range slot.synapses {
		tm.setLink(synapse.Cell, ref, synapse.Permanence >= tm.config.ConnectedPermanence)
	}
	return ref
}

// leastUsedCell picks the cell of the column with the fewest segments,
// breaking ties uniformly at random.
func (tm *TemporalMemory) leastUsedCell(column int) Cell {
	min := int(^uint(0) >> 1)
	count := 0
	for cell := 0; cell < tm.config.CellsPerColumn; cell++ {
		size := len(tm.segmentsByCell[Cell{Column: column, Cell: cell}])
		if size < min {
			min = size
			count = 1
		} else if size == min {
			count++
		}
	}
	pick := int(tm.random.NextBounded(int32(count)))
	seen := 0
	for cell := 0; cell < tm.config.CellsPerColumn; cell++ {
		c := Cell{Column: column, Cell: cell}
		if len(tm.segmentsByCell[c]) == min {
			if seen == pick {
				return c
			}
			seen++
		}
	}
	panic("temporal: least used cell selection out of range")
}

// GetCell returns the cell with the given flat index.
func (tm *TemporalMemory) GetCell(flat int) Cell {
	return Cell{Column: flat / tm.config.CellsPerColumn, Cell: flat % tm.config.CellsPerColumn}
}

// CellsPerColumn returns the column height.
func (tm *TemporalMemory) CellsPerColumn() int { return tm.config.CellsPerColumn }

// NumColumns returns the column count.
func (tm *TemporalMemory) NumColumns() int { return tm.columns }

// Iteration returns the learning iteration counter.
func (tm *TemporalMemory) Iteration() uint64 { return tm.iteration }

// Segments returns the segment list of a cell, empty slots included.
func (tm *TemporalMemory) Segments(cell Cell) []*Segment {
	return tm.segmentsByCell[cell]
}

// NumSegments returns the total segment slot count across all cells.
func (tm *TemporalMemory) NumSegments() int {
	total := 0
	for _, segments := range tm.segmentsByCell {
		total += len(segments)
	}
	return total
}

// ActiveCells returns the currently active cells, sorted.
func (tm *TemporalMemory) ActiveCells() []Cell { return sortedCells(tm.activeCells) }

// WinnerCells returns the current winner cells, sorted.
func (tm *TemporalMemory) WinnerCells() []Cell { return sortedCells(tm.winnerCells) }

// PrevWinnerCells returns the previous step's winner cells, sorted.
func (tm *TemporalMemory) PrevWinnerCells() []Cell { return sortedCells(tm.prevWinnerCells) }

// IsWinnerCell reports whether the cell won in the current step.
func (tm *TemporalMemory) IsWinnerCell(cell Cell) bool { return tm.winnerCells.Contains(cell) }

// IsActiveCell reports whether the cell is active in the current step.
func (tm *TemporalMemory) IsActiveCell(cell Cell) bool { return tm.activeCells.Contains(cell) }

// PredictiveCells returns the cells predicted for the next step, mapped to
// the number of active segments predicting each. Callers must not modify
// the returned map.
func (tm *TemporalMemory) PredictiveCells() map[Cell]int { return tm.predictiveCells }

// ActiveSegments returns the active segment scores, sorted by ref.
func (tm *TemporalMemory) ActiveSegments() []SegmentScore { return tm.segmentsActive }

// MatchingSegments returns the matching segment scores, sorted by ref.
func (tm *TemporalMemory) MatchingSegments() []SegmentScore { return tm.segmentsMatching }

// Metrics reports behavioral counters for the instance.
func (tm *TemporalMemory) Metrics() htm.TemporalMemoryMetrics {
	return htm.TemporalMemoryMetrics{
		Iterations:      int64(tm.iteration),
		SegmentCount:    tm.NumSegments(),
		ActiveCells:     len(tm.activeCells),
		WinnerCells:     len(tm.winnerCells),
		PredictiveCells: len(tm.predictiveCells),
	}
}

func sortedCells(set CellSet) []Cell {
	cells := make([]Cell, 0, len(set))
	for cell := range set {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Less(cells[j]) })
	return cells
}
