package temporal

// activateCells walks the active-columns list and the sorted active and
// matching segment lists in a single merged pass over columns, dispatching
// each column by which of the three streams mention it. The pass is
// pull-based: per-column slices are cut from the segment lists as they are
// reached, so the work is proportional to the streams' lengths.
func (tm *TemporalMemory) activateCells(activeColumns []int, learn bool) {
	tm.prevActiveCells, tm.activeCells = tm.activeCells, tm.prevActiveCells
	tm.prevWinnerCells, tm.winnerCells = tm.winnerCells, tm.prevWinnerCells
	tm.activeCells = make(CellSet)
	tm.winnerCells = make(CellSet)

	columnCursor := 0
	activeCursor := 0
	matchingCursor := 0

	for {
		column, ok := tm.nextColumn(activeColumns, columnCursor, activeCursor, matchingCursor)
		if !ok {
			break
		}

		activeColumn := columnCursor < len(activeColumns) && activeColumns[columnCursor] == column
		if activeColumn {
			columnCursor++
		}

		activeRun := segmentRun(tm.segmentsActive, activeCursor, column)
		matchingRun := segmentRun(tm.segmentsMatching, matchingCursor, column)
		activeSegments := tm.segmentsActive[activeCursor:activeRun]
		matchingSegments := tm.segmentsMatching[matchingCursor:matchingRun]
		activeCursor = activeRun
		matchingCursor = matchingRun

		switch {
		case activeColumn && len(activeSegments) > 0:
			tm.activatePredictedColumn(activeSegments, learn)
		case activeColumn && len(matchingSegments) > 0:
			tm.burstColumnMatching(column, matchingSegments, learn)
		case activeColumn:
			tm.burstColumnUnmatched(column, learn)
		default:
			tm.punishPredictedColumn(matchingSegments, learn)
		}
	}
}

// nextColumn returns the smallest column any of the three cursors points at.
func (tm *TemporalMemory) nextColumn(activeColumns []int, columnCursor, activeCursor, matchingCursor int) (int, bool) {
	column := -1
	consider := func(c int) {
		if column == -1 || c < column {
			column = c
		}
	}
	if columnCursor < len(activeColumns) {
		consider(activeColumns[columnCursor])
	}
	if activeCursor < len(tm.segmentsActive) {
		consider(tm.segmentsActive[activeCursor].Ref.Cell.Column)
	}
	if matchingCursor < len(tm.segmentsMatching) {
		consider(tm.segmentsMatching[matchingCursor].Ref.Cell.Column)
	}
	return column, column != -1
}

// segmentRun returns the end of the run of scores for the given column
// starting at cursor.
func segmentRun(scores []SegmentScore, cursor, column int) int {
	for cursor < len(scores) && scores[cursor].Ref.Cell.Column == column {
		cursor++
	}
	return cursor
}

// activatePredictedColumn activates the owner of every active segment in
// the column. On a learning step each such segment is reinforced against
// the previous activation and grows toward the previous winners, aiming at
// MaxNewSynapseCount total potential overlap.
func (tm *TemporalMemory) activatePredictedColumn(activeSegments []SegmentScore, learn bool) {
	for _, score := range activeSegments {
		tm.activeCells.Add(score.Ref.Cell)
		tm.winnerCells.Add(score.Ref.Cell)
		if !learn {
			continue
		}
		segment := tm.segment(score.Ref)
		tm.adaptSegment(score.Ref, segment, tm.prevActiveCells,
			tm.config.PermanenceIncrement, tm.config.PermanenceDecrement)
		desired := tm.config.MaxNewSynapseCount - score.Matched
		if desired > 0 {
			tm.growSynapses(score.Ref, segment, tm.prevWinnerCells, desired, tm.random)
		}
	}
}

// burstColumnMatching activates every cell in an unpredicted column that
// still has a matching segment. The best-matching segment's owner becomes
// the winner; on a learning step that segment is reinforced and grown.
func (tm *TemporalMemory) burstColumnMatching(column int, matchingSegments []SegmentScore, learn bool) {
	tm.burst(column)

	best := matchingSegments[0]
	for _, score := range matchingSegments[1:] {
		if score.Matched > best.Matched {
			best = score
		}
	}
	tm.winnerCells.Add(best.Ref.Cell)

	if learn {
		segment := tm.segment(best.Ref)
		tm.adaptSegment(best.Ref, segment, tm.prevActiveCells,
			tm.config.PermanenceIncrement, tm.config.PermanenceDecrement)
		desired := tm.config.MaxNewSynapseCount - best.Matched
		if desired > 0 {
			tm.growSynapses(best.Ref, segment, tm.prevWinnerCells, desired, tm.random)
		}
	}
}

// burstColumnUnmatched activates every cell in a column nothing predicted.
// The least-used cell wins; on a learning step it receives a fresh segment
// grown toward the previous winners, provided there are any.
func (tm *TemporalMemory) burstColumnUnmatched(column int, learn bool) {
	tm.burst(column)

	cell := tm.leastUsedCell(column)
	tm.winnerCells.Add(cell)

	if !learn {
		return
	}
	desired := tm.config.MaxNewSynapseCount
	if len(tm.prevWinnerCells) < desired {
		desired = len(tm.prevWinnerCells)
	}
	if desired > 0 {
		ref, segment := tm.allocateSegment(cell)
		tm.growSynapses(ref, segment, tm.prevWinnerCells, desired, tm.random)
	}
}

// punishPredictedColumn weakens the matching segments of a column that was
// predicted but failed to activate. Disabled when the punishment decrement
// is zero.
func (tm *TemporalMemory) punishPredictedColumn(matchingSegments []SegmentScore, learn bool) {
	if tm.config.PredictedSegmentDecrement <= 0 {
		return
	}
	for _, score := range matchingSegments {
		tm.adaptSegment(score.Ref, tm.segment(score.Ref), tm.prevActiveCells,
			-tm.config.PredictedSegmentDecrement, 0)
	}
}

func (tm *TemporalMemory) burst(column int) {
	for cell := 0; cell < tm.config.CellsPerColumn; cell++ {
		tm.activeCells.Add(Cell{Column: column, Cell: cell})
	}
}
