package spatial

import "sort"

// inhibitColumns selects the winner columns for the current step. The
// effective density comes from LocalAreaDensity when set, otherwise from the
// configured winner count per inhibition area, capped at 0.5.
func (sp *SpatialPooler) inhibitColumns() {
	density := sp.config.LocalAreaDensity
	if density <= 0 {
		inhibitionArea := intPow(2*sp.inhibitionRadius+1, len(sp.config.ColumnDimensions))
		if inhibitionArea > sp.numColumns {
			inhibitionArea = sp.numColumns
		}
		density = sp.config.NumActiveColumnsPerInhArea / float64(inhibitionArea)
		if density > 0.5 {
			density = 0.5
		}
	}

	if sp.config.GlobalInhibition || sp.inhibitionRadius > maxDimension(sp.config.ColumnDimensions) {
		sp.inhibitColumnsGlobal(float32(density))
	} else {
		sp.inhibitColumnsLocal(float32(density))
	}
}

// inhibitColumnsGlobal picks the top density*numColumns columns by overlap
// across the whole region. The sort is stable over an initially descending
// index order, so ties resolve toward the higher column index; trailing
// winners below the stimulus threshold are dropped.
func (sp *SpatialPooler) inhibitColumnsGlobal(density float32) {
	numActive := int(density * float32(sp.numColumns))

	sp.winnerColumns = sp.winnerColumns[:0]
	for i := 0; i < sp.numColumns; i++ {
		sp.winnerColumns = append(sp.winnerColumns, sp.numColumns-i-1)
	}
	sort.SliceStable(sp.winnerColumns, func(i, j int) bool {
		return sp.overlaps[sp.winnerColumns[i]] > sp.overlaps[sp.winnerColumns[j]]
	})

	for numActive > 0 {
		if sp.overlaps[sp.winnerColumns[numActive-1]] >= sp.config.StimulusThreshold {
			break
		}
		numActive--
	}
	sp.winnerColumns = sp.winnerColumns[:numActive]
}

// inhibitColumnsLocal lets every column above the stimulus threshold compete
// against its neighborhood. A column wins when fewer than the area's winner
// quota of neighbors beat its score; winners get a small tie-breaking bump so
// later neighbors must strictly exceed them.
func (sp *SpatialPooler) inhibitColumnsLocal(density float32) {
	maxOverlap := float32(1.0)
	for i, overlap := range sp.overlaps {
		sp.tieBrokenOverlaps[i] = overlap
		if overlap > maxOverlap {
			maxOverlap = overlap
		}
	}
	addToWinners := maxOverlap / 1000.0

	sp.winnerColumns = sp.winnerColumns[:0]
	for column, overlap := range sp.overlaps {
		if overlap < sp.config.StimulusThreshold {
			continue
		}
		neighborhood := sp.columnTopology.Neighborhood(column, sp.inhibitionRadius, sp.config.WrapAround)
		numTotal := neighborhood.Size()
		numBigger := 0
		for {
			index, ok := neighborhood.Next()
			if !ok {
				break
			}
			if sp.tieBrokenOverlaps[index] > overlap {
				numBigger++
			}
		}
		numActive := int(0.5 + density*float32(numTotal))
		if numBigger < numActive {
			sp.winnerColumns = append(sp.winnerColumns, column)
			sp.tieBrokenOverlaps[column] += addToWinners
		}
	}
}

// updateInhibitionRadius recomputes the inhibition radius from the average
// per-axis spread of each column's connected inputs, scaled by the
// column-to-input dimension ratio. Under global inhibition the radius is
// simply the largest column dimension.
func (sp *SpatialPooler) updateInhibitionRadius() {
	if sp.config.GlobalInhibition {
		sp.inhibitionRadius = maxDimension(sp.config.ColumnDimensions)
		return
	}

	dims := len(sp.config.InputDimensions)
	maxCoord := make([]int, dims)
	minCoord := make([]int, dims)
	maxDim := maxDimension(sp.config.InputDimensions)
	coords := make([]int, dims)

	total := 0.0
	for column := 0; column < sp.numColumns; column++ {
		connected := sp.pool.ConnectedByColumn(column)
		if len(connected) == 0 {
			continue
		}
		for i := range maxCoord {
			maxCoord[i] = -1
			minCoord[i] = maxDim
		}
		for _, synapse := range connected {
			coords = sp.inputTopology.Coordinates(synapse.Input, coords)
			for i, c := range coords {
				if c > maxCoord[i] {
					maxCoord[i] = c
				}
				if c < minCoord[i] {
					minCoord[i] = c
				}
			}
		}
		span := 0
		for i := range maxCoord {
			span += maxCoord[i] - minCoord[i] + 1
		}
		total += float64(span) / float64(dims)
	}
	total /= float64(sp.numColumns)

	shared := len(sp.config.ColumnDimensions)
	if len(sp.config.InputDimensions) < shared {
		shared = len(sp.config.InputDimensions)
	}
	avg := 0.0
	for i := 0; i < shared; i++ {
		avg += float64(sp.config.ColumnDimensions[i]) / float64(sp.config.InputDimensions[i])
	}
	avg /= float64(shared)

	radius := (avg*total - 1.0) / 2.0
	if radius < 1.0 {
		sp.inhibitionRadius = 1
	} else {
		sp.inhibitionRadius = int(radius + 0.5)
	}
}

func intPow(base, exp int) int {
	result := 1
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}

func maxDimension(dimensions []int) int {
	max := 0
	for _, d := range dimensions {
		if d > max {
			max = d
		}
	}
	return max
}
