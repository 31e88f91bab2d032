package spatial

// adaptSynapses applies the Hebbian update to every winner column: synapses
// onto active input bits are strengthened, the rest weakened, then the
// column's permanences are raised back to the stimulus threshold, trimmed,
// clamped and re-partitioned.
func (sp *SpatialPooler) adaptSynapses(input []bool) {
	threshold := int(sp.config.StimulusThreshold + 0.5)
	for _, column := range sp.winnerColumns {
		bucket := sp.pool.SynapsesByColumn(column)
		for i := range bucket {
			if bucket[i].Input < len(input) && input[bucket[i].Input] {
				bucket[i].Permanence += sp.config.Permanence.ActiveInc
			} else {
				bucket[i].Permanence -= sp.config.Permanence.InactiveDec
			}
		}
		if sp.pool.UpdatePermanences(column, true, threshold, &sp.config.Permanence) {
			sp.raiseCapEvents++
		}
	}
}

// updateDutyCycles maintains the exponential moving averages of overlap and
// activation per column. Early in a run the effective period is the
// iteration count, so the averages warm up without bias.
func (sp *SpatialPooler) updateDutyCycles() {
	period := float32(sp.config.DutyCyclePeriod)
	if sp.config.DutyCyclePeriod > sp.iterationNum {
		period = float32(sp.iterationNum)
	}

	for i, overlap := range sp.overlaps {
		indicator := float32(0)
		if overlap > 0 {
			indicator = 1
		}
		sp.overlapDutyCycles[i] = (sp.overlapDutyCycles[i]*(period-1) + indicator) / period
	}

	for i := range sp.activeDutyCycles {
		sp.activeDutyCycles[i] = sp.activeDutyCycles[i] * (period - 1) / period
	}
	for _, column := range sp.winnerColumns {
		sp.activeDutyCycles[column] += 1 / period
	}
}

// bumpUpWeakColumns gives every column whose overlap duty cycle fell below
// its minimum a permanence bump on all synapses, so starved columns regain
// the ability to compete.
func (sp *SpatialPooler) bumpUpWeakColumns() {
	threshold := int(sp.config.StimulusThreshold + 0.5)
	for column := 0; column < sp.numColumns; column++ {
		if sp.minOverlapDutyCycles[column] <= sp.overlapDutyCycles[column] {
			continue
		}
		bucket := sp.pool.SynapsesByColumn(column)
		for i := range bucket {
			bucket[i].Permanence += sp.config.Permanence.BelowStimulusInc
		}
		if sp.pool.UpdatePermanences(column, true, threshold, &sp.config.Permanence) {
			sp.raiseCapEvents++
		}
	}
}

// updateBoostFactors recomputes the per-column boost. Columns meeting their
// minimum active duty cycle get no boost; the rest are boosted linearly up
// to MaxBoost as their duty cycle approaches zero. A run with all-zero
// minimums (before the first periodic refresh) leaves the factors untouched.
func (sp *SpatialPooler) updateBoostFactors() {
	hasMinimums := false
	for _, v := range sp.minActiveDutyCycles {
		if v > 0 {
			hasMinimums = true
			break
		}
	}
	if !hasMinimums {
		return
	}
	for i := range sp.boostFactors {
		minActive := sp.minActiveDutyCycles[i]
		active := sp.activeDutyCycles[i]
		if active > minActive {
			sp.boostFactors[i] = 1.0
			continue
		}
		divisor := minActive
		if divisor == 0 {
			divisor = 1.0
		}
		sp.boostFactors[i] = ((1.0-sp.config.MaxBoost)/divisor)*active + sp.config.MaxBoost
	}
}

// updateMinDutyCycles refreshes the per-column duty cycle minimums, globally
// from the region maxima when inhibition is global or the radius spans the
// input space, locally from neighborhood maxima otherwise.
func (sp *SpatialPooler) updateMinDutyCycles() {
	if sp.config.GlobalInhibition || sp.inhibitionRadius > sp.numInputs {
		sp.updateMinDutyCyclesGlobal()
	} else {
		sp.updateMinDutyCyclesLocal()
	}
}

func (sp *SpatialPooler) updateMinDutyCyclesGlobal() {
	minOverlap := sp.config.MinPctOverlapDutyCycles * maxFloat32(sp.overlapDutyCycles)
	minActive := sp.config.MinPctActiveDutyCycles * maxFloat32(sp.activeDutyCycles)
	for i := range sp.minOverlapDutyCycles {
		sp.minOverlapDutyCycles[i] = minOverlap
	}
	for i := range sp.minActiveDutyCycles {
		sp.minActiveDutyCycles[i] = minActive
	}
}

func (sp *SpatialPooler) updateMinDutyCyclesLocal() {
	for column := 0; column < sp.numColumns; column++ {
		neighborhood := sp.columnTopology.Neighborhood(column, sp.inhibitionRadius, sp.config.WrapAround)
		maxActive := float32(0)
		maxOverlap := float32(0)
		for {
			index, ok := neighborhood.Next()
			if !ok {
				break
			}
			if sp.activeDutyCycles[index] > maxActive {
				maxActive = sp.activeDutyCycles[index]
			}
			if sp.overlapDutyCycles[index] > maxOverlap {
				maxOverlap = sp.overlapDutyCycles[index]
			}
		}
		sp.minActiveDutyCycles[column] = sp.config.MinPctActiveDutyCycles * maxActive
		sp.minOverlapDutyCycles[column] = sp.config.MinPctOverlapDutyCycles * maxOverlap
	}
}

func maxFloat32(values []float32) float32 {
	max := float32(0)
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return max
}
