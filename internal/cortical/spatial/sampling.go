package spatial

import (
	"github.com/htm-project/htm-core/internal/cortical/rng"
	"github.com/htm-project/htm-core/internal/cortical/topology"
)

// sampleInto draws a uniform sample of amount indices from the neighborhood
// by classical reservoir sampling. The sample occupies the front of buffer;
// the returned slice aliases it.
func sampleInto(random *rng.Universal, neighborhood *topology.NeighborhoodIterator, amount int, buffer []int) []int {
	items := 0
	for items < amount {
		v, ok := neighborhood.Next()
		if !ok {
			return buffer[:items]
		}
		buffer[items] = v
		items++
	}
	for i := 0; ; i++ {
		v, ok := neighborhood.Next()
		if !ok {
			break
		}
		k := int(random.NextBounded(int32(i + 1 + amount)))
		if k < amount {
			buffer[k] = v
		}
	}
	return buffer[:items]
}

// sampleIntoCompat materializes the entire neighborhood into buffer, then
// repeatedly picks a random index in the remaining range and rotates that
// element to the end. The last amount entries form the sample. The index
// sequence matches the NuPIC-lineage samplers draw for draw, which the
// deterministic fixtures rely on.
func sampleIntoCompat(random *rng.Universal, neighborhood *topology.NeighborhoodIterator, amount int, buffer []int) []int {
	items := 0
	for {
		v, ok := neighborhood.Next()
		if !ok {
			break
		}
		buffer[items] = v
		items++
	}
	finalSize := amount
	if items < finalSize {
		finalSize = items
	}
	upper := items
	for i := 0; i < finalSize; i++ {
		randomIdx := int(random.NextBounded(int32(upper)))
		tmp := buffer[randomIdx]
		copy(buffer[randomIdx:upper-1], buffer[randomIdx+1:upper])
		upper--
		buffer[upper] = tmp
	}
	return buffer[items-finalSize : items]
}
