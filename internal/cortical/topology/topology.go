// Package topology implements multi-dimensional index arithmetic for the
// cortical algorithms: conversion between flat indices and per-dimension
// coordinates, and enumeration of bounded or wrapping neighborhoods.
package topology

// maxDimensions bounds the number of axes a topology may have. Neighborhood
// iteration keeps per-axis cursors in fixed arrays sized by this constant.
const maxDimensions = 8

// Topology describes a fixed multi-dimensional space. It is immutable after
// construction.
type Topology struct {
	dimensions []int
	strides    []int
	size       int
}

// New creates a topology over the given per-dimension extents. Panics if
// there are no dimensions or more than the supported maximum.
func New(dimensions []int) *Topology {
	if len(dimensions) == 0 || len(dimensions) > maxDimensions {
		panic("topology: dimension count out of range")
	}
	t := &Topology{
		dimensions: append([]int(nil), dimensions...),
		strides:    make([]int, len(dimensions)),
		size:       1,
	}
	n := len(dimensions)
	t.strides[n-1] = 1
	holder := 1
	for i := 1; i < n; i++ {
		holder *= dimensions[n-i]
		t.strides[n-1-i] = holder
	}
	for _, d := range dimensions {
		t.size *= d
	}
	return t
}

// Dimensions returns the per-dimension extents.
func (t *Topology) Dimensions() []int { return t.dimensions }

// Size returns the product of all dimension extents.
func (t *Topology) Size() int { return t.size }

// Coordinates decomposes a flat index into per-dimension coordinates,
// filling and returning into (allocating when into is too small).
func (t *Topology) Coordinates(index int, into []int) []int {
	if cap(into) < len(t.strides) {
		into = make([]int, len(t.strides))
	}
	into = into[:len(t.strides)]
	for i, stride := range t.strides {
		into[i] = index / stride
		index %= stride
	}
	return into
}

// Index composes per-dimension coordinates back into a flat index.
func (t *Topology) Index(coordinates []int) int {
	acc := 0
	for i, c := range coordinates {
		acc += c * t.strides[i]
	}
	return acc
}

// Distance returns the Chebyshev distance between two flat indices.
func (t *Topology) Distance(a, b int) int {
	max := 0
	ca := t.Coordinates(a, nil)
	cb := t.Coordinates(b, nil)
	for i := range ca {
		d := ca[i] - cb[i]
		if d < 0 {
			d = -d
		}
		if d > max {
			max = d
		}
	}
	return max
}

// axisCursor walks one dimension of a neighborhood. Bounds are kept as raw
// (possibly negative or past-extent) coordinates; Next applies the wrap.
type axisCursor struct {
	lower, upper int // half-open raw coordinate range
	index        int
	extent       int
}

func (c *axisCursor) next() (int, bool) {
	if c.index >= c.upper {
		return 0, false
	}
	v := c.index % c.extent
	if v < 0 {
		v += c.extent
	}
	c.index++
	return v, true
}

func (c *axisCursor) reset() { c.index = c.lower }

// NeighborhoodIterator enumerates the flat indices inside the axis-aligned
// box of a given radius around a center index. With wrapping the box wraps
// modulo each extent (without ever visiting an index twice per axis); without
// wrapping it is clipped to the space.
type NeighborhoodIterator struct {
	topology *Topology
	cursors  [maxDimensions]axisCursor
	coords   [maxDimensions]int
	depth    int
	dims     int
	total    int
	started  bool
}

// Neighborhood returns an iterator over the neighborhood of center with the
// given radius.
func (t *Topology) Neighborhood(center, radius int, wrap bool) *NeighborhoodIterator {
	it := &NeighborhoodIterator{topology: t, dims: len(t.dimensions), total: 1}
	coords := t.Coordinates(center, nil)
	for i, dim := range t.dimensions {
		c := coords[i]
		var lower, upper int
		if wrap {
			lower = c - radius
			upper = c + radius + 1
			if limit := c - radius + dim; upper > limit {
				upper = limit
			}
		} else {
			lower = c - radius
			if lower < 0 {
				lower = 0
			}
			upper = c + radius + 1
			if upper > dim {
				upper = dim
			}
		}
		it.cursors[i] = axisCursor{lower: lower, upper: upper, index: lower, extent: dim}
		it.total *= upper - lower
	}
	return it
}

// NeighborhoodSize returns the number of indices the neighborhood contains.
func (t *Topology) NeighborhoodSize(center, radius int, wrap bool) int {
	return t.Neighborhood(center, radius, wrap).Size()
}

// Size returns the exact number of indices the iterator will produce.
func (it *NeighborhoodIterator) Size() int { return it.total }

// Next returns the next flat index in the neighborhood, or false when the
// enumeration is exhausted. Indices are produced in row-major order of the
// (possibly wrapped) per-axis coordinates.
func (it *NeighborhoodIterator) Next() (int, bool) {
	for {
		for it.depth < it.dims-1 {
			v, ok := it.cursors[it.depth].next()
			if !ok {
				it.cursors[it.depth].reset()
				if it.depth == 0 {
					return 0, false
				}
				it.depth--
				continue
			}
			it.coords[it.depth] = v
			it.depth++
		}
		v, ok := it.cursors[it.depth].next()
		if !ok {
			it.cursors[it.depth].reset()
			if it.depth == 0 {
				return 0, false
			}
			it.depth--
			continue
		}
		it.coords[it.depth] = v
		return it.topology.Index(it.coords[:it.dims]), true
	}
}

// Collect drains the iterator into a slice. Intended for tests and small
// neighborhoods.
func (it *NeighborhoodIterator) Collect() []int {
	out := make([]int, 0, it.total)
	for {
		v, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}
