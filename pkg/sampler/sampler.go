// Package sampler enumerates the neighbours of a pixel that a convolution
// kernel is allowed to read.
//
// Columns are clamped to the whole raster width. Rows are clamped to the
// active band, so a pixel next to a band edge never reads from the
// neighbouring band. Rejected offsets are simply skipped: there is no
// wraparound, mirroring or zero padding.
package sampler

import (
	"iter"

	"bandblur/internal/models"
)

// Sample is one accepted neighbour. X and Y are raster coordinates, DX and DY
// the offset from the centre pixel.
type Sample struct {
	X, Y   int
	DX, DY int
}

// Region is the rectangle samples must fall in: columns [0, Width) and rows
// [Band.Start, Band.End).
type Region struct {
	Width int
	Band  models.Band
}

// Accepts reports whether (x, y) lies inside the region
func (r Region) Accepts(x, y int) bool {
	return x >= 0 && x < r.Width && y >= r.Band.Start && y < r.Band.End
}

// Neighborhood yields every accepted neighbour of (x, y) within a square
// footprint of the given radius, row by row from the top-left offset.
// The centre pixel is always yielded when it lies inside the region.
func Neighborhood(region Region, x, y, radius int) iter.Seq[Sample] {
	return func(yield func(Sample) bool) {
		for dy := -radius; dy <= radius; dy++ {
			ny := y + dy
			if ny < region.Band.Start || ny >= region.Band.End {
				continue
			}
			for dx := -radius; dx <= radius; dx++ {
				nx := x + dx
				if nx < 0 || nx >= region.Width {
					continue
				}
				if !yield(Sample{X: nx, Y: ny, DX: dx, DY: dy}) {
					return
				}
			}
		}
	}
}

// Count returns the number of accepted neighbours of (x, y)
func Count(region Region, x, y, radius int) int {
	n := 0
	for range Neighborhood(region, x, y, radius) {
		n++
	}
	return n
}
