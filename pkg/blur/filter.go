// Package blur implements the two band-restricted smoothing filters: a uniform
// 15x15 box filter and a weighted 5x5 Gaussian filter.
//
// Both filters read from a snapshot of the raster taken before the band is
// touched, write into a scratch buffer, and copy the scratch buffer back into
// the band's rows only after every output pixel has been computed. Every
// output pixel therefore depends only on the band's pre-filter state, which
// also makes row-parallel evaluation safe.
package blur

import (
	"sync"

	"bandblur/internal/models"
	"bandblur/pkg/sampler"
)

// Kind selects one of the two filters
type Kind int

const (
	// Box is the uniform mean filter over a 15x15 footprint
	Box Kind = iota
	// Gaussian is the 5x5 binomial filter normalised by 256
	Gaussian
)

// String returns the filter name
func (k Kind) String() string {
	switch k {
	case Box:
		return "box"
	case Gaussian:
		return "gaussian"
	default:
		return "unknown"
	}
}

// Options controls how a filter is evaluated. It never changes the result.
type Options struct {
	// Workers is the number of goroutines sharing the rows of a band.
	// Values below 1 mean one.
	Workers int
}

func (o Options) workers(rows int) int {
	w := o.Workers
	if w < 1 {
		w = 1
	}
	if w > rows {
		w = rows
	}
	return w
}

// Apply runs the filter over rows [band.Start, band.End) of r
func (k Kind) Apply(r *models.Raster, band models.Band, opts Options) {
	switch k {
	case Box:
		convolve(r, band, opts, boxPixel)
	case Gaussian:
		convolve(r, band, opts, gaussianPixel)
	}
}

// pixelFunc computes one output pixel from the snapshot
type pixelFunc func(src *models.Raster, region sampler.Region, x, y int) models.RGB

// convolve is the snapshot / scratch / commit engine shared by both filters
func convolve(r *models.Raster, band models.Band, opts Options, fn pixelFunc) {
	band = band.Clamp(r.Height)
	if band.Empty() || r.Width == 0 {
		return
	}

	snapshot := r.Clone()
	region := sampler.Region{Width: r.Width, Band: band}
	stride := r.Width * models.Channels
	scratch := make([]uint8, band.Rows()*stride)

	computeRows := func(start, end int) {
		for y := start; y < end; y++ {
			row := scratch[(y-band.Start)*stride : (y-band.Start+1)*stride]
			for x := 0; x < r.Width; x++ {
				c := fn(snapshot, region, x, y)
				i := x * models.Channels
				row[i] = c.R
				row[i+1] = c.G
				row[i+2] = c.B
			}
		}
	}

	numWorkers := opts.workers(band.Rows())
	if numWorkers == 1 {
		computeRows(band.Start, band.End)
	} else {
		var wg sync.WaitGroup
		rowsPerWorker := (band.Rows() + numWorkers - 1) / numWorkers

		for w := 0; w < numWorkers; w++ {
			start := band.Start + w*rowsPerWorker
			end := min(start+rowsPerWorker, band.End)
			if start >= end {
				break
			}

			wg.Add(1)
			go func(start, end int) {
				defer wg.Done()
				computeRows(start, end)
			}(start, end)
		}

		wg.Wait()
	}

	copy(r.Rows(band), scratch)
}
