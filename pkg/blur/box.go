package blur

import (
	"bandblur/internal/models"
	"bandblur/pkg/sampler"
)

const (
	// BoxSize is the side of the square box footprint
	BoxSize = 15
	// BoxRadius is the distance from the centre to the footprint edge
	BoxRadius = BoxSize / 2
)

// ApplyBoxBlur replaces every pixel in rows [startRow, endRow) with the
// truncated mean of its accepted neighbours in a 15x15 footprint.
// The divisor is the number of neighbours actually read, so pixels near an
// edge of the band or image average over fewer samples.
func ApplyBoxBlur(r *models.Raster, startRow, endRow int) {
	Box.Apply(r, models.Band{Start: startRow, End: endRow}, Options{})
}

func boxPixel(src *models.Raster, region sampler.Region, x, y int) models.RGB {
	var sumR, sumG, sumB, count uint32

	for s := range sampler.Neighborhood(region, x, y, BoxRadius) {
		i := src.Offset(s.X, s.Y)
		sumR += uint32(src.Pix[i])
		sumG += uint32(src.Pix[i+1])
		sumB += uint32(src.Pix[i+2])
		count++
	}

	// the centre pixel is always accepted, count >= 1
	return models.RGB{
		R: uint8(sumR / count),
		G: uint8(sumG / count),
		B: uint8(sumB / count),
	}
}
