package blur

import (
	"bandblur/internal/models"
	"bandblur/pkg/sampler"
)

// GaussianRadius is the distance from the centre to the 5x5 footprint edge
const GaussianRadius = 2

// GaussianKernel is the 5x5 binomial weight table, indexed [dy+2][dx+2]
var GaussianKernel = [5][5]uint32{
	{1, 4, 6, 4, 1},
	{4, 16, 24, 16, 4},
	{6, 24, 36, 24, 6},
	{4, 16, 24, 16, 4},
	{1, 4, 6, 4, 1},
}

// GaussianWeightSum is the sum of every weight in GaussianKernel
const GaussianWeightSum = 256

// ApplyGaussianBlur replaces every pixel in rows [startRow, endRow) with the
// weighted sum of its accepted neighbours divided by 256.
//
// The divisor is always the full kernel sum, not the sum of the weights
// actually used, so pixels within two rows of a band edge or two columns of
// the image edge come out darker than interior pixels.
func ApplyGaussianBlur(r *models.Raster, startRow, endRow int) {
	Gaussian.Apply(r, models.Band{Start: startRow, End: endRow}, Options{})
}

func gaussianPixel(src *models.Raster, region sampler.Region, x, y int) models.RGB {
	var sumR, sumG, sumB uint32

	for s := range sampler.Neighborhood(region, x, y, GaussianRadius) {
		w := GaussianKernel[s.DY+GaussianRadius][s.DX+GaussianRadius]
		i := src.Offset(s.X, s.Y)
		sumR += uint32(src.Pix[i]) * w
		sumG += uint32(src.Pix[i+1]) * w
		sumB += uint32(src.Pix[i+2]) * w
	}

	return models.RGB{
		R: uint8(sumR / GaussianWeightSum),
		G: uint8(sumG / GaussianWeightSum),
		B: uint8(sumB / GaussianWeightSum),
	}
}
