package pipeline

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"bandblur/internal/models"
)

// BandMetrics summarises how processing changed one band.
// Channel arrays are indexed R, G, B.
type BandMetrics struct {
	Position models.BandPosition
	Band     models.Band

	// Filter names the filter applied to the band, or "none"
	Filter string

	MeanBefore   [3]float64
	MeanAfter    [3]float64
	StdDevBefore [3]float64
	StdDevAfter  [3]float64

	// RMSE is the root mean square difference over all channels of the band
	RMSE float64
}

// CalculateBandMetrics compares before and after band by band. The marker
// rows are included in the band that contains them.
func CalculateBandMetrics(before, after *models.Raster, layout models.BandLayout) []BandMetrics {
	filters := map[models.BandPosition]string{
		models.Top:    "none",
		models.Middle: "none",
		models.Bottom: "none",
	}
	for _, s := range stages {
		filters[s.position] = s.filter.String()
	}

	result := make([]BandMetrics, 0, 3)
	for _, pos := range []models.BandPosition{models.Top, models.Middle, models.Bottom} {
		band := layout.Band(pos)
		m := BandMetrics{Position: pos, Band: band, Filter: filters[pos]}

		if !band.Empty() && before.Width > 0 {
			b := before.Rows(band)
			a := after.Rows(band)
			for c := 0; c < models.Channels; c++ {
				cb := channel(b, c)
				ca := channel(a, c)
				m.MeanBefore[c], m.StdDevBefore[c] = meanStdDev(cb)
				m.MeanAfter[c], m.StdDevAfter[c] = meanStdDev(ca)
			}
			m.RMSE = calculateRMSE(toFloat(b), toFloat(a))
		}

		result = append(result, m)
	}
	return result
}

// channel extracts one channel of packed RGB bytes as float64
func channel(pix []uint8, c int) []float64 {
	out := make([]float64, 0, len(pix)/models.Channels)
	for i := c; i < len(pix); i += models.Channels {
		out = append(out, float64(pix[i]))
	}
	return out
}

// meanStdDev is stat.MeanStdDev with a zero deviation for single samples
func meanStdDev(x []float64) (mean, std float64) {
	if len(x) < 2 {
		return stat.Mean(x, nil), 0
	}
	return stat.MeanStdDev(x, nil)
}

func toFloat(pix []uint8) []float64 {
	out := make([]float64, len(pix))
	for i, v := range pix {
		out[i] = float64(v)
	}
	return out
}

// calculateRMSE returns the root mean square error between two equal-length samples
func calculateRMSE(original, processed []float64) float64 {
	if len(original) == 0 || len(original) != len(processed) {
		return 0
	}
	return floats.Distance(original, processed, 2) / math.Sqrt(float64(len(original)))
}
