// Package overlay draws the band boundary markers on a processed raster.
package overlay

import "bandblur/internal/models"

var (
	// FirstCutColor marks the boundary between the top and middle bands
	FirstCutColor = models.RGB{R: 255, G: 0, B: 0}
	// SecondCutColor marks the boundary between the middle and bottom bands
	SecondCutColor = models.RGB{R: 0, G: 0, B: 255}
)

// Marker is a full-width horizontal line
type Marker struct {
	Row   int
	Color models.RGB
}

// Markers returns the two marker lines for a layout, red first then blue
func Markers(layout models.BandLayout) []Marker {
	return []Marker{
		{Row: layout.FirstCut, Color: FirstCutColor},
		{Row: layout.SecondCut, Color: SecondCutColor},
	}
}

// AddVisualIndicators draws a red line at row height/3 and a blue line at row
// 2*height/3. When both rows coincide the blue line wins.
func AddVisualIndicators(r *models.Raster) {
	Draw(r, models.NewBandLayout(r.Height))
}

// Draw paints the markers of layout onto r in order. Rows outside the raster
// are skipped.
func Draw(r *models.Raster, layout models.BandLayout) {
	for _, m := range Markers(layout) {
		DrawLine(r, m)
	}
}

// DrawLine overwrites every pixel of row m.Row with m.Color
func DrawLine(r *models.Raster, m Marker) {
	if m.Row < 0 || m.Row >= r.Height {
		return
	}
	row := r.Row(m.Row)
	for i := 0; i+2 < len(row); i += models.Channels {
		row[i] = m.Color.R
		row[i+1] = m.Color.G
		row[i+2] = m.Color.B
	}
}
