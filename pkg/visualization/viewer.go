package visualization

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"bandblur/internal/models"
	"bandblur/pkg/codec"
)

// Viewer crops the bands of a processed raster into separate images
type Viewer struct {
	// source holds the full processed image
	source *image.RGBA

	// layout is the band partition the raster was processed with
	layout models.BandLayout
}

// NewViewer creates a viewer over r using the given band layout
func NewViewer(r *models.Raster, layout models.BandLayout) *Viewer {
	return &Viewer{
		source: codec.ToImage(r),
		layout: layout,
	}
}

// ExtractBand copies the rows of one band into a new image
func (v *Viewer) ExtractBand(pos models.BandPosition) (*image.RGBA, error) {
	band := v.layout.Band(pos)
	if band.Empty() {
		return nil, fmt.Errorf("%s band is empty", pos)
	}

	width := v.source.Bounds().Dx()
	if width == 0 {
		return nil, fmt.Errorf("image has zero width")
	}

	img := image.NewRGBA(image.Rect(0, 0, width, band.Rows()))
	draw.Copy(img, image.Point{}, v.source, image.Rect(0, band.Start, width, band.End), draw.Src, nil)

	return img, nil
}

// SaveBand writes an extracted band image; the extension selects the format
func (v *Viewer) SaveBand(img image.Image, filename string) error {
	return codec.Save(codec.FromImage(img), filename, codec.Options{})
}

// SaveBandSequence extracts and saves band_top.png, band_middle.png and
// band_bottom.png into outputDir. Empty bands are skipped.
func (v *Viewer) SaveBandSequence(outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, err
	}

	var saved []string
	for _, pos := range []models.BandPosition{models.Top, models.Middle, models.Bottom} {
		if v.layout.Band(pos).Empty() {
			continue
		}

		img, err := v.ExtractBand(pos)
		if err != nil {
			return saved, err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("band_%s.png", pos))
		if err := v.SaveBand(img, filename); err != nil {
			return saved, err
		}
		saved = append(saved, filename)
	}

	return saved, nil
}
