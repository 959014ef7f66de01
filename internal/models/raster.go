package models

// RGB is a single 8-bit colour triple
type RGB struct {
	R, G, B uint8
}

// Channels is the number of bytes per pixel in a Raster
const Channels = 3

// Raster is an owned 2D grid of RGB pixels
type Raster struct {
	// Width is the number of columns
	Width int

	// Height is the number of rows
	Height int

	// Pix holds the pixels in row-major order, three bytes (R, G, B) per pixel.
	// len(Pix) == Width*Height*Channels
	Pix []uint8
}

// NewRaster allocates a black raster of the given dimensions
func NewRaster(width, height int) *Raster {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*Channels),
	}
}

// NewUniformRaster allocates a raster with every pixel set to c
func NewUniformRaster(width, height int, c RGB) *Raster {
	r := NewRaster(width, height)
	r.Fill(c)
	return r
}

// Offset returns the index of the red byte of pixel (x, y) in Pix
func (r *Raster) Offset(x, y int) int {
	return (y*r.Width + x) * Channels
}

// At returns the colour at (x, y)
func (r *Raster) At(x, y int) RGB {
	i := r.Offset(x, y)
	return RGB{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2]}
}

// Set writes the colour at (x, y)
func (r *Raster) Set(x, y int, c RGB) {
	i := r.Offset(x, y)
	r.Pix[i] = c.R
	r.Pix[i+1] = c.G
	r.Pix[i+2] = c.B
}

// Row returns the bytes of row y. The slice aliases Pix.
func (r *Raster) Row(y int) []uint8 {
	stride := r.Width * Channels
	return r.Pix[y*stride : (y+1)*stride]
}

// Rows returns the bytes of rows [band.Start, band.End). The slice aliases Pix.
func (r *Raster) Rows(band Band) []uint8 {
	stride := r.Width * Channels
	return r.Pix[band.Start*stride : band.End*stride]
}

// Fill sets every pixel to c
func (r *Raster) Fill(c RGB) {
	for i := 0; i+2 < len(r.Pix); i += Channels {
		r.Pix[i] = c.R
		r.Pix[i+1] = c.G
		r.Pix[i+2] = c.B
	}
}

// Clone returns a deep copy of the raster
func (r *Raster) Clone() *Raster {
	pix := make([]uint8, len(r.Pix))
	copy(pix, r.Pix)
	return &Raster{Width: r.Width, Height: r.Height, Pix: pix}
}

// Contains reports whether (x, y) lies inside the raster
func (r *Raster) Contains(x, y int) bool {
	return x >= 0 && x < r.Width && y >= 0 && y < r.Height
}

// Band is a half-open row range [Start, End) within a raster.
// 0 <= Start <= End <= Height.
type Band struct {
	Start int
	End   int
}

// Rows returns the number of rows in the band
func (b Band) Rows() int {
	return b.End - b.Start
}

// Empty reports whether the band has no rows
func (b Band) Empty() bool {
	return b.End <= b.Start
}

// Contains reports whether row y lies inside the band
func (b Band) Contains(y int) bool {
	return y >= b.Start && y < b.End
}

// Clamp restricts the band to [0, height)
func (b Band) Clamp(height int) Band {
	if b.Start < 0 {
		b.Start = 0
	}
	if b.End > height {
		b.End = height
	}
	if b.End < b.Start {
		b.End = b.Start
	}
	return b
}

// BandPosition identifies one of the three horizontal bands
type BandPosition int

const (
	Top BandPosition = iota
	Middle
	Bottom
)

// String returns the lowercase band name
func (p BandPosition) String() string {
	switch p {
	case Top:
		return "top"
	case Middle:
		return "middle"
	case Bottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// BandLayout is the partition of a raster's height into three bands.
// FirstCut and SecondCut are computed once and shared by the filters and the
// marker lines so the two can never disagree.
type BandLayout struct {
	Height    int
	FirstCut  int
	SecondCut int
}

// NewBandLayout computes height/3 and 2*height/3 with integer division
func NewBandLayout(height int) BandLayout {
	if height < 0 {
		height = 0
	}
	return BandLayout{
		Height:    height,
		FirstCut:  height / 3,
		SecondCut: 2 * height / 3,
	}
}

// Band returns the row range of the given band position
func (l BandLayout) Band(p BandPosition) Band {
	switch p {
	case Top:
		return Band{Start: 0, End: l.FirstCut}
	case Middle:
		return Band{Start: l.FirstCut, End: l.SecondCut}
	default:
		return Band{Start: l.SecondCut, End: l.Height}
	}
}

// Bands returns the top, middle and bottom bands in order
func (l BandLayout) Bands() [3]Band {
	return [3]Band{l.Band(Top), l.Band(Middle), l.Band(Bottom)}
}
