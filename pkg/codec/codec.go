// Package codec converts between image files and models.Raster.
//
// Decoding accepts PNG, JPEG, GIF, BMP, TIFF and WebP. Encoding writes PNG,
// JPEG, BMP or TIFF, chosen from the output file extension. Every decoded
// image is converted to 8-bit RGB by dropping the alpha channel.
package codec

import (
	"bytes"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"bandblur/internal/models"
	"bandblur/pkg/errors"
)

// Format is an image file format
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
	WebP Format = "webp"
)

// DefaultJPEGQuality is used when Options.JPEGQuality is unset
const DefaultJPEGQuality = 90

// Options controls encoding
type Options struct {
	// JPEGQuality is the JPEG quality in [1, 100]
	JPEGQuality int
}

// FormatFromPath picks a format from the file extension
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, true
	case ".jpg", ".jpeg":
		return JPEG, true
	case ".gif":
		return GIF, true
	case ".bmp":
		return BMP, true
	case ".tif", ".tiff":
		return TIFF, true
	case ".webp":
		return WebP, true
	default:
		return "", false
	}
}

// CanEncode reports whether Encode supports f
func CanEncode(f Format) bool {
	switch f {
	case PNG, JPEG, BMP, TIFF:
		return true
	default:
		return false
	}
}

// Load reads and decodes the image at path
func Load(path string) (*models.Raster, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInputNotFound, err, "cannot open %s", path)
	}
	defer file.Close()

	r, _, err := Decode(file)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Decode reads an image in any registered format and returns it as a raster
// together with the detected format name
func Decode(rd io.Reader) (*models.Raster, string, error) {
	img, format, err := image.Decode(rd)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeDecodeFailed, err, "cannot decode image")
	}
	return FromImage(img), format, nil
}

// CheckOutputPath reports an ENCODE_FAILED error when the extension of path
// does not name a format Save can write
func CheckOutputPath(path string) error {
	format, ok := FormatFromPath(path)
	if !ok || !CanEncode(format) {
		return errors.New(errors.ErrCodeEncodeFailed, "unsupported output format %q", filepath.Ext(path))
	}
	return nil
}

// Save encodes r in the format implied by the extension of path and writes
// it. The image is encoded fully in memory, written to a temporary file next
// to path and renamed into place, so a failure never leaves a partial file
// and never touches whatever already exists at path.
func Save(r *models.Raster, path string, opts Options) error {
	if err := CheckOutputPath(path); err != nil {
		return err
	}
	format, _ := FormatFromPath(path)

	var buf bytes.Buffer
	if err := Encode(&buf, r, format, opts); err != nil {
		return err
	}

	if err := writeFile(path, buf.Bytes()); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "cannot write %s", path)
	}
	return nil
}

// writeFile replaces path with data via a temporary file in the same
// directory. Only the temporary file is removed on failure.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Encode writes r to w in the given format
func Encode(w io.Writer, r *models.Raster, format Format, opts Options) error {
	if r.Width == 0 || r.Height == 0 {
		return errors.New(errors.ErrCodeEncodeFailed, "cannot encode empty %dx%d image", r.Width, r.Height)
	}

	img := ToImage(r)

	var err error
	switch format {
	case PNG:
		err = png.Encode(w, img)
	case JPEG:
		quality := opts.JPEGQuality
		if quality <= 0 {
			quality = DefaultJPEGQuality
		}
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: min(quality, 100)})
	case BMP:
		err = bmp.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return errors.New(errors.ErrCodeEncodeFailed, "unsupported output format %q", format)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeEncodeFailed, err, "cannot encode %s", format)
	}
	return nil
}

// FromImage converts any image to an RGB raster. Alpha is discarded without
// compositing; colour values are taken non-premultiplied. Sources with more
// than 8 bits per channel are rounded to the nearest 8-bit value.
func FromImage(img image.Image) *models.Raster {
	b := img.Bounds()
	r := models.NewRaster(b.Dx(), b.Dy())

	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < r.Height; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			dst := r.Row(y)
			for x := 0; x < r.Width; x++ {
				dst[x*3] = row[x*4]
				dst[x*3+1] = row[x*4+1]
				dst[x*3+2] = row[x*4+2]
			}
		}
		return r
	}

	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			c := color.NRGBA64Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA64)
			r.Set(x, y, models.RGB{R: to8(c.R), G: to8(c.G), B: to8(c.B)})
		}
	}
	return r
}

// to8 rounds a 16-bit channel to 8 bits. 8-bit values widened by 0x101 map
// back exactly.
func to8(v uint16) uint8 {
	return uint8((uint32(v)*255 + 32767) / 65535)
}

// ToImage converts a raster to an opaque *image.RGBA
func ToImage(r *models.Raster) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		src := r.Row(y)
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < r.Width; x++ {
			dst[x*4] = src[x*3]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 0xff
		}
	}
	return img
}
