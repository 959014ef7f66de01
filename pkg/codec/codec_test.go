package codec

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"bandblur/internal/models"
	"bandblur/pkg/errors"
)

func patternRaster(width, height int) *models.Raster {
	r := models.NewRaster(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r.Set(x, y, models.RGB{R: uint8(x * 10), G: uint8(y * 10), B: uint8(x + y)})
		}
	}
	return r
}

// TestLosslessRoundTrip saves and reloads through every lossless encoder
func TestLosslessRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := patternRaster(13, 9)

	for _, name := range []string{"out.png", "out.bmp", "out.tiff", "OUT.PNG"} {
		path := filepath.Join(dir, name)
		if err := Save(src, path, Options{}); err != nil {
			t.Fatalf("Save(%s) failed: %v", name, err)
		}

		got, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s) failed: %v", name, err)
		}
		if got.Width != src.Width || got.Height != src.Height {
			t.Fatalf("%s: expected %dx%d, got %dx%d", name, src.Width, src.Height, got.Width, got.Height)
		}
		if !bytes.Equal(got.Pix, src.Pix) {
			t.Errorf("%s: pixel data changed after round trip", name)
		}
	}
}

// TestJPEGRoundTrip checks dimensions survive the lossy encoder
func TestJPEGRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	src := models.NewUniformRaster(16, 8, models.RGB{R: 120, G: 120, B: 120})

	if err := Save(src, path, Options{JPEGQuality: 95}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Width != 16 || got.Height != 8 {
		t.Errorf("Expected 16x8, got %dx%d", got.Width, got.Height)
	}
	c := got.At(8, 4)
	if c.R < 110 || c.R > 130 {
		t.Errorf("Expected grey near 120, got %v", c)
	}
}

// TestDecodeGIF checks a paletted image is converted to RGB
func TestDecodeGIF(t *testing.T) {
	pal := color.Palette{color.RGBA{0, 0, 0, 255}, color.RGBA{200, 10, 30, 255}}
	img := image.NewPaletted(image.Rect(0, 0, 4, 4), pal)
	img.SetColorIndex(1, 2, 1)

	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, nil); err != nil {
		t.Fatalf("gif.Encode failed: %v", err)
	}

	r, format, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if format != "gif" {
		t.Errorf("Expected format gif, got %s", format)
	}
	if got := r.At(1, 2); got != (models.RGB{R: 200, G: 10, B: 30}) {
		t.Errorf("Expected {200 10 30}, got %v", got)
	}
}

// TestFromImageDropsAlpha verifies straight colour is kept and alpha ignored
func TestFromImageDropsAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(2, 3, 5, 5))
	img.SetNRGBA(3, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 0})

	r := FromImage(img)
	if r.Width != 3 || r.Height != 2 {
		t.Fatalf("Expected 3x2, got %dx%d", r.Width, r.Height)
	}
	if got := r.At(1, 1); got != (models.RGB{R: 10, G: 20, B: 30}) {
		t.Errorf("Expected {10 20 30}, got %v", got)
	}

	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.SetGray(1, 0, color.Gray{Y: 77})
	if got := FromImage(gray).At(1, 0); got != (models.RGB{R: 77, G: 77, B: 77}) {
		t.Errorf("Expected {77 77 77}, got %v", got)
	}
}

// TestErrorTaxonomy checks each failure maps to its code
func TestErrorTaxonomy(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.png"))
	if !errors.Is(err, errors.ErrCodeInputNotFound) {
		t.Errorf("Expected INPUT_NOT_FOUND, got %v", err)
	}

	corrupt := filepath.Join(dir, "corrupt.png")
	if err := os.WriteFile(corrupt, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = Load(corrupt)
	if !errors.Is(err, errors.ErrCodeDecodeFailed) {
		t.Errorf("Expected DECODE_FAILED, got %v", err)
	}

	unsupported := filepath.Join(dir, "out.webp")
	err = Save(patternRaster(2, 2), unsupported, Options{})
	if !errors.Is(err, errors.ErrCodeEncodeFailed) {
		t.Errorf("Expected ENCODE_FAILED, got %v", err)
	}
	if _, statErr := os.Stat(unsupported); !os.IsNotExist(statErr) {
		t.Error("Expected no file after an encode failure")
	}

	err = Save(models.NewRaster(0, 0), filepath.Join(dir, "empty.png"), Options{})
	if !errors.Is(err, errors.ErrCodeEncodeFailed) {
		t.Errorf("Expected ENCODE_FAILED for empty raster, got %v", err)
	}

	err = Save(patternRaster(2, 2), filepath.Join(dir, "no", "such", "dir", "out.png"), Options{})
	if !errors.Is(err, errors.ErrCodeWriteFailed) {
		t.Errorf("Expected WRITE_FAILED, got %v", err)
	}
}

// TestFormatFromPath verifies extension mapping
func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path   string
		format Format
		ok     bool
	}{
		{"a.png", PNG, true},
		{"a.JPG", JPEG, true},
		{"a.jpeg", JPEG, true},
		{"dir/a.tif", TIFF, true},
		{"a.webp", WebP, true},
		{"a.bmp", BMP, true},
		{"a.txt", "", false},
		{"noext", "", false},
	}

	for _, tt := range tests {
		f, ok := FormatFromPath(tt.path)
		if f != tt.format || ok != tt.ok {
			t.Errorf("FormatFromPath(%q) = %q, %v; expected %q, %v", tt.path, f, ok, tt.format, tt.ok)
		}
	}
}

// TestSaveKeepsExistingTargetOnFailure makes sure a failed write never
// removes what was already at the output path
func TestSaveKeepsExistingTargetOnFailure(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.png")
	if err := os.Mkdir(target, 0755); err != nil {
		t.Fatal(err)
	}

	err := Save(patternRaster(3, 3), target, Options{})
	if !errors.Is(err, errors.ErrCodeWriteFailed) {
		t.Errorf("Expected WRITE_FAILED, got %v", err)
	}

	info, statErr := os.Stat(target)
	if statErr != nil || !info.IsDir() {
		t.Fatalf("Expected the existing directory to survive, got %v", statErr)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the original entry in %s, got %d entries", dir, len(entries))
	}
}

// TestSaveReplacesExistingFile overwrites a previous result in place
func TestSaveReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	src := patternRaster(4, 4)
	if err := Save(src, path, Options{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !bytes.Equal(got.Pix, src.Pix) {
		t.Error("Expected the new image to replace the old file")
	}
}

// TestCheckOutputPath accepts only encodable extensions
func TestCheckOutputPath(t *testing.T) {
	for _, path := range []string{"a.png", "a.jpg", "a.bmp", "a.tif"} {
		if err := CheckOutputPath(path); err != nil {
			t.Errorf("Expected %s to be accepted, got %v", path, err)
		}
	}
	for _, path := range []string{"a.gif", "a.webp", "a.txt", "noext"} {
		if err := CheckOutputPath(path); !errors.Is(err, errors.ErrCodeEncodeFailed) {
			t.Errorf("Expected ENCODE_FAILED for %s, got %v", path, err)
		}
	}
}

// TestFromImageRounds16Bit rounds deep channels instead of truncating
func TestFromImageRounds16Bit(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 3, 1))
	img.SetGray16(0, 0, color.Gray16{Y: 0x00ff})
	img.SetGray16(1, 0, color.Gray16{Y: 0xffff})
	img.SetGray16(2, 0, color.Gray16{Y: 0x8080})

	r := FromImage(img)

	tests := []struct {
		x    int
		want uint8
	}{
		{0, 1},   // 255*255/65535 = 0.99
		{1, 255}, // full scale
		{2, 128}, // exact 8-bit value widened by 0x101
	}
	for _, tt := range tests {
		if got := r.At(tt.x, 0).R; got != tt.want {
			t.Errorf("Expected %d at x=%d, got %d", tt.want, tt.x, got)
		}
	}
}
