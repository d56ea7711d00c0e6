// Package testimages writes synthetic scan images for tests.
package testimages

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"
)

// WritePNG writes a w x h grayscale PNG at path, with the intensity of each
// pixel given by fn.
func WritePNG(t *testing.T, path string, w, h int, fn func(x, y int) uint8) {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: fn(x, y)})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

// WriteUniform writes a PNG filled with a single intensity.
func WriteUniform(t *testing.T, path string, w, h int, value uint8) {
	t.Helper()
	WritePNG(t, path, w, h, func(int, int) uint8 { return value })
}

// WriteChecker writes a PNG with a checkerboard of the two intensities,
// alternating every cell pixels.
func WriteChecker(t *testing.T, path string, w, h, cell int, a, b uint8) {
	t.Helper()
	WritePNG(t, path, w, h, func(x, y int) uint8 {
		if (x/cell+y/cell)%2 == 0 {
			return a
		}
		return b
	})
}
