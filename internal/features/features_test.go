package features_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tumor-screen/internal/features"
	"tumor-screen/internal/testimages"
)

func TestExtractUniformBright(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uniform.png")
	testimages.WriteUniform(t, path, 64, 64, 200)

	v, err := features.Extract(path)
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Len(t, v.Slice(), features.Count)

	assert.InDelta(t, 200, v.MeanBrightness, 0.001)
	assert.InDelta(t, 0, v.StdBrightness, 0.001)
	assert.InDelta(t, 0, v.Variance, 0.001)
	assert.Equal(t, 200.0, v.MaxIntensity)
	assert.Equal(t, 200.0, v.MinIntensity)

	// A flat image has no edges and no texture
	assert.Equal(t, 0.0, v.EdgeDensity)
	assert.InDelta(t, 0, v.TextureVariance, 0.001)

	// Everything binarizes to white, so the largest contour spans the image
	assert.Greater(t, v.ContourAreaRatio, 0.9)
}

func TestExtractUniformDark(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dark.png")
	testimages.WriteUniform(t, path, 64, 64, 50)

	v, err := features.Extract(path)
	require.NoError(t, err)

	// Nothing above the binarization threshold: no contours at all
	assert.Equal(t, 0.0, v.ContourAreaRatio)
	assert.InDelta(t, 50, v.MeanBrightness, 0.001)
}

func TestExtractChecker(t *testing.T) {
	dir := t.TempDir()
	checker := filepath.Join(dir, "checker.png")
	flat := filepath.Join(dir, "flat.png")
	testimages.WriteChecker(t, checker, 64, 64, 8, 30, 220)
	testimages.WriteUniform(t, flat, 64, 64, 125)

	cv, err := features.Extract(checker)
	require.NoError(t, err)
	fv, err := features.Extract(flat)
	require.NoError(t, err)

	assert.Greater(t, cv.EdgeDensity, fv.EdgeDensity)
	assert.Greater(t, cv.StdBrightness, fv.StdBrightness)
	assert.Greater(t, cv.TextureVariance, fv.TextureVariance)
}

func TestSliceOrder(t *testing.T) {
	v := &features.Vector{
		MeanBrightness: 1, StdBrightness: 2, Variance: 3, MaxIntensity: 4, MinIntensity: 5,
		HistMean: 6, HistStd: 7, HistP25: 8, HistP75: 9,
		EdgeDensity: 10,
		TextureMean: 11, TextureStd: 12, TextureVariance: 13,
		ContourAreaRatio: 14,
		FFTMean:          15, FFTStd: 16,
	}
	expected := make([]float64, features.Count)
	for i := range expected {
		expected[i] = float64(i + 1)
	}
	assert.Equal(t, expected, v.Slice())
}

func TestExtractFailures(t *testing.T) {
	tests := map[string]func(t *testing.T) string{
		"missing file": func(t *testing.T) string {
			return filepath.Join(t.TempDir(), "nope.png")
		},
		"not an image": func(t *testing.T) string {
			path := filepath.Join(t.TempDir(), "junk.png")
			require.NoError(t, os.WriteFile(path, []byte("not image data"), 0o644))
			return path
		},
	}

	for name, setup := range tests {
		t.Run(name, func(t *testing.T) {
			v, err := features.Extract(setup(t))
			assert.Error(t, err)
			assert.Nil(t, v)
		})
	}
}

func TestIntensity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uniform.png")
	testimages.WriteUniform(t, path, 32, 32, 180)

	mean, std, err := features.Intensity(path)
	require.NoError(t, err)
	assert.InDelta(t, 180, mean, 0.001)
	assert.InDelta(t, 0, std, 0.001)

	_, _, err = features.Intensity(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
