// Package features extracts a fixed-length numeric summary from a scan image.
package features

import (
	"fmt"
	"image"
	"math"
	"math/cmplx"
	"sort"

	"github.com/mjibson/go-dsp/fft"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Count is the number of features in a Vector.
const Count = 16

// Canny thresholds and blur kernel used for edge and texture features.
const (
	cannyLow   = 50
	cannyHigh  = 150
	blurKernel = 5
	binThresh  = 127
)

// Vector holds the extracted features for one scan. Field order matches the
// order produced by Slice; training and prediction both depend on it.
type Vector struct {
	// Intensity statistics over the grayscale image
	MeanBrightness float64
	StdBrightness  float64 // contrast
	Variance       float64
	MaxIntensity   float64
	MinIntensity   float64

	// Statistics over the 256-bin intensity histogram counts
	HistMean float64
	HistStd  float64
	HistP25  float64
	HistP75  float64

	// Fraction of pixels marked by the Canny edge detector
	EdgeDensity float64

	// Residual against a 5x5 box blur
	TextureMean     float64
	TextureStd      float64
	TextureVariance float64

	// Largest external contour area over total image area (0 if none)
	ContourAreaRatio float64

	// Log-magnitude spectrum of the 2D FFT
	FFTMean float64
	FFTStd  float64
}

// Slice returns the features in their documented order.
func (v *Vector) Slice() []float64 {
	return []float64{
		v.MeanBrightness, v.StdBrightness, v.Variance, v.MaxIntensity, v.MinIntensity,
		v.HistMean, v.HistStd, v.HistP25, v.HistP75,
		v.EdgeDensity,
		v.TextureMean, v.TextureStd, v.TextureVariance,
		v.ContourAreaRatio,
		v.FFTMean, v.FFTStd,
	}
}

// Extract loads the image at path and computes its feature vector.
// It returns a nil vector and an error when the image cannot be read or any
// feature computation fails; it never returns a partially filled vector.
func Extract(path string) (v *Vector, err error) {
	// gocv panics rather than erroring on malformed mats
	defer func() {
		if r := recover(); r != nil {
			v = nil
			err = fmt.Errorf("extract features from %s: %v", path, r)
		}
	}()

	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		return nil, fmt.Errorf("read image %s: no decodable data", path)
	}
	defer img.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	rows, cols := gray.Rows(), gray.Cols()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("read image %s: zero-sized image", path)
	}
	total := float64(rows * cols)

	pixels := matToFloats(gray)

	v = &Vector{}

	// Intensity statistics
	v.MeanBrightness = stat.Mean(pixels, nil)
	v.StdBrightness = stat.StdDev(pixels, nil)
	v.Variance = stat.Variance(pixels, nil)
	v.MaxIntensity = floats.Max(pixels)
	v.MinIntensity = floats.Min(pixels)

	// Histogram statistics over the bin counts
	counts, err := histogram(gray)
	if err != nil {
		return nil, fmt.Errorf("extract features from %s: %w", path, err)
	}
	v.HistMean = stat.Mean(counts, nil)
	v.HistStd = stat.StdDev(counts, nil)
	v.HistP25 = percentile(counts, 0.25)
	v.HistP75 = percentile(counts, 0.75)

	// Edge density
	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, cannyLow, cannyHigh)
	v.EdgeDensity = float64(gocv.CountNonZero(edges)) / total

	// Texture: residual against a box-blurred copy
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.Blur(gray, &blurred, image.Pt(blurKernel, blurKernel))
	blurPixels := matToFloats(blurred)
	residual := make([]float64, len(pixels))
	for i := range residual {
		residual[i] = pixels[i] - blurPixels[i]
	}
	v.TextureMean = stat.Mean(residual, nil)
	v.TextureStd = stat.StdDev(residual, nil)
	v.TextureVariance = stat.Variance(residual, nil)

	// Largest external contour after binarizing at mid-range
	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(gray, &thresh, binThresh, 255, gocv.ThresholdBinary)
	contours := gocv.FindContours(thresh, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()
	var largest float64
	for i := 0; i < contours.Size(); i++ {
		if area := gocv.ContourArea(contours.At(i)); area > largest {
			largest = area
		}
	}
	v.ContourAreaRatio = largest / total

	// Frequency domain: log-magnitude spectrum statistics
	grid := make([][]float64, rows)
	for y := 0; y < rows; y++ {
		grid[y] = pixels[y*cols : (y+1)*cols]
	}
	spectrum := fft.FFT2Real(grid)
	mags := make([]float64, 0, rows*cols)
	for _, row := range spectrum {
		for _, c := range row {
			mags = append(mags, math.Log(cmplx.Abs(c)+1))
		}
	}
	v.FFTMean = stat.Mean(mags, nil)
	v.FFTStd = stat.StdDev(mags, nil)

	return v, nil
}

// matToFloats copies a single-channel 8-bit mat into a float slice, row-major.
func matToFloats(m gocv.Mat) []float64 {
	data := m.ToBytes()
	out := make([]float64, len(data))
	for i, b := range data {
		out[i] = float64(b)
	}
	return out
}

// histogram computes the 256-bin intensity histogram of a grayscale mat and
// returns the bin counts.
func histogram(gray gocv.Mat) ([]float64, error) {
	hist := gocv.NewMat()
	defer hist.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	gocv.CalcHist([]gocv.Mat{gray}, []int{0}, mask, &hist, []int{256}, []float64{0, 256}, false)
	if hist.Rows() != 256 {
		return nil, fmt.Errorf("histogram: got %d bins, want 256", hist.Rows())
	}

	counts := make([]float64, hist.Rows())
	for i := range counts {
		counts[i] = float64(hist.GetFloatAt(i, 0))
	}
	return counts, nil
}

// percentile returns the p-quantile (0..1) of xs with linear interpolation.
func percentile(xs []float64, p float64) float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.LinInterp, sorted, nil)
}
