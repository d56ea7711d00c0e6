package classifier

import (
	"gonum.org/v1/gonum/stat"
)

// Scaler centers and scales feature vectors to zero mean and unit variance
// per dimension, using the statistics of the vectors it was fitted on.
type Scaler struct {
	Mean  []float64
	Scale []float64
}

// FitScaler computes per-dimension mean and standard deviation over samples.
// All samples must share the same length.
func FitScaler(samples [][]float64) *Scaler {
	dims := len(samples[0])
	s := &Scaler{
		Mean:  make([]float64, dims),
		Scale: make([]float64, dims),
	}

	column := make([]float64, len(samples))
	for d := 0; d < dims; d++ {
		for i, sample := range samples {
			column[i] = sample[d]
		}
		mean, std := stat.MeanStdDev(column, nil)
		s.Mean[d] = mean
		// A constant dimension scales by 1 so it maps to 0, not NaN
		if std == 0 {
			std = 1
		}
		s.Scale[d] = std
	}
	return s
}

// Transform returns a scaled copy of x.
func (s *Scaler) Transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for d := range x {
		out[d] = (x[d] - s.Mean[d]) / s.Scale[d]
	}
	return out
}
