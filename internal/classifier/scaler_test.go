package classifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tumor-screen/internal/classifier"
)

func TestScaler(t *testing.T) {
	samples := [][]float64{
		{1, 10, 5},
		{2, 20, 5},
		{3, 30, 5},
	}

	s := classifier.FitScaler(samples)

	assert.InDelta(t, 2, s.Mean[0], 1e-9)
	assert.InDelta(t, 20, s.Mean[1], 1e-9)
	assert.InDelta(t, 5, s.Mean[2], 1e-9)

	// Constant dimension keeps scale 1 so it maps to zero
	assert.Equal(t, 1.0, s.Scale[2])
	assert.Equal(t, 0.0, s.Transform([]float64{0, 0, 5})[2])

	// Scaled training data is centered
	var sum [3]float64
	for _, sample := range samples {
		scaled := s.Transform(sample)
		for d, v := range scaled {
			sum[d] += v
		}
	}
	for d := range sum {
		assert.InDelta(t, 0, sum[d], 1e-9)
	}

	// Transform is affine: the mean itself maps to the origin
	origin := s.Transform([]float64{2, 20, 5})
	assert.InDelta(t, 0, origin[0], 1e-9)
	assert.InDelta(t, 0, origin[1], 1e-9)
}
