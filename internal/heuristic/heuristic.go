// Package heuristic scores scans with fixed threshold rules, no training step.
package heuristic

import (
	"math/rand"

	"tumor-screen/internal/features"
)

// Labels produced by every predictor in the pipeline.
const (
	LabelClear = 0 // no tumor
	LabelTumor = 1
)

// Thresholds holds the fixed decision thresholds for the detailed rule.
type Thresholds struct {
	BrightHigh      float64 // +1 when mean brightness exceeds this
	BrightLow       float64 // -1 when mean brightness falls below this
	Contrast        float64 // +1 when std brightness exceeds this
	EdgeDensity     float64 // +1 when edge density exceeds this
	TextureVariance float64 // +1 when texture variance exceeds this
	HistStd         float64 // +1 when histogram std exceeds this
	Decision        int     // minimum score for a tumor call
}

// DefaultThresholds returns the standard detailed-mode thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		BrightHigh:      120,
		BrightLow:       80,
		Contrast:        40,
		EdgeDensity:     0.1,
		TextureVariance: 500,
		HistStd:         2000,
		Decision:        2,
	}
}

// SimpleContrast is the contrast threshold of the simple two-feature rule,
// looser than the detailed rule's.
const SimpleContrast = 30

// Score computes the raw integer score of the detailed rule. It is a pure
// function of the vector and thresholds.
func Score(v *features.Vector, th Thresholds) int {
	score := 0
	if v.MeanBrightness > th.BrightHigh {
		score++
	} else if v.MeanBrightness < th.BrightLow {
		score--
	}
	if v.StdBrightness > th.Contrast {
		score++
	}
	if v.EdgeDensity > th.EdgeDensity {
		score++
	}
	if v.TextureVariance > th.TextureVariance {
		score++
	}
	if v.HistStd > th.HistStd {
		score++
	}
	return score
}

// Classify applies the detailed rule and returns LabelTumor when the score
// reaches the decision threshold.
func Classify(v *features.Vector, th Thresholds) int {
	if Score(v, th) >= th.Decision {
		return LabelTumor
	}
	return LabelClear
}

// SimpleClassify applies the two-feature rule used when no feature vector is
// available: bright high-contrast scans read as tumor, dark scans as clear.
// In the uncertain band it returns a coin flip from rng.
func SimpleClassify(brightness, contrast float64, rng *rand.Rand) int {
	th := DefaultThresholds()
	switch {
	case brightness > th.BrightHigh && contrast > SimpleContrast:
		return LabelTumor
	case brightness < th.BrightLow:
		return LabelClear
	default:
		return rng.Intn(2)
	}
}
