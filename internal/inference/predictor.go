// Package inference orders the prediction strategies into a fallback chain:
// primary deep model, adaptive detector, threshold heuristic, random guess.
package inference

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"tumor-screen/internal/classifier"
	"tumor-screen/internal/features"
	"tumor-screen/internal/heuristic"
)

// ErrUnavailable signals that a predictor cannot produce a label for this
// invocation and the next tier should be consulted.
var ErrUnavailable = errors.New("inference: predictor unavailable")

// Prediction is the outcome of a classification.
type Prediction struct {
	Label         int     // 1 = tumor present, 0 = clear
	Confidence    float64 // probability of the winning label
	HasConfidence bool    // only the adaptive tier computes a confidence
	Tier          string  // name of the tier that produced the label
}

// Predictor is one tier of the fallback chain.
type Predictor interface {
	Name() string
	// TryPredict returns a prediction, or an error wrapping ErrUnavailable
	// when this tier cannot serve the request.
	TryPredict(path string) (Prediction, error)
}

// InferFunc is the contract of an external deep model: preprocessed image in,
// label out.
type InferFunc func(path string) (int, error)

// PrimaryModel wraps the external deep model. It is available only when both
// an inference function and its weights file are present; the weights probe
// keeps absence cheap to detect.
type PrimaryModel struct {
	weightsPath string
	infer       InferFunc
}

// NewPrimaryModel builds the primary tier. Either argument may be empty/nil,
// leaving the tier permanently unavailable.
func NewPrimaryModel(weightsPath string, infer InferFunc) *PrimaryModel {
	return &PrimaryModel{weightsPath: weightsPath, infer: infer}
}

// Available reports whether the model can be consulted at all.
func (p *PrimaryModel) Available() bool {
	if p.infer == nil || p.weightsPath == "" {
		return false
	}
	_, err := os.Stat(p.weightsPath)
	return err == nil
}

func (p *PrimaryModel) Name() string { return "primary" }

func (p *PrimaryModel) TryPredict(path string) (Prediction, error) {
	if !p.Available() {
		return Prediction{}, ErrUnavailable
	}
	label, err := p.infer(path)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: primary model: %v", ErrUnavailable, err)
	}
	return Prediction{Label: label}, nil
}

// AdaptiveTier wraps the trained detector. The detector degrades internally,
// so any outcome it produces is final; the tier is unavailable only when no
// detector was constructed at all.
type AdaptiveTier struct {
	Detector *classifier.Detector
}

func (a *AdaptiveTier) Name() string { return "adaptive" }

func (a *AdaptiveTier) TryPredict(path string) (Prediction, error) {
	if a.Detector == nil {
		return Prediction{}, ErrUnavailable
	}
	res := a.Detector.Predict(path)
	return Prediction{
		Label:         res.Label,
		Confidence:    res.Confidence,
		HasConfidence: res.FromModel,
	}, nil
}

// HeuristicTier applies the detailed threshold rule to freshly extracted
// features.
type HeuristicTier struct {
	Thresholds heuristic.Thresholds
}

func (h *HeuristicTier) Name() string { return "heuristic" }

func (h *HeuristicTier) TryPredict(path string) (Prediction, error) {
	v, err := features.Extract(path)
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return Prediction{Label: heuristic.Classify(v, h.Thresholds)}, nil
}

// RandomGuess is the last resort: an unbiased coin flip.
type RandomGuess struct {
	Rng *rand.Rand
}

func (r *RandomGuess) Name() string { return "random" }

func (r *RandomGuess) TryPredict(string) (Prediction, error) {
	return Prediction{Label: r.Rng.Intn(2)}, nil
}
