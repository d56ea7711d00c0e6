// Package classifier trains a random-forest tumor detector from labeled
// images already present in a working directory and predicts labels with a
// confidence score. Labels come from filename convention, never from pixel
// content.
package classifier

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"

	randomforest "github.com/malaschitz/randomForest"
	"github.com/rs/zerolog/log"

	"tumor-screen/internal/features"
	"tumor-screen/internal/heuristic"
)

// ErrInsufficientData is returned by Train when the directory does not hold
// enough labeled images for both classes.
var ErrInsufficientData = errors.New("classifier: insufficient training data")

// Params configures the detector.
type Params struct {
	TrainingDir string // directory scanned for filename-labeled images
	Trees       int    // forest size
	Seed        int64  // seed for reproducible training
	MinPerClass int    // minimum labeled images per class
	MinSamples  int    // minimum successful feature extractions overall
}

// DefaultParams returns the standard detector parameters.
func DefaultParams(trainingDir string) Params {
	return Params{
		TrainingDir: trainingDir,
		Trees:       100,
		Seed:        42,
		MinPerClass: 2,
		MinSamples:  4,
	}
}

// Result is the outcome of a single prediction.
type Result struct {
	Label      int
	Confidence float64 // max class probability; meaningful only when FromModel
	FromModel  bool    // true when the trained forest produced the label
}

// TrainStats summarizes a successful training run.
type TrainStats struct {
	Tumor   int // feature vectors labeled tumor
	Clear   int // feature vectors labeled clear
	Skipped int // labeled images whose extraction failed
}

// Detector owns the fitted scaler and forest. It starts untrained, becomes
// trained through Train (called explicitly or lazily by Predict), and keeps
// its state for the lifetime of the process only.
type Detector struct {
	mu      sync.Mutex
	params  Params
	scaler  *Scaler
	forest  *randomforest.Forest
	trained bool
	rng     *rand.Rand
}

// NewDetector creates an untrained detector. The rng feeds the uncertain
// band of the simple fallback; tests inject a seeded source.
func NewDetector(params Params, rng *rand.Rand) *Detector {
	if rng == nil {
		rng = rand.New(rand.NewSource(params.Seed))
	}
	return &Detector{params: params, rng: rng}
}

// Trained reports whether the detector holds a fitted model.
func (d *Detector) Trained() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.trained
}

// Train scans the training directory, extracts features from every
// filename-labeled image, and fits the scaler and forest. It returns
// ErrInsufficientData when either class has fewer than MinPerClass images or
// fewer than MinSamples extractions succeed; the detector then stays
// untrained. Training is serialized with prediction.
func (d *Detector) Train(dir string) (TrainStats, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.train(dir)
}

func (d *Detector) train(dir string) (TrainStats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return TrainStats{}, fmt.Errorf("scan training dir: %w", err)
	}

	type candidate struct {
		path  string
		label int
	}
	var candidates []candidate
	perClass := [2]int{}
	for _, entry := range entries {
		if entry.IsDir() || !isImageFile(entry.Name()) {
			continue
		}
		label, ok := LabelForFilename(entry.Name())
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{
			path:  filepath.Join(dir, entry.Name()),
			label: label,
		})
		perClass[label]++
	}

	log.Info().
		Str("dir", dir).
		Int("tumor", perClass[1]).
		Int("clear", perClass[0]).
		Msg("labeled training images found")

	if perClass[0] < d.params.MinPerClass || perClass[1] < d.params.MinPerClass {
		return TrainStats{}, ErrInsufficientData
	}

	var (
		samples [][]float64
		labels  []int
		stats   TrainStats
	)
	for _, c := range candidates {
		v, err := features.Extract(c.path)
		if err != nil {
			log.Warn().Err(err).Str("image", c.path).Msg("skipping training image")
			stats.Skipped++
			continue
		}
		samples = append(samples, v.Slice())
		labels = append(labels, c.label)
		if c.label == heuristic.LabelTumor {
			stats.Tumor++
		} else {
			stats.Clear++
		}
	}

	if len(samples) < d.params.MinSamples {
		return TrainStats{}, ErrInsufficientData
	}

	scaler := FitScaler(samples)
	scaled := make([][]float64, len(samples))
	for i, s := range samples {
		scaled[i] = scaler.Transform(s)
	}

	// The forest library draws from the process-global source; pin it so
	// repeated training runs grow the same trees.
	rand.Seed(d.params.Seed)
	forest := &randomforest.Forest{}
	forest.Data = randomforest.ForestData{X: scaled, Class: labels}
	forest.Train(d.params.Trees)

	d.scaler = scaler
	d.forest = forest
	d.trained = true

	log.Info().
		Int("samples", len(samples)).
		Int("tumor", stats.Tumor).
		Int("clear", stats.Clear).
		Int("trees", d.params.Trees).
		Msg("detector trained")

	return stats, nil
}

// Predict classifies the image at path. An untrained detector trains itself
// first; when training or feature extraction fails it degrades to the simple
// brightness/contrast rule, and an unreadable image degrades to a coin flip.
// No failure propagates to the caller.
func (d *Detector) Predict(path string) Result {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.trained {
		if _, err := d.train(d.params.TrainingDir); err != nil {
			log.Debug().Err(err).Msg("lazy training failed, using simple rule")
			return d.simpleFallback(path)
		}
	}

	v, err := features.Extract(path)
	if err != nil {
		log.Debug().Err(err).Str("image", path).Msg("extraction failed, using simple rule")
		return d.simpleFallback(path)
	}

	votes := d.forest.Vote(d.scaler.Transform(v.Slice()))
	label := heuristic.LabelClear
	confidence := votes[heuristic.LabelClear]
	if len(votes) > heuristic.LabelTumor && votes[heuristic.LabelTumor] > confidence {
		label = heuristic.LabelTumor
		confidence = votes[heuristic.LabelTumor]
	}
	return Result{Label: label, Confidence: confidence, FromModel: true}
}

// simpleFallback applies the two-feature rule, or a coin flip when even the
// intensity statistics cannot be computed.
func (d *Detector) simpleFallback(path string) Result {
	mean, std, err := features.Intensity(path)
	if err != nil {
		return Result{Label: d.rng.Intn(2)}
	}
	return Result{Label: heuristic.SimpleClassify(mean, std, d.rng)}
}
