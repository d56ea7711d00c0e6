// Package config loads the screening configuration from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"tumor-screen/internal/classifier"
	"tumor-screen/internal/heuristic"
)

// Classifier configures the adaptive detector.
type Classifier struct {
	Trees       int   `toml:"trees"`
	Seed        int64 `toml:"seed"`
	MinPerClass int   `toml:"min_per_class"`
	MinSamples  int   `toml:"min_samples"`
}

// Heuristic configures the detailed threshold rule.
type Heuristic struct {
	BrightHigh      float64 `toml:"bright_high"`
	BrightLow       float64 `toml:"bright_low"`
	Contrast        float64 `toml:"contrast"`
	EdgeDensity     float64 `toml:"edge_density"`
	TextureVariance float64 `toml:"texture_variance"`
	HistStd         float64 `toml:"hist_std"`
	Decision        int     `toml:"decision"`
}

// Config is the full screening configuration.
type Config struct {
	TrainingDir    string     `toml:"training_dir"`
	HistoryDB      string     `toml:"history_db"`
	PrimaryWeights string     `toml:"primary_weights"`
	Classifier     Classifier `toml:"classifier"`
	Heuristic      Heuristic  `toml:"heuristic"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	th := heuristic.DefaultThresholds()
	cp := classifier.DefaultParams("uploads")
	return Config{
		TrainingDir: cp.TrainingDir,
		HistoryDB:   "screening.db",
		Classifier: Classifier{
			Trees:       cp.Trees,
			Seed:        cp.Seed,
			MinPerClass: cp.MinPerClass,
			MinSamples:  cp.MinSamples,
		},
		Heuristic: Heuristic{
			BrightHigh:      th.BrightHigh,
			BrightLow:       th.BrightLow,
			Contrast:        th.Contrast,
			EdgeDensity:     th.EdgeDensity,
			TextureVariance: th.TextureVariance,
			HistStd:         th.HistStd,
			Decision:        th.Decision,
		},
	}
}

// Load reads the configuration at path on top of the defaults. A missing
// file is not an error: the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if c.TrainingDir == "" {
		return errors.New("training_dir must not be empty")
	}
	if c.Classifier.Trees <= 0 {
		return errors.New("classifier.trees must be positive")
	}
	if c.Classifier.MinPerClass < 1 {
		return errors.New("classifier.min_per_class must be at least 1")
	}
	if c.Classifier.MinSamples < 2*c.Classifier.MinPerClass {
		return errors.New("classifier.min_samples must cover both classes")
	}
	if c.Heuristic.BrightLow >= c.Heuristic.BrightHigh {
		return errors.New("heuristic.bright_low must be below bright_high")
	}
	if c.Heuristic.Decision < 1 {
		return errors.New("heuristic.decision must be at least 1")
	}
	return nil
}

// ClassifierParams converts the configuration into detector parameters.
func (c Config) ClassifierParams() classifier.Params {
	return classifier.Params{
		TrainingDir: c.TrainingDir,
		Trees:       c.Classifier.Trees,
		Seed:        c.Classifier.Seed,
		MinPerClass: c.Classifier.MinPerClass,
		MinSamples:  c.Classifier.MinSamples,
	}
}

// Thresholds converts the configuration into heuristic thresholds.
func (c Config) Thresholds() heuristic.Thresholds {
	return heuristic.Thresholds{
		BrightHigh:      c.Heuristic.BrightHigh,
		BrightLow:       c.Heuristic.BrightLow,
		Contrast:        c.Heuristic.Contrast,
		EdgeDensity:     c.Heuristic.EdgeDensity,
		TextureVariance: c.Heuristic.TextureVariance,
		HistStd:         c.Heuristic.HistStd,
		Decision:        c.Heuristic.Decision,
	}
}
