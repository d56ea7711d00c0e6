// Command trainlab trains the adaptive detector over a directory of
// filename-labeled scans and reports what it found.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"tumor-screen/internal/classifier"
	"tumor-screen/internal/config"
)

func main() {
	dir := flag.String("dir", "", "Directory of labeled scans (Y_*/tumor* positive, N_*/no* negative)")
	configPath := flag.String("config", "screening.toml", "Path to screening config")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	trainDir := cfg.TrainingDir
	if *dir != "" {
		trainDir = *dir
	}

	detector := classifier.NewDetector(cfg.ClassifierParams(), nil)
	stats, err := detector.Train(trainDir)
	if err != nil {
		if errors.Is(err, classifier.ErrInsufficientData) {
			fmt.Printf("Not enough labeled images in %s for training\n", trainDir)
			fmt.Printf("Need at least %d per class and %d usable scans overall\n",
				cfg.Classifier.MinPerClass, cfg.Classifier.MinSamples)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Training failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Trained on %d scans from %s\n", stats.Tumor+stats.Clear, trainDir)
	fmt.Printf("  Tumor:   %d\n", stats.Tumor)
	fmt.Printf("  Clear:   %d\n", stats.Clear)
	if stats.Skipped > 0 {
		fmt.Printf("  Skipped: %d (feature extraction failed)\n", stats.Skipped)
	}
}
