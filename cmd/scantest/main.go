// Command scantest classifies a single scan image and prints the result.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	_ "golang.org/x/image/tiff"

	"tumor-screen/internal/classifier"
	"tumor-screen/internal/config"
	"tumor-screen/internal/heuristic"
	"tumor-screen/internal/history"
	"tumor-screen/internal/inference"
	"tumor-screen/internal/report"
	"tumor-screen/internal/version"
)

func main() {
	imagePath := flag.String("image", "", "Path to scan image (PNG, JPEG, or TIFF)")
	configPath := flag.String("config", "screening.toml", "Path to screening config")
	noHistory := flag.Bool("no-history", false, "Skip appending to the classification ledger")
	verbose := flag.Bool("v", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("scantest %s (%s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
		return
	}

	if *imagePath == "" {
		fmt.Println("Usage: scantest -image <path> [-config screening.toml] [-no-history] [-v]")
		os.Exit(1)
	}

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Print basic image info before classification
	f, err := os.Open(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open image: %v\n", err)
		os.Exit(1)
	}
	imgCfg, format, err := image.DecodeConfig(f)
	f.Close()
	if err == nil {
		fmt.Printf("Loaded %s image: %dx%d pixels\n", format, imgCfg.Width, imgCfg.Height)
	} else {
		fmt.Printf("Image format not recognized by the decoder, classifying anyway\n")
	}

	detector := classifier.NewDetector(cfg.ClassifierParams(), nil)
	engine := inference.NewEngine(nil,
		inference.NewPrimaryModel(cfg.PrimaryWeights, nil),
		&inference.AdaptiveTier{Detector: detector},
		&inference.HeuristicTier{Thresholds: cfg.Thresholds()},
		&inference.RandomGuess{Rng: rand.New(rand.NewSource(time.Now().UnixNano()))},
	)

	pred := engine.Classify(*imagePath)

	fmt.Printf("\nResult (tier %q):\n", pred.Tier)
	if pred.Label == heuristic.LabelTumor {
		fmt.Println("  Tumor: PRESENT")
	} else {
		fmt.Println("  Tumor: absent")
	}
	if pred.HasConfidence {
		fmt.Printf("  Confidence: %.2f\n", pred.Confidence)
	}

	var reportID string
	if pred.Label == heuristic.LabelTumor {
		findings := report.NewFindings(rand.New(rand.NewSource(time.Now().UnixNano())))
		reportID = findings.ID
		fmt.Printf("  %s\n", findings)
	}

	if !*noHistory {
		store, err := history.Open(cfg.HistoryDB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open ledger: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		if _, err := store.Append(context.Background(), history.Record{
			ReportID:      reportID,
			ImagePath:     *imagePath,
			Label:         pred.Label,
			Confidence:    pred.Confidence,
			HasConfidence: pred.HasConfidence,
			Tier:          pred.Tier,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to record classification: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nRecorded in %s\n", cfg.HistoryDB)
	}
}
