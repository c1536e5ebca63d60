package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/DanilovKZN/Fitness-tracker/fitsource"
	"github.com/DanilovKZN/Fitness-tracker/internal/config"
	"github.com/DanilovKZN/Fitness-tracker/internal/logging"
	"github.com/DanilovKZN/Fitness-tracker/pipeline"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to a TOML config file")
		weightKG   = flag.Float64("weight", 0, "Athlete weight in kg (overrides config)")
		heightCM   = flag.Float64("height", 0, "Athlete height in cm, used for walking sessions (overrides config)")
		outDir     = flag.String("out", "", "Output directory (overrides config)")
		format     = flag.String("format", "", "Report table format: json|csv|parquet (overrides config)")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <activity.fit>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	logging.Setup(logging.Params{
		LogFileName:   cfg.LogFile,
		LogToStderr:   true,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogJSON,
	})

	athlete := fitsource.Athlete{WeightKG: cfg.Athlete.WeightKG, HeightCM: cfg.Athlete.HeightCM}
	if *weightKG > 0 {
		athlete.WeightKG = *weightKG
	}
	if *heightCM > 0 {
		athlete.HeightCM = *heightCM
	}
	if athlete.WeightKG == 0 {
		log.Warn("athlete weight not set; every session will be rejected (use --weight or FITNESS_WEIGHT_KG)")
	}

	opts := pipeline.Options{
		FitPaths:  flag.Args(),
		Athlete:   athlete,
		OutDir:    cfg.OutDir,
		Format:    cfg.Format,
		Overwrite: cfg.Overwrite,
	}
	if *outDir != "" {
		opts.OutDir = *outDir
	}
	if *format != "" {
		opts.Format = *format
	}

	result, err := pipeline.Run(opts)
	if err != nil {
		log.WithError(err).Error("fit_report failed")
		os.Exit(1)
	}

	for _, r := range result.Reports.Reports {
		fmt.Printf("%s: %s\n", r.Source, r.Message())
	}
	for _, w := range result.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	if result.OutputDir != "" {
		fmt.Printf("Output dir: %s\n", result.OutputDir)
	}
}
