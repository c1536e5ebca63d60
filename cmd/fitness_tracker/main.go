package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	fitness "github.com/DanilovKZN/Fitness-tracker"
	"github.com/DanilovKZN/Fitness-tracker/internal/config"
	"github.com/DanilovKZN/Fitness-tracker/internal/logging"
	"github.com/DanilovKZN/Fitness-tracker/pipeline"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to a TOML config file")
		packetsPath = flag.String("packets", "", "Path to a JSON file of packets; demo packets are used when omitted")
		outDir      = flag.String("out", "", "Output directory (overrides config)")
		format      = flag.String("format", "", "Report table format: json|csv|parquet (overrides config)")
		jsonOut     = flag.Bool("json", false, "Print reports as JSON instead of text")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [--packets packets.json] [--out outdir] [--format json|csv|parquet]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
		printPacketLayouts(flag.CommandLine.Output())
	}
	flag.Parse()

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

	opts := pipeline.Options{
		PacketsPath: *packetsPath,
		Demo:        *packetsPath == "",
		OutDir:      cfg.OutDir,
		Format:      cfg.Format,
		Overwrite:   cfg.Overwrite,
	}
	if *outDir != "" {
		opts.OutDir = *outDir
	}
	if *format != "" {
		opts.Format = *format
	}

	result, err := pipeline.Run(opts)
	if err != nil {
		log.WithError(err).Error("fitness_tracker failed")
		os.Exit(1)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.Reports); err != nil {
			log.WithError(err).Error("json encode failed")
			os.Exit(1)
		}
	} else {
		for _, r := range result.Reports.Reports {
			fmt.Println(r.Message())
		}
	}

	if result.OutputDir != "" {
		fmt.Fprintf(os.Stderr, "reports.json:  %s\n", result.ReportsPath)
		if result.TablePath != "" {
			fmt.Fprintf(os.Stderr, "table:         %s\n", result.TablePath)
		}
		fmt.Fprintf(os.Stderr, "summary:       %s\n", result.SummaryPath)
	}
	if result.Accepted == 0 {
		os.Exit(1)
	}
}

func printPacketLayouts(w io.Writer) {
	fmt.Fprintln(w, "\nPacket layouts ({\"code\": ..., \"data\": [...]}):")
	for _, code := range fitness.Codes() {
		fields, _ := fitness.Schema(code)
		fmt.Fprintf(w, "  %s: %s\n", code, strings.Join(fields, ", "))
	}
}
