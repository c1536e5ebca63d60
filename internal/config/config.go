// Package config centralises runtime configuration for the fitness tracker tools.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config captures runtime configuration values.
type Config struct {
	LogLevel  string `toml:"log_level"`
	LogFile   string `toml:"log_file"`
	LogJSON   bool   `toml:"log_json"`
	OutDir    string `toml:"out_dir"`
	Format    string `toml:"format"` // json|csv|parquet
	Overwrite bool   `toml:"overwrite"`

	Athlete Athlete `toml:"athlete"`
}

// Athlete holds the body measurements applied to FIT sessions.
type Athlete struct {
	WeightKG float64 `toml:"weight_kg"`
	HeightCM float64 `toml:"height_cm"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() Config {
	return Config{
		LogLevel:  "info",
		Format:    "json",
		Overwrite: true,
	}
}

// Load builds the configuration: defaults, then an optional .env file, then
// the TOML file at path (if non-empty), then FITNESS_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if strings.TrimSpace(path) != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	cfg.LogLevel = getEnv("FITNESS_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("FITNESS_LOG_FILE", cfg.LogFile)
	cfg.LogJSON = getBoolEnv("FITNESS_LOG_JSON", cfg.LogJSON)
	cfg.OutDir = getEnv("FITNESS_OUT_DIR", cfg.OutDir)
	cfg.Format = strings.ToLower(getEnv("FITNESS_FORMAT", cfg.Format))
	cfg.Overwrite = getBoolEnv("FITNESS_OVERWRITE", cfg.Overwrite)
	cfg.Athlete.WeightKG = getFloatEnv("FITNESS_WEIGHT_KG", cfg.Athlete.WeightKG)
	cfg.Athlete.HeightCM = getFloatEnv("FITNESS_HEIGHT_CM", cfg.Athlete.HeightCM)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks settings that cannot be defaulted.
func (c Config) Validate() error {
	switch c.Format {
	case "json", "csv", "parquet":
	default:
		return fmt.Errorf("unsupported format %q (expected json|csv|parquet)", c.Format)
	}
	if c.Athlete.WeightKG < 0 || c.Athlete.HeightCM < 0 {
		return fmt.Errorf("athlete measurements must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
