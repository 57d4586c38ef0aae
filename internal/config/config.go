// Package config loads analysis configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the tunable analysis parameters for a run.
type Config struct {
	Seed         int64   // base seed for all random streams
	Alpha        float64 // significance level
	Bootstraps   int     // bootstrap replicates for pairwise CIs
	Permutations int     // permutation replicates for cross-correlation
	MaxLag       int     // lag window override (0 = per-method default)
	OutputDir    string  // where the demo pipeline writes reports
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Seed:         getEnvInt64OrDefault("HELIOCORR_SEED", 42),
		Alpha:        getEnvFloatOrDefault("HELIOCORR_ALPHA", 0.05),
		Bootstraps:   getEnvIntOrDefault("HELIOCORR_BOOTSTRAPS", 1000),
		Permutations: getEnvIntOrDefault("HELIOCORR_PERMUTATIONS", 1000),
		MaxLag:       getEnvIntOrDefault("HELIOCORR_MAX_LAG", 0),
		OutputDir:    getEnvOrDefault("HELIOCORR_OUTPUT_DIR", "./out"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Alpha <= 0 || cfg.Alpha >= 1 {
		return fmt.Errorf("alpha must be in (0, 1), got %g", cfg.Alpha)
	}
	if cfg.Bootstraps < 1 {
		return fmt.Errorf("bootstraps must be positive, got %d", cfg.Bootstraps)
	}
	if cfg.Permutations < 1 {
		return fmt.Errorf("permutations must be positive, got %d", cfg.Permutations)
	}
	if cfg.MaxLag < 0 {
		return fmt.Errorf("max lag cannot be negative, got %d", cfg.MaxLag)
	}
	if cfg.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
