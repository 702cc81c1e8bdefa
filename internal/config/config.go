// Package config resolves analysis defaults from the environment. A .env
// file is honored when present so notebook-style callers can pin a seed and
// resample budget without touching code.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"groupwise/domain/core"
)

// Config holds the tunable analysis defaults.
type Config struct {
	// Resamples is the default permutation/bootstrap budget.
	Resamples int
	// Seed fixes the RNG streams; 0 means the caller wants a varying run.
	Seed int64
	// Workers bounds resample-pool concurrency; 0 selects GOMAXPROCS.
	Workers int
	// Trim is the default per-tail trim proportion for robust procedures.
	Trim float64
}

// Default returns the baseline configuration: 1000 resamples, trim 0.20.
func Default() Config {
	return Config{
		Resamples: 1000,
		Trim:      0.20,
	}
}

// Load reads defaults from the environment, after loading .env if one
// exists. Unset keys keep their Default values.
func Load() (Config, error) {
	_ = godotenv.Load() // optional; missing .env is not an error

	cfg := Default()

	if v := os.Getenv("GROUPWISE_RESAMPLES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, core.NewConfigurationError("GROUPWISE_RESAMPLES", "must be an integer")
		}
		cfg.Resamples = n
	}
	if v := os.Getenv("GROUPWISE_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, core.NewConfigurationError("GROUPWISE_SEED", "must be an integer")
		}
		cfg.Seed = n
	}
	if v := os.Getenv("GROUPWISE_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, core.NewConfigurationError("GROUPWISE_WORKERS", "must be an integer")
		}
		cfg.Workers = n
	}
	if v := os.Getenv("GROUPWISE_TRIM"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, core.NewConfigurationError("GROUPWISE_TRIM", "must be a number")
		}
		cfg.Trim = f
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces the configuration invariants shared by every consumer.
func (c Config) Validate() error {
	if c.Resamples < 1 {
		return core.NewConfigurationError("resamples", "must be >= 1")
	}
	if c.Trim < 0 || c.Trim >= 0.5 {
		return core.NewConfigurationError("trim", "must be in [0, 0.5)")
	}
	if c.Workers < 0 {
		return core.NewConfigurationError("workers", "must be >= 0")
	}
	return nil
}
