// Package config loads runtime configuration from environment variables,
// optionally backed by a .env file (github.com/joho/godotenv), following
// the env-var-with-defaults shape used throughout the source tree this
// module grew out of.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every knob the server and CLI entry points need.
type Config struct {
	// ListenAddr is the HTTP server's bind address, e.g. ":8080".
	ListenAddr string
	// DataDir holds the sqlite database file and any scratch files.
	DataDir string
	// DefaultPenaltyWeight is used by /qumo/reduce when the caller omits
	// an explicit weight.
	DefaultPenaltyWeight float64
	// SolverBackend selects the solver.Backend implementation: "reference"
	// or "highs".
	SolverBackend string
	// LogLevel is a zerolog level name ("debug", "info", "warn", "error").
	LogLevel string
	// SchedulerInterval controls how often the retry/prune sweep runs.
	SchedulerInterval time.Duration
	// StoreRetention is how long run records (of any status) are kept before the
	// scheduler prunes them.
	StoreRetention time.Duration
}

// Load reads a .env file if present (missing is not an error) then builds
// a Config from the environment, applying defaults and ensuring DataDir
// exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr:            getEnv("QUMO_LISTEN_ADDR", ":8080"),
		DataDir:               getEnv("QUMO_DATA_DIR", "./data"),
		DefaultPenaltyWeight:  getEnvFloat("QUMO_DEFAULT_PENALTY_WEIGHT", 10.0),
		SolverBackend:         getEnv("QUMO_SOLVER_BACKEND", "reference"),
		LogLevel:              getEnv("QUMO_LOG_LEVEL", "info"),
		SchedulerInterval:     getEnvDuration("QUMO_SCHEDULER_INTERVAL", time.Minute),
		StoreRetention:        getEnvDuration("QUMO_STORE_RETENTION", 7*24*time.Hour),
	}

	absDataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("config: resolving data dir: %w", err)
	}
	cfg.DataDir = absDataDir

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("config: failed to create data directory: %w", err)
	}

	if cfg.DefaultPenaltyWeight < 0 {
		return nil, fmt.Errorf("config: QUMO_DEFAULT_PENALTY_WEIGHT must be >= 0, got %v", cfg.DefaultPenaltyWeight)
	}
	if cfg.SolverBackend != "reference" && cfg.SolverBackend != "highs" {
		return nil, fmt.Errorf("config: QUMO_SOLVER_BACKEND must be \"reference\" or \"highs\", got %q", cfg.SolverBackend)
	}

	return cfg, nil
}

// StorePath returns the sqlite database path inside DataDir.
func (c *Config) StorePath() string {
	return filepath.Join(c.DataDir, "qumo.db")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
