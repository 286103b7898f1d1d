package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"QUMO_LISTEN_ADDR", "QUMO_DATA_DIR", "QUMO_DEFAULT_PENALTY_WEIGHT",
		"QUMO_SOLVER_BACKEND", "QUMO_LOG_LEVEL", "QUMO_SCHEDULER_INTERVAL",
		"QUMO_STORE_RETENTION",
	}
	saved := make(map[string]string, len(keys))
	for _, k := range keys {
		saved[k] = os.Getenv(k)
		os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for k, v := range saved {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	})
}

func TestLoadAppliesDefaults(t *testing.T) {
	clearEnv(t)
	os.Setenv("QUMO_DATA_DIR", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("ListenAddr = %q, want :8080", cfg.ListenAddr)
	}
	if cfg.SolverBackend != "reference" {
		t.Fatalf("SolverBackend = %q, want reference", cfg.SolverBackend)
	}
	if cfg.DefaultPenaltyWeight != 10.0 {
		t.Fatalf("DefaultPenaltyWeight = %v, want 10.0", cfg.DefaultPenaltyWeight)
	}
}

func TestLoadReadsOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	os.Setenv("QUMO_DATA_DIR", dir)
	os.Setenv("QUMO_LISTEN_ADDR", ":9090")
	os.Setenv("QUMO_SOLVER_BACKEND", "highs")
	os.Setenv("QUMO_DEFAULT_PENALTY_WEIGHT", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("ListenAddr = %q, want :9090", cfg.ListenAddr)
	}
	if cfg.SolverBackend != "highs" {
		t.Fatalf("SolverBackend = %q, want highs", cfg.SolverBackend)
	}
	if cfg.DefaultPenaltyWeight != 2.5 {
		t.Fatalf("DefaultPenaltyWeight = %v, want 2.5", cfg.DefaultPenaltyWeight)
	}

	absDir, _ := filepath.Abs(dir)
	if cfg.DataDir != absDir {
		t.Fatalf("DataDir = %q, want %q", cfg.DataDir, absDir)
	}
}

func TestLoadRejectsInvalidSolverBackend(t *testing.T) {
	clearEnv(t)
	os.Setenv("QUMO_DATA_DIR", t.TempDir())
	os.Setenv("QUMO_SOLVER_BACKEND", "cplex")

	if _, err := Load(); err == nil {
		t.Fatal("expected an invalid solver backend to be rejected")
	}
}

func TestLoadRejectsNegativePenaltyWeight(t *testing.T) {
	clearEnv(t)
	os.Setenv("QUMO_DATA_DIR", t.TempDir())
	os.Setenv("QUMO_DEFAULT_PENALTY_WEIGHT", "-1")

	if _, err := Load(); err == nil {
		t.Fatal("expected a negative penalty weight to be rejected")
	}
}

func TestStorePathJoinsDataDir(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	os.Setenv("QUMO_DATA_DIR", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := filepath.Join(cfg.DataDir, "qumo.db")
	if cfg.StorePath() != want {
		t.Fatalf("StorePath() = %q, want %q", cfg.StorePath(), want)
	}
}
