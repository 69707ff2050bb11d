package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/campuslink/campuslink-backend/internal/logger"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(testLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("default port = %q", cfg.Port)
	}
	if cfg.Engine.Threshold != 0.1 || cfg.Engine.TopN != 20 {
		t.Fatalf("default engine config = %+v", cfg.Engine)
	}
	if cfg.SweepInterval != time.Hour {
		t.Fatalf("default sweep interval = %v", cfg.SweepInterval)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := []byte(`
port: "9090"
sweep_every: 30m
engine:
  threshold: 0.2
  top_n: 10
  sweep_concurrency: 8
  weights:
    interest: 0.5
    department: 0.2
    category: 0.2
    bio: 0.1
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load(testLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("port = %q, want 9090", cfg.Port)
	}
	if cfg.SweepInterval != 30*time.Minute {
		t.Fatalf("sweep interval = %v, want 30m", cfg.SweepInterval)
	}
	if cfg.Engine.Threshold != 0.2 || cfg.Engine.TopN != 10 || cfg.Engine.SweepConcurrency != 8 {
		t.Fatalf("engine config = %+v", cfg.Engine)
	}
	if cfg.Engine.Weights.Interest != 0.5 {
		t.Fatalf("weights = %+v", cfg.Engine.Weights)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("port: \"9090\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7070")
	t.Setenv("RECOMMEND_TOP_N", "5")

	cfg, err := Load(testLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7070" {
		t.Fatalf("port = %q, want env override 7070", cfg.Port)
	}
	if cfg.Engine.TopN != 5 {
		t.Fatalf("top_n = %d, want env override 5", cfg.Engine.TopN)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("RECOMMEND_TOP_N", "0")
	if _, err := Load(testLogger()); err == nil {
		t.Fatal("expected error for top_n=0")
	}
}
