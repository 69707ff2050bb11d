package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/campuslink/campuslink-backend/internal/logger"
	"github.com/campuslink/campuslink-backend/internal/recommend"
	"github.com/campuslink/campuslink-backend/internal/utils"
)

// Config carries the tunables that are not secrets. Secrets (JWT key,
// database DSN, redis address) stay env-only.
type Config struct {
	Port          string            `yaml:"port"`
	AllowOrigins  []string          `yaml:"allow_origins"`
	SweepInterval time.Duration     `yaml:"-"`
	SweepEvery    string            `yaml:"sweep_every"`
	Engine        recommend.Config  `yaml:"engine"`
}

func defaults() *Config {
	return &Config{
		Port:          "8080",
		SweepInterval: time.Hour,
		Engine:        recommend.DefaultConfig(),
	}
}

// Load builds the config from defaults, an optional YAML file named by
// CONFIG_FILE, and finally env overrides. Later layers win.
func Load(log *logger.Logger) (*Config, error) {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
		if cfg.SweepEvery != "" {
			d, err := time.ParseDuration(cfg.SweepEvery)
			if err != nil {
				return nil, fmt.Errorf("parse sweep_every %q: %w", cfg.SweepEvery, err)
			}
			cfg.SweepInterval = d
		}
		log.Info("loaded config file", "path", path)
	}

	cfg.Port = utils.GetEnv("PORT", cfg.Port, log)
	if origins := strings.TrimSpace(os.Getenv("ALLOW_ORIGINS")); origins != "" {
		cfg.AllowOrigins = splitAndTrim(origins)
	}
	sweepMinutes := utils.GetEnvAsInt("SWEEP_INTERVAL_MINUTES", int(cfg.SweepInterval.Minutes()), log)
	cfg.SweepInterval = time.Duration(sweepMinutes) * time.Minute

	cfg.Engine.Threshold = utils.GetEnvAsFloat("RECOMMEND_THRESHOLD", cfg.Engine.Threshold, log)
	cfg.Engine.TopN = utils.GetEnvAsInt("RECOMMEND_TOP_N", cfg.Engine.TopN, log)
	cfg.Engine.SweepConcurrency = utils.GetEnvAsInt("RECOMMEND_SWEEP_CONCURRENCY", cfg.Engine.SweepConcurrency, log)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Engine.Threshold < 0 || cfg.Engine.Threshold >= 1 {
		return fmt.Errorf("recommendation threshold %v out of range [0,1)", cfg.Engine.Threshold)
	}
	if cfg.Engine.TopN <= 0 {
		return fmt.Errorf("recommendation top_n must be positive, got %d", cfg.Engine.TopN)
	}
	if cfg.Engine.SweepConcurrency <= 0 {
		return fmt.Errorf("sweep concurrency must be positive, got %d", cfg.Engine.SweepConcurrency)
	}
	w := cfg.Engine.Weights
	for _, v := range []float64{w.Interest, w.Department, w.Category, w.Bio} {
		if v < 0 {
			return fmt.Errorf("signal weights must be non-negative, got %+v", w)
		}
	}
	return nil
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
