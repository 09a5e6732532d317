package application

import (
	"errors"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	reliability "grid-reliability/internal/reliability/domain"
)

// Config defines engine tuning.
type Config struct {
	Timezone                  string  `yaml:"timezone"`
	MomentaryThresholdMinutes float64 `yaml:"momentary_threshold_minutes"`
	DefaultSelector           string  `yaml:"default_selector"`
	SnapshotPath              string  `yaml:"snapshot_path"`
	ReportTitle               string  `yaml:"report_title"`
}

// LoadConfig loads config from yaml (RELIABILITY_CONFIG) and env overrides.
func LoadConfig() (Config, error) {
	cfg := Config{
		Timezone:                  "UTC",
		MomentaryThresholdMinutes: reliability.DefaultMomentaryThreshold.Minutes(),
		DefaultSelector:           string(reliability.SelectorAll),
		ReportTitle:               "Reliability Indices Report",
	}

	if path := os.Getenv("RELIABILITY_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	cfg.Timezone = getenvDefault("RELIABILITY_TIMEZONE", cfg.Timezone)
	cfg.MomentaryThresholdMinutes = getenvFloatDefault("RELIABILITY_MOMENTARY_MINUTES", cfg.MomentaryThresholdMinutes)
	cfg.DefaultSelector = getenvDefault("RELIABILITY_DEFAULT_SELECTOR", cfg.DefaultSelector)
	cfg.SnapshotPath = getenvDefault("RELIABILITY_SNAPSHOT", cfg.SnapshotPath)

	if cfg.MomentaryThresholdMinutes <= 0 {
		return cfg, errors.New("reliability: momentary threshold must be positive")
	}
	if _, ok := reliability.ParseSelector(cfg.DefaultSelector); !ok {
		return cfg, errors.New("reliability: unknown default selector")
	}
	if _, err := cfg.Location(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// MomentaryThreshold returns the momentary cutoff as a duration.
func (c Config) MomentaryThreshold() time.Duration {
	if c.MomentaryThresholdMinutes <= 0 {
		return reliability.DefaultMomentaryThreshold
	}
	return time.Duration(c.MomentaryThresholdMinutes * float64(time.Minute))
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
