package application

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	reliability "grid-reliability/internal/reliability/domain"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RELIABILITY_CONFIG",
		"RELIABILITY_TIMEZONE",
		"RELIABILITY_MOMENTARY_MINUTES",
		"RELIABILITY_DEFAULT_SELECTOR",
		"RELIABILITY_SNAPSHOT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Timezone != "UTC" || cfg.DefaultSelector != string(reliability.SelectorAll) {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.MomentaryThreshold() != reliability.DefaultMomentaryThreshold {
		t.Fatalf("expected default threshold, got %v", cfg.MomentaryThreshold())
	}
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "reliability.yaml")
	content := []byte("timezone: Europe/Berlin\nmomentary_threshold_minutes: 3\ndefault_selector: last30Days\nreport_title: North Grid\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("RELIABILITY_CONFIG", path)
	t.Setenv("RELIABILITY_MOMENTARY_MINUTES", "1.5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Timezone != "Europe/Berlin" || cfg.DefaultSelector != "last30Days" || cfg.ReportTitle != "North Grid" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.MomentaryThreshold() != 90*time.Second {
		t.Fatalf("expected env override of threshold, got %v", cfg.MomentaryThreshold())
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "Europe/Berlin" {
		t.Fatalf("unexpected location %v (%v)", loc, err)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"negative threshold": {"RELIABILITY_MOMENTARY_MINUTES": "-1"},
		"unknown selector":   {"RELIABILITY_DEFAULT_SELECTOR": "lastFortnight"},
		"unknown timezone":   {"RELIABILITY_TIMEZONE": "Mars/Olympus"},
		"missing file":       {"RELIABILITY_CONFIG": filepath.Join(os.TempDir(), "does-not-exist.yaml")},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
