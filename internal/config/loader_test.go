package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/torosent/captest/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.NewLoader().Load([]string{"--source", "catalog.csv"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Source != "catalog.csv" {
		t.Errorf("Source = %q, want catalog.csv", cfg.Source)
	}
	if cfg.Concurrency != 2 {
		t.Errorf("Concurrency = %d, want 2", cfg.Concurrency)
	}
	if cfg.Duration != 60*time.Second {
		t.Errorf("Duration = %s, want 60s", cfg.Duration)
	}
	if cfg.Verbosity != 3 {
		t.Errorf("Verbosity = %d, want 3", cfg.Verbosity)
	}
	if cfg.QueueSlack != 2 {
		t.Errorf("QueueSlack = %d, want 2", cfg.QueueSlack)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %s, want 30s", cfg.Timeout)
	}
	if cfg.Delay != 10*time.Millisecond {
		t.Errorf("Delay = %s, want 10ms", cfg.Delay)
	}
	if cfg.BaseURL != "" || cfg.JSONOutput || cfg.Rate != 0 {
		t.Errorf("unexpected non-default values: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadNoArgsIsUsageError(t *testing.T) {
	if _, err := config.NewLoader().Load(nil); !errors.Is(err, config.ErrNoSource) {
		t.Fatalf("Load(nil) error = %v, want ErrNoSource", err)
	}
}

func TestLoadHelpFlag(t *testing.T) {
	if _, err := config.NewLoader().Load([]string{"--help"}); !errors.Is(err, config.ErrHelpRequested) {
		t.Fatalf("Load(--help) error = %v, want ErrHelpRequested", err)
	}
}

func TestLoadRejectsUnknownFlag(t *testing.T) {
	if _, err := config.NewLoader().Load([]string{"--nope"}); err == nil {
		t.Fatal("expected unknown flag error")
	}
}

func TestLoadRejectsPositionalArgs(t *testing.T) {
	if _, err := config.NewLoader().Load([]string{"-s", "a.csv", "extra"}); err == nil {
		t.Fatal("expected error for stray positional argument")
	}
}

func TestLoadConfigFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "captest.yaml")
	if err := os.WriteFile(path, []byte(`
source: urls.csv
base_url: http://staging.internal
concurrency: 8
duration: 2m
queue_slack: 3
rate: 50
seed: 7
history_file: runs.jsonl
thresholds:
  - "requests:rate > 10"
tracing:
  endpoint: localhost:4318
  protocol: http
  insecure: true
`), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.NewLoader().Load([]string{"--config", path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source != "urls.csv" || cfg.BaseURL != "http://staging.internal" {
		t.Errorf("unexpected source/base %q %q", cfg.Source, cfg.BaseURL)
	}
	if cfg.Concurrency != 8 || cfg.Duration != 2*time.Minute || cfg.QueueSlack != 3 {
		t.Errorf("unexpected load settings %+v", cfg)
	}
	if cfg.Rate != 50 || cfg.Seed != 7 || cfg.HistoryFile != "runs.jsonl" {
		t.Errorf("unexpected extras %+v", cfg)
	}
	if len(cfg.Thresholds) != 1 {
		t.Errorf("Thresholds = %v", cfg.Thresholds)
	}
	if cfg.Tracing.Protocol != "http" || !cfg.Tracing.Insecure || !cfg.Tracing.Enabled() {
		t.Errorf("unexpected tracing %+v", cfg.Tracing)
	}
	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", cfg.ConfigFile, path)
	}
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "captest.json")
	if err := os.WriteFile(path, []byte(`{"source": "file.csv", "concurrency": 4, "verbosity": 1}`), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.NewLoader().Load([]string{"--config", path, "-c", "16"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Concurrency != 16 {
		t.Errorf("Concurrency = %d, want flag value 16", cfg.Concurrency)
	}
	if cfg.Source != "file.csv" || cfg.Verbosity != 1 {
		t.Errorf("file values lost: %+v", cfg)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := config.NewLoader().Load([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")})
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}
