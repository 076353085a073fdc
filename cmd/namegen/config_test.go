package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		if err != nil {
			t.Fatalf("LoadConfig returned error: %v", err)
		}
		if cfg.ModelDir != "" || cfg.Seed != nil {
			t.Fatalf("expected zero config, got %+v", cfg)
		}
	})

	t.Run("empty path", func(t *testing.T) {
		if _, err := LoadConfig(""); err != nil {
			t.Fatalf("LoadConfig returned error: %v", err)
		}
	})

	t.Run("fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		data := []byte("model_dir: /models/names\ncontext_len: 4\nmax_length: 20\ntemperature: 0.5\nseed: 0\nformat: lines\nlog_level: debug\n")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig returned error: %v", err)
		}
		if cfg.ModelDir != "/models/names" || cfg.Format != "lines" || cfg.LogLevel != "debug" {
			t.Fatalf("unexpected config: %+v", cfg)
		}
		if cfg.ContextLen == nil || *cfg.ContextLen != 4 {
			t.Fatalf("context_len not parsed: %+v", cfg.ContextLen)
		}
		if cfg.MaxLength == nil || *cfg.MaxLength != 20 {
			t.Fatalf("max_length not parsed: %+v", cfg.MaxLength)
		}
		if cfg.Temperature == nil || *cfg.Temperature != 0.5 {
			t.Fatalf("temperature not parsed: %+v", cfg.Temperature)
		}
		if cfg.Seed == nil || *cfg.Seed != 0 {
			t.Fatalf("explicit zero seed should be set: %+v", cfg.Seed)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("seed: [1, 2\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Fatalf("expected parse error")
		}
	})
}

func TestConfigPathEnv(t *testing.T) {
	t.Setenv(envNamegenConfig, "/tmp/custom.yaml")
	if got := configPath(); got != "/tmp/custom.yaml" {
		t.Fatalf("configPath = %q", got)
	}
}
