package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const envNamegenConfig = "NAMEGEN_CONFIG"

// Config represents the namegen configuration file
// (~/.config/namegen/config.yaml). Pointer fields distinguish "not set"
// from zero values.
type Config struct {
	ModelDir   string `yaml:"model_dir"`
	Model      string `yaml:"model"`
	Vocab      string `yaml:"vocab"`
	ContextLen *int64 `yaml:"context_len"`

	// Generation defaults
	MaxLength   *int64   `yaml:"max_length"`
	Temperature *float64 `yaml:"temperature"`
	Seed        *int64   `yaml:"seed"`
	Format      string   `yaml:"format"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// generateOptions are the generate command's own flag values.
type generateOptions struct {
	seed        int64
	maxLength   int64
	temperature float64
	prefix      string
	format      string
}

func configPath() string {
	if p := strings.TrimSpace(os.Getenv(envNamegenConfig)); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "namegen", "config.yaml")
}

// LoadConfig reads the config file at path. A missing file yields a zero
// Config.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

type configKey struct{}

// withConfig stores the loaded config for subcommands.
func withConfig(ctx context.Context, cfg Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// configFromContext returns the config loaded by the root command, or a
// zero Config.
func configFromContext(ctx context.Context) Config {
	cfg, _ := ctx.Value(configKey{}).(Config)
	return cfg
}

// applyModelConfig fills model location flags the user did not set.
func applyModelConfig(c *cli.Command, cfg Config) {
	if cfg.ModelDir != "" && !c.IsSet("model-dir") {
		modelDir = cfg.ModelDir
	}
	if cfg.Model != "" && !c.IsSet("model") {
		modelPath = cfg.Model
	}
	if cfg.Vocab != "" && !c.IsSet("vocab") {
		vocabPath = cfg.Vocab
	}
	if cfg.ContextLen != nil && !c.IsSet("context-len") {
		contextLen = *cfg.ContextLen
	}
}

// applyGenerateConfig applies config file defaults to generate options
// when the corresponding flag was not explicitly set.
func applyGenerateConfig(c *cli.Command, cfg Config, opts *generateOptions) {
	applyModelConfig(c, cfg)
	if cfg.MaxLength != nil && !c.IsSet("max-len") {
		opts.maxLength = *cfg.MaxLength
	}
	if cfg.Temperature != nil && !c.IsSet("temperature") {
		opts.temperature = *cfg.Temperature
	}
	if cfg.Seed != nil && !c.IsSet("seed") {
		opts.seed = *cfg.Seed
	}
	if cfg.Format != "" && !c.IsSet("format") {
		opts.format = cfg.Format
	}
}

// applyLoggingConfig applies config file defaults to the root logging
// flags.
func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}
