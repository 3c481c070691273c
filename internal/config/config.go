// Package config loads procsched.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joshharrison/procsched/internal/dispatch"
	"github.com/joshharrison/procsched/internal/log"
	"github.com/joshharrison/procsched/internal/schederr"
	"github.com/joshharrison/procsched/internal/state"
)

// DefaultFile is read when no --config path is given and it exists.
const DefaultFile = "procsched.yaml"

// Config is the on-disk configuration.
type Config struct {
	Processors    int       `yaml:"processors"`
	Policy        string    `yaml:"policy"`
	WeightWorkers int       `yaml:"weight_workers"`
	StateDir      string    `yaml:"state_dir"`
	Log           LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Processors:    dispatch.DefaultProcessors,
		Policy:        dispatch.Heuristic.Name(),
		WeightWorkers: 4,
		StateDir:      state.DefaultDir,
		Log:           LogConfig{Level: "warn", Format: "text"},
	}
}

// Load reads path over the defaults. An empty path tries DefaultFile and
// silently keeps the defaults if it does not exist; an explicit path must
// exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	if err := dispatch.ValidateProcessors(c.Processors); err != nil {
		return err
	}
	if c.WeightWorkers < 1 {
		return schederr.Validationf("weight_workers must be at least 1, got %d", c.WeightWorkers)
	}
	if _, err := dispatch.PolicyByName(c.Policy); err != nil {
		return err
	}
	if c.StateDir == "" {
		return schederr.Validationf("state_dir must not be empty")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return schederr.Validationf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return schederr.Validationf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Logger builds the logger described by the log section.
func (c *Config) Logger() *log.Logger {
	return log.New(log.Config{
		Level:  log.ParseLevel(c.Log.Level),
		Format: log.ParseFormat(c.Log.Format),
		Output: os.Stderr,
	})
}
