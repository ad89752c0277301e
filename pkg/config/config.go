// Package config loads the YAML experiment configuration used by the
// statlearn command.
package config

import (
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
	"github.com/YuminosukeSato/statlearn/pkg/log"
)

// Config is the root configuration structure.
type Config struct {
	Seed      int64            `yaml:"seed"`
	LogLevel  string           `yaml:"log_level"`
	OutputDir string           `yaml:"output_dir"`
	Plots     bool             `yaml:"plots"`
	CV        CVConfig         `yaml:"cross_validation"`
	Eval      EvaluationConfig `yaml:"evaluation"`
}

// CVConfig holds the logistic regression grid search settings.
type CVConfig struct {
	Folds int       `yaml:"folds"`
	Etas  []float64 `yaml:"eta"`
	Epss  []float64 `yaml:"eps"`
	NIter int       `yaml:"n_iter"`
}

// EvaluationConfig holds model evaluation settings.
type EvaluationConfig struct {
	K           int     `yaml:"k"`
	TestRatio   float64 `yaml:"test_ratio"`
	Standardize bool    `yaml:"standardize"` // scale features with training statistics
	Resolution  float64 `yaml:"resolution"`  // decision region mesh step
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Seed:      1991,
		LogLevel:  "info",
		OutputDir: "./out",
		Plots:     true,
		CV: CVConfig{
			Folds: 5,
			Etas:  []float64{0.05, 0.005, 0.0005, 0.00005, 0.000005},
			Epss:  []float64{0.01, 0.001, 0.0001, 0.00001, 0.000001},
			NIter: 10000,
		},
		Eval: EvaluationConfig{
			K:          2,
			TestRatio:  0.2,
			Resolution: 0.1,
		},
	}
}

// Load reads path and overlays it on Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, scierrors.Wrap(err, "failed to read config")
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, scierrors.Wrap(err, "failed to parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault returns Default when path is empty, otherwise Load(path).
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks every field that would make the experiment fail late.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return scierrors.NewValidationError("log_level", err.Error(), c.LogLevel)
	}
	if c.OutputDir == "" && c.Plots {
		return scierrors.NewValidationError("output_dir", "required when plots are enabled", c.OutputDir)
	}
	if c.CV.Folds < 2 {
		return scierrors.NewValidationError("cross_validation.folds", "must be at least 2", c.CV.Folds)
	}
	if c.CV.NIter < 1 {
		return scierrors.NewValidationError("cross_validation.n_iter", "must be at least 1", c.CV.NIter)
	}
	if len(c.CV.Etas) == 0 {
		return scierrors.NewValidationError("cross_validation.eta", "must not be empty", c.CV.Etas)
	}
	for _, eta := range c.CV.Etas {
		if !(eta > 0) || math.IsInf(eta, 0) {
			return scierrors.NewValidationError("cross_validation.eta", "must be positive finite numbers", eta)
		}
	}
	if len(c.CV.Epss) == 0 {
		return scierrors.NewValidationError("cross_validation.eps", "must not be empty", c.CV.Epss)
	}
	for _, eps := range c.CV.Epss {
		if eps < 0 || math.IsNaN(eps) {
			return scierrors.NewValidationError("cross_validation.eps", "must be non-negative", eps)
		}
	}
	if c.Eval.K < 1 {
		return scierrors.NewValidationError("evaluation.k", "must be at least 1", c.Eval.K)
	}
	if !(c.Eval.TestRatio > 0 && c.Eval.TestRatio < 1) {
		return scierrors.NewValidationError("evaluation.test_ratio", "must be in (0, 1)", c.Eval.TestRatio)
	}
	if !(c.Eval.Resolution > 0) {
		return scierrors.NewValidationError("evaluation.resolution", "must be positive", c.Eval.Resolution)
	}
	return nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return scierrors.Wrap(err, "failed to create config directory")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return scierrors.Wrap(err, "failed to marshal config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return scierrors.Wrap(err, "failed to write config file")
	}
	return nil
}
