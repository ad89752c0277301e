package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiment.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, int64(1991), cfg.Seed)
	assert.Equal(t, 5, cfg.CV.Folds)
	assert.Len(t, cfg.CV.Etas, 5)
	assert.Len(t, cfg.CV.Epss, 5)
	assert.Equal(t, 2, cfg.Eval.K)
}

func TestLoad_Overlay(t *testing.T) {
	path := writeConfig(t, `
seed: 7
log_level: debug
cross_validation:
  folds: 3
  eta: [0.1, 0.01]
evaluation:
  k: 4
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3, cfg.CV.Folds)
	assert.Equal(t, []float64{0.1, 0.01}, cfg.CV.Etas)
	assert.Equal(t, Default().CV.Epss, cfg.CV.Epss)
	assert.Equal(t, 4, cfg.Eval.K)
	assert.Equal(t, Default().Eval.Resolution, cfg.Eval.Resolution)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_YAMLParseError(t *testing.T) {
	_, err := Load(writeConfig(t, "seed: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		param string
	}{
		{"log level", "log_level: loud", "log_level"},
		{"test ratio", "evaluation: {test_ratio: 1}", "evaluation.test_ratio"},
		{"folds", "cross_validation: {folds: 1}", "cross_validation.folds"},
		{"n_iter", "cross_validation: {n_iter: 0}", "cross_validation.n_iter"},
		{"empty etas", "cross_validation: {eta: []}", "cross_validation.eta"},
		{"negative eta", "cross_validation: {eta: [-0.1]}", "cross_validation.eta"},
		{"negative eps", "cross_validation: {eps: [-1]}", "cross_validation.eps"},
		{"k", "evaluation: {k: 0}", "evaluation.k"},
		{"resolution", "evaluation: {resolution: 0}", "evaluation.resolution"},
		{"output dir", "output_dir: \"\"", "output_dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			var ve *scierrors.ValidationError
			require.True(t, scierrors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.param, ve.ParamName)
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "experiment.yaml")
	cfg := Default()
	cfg.Seed = 42
	cfg.Plots = false

	require.NoError(t, cfg.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
