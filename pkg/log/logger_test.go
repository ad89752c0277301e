package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestTestLogger(t *testing.T) {
	logger, buffer := NewTestLogger(LevelDebug)

	logger.Debug("iteration", IterationKey, 3, LossKey, 0.25)
	logger.Info("fit finished", OperationKey, OperationFit)
	logger.Warn("slow convergence")
	logger.Error("fit failed", fmt.Errorf("boom"), ErrorCodeKey, ErrorConvergence)

	assert.NotEmpty(t, buffer.String())
	assert.True(t, logger.ContainsMessage("iteration"))
	assert.True(t, logger.ContainsMessage("fit failed"))
	assert.True(t, logger.ContainsField(IterationKey, float64(3)))
	assert.True(t, logger.ContainsField(OperationKey, OperationFit))
	assert.True(t, logger.ContainsField(ErrAttrKey, "boom"))
	assert.True(t, logger.ContainsField(ErrorCodeKey, ErrorConvergence))

	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "DEBUG", entries[0]["level"])
	assert.Equal(t, "ERROR", entries[3]["level"])

	logger.Clear()
	assert.Empty(t, buffer.String())
}

func TestTestLoggerLevelFilter(t *testing.T) {
	logger, _ := NewTestLogger(LevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("shown")

	assert.False(t, logger.ContainsMessage("hidden"))
	assert.Equal(t, 1, logger.CountMessage("shown"))
	assert.False(t, logger.Enabled(context.Background(), LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), LevelError))
}

func TestTestLoggerWith(t *testing.T) {
	logger, _ := NewTestLogger(LevelInfo)
	child := logger.With(ModelNameKey, "EM", EstimatorIDKey, "em-1")

	child.Info("fit started", SamplesKey, 10)
	logger.Info("root record")

	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "EM", entries[0][ModelNameKey])
	assert.Equal(t, "em-1", entries[0][EstimatorIDKey])
	assert.NotContains(t, entries[1], ModelNameKey)
}

func TestTestLoggerProvider(t *testing.T) {
	provider, _ := NewTestLoggerProvider(LevelDebug)
	provider.GetLoggerWithName("NaiveBayesGaussian").Info("named")

	assert.True(t, provider.Logger().ContainsField(ComponentKey, "NaiveBayesGaussian"))

	provider.SetLevel(LevelError)
	provider.GetLogger().Info("dropped")
	assert.False(t, provider.Logger().ContainsMessage("dropped"))
}

func TestZerologProvider(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProviderWithWriter(&buf, slog.LevelDebug)

	logger := provider.GetLoggerWithName("LogisticRegressionGD").With(EstimatorIDKey, "lr-1")
	logger.Debug("cost", IterationKey, 7, LossKey, 0.5)
	logger.Info("odd", "dangling")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "debug", lines[0]["level"])
	assert.Equal(t, "cost", lines[0]["message"])
	assert.Equal(t, "LogisticRegressionGD", lines[0][ComponentKey])
	assert.Equal(t, "lr-1", lines[0][EstimatorIDKey])
	assert.Equal(t, float64(7), lines[0][IterationKey])
	assert.Equal(t, "dangling", lines[1]["!BADKEY"])
}

func TestZerologProviderErrorEmbedsFields(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProviderWithWriter(&buf, slog.LevelInfo)

	err := scierrors.NewDegenerateModelError("EM", 1, "sigma", 0, 12)
	provider.GetLogger().Error("fit failed", errors.Wrap(err, "fold 2"), FoldKey, 2)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "error", lines[0]["level"])
	assert.Contains(t, lines[0]["error"], "component 1 collapsed")
	assert.Equal(t, "DegenerateModelError", lines[0]["type"])
	assert.Equal(t, "sigma", lines[0]["param"])
	assert.Equal(t, float64(2), lines[0][FoldKey])
}

func TestZerologProviderLevels(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProviderWithWriter(&buf, slog.LevelWarn)
	logger := provider.GetLogger()

	assert.False(t, logger.Enabled(context.Background(), LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), LevelWarn))

	logger.Info("dropped")
	assert.Empty(t, buf.String())

	provider.SetLevel(LevelDebug)
	provider.GetLogger().Debug("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestZerologWarningSink(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProviderWithWriter(&buf, slog.LevelInfo)
	provider.InstallWarningSink()
	t.Cleanup(func() { scierrors.SetZerologWarnFunc(nil) })

	scierrors.Warn(scierrors.NewConvergenceWarning("EM", 1000, ""))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "warn", lines[0]["level"])
	assert.Equal(t, "ConvergenceWarning", lines[0]["type"])
	assert.Equal(t, float64(1000), lines[0]["iterations"])
}

func TestSetProvider(t *testing.T) {
	provider, _ := NewTestLoggerProvider(LevelDebug)
	SetProvider(provider)
	t.Cleanup(func() { SetProvider(nil) })

	GetLoggerWithName("stats").Info("hello")
	assert.True(t, provider.Logger().ContainsField(ComponentKey, "stats"))
}

func TestErrFmtHandler(t *testing.T) {
	var buf bytes.Buffer
	handler := WrapByErrFmtHandler(slog.NewJSONHandler(&buf, nil))
	logger := slog.New(handler)

	logger.Error("failed", ErrAttr(scierrors.NewNotFittedError("EM", "DistParams")))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "*errors.NotFittedError", lines[0][ErrorTypeKey])
	assert.NotEmpty(t, lines[0][StacktraceAttrKey])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Panics(t, func() { ToLogLevel(tt.in) })
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupLoggerWithWriter(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	SetupLoggerWithWriter(&buf, "info")
	slog.Info("configured")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "INFO", lines[0]["severity"])
	assert.Equal(t, "configured", lines[0]["message"])
}
