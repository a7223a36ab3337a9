package config

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("OBSERVABLE_LOG_LEVEL", "DEBUG")
	t.Setenv("OBSERVABLE_MAX_DEPTH", "8")
	t.Setenv("OBSERVABLE_SUGGEST_DISTANCE", "0")
	t.Setenv("OBSERVABLE_TRACE_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8, cfg.MaxDepth)
	require.Equal(t, 0, cfg.SuggestDistance)
	require.True(t, cfg.TraceEnabled)
	require.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("OBSERVABLE_MAX_DEPTH", "-1")
	_, err := Load()
	require.ErrorContains(t, err, "max depth")

	t.Setenv("OBSERVABLE_MAX_DEPTH", "not-a-number")
	_, err = Load()
	require.ErrorContains(t, err, "parse env")

	t.Setenv("OBSERVABLE_MAX_DEPTH", "0")
	t.Setenv("OBSERVABLE_LOG_LEVEL", "loud")
	_, err = Load()
	require.ErrorContains(t, err, "unknown log level")
}

func TestConfig_Logger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := Config{LogLevel: "warn"}.Logger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "event.type", "ageChange")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "shown")
	require.Contains(t, out, "event.type=ageChange")
}
