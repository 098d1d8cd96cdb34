package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 288, cfg.Schedule.IntervalMinutes)
	assert.True(t, cfg.Schedule.RunImmediately)
	assert.Equal(t, 0.7, cfg.Script.LongFormProbability)
	assert.Equal(t, 150, cfg.Script.WordsPerMinute)
	assert.Equal(t, "public", cfg.Upload.Visibility)
	assert.Equal(t, "outputs", cfg.Paths.Output)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
schedule:
  interval_minutes: 60
  run_immediately: false
script:
  model: gpt-4o
upload:
  visibility: unlisted
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Schedule.IntervalMinutes)
	assert.False(t, cfg.Schedule.RunImmediately)
	assert.Equal(t, "gpt-4o", cfg.Script.Model)
	assert.Equal(t, "unlisted", cfg.Upload.Visibility)
	// Untouched sections keep their defaults.
	assert.Equal(t, "onyx", cfg.Audio.Voice)
}

func TestEnvOverridesFileAndDefaults(t *testing.T) {
	t.Setenv("AUTOMATION_INTERVAL_MINUTES", "30")
	t.Setenv("RUN_IMMEDIATELY", "false")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Schedule.IntervalMinutes)
	assert.False(t, cfg.Schedule.RunImmediately)
}

func TestMetricsAddrEnvEnablesMetrics(t *testing.T) {
	t.Setenv("METRICS_ADDR", ":9191")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9191", cfg.Metrics.Addr)
}

func TestNonPositiveIntervalRejected(t *testing.T) {
	t.Setenv("AUTOMATION_INTERVAL_MINUTES", "0")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "positive")
}

func TestMalformedYAMLRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schedule: [not a map"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}
