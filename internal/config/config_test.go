package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanspareilsmyn/tracelens/internal/window"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func mustMode(t *testing.T, cfg *Config) window.Mode {
	t.Helper()
	m, err := cfg.Mode()
	require.NoError(t, err)
	return m
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, SourceFile, cfg.Input.Source)
	assert.Equal(t, "../traces/test/mmWave-tcp-data0.txt", cfg.Input.Path)
	assert.Equal(t, "../traces/test/processedwindow.txt", cfg.Output.Path)
	assert.Equal(t, window.SimpleSum, mustMode(t, cfg))
	assert.Equal(t, "MB/s", cfg.Plot.YLabel)
	assert.Equal(t, "data.png", cfg.Plot.Output)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Nil(t, cfg.Alerts.MinThroughput)
	assert.Empty(t, cfg.Metrics.ListenAddr)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
input:
  path: traces/rx.txt
output:
  path: out/window.txt
aggregator:
  mode: rate
alerts:
  minThroughput: 0.5
  maxThroughput: 12
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "traces/rx.txt", cfg.Input.Path)
	assert.Equal(t, "out/window.txt", cfg.Output.Path)
	assert.Equal(t, window.NormalizedRate, mustMode(t, cfg))
	require.NotNil(t, cfg.Alerts.MinThroughput)
	require.NotNil(t, cfg.Alerts.MaxThroughput)
	assert.Equal(t, 0.5, *cfg.Alerts.MinThroughput)
	assert.Equal(t, 12.0, *cfg.Alerts.MaxThroughput)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched keys keep their defaults.
	assert.Equal(t, "MB/s", cfg.Plot.YLabel)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "aggregator:\n  mode: sum\n")
	t.Setenv("TRACELENS_AGGREGATOR_MODE", "rate")
	t.Setenv("TRACELENS_OUTPUT_PATH", "env.txt")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, window.NormalizedRate, mustMode(t, cfg))
	assert.Equal(t, "env.txt", cfg.Output.Path)
}

func TestLoadAlertBoundsFromEnvironment(t *testing.T) {
	t.Setenv("TRACELENS_ALERTS_MINTHROUGHPUT", "0.5")
	t.Setenv("TRACELENS_ALERTS_MAXTHROUGHPUT", "12")

	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg.Alerts.MinThroughput)
	require.NotNil(t, cfg.Alerts.MaxThroughput)
	assert.Equal(t, 0.5, *cfg.Alerts.MinThroughput)
	assert.Equal(t, 12.0, *cfg.Alerts.MaxThroughput)
}

func TestConfigModeRejectsUnknownValue(t *testing.T) {
	cfg := &Config{Aggregator: AggregatorConfig{Mode: "median"}}
	_, err := cfg.Mode()
	assert.ErrorIs(t, err, window.ErrUnknownMode)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, ErrConfigFileMissing)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"unknown mode", "aggregator:\n  mode: median\n", ErrInvalidAggregatorMode},
		{"unknown source", "input:\n  source: s3\n", ErrUnknownInputSource},
		{"empty input path", "input:\n  path: \"\"\n", ErrEmptyInputPath},
		{"empty output path", "output:\n  path: \"\"\n", ErrEmptyOutputPath},
		{"kafka without brokers", "input:\n  source: kafka\n", ErrEmptyKafkaBrokers},
		{"kafka without topic", "input:\n  source: kafka\nkafka:\n  brokers: [localhost:9092]\n  topic: \"\"\n", ErrEmptyKafkaTopic},
		{"bad plot size", "plot:\n  width: 0\n", ErrInvalidPlotSize},
		{"inverted thresholds", "alerts:\n  minThroughput: 5\n  maxThroughput: 1\n", ErrInvalidAlertThresholds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadKafkaSource(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
input:
  source: kafka
kafka:
  brokers: ["localhost:9092"]
  topic: rx
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "tracelens-default-group", cfg.Kafka.GroupID)
}
