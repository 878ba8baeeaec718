package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/growthplan/internal/config"
	"github.com/felixgeelhaar/growthplan/internal/log"
)

func TestClampSampleRate(t *testing.T) {
	assert.Equal(t, 0.0, clampSampleRate(-1))
	assert.Equal(t, 0.25, clampSampleRate(0.25))
	assert.Equal(t, 1.0, clampSampleRate(3))
}

func TestTelemetryRequested(t *testing.T) {
	cfg := config.Default()

	t.Setenv("GROWTHPLAN_TELEMETRY", "")
	assert.False(t, telemetryRequested(cfg))
	assert.False(t, telemetryRequested(nil))

	cfg.Telemetry.Enabled = true
	assert.True(t, telemetryRequested(cfg))

	t.Setenv("GROWTHPLAN_TELEMETRY", "off")
	assert.False(t, telemetryRequested(cfg))

	t.Setenv("GROWTHPLAN_TELEMETRY", "on")
	assert.True(t, telemetryRequested(nil))
}

func TestTelemetrySettingsFromEnv(t *testing.T) {
	cfg := config.Default()
	cfg.Telemetry.Endpoint = "collector:4318"
	cfg.Telemetry.SampleRate = 0.5

	t.Setenv("GROWTHPLAN_TELEMETRY_ENDPOINT", "")
	t.Setenv("GROWTHPLAN_TELEMETRY_SAMPLE_RATE", "")
	assert.Equal(t, "collector:4318", telemetryEndpoint(cfg))
	assert.Equal(t, 0.5, telemetrySampleRate(cfg))

	t.Setenv("GROWTHPLAN_TELEMETRY_ENDPOINT", "otel:4318")
	t.Setenv("GROWTHPLAN_TELEMETRY_SAMPLE_RATE", "2")
	assert.Equal(t, "otel:4318", telemetryEndpoint(cfg))
	assert.Equal(t, 1.0, telemetrySampleRate(cfg))

	t.Setenv("GROWTHPLAN_ENV", "")
	assert.Equal(t, "staging", telemetryEnvironment("staging"))
	assert.Equal(t, "cli", telemetryEnvironment(""))
}

func TestLogSettings(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "warn"
	cfg.Logging.Format = "json"

	t.Setenv("GROWTHPLAN_LOG_LEVEL", "")
	t.Setenv("GROWTHPLAN_LOG_FORMAT", "")
	assert.Equal(t, "warn", getLogLevel(cfg))
	assert.Equal(t, "json", getLogFormat(cfg))
	assert.Equal(t, "info", getLogLevel(nil))
	assert.Equal(t, "text", getLogFormat(nil))

	t.Setenv("GROWTHPLAN_LOG_LEVEL", "debug")
	assert.Equal(t, "debug", getLogLevel(cfg))
}

func TestSetupLoggingWritesToOutput(t *testing.T) {
	t.Setenv("GROWTHPLAN_LOG_LEVEL", "")
	t.Setenv("GROWTHPLAN_LOG_FORMAT", "")
	cfg := config.Default()
	cfg.Logging.Format = "json"

	var buf bytes.Buffer
	logger := setupLogging(cfg, &buf)
	t.Cleanup(func() { log.SetDefaultLogger(nil) })

	logger.Info("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Same(t, logger, log.DefaultLogger())
}
