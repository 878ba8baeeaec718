package cmd

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/growthplan/internal/config"
	"github.com/felixgeelhaar/growthplan/internal/log"
	"github.com/felixgeelhaar/growthplan/internal/metrics"
	"github.com/felixgeelhaar/growthplan/internal/telemetry"
	"github.com/felixgeelhaar/growthplan/internal/version"
)

// setupObservability configures logging, metrics, and optional telemetry.
// It returns a cleanup function that should be deferred by the caller.
func setupObservability(ctx context.Context, cfg *config.Config, logOutput io.Writer) (*log.Logger, *metrics.Metrics, func()) {
	logger := setupLogging(cfg, logOutput)
	m := metrics.InitDefault()
	metricsCleanup := setupMetricsServer(cfg, logger)
	telemetryCleanup := setupTelemetry(ctx, cfg, logger)

	return logger, m, func() {
		telemetryCleanup()
		metricsCleanup()
	}
}

func setupLogging(cfg *config.Config, output io.Writer) *log.Logger {
	info := version.GetInfo()

	logger := log.New(log.Config{
		Level:          log.ParseLevel(getLogLevel(cfg)),
		Format:         log.ParseFormat(getLogFormat(cfg)),
		Output:         output,
		ServiceName:    "growthplan",
		ServiceVersion: info.Version,
	})

	log.SetDefaultLogger(logger)
	return logger
}

func setupMetricsServer(cfg *config.Config, logger *log.Logger) func() {
	if cfg == nil || !cfg.Metrics.Enabled {
		return func() {}
	}

	ln, err := net.Listen("tcp", cfg.Metrics.Addr)
	if err != nil {
		logger.Warn("Failed to start metrics endpoint", "addr", cfg.Metrics.Addr, "error", err)
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Metrics endpoint stopped", "error", err)
		}
	}()
	logger.Debug("Metrics endpoint listening", "addr", ln.Addr().String())

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

func setupTelemetry(ctx context.Context, cfg *config.Config, logger *log.Logger) func() {
	if !telemetryRequested(cfg) {
		return func() {}
	}

	telemCfg := telemetry.DefaultConfig()
	if cfg != nil {
		telemCfg = cfg.Telemetry
	}
	telemCfg.ServiceName = "growthplan"
	telemCfg.ServiceVersion = version.GetInfo().Version
	telemCfg.Environment = telemetryEnvironment(telemCfg.Environment)
	telemCfg.Enabled = true
	telemCfg.Endpoint = telemetryEndpoint(cfg)
	telemCfg.SampleRate = telemetrySampleRate(cfg)

	shutdown, err := telemetry.InitProvider(ctx, telemCfg)
	if err != nil {
		logger.Warn("Failed to initialize telemetry", "error", err)
		return func() {}
	}

	logger.Info("Telemetry enabled",
		"endpoint", telemCfg.Endpoint,
		"sample_rate", telemCfg.SampleRate,
	)

	return func() {
		if shutdown == nil {
			return
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to flush telemetry", "error", err)
		}
	}
}

func telemetryRequested(cfg *config.Config) bool {
	if val := strings.ToLower(os.Getenv("GROWTHPLAN_TELEMETRY")); val != "" {
		return val == "on" || val == "true" || val == "1" || val == "enabled"
	}

	if cfg == nil {
		return false
	}

	return cfg.Telemetry.Enabled
}

func telemetryEndpoint(cfg *config.Config) string {
	if env := os.Getenv("GROWTHPLAN_TELEMETRY_ENDPOINT"); env != "" {
		return env
	}
	if cfg != nil {
		return cfg.Telemetry.Endpoint
	}
	return ""
}

func telemetrySampleRate(cfg *config.Config) float64 {
	if env := os.Getenv("GROWTHPLAN_TELEMETRY_SAMPLE_RATE"); env != "" {
		if v, err := strconv.ParseFloat(env, 64); err == nil {
			return clampSampleRate(v)
		}
	}
	if cfg != nil && cfg.Telemetry.SampleRate > 0 {
		return clampSampleRate(cfg.Telemetry.SampleRate)
	}
	return 1.0
}

func telemetryEnvironment(configured string) string {
	if env := os.Getenv("GROWTHPLAN_ENV"); env != "" {
		return env
	}
	if configured != "" {
		return configured
	}
	return "cli"
}

func clampSampleRate(value float64) float64 {
	switch {
	case value <= 0:
		return 0.0
	case value >= 1:
		return 1.0
	default:
		return value
	}
}

func getLogLevel(cfg *config.Config) string {
	if env := os.Getenv("GROWTHPLAN_LOG_LEVEL"); env != "" {
		return env
	}
	if cfg != nil && cfg.Logging.Level != "" {
		return cfg.Logging.Level
	}
	return "info"
}

func getLogFormat(cfg *config.Config) string {
	if env := os.Getenv("GROWTHPLAN_LOG_FORMAT"); env != "" {
		return env
	}
	if cfg != nil && cfg.Logging.Format != "" {
		return cfg.Logging.Format
	}
	return "text"
}
