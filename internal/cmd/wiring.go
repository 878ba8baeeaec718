package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/growthplan/internal/advisory"
	"github.com/felixgeelhaar/growthplan/internal/config"
	"github.com/felixgeelhaar/growthplan/internal/history"
	"github.com/felixgeelhaar/growthplan/internal/log"
	"github.com/felixgeelhaar/growthplan/internal/metrics"
	"github.com/felixgeelhaar/growthplan/internal/pipeline"
	"github.com/felixgeelhaar/growthplan/internal/provider"
	"github.com/felixgeelhaar/growthplan/internal/search"
)

// newProviderClient builds the configured providers and selects the first
// available one, primary before fallbacks. When advisory is disabled or no
// provider can serve it returns a nil client and the reason.
func newProviderClient(cfg *config.Config) (provider.ProviderClient, func(), string) {
	noop := func() {}
	if !cfg.Advisory.Enabled {
		return nil, noop, "advisory service disabled"
	}

	registry := provider.NewRegistry()
	configs := append([]provider.ProviderConfig{cfg.Advisory.Provider}, cfg.Advisory.Fallbacks...)
	var (
		order    []string
		failures []string
	)
	for i := range configs {
		pc := configs[i]
		if err := registry.LoadFromConfig(&pc); err != nil {
			failures = append(failures, fmt.Sprintf("provider %s unavailable: %v", pc.Name, err))
			continue
		}
		order = append(order, pc.Name)
	}

	client, err := registry.Select(order)
	if err != nil {
		_ = registry.CloseAll()
		if len(failures) > 0 {
			return nil, noop, strings.Join(failures, "; ")
		}
		return nil, noop, fmt.Sprintf("provider %s not available: %v", cfg.Advisory.Provider.Name, err)
	}
	return client, func() { _ = registry.CloseAll() }, ""
}

// newGenerator builds the advisory backend. A disabled or broken provider
// yields a nil generator, and the pipeline then runs on fallbacks.
func newGenerator(cfg *config.Config, m *metrics.Metrics, logger *log.Logger) (advisory.Generator, func()) {
	client, closeAll, reason := newProviderClient(cfg)
	if client == nil {
		if cfg.Advisory.Enabled {
			logger.Warn("Advisory provider unavailable; using fallbacks", "reason", reason)
		} else {
			logger.Debug("Advisory service disabled; using fallbacks")
		}
		return nil, closeAll
	}
	return advisory.NewProviderGenerator(client, cfg.Advisory.Timeout, m), closeAll
}

func newSearchProvider(cfg *config.Config) (search.Provider, error) {
	switch cfg.Search.Type {
	case config.SearchCorpus:
		return search.LoadCorpus(cfg.Search.CorpusPath)
	case config.SearchHTTP:
		return search.NewHTTPProvider(cfg.Search.Endpoint, cfg.Search.APIKey, cfg.Search.Timeout)
	case config.SearchNone, "":
		return search.NoopProvider{}, nil
	default:
		return nil, ValidationError("search.type", cfg.Search.Type, "corpus, http, none")
	}
}

// newHistorySink opens the configured history. The returned close function is never nil.
func newHistorySink(ctx context.Context, cfg *config.Config) (history.Sink, func(), error) {
	if cfg.History.Path == "" {
		return history.NewMemory(), func() {}, nil
	}
	sink, closeSink, err := history.Open(ctx, cfg.History.Path)
	if err != nil {
		return nil, func() {}, fmt.Errorf("failed to open history: %w", err)
	}
	return sink, func() { _ = closeSink() }, nil
}

// commandContext returns the command's context, or Background when run outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func pipelineSettings(cfg *config.Config) pipeline.Settings {
	return pipeline.Settings{
		MaxQueriesPerCategory: cfg.Search.MaxQueriesPerCategory,
		MaxResults:            cfg.Search.MaxResults,
		SearchConcurrency:     cfg.Search.Concurrency,
		AdvisoryConcurrency:   cfg.Advisory.Concurrency,
		Overrides:             cfg.Advisory.Operations,
	}
}
