package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/growthplan/internal/advisory"
	"github.com/felixgeelhaar/growthplan/internal/config"
	"github.com/felixgeelhaar/growthplan/internal/history"
	"github.com/felixgeelhaar/growthplan/internal/log"
	"github.com/felixgeelhaar/growthplan/internal/provider"
	"github.com/felixgeelhaar/growthplan/internal/search"
)

func TestNewGenerator(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		cfg := config.Default()
		cfg.Advisory.Enabled = false

		gen, cleanup := newGenerator(cfg, nil, log.Nop())
		defer cleanup()
		assert.Nil(t, gen)
	})

	t.Run("invalid provider falls back", func(t *testing.T) {
		cfg := config.Default()
		cfg.Advisory.Enabled = true
		cfg.Advisory.Provider = provider.ProviderConfig{Name: "x", Kind: "carrier-pigeon", Enabled: true}

		gen, cleanup := newGenerator(cfg, nil, log.Nop())
		defer cleanup()
		assert.Nil(t, gen)
	})

	t.Run("disabled provider falls back", func(t *testing.T) {
		cfg := config.Default()
		cfg.Advisory.Enabled = true
		cfg.Advisory.Provider.Enabled = false

		gen, cleanup := newGenerator(cfg, nil, log.Nop())
		defer cleanup()
		assert.Nil(t, gen)
	})

	t.Run("configured provider", func(t *testing.T) {
		cfg := config.Default()
		cfg.Advisory.Enabled = true
		cfg.Advisory.Provider = provider.ProviderConfig{
			Name: "local", Kind: provider.KindOpenAI, Enabled: true,
			APIKey: "test", BaseURL: "http://127.0.0.1:1",
		}

		gen, cleanup := newGenerator(cfg, nil, log.Nop())
		defer cleanup()
		require.NotNil(t, gen)
		assert.IsType(t, &advisory.ProviderGenerator{}, gen)
	})
}

func TestNewProviderClientUsesFallback(t *testing.T) {
	cfg := config.Default()
	cfg.Advisory.Enabled = true
	cfg.Advisory.Provider = provider.ProviderConfig{Name: "claude", Kind: provider.KindAnthropic, Enabled: true}
	cfg.Advisory.Fallbacks = []provider.ProviderConfig{{
		Name: "local", Kind: provider.KindOpenAI, Enabled: true, BaseURL: "http://127.0.0.1:1",
	}}

	client, cleanup, reason := newProviderClient(cfg)
	defer cleanup()

	require.NotNil(t, client, reason)
	assert.Equal(t, "local", client.GetInfo().Name)
	assert.Empty(t, reason)
}

func TestNewProviderClientReportsEveryFailure(t *testing.T) {
	cfg := config.Default()
	cfg.Advisory.Enabled = true
	cfg.Advisory.Provider = provider.ProviderConfig{Name: "a", Kind: "carrier-pigeon", Enabled: true}
	cfg.Advisory.Fallbacks = []provider.ProviderConfig{{Name: "b", Kind: "smoke-signal", Enabled: true}}

	client, cleanup, reason := newProviderClient(cfg)
	defer cleanup()

	assert.Nil(t, client)
	assert.Contains(t, reason, "provider a unavailable")
	assert.Contains(t, reason, "provider b unavailable")
}

func TestNewSearchProvider(t *testing.T) {
	cfg := config.Default()

	p, err := newSearchProvider(cfg)
	require.NoError(t, err)
	assert.IsType(t, search.NoopProvider{}, p)

	corpus := filepath.Join(t.TempDir(), "corpus.yaml")
	require.NoError(t, os.WriteFile(corpus, []byte(`documents:
  - title: Table driven tests in Go
    source_locator: https://go.dev/wiki/TableDrivenTests
    snippet: Write tests as tables of cases.
    tags: [testing]
`), 0o600))
	cfg.Search.Type = config.SearchCorpus
	cfg.Search.CorpusPath = corpus
	p, err = newSearchProvider(cfg)
	require.NoError(t, err)
	docs, err := p.Search(context.Background(), "testing", 5)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Table driven tests in Go", docs[0].Title)

	cfg.Search.Type = config.SearchHTTP
	cfg.Search.Endpoint = "http://127.0.0.1:1/search"
	cfg.Search.Timeout = time.Second
	p, err = newSearchProvider(cfg)
	require.NoError(t, err)
	assert.IsType(t, &search.HTTPProvider{}, p)

	cfg.Search.Type = "ftp"
	_, err = newSearchProvider(cfg)
	assert.Error(t, err)
}

func TestNewHistorySink(t *testing.T) {
	cfg := config.Default()
	ctx := context.Background()

	cfg.History.Path = ""
	sink, closeSink, err := newHistorySink(ctx, cfg)
	require.NoError(t, err)
	closeSink()
	assert.IsType(t, &history.Memory{}, sink)

	cfg.History.Path = filepath.Join(t.TempDir(), "sub", "history.jsonl")
	sink, closeSink, err = newHistorySink(ctx, cfg)
	require.NoError(t, err)
	closeSink()
	file, ok := sink.(*history.File)
	require.True(t, ok)
	assert.Equal(t, cfg.History.Path, file.Path())

	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")
	sink, closeSink, err = newHistorySink(ctx, cfg)
	require.NoError(t, err)
	defer closeSink()
	db, ok := sink.(*history.SQLite)
	require.True(t, ok)
	assert.Equal(t, cfg.History.Path, db.Path())
}

func TestPipelineSettings(t *testing.T) {
	cfg := config.Default()
	cfg.Search.MaxQueriesPerCategory = 2
	cfg.Search.MaxResults = 7
	cfg.Search.Concurrency = 3
	cfg.Advisory.Concurrency = 6
	cfg.Advisory.Operations = map[advisory.Tag]advisory.Params{
		advisory.TagSynthesis: {MaxTokens: 500, Temperature: 0.2},
	}

	s := pipelineSettings(cfg)
	assert.Equal(t, 2, s.MaxQueriesPerCategory)
	assert.Equal(t, 7, s.MaxResults)
	assert.Equal(t, 3, s.SearchConcurrency)
	assert.Equal(t, 6, s.AdvisoryConcurrency)
	assert.Equal(t, 500, s.Overrides[advisory.TagSynthesis].MaxTokens)
}
