package search

import (
	"context"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/growthplan/internal/errors"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("unable to start test server: %v", err)
	}
	server := &httptest.Server{Listener: listener, Config: &http.Server{Handler: handler}}
	server.Start()
	t.Cleanup(server.Close)
	return server
}

func TestRankAndDedupe(t *testing.T) {
	docs := []Document{
		{Title: "Go Concurrency", Relevance: 0.4},
		{Title: "Mentoring 101", Relevance: 0.9},
		{Title: "go concurrency ", Relevance: 0.7},
		{Title: "", Relevance: 1},
		{Title: "Overrated", Relevance: 3},
		{Title: "Broken", Relevance: math.NaN()},
	}

	got := RankAndDedupe(docs, 0)

	require.Len(t, got, 4)
	assert.Equal(t, "Overrated", got[0].Title)
	assert.Equal(t, 1.0, got[0].Relevance)
	assert.Equal(t, "Mentoring 101", got[1].Title)
	assert.Equal(t, "go concurrency ", got[2].Title, "higher-relevance duplicate wins")
	assert.Equal(t, 0.0, got[3].Relevance)

	assert.Len(t, RankAndDedupe(docs, 2), 2)
}

func TestCorpusProviderRanksTitleMatchesFirst(t *testing.T) {
	p := NewCorpusProvider([]Entry{
		{Title: "Intro to statistics", Snippet: "Python notebooks for analysts"},
		{Title: "Python best practices", Snippet: "Style, testing and packaging", Tags: []string{"python"}},
		{Title: "Leadership basics", Snippet: "Running one-on-ones"},
	})

	docs, err := p.Search(context.Background(), "python best practices", 5)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Python best practices", docs[0].Title)
	assert.Greater(t, docs[0].Relevance, docs[1].Relevance)
	for _, d := range docs {
		assert.GreaterOrEqual(t, d.Relevance, 0.0)
		assert.LessOrEqual(t, d.Relevance, 1.0)
	}

	docs, err = p.Search(context.Background(), "the and of", 5)
	require.NoError(t, err)
	assert.Empty(t, docs, "stop words alone match nothing")

	docs, err = p.Search(context.Background(), "python", 1)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestCorpusProviderHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCorpusProvider(nil).Search(ctx, "x", 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadCorpus(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corpus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
documents:
  - title: Effective feedback
    source_locator: https://example.com/feedback
    snippet: How to give and receive feedback
    tags: [communication]
`), 0o600))

	p, err := LoadCorpus(path)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Len())

	_, err = LoadCorpus(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.HasCode(err, errors.ErrCodeFileNotFound))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("documents:\n  - snippet: no title\n"), 0o600))
	_, err = LoadCorpus(bad)
	assert.True(t, errors.HasCode(err, errors.ErrCodeSearchConfig))
}

func TestHTTPProvider(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "kotlin coroutines", r.URL.Query().Get("q"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"results":[
			{"title":"Coroutines guide","url":"https://k.example/1","snippet":"s1","relevance":0.9},
			{"title":"Flows","url":"https://k.example/2","snippet":"s2"},
			{"title":"Extra","url":"https://k.example/3"}
		]}`))
	})

	p, err := NewHTTPProvider(server.URL+"/search", "secret", 0)
	require.NoError(t, err)

	docs, err := p.Search(context.Background(), "kotlin coroutines", 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "https://k.example/1", docs[0].SourceLocator)
	assert.InDelta(t, 0.9, docs[0].Relevance, 1e-9)
	assert.InDelta(t, 0.9, docs[1].Relevance, 1e-9, "missing relevance derives from rank")
}

func TestHTTPProviderErrors(t *testing.T) {
	_, err := NewHTTPProvider("not a url", "", 0)
	assert.Error(t, err)

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})
	p, err := NewHTTPProvider(server.URL, "", 0)
	require.NoError(t, err)
	_, err = p.Search(context.Background(), "x", 1)
	assert.ErrorContains(t, err, "429")
}

func TestNoopProvider(t *testing.T) {
	docs, err := NoopProvider{}.Search(context.Background(), "anything", 10)
	assert.NoError(t, err)
	assert.Empty(t, docs)
}
