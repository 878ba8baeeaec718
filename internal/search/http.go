package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// HTTPProvider queries a JSON search API:
//
//	GET {endpoint}?q=<query>&limit=<n>
//	{"results":[{"title":"...","url":"...","snippet":"...","relevance":0.8}]}
type HTTPProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

type httpResult struct {
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Snippet   string   `json:"snippet"`
	Relevance *float64 `json:"relevance,omitempty"`
}

type httpResponse struct {
	Results []httpResult `json:"results"`
}

// NewHTTPProvider creates a provider for endpoint. A non-positive timeout uses 10s.
func NewHTTPProvider(endpoint, apiKey string, timeout time.Duration) (*HTTPProvider, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid search endpoint %q", endpoint)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProvider{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

// Search implements Provider.
func (p *HTTPProvider) Search(ctx context.Context, query string, maxResults int) ([]Document, error) {
	u, _ := url.Parse(p.endpoint)
	q := u.Query()
	q.Set("q", query)
	if maxResults > 0 {
		q.Set("limit", strconv.Itoa(maxResults))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search returned status %d: %s", resp.StatusCode, body)
	}

	var parsed httpResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 2<<20)).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	docs := make([]Document, 0, len(parsed.Results))
	for i, r := range parsed.Results {
		rel := 1.0 - float64(i)*0.1
		if r.Relevance != nil {
			rel = *r.Relevance
		}
		docs = append(docs, Document{
			Title:         r.Title,
			SourceLocator: r.URL,
			Snippet:       r.Snippet,
			Relevance:     ClampRelevance(rel),
		})
	}
	if maxResults > 0 && len(docs) > maxResults {
		docs = docs[:maxResults]
	}
	return docs, nil
}
