// Package search retrieves reference documents for the knowledge aggregation phase.
package search

import (
	"context"
	"math"
	"sort"
	"strings"
)

// Category groups queries by the kind of source they target.
type Category string

const (
	CategoryWeb       Category = "web"
	CategoryTechnical Category = "technical"
	CategoryIndustry  Category = "industry"
)

// Categories lists every category in report order.
var Categories = []Category{CategoryWeb, CategoryTechnical, CategoryIndustry}

// Document is one search hit.
type Document struct {
	Title         string  `json:"title" yaml:"title"`
	SourceLocator string  `json:"source_locator" yaml:"source_locator"`
	Snippet       string  `json:"snippet" yaml:"snippet"`
	Relevance     float64 `json:"relevance" yaml:"relevance"`
}

// Provider runs one query. Implementations must be safe for concurrent use.
type Provider interface {
	Search(ctx context.Context, query string, maxResults int) ([]Document, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, query string, maxResults int) ([]Document, error)

// Search implements Provider.
func (f ProviderFunc) Search(ctx context.Context, query string, maxResults int) ([]Document, error) {
	return f(ctx, query, maxResults)
}

// NoopProvider returns no documents.
type NoopProvider struct{}

// Search implements Provider.
func (NoopProvider) Search(context.Context, string, int) ([]Document, error) {
	return nil, nil
}

// ClampRelevance maps any value into [0,1]; NaN becomes 0.
func ClampRelevance(r float64) float64 {
	switch {
	case math.IsNaN(r) || r < 0:
		return 0
	case r > 1:
		return 1
	default:
		return r
	}
}

// RankAndDedupe drops untitled documents, keeps the most relevant document per
// title (case-insensitive), and sorts by relevance descending. Ties keep input order.
// limit <= 0 keeps every document.
func RankAndDedupe(docs []Document, limit int) []Document {
	index := make(map[string]int, len(docs))
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		key := strings.ToLower(strings.TrimSpace(d.Title))
		if key == "" {
			continue
		}
		d.Relevance = ClampRelevance(d.Relevance)
		if i, seen := index[key]; seen {
			if d.Relevance > out[i].Relevance {
				out[i] = d
			}
			continue
		}
		index[key] = len(out)
		out = append(out, d)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Relevance > out[j].Relevance
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
