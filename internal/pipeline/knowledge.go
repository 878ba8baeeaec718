package pipeline

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/growthplan/internal/advisory"
	"github.com/felixgeelhaar/growthplan/internal/errors"
	"github.com/felixgeelhaar/growthplan/internal/search"
	"github.com/felixgeelhaar/growthplan/internal/telemetry"
)

// SearchQueries are the research queries of each category.
type SearchQueries struct {
	Web       []string `json:"web_search"`
	Technical []string `json:"technical_search"`
	Industry  []string `json:"industry_search"`
}

// For returns the queries of one category.
func (q SearchQueries) For(c search.Category) []string {
	switch c {
	case search.CategoryWeb:
		return q.Web
	case search.CategoryTechnical:
		return q.Technical
	case search.CategoryIndustry:
		return q.Industry
	default:
		return nil
	}
}

// Capped limits every category to n queries.
func (q SearchQueries) Capped(n int) SearchQueries {
	limit := func(l []string) []string {
		l = clean(l)
		if n > 0 && len(l) > n {
			return l[:n]
		}
		return l
	}
	return SearchQueries{Web: limit(q.Web), Technical: limit(q.Technical), Industry: limit(q.Industry)}
}

// Total counts the queries across categories.
func (q SearchQueries) Total() int {
	return len(q.Web) + len(q.Technical) + len(q.Industry)
}

// DefaultSearchQueries are the template queries for a domain.
func DefaultSearchQueries(domain string) SearchQueries {
	return SearchQueries{
		Web:       []string{domain + " skills development", "professional growth tips"},
		Technical: []string{domain + " best practices", "industry standards"},
		Industry:  []string{domain + " trends", "future skills requirements"},
	}
}

// Knowledge is the output of the knowledge aggregation phase.
type Knowledge struct {
	Queries                   SearchQueries                         `json:"search_queries"`
	Results                   map[search.Category][]search.Document `json:"search_results"`
	FailedQueries             int                                   `json:"failed_queries"`
	IntegratedInsights        []string                              `json:"integrated_insights"`
	RelevantResources         []string                              `json:"relevant_resources"`
	ActionableRecommendations []string                              `json:"actionable_recommendations"`
	Confidence                float64                               `json:"confidence"`
}

type queriesPayload struct {
	Web       advisory.StringList `json:"web_search"`
	Technical advisory.StringList `json:"technical_search"`
	Industry  advisory.StringList `json:"industry_search"`
}

func (p queriesPayload) Validate() error {
	q := SearchQueries{Web: p.Web, Technical: p.Technical, Industry: p.Industry}.Capped(0)
	if q.Total() == 0 {
		return fmt.Errorf("no queries in any category")
	}
	return nil
}

type integrationPayload struct {
	IntegratedInsights        advisory.StringList `json:"integrated_insights"`
	RelevantResources         advisory.StringList `json:"relevant_resources"`
	ActionableRecommendations advisory.StringList `json:"actionable_recommendations"`
	Confidence                *advisory.FlexFloat `json:"confidence"`
}

func (p integrationPayload) Validate() error {
	if len(p.IntegratedInsights) == 0 && len(p.ActionableRecommendations) == 0 {
		return fmt.Errorf("no insights or recommendations")
	}
	return nil
}

const (
	genericInsight               = "Build skills through consistent practice and regular feedback."
	fallbackResources            = 5
	defaultIntegrationConfidence = 0.6
)

func (p *Pipeline) aggregateKnowledge(ctx context.Context, s *advisory.Session, lc LearnerContext, u Understanding) Knowledge {
	queries, _ := advisory.Resolve(ctx, s, advisory.Request{
		Tag:    advisory.TagSearchQueries,
		Prompt: searchQueriesPrompt(lc, u, p.settings.MaxQueriesPerCategory),
	}, func() queriesPayload {
		d := DefaultSearchQueries(lc.Domain)
		return queriesPayload{Web: d.Web, Technical: d.Technical, Industry: d.Industry}
	})

	k := Knowledge{
		Queries: SearchQueries{Web: queries.Web, Technical: queries.Technical, Industry: queries.Industry}.
			Capped(p.settings.MaxQueriesPerCategory),
	}
	k.Results, k.FailedQueries = p.runSearches(ctx, lc.ID, k.Queries)

	res := advisory.Call[integrationPayload](ctx, s, advisory.Request{
		Tag:    advisory.TagKnowledgeIntegration,
		Prompt: integrationPrompt(lc, k.Results),
	})
	switch res.Outcome {
	case advisory.OutcomeParsed:
		k.IntegratedInsights = nonNil(res.Value.IntegratedInsights)
		k.RelevantResources = nonNil(res.Value.RelevantResources)
		k.ActionableRecommendations = nonNil(res.Value.ActionableRecommendations)
		k.Confidence = defaultIntegrationConfidence
		if res.Value.Confidence != nil {
			k.Confidence = clamp01(float64(*res.Value.Confidence))
		}
	case advisory.OutcomeMalformed:
		s.Fallback(advisory.TagKnowledgeIntegration, res.Err)
		fallbackIntegration(&k, 0.5)
	default:
		s.Fallback(advisory.TagKnowledgeIntegration, res.Err)
		fallbackIntegration(&k, 0.4)
	}
	return k
}

func fallbackIntegration(k *Knowledge, confidence float64) {
	k.IntegratedInsights = []string{genericInsight}
	k.RelevantResources = TopTitles(k.Results, fallbackResources)
	k.ActionableRecommendations = []string{}
	k.Confidence = confidence
}

// TopTitles returns the titles of the most relevant documents across categories.
func TopTitles(results map[search.Category][]search.Document, n int) []string {
	var all []search.Document
	for _, c := range search.Categories {
		all = append(all, results[c]...)
	}
	ranked := search.RankAndDedupe(all, n)
	titles := make([]string, 0, len(ranked))
	for _, d := range ranked {
		titles = append(titles, d.Title)
	}
	return titles
}

type searchJob struct {
	category search.Category
	query    string
}

// runSearches issues every query concurrently. A failed query contributes no
// documents and is counted. Results are ranked and deduplicated per category.
func (p *Pipeline) runSearches(ctx context.Context, learnerID string, q SearchQueries) (map[search.Category][]search.Document, int) {
	var jobs []searchJob
	for _, c := range search.Categories {
		for _, query := range q.For(c) {
			jobs = append(jobs, searchJob{category: c, query: query})
		}
	}

	docs := make([][]search.Document, len(jobs))
	var (
		mu     sync.Mutex
		failed int
	)

	g, gctx := errgroup.WithContext(ctx)
	if p.settings.SearchConcurrency > 0 {
		g.SetLimit(p.settings.SearchConcurrency)
	}
	for i, job := range jobs {
		g.Go(func() error {
			found, err := p.search(gctx, job)
			if err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
				p.logger.WithLearner(learnerID).WithError(err).Warn("search query failed", "category", string(job.category))
				p.metrics.RecordError(string(errors.ErrCodeSearchFailed))
				return nil
			}
			docs[i] = found
			return nil
		})
	}
	_ = g.Wait()

	byCategory := make(map[search.Category][]search.Document, len(search.Categories))
	for _, c := range search.Categories {
		var merged []search.Document
		for i, job := range jobs {
			if job.category == c {
				merged = append(merged, docs[i]...)
			}
		}
		byCategory[c] = search.RankAndDedupe(merged, p.settings.MaxResults)
	}
	return byCategory, failed
}

func (p *Pipeline) search(ctx context.Context, job searchJob) ([]search.Document, error) {
	ctx, span := telemetry.StartSearchSpan(ctx, string(job.category), job.query)
	defer span.End()

	found, err := p.searcher.Search(ctx, job.query, p.settings.MaxResults)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		err = errors.NewSearchFailedError(job.query, err)
		telemetry.RecordError(span, err)
		p.metrics.RecordSearch(string(job.category), false, 0)
		return nil, err
	}
	telemetry.RecordSuccess(span, attribute.Int("results", len(found)))
	p.metrics.RecordSearch(string(job.category), true, len(found))
	return found, nil
}
