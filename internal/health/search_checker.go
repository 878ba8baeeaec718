package health

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/growthplan/internal/search"
)

// probeQuery is sent to the search backend by SearchChecker.
const probeQuery = "professional development"

// SearchChecker runs one probe query against the search backend.
type SearchChecker struct {
	provider search.Provider
	kind     string
}

// NewSearchChecker checks p, labelled with its configured kind.
func NewSearchChecker(p search.Provider, kind string) *SearchChecker {
	return &SearchChecker{provider: p, kind: kind}
}

// Name returns the name of this health check.
func (c *SearchChecker) Name() string {
	return "search"
}

// Check implements Checker. A failing backend is degraded: the knowledge
// phase tolerates failed queries.
func (c *SearchChecker) Check(ctx context.Context) *Result {
	if c.provider == nil {
		return Degraded("search not configured").WithDetail("type", c.kind)
	}
	if _, ok := c.provider.(search.NoopProvider); ok {
		return Degraded("search disabled; knowledge comes from the advisory service only").WithDetail("type", c.kind)
	}

	docs, err := c.provider.Search(ctx, probeQuery, 1)
	if err != nil {
		return Degraded("search probe failed").
			WithDetail("type", c.kind).
			WithDetail("error", err.Error())
	}
	return Healthy(fmt.Sprintf("search answered with %d result(s)", len(docs))).WithDetail("type", c.kind)
}
