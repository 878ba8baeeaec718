package health

import (
	"context"

	"github.com/felixgeelhaar/growthplan/internal/provider"
)

// ProviderChecker reports whether the advisory provider can accept requests.
// It does not send a generation request.
type ProviderChecker struct {
	client provider.ProviderClient
	reason string
}

// NewProviderChecker checks client. A nil client reports reason as degraded,
// since planning then runs on fallbacks.
func NewProviderChecker(client provider.ProviderClient, reason string) *ProviderChecker {
	return &ProviderChecker{client: client, reason: reason}
}

// Name returns the name of this health check.
func (c *ProviderChecker) Name() string {
	return "advisory-provider"
}

// Check implements Checker.
func (c *ProviderChecker) Check(ctx context.Context) *Result {
	if c.client == nil {
		msg := c.reason
		if msg == "" {
			msg = "advisory provider not configured"
		}
		return Degraded(msg).WithDetail("suggestion", "Every phase will use its default output")
	}
	if err := ctx.Err(); err != nil {
		return Unhealthy(err.Error())
	}

	info := c.client.GetInfo()
	if !c.client.IsAvailable() {
		return Degraded("provider " + info.Name + " is not available").
			WithDetail("kind", string(info.Kind)).
			WithDetail("suggestion", "Check the provider api_key")
	}
	return Healthy("provider " + info.Name + " is available").
		WithDetail("kind", string(info.Kind)).
		WithDetail("model", info.Model).
		WithDetail("endpoint", info.Endpoint)
}
