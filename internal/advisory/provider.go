package advisory

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/growthplan/internal/metrics"
	"github.com/felixgeelhaar/growthplan/internal/provider"
)

const defaultCallTimeout = 60 * time.Second

// systemPrompts frames each tag for the model. Every prompt asks for JSON only.
var systemPrompts = map[Tag]string{
	TagDeepUnderstanding:    "You are an organizational psychologist who profiles how adults learn at work.",
	TagFollowUpQuestions:    "You are a career coach preparing an intake conversation.",
	TagSearchQueries:        "You are a research librarian who writes precise search queries.",
	TagKnowledgeIntegration: "You are a learning researcher who condenses sources into practical insight.",
	TagDiagnosticAnalysis:   "You are a performance consultant who diagnoses skill gaps and their causes.",
	TagGapAnalysis:          "You are a performance consultant analysing a single skill gap.",
	TagGrowthStrategy:       "You are a learning and development strategist.",
	TagTaskDecomposition:    "You are an instructional designer who breaks goals into concrete learning tasks of one to three working days.",
	TagMilestones:           "You are a learning program manager who sets measurable milestones.",
	TagAdaptiveStrategies:   "You are an adaptive learning specialist.",
	TagRiskAssessment:       "You are a risk analyst for employee development programs.",
	TagActionPlans:          "You are a coach who turns strategy into daily and weekly actions.",
	TagPersonalizedGuidance: "You are a mentor who writes encouraging, concrete guidance.",
	TagSynthesis:            "You are a senior mentor summarizing a complete development analysis.",
}

const jsonOnly = " Respond with a single JSON value and no prose."

// SystemPrompt returns the system prompt used for tag.
func SystemPrompt(tag Tag) string {
	if p, ok := systemPrompts[tag]; ok {
		return p + jsonOnly
	}
	return "You are a helpful assistant." + jsonOnly
}

// ProviderGenerator adapts a provider client to the Generator contract.
type ProviderGenerator struct {
	client  provider.ProviderClient
	timeout time.Duration
	metrics *metrics.Metrics
}

// NewProviderGenerator wraps client. A non-positive timeout uses 60s per call.
func NewProviderGenerator(client provider.ProviderClient, timeout time.Duration, m *metrics.Metrics) *ProviderGenerator {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &ProviderGenerator{client: client, timeout: timeout, metrics: m}
}

// Generate implements Generator.
func (g *ProviderGenerator) Generate(ctx context.Context, tag Tag, prompt string, maxTokens int, temperature float64) (string, error) {
	if !g.client.IsAvailable() {
		return "", fmt.Errorf("provider %s is not available", g.client.GetInfo().Name)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Generate(ctx, &provider.GenerateRequest{
		Prompt:       prompt,
		SystemPrompt: SystemPrompt(tag),
		MaxTokens:    maxTokens,
		Temperature:  temperature,
		Metadata:     map[string]string{"tag": string(tag)},
	})
	if err != nil {
		return "", err
	}
	g.metrics.RecordTokens(resp.Provider, resp.InputTokens, resp.OutputTokens)
	return resp.Content, nil
}
