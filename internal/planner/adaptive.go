package planner

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/growthplan/internal/advisory"
	"github.com/felixgeelhaar/growthplan/internal/domain"
)

// MaxAdaptiveStrategies caps the number of strategies kept from a response.
const MaxAdaptiveStrategies = 5

// AdaptiveStrategies asks for typed adaptation strategies. Unknown types are
// dropped and at most MaxAdaptiveStrategies are kept. A response with no
// usable strategy counts as malformed.
func AdaptiveStrategies(ctx context.Context, s *advisory.Session, in Input) ([]AdaptiveStrategy, advisory.Outcome) {
	res := advisory.Call[adaptiveList](ctx, s, advisory.Request{
		Tag:    advisory.TagAdaptiveStrategies,
		Prompt: adaptivePrompt(in),
	})
	if !res.OK() {
		s.Fallback(advisory.TagAdaptiveStrategies, res.Err)
		return FallbackAdaptiveStrategies(), res.Outcome
	}

	out := make([]AdaptiveStrategy, 0, MaxAdaptiveStrategies)
	for _, p := range res.Value {
		st, err := domain.ParseStrategyType(p.StrategyType)
		if err != nil {
			continue
		}
		out = append(out, AdaptiveStrategy{
			Type:               st,
			TriggerConditions:  nonNil(p.TriggerConditions),
			Adaptations:        nonNil(p.Adaptations),
			MonitoringMetrics:  nonNil(p.MonitoringMetrics),
			EscalationCriteria: nonNil(p.EscalationCriteria),
		})
		if len(out) == MaxAdaptiveStrategies {
			break
		}
	}
	if len(out) == 0 {
		s.Fallback(advisory.TagAdaptiveStrategies, advisory.MalformedError(advisory.TagAdaptiveStrategies,
			fmt.Errorf("no strategy with a known strategy_type")))
		return FallbackAdaptiveStrategies(), advisory.OutcomeMalformed
	}
	return out, res.Outcome
}

// FallbackAdaptiveStrategies is a single learning_pace strategy triggered by progress delay.
func FallbackAdaptiveStrategies() []AdaptiveStrategy {
	return []AdaptiveStrategy{{
		Type:               domain.StrategyLearningPace,
		TriggerConditions:  []string{"progress delay"},
		Adaptations:        []string{"split tasks into smaller steps", "add support"},
		MonitoringMetrics:  []string{"completion rate", "comprehension"},
		EscalationCriteria: []string{"three consecutive days of delay"},
	}}
}
