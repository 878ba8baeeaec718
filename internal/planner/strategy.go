package planner

import (
	"context"

	"github.com/felixgeelhaar/growthplan/internal/advisory"
)

// BaseStrategyFor asks for the high-level strategy, falling back to FallbackBaseStrategy.
func BaseStrategyFor(ctx context.Context, s *advisory.Session, in Input) (BaseStrategy, advisory.Outcome) {
	res := advisory.Call[strategyPayload](ctx, s, advisory.Request{
		Tag:    advisory.TagGrowthStrategy,
		Prompt: strategyPrompt(in),
	})
	if !res.OK() {
		s.Fallback(advisory.TagGrowthStrategy, res.Err)
		return FallbackBaseStrategy(), res.Outcome
	}

	p := res.Value
	base := BaseStrategy{
		StrategicApproach:   p.StrategicApproach,
		LearningMethodology: p.LearningMethodology,
		SkillPriorities:     nonNil(p.SkillPriorities),
		GrowthPhases:        make([]GrowthPhase, 0, len(p.GrowthPhases)),
		MotivationStrategy:  p.MotivationStrategy,
		ProgressMetrics:     nonNil(p.ProgressMetrics),
		SupportRequirements: nonNil(p.SupportRequirements),
	}
	for _, gp := range p.GrowthPhases {
		base.GrowthPhases = append(base.GrowthPhases, GrowthPhase{
			Phase:         gp.Phase,
			Duration:      string(gp.Duration),
			Objectives:    nonNil(gp.Objectives),
			KeyActivities: nonNil(gp.KeyActivities),
		})
	}
	return base, res.Outcome
}

// FallbackBaseStrategy is the fixed step-by-step strategy.
func FallbackBaseStrategy() BaseStrategy {
	return BaseStrategy{
		StrategicApproach:   "step-by-step skill acquisition",
		LearningMethodology: "combine hands-on practice with theory",
		SkillPriorities:     []string{"foundational skills", "applied skills", "practical skills"},
		GrowthPhases: []GrowthPhase{{
			Phase:         "foundation",
			Duration:      "30 days",
			Objectives:    []string{"understand the core concepts"},
			KeyActivities: []string{"study learning materials", "basic practice"},
		}},
		MotivationStrategy:  "accumulate small wins",
		ProgressMetrics:     []string{"completion rate", "comprehension checks"},
		SupportRequirements: []string{"regular feedback", "access to resources"},
	}
}
