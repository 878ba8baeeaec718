package planner

import (
	"context"
	"math"
	"strings"

	"github.com/felixgeelhaar/growthplan/internal/advisory"
	"github.com/felixgeelhaar/growthplan/internal/domain"
	"github.com/felixgeelhaar/growthplan/internal/errors"
	"github.com/felixgeelhaar/growthplan/internal/log"
)

const (
	minRiskScore = 1
	maxRiskScore = 10
)

// AssessRisks asks for a risk assessment over the scheduled tasks, falling back
// to FallbackRiskAssessment. Scores are clamped to [1,10] and a missing overall
// level is derived from the highest score.
func AssessRisks(ctx context.Context, s *advisory.Session, in Input, tasks []Task, logger *log.Logger) (RiskAssessment, advisory.Outcome) {
	if logger == nil {
		logger = log.Nop()
	}
	res := advisory.Call[riskPayload](ctx, s, advisory.Request{
		Tag:    advisory.TagRiskAssessment,
		Prompt: riskPrompt(in, tasks),
	})
	if !res.OK() {
		s.Fallback(advisory.TagRiskAssessment, res.Err)
		return FallbackRiskAssessment(), res.Outcome
	}

	p := res.Value
	ra := RiskAssessment{
		IdentifiedRisks:      make([]Risk, 0, len(p.IdentifiedRisks)),
		MitigationStrategies: make([]Mitigation, 0, len(p.MitigationStrategies)),
		MonitoringPlan: MonitoringPlan{
			Indicators:      nonNil(p.MonitoringPlan.Indicators),
			Frequency:       string(p.MonitoringPlan.Frequency),
			EscalationSteps: nonNil(p.MonitoringPlan.EscalationSteps),
		},
	}

	highest := 0
	for _, r := range p.IdentifiedRisks {
		score, clamped := clampRiskScore(float64(r.RiskScore))
		if clamped {
			logger.WithError(errors.NewValueClampedError("risk_score", float64(r.RiskScore), float64(score))).
				Warn("risk score out of range", "risk_type", r.RiskType)
		}
		if score > highest {
			highest = score
		}
		ra.IdentifiedRisks = append(ra.IdentifiedRisks, Risk{
			Type:        strings.TrimSpace(r.RiskType),
			Description: r.Description,
			Probability: domain.NormalizeLevel(r.Probability),
			Impact:      domain.NormalizeLevel(r.Impact),
			Score:       score,
		})
	}
	for _, m := range p.MitigationStrategies {
		ra.MitigationStrategies = append(ra.MitigationStrategies, Mitigation{
			RiskType:          strings.TrimSpace(m.RiskType),
			Strategy:          m.Strategy,
			PreventiveActions: nonNil(m.PreventiveActions),
			ContingencyPlans:  nonNil(m.ContingencyPlans),
		})
	}

	if level, err := domain.ParseLevel(p.OverallRiskLevel); err == nil {
		ra.OverallRiskLevel = level
	} else {
		ra.OverallRiskLevel = domain.LevelForScore(highest)
	}
	return ra, res.Outcome
}

// clampRiskScore compares in float64 before converting, since converting an
// out-of-range float to int is implementation-defined.
func clampRiskScore(v float64) (int, bool) {
	r := math.Round(v)
	switch {
	case math.IsNaN(r), r < minRiskScore:
		return minRiskScore, true
	case r > maxRiskScore:
		return maxRiskScore, true
	default:
		return int(r), false
	}
}

// FallbackRiskAssessment is a single medium/medium time management risk with weekly monitoring.
func FallbackRiskAssessment() RiskAssessment {
	return RiskAssessment{
		IdentifiedRisks: []Risk{{
			Type:        "time_management",
			Description: "difficulty making time for learning alongside regular work",
			Probability: domain.LevelMedium,
			Impact:      domain.LevelMedium,
			Score:       5,
		}},
		MitigationStrategies: []Mitigation{{
			RiskType:          "time_management",
			Strategy:          "prioritize tasks and keep a schedule",
			PreventiveActions: []string{"time blocking"},
			ContingencyPlans:  []string{"increase support"},
		}},
		MonitoringPlan: MonitoringPlan{
			Indicators:      []string{"progress delay"},
			Frequency:       "weekly",
			EscalationSteps: []string{"mentor intervention"},
		},
		OverallRiskLevel: domain.LevelMedium,
	}
}
