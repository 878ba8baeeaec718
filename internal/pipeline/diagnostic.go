package pipeline

import (
	"context"
	"fmt"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/growthplan/internal/advisory"
	"github.com/felixgeelhaar/growthplan/internal/domain"
	"github.com/felixgeelhaar/growthplan/internal/errors"
)

const defaultReadinessScore = 0.5

// GapDetail is the analysis of one identified gap.
type GapDetail struct {
	Gap                string          `json:"gap"`
	Summary            string          `json:"summary"`
	Priority           domain.Priority `json:"priority"`
	RootCauses         []string        `json:"root_causes"`
	RecommendedActions []string        `json:"recommended_actions"`
}

// Diagnostic is the output of the diagnostic analysis phase.
type Diagnostic struct {
	CurrentStateAssessment string      `json:"current_state_assessment"`
	GapAnalysis            string      `json:"gap_analysis"`
	RootCauseAnalysis      string      `json:"root_cause_analysis"`
	ReadinessAssessment    string      `json:"readiness_assessment"`
	ReadinessScore         float64     `json:"readiness_score"`
	PriorityAreas          []string    `json:"priority_areas"`
	SuccessProbability     string      `json:"success_probability"`
	RecommendedApproach    string      `json:"recommended_approach"`
	TimelineEstimation     string      `json:"timeline_estimation"`
	IdentifiedGaps         []string    `json:"identified_gaps"`
	RiskFactors            []string    `json:"risk_factors"`
	GapDetails             []GapDetail `json:"gap_details"`
}

type diagnosticPayload struct {
	CurrentStateAssessment advisory.Text       `json:"current_state_assessment"`
	GapAnalysis            advisory.Text       `json:"gap_analysis"`
	RootCauseAnalysis      advisory.Text       `json:"root_cause_analysis"`
	ReadinessAssessment    advisory.Text       `json:"readiness_assessment"`
	ReadinessScore         *advisory.FlexFloat `json:"readiness_score"`
	PriorityAreas          advisory.StringList `json:"priority_areas"`
	SuccessProbability     advisory.Text       `json:"success_probability"`
	RecommendedApproach    advisory.Text       `json:"recommended_approach"`
	TimelineEstimation     advisory.Text       `json:"timeline_estimation"`
	IdentifiedGaps         advisory.StringList `json:"identified_gaps"`
	RiskFactors            advisory.StringList `json:"risk_factors"`
}

func (p diagnosticPayload) Validate() error {
	if p.CurrentStateAssessment == "" && p.GapAnalysis == "" && len(p.IdentifiedGaps) == 0 {
		return fmt.Errorf("no assessment or gaps present")
	}
	return nil
}

type gapPayload struct {
	Summary            advisory.Text       `json:"summary"`
	Priority           advisory.Text       `json:"priority"`
	RootCauses         advisory.StringList `json:"root_causes"`
	RecommendedActions advisory.StringList `json:"recommended_actions"`
}

func (p gapPayload) Validate() error {
	if p.Summary == "" {
		return fmt.Errorf("summary is required")
	}
	return nil
}

// DefaultDiagnostic is the fixed diagnostic used when analysis is unavailable.
func DefaultDiagnostic() Diagnostic {
	return Diagnostic{
		CurrentStateAssessment: "ready to begin structured learning",
		GapAnalysis:            "skill gaps have been identified",
		RootCauseAnalysis:      "limited hands-on experience is the main cause",
		ReadinessAssessment:    "moderate learning readiness",
		ReadinessScore:         defaultReadinessScore,
		PriorityAreas:          []string{"core skill acquisition"},
		SuccessProbability:     string(domain.LevelMedium),
		RecommendedApproach:    "step-by-step learning",
		TimelineEstimation:     "30-60 days",
		IdentifiedGaps:         []string{"foundational knowledge", "practical experience"},
		RiskFactors:            []string{},
	}
}

// FallbackGapDetail is the analysis used when a gap call fails.
func FallbackGapDetail(gap string) GapDetail {
	return GapDetail{
		Gap:                gap,
		Summary:            gap + " needs improvement",
		Priority:           domain.PriorityMedium,
		RootCauses:         []string{},
		RecommendedActions: []string{},
	}
}

func (p *Pipeline) diagnose(ctx context.Context, s *advisory.Session, lc LearnerContext, u Understanding, k Knowledge) Diagnostic {
	payload, outcome := advisory.Resolve(ctx, s, advisory.Request{
		Tag:    advisory.TagDiagnosticAnalysis,
		Prompt: diagnosticPrompt(lc, u, k),
	}, func() diagnosticPayload { return diagnosticPayload{} })

	d := DefaultDiagnostic()
	if outcome == advisory.OutcomeParsed {
		d = p.diagnosticFromPayload(lc.ID, payload)
	}
	d.GapDetails = p.analyseGaps(ctx, s, lc, DistinctGaps(d.IdentifiedGaps))
	return d
}

func (p *Pipeline) diagnosticFromPayload(learnerID string, pl diagnosticPayload) Diagnostic {
	score := defaultReadinessScore
	if pl.ReadinessScore != nil {
		raw := float64(*pl.ReadinessScore)
		score = clamp01(raw)
		if score != raw || math.IsNaN(raw) {
			err := errors.NewValueClampedError("readiness_score", raw, score)
			p.logger.WithLearner(learnerID).WithError(err).Warn("clamped diagnostic value")
			p.metrics.RecordError(string(err.Code))
		}
	}
	return Diagnostic{
		CurrentStateAssessment: string(pl.CurrentStateAssessment),
		GapAnalysis:            string(pl.GapAnalysis),
		RootCauseAnalysis:      string(pl.RootCauseAnalysis),
		ReadinessAssessment:    string(pl.ReadinessAssessment),
		ReadinessScore:         score,
		PriorityAreas:          nonNil(pl.PriorityAreas),
		SuccessProbability:     string(pl.SuccessProbability),
		RecommendedApproach:    string(pl.RecommendedApproach),
		TimelineEstimation:     string(pl.TimelineEstimation),
		IdentifiedGaps:         nonNil(pl.IdentifiedGaps),
		RiskFactors:            nonNil(pl.RiskFactors),
	}
}

// DistinctGaps trims gaps and drops case-insensitive duplicates, keeping order.
func DistinctGaps(gaps []string) []string {
	seen := make(map[string]bool, len(gaps))
	out := make([]string, 0, len(gaps))
	for _, g := range clean(gaps) {
		key := strings.ToLower(g)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, g)
	}
	return out
}

func (p *Pipeline) analyseGaps(ctx context.Context, s *advisory.Session, lc LearnerContext, gaps []string) []GapDetail {
	details := make([]GapDetail, len(gaps))

	var g errgroup.Group
	if p.settings.AdvisoryConcurrency > 0 {
		g.SetLimit(p.settings.AdvisoryConcurrency)
	}
	for i, gap := range gaps {
		g.Go(func() error {
			pl, outcome := advisory.Resolve(ctx, s, advisory.Request{
				Tag:    advisory.TagGapAnalysis,
				Prompt: gapPrompt(lc, gap),
			}, func() gapPayload { return gapPayload{} })
			if outcome != advisory.OutcomeParsed {
				details[i] = FallbackGapDetail(gap)
				return nil
			}
			details[i] = GapDetail{
				Gap:                gap,
				Summary:            string(pl.Summary),
				Priority:           domain.NormalizePriority(string(pl.Priority)),
				RootCauses:         nonNil(pl.RootCauses),
				RecommendedActions: nonNil(pl.RecommendedActions),
			}
			return nil
		})
	}
	_ = g.Wait()
	return details
}
