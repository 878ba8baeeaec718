package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/growthplan/internal/advisory"
	"github.com/felixgeelhaar/growthplan/internal/planner"
)

const synthesisListLimit = 5

// Synthesis is the final comprehensive plan.
type Synthesis struct {
	ExecutiveSummary     string   `json:"executive_summary"`
	KeyInsights          []string `json:"key_insights"`
	PersonalizedRoadmap  []string `json:"personalized_roadmap"`
	ImmediateActions     []string `json:"immediate_actions"`
	SuccessPredictors    []string `json:"success_predictors"`
	PotentialObstacles   []string `json:"potential_obstacles"`
	RecommendedResources []string `json:"recommended_resources"`
	FollowUpSchedule     []string `json:"follow_up_schedule"`
}

type synthesisPayload struct {
	ExecutiveSummary     advisory.Text       `json:"executive_summary"`
	KeyInsights          advisory.StringList `json:"key_insights"`
	PersonalizedRoadmap  advisory.StringList `json:"personalized_roadmap"`
	ImmediateActions     advisory.StringList `json:"immediate_actions"`
	SuccessPredictors    advisory.StringList `json:"success_predictors"`
	PotentialObstacles   advisory.StringList `json:"potential_obstacles"`
	RecommendedResources advisory.StringList `json:"recommended_resources"`
	FollowUpSchedule     advisory.StringList `json:"follow_up_schedule"`
}

func (p synthesisPayload) Validate() error {
	if strings.TrimSpace(string(p.ExecutiveSummary)) == "" {
		return fmt.Errorf("executive_summary is required")
	}
	return nil
}

// phaseOutputs is what the synthesizer reads.
type phaseOutputs struct {
	Context       LearnerContext          `json:"learner"`
	Understanding Understanding           `json:"understanding"`
	Knowledge     Knowledge               `json:"knowledge"`
	Diagnostic    Diagnostic              `json:"diagnostic"`
	Plan          *planner.GrowthStrategy `json:"growth_strategy"`
	Support       Support                 `json:"support"`
}

func (p *Pipeline) synthesize(ctx context.Context, s *advisory.Session, in phaseOutputs) Synthesis {
	pl, outcome := advisory.Resolve(ctx, s, advisory.Request{
		Tag:    advisory.TagSynthesis,
		Prompt: synthesisPrompt(in.Context, in),
	}, func() synthesisPayload { return synthesisPayload{} })
	if outcome != advisory.OutcomeParsed {
		return fallbackSynthesis(in)
	}
	return Synthesis{
		ExecutiveSummary:     strings.TrimSpace(string(pl.ExecutiveSummary)),
		KeyInsights:          nonNil(pl.KeyInsights),
		PersonalizedRoadmap:  nonNil(pl.PersonalizedRoadmap),
		ImmediateActions:     nonNil(pl.ImmediateActions),
		SuccessPredictors:    nonNil(pl.SuccessPredictors),
		PotentialObstacles:   nonNil(pl.PotentialObstacles),
		RecommendedResources: nonNil(pl.RecommendedResources),
		FollowUpSchedule:     nonNil(pl.FollowUpSchedule),
	}
}

// fallbackSynthesis assembles the final plan from the phase outputs alone.
// Every list has at least one entry.
func fallbackSynthesis(in phaseOutputs) Synthesis {
	plan := in.Plan
	if plan == nil {
		plan = &planner.GrowthStrategy{}
	}

	summary := fmt.Sprintf("Personalized growth plan for %s with %d tasks and %d milestones, targeting completion by %s. Estimated success probability %.0f%%.",
		displayName(in.Context), len(plan.Tasks), len(plan.Milestones),
		plan.EstimatedCompletion.Format("2006-01-02"), plan.SuccessProbability*100)

	var roadmap []string
	for _, ph := range plan.BaseStrategy.GrowthPhases {
		if ph.Duration != "" {
			roadmap = append(roadmap, fmt.Sprintf("%s (%s)", ph.Phase, ph.Duration))
		} else {
			roadmap = append(roadmap, ph.Phase)
		}
	}
	if len(roadmap) == 0 && plan.BaseStrategy.StrategicApproach != "" {
		roadmap = append(roadmap, plan.BaseStrategy.StrategicApproach)
	}

	var actions []string
	for _, t := range plan.Tasks {
		actions = append(actions, t.Name)
	}

	obstacles := planner.MergeRiskFactors(in.Understanding.PotentialBarriers, in.Diagnostic.RiskFactors)

	return Synthesis{
		ExecutiveSummary:     summary,
		KeyInsights:          orDefault(firstN(append(append([]string{}, in.Understanding.GrowthOpportunities...), in.Knowledge.IntegratedInsights...), synthesisListLimit), "analysis complete and improvement areas identified"),
		PersonalizedRoadmap:  orDefault(roadmap, "progress through the plan step by step"),
		ImmediateActions:     orDefault(firstN(actions, 3), "start foundational learning", "schedule regular progress checks"),
		SuccessPredictors:    orDefault(firstN(in.Context.Strengths, synthesisListLimit), "consistent study", "regular feedback"),
		PotentialObstacles:   orDefault(firstN(obstacles, synthesisListLimit), "time management", "maintaining motivation"),
		RecommendedResources: orDefault(firstN(in.Knowledge.RelevantResources, synthesisListLimit), "online courses", "practice projects"),
		FollowUpSchedule:     []string{"weekly progress check", "monthly plan review"},
	}
}

func displayName(lc LearnerContext) string {
	if lc.Name != "" {
		return lc.Name
	}
	return lc.ID
}

func firstN(l []string, n int) []string {
	l = clean(l)
	if len(l) > n {
		return l[:n]
	}
	return l
}

func orDefault(l []string, defaults ...string) []string {
	if len(l) == 0 {
		return defaults
	}
	return l
}
