package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/growthplan/internal/advisory"
	"github.com/felixgeelhaar/growthplan/internal/planner"
)

// SuccessThreshold is the completion rate a learner is measured against.
const SuccessThreshold = 0.8

// ActionPlans are the recurring actions of the plan.
type ActionPlans struct {
	DailyActions     []string `json:"daily_actions"`
	WeeklyMilestones []string `json:"weekly_milestones"`
	MonthlyReviews   []string `json:"monthly_reviews"`
}

// Guidance is the personalized coaching layer.
type Guidance struct {
	Guidance           string   `json:"guidance"`
	Style              string   `json:"style"`
	MotivationMessages []string `json:"motivation_messages"`
	ActionGuidelines   []string `json:"action_guidelines"`
	SupportResources   []string `json:"support_resources"`
}

// Tracking describes how progress is collected.
type Tracking struct {
	Metrics           []string `json:"metrics"`
	DailyUpdates      []string `json:"daily_updates"`
	WeeklyReporting   []string `json:"weekly_reporting"`
	DashboardElements []string `json:"dashboard_elements"`
}

// Intervention pairs a trigger with its response and escalation.
type Intervention struct {
	Trigger    string `json:"trigger"`
	Response   string `json:"response"`
	Escalation string `json:"escalation"`
}

// Measurement describes how success is measured.
type Measurement struct {
	KPIs               []string `json:"kpis"`
	Methods            []string `json:"methods"`
	Baseline           string   `json:"baseline"`
	ProgressIndicators []string `json:"progress_indicators"`
	SuccessThreshold   float64  `json:"success_threshold"`
}

// LearningLoop is the continuous improvement cycle.
type LearningLoop struct {
	Cycle              []string `json:"cycle"`
	Frequency          string   `json:"frequency"`
	FeedbackMechanisms []string `json:"feedback_mechanisms"`
	AdaptationTriggers []string `json:"adaptation_triggers"`
}

// AdaptationStrategy says how the plan changes when triggers fire.
type AdaptationStrategy struct {
	ReviewFrequency string   `json:"review_frequency"`
	Adjustments     []string `json:"adjustments"`
}

// Support is the output of the support and continuous improvement phase.
type Support struct {
	ActionPlans        ActionPlans        `json:"action_plans"`
	Guidance           Guidance           `json:"personalized_guidance"`
	Tracking           Tracking           `json:"progress_tracking"`
	Interventions      []Intervention     `json:"intervention_triggers"`
	Measurement        Measurement        `json:"measurement_system"`
	LearningLoop       LearningLoop       `json:"learning_loop"`
	AdaptationStrategy AdaptationStrategy `json:"adaptation_strategy"`
}

type actionPlansPayload struct {
	DailyActions     advisory.StringList `json:"daily_actions"`
	WeeklyMilestones advisory.StringList `json:"weekly_milestones"`
	MonthlyReviews   advisory.StringList `json:"monthly_reviews"`
}

func (p actionPlansPayload) Validate() error {
	if len(p.DailyActions)+len(p.WeeklyMilestones)+len(p.MonthlyReviews) == 0 {
		return fmt.Errorf("no actions present")
	}
	return nil
}

type guidancePayload struct {
	Guidance           advisory.Text       `json:"guidance"`
	Style              advisory.Text       `json:"style"`
	MotivationMessages advisory.StringList `json:"motivation_messages"`
	ActionGuidelines   advisory.StringList `json:"action_guidelines"`
	SupportResources   advisory.StringList `json:"support_resources"`
}

func (p guidancePayload) Validate() error {
	if p.Guidance == "" {
		return fmt.Errorf("guidance is required")
	}
	return nil
}

// DefaultActionPlans are used when action planning is unavailable.
func DefaultActionPlans() ActionPlans {
	return ActionPlans{
		DailyActions:     []string{"review study materials", "work through practice problems"},
		WeeklyMilestones: []string{"complete a skill check"},
		MonthlyReviews:   []string{"review overall progress", "adjust the plan"},
	}
}

// DefaultGuidance is used when personalized guidance is unavailable.
func DefaultGuidance() Guidance {
	return Guidance{
		Guidance:           "Proceed step by step and keep a steady rhythm.",
		Style:              "supportive",
		MotivationMessages: []string{"Small daily progress adds up."},
		ActionGuidelines:   []string{"finish one task before starting the next"},
		SupportResources:   []string{"mentor check-ins"},
	}
}

// StaticSupport returns the deterministic parts of the support phase.
func StaticSupport() Support {
	return Support{
		Tracking: Tracking{
			Metrics:           []string{"task completion rate", "comprehension level", "skill progress"},
			DailyUpdates:      []string{"tasks completed", "time spent", "blockers"},
			WeeklyReporting:   []string{"milestone progress", "skill check results", "next week focus"},
			DashboardElements: []string{"progress chart", "task list", "milestone timeline", "risk indicators"},
		},
		Interventions: []Intervention{
			{Trigger: "3 days of progress delay", Response: "provide additional support", Escalation: "mentor meeting"},
			{Trigger: "drop in comprehension", Response: "adjust the learning method", Escalation: "curriculum review"},
		},
		Measurement: Measurement{
			KPIs:               []string{"task completion rate", "skill assessment score", "milestone attainment"},
			Methods:            []string{"self assessment", "practical exercises", "mentor evaluation"},
			Baseline:           "initial skill assessment",
			ProgressIndicators: []string{"weekly completion rate", "assessment score trend"},
			SuccessThreshold:   SuccessThreshold,
		},
		LearningLoop: LearningLoop{
			Cycle:              []string{"plan", "execute", "evaluate", "improve"},
			Frequency:          "weekly",
			FeedbackMechanisms: []string{"self reflection", "system analytics", "mentor feedback"},
			AdaptationTriggers: []string{"completion rate below threshold", "repeated obstacles", "goal change"},
		},
		AdaptationStrategy: AdaptationStrategy{
			ReviewFrequency: "weekly",
			Adjustments:     []string{"rebalance task difficulty", "adjust pacing", "change learning method"},
		},
	}
}

func (p *Pipeline) support(ctx context.Context, s *advisory.Session, lc LearnerContext, u Understanding, plan *planner.GrowthStrategy) Support {
	out := StaticSupport()

	var g errgroup.Group
	g.Go(func() error {
		pl, outcome := advisory.Resolve(ctx, s, advisory.Request{
			Tag:    advisory.TagActionPlans,
			Prompt: actionPlansPrompt(lc, plan),
		}, func() actionPlansPayload { return actionPlansPayload{} })
		if outcome != advisory.OutcomeParsed {
			out.ActionPlans = DefaultActionPlans()
			return nil
		}
		out.ActionPlans = ActionPlans{
			DailyActions:     nonNil(pl.DailyActions),
			WeeklyMilestones: nonNil(pl.WeeklyMilestones),
			MonthlyReviews:   nonNil(pl.MonthlyReviews),
		}
		return nil
	})
	g.Go(func() error {
		pl, outcome := advisory.Resolve(ctx, s, advisory.Request{
			Tag:    advisory.TagPersonalizedGuidance,
			Prompt: guidancePrompt(lc, u),
		}, func() guidancePayload { return guidancePayload{} })
		if outcome != advisory.OutcomeParsed {
			out.Guidance = DefaultGuidance()
			return nil
		}
		out.Guidance = Guidance{
			Guidance:           string(pl.Guidance),
			Style:              string(pl.Style),
			MotivationMessages: nonNil(pl.MotivationMessages),
			ActionGuidelines:   nonNil(pl.ActionGuidelines),
			SupportResources:   nonNil(pl.SupportResources),
		}
		return nil
	})
	_ = g.Wait()
	return out
}
