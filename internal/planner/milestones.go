package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/growthplan/internal/advisory"
)

var milestoneDateLayouts = []string{"2006-01-02", time.RFC3339, "2006/01/02"}

// Milestones asks for checkpoints over the scheduled tasks, falling back to FallbackMilestones.
// Missing or unparsable target dates default to one week apart from created.
func Milestones(ctx context.Context, s *advisory.Session, in Input, tasks []Task, created time.Time) ([]Milestone, advisory.Outcome) {
	res := advisory.Call[milestoneList](ctx, s, advisory.Request{
		Tag:    advisory.TagMilestones,
		Prompt: milestonePrompt(in, tasks),
	})
	if !res.OK() {
		s.Fallback(advisory.TagMilestones, res.Err)
		return FallbackMilestones(created), res.Outcome
	}

	out := make([]Milestone, 0, len(res.Value))
	for i, p := range res.Value {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			name = fmt.Sprintf("Milestone %d", i+1)
		}
		reward := p.RewardDescription
		if reward == "" {
			reward = p.RewardSystem
		}
		if reward == "" {
			reward = "recognition of the achievement"
		}
		out = append(out, Milestone{
			ID:                fmt.Sprintf("milestone-%03d", i+1),
			Name:              name,
			Description:       p.Description,
			TargetDate:        parseTargetDate(p.TargetDate, created.AddDate(0, 0, 7*(i+1))),
			SuccessMetrics:    nonNil(p.SuccessMetrics),
			ValidationMethods: nonNil(p.ValidationMethods),
			RewardDescription: reward,
			Dependencies:      nonNil(p.Dependencies),
		})
	}
	return out, res.Outcome
}

func parseTargetDate(value string, def time.Time) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range milestoneDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return def
}

// FallbackMilestones returns a single milestone two weeks after created.
func FallbackMilestones(created time.Time) []Milestone {
	return []Milestone{{
		ID:                "milestone-001",
		Name:              "Initial skills acquired",
		Description:       "Complete the first set of foundational tasks",
		TargetDate:        created.AddDate(0, 0, 14),
		SuccessMetrics:    []string{"basic assignments completed"},
		ValidationMethods: []string{"practical exercise"},
		RewardDescription: "recognition of the achievement",
		Dependencies:      []string{},
	}}
}
