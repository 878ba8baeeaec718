package pipeline

import (
	"time"

	"github.com/felixgeelhaar/growthplan/internal/planner"
)

// Report is the complete result of one invocation.
type Report struct {
	InvocationID      string                  `json:"invocation_id"`
	LearnerID         string                  `json:"learner_id"`
	GeneratedAt       time.Time               `json:"generated_at"`
	Context           LearnerContext          `json:"learner_context"`
	Understanding     Understanding           `json:"understanding"`
	Knowledge         Knowledge               `json:"knowledge"`
	Diagnostic        Diagnostic              `json:"diagnostic"`
	Plan              *planner.GrowthStrategy `json:"growth_strategy"`
	Support           Support                 `json:"support"`
	Synthesis         Synthesis               `json:"synthesis"`
	Fallbacks         []string                `json:"fallbacks"`
	AdvisoryAvailable bool                    `json:"advisory_available"`
}

// UsedFallback reports whether tag was resolved with its default.
func (r *Report) UsedFallback(tag string) bool {
	for _, f := range r.Fallbacks {
		if f == tag {
			return true
		}
	}
	return false
}

func (r *Report) phases() phaseOutputs {
	return phaseOutputs{
		Context:       r.Context,
		Understanding: r.Understanding,
		Knowledge:     r.Knowledge,
		Diagnostic:    r.Diagnostic,
		Plan:          r.Plan,
		Support:       r.Support,
	}
}
