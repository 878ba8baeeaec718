package planner

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/felixgeelhaar/growthplan/internal/advisory"
	"github.com/felixgeelhaar/growthplan/internal/domain"
)

const (
	// DefaultTaskDuration replaces missing, non-positive or oversized durations.
	DefaultTaskDuration = 60
	// MaxTaskDuration is three full days in minutes. A task spans one to three working days.
	MaxTaskDuration = 3 * 24 * 60
	// FallbackTaskDuration is the duration of each fallback task.
	FallbackTaskDuration = 120
	fallbackTaskAreas    = 3
)

// Decompose turns the base strategy into candidate tasks. Unknown enum values
// take their defaults. An empty list counts as malformed. On any failure the
// result is FallbackTasks.
func Decompose(ctx context.Context, s *advisory.Session, in Input, base BaseStrategy, created time.Time) ([]Task, advisory.Outcome) {
	res := advisory.Call[decomposition](ctx, s, advisory.Request{
		Tag:    advisory.TagTaskDecomposition,
		Prompt: decompositionPrompt(in, base),
	})
	if !res.OK() {
		s.Fallback(advisory.TagTaskDecomposition, res.Err)
		return FallbackTasks(in.Learner, created), res.Outcome
	}

	tasks := make([]Task, 0, len(res.Value))
	for i, p := range res.Value {
		tasks = append(tasks, taskFromPayload(i, p, created))
	}
	return tasks, res.Outcome
}

func taskFromPayload(i int, p taskPayload, created time.Time) Task {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = fmt.Sprintf("Task %d", i+1)
	}
	duration := DefaultTaskDuration
	if minutes := math.Round(float64(p.EstimatedDuration)); minutes > 0 && minutes <= MaxTaskDuration {
		duration = int(minutes)
	}
	capabilities := p.RequiredCapabilities
	if len(capabilities) == 0 {
		capabilities = p.RequiredSkills
	}
	return Task{
		ID:                   domain.TaskIDFor(i + 1),
		Name:                 name,
		Description:          p.Description,
		Priority:             domain.NormalizePriority(p.Priority),
		Complexity:           domain.NormalizeComplexity(p.Complexity),
		EstimatedDuration:    duration,
		Dependencies:         nonNil(p.Dependencies),
		RequiredCapabilities: nonNil(capabilities),
		SuccessCriteria:      nonNil(p.SuccessCriteria),
		ResourcesNeeded:      nonNil(p.ResourcesNeeded),
		PotentialObstacles:   nonNil(p.PotentialObstacles),
		MitigationStrategies: nonNil(p.MitigationStrategies),
		Status:               domain.NormalizeTaskStatus(p.Status),
		CreatedAt:            created,
	}
}

// FallbackTasks returns one task per top improvement area, each 120 minutes
// with no dependencies.
func FallbackTasks(l Learner, created time.Time) []Task {
	areas := l.ImprovementAreas
	if len(areas) > fallbackTaskAreas {
		areas = areas[:fallbackTaskAreas]
	}
	tasks := make([]Task, 0, len(areas))
	for i, area := range areas {
		tasks = append(tasks, Task{
			ID:                   domain.TaskIDFor(i + 1),
			Name:                 "Improve " + area,
			Description:          fmt.Sprintf("Build skills in %s", area),
			Priority:             domain.PriorityMedium,
			Complexity:           domain.ComplexityModerate,
			EstimatedDuration:    FallbackTaskDuration,
			Dependencies:         []string{},
			RequiredCapabilities: []string{area},
			SuccessCriteria:      []string{fmt.Sprintf("basic improvement in %s", area)},
			ResourcesNeeded:      []string{"learning materials", "practice opportunities"},
			PotentialObstacles:   []string{"lack of time", "difficult concepts"},
			MitigationStrategies: []string{"incremental learning", "mentor support"},
			Status:               domain.StatusPending,
			CreatedAt:            created,
		})
	}
	return tasks
}

func nonNil(l []string) []string {
	if l == nil {
		return []string{}
	}
	return l
}
