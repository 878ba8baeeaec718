package planner

import (
	"math"
	"time"
)

// ScheduleResult is a single time-ordered timeline.
type ScheduleResult struct {
	Tasks          []Task
	DeadlockBreaks []DeadlockBreak
}

// PaceMultiplier scales nominal durations: 1/pace, or 1 when pace is not positive.
func PaceMultiplier(pace float64) float64 {
	if pace > 0 && !math.IsInf(pace, 0) {
		return 1 / pace
	}
	return 1
}

// maxScheduledMinutes is the longest duration, in minutes, a time.Duration can hold.
const maxScheduledMinutes = int64(math.MaxInt64 / int64(time.Minute))

// AdjustedDuration returns the pace-adjusted minutes for a nominal duration.
// Halves round to even. The result saturates to [0, maxScheduledMinutes]
// so the due date arithmetic cannot wrap.
func AdjustedDuration(minutes int, pace float64) int {
	v := math.RoundToEven(float64(minutes) * PaceMultiplier(pace))
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= float64(maxScheduledMinutes):
		return int(maxScheduledMinutes)
	default:
		return int(v)
	}
}

// Schedule places tasks one after another starting at start.
//
// Each step takes the first unscheduled task, in input order, whose
// dependency names are all already scheduled. When none qualifies the first
// unscheduled task is forced onto the timeline and flagged with
// DeadlockBreak. Its due date is the cursor plus its pace-adjusted duration,
// and the cursor moves to that due date. Tasks never overlap.
//
// Tasks are tracked by position, so duplicate names cannot stall the loop.
// The input slice is not modified.
func Schedule(tasks []Task, pace float64, start time.Time) ScheduleResult {
	result := ScheduleResult{Tasks: make([]Task, 0, len(tasks))}
	placed := make([]bool, len(tasks))
	names := make(map[string]bool, len(tasks))
	cursor := start

	for len(result.Tasks) < len(tasks) {
		pick := -1
		for i := range tasks {
			if !placed[i] && satisfied(tasks[i].Dependencies, names) {
				pick = i
				break
			}
		}

		forced := pick < 0
		if forced {
			for i := range tasks {
				if !placed[i] {
					pick = i
					break
				}
			}
		}

		t := cloneTask(tasks[pick])
		t.ScheduledDuration = AdjustedDuration(t.EstimatedDuration, pace)
		due := cursor.Add(time.Duration(t.ScheduledDuration) * time.Minute)
		t.DueDate = &due
		cursor = due

		if forced {
			t.DeadlockBreak = true
			t.UnresolvedDependencies = unresolved(t.Dependencies, names)
			result.DeadlockBreaks = append(result.DeadlockBreaks, DeadlockBreak{
				TaskID:     t.ID,
				TaskName:   t.Name,
				Unresolved: t.UnresolvedDependencies,
			})
		}

		placed[pick] = true
		names[t.Name] = true
		result.Tasks = append(result.Tasks, t)
	}
	return result
}

// EstimatedCompletion is the latest due date, or created plus 30 days when no task has one.
func EstimatedCompletion(tasks []Task, created time.Time) time.Time {
	var latest time.Time
	for _, t := range tasks {
		if t.DueDate != nil && t.DueDate.After(latest) {
			latest = *t.DueDate
		}
	}
	if latest.IsZero() {
		return created.AddDate(0, 0, 30)
	}
	return latest
}

func satisfied(deps []string, names map[string]bool) bool {
	for _, d := range deps {
		if !names[d] {
			return false
		}
	}
	return true
}

func unresolved(deps []string, names map[string]bool) []string {
	var out []string
	for _, d := range deps {
		if !names[d] {
			out = append(out, d)
		}
	}
	return out
}

func cloneTask(t Task) Task {
	if t.Dependencies != nil {
		t.Dependencies = append(make([]string, 0, len(t.Dependencies)), t.Dependencies...)
	}
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}
