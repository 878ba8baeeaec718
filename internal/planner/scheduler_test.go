package planner

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/felixgeelhaar/growthplan/internal/domain"
)

var t0 = time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

func task(n int, name string, minutes int, deps ...string) Task {
	return Task{
		ID:                domain.TaskIDFor(n),
		Name:              name,
		EstimatedDuration: minutes,
		Dependencies:      deps,
		Complexity:        domain.ComplexitySimple,
		CreatedAt:         t0,
	}
}

func abc() []Task {
	return []Task{
		task(1, "A", 60),
		task(2, "B", 90, "A"),
		task(3, "C", 30, "A", "B"),
	}
}

func dueOffsets(tasks []Task) []time.Duration {
	out := make([]time.Duration, len(tasks))
	for i, t := range tasks {
		out[i] = t.DueDate.Sub(t0)
	}
	return out
}

func names(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Name
	}
	return out
}

func TestScheduleNominalPace(t *testing.T) {
	res := Schedule(abc(), 1.0, t0)

	assert.Equal(t, []string{"A", "B", "C"}, names(res.Tasks))
	assert.Equal(t, []time.Duration{60 * time.Minute, 150 * time.Minute, 180 * time.Minute}, dueOffsets(res.Tasks))
	assert.Empty(t, res.DeadlockBreaks)
}

func TestScheduleSlowPaceDoublesDurations(t *testing.T) {
	res := Schedule(abc(), 0.5, t0)

	assert.Equal(t, []time.Duration{120 * time.Minute, 300 * time.Minute, 360 * time.Minute}, dueOffsets(res.Tasks))
	for _, task := range res.Tasks {
		assert.Equal(t, task.EstimatedDuration*2, task.ScheduledDuration, "nominal duration is preserved")
	}
}

func TestScheduleBreaksCycle(t *testing.T) {
	tasks := []Task{
		task(1, "A", 60, "B"),
		task(2, "B", 60, "A"),
		task(3, "C", 30),
	}

	res := Schedule(tasks, 1.0, t0)

	require.Len(t, res.Tasks, 3)
	assert.Equal(t, []string{"C", "A", "B"}, names(res.Tasks))
	for _, task := range res.Tasks {
		require.NotNil(t, task.DueDate, "task %s has no due date", task.Name)
	}

	forced := res.Tasks[1]
	assert.True(t, forced.DeadlockBreak)
	assert.Equal(t, []string{"B"}, forced.UnresolvedDependencies)
	assert.False(t, res.Tasks[0].DeadlockBreak)
	assert.False(t, res.Tasks[2].DeadlockBreak)

	require.Len(t, res.DeadlockBreaks, 1)
	assert.Equal(t, DeadlockBreak{TaskID: "task-001", TaskName: "A", Unresolved: []string{"B"}}, res.DeadlockBreaks[0])
}

func TestScheduleMissingDependency(t *testing.T) {
	res := Schedule([]Task{task(1, "A", 10, "ghost"), task(2, "B", 10, "A")}, 1.0, t0)

	assert.Equal(t, []string{"A", "B"}, names(res.Tasks))
	assert.True(t, res.Tasks[0].DeadlockBreak)
	assert.Equal(t, []string{"ghost"}, res.Tasks[0].UnresolvedDependencies)
	assert.False(t, res.Tasks[1].DeadlockBreak)
}

func TestScheduleDuplicateNames(t *testing.T) {
	tasks := []Task{task(1, "X", 10), task(2, "X", 20), task(3, "Y", 30, "X")}

	res := Schedule(tasks, 1.0, t0)

	require.Len(t, res.Tasks, 3)
	assert.Equal(t, []domain.TaskID{"task-001", "task-002", "task-003"},
		[]domain.TaskID{res.Tasks[0].ID, res.Tasks[1].ID, res.Tasks[2].ID})
	assert.Empty(t, res.DeadlockBreaks)
}

func TestScheduleDoesNotMutateInput(t *testing.T) {
	tasks := abc()
	Schedule(tasks, 2.0, t0)
	for _, task := range tasks {
		assert.Nil(t, task.DueDate)
		assert.Zero(t, task.ScheduledDuration)
	}
}

func TestScheduleEmpty(t *testing.T) {
	res := Schedule(nil, 1.0, t0)
	assert.Empty(t, res.Tasks)
	assert.Equal(t, t0.AddDate(0, 0, 30), EstimatedCompletion(res.Tasks, t0))
}

func TestAdjustedDuration(t *testing.T) {
	tests := []struct {
		minutes int
		pace    float64
		want    int
	}{
		{60, 1.0, 60},
		{60, 0.5, 120},
		{90, 2.0, 45},
		{45, 2.0, 22},
		{75, 2.0, 38},
		{60, 0, 60},
		{60, -1, 60},
		{100, 3.0, 33},
		{-30, 1.0, 0},
		{math.MaxInt, 1.0, int(maxScheduledMinutes)},
		{60, 1e-300, int(maxScheduledMinutes)},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d@%v", tt.minutes, tt.pace), func(t *testing.T) {
			assert.Equal(t, tt.want, AdjustedDuration(tt.minutes, tt.pace))
		})
	}
}

func TestScheduleSaturatesHugeDurations(t *testing.T) {
	tasks := []Task{
		task(1, "A", math.MaxInt32*1000),
		task(2, "B", math.MaxInt, "A"),
	}

	res := Schedule(tasks, 0.1, t0)

	require.Len(t, res.Tasks, 2)
	for _, task := range res.Tasks {
		require.NotNil(t, task.DueDate)
		assert.Equal(t, int(maxScheduledMinutes), task.ScheduledDuration)
		assert.False(t, task.DueDate.Before(task.CreatedAt), "%s due before creation", task.Name)
	}
	assert.True(t, res.Tasks[1].DueDate.After(*res.Tasks[0].DueDate))
}

func TestEstimatedCompletionIsLatestDue(t *testing.T) {
	res := Schedule(abc(), 1.0, t0)
	assert.Equal(t, t0.Add(180*time.Minute), EstimatedCompletion(res.Tasks, t0))
}

func genTasks(t *rapid.T) []Task {
	n := rapid.IntRange(0, 12).Draw(t, "n")
	tasks := make([]Task, n)
	for i := range tasks {
		var deps []string
		for _, d := range rapid.SliceOfDistinct(rapid.IntRange(0, n), rapid.ID[int]).Draw(t, fmt.Sprintf("deps%d", i)) {
			deps = append(deps, fmt.Sprintf("t%d", d))
		}
		tasks[i] = task(i+1, fmt.Sprintf("t%d", i), rapid.IntRange(1, 600).Draw(t, fmt.Sprintf("dur%d", i)), deps...)
	}
	return tasks
}

func TestSchedulePropertyDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tasks := genTasks(t)
		pace := rapid.Float64Range(0.1, 3.0).Draw(t, "pace")

		first := Schedule(tasks, pace, t0)
		second := Schedule(tasks, pace, t0)
		if len(first.Tasks) != len(second.Tasks) {
			t.Fatalf("lengths differ")
		}
		for i := range first.Tasks {
			if first.Tasks[i].ID != second.Tasks[i].ID || !first.Tasks[i].DueDate.Equal(*second.Tasks[i].DueDate) {
				t.Fatalf("position %d differs", i)
			}
		}
	})
}

func TestSchedulePropertyTimeline(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tasks := genTasks(t)
		pace := rapid.Float64Range(0.1, 3.0).Draw(t, "pace")

		res := Schedule(tasks, pace, t0)
		if len(res.Tasks) != len(tasks) {
			t.Fatalf("scheduled %d of %d tasks", len(res.Tasks), len(tasks))
		}

		seen := map[domain.TaskID]bool{}
		due := map[string]time.Time{}
		cursor := t0
		breaks := 0
		for _, task := range res.Tasks {
			if seen[task.ID] {
				t.Fatalf("%s scheduled twice", task.ID)
			}
			seen[task.ID] = true

			if task.DueDate.Before(task.CreatedAt) {
				t.Fatalf("%s due before creation", task.ID)
			}
			want := cursor.Add(time.Duration(AdjustedDuration(task.EstimatedDuration, pace)) * time.Minute)
			if !task.DueDate.Equal(want) {
				t.Fatalf("%s due %v, want %v", task.ID, task.DueDate, want)
			}
			cursor = *task.DueDate

			if task.DeadlockBreak {
				breaks++
				if len(task.UnresolvedDependencies) == 0 {
					t.Fatalf("%s forced without unresolved dependencies", task.ID)
				}
			} else {
				for _, d := range task.Dependencies {
					dd, ok := due[d]
					if !ok || dd.After(*task.DueDate) {
						t.Fatalf("%s scheduled before dependency %s", task.Name, d)
					}
				}
			}
			due[task.Name] = *task.DueDate
		}
		if breaks != len(res.DeadlockBreaks) {
			t.Fatalf("flagged %d tasks but recorded %d breaks", breaks, len(res.DeadlockBreaks))
		}
	})
}
