package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    TaskStatus
		wantErr bool
	}{
		{"pending", StatusPending, false},
		{"In-Progress", StatusInProgress, false},
		{"in progress", StatusInProgress, false},
		{"COMPLETED", StatusCompleted, false},
		{"done", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTaskStatus(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, StatusPending, NormalizeTaskStatus(tt.in))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTaskStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.False(t, StatusBlocked.IsTerminal())
}

func TestParseStrategyType(t *testing.T) {
	for _, st := range StrategyTypes {
		got, err := ParseStrategyType(st.String())
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}

	got, err := ParseStrategyType("Learning Pace")
	require.NoError(t, err)
	assert.Equal(t, StrategyLearningPace, got)

	_, err = ParseStrategyType("gamification")
	assert.Error(t, err)
}

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score int
		want  Level
	}{
		{1, LevelLow},
		{3, LevelLow},
		{4, LevelMedium},
		{6, LevelMedium},
		{7, LevelHigh},
		{10, LevelHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForScore(tt.score), "score %d", tt.score)
	}
}

func TestNormalizeLevel(t *testing.T) {
	assert.Equal(t, LevelHigh, NormalizeLevel(" HIGH"))
	assert.Equal(t, LevelMedium, NormalizeLevel("severe"))
}

func TestComplexityValidate(t *testing.T) {
	assert.NoError(t, ComplexityComplex.Validate())
	assert.Error(t, Complexity("hard").Validate())
}

func TestTaskIDFor(t *testing.T) {
	assert.Equal(t, TaskID("task-001"), TaskIDFor(1))
	assert.Equal(t, TaskID("task-042"), TaskIDFor(42))
	assert.Equal(t, TaskID("task-1000"), TaskIDFor(1000))
	assert.NoError(t, TaskIDFor(7).Validate())
	assert.Error(t, TaskID("setup").Validate())
}
