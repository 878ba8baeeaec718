package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/growthplan/internal/profile"
)

func TestBuildContext(t *testing.T) {
	lc := BuildContext(testProfile(), t0)

	assert.Equal(t, "emp-001", lc.ID)
	assert.Equal(t, "engineering", lc.Domain)
	assert.Equal(t, 100, lc.TenureDays)
	assert.Equal(t, []string{"debugging"}, lc.Strengths, "blank entries are dropped")
	assert.Equal(t, []Trait{{"conscientiousness", 0.7}, {"openness", 0.8}}, lc.Traits, "traits sorted by name")
	assert.Empty(t, lc.RiskSignals)
	assert.NotNil(t, lc.RiskSignals)
	assert.NotNil(t, lc.CompletedTrainings)
}

func TestBuildContextDefaultDomain(t *testing.T) {
	p := &profile.Profile{ID: "emp-2", Name: "Bo", LearningPace: 1}
	lc := BuildContext(p, t0)

	assert.Equal(t, "general", lc.Domain)
	assert.Equal(t, 0, lc.TenureDays)
	assert.Equal(t, []string{SignalNoObjectives}, lc.RiskSignals)
}

func TestProfileRiskSignals(t *testing.T) {
	tests := []struct {
		name       string
		pace       float64
		gaps       int
		objectives int
		want       []string
	}{
		{"healthy", 1.0, 2, 1, []string{}},
		{"boundary pace is not slow", 0.5, 0, 1, []string{}},
		{"slow pace", 0.4, 0, 1, []string{SignalSlowPace}},
		{"five gaps is not many", 1.0, 5, 1, []string{}},
		{"many gaps", 1.0, 6, 1, []string{SignalManyGaps}},
		{"everything", 0.2, 9, 0, []string{SignalSlowPace, SignalManyGaps, SignalNoObjectives}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProfileRiskSignals(tt.pace, tt.gaps, tt.objectives))
		})
	}
}

func TestPlannerLearner(t *testing.T) {
	l := BuildContext(testProfile(), t0).plannerLearner()

	assert.Equal(t, "emp-001", l.ID)
	assert.Equal(t, "engineering", l.Domain)
	assert.Equal(t, []string{"testing", "estimation"}, l.ImprovementAreas)
	assert.Equal(t, []string{"lead a code review"}, l.CurrentObjectives)
}
