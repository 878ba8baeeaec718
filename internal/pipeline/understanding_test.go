package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/growthplan/internal/advisory"
	"github.com/felixgeelhaar/growthplan/internal/advisory/advisorytest"
)

func TestUnderstandParsed(t *testing.T) {
	gen := advisorytest.New(map[advisory.Tag]string{
		advisory.TagDeepUnderstanding: understandingJSON,
		advisory.TagFollowUpQuestions: questionsJSON,
	})
	p := newTestPipeline(gen, nil)
	s := newSession(gen)

	u := p.understand(context.Background(), s, BuildContext(testProfile(), t0))

	assert.Equal(t, "curious and methodical", u.PersonalityInsights)
	assert.Equal(t, []string{"mastery"}, u.MotivationDrivers, "a single string becomes a list")
	assert.Equal(t, []string{"context switching"}, u.RiskFactors)
	assert.True(t, u.NeedsMoreInfo)
	assert.InDelta(t, 0.85, u.Confidence, 1e-9)
	assert.Equal(t, []string{"Q1?", "Q2?", "Q3?", "Q4?", "Q5?"}, u.FollowUpQuestions, "more than five are truncated")
	assert.Empty(t, s.Fallbacks())
}

func TestUnderstandSkipsQuestionsWhenInformed(t *testing.T) {
	gen := advisorytest.New(map[advisory.Tag]string{
		advisory.TagDeepUnderstanding: `{"personality_insights": "steady", "needs_more_info": false}`,
	})
	p := newTestPipeline(gen, nil)

	u := p.understand(context.Background(), newSession(gen), BuildContext(testProfile(), t0))

	assert.False(t, u.NeedsMoreInfo)
	assert.Empty(t, u.FollowUpQuestions)
	assert.Empty(t, gen.CallsFor(advisory.TagFollowUpQuestions))
	assert.InDelta(t, 0.7, u.Confidence, 1e-9, "missing confidence takes the default")
}

func TestUnderstandFollowUpFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		questions string
		want      []string
	}{
		{
			name:      "too few questions",
			questions: `["Only one?", "Two?"]`,
			want:      DefaultFollowUpQuestions(),
		},
		{
			name:      "free text with enough questions",
			questions: "Here you go:\n1. What motivates you?\n2. How do you prefer feedback?\n- When do you learn best?\nThanks.",
			want:      []string{"What motivates you?", "How do you prefer feedback?", "When do you learn best?"},
		},
		{
			name:      "free text without questions",
			questions: "I cannot think of anything.",
			want:      DefaultFollowUpQuestions(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := advisorytest.New(map[advisory.Tag]string{
				advisory.TagDeepUnderstanding: understandingJSON,
				advisory.TagFollowUpQuestions: tt.questions,
			})
			s := newSession(gen)
			u := newTestPipeline(gen, nil).understand(context.Background(), s, BuildContext(testProfile(), t0))

			assert.Equal(t, tt.want, u.FollowUpQuestions)
			assert.Equal(t, []advisory.Tag{advisory.TagFollowUpQuestions}, s.Fallbacks())
		})
	}
}

func TestUnderstandMalformed(t *testing.T) {
	gen := advisorytest.New(map[advisory.Tag]string{
		advisory.TagDeepUnderstanding: "The learner seems motivated but busy.",
	})
	s := newSession(gen)

	u := newTestPipeline(gen, nil).understand(context.Background(), s, BuildContext(testProfile(), t0))

	assert.Equal(t, "The learner seems motivated but busy.", u.Summary)
	assert.InDelta(t, 0.7, u.Confidence, 1e-9)
	assert.False(t, u.NeedsMoreInfo)
	assert.NotNil(t, u.GrowthOpportunities)
	assert.True(t, s.Available(), "a malformed response does not end the session")
}

func TestUnderstandUnavailable(t *testing.T) {
	s := newSession(advisorytest.Down)
	lc := BuildContext(testProfile(), t0)

	u := newTestPipeline(advisorytest.Down, nil).understand(context.Background(), s, lc)

	assert.Equal(t, ProfileUnderstanding(lc), u)
	assert.InDelta(t, 0.3, u.Confidence, 1e-9)
	assert.Equal(t, lc.Gaps, u.PotentialBarriers)
	assert.Equal(t, lc.Objectives, u.MotivationDrivers)
	assert.Contains(t, u.PersonalityInsights, "openness 0.80")
	assert.False(t, s.Available())
}

func TestSalvageQuestions(t *testing.T) {
	raw := "```\n\"Why?\",\n\"How?\",\n\"What?\",\n\"When?\",\n\"Where?\",\n\"Who?\"\n```"
	got := SalvageQuestions(raw)
	require.Len(t, got, 5)
	assert.Equal(t, "Why?", got[0])
	assert.Equal(t, "Where?", got[4])
}
