package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/felixgeelhaar/growthplan/internal/advisory"
	"github.com/felixgeelhaar/growthplan/internal/advisory/advisorytest"
	"github.com/felixgeelhaar/growthplan/internal/planner"
)

func TestSupportParsed(t *testing.T) {
	defer goleak.VerifyNone(t)

	gen := advisorytest.New(map[advisory.Tag]string{
		advisory.TagActionPlans:          actionPlansJSON,
		advisory.TagPersonalizedGuidance: guidanceJSON,
	})
	s := newSession(gen)

	out := newTestPipeline(gen, nil).support(context.Background(), s, BuildContext(testProfile(), t0), Understanding{}, &planner.GrowthStrategy{})

	assert.Equal(t, []string{"write one test"}, out.ActionPlans.DailyActions)
	assert.Equal(t, []string{"ship a tested feature"}, out.ActionPlans.WeeklyMilestones)
	assert.Empty(t, out.ActionPlans.MonthlyReviews)
	assert.Equal(t, "Keep the loop tight.", out.Guidance.Guidance)
	assert.Equal(t, "direct", out.Guidance.Style)
	assert.NotNil(t, out.Guidance.SupportResources)
	assert.Empty(t, s.Fallbacks())

	static := StaticSupport()
	assert.Equal(t, static.Tracking, out.Tracking)
	assert.Equal(t, static.Interventions, out.Interventions)
	assert.Equal(t, static.LearningLoop, out.LearningLoop)
}

func TestSupportFallbacks(t *testing.T) {
	s := newSession(advisorytest.Down)

	out := newTestPipeline(advisorytest.Down, nil).support(context.Background(), s, BuildContext(testProfile(), t0), Understanding{}, &planner.GrowthStrategy{})

	assert.Equal(t, DefaultActionPlans(), out.ActionPlans)
	assert.Equal(t, DefaultGuidance(), out.Guidance)
	assert.Equal(t, "supportive", out.Guidance.Style)
	assert.ElementsMatch(t, []advisory.Tag{advisory.TagActionPlans, advisory.TagPersonalizedGuidance}, s.Fallbacks())
}

func TestStaticSupport(t *testing.T) {
	st := StaticSupport()

	assert.Equal(t, []string{"plan", "execute", "evaluate", "improve"}, st.LearningLoop.Cycle)
	assert.Equal(t, "weekly", st.LearningLoop.Frequency)
	assert.InDelta(t, 0.8, st.Measurement.SuccessThreshold, 1e-9)
	assert.Len(t, st.Interventions, 2)
	for _, iv := range st.Interventions {
		assert.NotEmpty(t, iv.Trigger)
		assert.NotEmpty(t, iv.Response)
		assert.NotEmpty(t, iv.Escalation)
	}
}
