package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/felixgeelhaar/growthplan/internal/advisory"
	"github.com/felixgeelhaar/growthplan/internal/history"
	"github.com/felixgeelhaar/growthplan/internal/log"
	"github.com/felixgeelhaar/growthplan/internal/profile"
	"github.com/felixgeelhaar/growthplan/internal/search"
)

var t0 = time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

const (
	understandingJSON = `{"personality_insights": "curious and methodical", "learning_style_analysis": "learns by doing",
		"motivation_drivers": "mastery", "potential_barriers": ["limited time"], "hidden_strengths": ["teaching others"],
		"optimal_communication_style": "direct", "risk_factors": ["context switching"],
		"growth_opportunities": ["mentoring juniors"], "needs_more_info": "yes", "confidence": "0.85"}`

	questionsJSON = `{"questions": ["Q1?", "Q2?", "Q3?", "Q4?", "Q5?", "Q6?"]}`

	queriesJSON = `{"web_search": ["go testing guide", "code review tips", "estimation techniques", "ignored query"],
		"technical_search": "table driven tests", "industry_search": []}`

	integrationJSON = `{"integrated_insights": ["write tests first"], "relevant_resources": "Go testing guide",
		"actionable_recommendations": ["pair on reviews"], "confidence": 0.9}`

	diagnosticJSON = `{"current_state_assessment": "solid fundamentals", "gap_analysis": "testing depth",
		"readiness_score": 1.4, "priority_areas": ["testing"], "success_probability": "high",
		"recommended_approach": "practice", "timeline_estimation": "6 weeks",
		"identified_gaps": ["testing", " Testing ", "estimation"],
		"risk_factors": ["context switching", "deadline pressure"]}`

	gapJSON = `{"summary": "needs deliberate practice", "priority": "HIGH", "root_causes": "few reviews"}`

	strategyJSON = `{"strategic_approach": "practice-first", "growth_phases": [{"phase": "foundation", "duration": "2 weeks"}]}`

	decompositionJSON = `[
		{"name": "Write table tests", "complexity": "simple", "estimated_duration": 60},
		{"name": "Estimate a feature", "complexity": "moderate", "estimated_duration": 120, "dependencies": ["Write table tests"]}
	]`

	milestonesJSON = `[{"name": "Tests merged", "target_date": "2026-01-20"}]`
	adaptiveJSON   = `[{"strategy_type": "motivation", "trigger_conditions": ["low energy"]}]`
	riskJSON       = `{"identified_risks": [{"risk_type": "workload", "probability": "medium", "impact": "medium", "risk_score": 5}]}`

	actionPlansJSON = `{"daily_actions": ["write one test"], "weekly_milestones": "ship a tested feature", "monthly_reviews": []}`
	guidanceJSON    = `{"guidance": "Keep the loop tight.", "style": "direct", "motivation_messages": ["nice work"]}`
	synthesisJSON   = `{"executive_summary": "Ada grows testing depth in six weeks.", "key_insights": ["tests first"],
		"personalized_roadmap": "foundation then practice", "follow_up_schedule": "weekly"}`
)

// scriptedResponses answers every tag with a valid payload.
func scriptedResponses() map[advisory.Tag]string {
	return map[advisory.Tag]string{
		advisory.TagDeepUnderstanding:    understandingJSON,
		advisory.TagFollowUpQuestions:    questionsJSON,
		advisory.TagSearchQueries:        queriesJSON,
		advisory.TagKnowledgeIntegration: integrationJSON,
		advisory.TagDiagnosticAnalysis:   diagnosticJSON,
		advisory.TagGapAnalysis:          gapJSON,
		advisory.TagGrowthStrategy:       strategyJSON,
		advisory.TagTaskDecomposition:    decompositionJSON,
		advisory.TagMilestones:           milestonesJSON,
		advisory.TagAdaptiveStrategies:   adaptiveJSON,
		advisory.TagRiskAssessment:       riskJSON,
		advisory.TagActionPlans:          actionPlansJSON,
		advisory.TagPersonalizedGuidance: guidanceJSON,
		advisory.TagSynthesis:            synthesisJSON,
	}
}

func testProfile() *profile.Profile {
	return &profile.Profile{
		ID:                     "emp-001",
		Name:                   "Ada",
		Department:             "engineering",
		HireDate:               t0.AddDate(0, 0, -100),
		LearningPace:           1.0,
		PreferredLearningStyle: "hands-on",
		Strengths:              []string{"debugging", " "},
		ImprovementAreas:       []string{"testing", "estimation"},
		PersonalityTraits:      map[string]float64{"openness": 0.8, "conscientiousness": 0.7},
		CurrentObjectives:      []string{"lead a code review"},
	}
}

// docsFor returns one document per query, titled after the query.
func docsFor(query string) []search.Document {
	return []search.Document{
		{Title: strings.ToUpper(query[:1]) + query[1:], SourceLocator: "https://example.com/" + query, Relevance: 0.5},
		{Title: "Shared reference", SourceLocator: "https://example.com/shared", Relevance: 0.9},
	}
}

var echoSearch = search.ProviderFunc(func(ctx context.Context, query string, _ int) ([]search.Document, error) {
	return docsFor(query), ctx.Err()
})

func newTestPipeline(gen advisory.Generator, searcher search.Provider, opts ...Option) *Pipeline {
	base := []Option{
		WithLogger(log.Nop()),
		WithClock(func() time.Time { return t0 }),
		WithIDGenerator(func() string { return "id-1" }),
		WithHistory(history.NewMemory()),
	}
	return New(gen, searcher, append(base, opts...)...)
}

func newSession(gen advisory.Generator) *advisory.Session {
	return advisory.NewSession(gen, advisory.WithLogger(log.Nop()))
}
