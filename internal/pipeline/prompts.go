package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/growthplan/internal/search"
)

func understandingPrompt(lc LearnerContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Build a deep understanding of %s as a learner.\n\n", lc.Name)
	fmt.Fprintf(&b, "Learner profile:\n%s\n\n", toJSON(lc))
	b.WriteString(`Analyse personality, learning style, motivation, barriers, hidden strengths, communication style, risks and growth opportunities.
Set needs_more_info to true only if the profile is too thin to plan from.
Return JSON:
{"personality_insights": "...", "learning_style_analysis": "...", "motivation_drivers": ["..."],
 "potential_barriers": ["..."], "hidden_strengths": ["..."], "optimal_communication_style": "...",
 "risk_factors": ["..."], "growth_opportunities": ["..."], "needs_more_info": false, "confidence": 0.8}`)
	return b.String()
}

func followUpPrompt(lc LearnerContext, u Understanding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The understanding of %s is incomplete.\n\n", lc.Name)
	fmt.Fprintf(&b, "Current understanding:\n%s\n\n", toJSON(u))
	b.WriteString(`Ask 3 to 5 short questions that would close the most important gaps.
Return a JSON array of strings.`)
	return b.String()
}

func searchQueriesPrompt(lc LearnerContext, u Understanding, perCategory int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan research for %s's development in %s.\n\n", lc.Name, lc.Domain)
	fmt.Fprintf(&b, "Improvement areas: %s\n", strings.Join(lc.Gaps, ", "))
	fmt.Fprintf(&b, "Growth opportunities: %s\n\n", strings.Join(u.GrowthOpportunities, ", "))
	fmt.Fprintf(&b, "Write up to %d queries per category.\n", perCategory)
	b.WriteString(`Return JSON:
{"web_search": ["..."], "technical_search": ["..."], "industry_search": ["..."]}`)
	return b.String()
}

func integrationPrompt(lc LearnerContext, results map[search.Category][]search.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Integrate research findings into guidance for %s.\n\n", lc.Name)
	for _, c := range search.Categories {
		fmt.Fprintf(&b, "%s results:\n", c)
		for _, d := range results[c] {
			fmt.Fprintf(&b, "- %s: %s\n", d.Title, d.Snippet)
		}
		b.WriteString("\n")
	}
	b.WriteString(`Return JSON:
{"integrated_insights": ["..."], "relevant_resources": ["..."], "actionable_recommendations": ["..."], "confidence": 0.8}`)
	return b.String()
}

func diagnosticPrompt(lc LearnerContext, u Understanding, k Knowledge) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Diagnose %s's current state and readiness for growth.\n\n", lc.Name)
	fmt.Fprintf(&b, "Learner profile:\n%s\n\n", toJSON(lc))
	fmt.Fprintf(&b, "Understanding:\n%s\n\n", toJSON(u))
	fmt.Fprintf(&b, "Knowledge:\n%s\n\n", toJSON(k))
	b.WriteString(`Return JSON:
{"current_state_assessment": "...", "gap_analysis": "...", "root_cause_analysis": "...",
 "readiness_assessment": "...", "readiness_score": 0.7, "priority_areas": ["..."],
 "success_probability": "high|medium|low", "recommended_approach": "...",
 "timeline_estimation": "...", "identified_gaps": ["..."], "risk_factors": ["..."]}`)
	return b.String()
}

func gapPrompt(lc LearnerContext, gap string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyse the gap %q for %s (%s, learning pace %.2f).\n\n", gap, lc.Name, lc.Domain, lc.LearningPace)
	b.WriteString(`Return JSON:
{"summary": "...", "priority": "critical|high|medium|low", "root_causes": ["..."], "recommended_actions": ["..."]}`)
	return b.String()
}

func actionPlansPrompt(lc LearnerContext, plan any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write concrete action plans for %s.\n\n", lc.Name)
	fmt.Fprintf(&b, "Growth strategy:\n%s\n\n", toJSON(plan))
	b.WriteString(`Return JSON:
{"daily_actions": ["..."], "weekly_milestones": ["..."], "monthly_reviews": ["..."]}`)
	return b.String()
}

func guidancePrompt(lc LearnerContext, u Understanding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write personalized guidance for %s.\n\n", lc.Name)
	fmt.Fprintf(&b, "Preferred learning style: %s\n", lc.PreferredLearningStyle)
	fmt.Fprintf(&b, "Communication style: %s\n", u.OptimalCommunicationStyle)
	fmt.Fprintf(&b, "Motivation drivers: %s\n\n", strings.Join(u.MotivationDrivers, ", "))
	b.WriteString(`Return JSON:
{"guidance": "...", "style": "...", "motivation_messages": ["..."], "action_guidelines": ["..."], "support_resources": ["..."]}`)
	return b.String()
}

func synthesisPrompt(lc LearnerContext, phases any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Synthesize the complete growth plan for %s.\n\n", lc.Name)
	fmt.Fprintf(&b, "Phase results:\n%s\n\n", toJSON(phases))
	b.WriteString(`Return JSON:
{"executive_summary": "...", "key_insights": ["..."], "personalized_roadmap": ["..."],
 "immediate_actions": ["..."], "success_predictors": ["..."], "potential_obstacles": ["..."],
 "recommended_resources": ["..."], "follow_up_schedule": ["..."]}`)
	return b.String()
}

func toJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
