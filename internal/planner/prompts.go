package planner

import (
	"encoding/json"
	"fmt"
	"strings"
)

func strategyPrompt(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Design a personalized growth strategy for %s.\n\n", in.Learner.Name)
	writeLearner(&b, in.Learner)
	fmt.Fprintf(&b, "Analysis:\n%s\n\n", toJSON(in.Analysis))
	b.WriteString(`Cover the learning approach, skill priorities, a phased roadmap, motivation, progress measurement and support.
Return JSON:
{"strategic_approach": "...", "learning_methodology": "...", "skill_priorities": ["..."],
 "growth_phases": [{"phase": "...", "duration": "...", "objectives": ["..."], "key_activities": ["..."]}],
 "motivation_strategy": "...", "progress_metrics": ["..."], "support_requirements": ["..."]}`)
	return b.String()
}

func decompositionPrompt(in Input, base BaseStrategy) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Break %s's growth strategy into small executable tasks.\n\n", in.Learner.Name)
	fmt.Fprintf(&b, "Base strategy:\n%s\n\n", toJSON(base))
	fmt.Fprintf(&b, "Analysis:\n%s\n\n", toJSON(in.Analysis))
	writeLearner(&b, in.Learner)
	b.WriteString(`Rules:
- each task is completable in 1-3 working days
- estimated_duration is in minutes
- dependencies list the names of tasks that must come first
- include measurable success criteria, obstacles and mitigations
Return a JSON array:
[{"name": "...", "description": "...", "priority": "critical|high|medium|low",
  "complexity": "simple|moderate|complex", "estimated_duration": 120, "dependencies": ["..."],
  "required_skills": ["..."], "success_criteria": ["..."], "resources_needed": ["..."],
  "potential_obstacles": ["..."], "mitigation_strategies": ["..."]}]`)
	return b.String()
}

func milestonePrompt(in Input, tasks []Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Design adaptive milestones for %s's scheduled tasks.\n\n", in.Learner.Name)
	fmt.Fprintf(&b, "Tasks:\n%s\n", toJSON(tasks))
	fmt.Fprintf(&b, "Learning pace: %.2f\n\n", in.Learner.LearningPace)
	b.WriteString(`Space milestones to the learning pace, make success metrics measurable and include a reward.
Return a JSON array:
[{"name": "...", "description": "...", "target_date": "YYYY-MM-DD", "success_metrics": ["..."],
  "validation_methods": ["..."], "reward_description": "...", "dependencies": ["task ids"]}]`)
	return b.String()
}

func adaptivePrompt(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Design adaptive strategies for %s's learning process.\n\n", in.Learner.Name)
	writeLearner(&b, in.Learner)
	fmt.Fprintf(&b, "Analysis:\n%s\n\n", toJSON(in.Analysis))
	b.WriteString(`Use at most 5 strategies with strategy_type one of learning_pace, difficulty, motivation, engagement, support.
Return a JSON array:
[{"strategy_type": "...", "trigger_conditions": ["..."], "adaptations": ["..."],
  "monitoring_metrics": ["..."], "escalation_criteria": ["..."]}]`)
	return b.String()
}

func riskPrompt(in Input, tasks []Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Assess the risks in %s's growth plan and propose mitigations.\n\n", in.Learner.Name)
	fmt.Fprintf(&b, "Tasks:\n%s\n", toJSON(tasks))
	fmt.Fprintf(&b, "Analysis:\n%s\n\n", toJSON(in.Analysis))
	b.WriteString(`Consider pace versus workload, skill gaps, motivation, time management, external load and resources.
Return JSON:
{"identified_risks": [{"risk_type": "...", "description": "...", "probability": "low|medium|high",
   "impact": "low|medium|high", "risk_score": 1}],
 "mitigation_strategies": [{"risk_type": "...", "strategy": "...", "preventive_actions": ["..."], "contingency_plans": ["..."]}],
 "monitoring_plan": {"early_warning_indicators": ["..."], "monitoring_frequency": "...", "escalation_procedures": ["..."]},
 "overall_risk_level": "low|medium|high"}`)
	return b.String()
}

func writeLearner(b *strings.Builder, l Learner) {
	fmt.Fprintf(b, "Learner:\n- domain: %s\n- learning pace: %.2f\n", l.Domain, l.LearningPace)
	fmt.Fprintf(b, "- strengths: %s\n", strings.Join(l.Strengths, ", "))
	fmt.Fprintf(b, "- improvement areas: %s\n", strings.Join(l.ImprovementAreas, ", "))
	fmt.Fprintf(b, "- completed trainings: %s\n", strings.Join(l.CompletedTrainings, ", "))
	fmt.Fprintf(b, "- current objectives: %s\n\n", strings.Join(l.CurrentObjectives, ", "))
}

func toJSON(v any) string {
	if v == nil {
		return "{}"
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
