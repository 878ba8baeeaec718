// Package planner turns a learner's diagnostics into a scheduled growth
// strategy: base strategy, decomposed tasks on a single timeline, milestones,
// adaptive strategies, a risk assessment and a success probability.
package planner

import (
	"time"

	"github.com/felixgeelhaar/growthplan/internal/domain"
)

// Task is one unit of work on the learner's timeline.
// EstimatedDuration is nominal minutes; ScheduledDuration is the pace-adjusted
// minutes the scheduler placed on the calendar.
type Task struct {
	ID                   domain.TaskID     `json:"id"`
	Name                 string            `json:"name"`
	Description          string            `json:"description"`
	Priority             domain.Priority   `json:"priority"`
	Complexity           domain.Complexity `json:"complexity"`
	EstimatedDuration    int               `json:"estimated_duration"`
	ScheduledDuration    int               `json:"scheduled_duration,omitempty"`
	Dependencies         []string          `json:"dependencies"`
	RequiredCapabilities []string          `json:"required_capabilities"`
	SuccessCriteria      []string          `json:"success_criteria"`
	ResourcesNeeded      []string          `json:"resources_needed"`
	PotentialObstacles   []string          `json:"potential_obstacles"`
	MitigationStrategies []string          `json:"mitigation_strategies"`
	Status               domain.TaskStatus `json:"status"`
	CreatedAt            time.Time         `json:"created_at"`
	DueDate              *time.Time        `json:"due_date,omitempty"`

	// DeadlockBreak is set when the scheduler placed the task before all of
	// its dependencies were scheduled.
	DeadlockBreak          bool     `json:"deadlock_break,omitempty"`
	UnresolvedDependencies []string `json:"unresolved_dependencies,omitempty"`
}

// Milestone is a checkpoint on the learner's timeline.
type Milestone struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	TargetDate        time.Time `json:"target_date"`
	SuccessMetrics    []string  `json:"success_metrics"`
	ValidationMethods []string  `json:"validation_methods"`
	RewardDescription string    `json:"reward_description"`
	Dependencies      []string  `json:"dependencies"`
}

// AdaptiveStrategy says how to adjust the plan when a trigger fires.
type AdaptiveStrategy struct {
	Type               domain.StrategyType `json:"strategy_type"`
	TriggerConditions  []string            `json:"trigger_conditions"`
	Adaptations        []string            `json:"adaptations"`
	MonitoringMetrics  []string            `json:"monitoring_metrics"`
	EscalationCriteria []string            `json:"escalation_criteria"`
}

// Risk is one identified threat to the plan.
type Risk struct {
	Type        string       `json:"risk_type"`
	Description string       `json:"description"`
	Probability domain.Level `json:"probability"`
	Impact      domain.Level `json:"impact"`
	Score       int          `json:"risk_score"`
}

// Mitigation addresses one risk type.
type Mitigation struct {
	RiskType          string   `json:"risk_type"`
	Strategy          string   `json:"strategy"`
	PreventiveActions []string `json:"preventive_actions"`
	ContingencyPlans  []string `json:"contingency_plans"`
}

// MonitoringPlan says how risks are watched.
type MonitoringPlan struct {
	Indicators      []string `json:"early_warning_indicators"`
	Frequency       string   `json:"monitoring_frequency"`
	EscalationSteps []string `json:"escalation_procedures"`
}

// RiskAssessment is the risk assessor's output.
type RiskAssessment struct {
	IdentifiedRisks      []Risk         `json:"identified_risks"`
	MitigationStrategies []Mitigation   `json:"mitigation_strategies"`
	MonitoringPlan       MonitoringPlan `json:"monitoring_plan"`
	OverallRiskLevel     domain.Level   `json:"overall_risk_level"`
}

// GrowthPhase is one stage of the base strategy.
type GrowthPhase struct {
	Phase         string   `json:"phase"`
	Duration      string   `json:"duration"`
	Objectives    []string `json:"objectives"`
	KeyActivities []string `json:"key_activities"`
}

// BaseStrategy is the high-level approach the tasks are decomposed from.
type BaseStrategy struct {
	StrategicApproach   string        `json:"strategic_approach"`
	LearningMethodology string        `json:"learning_methodology"`
	SkillPriorities     []string      `json:"skill_priorities"`
	GrowthPhases        []GrowthPhase `json:"growth_phases"`
	MotivationStrategy  string        `json:"motivation_strategy"`
	ProgressMetrics     []string      `json:"progress_metrics"`
	SupportRequirements []string      `json:"support_requirements"`
}

// DeadlockBreak records one forced pick by the scheduler.
type DeadlockBreak struct {
	TaskID     domain.TaskID `json:"task_id"`
	TaskName   string        `json:"task_name"`
	Unresolved []string      `json:"unresolved_dependencies"`
}

// GrowthStrategy is the planner's aggregate result. It is built fresh for each
// invocation and not modified afterwards.
type GrowthStrategy struct {
	EmployeeID          string             `json:"employee_id"`
	StrategyID          string             `json:"strategy_id"`
	CreatedAt           time.Time          `json:"created_at"`
	BaseStrategy        BaseStrategy       `json:"base_strategy"`
	Tasks               []Task             `json:"tasks"`
	Milestones          []Milestone        `json:"milestones"`
	AdaptiveStrategies  []AdaptiveStrategy `json:"adaptive_strategies"`
	RiskAssessment      RiskAssessment     `json:"risk_assessment"`
	EstimatedCompletion time.Time          `json:"estimated_completion"`
	SuccessProbability  float64            `json:"success_probability"`
	DeadlockBreaks      []DeadlockBreak    `json:"deadlock_breaks,omitempty"`
	Fallbacks           []string           `json:"fallbacks,omitempty"`
}

// Learner is the slice of learner context the planner reads.
type Learner struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Domain             string   `json:"domain"`
	LearningPace       float64  `json:"learning_pace"`
	Strengths          []string `json:"strengths"`
	ImprovementAreas   []string `json:"improvement_areas"`
	CompletedTrainings []string `json:"completed_trainings"`
	CurrentObjectives  []string `json:"current_objectives"`
}

// Input is everything the planner needs from earlier phases.
type Input struct {
	Learner Learner
	// Analysis is rendered into prompts as JSON. Typically the understanding,
	// knowledge and diagnostic outputs.
	Analysis any
	// RiskFactors feed the success probability.
	RiskFactors []string
}
