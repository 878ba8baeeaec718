package planner

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/growthplan/internal/advisory"
)

// Advisory response shapes. Lists accept a bare string, enums are normalized
// later, and numbers may arrive as strings.

type strategyPayload struct {
	StrategicApproach   string               `json:"strategic_approach"`
	LearningMethodology string               `json:"learning_methodology"`
	SkillPriorities     advisory.StringList  `json:"skill_priorities"`
	GrowthPhases        []growthPhasePayload `json:"growth_phases"`
	MotivationStrategy  string               `json:"motivation_strategy"`
	ProgressMetrics     advisory.StringList  `json:"progress_metrics"`
	SupportRequirements advisory.StringList  `json:"support_requirements"`
}

type growthPhasePayload struct {
	Phase         string              `json:"phase"`
	Duration      advisory.Text       `json:"duration"`
	Objectives    advisory.StringList `json:"objectives"`
	KeyActivities advisory.StringList `json:"key_activities"`
}

func (p strategyPayload) Validate() error {
	if strings.TrimSpace(p.StrategicApproach) == "" {
		return fmt.Errorf("strategic_approach is required")
	}
	return nil
}

type taskPayload struct {
	Name                 string              `json:"name"`
	Description          string              `json:"description"`
	Priority             string              `json:"priority"`
	Complexity           string              `json:"complexity"`
	Status               string              `json:"status"`
	EstimatedDuration    advisory.FlexFloat  `json:"estimated_duration"`
	Dependencies         advisory.StringList `json:"dependencies"`
	RequiredSkills       advisory.StringList `json:"required_skills"`
	RequiredCapabilities advisory.StringList `json:"required_capabilities"`
	SuccessCriteria      advisory.StringList `json:"success_criteria"`
	ResourcesNeeded      advisory.StringList `json:"resources_needed"`
	PotentialObstacles   advisory.StringList `json:"potential_obstacles"`
	MitigationStrategies advisory.StringList `json:"mitigation_strategies"`
}

// decomposition is a task list sent either bare or as {"tasks": [...]}.
type decomposition []taskPayload

func (d *decomposition) UnmarshalJSON(data []byte) error {
	items, err := advisory.UnmarshalList[taskPayload](data, "tasks")
	*d = items
	return err
}

func (d decomposition) Validate() error {
	if len(d) == 0 {
		return fmt.Errorf("task list is empty")
	}
	return nil
}

type milestonePayload struct {
	Name              string              `json:"name"`
	Description       string              `json:"description"`
	TargetDate        string              `json:"target_date"`
	SuccessMetrics    advisory.StringList `json:"success_metrics"`
	ValidationMethods advisory.StringList `json:"validation_methods"`
	RewardDescription string              `json:"reward_description"`
	RewardSystem      string              `json:"reward_system"`
	Dependencies      advisory.StringList `json:"dependencies"`
}

type milestoneList []milestonePayload

func (m *milestoneList) UnmarshalJSON(data []byte) error {
	items, err := advisory.UnmarshalList[milestonePayload](data, "milestones")
	*m = items
	return err
}

func (m milestoneList) Validate() error {
	if len(m) == 0 {
		return fmt.Errorf("milestone list is empty")
	}
	return nil
}

type adaptivePayload struct {
	StrategyType       string              `json:"strategy_type"`
	TriggerConditions  advisory.StringList `json:"trigger_conditions"`
	Adaptations        advisory.StringList `json:"adaptations"`
	MonitoringMetrics  advisory.StringList `json:"monitoring_metrics"`
	EscalationCriteria advisory.StringList `json:"escalation_criteria"`
}

type adaptiveList []adaptivePayload

func (a *adaptiveList) UnmarshalJSON(data []byte) error {
	items, err := advisory.UnmarshalList[adaptivePayload](data, "strategies")
	*a = items
	return err
}

func (a adaptiveList) Validate() error {
	if len(a) == 0 {
		return fmt.Errorf("strategy list is empty")
	}
	return nil
}

type riskPayload struct {
	IdentifiedRisks []struct {
		RiskType    string             `json:"risk_type"`
		Description string             `json:"description"`
		Probability string             `json:"probability"`
		Impact      string             `json:"impact"`
		RiskScore   advisory.FlexFloat `json:"risk_score"`
	} `json:"identified_risks"`
	MitigationStrategies []struct {
		RiskType          string              `json:"risk_type"`
		Strategy          string              `json:"strategy"`
		PreventiveActions advisory.StringList `json:"preventive_actions"`
		ContingencyPlans  advisory.StringList `json:"contingency_plans"`
	} `json:"mitigation_strategies"`
	MonitoringPlan struct {
		Indicators      advisory.StringList `json:"early_warning_indicators"`
		Frequency       advisory.Text       `json:"monitoring_frequency"`
		EscalationSteps advisory.StringList `json:"escalation_procedures"`
	} `json:"monitoring_plan"`
	OverallRiskLevel string `json:"overall_risk_level"`
}
