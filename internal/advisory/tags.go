package advisory

// Tag names one advisory call site. Tags key default parameters, system
// prompts, metrics labels and fallback bookkeeping.
type Tag string

const (
	TagDeepUnderstanding    Tag = "deep_understanding"
	TagFollowUpQuestions    Tag = "follow_up_questions"
	TagSearchQueries        Tag = "search_queries"
	TagKnowledgeIntegration Tag = "knowledge_integration"
	TagDiagnosticAnalysis   Tag = "diagnostic_analysis"
	TagGapAnalysis          Tag = "gap_analysis"
	TagGrowthStrategy       Tag = "growth_strategy"
	TagTaskDecomposition    Tag = "task_decomposition"
	TagMilestones           Tag = "milestones"
	TagAdaptiveStrategies   Tag = "adaptive_strategies"
	TagRiskAssessment       Tag = "risk_assessment"
	TagActionPlans          Tag = "action_plans"
	TagPersonalizedGuidance Tag = "personalized_guidance"
	TagSynthesis            Tag = "synthesis"
)

// Params are the generation parameters of one call.
type Params struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// DefaultParams holds the token budget and temperature of every tag.
var DefaultParams = map[Tag]Params{
	TagDeepUnderstanding:    {MaxTokens: 1200, Temperature: 0.6},
	TagFollowUpQuestions:    {MaxTokens: 400, Temperature: 0.7},
	TagSearchQueries:        {MaxTokens: 600, Temperature: 0.6},
	TagKnowledgeIntegration: {MaxTokens: 800, Temperature: 0.6},
	TagDiagnosticAnalysis:   {MaxTokens: 1000, Temperature: 0.6},
	TagGapAnalysis:          {MaxTokens: 600, Temperature: 0.6},
	TagGrowthStrategy:       {MaxTokens: 1000, Temperature: 0.7},
	TagTaskDecomposition:    {MaxTokens: 1500, Temperature: 0.5},
	TagMilestones:           {MaxTokens: 800, Temperature: 0.6},
	TagAdaptiveStrategies:   {MaxTokens: 1000, Temperature: 0.7},
	TagRiskAssessment:       {MaxTokens: 1200, Temperature: 0.5},
	TagActionPlans:          {MaxTokens: 800, Temperature: 0.7},
	TagPersonalizedGuidance: {MaxTokens: 800, Temperature: 0.7},
	TagSynthesis:            {MaxTokens: 1200, Temperature: 0.7},
}

// Tags lists every tag in pipeline order.
var Tags = []Tag{
	TagDeepUnderstanding, TagFollowUpQuestions,
	TagSearchQueries, TagKnowledgeIntegration,
	TagDiagnosticAnalysis, TagGapAnalysis,
	TagGrowthStrategy, TagTaskDecomposition, TagMilestones, TagAdaptiveStrategies, TagRiskAssessment,
	TagActionPlans, TagPersonalizedGuidance,
	TagSynthesis,
}

// IsKnown reports whether t is one of the defined tags.
func (t Tag) IsKnown() bool {
	_, ok := DefaultParams[t]
	return ok
}

func (t Tag) String() string {
	return string(t)
}
