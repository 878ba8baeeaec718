package pipeline

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/felixgeelhaar/growthplan/internal/advisory"
)

const (
	minFollowUpQuestions = 3
	maxFollowUpQuestions = 5
	summaryLimit         = 500
)

// Understanding is the structured self-model of the learner.
type Understanding struct {
	PersonalityInsights       string   `json:"personality_insights"`
	LearningStyleAnalysis     string   `json:"learning_style_analysis"`
	MotivationDrivers         []string `json:"motivation_drivers"`
	PotentialBarriers         []string `json:"potential_barriers"`
	HiddenStrengths           []string `json:"hidden_strengths"`
	OptimalCommunicationStyle string   `json:"optimal_communication_style"`
	RiskFactors               []string `json:"risk_factors"`
	GrowthOpportunities       []string `json:"growth_opportunities"`
	Summary                   string   `json:"summary,omitempty"`
	NeedsMoreInfo             bool     `json:"needs_more_info"`
	FollowUpQuestions         []string `json:"follow_up_questions,omitempty"`
	Confidence                float64  `json:"confidence"`
}

type understandingPayload struct {
	PersonalityInsights       advisory.Text       `json:"personality_insights"`
	LearningStyleAnalysis     advisory.Text       `json:"learning_style_analysis"`
	MotivationDrivers         advisory.StringList `json:"motivation_drivers"`
	PotentialBarriers         advisory.StringList `json:"potential_barriers"`
	HiddenStrengths           advisory.StringList `json:"hidden_strengths"`
	OptimalCommunicationStyle advisory.Text       `json:"optimal_communication_style"`
	RiskFactors               advisory.StringList `json:"risk_factors"`
	GrowthOpportunities       advisory.StringList `json:"growth_opportunities"`
	NeedsMoreInfo             advisory.FlexBool   `json:"needs_more_info"`
	Confidence                *advisory.FlexFloat `json:"confidence"`
}

func (p understandingPayload) Validate() error {
	if p.PersonalityInsights == "" && p.LearningStyleAnalysis == "" && len(p.MotivationDrivers) == 0 &&
		len(p.PotentialBarriers) == 0 && len(p.HiddenStrengths) == 0 && len(p.GrowthOpportunities) == 0 {
		return fmt.Errorf("no insight fields present")
	}
	return nil
}

// questionList is a question array sent bare or as {"questions": [...]}.
type questionList []string

func (q *questionList) UnmarshalJSON(data []byte) error {
	items, err := advisory.UnmarshalList[advisory.Text](data, "questions")
	if err != nil {
		return err
	}
	out := make(questionList, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(string(item)); s != "" {
			out = append(out, s)
		}
	}
	*q = out
	return nil
}

func (q questionList) Validate() error {
	if len(q) < minFollowUpQuestions {
		return fmt.Errorf("%d questions, want at least %d", len(q), minFollowUpQuestions)
	}
	return nil
}

// DefaultFollowUpQuestions is the fixed minimal question set.
func DefaultFollowUpQuestions() []string {
	return []string{
		"What is the biggest challenge you face when learning something new?",
		"Which learning methods have worked best for you so far?",
		"What would you most like to be able to do six months from now?",
	}
}

func (p *Pipeline) understand(ctx context.Context, s *advisory.Session, lc LearnerContext) Understanding {
	res := advisory.Call[understandingPayload](ctx, s, advisory.Request{
		Tag:    advisory.TagDeepUnderstanding,
		Prompt: understandingPrompt(lc),
	})

	var u Understanding
	switch res.Outcome {
	case advisory.OutcomeParsed:
		u = understandingFromPayload(res.Value)
	case advisory.OutcomeMalformed:
		s.Fallback(advisory.TagDeepUnderstanding, res.Err)
		u = MalformedUnderstanding(res.Raw)
	default:
		s.Fallback(advisory.TagDeepUnderstanding, res.Err)
		u = ProfileUnderstanding(lc)
	}

	if u.NeedsMoreInfo {
		u.FollowUpQuestions = p.followUpQuestions(ctx, s, lc, u)
	}
	return u
}

func understandingFromPayload(p understandingPayload) Understanding {
	confidence := 0.7
	if p.Confidence != nil {
		confidence = clamp01(float64(*p.Confidence))
	}
	return Understanding{
		PersonalityInsights:       string(p.PersonalityInsights),
		LearningStyleAnalysis:     string(p.LearningStyleAnalysis),
		MotivationDrivers:         nonNil(p.MotivationDrivers),
		PotentialBarriers:         nonNil(p.PotentialBarriers),
		HiddenStrengths:           nonNil(p.HiddenStrengths),
		OptimalCommunicationStyle: string(p.OptimalCommunicationStyle),
		RiskFactors:               nonNil(p.RiskFactors),
		GrowthOpportunities:       nonNil(p.GrowthOpportunities),
		NeedsMoreInfo:             bool(p.NeedsMoreInfo),
		Confidence:                confidence,
	}
}

// MalformedUnderstanding keeps the unparsed response as a summary.
func MalformedUnderstanding(raw string) Understanding {
	return Understanding{
		MotivationDrivers:   []string{},
		PotentialBarriers:   []string{},
		HiddenStrengths:     []string{},
		RiskFactors:         []string{},
		GrowthOpportunities: []string{},
		Summary:             truncate(strings.TrimSpace(raw), summaryLimit),
		Confidence:          0.7,
	}
}

// ProfileUnderstanding derives an understanding from the profile alone.
func ProfileUnderstanding(lc LearnerContext) Understanding {
	traits := make([]string, 0, len(lc.Traits))
	for _, t := range lc.Traits {
		traits = append(traits, fmt.Sprintf("%s %.2f", t.Name, t.Score))
	}
	insights := "no personality data recorded"
	if len(traits) > 0 {
		insights = "trait scores: " + strings.Join(traits, ", ")
	}
	return Understanding{
		PersonalityInsights:       insights,
		LearningStyleAnalysis:     fmt.Sprintf("prefers %s learning", lc.PreferredLearningStyle),
		MotivationDrivers:         nonNil(lc.Objectives),
		PotentialBarriers:         nonNil(lc.Gaps),
		HiddenStrengths:           nonNil(lc.Strengths),
		OptimalCommunicationStyle: "supportive and concrete",
		RiskFactors:               []string{},
		GrowthOpportunities:       nonNil(lc.Gaps),
		Confidence:                0.3,
	}
}

func (p *Pipeline) followUpQuestions(ctx context.Context, s *advisory.Session, lc LearnerContext, u Understanding) []string {
	res := advisory.Call[questionList](ctx, s, advisory.Request{
		Tag:    advisory.TagFollowUpQuestions,
		Prompt: followUpPrompt(lc, u),
	})
	switch res.Outcome {
	case advisory.OutcomeParsed:
		return capQuestions(res.Value)
	case advisory.OutcomeMalformed:
		s.Fallback(advisory.TagFollowUpQuestions, res.Err)
		if salvaged := SalvageQuestions(res.Raw); len(salvaged) >= minFollowUpQuestions {
			return salvaged
		}
		return DefaultFollowUpQuestions()
	default:
		s.Fallback(advisory.TagFollowUpQuestions, res.Err)
		return DefaultFollowUpQuestions()
	}
}

// SalvageQuestions pulls question lines out of free text, at most five.
func SalvageQuestions(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "?") {
			continue
		}
		line = strings.TrimLeft(line, "-*0123456789.) \t\"")
		line = strings.TrimRight(line, "\",")
		if line != "" {
			out = append(out, line)
		}
	}
	return capQuestions(out)
}

func capQuestions(q []string) []string {
	if len(q) > maxFollowUpQuestions {
		q = q[:maxFollowUpQuestions]
	}
	return q
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

func nonNil(l []string) []string {
	if l == nil {
		return []string{}
	}
	return l
}
