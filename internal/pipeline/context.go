package pipeline

import (
	"strings"
	"time"

	"github.com/felixgeelhaar/growthplan/internal/planner"
	"github.com/felixgeelhaar/growthplan/internal/profile"
)

// Profile risk signals.
const (
	SignalSlowPace     = "learning pace is significantly slow"
	SignalManyGaps     = "many improvement areas need attention"
	SignalNoObjectives = "no clear objectives are set"
)

const (
	slowPaceThreshold    = 0.5
	manyGapsThreshold    = 5
	defaultLearnerDomain = "general"
)

// Trait is one scored personality trait.
type Trait struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// LearnerContext is the learner record every phase reads.
type LearnerContext struct {
	ID                     string   `json:"id"`
	Name                   string   `json:"name"`
	Domain                 string   `json:"domain"`
	TenureDays             int      `json:"tenure_days"`
	LearningPace           float64  `json:"learning_pace"`
	PreferredLearningStyle string   `json:"preferred_learning_style"`
	Strengths              []string `json:"strengths"`
	Gaps                   []string `json:"improvement_areas"`
	Traits                 []Trait  `json:"personality_traits"`
	CompletedTrainings     []string `json:"completed_trainings"`
	Objectives             []string `json:"current_objectives"`
	RiskSignals            []string `json:"risk_signals"`
}

// BuildContext assembles the learner context from a profile.
func BuildContext(p *profile.Profile, now time.Time) LearnerContext {
	domain := strings.TrimSpace(p.Department)
	if domain == "" {
		domain = defaultLearnerDomain
	}
	traits := make([]Trait, 0, len(p.PersonalityTraits))
	for _, name := range p.TraitNames() {
		traits = append(traits, Trait{Name: name, Score: p.PersonalityTraits[name]})
	}
	return LearnerContext{
		ID:                     p.ID,
		Name:                   p.Name,
		Domain:                 domain,
		TenureDays:             p.TenureDays(now),
		LearningPace:           p.LearningPace,
		PreferredLearningStyle: p.PreferredLearningStyle,
		Strengths:              clean(p.Strengths),
		Gaps:                   clean(p.ImprovementAreas),
		Traits:                 traits,
		CompletedTrainings:     clean(p.CompletedTrainings),
		Objectives:             clean(p.CurrentObjectives),
		RiskSignals:            ProfileRiskSignals(p.LearningPace, len(clean(p.ImprovementAreas)), len(clean(p.CurrentObjectives))),
	}
}

// ProfileRiskSignals derives the deterministic risk signals of a profile.
func ProfileRiskSignals(pace float64, gaps, objectives int) []string {
	signals := []string{}
	if pace < slowPaceThreshold {
		signals = append(signals, SignalSlowPace)
	}
	if gaps > manyGapsThreshold {
		signals = append(signals, SignalManyGaps)
	}
	if objectives == 0 {
		signals = append(signals, SignalNoObjectives)
	}
	return signals
}

func (c LearnerContext) plannerLearner() planner.Learner {
	return planner.Learner{
		ID:                 c.ID,
		Name:               c.Name,
		Domain:             c.Domain,
		LearningPace:       c.LearningPace,
		Strengths:          c.Strengths,
		ImprovementAreas:   c.Gaps,
		CompletedTrainings: c.CompletedTrainings,
		CurrentObjectives:  c.Objectives,
	}
}

// clean trims entries and drops blanks. The result is never nil.
func clean(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
