// Package profile holds learner profiles and mentor feedback records.
package profile

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Learning pace bounds. 1.0 is nominal; 2.0 learns twice as fast.
const (
	MinLearningPace     = 0.1
	MaxLearningPace     = 3.0
	DefaultLearningPace = 1.0
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,127}$`)

// Skill is an assessed competency.
type Skill struct {
	Name         string    `json:"name" yaml:"name"`
	Level        string    `json:"level" yaml:"level"`
	LastAssessed time.Time `json:"last_assessed" yaml:"last_assessed"`
	ProgressRate float64   `json:"progress_rate" yaml:"progress_rate"`
}

// Profile describes one learner.
type Profile struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	Email      string    `json:"email,omitempty" yaml:"email,omitempty"`
	Department string    `json:"department" yaml:"department"`
	HireDate   time.Time `json:"hire_date" yaml:"hire_date"`
	MentorID   string    `json:"mentor_id,omitempty" yaml:"mentor_id,omitempty"`

	Skills                 []Skill  `json:"skills,omitempty" yaml:"skills,omitempty"`
	LearningPace           float64  `json:"learning_pace" yaml:"learning_pace"`
	PreferredLearningStyle string   `json:"preferred_learning_style" yaml:"preferred_learning_style"`
	OverallRating          *float64 `json:"overall_rating,omitempty" yaml:"overall_rating,omitempty"`

	Strengths         []string           `json:"strengths,omitempty" yaml:"strengths,omitempty"`
	ImprovementAreas  []string           `json:"improvement_areas,omitempty" yaml:"improvement_areas,omitempty"`
	PersonalityTraits map[string]float64 `json:"personality_traits,omitempty" yaml:"personality_traits,omitempty"`

	CompletedTrainings []string `json:"completed_trainings,omitempty" yaml:"completed_trainings,omitempty"`
	CurrentObjectives  []string `json:"current_objectives,omitempty" yaml:"current_objectives,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// ApplyDefaults fills fields a stored record may omit.
func (p *Profile) ApplyDefaults() {
	if p.LearningPace == 0 {
		p.LearningPace = DefaultLearningPace
	}
	if strings.TrimSpace(p.PreferredLearningStyle) == "" {
		p.PreferredLearningStyle = "visual"
	}
}

// Validate checks the profile invariants.
func (p *Profile) Validate() error {
	if !ValidID(p.ID) {
		return fmt.Errorf("id %q must be 1-128 letters, digits, '.', '_' or '-'", p.ID)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if math.IsNaN(p.LearningPace) || p.LearningPace < MinLearningPace || p.LearningPace > MaxLearningPace {
		return fmt.Errorf("learning pace %v must be between %.1f and %.1f", p.LearningPace, MinLearningPace, MaxLearningPace)
	}
	if p.OverallRating != nil && (*p.OverallRating < 0 || *p.OverallRating > 5) {
		return fmt.Errorf("overall rating %v must be between 0 and 5", *p.OverallRating)
	}
	for name, v := range p.PersonalityTraits {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("personality trait %q has a non-finite value", name)
		}
	}
	for _, s := range p.Skills {
		if s.ProgressRate < 0 || s.ProgressRate > 100 {
			return fmt.Errorf("skill %q progress %v must be between 0 and 100", s.Name, s.ProgressRate)
		}
	}
	return nil
}

// TenureDays returns whole days since the hire date, never negative.
func (p *Profile) TenureDays(now time.Time) int {
	if p.HireDate.IsZero() || now.Before(p.HireDate) {
		return 0
	}
	return int(now.Sub(p.HireDate).Hours() / 24)
}

// TraitNames returns personality trait names sorted alphabetically.
func (p *Profile) TraitNames() []string {
	names := make([]string, 0, len(p.PersonalityTraits))
	for name := range p.PersonalityTraits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidID reports whether id is safe to use as a record key and file name.
func ValidID(id string) bool {
	return idPattern.MatchString(id) && !strings.Contains(id, "..")
}
