package profile

import (
	"fmt"
	"strings"
	"time"
)

// FeedbackType classifies a feedback record.
type FeedbackType string

const (
	FeedbackPositive      FeedbackType = "positive"
	FeedbackConstructive  FeedbackType = "constructive"
	FeedbackDevelopmental FeedbackType = "developmental"
	FeedbackRecognition   FeedbackType = "recognition"
)

// QuestionAnswer is a learner's answer to a follow-up question.
type QuestionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Feedback is one mentor observation about a learner.
type Feedback struct {
	ID         string       `json:"id"`
	EmployeeID string       `json:"employee_id"`
	MentorID   string       `json:"mentor_id,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	Type       FeedbackType `json:"type"`
	Category   string       `json:"category"`
	Summary    string       `json:"summary"`
	Detail     string       `json:"detailed_feedback,omitempty"`

	ImpactScore     float64 `json:"impact_score"`
	ConfidenceLevel float64 `json:"confidence_level"`

	Recommendations []string         `json:"recommendations,omitempty"`
	Answers         []QuestionAnswer `json:"answers,omitempty"`
}

// Validate checks the feedback invariants.
func (f *Feedback) Validate() error {
	if !ValidID(f.ID) {
		return fmt.Errorf("feedback id %q is invalid", f.ID)
	}
	if !ValidID(f.EmployeeID) {
		return fmt.Errorf("employee id %q is invalid", f.EmployeeID)
	}
	switch f.Type {
	case FeedbackPositive, FeedbackConstructive, FeedbackDevelopmental, FeedbackRecognition:
	default:
		return fmt.Errorf("invalid feedback type %q", f.Type)
	}
	if strings.TrimSpace(f.Summary) == "" {
		return fmt.Errorf("summary is required")
	}
	if f.ImpactScore < 0 || f.ImpactScore > 10 {
		return fmt.Errorf("impact score %v must be between 0 and 10", f.ImpactScore)
	}
	if f.ConfidenceLevel < 0 || f.ConfidenceLevel > 1 {
		return fmt.Errorf("confidence level %v must be between 0 and 1", f.ConfidenceLevel)
	}
	return nil
}
