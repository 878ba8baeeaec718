package profile

import (
	"context"
)

// Store persists learner profiles, feedback records and saved plans.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, id string) (*Profile, error)
	Save(ctx context.Context, p *Profile) error
	List(ctx context.Context) ([]*Profile, error)
	AddFeedback(ctx context.Context, f *Feedback) error
	ListFeedback(ctx context.Context, employeeID string) ([]*Feedback, error)
	SavePlan(ctx context.Context, id string, plan any) (string, error)
}
