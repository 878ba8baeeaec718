package profile

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/felixgeelhaar/growthplan/internal/errors"
)

// MemoryStore is an in-process Store. Records are copied on the way in and out.
type MemoryStore struct {
	mu        sync.RWMutex
	profiles  map[string]Profile
	feedbacks []Feedback
	plans     map[string]any
}

// NewMemoryStore returns a store seeded with profiles.
func NewMemoryStore(profiles ...*Profile) *MemoryStore {
	m := &MemoryStore{
		profiles: make(map[string]Profile),
		plans:    make(map[string]any),
	}
	for _, p := range profiles {
		p.ApplyDefaults()
		m.profiles[p.ID] = *p
	}
	return m
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, id string) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, errors.NewProfileNotFoundError(id)
	}
	return &p, nil
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, p *Profile) error {
	p.ApplyDefaults()
	if err := p.Validate(); err != nil {
		return errors.NewProfileInvalidError(err.Error())
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = *p
	return nil
}

// List implements Store.
func (m *MemoryStore) List(_ context.Context) ([]*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// AddFeedback implements Store.
func (m *MemoryStore) AddFeedback(_ context.Context, f *Feedback) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	if err := f.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeRecordInvalid, "invalid feedback record", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedbacks = append(m.feedbacks, *f)
	return nil
}

// ListFeedback implements Store.
func (m *MemoryStore) ListFeedback(_ context.Context, employeeID string) ([]*Feedback, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Feedback
	for _, f := range m.feedbacks {
		if f.EmployeeID == employeeID {
			f := f
			out = append(out, &f)
		}
	}
	return out, nil
}

// SavePlan implements Store.
func (m *MemoryStore) SavePlan(_ context.Context, id string, plan any) (string, error) {
	if !ValidID(id) {
		return "", errors.New(errors.ErrCodeRecordInvalid, fmt.Sprintf("invalid plan id %q", id))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[id] = plan
	return "memory://plans/" + id, nil
}

// Plan returns a saved plan.
func (m *MemoryStore) Plan(id string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.plans[id]
	return p, ok
}
