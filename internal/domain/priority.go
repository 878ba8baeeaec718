package domain

import (
	"fmt"
	"strings"
)

// Priority is the urgency of a learning task or gap.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// DefaultPriority is used when advisory output carries an unknown value.
const DefaultPriority = PriorityMedium

// ParsePriority parses a priority strictly, ignoring case and surrounding space.
func ParsePriority(value string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(value)))
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// NormalizePriority maps any input to a valid priority, defaulting to medium.
func NormalizePriority(value string) Priority {
	p, err := ParsePriority(value)
	if err != nil {
		return DefaultPriority
	}
	return p
}

// Validate checks if the priority is valid
func (p Priority) Validate() error {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return nil
	default:
		return fmt.Errorf("invalid priority %q: must be critical, high, medium, or low", string(p))
	}
}

// String returns the string representation
func (p Priority) String() string {
	return string(p)
}

// Rank orders priorities; critical ranks highest, unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// IsHigherThan checks if this priority is higher than another
func (p Priority) IsHigherThan(other Priority) bool {
	return p.Rank() > other.Rank()
}
