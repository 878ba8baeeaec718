package domain

import (
	"fmt"
	"strings"
)

// TaskStatus is the lifecycle state of a learning task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusBlocked    TaskStatus = "blocked"
	StatusFailed     TaskStatus = "failed"
)

// ParseTaskStatus parses a status strictly. Hyphens and spaces are read as underscores.
func ParseTaskStatus(value string) (TaskStatus, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.NewReplacer("-", "_", " ", "_").Replace(v)
	s := TaskStatus(v)
	if err := s.Validate(); err != nil {
		return "", err
	}
	return s, nil
}

// NormalizeTaskStatus maps any input to a valid status, defaulting to pending.
func NormalizeTaskStatus(value string) TaskStatus {
	s, err := ParseTaskStatus(value)
	if err != nil {
		return StatusPending
	}
	return s
}

// Validate checks if the status is valid
func (s TaskStatus) Validate() error {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusBlocked, StatusFailed:
		return nil
	default:
		return fmt.Errorf("invalid task status %q", string(s))
	}
}

// String returns the string representation
func (s TaskStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further work is expected on the task.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}
