package domain

import (
	"fmt"
	"regexp"
)

// TaskID identifies a task within one growth strategy.
type TaskID string

var taskIDPattern = regexp.MustCompile(`^task-[0-9]{3,}$`)

// TaskIDFor returns the identifier of the n-th task (1-based): task-001, task-002, ...
func TaskIDFor(n int) TaskID {
	return TaskID(fmt.Sprintf("task-%03d", n))
}

// Validate checks if the task ID is valid
func (t TaskID) Validate() error {
	if !taskIDPattern.MatchString(string(t)) {
		return fmt.Errorf("task ID %q must look like task-001", string(t))
	}
	return nil
}

// String returns the string representation
func (t TaskID) String() string {
	return string(t)
}
