// Package health checks the local dependencies of a planning run: the
// advisory provider, the data directory, the history file and the search
// backend.
//
// Example usage:
//
//	manager := health.NewManager()
//	manager.AddChecker(health.NewDirChecker("data-dir", cfg.DataDir))
//	manager.AddChecker(health.NewSearchChecker(searcher))
//
//	report := manager.Check(ctx)
//	fmt.Println(report.Status)
package health

import (
	"context"
	"time"
)

// Checker verifies one dependency. Check must respect the context deadline.
type Checker interface {
	// Name returns the unique name of this health check, lowercase with hyphens.
	Name() string

	// Check performs the health check and returns the result.
	Check(ctx context.Context) *Result
}

// Status represents the health check status.
type Status string

const (
	// StatusHealthy indicates the checked component is fully operational.
	StatusHealthy Status = "healthy"

	// StatusDegraded indicates the component is missing or partially working.
	// Planning still completes, with fallbacks.
	StatusDegraded Status = "degraded"

	// StatusUnhealthy indicates planning cannot run.
	StatusUnhealthy Status = "unhealthy"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Result represents the result of a health check.
type Result struct {
	Status  Status         `json:"status"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Latency time.Duration  `json:"latency"`
}

// NewResult creates a new health check result with the given status and message.
func NewResult(status Status, message string) *Result {
	return &Result{
		Status:  status,
		Message: message,
		Details: make(map[string]any),
	}
}

// WithDetail adds a detail to the result and returns the result for chaining.
func (r *Result) WithDetail(key string, value any) *Result {
	r.Details[key] = value
	return r
}

// Healthy creates a healthy result with the given message.
func Healthy(message string) *Result {
	return NewResult(StatusHealthy, message)
}

// Degraded creates a degraded result with the given message.
func Degraded(message string) *Result {
	return NewResult(StatusDegraded, message)
}

// Unhealthy creates an unhealthy result with the given message.
func Unhealthy(message string) *Result {
	return NewResult(StatusUnhealthy, message)
}
