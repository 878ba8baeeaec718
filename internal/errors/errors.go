package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Advisory errors (ADVISORY-001 to ADVISORY-099)
	ErrCodeAdvisoryUnavailable ErrorCode = "ADVISORY-001"
	ErrCodeAdvisoryMalformed   ErrorCode = "ADVISORY-002"
	ErrCodeAdvisoryConfig      ErrorCode = "ADVISORY-003"

	// Planning errors (PLAN-001 to PLAN-099)
	ErrCodePlanNotFound           ErrorCode = "PLAN-001"
	ErrCodePlanInvalid            ErrorCode = "PLAN-002"
	ErrCodePlanSchedulingDeadlock ErrorCode = "PLAN-006"
	ErrCodePlanEmptyDecomposition ErrorCode = "PLAN-007"

	// Validation errors (VALIDATION-001 to VALIDATION-099)
	ErrCodeValueClamped   ErrorCode = "VALIDATION-001"
	ErrCodeProfileInvalid ErrorCode = "VALIDATION-002"

	// Profile store errors (PROFILE-001 to PROFILE-099)
	ErrCodeProfileNotFound ErrorCode = "PROFILE-001"
	ErrCodeRecordInvalid   ErrorCode = "PROFILE-002"

	// Search errors (SEARCH-001 to SEARCH-099)
	ErrCodeSearchFailed ErrorCode = "SEARCH-001"
	ErrCodeSearchConfig ErrorCode = "SEARCH-002"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigNotFound ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
	ErrCodeFileUnmarshal   ErrorCode = "IO-005"
	ErrCodeFileMarshal     ErrorCode = "IO-006"
)

const docsBase = "https://github.com/felixgeelhaar/growthplan"

// GrowthError is an error carrying a stable code, suggestions and a docs link.
type GrowthError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *GrowthError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)

	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			fmt.Fprintf(&b, "\n  • %s", suggestion)
		}
	}

	if e.DocsURL != "" {
		fmt.Fprintf(&b, "\n\nDocumentation: %s", e.DocsURL)
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *GrowthError) Unwrap() error {
	return e.Cause
}

// New creates a new GrowthError
func New(code ErrorCode, message string) *GrowthError {
	return &GrowthError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new GrowthError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *GrowthError {
	return &GrowthError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *GrowthError) WithSuggestion(suggestion string) *GrowthError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *GrowthError) WithSuggestions(suggestions ...string) *GrowthError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *GrowthError) WithDocs(url string) *GrowthError {
	e.DocsURL = url
	return e
}

// CodeOf returns the code of the first GrowthError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var ge *GrowthError
	if stderrors.As(err, &ge) {
		return ge.Code
	}
	return ""
}

// HasCode reports whether err's chain contains a GrowthError with code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var ge *GrowthError
		if !stderrors.As(err, &ge) {
			return false
		}
		if ge.Code == code {
			return true
		}
		err = ge.Cause
	}
	return false
}

// Common error constructors for frequently used errors

// NewAdvisoryUnavailableError reports a failed advisory transport call.
func NewAdvisoryUnavailableError(tag string, cause error) *GrowthError {
	return Wrap(ErrCodeAdvisoryUnavailable, fmt.Sprintf("advisory subsystem unavailable during %s", tag), cause).
		WithSuggestion("Check the provider endpoint and API key in the advisory config").
		WithSuggestion("Planning continues with deterministic defaults for this invocation")
}

// NewAdvisoryMalformedError reports an advisory response that did not match its schema.
func NewAdvisoryMalformedError(tag string, cause error) *GrowthError {
	return Wrap(ErrCodeAdvisoryMalformed, fmt.Sprintf("malformed advisory response for %s", tag), cause)
}

// NewSchedulingDeadlockError describes a forced pick in the dependency scheduler.
func NewSchedulingDeadlockError(task string, unresolved []string) *GrowthError {
	return New(ErrCodePlanSchedulingDeadlock,
		fmt.Sprintf("no schedulable task, forcing %q (unresolved: %s)", task, strings.Join(unresolved, ", "))).
		WithSuggestion("Check task dependencies for cycles or names that match no task").
		WithDocs(docsBase + "#dependency-scheduling")
}

// NewValueClampedError records that a computed value was brought back into range.
func NewValueClampedError(field string, got, clamped float64) *GrowthError {
	return New(ErrCodeValueClamped, fmt.Sprintf("%s out of range: %v clamped to %v", field, got, clamped))
}

// NewProfileInvalidError creates a learner profile validation error
func NewProfileInvalidError(details string) *GrowthError {
	return New(ErrCodeProfileInvalid, fmt.Sprintf("invalid learner profile: %s", details)).
		WithSuggestion("Run 'growthplan profile show <id>' to inspect the stored profile").
		WithSuggestion("Learning pace must be between 0.1 and 3.0").
		WithDocs(docsBase + "#learner-profiles")
}

// NewProfileNotFoundError creates a profile not found error
func NewProfileNotFoundError(id string) *GrowthError {
	return New(ErrCodeProfileNotFound, fmt.Sprintf("learner profile not found: %s", id)).
		WithSuggestion("Run 'growthplan profile list' to see stored profiles").
		WithSuggestion("Run 'growthplan profile create' to add one")
}

// NewSearchFailedError wraps a failed search query.
func NewSearchFailedError(query string, cause error) *GrowthError {
	return Wrap(ErrCodeSearchFailed, fmt.Sprintf("search failed for %q", query), cause)
}

// NewConfigNotFoundError creates a config file not found error
func NewConfigNotFoundError(path string) *GrowthError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("config file not found: %s", path)).
		WithSuggestion("Run 'growthplan config init' to write a default config")
}

// NewConfigInvalidError creates a config validation error
func NewConfigInvalidError(details string) *GrowthError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", details)).
		WithSuggestion("Run 'growthplan config show' to print the effective configuration").
		WithDocs(docsBase + "#configuration")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *GrowthError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *GrowthError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}
