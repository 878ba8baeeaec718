package cmd

import (
	"fmt"
	"strings"
)

// ErrorWithSuggestion wraps an error with actionable recovery suggestions
type ErrorWithSuggestion struct {
	Message     string
	Suggestions []string
	err         error
}

func (e *ErrorWithSuggestion) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, s := range e.Suggestions {
			b.WriteString("\n  • ")
			b.WriteString(s)
		}
	}

	if e.err != nil {
		b.WriteString("\n\nDetails: ")
		b.WriteString(e.err.Error())
	}

	return b.String()
}

func (e *ErrorWithSuggestion) Unwrap() error {
	return e.err
}

// NewErrorWithSuggestions creates an error with recovery suggestions
func NewErrorWithSuggestions(msg string, err error, suggestions ...string) error {
	return &ErrorWithSuggestion{
		Message:     msg,
		Suggestions: suggestions,
		err:         err,
	}
}

// ConfigLoadError creates a helpful error for configuration failures
func ConfigLoadError(path string, err error) error {
	return NewErrorWithSuggestions(
		fmt.Sprintf("Failed to load configuration from %q", path),
		err,
		"Create a default configuration: growthplan config init",
		"Check the YAML syntax of the file",
		"Verify that referenced environment variables are set",
	)
}

// ProfileLoadError creates a helpful error for profile loading failures
func ProfileLoadError(id string, err error) error {
	return NewErrorWithSuggestions(
		fmt.Sprintf("Failed to load profile %q", id),
		err,
		"List available profiles: growthplan profile list",
		"Create a profile: growthplan profile create",
		"Check the data directory: --data-dir or data_dir in the config",
	)
}

// HistoryLoadError creates a helpful error when the history file cannot be read
func HistoryLoadError(path string, err error) error {
	return NewErrorWithSuggestions(
		fmt.Sprintf("Failed to read history from %q", path),
		err,
		"Run a plan first: growthplan plan --profile <id>",
		"Check history.path in the config",
	)
}

// ValidationError creates a helpful error for validation failures
func ValidationError(field string, value any, validValues string) error {
	return NewErrorWithSuggestions(
		fmt.Sprintf("Invalid value for %s: %v", field, value),
		nil,
		fmt.Sprintf("Valid values: %s", validValues),
		"Run with --help to see all available options",
	)
}
