package exitcode

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/felixgeelhaar/growthplan/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ConfigError indicates a missing or invalid configuration
	ConfigError = 3

	// NotFound indicates a missing profile or file
	NotFound = 4

	// InvalidInput indicates a profile or record that failed validation
	InvalidInput = 5

	// IOError indicates a failure reading or writing local files
	IOError = 6

	// Interrupted indicates the run was cancelled by a signal
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	code := DetermineExitCode(err)
	Exit(code)
}

// DetermineExitCode maps an error to an exit code, using the error code of
// the first coded error in the chain and falling back to cobra's usage messages.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}
	if stderrors.Is(err, context.Canceled) {
		return Interrupted
	}

	switch code := errors.CodeOf(err); {
	case code == errors.ErrCodeProfileNotFound, code == errors.ErrCodeFileNotFound:
		return NotFound
	case code == errors.ErrCodeProfileInvalid, code == errors.ErrCodeRecordInvalid:
		return InvalidInput
	case strings.HasPrefix(string(code), "CONFIG-"),
		code == errors.ErrCodeSearchConfig,
		code == errors.ErrCodeAdvisoryConfig:
		return ConfigError
	case strings.HasPrefix(string(code), "IO-"):
		return IOError
	}

	errMsg := strings.ToLower(err.Error())
	for _, usage := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "required flag", "accepts ", "invalid argument", "invalid value for"} {
		if strings.Contains(errMsg, usage) {
			return UsageError
		}
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case ConfigError:
		return "Configuration error"
	case NotFound:
		return "Profile or file not found"
	case InvalidInput:
		return "Invalid profile or record"
	case IOError:
		return "File system error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
