// Package shared provides constants and types used across CLI subpackages.
package shared

import (
	"errors"
	"fmt"

	clierrors "github.com/ariel-frischer/fraglog/internal/errors"
)

// Exit codes for the fraglog CLI.
// These codes support programmatic composition and CI/CD integration.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitValidationFailed indicates fragments failed verification or a
	// release could not be built from them
	ExitValidationFailed = 1

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitMissingDependency indicates a required file or directory is missing
	ExitMissingDependency = 4
)

// Command group IDs used by the root command's help output.
const (
	GroupGettingStarted = "getting-started"
	GroupFragments      = "fragments"
	GroupConfiguration  = "configuration"
)

// ExitError carries a process exit code through cobra's error return.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError returns an error that makes the CLI exit with code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// ExitCode maps an error returned by a command to a process exit code.
// Structured CLI errors map by category; anything else is a validation
// failure.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case clierrors.Argument, clierrors.Configuration:
			return ExitInvalidArguments
		case clierrors.Prerequisite:
			return ExitMissingDependency
		}
	}

	return ExitValidationFailed
}
