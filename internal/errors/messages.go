package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the fraglog CLI.
// These templates ensure consistent, actionable error messages.

// MissingVersionArgument creates an error for 'fraglog new' without a version.
func MissingVersionArgument() *CLIError {
	return NewArgumentErrorWithUsage(
		"release version is required",
		"fraglog new <version> --text \"<description>\"",
		"Provide the release the change ships in, e.g. 1.4.0",
	)
}

// InvalidVersion creates an error for a version that is not strict semver.
func InvalidVersion(provided string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid release version: %s", provided),
		"fraglog new <MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD]>",
		"Versions must be strict semantic versions (e.g., 1.4.0 or 2.0.0-rc.1)",
		"A leading 'v' is accepted and removed",
	)
}

// InvalidSetFlag creates an error for a malformed --set value.
func InvalidSetFlag(provided string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid --set value: %q", provided),
		"fraglog new <version> --set key=value",
		"Each --set must have the form key=value",
	)
}

// InvalidHeaderValue creates an error for a --set value that does not match the header schema.
func InvalidHeaderValue(err error) *CLIError {
	return &CLIError{
		Category: Argument,
		Message:  err.Error(),
		Remediation: []string{
			"Check the 'header' section of .fraglog.yml for the field's type",
		},
		Err: err,
	}
}

// MissingText creates an error when a new fragment would have no body.
func MissingText() *CLIError {
	return NewArgumentErrorWithUsage(
		"fragment text is required",
		"fraglog new <version> --text \"<description>\"",
		"Pass --text, or --text - to read it from stdin",
	)
}

// FragmentExists creates an error when 'fraglog new' would overwrite a file.
func FragmentExists(path string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("fragment already exists: %s", path),
		"Choose another name with --name",
		"Or pass --force to overwrite it",
	)
}

// FragmentDirNotFound creates an error for a missing fragment directory.
func FragmentDirNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("fragment directory not found: %s", path),
		"Run 'fraglog init' to create it",
		"Or set fragment_dir in .fraglog.yml",
	)
}

// TemplateNotFound creates an error for a missing changelog template.
func TemplateNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("changelog template not found: %s", path),
		"Run 'fraglog init' to write the default template",
		"Or pass --default-template to use the built-in one",
	)
}

// ConfigFileNotFound creates an error for missing configuration file.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("configuration file not found: %s", path),
		"Run 'fraglog init' to create a default configuration",
		"Or check the path passed to --config",
	)
}

// ConfigParseError creates an error for configuration parsing failures.
func ConfigParseError(err error) *CLIError {
	return &CLIError{
		Category: Configuration,
		Message:  fmt.Sprintf("failed to load configuration: %v", err),
		Remediation: []string{
			"Check the YAML syntax of .fraglog.yml",
			"Run 'fraglog init --force' to regenerate it",
		},
		Err: err,
	}
}

// FragmentDecodeError creates an error for the first fragment that failed
// during a release.
func FragmentDecodeError(err error) *CLIError {
	return &CLIError{
		Category: Runtime,
		Message:  err.Error(),
		Remediation: []string{
			"Fix the fragment and run the command again",
			"Run 'fraglog verify' to list every broken fragment at once",
		},
		Err: err,
	}
}

// FileNotWritable creates an error for files that cannot be written.
func FileNotWritable(path string, err error) *CLIError {
	return &CLIError{
		Category: Runtime,
		Message:  fmt.Sprintf("cannot write file %s: %v", path, err),
		Remediation: []string{
			"Check file permissions",
			"Ensure the parent directory exists",
		},
		Err: err,
	}
}

// InvalidFlagCombination creates an error for conflicting flags.
func InvalidFlagCombination(reason string, flags ...string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination: %s", strings.Join(flags, ", ")),
		reason,
	)
}
