package errors

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLIError_Unwrap(t *testing.T) {
	t.Parallel()

	base := fmt.Errorf("reading: %w", fs.ErrNotExist)
	cliErr := WrapWithMessage(base, Runtime, "loading fragments")

	assert.Equal(t, "loading fragments: reading: file does not exist", cliErr.Error())
	assert.True(t, errors.Is(cliErr, fs.ErrNotExist))
	assert.Nil(t, Wrap(nil, Runtime))
	assert.Nil(t, WrapWithMessage(nil, Runtime, "x"))
}

func TestAsCLIError(t *testing.T) {
	t.Parallel()

	inner := MissingText()
	wrapped := fmt.Errorf("command failed: %w", inner)

	assert.Same(t, inner, AsCLIError(wrapped))
	assert.Nil(t, AsCLIError(errors.New("plain")))
	assert.Nil(t, AsCLIError(nil))
}

func TestFromError(t *testing.T) {
	t.Parallel()

	assert.Nil(t, FromError(nil, Runtime))

	plain := FromError(errors.New("boom"), Configuration)
	require.NotNil(t, plain)
	assert.Equal(t, Configuration, plain.Category)

	existing := FragmentExists("a.md")
	assert.Same(t, existing, FromError(fmt.Errorf("x: %w", existing), Runtime))
}

func TestFprintError_PlainFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err      *CLIError
		contains []string
	}{
		"argument error with usage": {
			err: InvalidVersion("1.0"),
			contains: []string{
				"Error [Argument Error]: invalid release version: 1.0",
				"Usage: fraglog new <MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD]>",
				"To fix this:",
				"  • Versions must be strict semantic versions",
			},
		},
		"prerequisite error": {
			err: TemplateNotFound(".changelogs/template.md"),
			contains: []string{
				"Error [Prerequisite Error]: changelog template not found: .changelogs/template.md",
				"fraglog init",
			},
		},
		"no remediation": {
			err:      Wrap(errors.New("bare"), Runtime),
			contains: []string{"Error [Runtime Error]: bare\n"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			FprintError(&buf, tt.err, true)
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestFprintError_Plain(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	FprintError(&buf, ConfigFileNotFound("custom.yml"), true)
	assert.Contains(t, buf.String(), "Error [Configuration Error]: configuration file not found: custom.yml")

	buf.Reset()
	FprintError(&buf, nil, true)
	assert.Empty(t, buf.String())
}

func TestErrorCategory_String(t *testing.T) {
	t.Parallel()

	for cat, want := range map[ErrorCategory]string{
		Argument:          "Argument Error",
		Configuration:     "Configuration Error",
		Prerequisite:      "Prerequisite Error",
		Runtime:           "Runtime Error",
		ErrorCategory(99): "Error",
	} {
		assert.Equal(t, want, cat.String())
	}
}
