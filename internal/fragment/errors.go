package fragment

import (
	"errors"
	"fmt"
)

var (
	// ErrHeaderSeparatorMissing is returned when a fragment does not start with
	// a "+++" or "---" delimiter line.
	ErrHeaderSeparatorMissing = errors.New("header separator missing: expected '+++' or '---' on the first line")

	// ErrInvalidUTF8 is returned when fragment content is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("fragment content is not valid UTF-8")
)

// ExpectedSeparatorError is returned when a header was opened but the matching
// closing delimiter was not found. Found holds the line that appeared instead,
// or is empty when the input ended first.
type ExpectedSeparatorError struct {
	Expected string
	Found    string
	Line     int
}

func (e *ExpectedSeparatorError) Error() string {
	if e.Found == "" {
		return fmt.Sprintf("expected closing separator %q, found end of input", e.Expected)
	}
	return fmt.Sprintf("line %d: expected closing separator %q, found %q", e.Line, e.Expected, e.Found)
}

// TOMLError wraps a failure to decode a TOML header.
type TOMLError struct {
	Line   int
	Column int
	Err    error
}

func (e *TOMLError) Error() string {
	return "TOML header: " + locate(e.Line, e.Column) + e.Err.Error()
}

func (e *TOMLError) Unwrap() error { return e.Err }

// YAMLError wraps a failure to decode a YAML header.
type YAMLError struct {
	Line   int
	Column int
	Err    error
}

func (e *YAMLError) Error() string {
	return "YAML header: " + locate(e.Line, e.Column) + e.Err.Error()
}

func (e *YAMLError) Unwrap() error { return e.Err }

// DataTypeError reports a header value whose kind differs from the kind a
// caller requires for that key.
type DataTypeError struct {
	Key      string
	Expected Kind
	Received Kind
}

func (e *DataTypeError) Error() string {
	return fmt.Sprintf("header %q: expected %s, received %s", e.Key, e.Expected, e.Received)
}

// MissingFieldError reports a required header key that is absent.
type MissingFieldError struct {
	Key string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("header %q is required", e.Key)
}

func locate(line, column int) string {
	switch {
	case line > 0 && column > 0:
		return fmt.Sprintf("line %d, column %d: ", line, column)
	case line > 0:
		return fmt.Sprintf("line %d: ", line)
	default:
		return ""
	}
}

// shiftLine moves a header-relative line number to a file-relative one.
func shiftLine(err error, offset int) error {
	var tomlErr *TOMLError
	if errors.As(err, &tomlErr) && tomlErr.Line > 0 {
		tomlErr.Line += offset
	}
	var yamlErr *YAMLError
	if errors.As(err, &yamlErr) && yamlErr.Line > 0 {
		yamlErr.Line += offset
	}
	return err
}
