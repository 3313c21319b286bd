package changelog

import (
	"errors"
	"fmt"
	"strings"
)

// FileError attaches the fragment path to any failure reading, locating or
// decoding that file.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Failure is a single problem recorded by Verify.
type Failure struct {
	Path string
	Err  error
}

func (f Failure) String() string {
	var walkErr *WalkError
	if f.Path == "" || errors.As(f.Err, &walkErr) {
		return f.Err.Error()
	}
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

// VerificationError lists every failure found in one verification run, in
// discovery order.
type VerificationError struct {
	Failures []Failure
}

func (e *VerificationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d fragment problem(s) found", len(e.Failures))
	for _, f := range e.Failures {
		b.WriteString("\n  ")
		b.WriteString(f.String())
	}
	return b.String()
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *VerificationError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

