package changelog

import (
	"errors"
	"iter"

	"github.com/ariel-frischer/fraglog/internal/fragment"
)

// Checker validates a decoded fragment beyond its syntax. It returns every
// problem it finds.
type Checker interface {
	Check(f fragment.Fragment) []error
}

// Verify consumes the whole sequence and records every problem: decode
// errors, walk errors, and whatever the checkers report for fragments that
// decoded. It returns nil when nothing failed and a *VerificationError
// otherwise.
func Verify(entries iter.Seq2[Entry, error], checks ...Checker) error {
	var failures []Failure
	for e, err := range entries {
		if err != nil {
			failures = append(failures, failureOf(err))
			continue
		}
		for _, c := range checks {
			if c == nil {
				continue
			}
			for _, cerr := range c.Check(e.Fragment) {
				failures = append(failures, Failure{Path: e.Path, Err: cerr})
			}
		}
	}

	if len(failures) == 0 {
		return nil
	}
	return &VerificationError{Failures: failures}
}

func failureOf(err error) Failure {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return Failure{Path: fileErr.Path, Err: fileErr.Err}
	}
	var walkErr *WalkError
	if errors.As(err, &walkErr) {
		return Failure{Path: walkErr.Path, Err: walkErr}
	}
	return Failure{Err: err}
}
