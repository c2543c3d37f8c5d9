package binder

import (
	"fmt"
	"strings"
)

// Failure records a member that could not be bound. The member
// is emitted commented out instead.
type Failure struct {
	// Type is the name of the wrapped type.
	Type string
	// Member is the method or operator name.
	Member string
	Reason string
	// Err is the underlying conversion error.
	Err error
	// Unbound lists type names in the member's signature which
	// are not configured. Only set for auto-methods.
	Unbound []string
}

func (f Failure) Error() string {
	return fmt.Sprintf("%v.%v: %v", f.Type, f.Member, f.Reason)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// FailureError collects all failures of a run.
type FailureError struct {
	Failures []Failure
}

// NewFailureError returns nil if there are no failures.
// Underlying type is always [*FailureError].
func NewFailureError(failures []Failure) error {
	if len(failures) == 0 {
		return nil
	}
	return &FailureError{Failures: failures}
}

// Error returns a short error message.
func (e *FailureError) Error() string {
	if len(e.Failures) == 0 {
		return "success"
	}
	return fmt.Sprintf("%v unsupported members, first: %v", len(e.Failures), e.Failures[0].Error())
}

// String returns a full multi-line error message containing
// all failures.
func (e *FailureError) String() string {
	var b strings.Builder
	for _, f := range e.Failures {
		b.WriteString(f.Error())
		b.WriteByte('\n')
	}
	return b.String()
}
