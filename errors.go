package proptest

import (
	"errors"
	"fmt"
)

// Exit classification: a completed run whose tally has failed or errored
// cases surfaces as a TestFailureError (exit code 1), while anything that
// prevents a run from completing at all surfaces as a RuntimeError
// (exit code 2).

// TestFailureError reports a run that finished with a dirty tally.
type TestFailureError struct {
	Message string
}

func NewTestFailureError(message string) *TestFailureError {
	return &TestFailureError{Message: message}
}

func (e *TestFailureError) Error() string {
	return fmt.Sprintf("test failure: %s", e.Message)
}

// IsTestFailureError reports whether err is or wraps a TestFailureError.
func IsTestFailureError(err error) bool {
	var failure *TestFailureError
	return errors.As(err, &failure)
}

// RuntimeError reports an operational fault, such as an invalid flag or an
// unwritable artifact directory, that stopped a run before it produced a
// verdict.
type RuntimeError struct {
	Err error
}

func NewRuntimeError(err error) *RuntimeError {
	return &RuntimeError{Err: err}
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error: %v", e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsRuntimeError reports whether err is or wraps a RuntimeError.
func IsRuntimeError(err error) bool {
	var fault *RuntimeError
	return errors.As(err, &fault)
}
