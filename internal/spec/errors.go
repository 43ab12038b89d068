package spec

import (
	"errors"
	"fmt"
	"runtime"
)

// ClauseKind identifies the kind of registration clause involved in an
// error, so messages can name the exact construct the user wrote.
type ClauseKind int

const (
	ClauseScope ClauseKind = iota
	ClauseTest
	ClauseIgnore
)

// String makes ClauseKind satisfy the fmt.Stringer interface.
func (k ClauseKind) String() string {
	switch k {
	case ClauseScope:
		return "scope"
	case ClauseTest:
		return "test"
	case ClauseIgnore:
		return "ignore"
	default:
		return "unknown"
	}
}

// Signals classified by the runner into outcomes. They are never returned
// from Run; a body returning (or wrapping) one of these produces a Pending
// or Canceled outcome for that single test.
var (
	ErrPending  = errors.New("test is pending")
	ErrCanceled = errors.New("test was canceled")
)

// AssertionError is the error produced by a failed assertion inside a test
// body. Inside a scope clause the same error is illegal and is re-signaled
// as a NotAllowedError during construction.
type AssertionError struct {
	Msg      string
	Location string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return e.Msg
}

// Fail builds an AssertionError carrying the caller's file and line as its
// correlation token.
func Fail(format string, args ...interface{}) *AssertionError {
	return &AssertionError{
		Msg:      fmt.Sprintf(format, args...),
		Location: callerLocation(2),
	}
}

// DuplicateNameError is returned when a computed full test name collides
// with one already registered in the same suite, ignored or not.
type DuplicateNameError struct {
	Name string
}

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate test name: %q", e.Name)
}

// RegistrationClosedError is returned when a registration call happens
// after the suite has entered the run phase. InsideTest distinguishes a
// clause nested inside an executing test body from a plain late call.
type RegistrationClosedError struct {
	Kind       ClauseKind
	InsideTest bool
}

// Error implements the error interface.
func (e *RegistrationClosedError) Error() string {
	if e.InsideTest {
		switch e.Kind {
		case ClauseTest:
			return "Test cannot be nested inside another test."
		case ClauseIgnore:
			return "An ignored test cannot be nested inside another test."
		default:
			return "A scope clause cannot be nested inside a test clause."
		}
	}
	clause := fmt.Sprintf("a %s", e.Kind)
	if e.Kind == ClauseIgnore {
		clause = "an ignored-test"
	}
	return clause + " clause cannot be registered once the suite has started running"
}

// NotAllowedError is the construction-time wrapper around errors raised
// while a scope body was being evaluated. The original error is preserved
// as the cause; Location points at where the error surfaced.
type NotAllowedError struct {
	Msg      string
	Cause    error
	Location string
}

// Error implements the error interface.
func (e *NotAllowedError) Error() string {
	return e.Msg
}

// Unwrap exposes the original error for errors.Is / errors.As.
func (e *NotAllowedError) Unwrap() error {
	return e.Cause
}

// FatalError marks an error that must never be wrapped or classified as a
// test outcome. It aborts registration or the whole run.
type FatalError struct {
	Cause error
}

// Error implements the error interface.
func (e *FatalError) Error() string {
	return "fatal: " + e.Cause.Error()
}

// Unwrap exposes the underlying error.
func (e *FatalError) Unwrap() error {
	return e.Cause
}

// Fatal wraps err so the engine propagates it unmodified instead of turning
// it into a test failure.
func Fatal(err error) *FatalError {
	return &FatalError{Cause: err}
}

// IsFatal reports whether err carries the fatal marker anywhere in its chain.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

// callerLocation returns "file.go:line" for the caller skip frames up.
func callerLocation(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	// Trim to the base name; full paths are noise in test output.
	short := file
	for i := len(file) - 1; i >= 0; i-- {
		if file[i] == '/' {
			short = file[i+1:]
			break
		}
	}
	return fmt.Sprintf("%s:%d", short, line)
}
