package spec

import (
	"errors"
	"fmt"
)

// tryRegister evaluates a scope body during construction and translates
// anything it throws into a construction-time error. Assertion-style
// errors get the dedicated message because they belong inside a test
// clause; every other non-fatal error is wrapped with the clause kind and
// the cause's type and message interpolated. Fatal errors pass through
// unwrapped. Run-phase bodies never go through here; their errors classify
// outcomes instead.
func (s *Suite) tryRegister(kindWord string, body func() error) error {
	if body == nil {
		return nil
	}

	err := invokeBody(body)
	if err == nil {
		return nil
	}
	if IsFatal(err) {
		return err
	}

	var ae *AssertionError
	if errors.As(err, &ae) {
		loc := ae.Location
		if loc == "" {
			loc = callerLocation(2)
		}
		return &NotAllowedError{
			Msg:      "an assertion must be placed inside a test clause, not a scope clause",
			Cause:    err,
			Location: loc,
		}
	}

	// An inner scope already translated its own error; keep the innermost
	// description instead of wrapping again.
	var nae *NotAllowedError
	if errors.As(err, &nae) {
		return err
	}

	return &NotAllowedError{
		Msg:      fmt.Sprintf("exception was thrown inside a %s clause: %T: %v", kindWord, err, err),
		Cause:    err,
		Location: callerLocation(2),
	}
}
