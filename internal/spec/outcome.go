package spec

import "errors"

// OutcomeKind classifies the result of executing one test body.
type OutcomeKind int

const (
	// OutcomeSucceeded indicates the body returned without error.
	OutcomeSucceeded OutcomeKind = iota
	// OutcomeFailed indicates an assertion failure or any other non-fatal error.
	OutcomeFailed
	// OutcomePending indicates the body signaled it is not yet implemented.
	OutcomePending
	// OutcomeCanceled indicates the body signaled a precondition was unmet.
	OutcomeCanceled
	// OutcomeIgnored indicates the test was marked ignored; the body never ran.
	OutcomeIgnored
)

// String makes OutcomeKind satisfy the fmt.Stringer interface.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSucceeded:
		return "Succeeded"
	case OutcomeFailed:
		return "Failed"
	case OutcomePending:
		return "Pending"
	case OutcomeCanceled:
		return "Canceled"
	case OutcomeIgnored:
		return "Ignored"
	default:
		return "Unknown"
	}
}

// Outcome is the classified result of one test. Exactly one Outcome exists
// per executed test; Ignored is assigned without executing the body.
type Outcome struct {
	Kind  OutcomeKind
	Cause error
}

// Body is a test body. A nil return means success; ErrPending and
// ErrCanceled (possibly wrapped) signal those outcomes; an AssertionError
// or any other error means failure. Errors wrapped with Fatal abort the run.
type Body func() error

// classifyOutcome turns a body's returned error into an Outcome. Fatal
// errors must be checked by the caller before classification.
func classifyOutcome(err error) Outcome {
	switch {
	case err == nil:
		return Outcome{Kind: OutcomeSucceeded}
	case errors.Is(err, ErrPending):
		return Outcome{Kind: OutcomePending, Cause: err}
	case errors.Is(err, ErrCanceled):
		return Outcome{Kind: OutcomeCanceled, Cause: err}
	default:
		// Assertion failures and all remaining non-fatal errors fail the test.
		return Outcome{Kind: OutcomeFailed, Cause: err}
	}
}
