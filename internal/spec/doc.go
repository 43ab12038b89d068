// Package spec implements the registration and execution engine behind
// behavioral test specifications.
//
// A suite is built during construction by nested registration calls and
// executed through Run, which emits ordered lifecycle events to a
// reporting sink.
//
// # Registration Tree
//
// Scopes and tests live in an arena-backed ordered forest (tree.go).
// Insertion order is the canonical execution and report order, and
// duplicate full names are rejected eagerly at registration time.
//
// # Name Building
//
// CombineName (names.go) joins nested scope texts and a leaf text into one
// canonical full name. Connective kinds are parameterized, and a
// connective word is suppressed when the adjacent segment already carries
// it, so names never read "should should".
//
// # Suite Lifecycle
//
// A suite has two phases: Registering, while the tree is mutable, and
// Closed, once execution starts (suite.go, runner.go). The transition
// fires exactly once, at the first Run, and never reverses. A second Run
// replays the recorded event stream without re-invoking any body.
//
// # Outcome Classification
//
// Every executed test gets exactly one outcome: Succeeded, Failed,
// Pending, Canceled, or Ignored (outcome.go). Pending and cancel signals
// and assertion failures never escape Run; errors wrapped with Fatal
// always do.
//
// # Construction-Time Translation
//
// Errors raised while a scope body is evaluated are re-signaled as
// NotAllowedError naming the offending clause, with the cause attached
// (translate.go).
//
// # Usage Example
//
//	s := spec.NewSuite("stack")
//	s.Describe("A Stack", func() error {
//		return s.When("empty", func() error {
//			return s.Should("be empty", func() error { return nil })
//		})
//	})
//	status, err := s.Run(spec.RunOptions{Sink: sink})
//
// Suites registered with the package registry are driven by the `specrun
// run` and `specrun list` commands; Registry.RunAll additionally runs
// independent suites concurrently while each suite stays strictly
// sequential.
package spec
