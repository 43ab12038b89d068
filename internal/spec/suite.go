package spec

import (
	"specrun/internal/reporting"
	"specrun/pkg/logging"
)

// Phase is the lifecycle phase of a suite: the tree is mutable while
// Registering and frozen once Closed. The transition happens exactly once,
// at the start of the first run, and never reverses.
type Phase int

const (
	PhaseRegistering Phase = iota
	PhaseClosed
)

// String makes Phase satisfy the fmt.Stringer interface.
func (p Phase) String() string {
	if p == PhaseClosed {
		return "Closed"
	}
	return "Registering"
}

// Suite owns one registration tree, its tag registry and its run records.
// All registration and execution happens on the calling goroutine; a Suite
// must not be shared across goroutines.
type Suite struct {
	name  string
	tree  *registrationTree
	tags  *TagRegistry
	phase Phase

	// scopeStack is the explicit chain of open scopes, innermost last.
	// There is no ambient registration context.
	scopeStack []int

	// runningTest is the node id of the test body currently executing,
	// or -1. notes buffers Info messages recorded during that body.
	runningTest int
	notes       []string

	// recorded holds the event stream of the first run for replay, and
	// store keeps the per-test outcome snapshots.
	recorded   []reporting.Event
	lastStatus *RunStatus
	store      reporting.RunRecordStore
}

// SuiteOption configures a Suite at construction.
type SuiteOption func(*Suite)

// WithAutoTags applies suite-wide tags to every registered test, merged at
// query time.
func WithAutoTags(tags ...string) SuiteOption {
	return func(s *Suite) {
		s.tags.SetAutoTags(tags...)
	}
}

// WithRecordStore uses an external record store instead of a private one.
func WithRecordStore(store reporting.RunRecordStore) SuiteOption {
	return func(s *Suite) {
		if store != nil {
			s.store = store
		}
	}
}

// NewSuite creates an empty suite in the Registering phase.
func NewSuite(name string, opts ...SuiteOption) *Suite {
	s := &Suite{
		name:        name,
		tree:        newRegistrationTree(),
		tags:        NewTagRegistry(),
		scopeStack:  []int{rootNode},
		runningTest: -1,
		store:       reporting.NewRunRecordStore(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the suite's display name.
func (s *Suite) Name() string {
	return s.name
}

// Phase returns the current lifecycle phase.
func (s *Suite) Phase() Phase {
	return s.phase
}

// Records returns the store of recorded per-test outcomes.
func (s *Suite) Records() reporting.RunRecordStore {
	return s.store
}

func (s *Suite) currentScope() int {
	return s.scopeStack[len(s.scopeStack)-1]
}

// checkRegistration validates that a clause of the given kind may be
// registered right now. After the phase transition every registration is
// rejected; the error distinguishes a clause nested inside an executing
// test body from a plain late call, so a body that attempts to register
// fails its enclosing test with a message naming the offending clause kind.
func (s *Suite) checkRegistration(kind ClauseKind) error {
	if s.phase == PhaseClosed {
		return &RegistrationClosedError{Kind: kind, InsideTest: s.runningTest >= 0}
	}
	return nil
}

// OpenScope registers a scope clause and evaluates body with the new scope
// current for nested registrations. The previous scope is restored on
// return, normal or not. Errors thrown by body are translated into
// construction-time NotAllowedErrors; fatal errors pass through.
func (s *Suite) OpenScope(text string, conn Connective, body func() error) error {
	if err := s.checkRegistration(ClauseScope); err != nil {
		return err
	}

	id := s.tree.addScope(s.currentScope(), text, conn)
	s.scopeStack = append(s.scopeStack, id)
	defer func() {
		s.scopeStack = s.scopeStack[:len(s.scopeStack)-1]
	}()

	return s.tryRegister(clauseWord(conn), body)
}

// RegisterTest registers a test clause under the current scope. The full
// name is computed from the scope chain; a duplicate anywhere in the suite
// is a DuplicateNameError and registers nothing.
func (s *Suite) RegisterTest(text string, conn Connective, body Body, tags ...string) error {
	if err := s.checkRegistration(ClauseTest); err != nil {
		return err
	}

	_, fullName, err := s.tree.addTest(s.currentScope(), text, conn, body, false)
	if err != nil {
		return err
	}
	s.tags.Record(fullName, tags, false)
	return nil
}

// RegisterIgnoredTest registers a test that is reported as ignored and
// whose body only runs when the test is requested by exact name.
func (s *Suite) RegisterIgnoredTest(text string, conn Connective, body Body, tags ...string) error {
	if err := s.checkRegistration(ClauseIgnore); err != nil {
		return err
	}

	_, fullName, err := s.tree.addTest(s.currentScope(), text, conn, body, true)
	if err != nil {
		return err
	}
	s.tags.Record(fullName, tags, true)
	return nil
}

// Describe opens a plain scope with no connective.
func (s *Suite) Describe(text string, body func() error) error {
	return s.OpenScope(text, ConnNone, body)
}

// When opens a scope rendered with the "when" connective.
func (s *Suite) When(text string, body func() error) error {
	return s.OpenScope(text, ConnWhen, body)
}

// It registers a test with no connective.
func (s *Suite) It(text string, body Body, tags ...string) error {
	return s.RegisterTest(text, ConnNone, body, tags...)
}

// Should registers a test rendered with the "should" connective.
func (s *Suite) Should(text string, body Body, tags ...string) error {
	return s.RegisterTest(text, ConnShould, body, tags...)
}

// Info records an informational message. During a test body the message is
// buffered and flushed attached to that test's terminal event; outside a
// body it goes straight to the log.
func (s *Suite) Info(msg string) {
	if s.runningTest >= 0 {
		s.notes = append(s.notes, msg)
		return
	}
	logging.Info("suite-"+s.name, "%s", msg)
}

// TestNames returns all full test names in registration order.
func (s *Suite) TestNames() []string {
	return s.tree.testNames()
}

// Tags returns the effective tag set per test name as sorted slices,
// omitting tests with no tags.
func (s *Suite) Tags() map[string][]string {
	out := make(map[string][]string)
	for name, set := range s.tags.All() {
		out[name] = set.Sorted()
	}
	return out
}

// ExpectedTestCount returns the number of non-ignored tests whose effective
// tags satisfy the filter.
func (s *Suite) ExpectedTestCount(filter TagFilter) int {
	count := 0
	for _, name := range s.tree.testNames() {
		id, _ := s.tree.testID(name)
		if s.tree.nodes[id].ignored {
			continue
		}
		if filter.Includes(s.tags.EffectiveTags(name)) {
			count++
		}
	}
	return count
}

// clauseWord names a scope clause in error messages: the connective word
// when the scope has one, otherwise "scope".
func clauseWord(conn Connective) string {
	if w := conn.Word(); w != "" {
		return w
	}
	return "scope"
}
