package spec

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"specrun/internal/reporting"
)

// RunOptions selects what a run executes and where events go.
type RunOptions struct {
	// Name requests exactly one test by full name. Requesting an ignored
	// test by name runs its body anyway.
	Name string
	// Pattern restricts a full run to tests whose full names match the
	// glob pattern. Ignored when Name is set.
	Pattern string
	// Filter is the tag inclusion/exclusion predicate.
	Filter TagFilter
	// Sink receives lifecycle events; nil discards them.
	Sink reporting.EventSink
}

// RunStatus summarizes one run.
type RunStatus struct {
	SuiteName     string        `json:"suite"`
	StartTime     time.Time     `json:"start_time"`
	EndTime       time.Time     `json:"end_time"`
	Duration      time.Duration `json:"duration"`
	ExpectedCount int           `json:"expected_count"`
	Started       int           `json:"started"`
	Succeeded     int           `json:"succeeded"`
	Failed        int           `json:"failed"`
	Pending       int           `json:"pending"`
	Canceled      int           `json:"canceled"`
	Ignored       int           `json:"ignored"`
}

// OK reports whether the run had no failures.
func (st *RunStatus) OK() bool {
	return st.Failed == 0
}

// recordingSink keeps the full ordered event stream for replay while
// forwarding to the caller's sink and the suite's record store.
type recordingSink struct {
	inner  reporting.EventSink
	store  *reporting.StoreSink
	events []reporting.Event
}

func (r *recordingSink) Emit(e reporting.Event) {
	r.events = append(r.events, e)
	r.store.Emit(e)
	if r.inner != nil {
		r.inner.Emit(e)
	}
}

// Run executes the suite. The first call freezes the tree (the one-way
// phase transition) and walks it depth-first in registration order,
// emitting lifecycle events and classifying each body's result. Subsequent
// calls re-emit the recorded event stream of the first run without
// re-invoking any body, per the register-once / report-many policy.
// A fatal error aborts the walk and is returned; every other error is
// contained in its test's outcome.
func (s *Suite) Run(opts RunOptions) (*RunStatus, error) {
	if s.phase == PhaseClosed {
		if opts.Sink != nil {
			for _, e := range s.recorded {
				opts.Sink.Emit(e)
			}
		}
		return s.lastStatus, nil
	}

	var requested int
	if opts.Name != "" {
		id, ok := s.tree.testID(opts.Name)
		if !ok {
			// Lookup failures do not consume the suite's single run.
			return nil, fmt.Errorf("no test named %q in suite %q", opts.Name, s.name)
		}
		requested = id
	}

	s.phase = PhaseClosed
	sink := &recordingSink{
		inner: opts.Sink,
		store: reporting.NewStoreSink(s.store),
	}

	status := &RunStatus{
		SuiteName: s.name,
		StartTime: time.Now(),
	}
	if opts.Name != "" {
		status.ExpectedCount = 1
	} else {
		status.ExpectedCount = s.expectedCount(opts)
	}

	var runErr error
	if opts.Name != "" {
		runErr = s.runTest(sink, requested, status, true)
	} else {
		runErr = s.runScope(sink, rootNode, opts, status)
	}

	status.EndTime = time.Now()
	status.Duration = status.EndTime.Sub(status.StartTime)
	s.recorded = sink.events
	s.lastStatus = status

	if runErr != nil {
		return status, runErr
	}
	return status, nil
}

// expectedCount counts the non-ignored tests the walk can reach under the
// run's tag filter and name pattern.
func (s *Suite) expectedCount(opts RunOptions) int {
	count := 0
	for _, name := range s.tree.testNames() {
		id, _ := s.tree.testID(name)
		if s.tree.nodes[id].ignored {
			continue
		}
		if s.eligible(id, opts) {
			count++
		}
	}
	return count
}

// eligible reports whether the test node passes the tag filter and name
// pattern. Ignored tests stay eligible; they surface as TestIgnored.
func (s *Suite) eligible(id int, opts RunOptions) bool {
	n := s.tree.nodes[id]
	if !opts.Filter.Includes(s.tags.EffectiveTags(n.fullName)) {
		return false
	}
	return MatchName(opts.Pattern, n.fullName)
}

// scopeHasWork reports whether any descendant test of the scope is eligible.
func (s *Suite) scopeHasWork(id int, opts RunOptions) bool {
	for _, child := range s.tree.nodes[id].children {
		switch s.tree.nodes[child].kind {
		case nodeTest:
			if s.eligible(child, opts) {
				return true
			}
		case nodeScope:
			if s.scopeHasWork(child, opts) {
				return true
			}
		}
	}
	return false
}

// runScope walks one scope's children in insertion order. Scopes with
// nothing to run are skipped entirely, without open/close events. A fatal
// error aborts immediately; no close event is emitted for the torn scope.
func (s *Suite) runScope(sink reporting.EventSink, id int, opts RunOptions, status *RunStatus) error {
	for _, child := range s.tree.nodes[id].children {
		n := s.tree.nodes[child]
		switch n.kind {
		case nodeTest:
			if !s.eligible(child, opts) {
				continue
			}
			if err := s.runTest(sink, child, status, false); err != nil {
				return err
			}
		case nodeScope:
			if !s.scopeHasWork(child, opts) {
				continue
			}
			depth := s.tree.depth(child)
			sink.Emit(reporting.NewScopeOpenedEvent(s.name, n.display, depth))
			if err := s.runScope(sink, child, opts, status); err != nil {
				return err
			}
			sink.Emit(reporting.NewScopeClosedEvent(s.name, n.display, depth))
		}
	}
	return nil
}

// runTest executes one leaf. byName marks an explicit single-test request,
// which overrides the ignored flag.
func (s *Suite) runTest(sink reporting.EventSink, id int, status *RunStatus, byName bool) error {
	n := s.tree.nodes[id]
	depth := s.tree.depth(id)

	if n.ignored && !byName {
		sink.Emit(reporting.NewTestIgnoredEvent(s.name, n.fullName, n.display, depth))
		status.Ignored++
		return nil
	}

	sink.Emit(reporting.NewTestStartingEvent(s.name, n.fullName, n.display, depth))
	status.Started++

	start := time.Now()
	s.runningTest = id
	s.notes = nil
	err := invokeBody(n.body)
	notes := s.notes
	s.notes = nil
	s.runningTest = -1
	duration := time.Since(start)

	if err != nil && IsFatal(err) {
		// Aborts the whole run; no terminal event for this test.
		return err
	}

	outcome := classifyOutcome(err)
	switch outcome.Kind {
	case OutcomeSucceeded:
		sink.Emit(reporting.NewTestSucceededEvent(s.name, n.fullName, n.display, depth, notes, duration))
		status.Succeeded++
	case OutcomePending:
		sink.Emit(reporting.NewTestPendingEvent(s.name, n.fullName, n.display, depth, notes, duration))
		status.Pending++
	case OutcomeCanceled:
		sink.Emit(reporting.NewTestCanceledEvent(s.name, n.fullName, n.display, depth, notes, outcome.Cause, duration))
		status.Canceled++
	default:
		sink.Emit(reporting.NewTestFailedEvent(s.name, n.fullName, n.display, depth, notes, outcome.Cause, failureLocation(outcome.Cause), duration))
		status.Failed++
	}
	return nil
}

// invokeBody calls the body at most once, converting non-fatal panics into
// errors. Runtime-level panics are re-raised untouched.
func invokeBody(body Body) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if re, ok := r.(runtime.Error); ok {
			panic(re)
		}
		if e, ok := r.(error); ok {
			err = e
			return
		}
		err = fmt.Errorf("test body panicked: %v", r)
	}()

	if body == nil {
		return nil
	}
	return body()
}

// failureLocation extracts the file/line token from a failure cause chain.
func failureLocation(err error) string {
	var ae *AssertionError
	if errors.As(err, &ae) {
		return ae.Location
	}
	var nae *NotAllowedError
	if errors.As(err, &nae) {
		return nae.Location
	}
	return ""
}
