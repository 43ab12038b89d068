package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EventType defines the type of lifecycle event
type EventType string

const (
	// Scope lifecycle events
	EventTypeScopeOpened EventType = "scope.opened"
	EventTypeScopeClosed EventType = "scope.closed"

	// Test lifecycle events
	EventTypeTestStarting  EventType = "test.starting"
	EventTypeTestSucceeded EventType = "test.succeeded"
	EventTypeTestFailed    EventType = "test.failed"
	EventTypeTestPending   EventType = "test.pending"
	EventTypeTestCanceled  EventType = "test.canceled"
	EventTypeTestIgnored   EventType = "test.ignored"
)

// EventSeverity indicates the importance/severity of an event
type EventSeverity string

const (
	SeverityTrace EventSeverity = "trace"
	SeverityDebug EventSeverity = "debug"
	SeverityInfo  EventSeverity = "info"
	SeverityWarn  EventSeverity = "warn"
	SeverityError EventSeverity = "error"
	SeverityFatal EventSeverity = "fatal"
)

// Event is the base interface for all lifecycle events emitted by a run
type Event interface {
	// Type returns the event type
	Type() EventType

	// Source returns the suite that generated this event
	Source() string

	// Timestamp returns when the event occurred
	Timestamp() time.Time

	// Severity returns the event severity
	Severity() EventSeverity

	// CorrelationID returns the correlation ID for tracing related events
	CorrelationID() string

	// Metadata returns additional event-specific data
	Metadata() map[string]interface{}

	// String returns a human-readable description of the event
	String() string
}

// GenerateCorrelationID returns an opaque token for correlating events.
func GenerateCorrelationID() string {
	return uuid.NewString()
}

// BaseEvent provides common event functionality
type BaseEvent struct {
	EventType     EventType              `json:"type"`
	SuiteName     string                 `json:"suite"`
	EventTime     time.Time              `json:"timestamp"`
	EventSeverity EventSeverity          `json:"severity"`
	CorrelationId string                 `json:"correlation_id"`
	Meta          map[string]interface{} `json:"metadata,omitempty"`
}

func newBaseEvent(eventType EventType, suite string, severity EventSeverity) BaseEvent {
	return BaseEvent{
		EventType:     eventType,
		SuiteName:     suite,
		EventTime:     time.Now(),
		EventSeverity: severity,
		CorrelationId: GenerateCorrelationID(),
	}
}

// Type implements Event interface
func (e BaseEvent) Type() EventType {
	return e.EventType
}

// Source implements Event interface
func (e BaseEvent) Source() string {
	return e.SuiteName
}

// Timestamp implements Event interface
func (e BaseEvent) Timestamp() time.Time {
	return e.EventTime
}

// Severity implements Event interface
func (e BaseEvent) Severity() EventSeverity {
	return e.EventSeverity
}

// CorrelationID implements Event interface
func (e BaseEvent) CorrelationID() string {
	return e.CorrelationId
}

// Metadata implements Event interface
func (e BaseEvent) Metadata() map[string]interface{} {
	if e.Meta == nil {
		return make(map[string]interface{})
	}
	return e.Meta
}

// String implements Event interface
func (e BaseEvent) String() string {
	return string(e.EventType) + " from " + e.SuiteName
}

// WithMetadata adds metadata to the event
func (e *BaseEvent) WithMetadata(key string, value interface{}) *BaseEvent {
	if e.Meta == nil {
		e.Meta = make(map[string]interface{})
	}
	e.Meta[key] = value
	return e
}

// ScopeEvent marks a named scope opening or closing around its tests
type ScopeEvent struct {
	BaseEvent
	// Text is the raw (unindented) scope text
	Text string `json:"text"`
	// Depth is the nesting level, zero for top-level scopes
	Depth int `json:"depth"`
}

// FormattedText returns the scope text indented by nesting depth.
func (e ScopeEvent) FormattedText() string {
	return strings.Repeat("  ", e.Depth) + e.Text
}

// String returns a human-readable description
func (e ScopeEvent) String() string {
	verb := "opened"
	if e.EventType == EventTypeScopeClosed {
		verb = "closed"
	}
	return fmt.Sprintf("scope %q %s (depth %d)", e.Text, verb, e.Depth)
}

// TestEvent carries the lifecycle of a single test. TestName is the full,
// suite-unique name; Text is the leaf clause text only.
type TestEvent struct {
	BaseEvent
	TestName string `json:"test_name"`
	Text     string `json:"text"`
	Depth    int    `json:"depth"`
	// Notes holds info messages recorded during the body, flushed with the
	// terminal event rather than interleaved live.
	Notes []string `json:"notes,omitempty"`
	// Cause is set for failures and cancellations
	Cause error `json:"-"`
	// Location is the file/line correlation token of the failure, if known
	Location string        `json:"location,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// FormattedText returns the leaf text indented by nesting depth.
func (e TestEvent) FormattedText() string {
	return strings.Repeat("  ", e.Depth) + "- " + e.Text
}

// String returns a human-readable description
func (e TestEvent) String() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.EventType, e.TestName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.EventType, e.TestName)
}

// NewScopeOpenedEvent creates a scope-opened event
func NewScopeOpenedEvent(suite, text string, depth int) *ScopeEvent {
	return &ScopeEvent{
		BaseEvent: newBaseEvent(EventTypeScopeOpened, suite, SeverityDebug),
		Text:      text,
		Depth:     depth,
	}
}

// NewScopeClosedEvent creates a scope-closed event
func NewScopeClosedEvent(suite, text string, depth int) *ScopeEvent {
	return &ScopeEvent{
		BaseEvent: newBaseEvent(EventTypeScopeClosed, suite, SeverityDebug),
		Text:      text,
		Depth:     depth,
	}
}

// NewTestStartingEvent creates a test-starting event
func NewTestStartingEvent(suite, testName, text string, depth int) *TestEvent {
	return &TestEvent{
		BaseEvent: newBaseEvent(EventTypeTestStarting, suite, SeverityDebug),
		TestName:  testName,
		Text:      text,
		Depth:     depth,
	}
}

// NewTestSucceededEvent creates the terminal event for a passing test
func NewTestSucceededEvent(suite, testName, text string, depth int, notes []string, duration time.Duration) *TestEvent {
	return &TestEvent{
		BaseEvent: newBaseEvent(EventTypeTestSucceeded, suite, SeverityInfo),
		TestName:  testName,
		Text:      text,
		Depth:     depth,
		Notes:     notes,
		Duration:  duration,
	}
}

// NewTestFailedEvent creates the terminal event for a failing test,
// carrying the originating cause and its file/line token
func NewTestFailedEvent(suite, testName, text string, depth int, notes []string, cause error, location string, duration time.Duration) *TestEvent {
	return &TestEvent{
		BaseEvent: newBaseEvent(EventTypeTestFailed, suite, SeverityError),
		TestName:  testName,
		Text:      text,
		Depth:     depth,
		Notes:     notes,
		Cause:     cause,
		Location:  location,
		Duration:  duration,
	}
}

// NewTestPendingEvent creates the terminal event for a pending test
func NewTestPendingEvent(suite, testName, text string, depth int, notes []string, duration time.Duration) *TestEvent {
	return &TestEvent{
		BaseEvent: newBaseEvent(EventTypeTestPending, suite, SeverityInfo),
		TestName:  testName,
		Text:      text,
		Depth:     depth,
		Notes:     notes,
		Duration:  duration,
	}
}

// NewTestCanceledEvent creates the terminal event for a canceled test
func NewTestCanceledEvent(suite, testName, text string, depth int, notes []string, cause error, duration time.Duration) *TestEvent {
	return &TestEvent{
		BaseEvent: newBaseEvent(EventTypeTestCanceled, suite, SeverityWarn),
		TestName:  testName,
		Text:      text,
		Depth:     depth,
		Notes:     notes,
		Cause:     cause,
		Duration:  duration,
	}
}

// NewTestIgnoredEvent creates the event for a test skipped as ignored
func NewTestIgnoredEvent(suite, testName, text string, depth int) *TestEvent {
	return &TestEvent{
		BaseEvent: newBaseEvent(EventTypeTestIgnored, suite, SeverityInfo),
		TestName:  testName,
		Text:      text,
		Depth:     depth,
	}
}

// IsTerminal reports whether t ends a test's lifecycle.
func IsTerminal(t EventType) bool {
	switch t {
	case EventTypeTestSucceeded, EventTypeTestFailed, EventTypeTestPending, EventTypeTestCanceled, EventTypeTestIgnored:
		return true
	default:
		return false
	}
}
