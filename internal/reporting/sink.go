package reporting

// EventSink consumes lifecycle events emitted by a run.
type EventSink interface {
	Emit(event Event)
}

// SinkFunc adapts a plain function to the EventSink interface.
type SinkFunc func(Event)

// Emit implements EventSink.
func (f SinkFunc) Emit(event Event) {
	f(event)
}

// MultiSink fans every event out to all wrapped sinks in order.
type MultiSink []EventSink

// Emit implements EventSink.
func (m MultiSink) Emit(event Event) {
	for _, s := range m {
		s.Emit(event)
	}
}

// CollectorSink buffers every emitted event, preserving order. Intended for
// tests and for building reports after a run.
type CollectorSink struct {
	Events []Event
}

// Emit implements EventSink.
func (c *CollectorSink) Emit(event Event) {
	c.Events = append(c.Events, event)
}

// ByType returns the collected events of the given type, in emission order.
func (c *CollectorSink) ByType(t EventType) []Event {
	var out []Event
	for _, e := range c.Events {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}
