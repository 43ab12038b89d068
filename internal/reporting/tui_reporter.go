package reporting

import (
	tea "github.com/charmbracelet/bubbletea"

	"specrun/pkg/logging"
)

// EventMsg wraps a lifecycle event for delivery to the TUI.
type EventMsg struct {
	Event Event
}

// RunDoneMsg tells the TUI the run has finished.
type RunDoneMsg struct {
	Suite     string
	Succeeded bool
	Err       error
}

// TUIReporter is an EventSink that forwards lifecycle events into a
// buffered tea.Msg channel consumed by the TUI program.
type TUIReporter struct {
	buffer *BufferedChannel
}

// NewTUIReporter creates a reporter backed by the given buffered channel.
// A nil buffer gets a terminal-first one so no outcome is ever lost.
func NewTUIReporter(buffer *BufferedChannel) *TUIReporter {
	if buffer == nil {
		buffer = NewBufferedChannel(256, NewTerminalFirstStrategy(BufferActionDrop))
	}
	return &TUIReporter{buffer: buffer}
}

// Emit implements EventSink.
func (t *TUIReporter) Emit(event Event) {
	if !t.buffer.Send(EventMsg{Event: event}) {
		// Only terminal events matter enough to warn about.
		if IsTerminal(event.Type()) {
			logging.Warn("tui-reporter", "TUI channel full, dropped terminal event for %s", event.Source())
		}
	}
}

// Done signals run completion to the TUI.
func (t *TUIReporter) Done(suite string, succeeded bool, err error) {
	t.buffer.Send(RunDoneMsg{Suite: suite, Succeeded: succeeded, Err: err})
}

// Buffer returns the underlying buffered channel.
func (t *TUIReporter) Buffer() *BufferedChannel {
	return t.buffer
}

// Forward pumps messages from the buffer into a bubbletea program until the
// buffer's channel is closed. Run it on its own goroutine.
func (t *TUIReporter) Forward(p *tea.Program) {
	for msg := range t.buffer.Channel() {
		p.Send(msg)
	}
}
