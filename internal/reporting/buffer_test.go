package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedChannel_SendAndReceive(t *testing.T) {
	bc := NewBufferedChannel(2, NewSimpleBufferStrategy(BufferActionDrop))
	defer bc.Close()

	assert.True(t, bc.Send("one"))
	assert.True(t, bc.Send("two"))

	assert.Equal(t, "one", bc.Receive())
	msg, ok := bc.TryReceive()
	assert.True(t, ok)
	assert.Equal(t, "two", msg)

	_, ok = bc.TryReceive()
	assert.False(t, ok)
}

func TestBufferedChannel_DropWhenFull(t *testing.T) {
	bc := NewBufferedChannel(1, NewSimpleBufferStrategy(BufferActionDrop))
	defer bc.Close()

	assert.True(t, bc.Send("kept"))
	assert.False(t, bc.Send("dropped"))

	stats := bc.GetMetrics()
	assert.Equal(t, int64(1), stats.MessagesSent)
	assert.Equal(t, int64(1), stats.MessagesDropped)
	assert.False(t, stats.LastDropTime.IsZero())

	assert.Equal(t, "kept", bc.Receive())
}

func TestBufferedChannel_EvictOldestWhenFull(t *testing.T) {
	bc := NewBufferedChannel(1, NewSimpleBufferStrategy(BufferActionEvictOldest))
	defer bc.Close()

	assert.True(t, bc.Send("old"))
	assert.True(t, bc.Send("new"))

	stats := bc.GetMetrics()
	assert.Equal(t, int64(2), stats.MessagesSent)
	assert.Equal(t, int64(1), stats.MessagesEvicted)

	assert.Equal(t, "new", bc.Receive())
}

func TestTerminalFirstStrategy(t *testing.T) {
	strategy := NewTerminalFirstStrategy(BufferActionDrop)

	terminal := EventMsg{Event: NewTestFailedEvent("s", "n", "t", 0, nil, nil, "", 0)}
	assert.Equal(t, BufferActionBlock, strategy.OnBufferFull(terminal))

	starting := EventMsg{Event: NewTestStartingEvent("s", "n", "t", 0)}
	assert.Equal(t, BufferActionDrop, strategy.OnBufferFull(starting))

	assert.Equal(t, BufferActionDrop, strategy.OnBufferFull("not an event"))
}

func TestBufferActionStringer(t *testing.T) {
	assert.Equal(t, "Drop", BufferActionDrop.String())
	assert.Equal(t, "Block", BufferActionBlock.String())
	assert.Equal(t, "EvictOldest", BufferActionEvictOldest.String())
}

func TestTUIReporterDeliversEventsInOrder(t *testing.T) {
	reporter := NewTUIReporter(NewBufferedChannel(8, NewTerminalFirstStrategy(BufferActionDrop)))

	reporter.Emit(NewTestStartingEvent("s", "n", "t", 0))
	reporter.Emit(NewTestSucceededEvent("s", "n", "t", 0, nil, 0))
	reporter.Done("s", true, nil)

	msg := reporter.Buffer().Receive()
	em, ok := msg.(EventMsg)
	require.True(t, ok)
	assert.Equal(t, EventTypeTestStarting, em.Event.Type())

	msg = reporter.Buffer().Receive()
	em, ok = msg.(EventMsg)
	require.True(t, ok)
	assert.Equal(t, EventTypeTestSucceeded, em.Event.Type())

	msg = reporter.Buffer().Receive()
	done, ok := msg.(RunDoneMsg)
	require.True(t, ok)
	assert.True(t, done.Succeeded)
	assert.NoError(t, done.Err)
	reporter.Buffer().Close()
}
