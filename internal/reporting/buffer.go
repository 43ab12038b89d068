package reporting

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// BufferAction defines what to do when a buffer is full
type BufferAction int

const (
	BufferActionDrop BufferAction = iota
	BufferActionBlock
	BufferActionEvictOldest
)

// String makes BufferAction satisfy the fmt.Stringer interface
func (ba BufferAction) String() string {
	switch ba {
	case BufferActionDrop:
		return "Drop"
	case BufferActionBlock:
		return "Block"
	case BufferActionEvictOldest:
		return "EvictOldest"
	default:
		return "Unknown"
	}
}

// BufferStrategy defines how to handle buffer overflow situations
type BufferStrategy interface {
	OnBufferFull(msg tea.Msg) BufferAction
}

// SimpleBufferStrategy applies one action to every overflowing message
type SimpleBufferStrategy struct {
	Action BufferAction
}

// NewSimpleBufferStrategy creates a buffer strategy with a single action for all messages
func NewSimpleBufferStrategy(action BufferAction) *SimpleBufferStrategy {
	return &SimpleBufferStrategy{Action: action}
}

// OnBufferFull returns the configured action for all messages
func (s *SimpleBufferStrategy) OnBufferFull(msg tea.Msg) BufferAction {
	return s.Action
}

// TerminalFirstStrategy keeps terminal test events at all cost and treats
// everything else with the default action. Dropping a TestStarting or a
// scope marker only degrades the display; dropping a terminal result loses
// an outcome.
type TerminalFirstStrategy struct {
	DefaultAction BufferAction
}

// NewTerminalFirstStrategy creates the strategy with the given default
func NewTerminalFirstStrategy(defaultAction BufferAction) *TerminalFirstStrategy {
	return &TerminalFirstStrategy{DefaultAction: defaultAction}
}

// OnBufferFull blocks for terminal events, otherwise uses the default action
func (p *TerminalFirstStrategy) OnBufferFull(msg tea.Msg) BufferAction {
	if em, ok := msg.(EventMsg); ok && IsTerminal(em.Event.Type()) {
		return BufferActionBlock
	}
	return p.DefaultAction
}

// ChannelMetrics tracks channel performance metrics
type ChannelMetrics struct {
	MessagesDropped  int64
	MessagesBlocked  int64
	MessagesEvicted  int64
	MessagesSent     int64
	LastDropTime     time.Time
	LastBlockTime    time.Time
	LastEvictionTime time.Time
	mu               sync.RWMutex
}

// ChannelStats is a snapshot of channel metrics without the mutex
type ChannelStats struct {
	MessagesDropped  int64
	MessagesBlocked  int64
	MessagesEvicted  int64
	MessagesSent     int64
	LastDropTime     time.Time
	LastBlockTime    time.Time
	LastEvictionTime time.Time
}

// NewChannelMetrics creates a new metrics tracker
func NewChannelMetrics() *ChannelMetrics {
	return &ChannelMetrics{}
}

// IncrementDropped increments the dropped message counter
func (m *ChannelMetrics) IncrementDropped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MessagesDropped++
	m.LastDropTime = time.Now()
}

// IncrementBlocked increments the blocked message counter
func (m *ChannelMetrics) IncrementBlocked() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MessagesBlocked++
	m.LastBlockTime = time.Now()
}

// IncrementEvicted increments the evicted message counter
func (m *ChannelMetrics) IncrementEvicted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MessagesEvicted++
	m.LastEvictionTime = time.Now()
}

// IncrementSent increments the sent message counter
func (m *ChannelMetrics) IncrementSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MessagesSent++
}

// GetStats returns a copy of the current metrics without the mutex
func (m *ChannelMetrics) GetStats() ChannelStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return ChannelStats{
		MessagesDropped:  m.MessagesDropped,
		MessagesBlocked:  m.MessagesBlocked,
		MessagesEvicted:  m.MessagesEvicted,
		MessagesSent:     m.MessagesSent,
		LastDropTime:     m.LastDropTime,
		LastBlockTime:    m.LastBlockTime,
		LastEvictionTime: m.LastEvictionTime,
	}
}

// BufferedChannel wraps a channel with configurable buffer overflow behavior
type BufferedChannel struct {
	ch       chan tea.Msg
	strategy BufferStrategy
	metrics  *ChannelMetrics
	mu       sync.RWMutex
}

// NewBufferedChannel creates a new buffered channel with the given strategy
func NewBufferedChannel(size int, strategy BufferStrategy) *BufferedChannel {
	return &BufferedChannel{
		ch:       make(chan tea.Msg, size),
		strategy: strategy,
		metrics:  NewChannelMetrics(),
	}
}

// Send attempts to send a message using the configured buffer strategy
func (bc *BufferedChannel) Send(msg tea.Msg) bool {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	select {
	case bc.ch <- msg:
		bc.metrics.IncrementSent()
		return true
	default:
		action := bc.strategy.OnBufferFull(msg)
		switch action {
		case BufferActionBlock:
			bc.metrics.IncrementBlocked()
			bc.ch <- msg
			bc.metrics.IncrementSent()
			return true
		case BufferActionEvictOldest:
			select {
			case <-bc.ch:
				bc.metrics.IncrementEvicted()
			default:
				// Raced with the reader; there is room now.
			}
			bc.ch <- msg
			bc.metrics.IncrementSent()
			return true
		default:
			bc.metrics.IncrementDropped()
			return false
		}
	}
}

// Receive receives a message from the channel
func (bc *BufferedChannel) Receive() tea.Msg {
	return <-bc.ch
}

// TryReceive attempts to receive a message without blocking
func (bc *BufferedChannel) TryReceive() (tea.Msg, bool) {
	select {
	case msg := <-bc.ch:
		return msg, true
	default:
		return nil, false
	}
}

// GetMetrics returns the current channel metrics
func (bc *BufferedChannel) GetMetrics() ChannelStats {
	return bc.metrics.GetStats()
}

// Close closes the underlying channel
func (bc *BufferedChannel) Close() {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	close(bc.ch)
}

// Channel returns the underlying channel for compatibility
func (bc *BufferedChannel) Channel() <-chan tea.Msg {
	return bc.ch
}
