package reporting

import (
	"sync"
	"time"
)

// ResultKind is the recorded terminal result of one test.
type ResultKind string

const (
	// ResultSucceeded indicates the test passed
	ResultSucceeded ResultKind = "SUCCEEDED"
	// ResultFailed indicates the test failed
	ResultFailed ResultKind = "FAILED"
	// ResultPending indicates the test signaled it is pending
	ResultPending ResultKind = "PENDING"
	// ResultCanceled indicates the test canceled itself
	ResultCanceled ResultKind = "CANCELED"
	// ResultIgnored indicates the test was skipped as ignored
	ResultIgnored ResultKind = "IGNORED"
)

// TestRecord is a snapshot of one test's recorded outcome.
type TestRecord struct {
	Name          string
	Suite         string
	Result        ResultKind
	Cause         error
	Location      string
	Notes         []string
	Depth         int
	Text          string
	Duration      time.Duration
	LastUpdated   time.Time
	CorrelationID string
}

// RecordChange is delivered to subscribers when a test's record changes.
type RecordChange struct {
	Name      string
	OldResult ResultKind
	NewResult ResultKind
	Record    TestRecord
}

// RecordSubscription represents a subscription to record changes.
type RecordSubscription struct {
	ID      string
	Name    string // test name to watch, empty for all tests
	Channel chan RecordChange
	Closed  bool
	mu      sync.RWMutex
}

// Close closes the subscription channel
func (s *RecordSubscription) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.Closed {
		close(s.Channel)
		s.Closed = true
	}
}

// IsClosed returns whether the subscription is closed
func (s *RecordSubscription) IsClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Closed
}

// RecordStoreMetrics tracks store usage.
type RecordStoreMetrics struct {
	TotalUpdates        int64
	ActiveSubscriptions int
	RecordCount         int
	LastUpdateTime      time.Time
}

// RunRecordStore is the centralized store of per-test outcomes for one or
// more runs. It backs the report-many policy: a closed suite re-reports
// from here instead of re-invoking bodies.
type RunRecordStore interface {
	// Get returns the recorded outcome of a test
	Get(name string) (TestRecord, bool)

	// Set stores the record, returning true if the result changed
	Set(record TestRecord) bool

	// All returns every record keyed by test name
	All() map[string]TestRecord

	// Names returns recorded test names in first-insertion order
	Names() []string

	// ByResult returns all records with the given result
	ByResult(result ResultKind) map[string]TestRecord

	// Subscribe creates a subscription for one test or, with an empty
	// name, for all record changes
	Subscribe(name string) *RecordSubscription

	// Unsubscribe removes a subscription
	Unsubscribe(subscription *RecordSubscription)

	// Clear removes one record, returning true if it existed
	Clear(name string) bool

	// ClearAll removes every record
	ClearAll()

	// GetMetrics returns store metrics
	GetMetrics() RecordStoreMetrics
}

const recordChangeBuffer = 64

type recordStore struct {
	records map[string]TestRecord
	order   []string
	subs    map[string]*RecordSubscription
	metrics RecordStoreMetrics
	mu      sync.RWMutex
}

// NewRunRecordStore creates an empty record store.
func NewRunRecordStore() RunRecordStore {
	return &recordStore{
		records: make(map[string]TestRecord),
		subs:    make(map[string]*RecordSubscription),
	}
}

func (rs *recordStore) Get(name string) (TestRecord, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	rec, ok := rs.records[name]
	return rec, ok
}

func (rs *recordStore) Set(record TestRecord) bool {
	rs.mu.Lock()

	old, existed := rs.records[record.Name]
	if !existed {
		rs.order = append(rs.order, record.Name)
	}
	if record.LastUpdated.IsZero() {
		record.LastUpdated = time.Now()
	}
	rs.records[record.Name] = record

	rs.metrics.TotalUpdates++
	rs.metrics.RecordCount = len(rs.records)
	rs.metrics.LastUpdateTime = record.LastUpdated

	changed := !existed || old.Result != record.Result

	// Snapshot subscribers so delivery happens outside the lock.
	var targets []*RecordSubscription
	if changed {
		for _, sub := range rs.subs {
			if sub.Name == "" || sub.Name == record.Name {
				targets = append(targets, sub)
			}
		}
	}
	rs.mu.Unlock()

	if changed {
		change := RecordChange{
			Name:      record.Name,
			OldResult: old.Result,
			NewResult: record.Result,
			Record:    record,
		}
		for _, sub := range targets {
			if sub.IsClosed() {
				continue
			}
			select {
			case sub.Channel <- change:
			default:
				// Subscriber is not keeping up; drop rather than stall the run.
			}
		}
	}

	return changed
}

func (rs *recordStore) All() map[string]TestRecord {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	out := make(map[string]TestRecord, len(rs.records))
	for k, v := range rs.records {
		out[k] = v
	}
	return out
}

func (rs *recordStore) Names() []string {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	out := make([]string, len(rs.order))
	copy(out, rs.order)
	return out
}

func (rs *recordStore) ByResult(result ResultKind) map[string]TestRecord {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	out := make(map[string]TestRecord)
	for k, v := range rs.records {
		if v.Result == result {
			out[k] = v
		}
	}
	return out
}

func (rs *recordStore) Subscribe(name string) *RecordSubscription {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	sub := &RecordSubscription{
		ID:      GenerateCorrelationID() + "_rec",
		Name:    name,
		Channel: make(chan RecordChange, recordChangeBuffer),
	}
	rs.subs[sub.ID] = sub
	rs.metrics.ActiveSubscriptions = len(rs.subs)
	return sub
}

func (rs *recordStore) Unsubscribe(subscription *RecordSubscription) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if _, exists := rs.subs[subscription.ID]; exists {
		subscription.Close()
		delete(rs.subs, subscription.ID)
		rs.metrics.ActiveSubscriptions = len(rs.subs)
	}
}

func (rs *recordStore) Clear(name string) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if _, existed := rs.records[name]; !existed {
		return false
	}
	delete(rs.records, name)
	for i, n := range rs.order {
		if n == name {
			rs.order = append(rs.order[:i], rs.order[i+1:]...)
			break
		}
	}
	rs.metrics.RecordCount = len(rs.records)
	return true
}

func (rs *recordStore) ClearAll() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.records = make(map[string]TestRecord)
	rs.order = nil
	rs.metrics.RecordCount = 0
}

func (rs *recordStore) GetMetrics() RecordStoreMetrics {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.metrics
}

// StoreSink updates a RunRecordStore from terminal test events. Non-terminal
// events pass through untouched.
type StoreSink struct {
	store RunRecordStore
}

// NewStoreSink creates a sink backed by store; a nil store gets a fresh one.
func NewStoreSink(store RunRecordStore) *StoreSink {
	if store == nil {
		store = NewRunRecordStore()
	}
	return &StoreSink{store: store}
}

// Emit implements EventSink.
func (s *StoreSink) Emit(event Event) {
	te, ok := event.(*TestEvent)
	if !ok || !IsTerminal(event.Type()) {
		return
	}
	s.store.Set(TestRecord{
		Name:          te.TestName,
		Suite:         te.Source(),
		Result:        resultForEvent(event.Type()),
		Cause:         te.Cause,
		Location:      te.Location,
		Notes:         te.Notes,
		Depth:         te.Depth,
		Text:          te.Text,
		Duration:      te.Duration,
		LastUpdated:   te.Timestamp(),
		CorrelationID: te.CorrelationID(),
	})
}

// Store returns the underlying record store.
func (s *StoreSink) Store() RunRecordStore {
	return s.store
}

func resultForEvent(t EventType) ResultKind {
	switch t {
	case EventTypeTestSucceeded:
		return ResultSucceeded
	case EventTypeTestFailed:
		return ResultFailed
	case EventTypeTestPending:
		return ResultPending
	case EventTypeTestCanceled:
		return ResultCanceled
	case EventTypeTestIgnored:
		return ResultIgnored
	default:
		return ""
	}
}
