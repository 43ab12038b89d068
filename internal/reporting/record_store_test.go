package reporting

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordStore_SetAndGet(t *testing.T) {
	store := NewRunRecordStore()

	changed := store.Set(TestRecord{Name: "A Stack should pop", Suite: "StackSpec", Result: ResultSucceeded})
	assert.True(t, changed, "first insert is a change")

	rec, ok := store.Get("A Stack should pop")
	require.True(t, ok)
	assert.Equal(t, ResultSucceeded, rec.Result)
	assert.Equal(t, "StackSpec", rec.Suite)
	assert.False(t, rec.LastUpdated.IsZero(), "timestamp backfilled on insert")

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestRecordStore_SetReportsResultChanges(t *testing.T) {
	store := NewRunRecordStore()
	store.Set(TestRecord{Name: "t", Result: ResultSucceeded})

	assert.False(t, store.Set(TestRecord{Name: "t", Result: ResultSucceeded}),
		"same result is not a change")
	assert.True(t, store.Set(TestRecord{Name: "t", Result: ResultFailed}))
}

func TestRecordStore_NamesKeepInsertionOrder(t *testing.T) {
	store := NewRunRecordStore()
	store.Set(TestRecord{Name: "c", Result: ResultSucceeded})
	store.Set(TestRecord{Name: "a", Result: ResultFailed})
	store.Set(TestRecord{Name: "b", Result: ResultSucceeded})
	store.Set(TestRecord{Name: "a", Result: ResultSucceeded})

	assert.Equal(t, []string{"c", "a", "b"}, store.Names())
}

func TestRecordStore_ByResult(t *testing.T) {
	store := NewRunRecordStore()
	store.Set(TestRecord{Name: "pass", Result: ResultSucceeded})
	store.Set(TestRecord{Name: "fail", Result: ResultFailed})
	store.Set(TestRecord{Name: "skip", Result: ResultIgnored})

	failed := store.ByResult(ResultFailed)
	assert.Len(t, failed, 1)
	assert.Contains(t, failed, "fail")
	assert.Empty(t, store.ByResult(ResultPending))
}

func TestRecordStore_Subscriptions(t *testing.T) {
	store := NewRunRecordStore()
	all := store.Subscribe("")
	one := store.Subscribe("watched")
	defer store.Unsubscribe(all)
	defer store.Unsubscribe(one)

	store.Set(TestRecord{Name: "watched", Result: ResultSucceeded})
	store.Set(TestRecord{Name: "other", Result: ResultFailed})

	change := <-all.Channel
	assert.Equal(t, "watched", change.Name)
	assert.Equal(t, ResultSucceeded, change.NewResult)
	change = <-all.Channel
	assert.Equal(t, "other", change.Name)

	change = <-one.Channel
	assert.Equal(t, "watched", change.Name)
	select {
	case extra := <-one.Channel:
		t.Fatalf("unexpected change for %q", extra.Name)
	default:
	}
}

func TestRecordStore_NoNotificationWithoutChange(t *testing.T) {
	store := NewRunRecordStore()
	store.Set(TestRecord{Name: "t", Result: ResultSucceeded})

	sub := store.Subscribe("t")
	defer store.Unsubscribe(sub)

	store.Set(TestRecord{Name: "t", Result: ResultSucceeded})
	select {
	case <-sub.Channel:
		t.Fatal("unchanged result must not notify")
	default:
	}
}

func TestRecordStore_ClearAndMetrics(t *testing.T) {
	store := NewRunRecordStore()
	store.Set(TestRecord{Name: "a", Result: ResultSucceeded})
	store.Set(TestRecord{Name: "b", Result: ResultFailed})

	assert.True(t, store.Clear("a"))
	assert.False(t, store.Clear("a"))
	assert.Equal(t, []string{"b"}, store.Names())

	metrics := store.GetMetrics()
	assert.Equal(t, int64(2), metrics.TotalUpdates)
	assert.Equal(t, 1, metrics.RecordCount)

	store.ClearAll()
	assert.Empty(t, store.Names())
	assert.Equal(t, 0, store.GetMetrics().RecordCount)
}

func TestStoreSink_RecordsTerminalEventsOnly(t *testing.T) {
	sink := NewStoreSink(nil)
	cause := errors.New("boom")

	sink.Emit(NewScopeOpenedEvent("StackSpec", "A Stack", 0))
	sink.Emit(NewTestStartingEvent("StackSpec", "A Stack should pop", "pop", 1))
	sink.Emit(NewTestFailedEvent("StackSpec", "A Stack should pop", "pop", 1,
		[]string{"note"}, cause, "stack.go:7", 3*time.Millisecond))
	sink.Emit(NewTestIgnoredEvent("StackSpec", "A Stack should grow", "grow", 1))

	store := sink.Store()
	assert.Equal(t, []string{"A Stack should pop", "A Stack should grow"}, store.Names())

	rec, ok := store.Get("A Stack should pop")
	require.True(t, ok)
	assert.Equal(t, ResultFailed, rec.Result)
	assert.Equal(t, cause, rec.Cause)
	assert.Equal(t, "stack.go:7", rec.Location)
	assert.Equal(t, []string{"note"}, rec.Notes)
	assert.Equal(t, 3*time.Millisecond, rec.Duration)
	assert.NotEmpty(t, rec.CorrelationID)

	rec, ok = store.Get("A Stack should grow")
	require.True(t, ok)
	assert.Equal(t, ResultIgnored, rec.Result)
}
