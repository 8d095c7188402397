package services

import (
	"testing"
	"time"

	pbmodels "github.com/pocketbase/pocketbase/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecord(collection, id string) *pbmodels.Record {
	record := pbmodels.NewRecord(&pbmodels.Collection{Name: collection})
	record.Id = id
	return record
}

func receiveChange(t *testing.T, ch <-chan RecordChange) RecordChange {
	t.Helper()
	select {
	case change := <-ch:
		return change
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for record change")
		return RecordChange{}
	}
}

func TestWatcher_CollectionSubscription(t *testing.T) {
	w := NewRecordWatcher()

	ch, unsubscribe := w.Subscribe("profile", "")
	defer unsubscribe()

	w.dispatch("updated", newTestRecord("profile", "p1"))

	change := receiveChange(t, ch)
	assert.Equal(t, "profile", change.Collection)
	assert.Equal(t, "p1", change.RecordID)
	assert.Equal(t, "updated", change.Action)
	require.NotNil(t, change.Record)
}

func TestWatcher_RecordSubscription(t *testing.T) {
	w := NewRecordWatcher()

	ch, unsubscribe := w.Subscribe("profile", "p1")
	defer unsubscribe()

	w.dispatch("updated", newTestRecord("profile", "p2"))
	w.dispatch("updated", newTestRecord("profile", "p1"))

	change := receiveChange(t, ch)
	assert.Equal(t, "p1", change.RecordID)

	select {
	case extra := <-ch:
		t.Fatalf("unexpected change for record %s", extra.RecordID)
	default:
	}
}

func TestWatcher_OtherCollectionIgnored(t *testing.T) {
	w := NewRecordWatcher()

	ch, unsubscribe := w.Subscribe("profile", "")
	defer unsubscribe()

	w.dispatch("created", newTestRecord("admin", "a1"))

	select {
	case change := <-ch:
		t.Fatalf("unexpected change from collection %s", change.Collection)
	default:
	}
}

func TestWatcher_UnsubscribeClosesChannel(t *testing.T) {
	w := NewRecordWatcher()

	ch, unsubscribe := w.Subscribe("profile", "")
	unsubscribe()

	_, open := <-ch
	assert.False(t, open)

	// Dispatch after unsubscribe must not panic.
	w.dispatch("updated", newTestRecord("profile", "p1"))
}

// A full buffer drops the change instead of blocking the write path.
func TestWatcher_SlowConsumerDrops(t *testing.T) {
	w := NewRecordWatcher()

	ch, unsubscribe := w.Subscribe("profile", "")
	defer unsubscribe()

	for i := 0; i < 20; i++ {
		w.dispatch("updated", newTestRecord("profile", "p1"))
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}

	assert.Equal(t, 8, received) // buffer size
}

func TestWatcher_MultipleSubscribers(t *testing.T) {
	w := NewRecordWatcher()

	ch1, unsub1 := w.Subscribe("profile", "")
	defer unsub1()
	ch2, unsub2 := w.Subscribe("profile", "")
	defer unsub2()

	w.dispatch("deleted", newTestRecord("profile", "p1"))

	assert.Equal(t, "deleted", receiveChange(t, ch1).Action)
	assert.Equal(t, "deleted", receiveChange(t, ch2).Action)
}
