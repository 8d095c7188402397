package services

import (
	"sync"

	"github.com/pocketbase/pocketbase/core"
	pbmodels "github.com/pocketbase/pocketbase/models"

	"club-ticketing/monitoring"
)

type RecordChange struct {
	Collection string
	RecordID   string
	Action     string // created, updated, deleted
	Record     *pbmodels.Record
}

// RecordWatcher turns the store's ambient record hooks into explicit
// subscriptions: Subscribe returns a channel of changes plus an unsubscribe
// func for teardown. An empty recordID watches the whole collection.
//
// Delivery is best-effort: a slow consumer drops changes rather than
// blocking the write path, so handlers must be idempotent to the same
// row arriving twice.
type RecordWatcher struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]chan RecordChange
}

func NewRecordWatcher() *RecordWatcher {
	return &RecordWatcher{
		subs: make(map[string]map[int]chan RecordChange),
	}
}

// Bind attaches the watcher to the app's model hooks. Model-level hooks
// catch both API writes and service-layer saves.
func (w *RecordWatcher) Bind(app core.App) {
	app.OnModelAfterCreate().Add(func(e *core.ModelEvent) error {
		if record, ok := e.Model.(*pbmodels.Record); ok {
			w.dispatch("created", record)
		}
		return nil
	})
	app.OnModelAfterUpdate().Add(func(e *core.ModelEvent) error {
		if record, ok := e.Model.(*pbmodels.Record); ok {
			w.dispatch("updated", record)
		}
		return nil
	})
	app.OnModelAfterDelete().Add(func(e *core.ModelEvent) error {
		if record, ok := e.Model.(*pbmodels.Record); ok {
			w.dispatch("deleted", record)
		}
		return nil
	})
}

func (w *RecordWatcher) Subscribe(collection, recordID string) (<-chan RecordChange, func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := subKey(collection, recordID)
	if w.subs[key] == nil {
		w.subs[key] = make(map[int]chan RecordChange)
	}

	w.nextID++
	id := w.nextID
	ch := make(chan RecordChange, 8)
	w.subs[key][id] = ch

	unsubscribe := func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if subs, ok := w.subs[key]; ok {
			if ch, ok := subs[id]; ok {
				delete(subs, id)
				close(ch)
			}
			if len(subs) == 0 {
				delete(w.subs, key)
			}
		}
	}

	return ch, unsubscribe
}

func (w *RecordWatcher) dispatch(action string, record *pbmodels.Record) {
	change := RecordChange{
		Collection: record.Collection().Name,
		RecordID:   record.Id,
		Action:     action,
		Record:     record,
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	w.deliver(subKey(change.Collection, change.RecordID), change)
	w.deliver(subKey(change.Collection, ""), change)
}

func (w *RecordWatcher) deliver(key string, change RecordChange) {
	for _, ch := range w.subs[key] {
		select {
		case ch <- change:
		default:
			monitoring.TrackWatcherDrop(change.Collection)
		}
	}
}

func subKey(collection, recordID string) string {
	return collection + "/" + recordID
}
