package services

import (
	"sync"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase/tools/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"club-ticketing/config"
	"club-ticketing/models"
)

type fakeEventStore struct {
	mu     sync.Mutex
	events map[string]*models.Event
}

func newFakeEventStore(events ...*models.Event) *fakeEventStore {
	store := &fakeEventStore{events: make(map[string]*models.Event)}
	for _, event := range events {
		store.events[event.ID] = event
	}
	return store
}

func (f *fakeEventStore) GetByID(id string) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	event, ok := f.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *event
	return &clone, nil
}

func (f *fakeEventStore) SetLifecycle(id string, fields map[string]any) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	event, ok := f.events[id]
	if !ok {
		return nil, ErrNotFound
	}

	for field, value := range fields {
		switch field {
		case "status":
			event.Status, _ = value.(string)
		case "refund_status":
			event.RefundStatus, _ = value.(string)
		case "cancelled_at":
			if dt, ok := value.(types.DateTime); ok {
				tm := dt.Time()
				event.CancelledAt = &tm
			} else {
				event.CancelledAt = nil
			}
		}
	}

	clone := *event
	return &clone, nil
}

func refundTestConfig() *config.Config {
	return &config.Config{
		RefundProcessingDelay: 30 * time.Millisecond,
		RefundCompletionDelay: 80 * time.Millisecond,
	}
}

func activeEvent(id string) *models.Event {
	return &models.Event{ID: id, ClubID: "club1", Status: models.EventStatusActive}
}

func refundStatus(t *testing.T, store *fakeEventStore, id string) string {
	t.Helper()
	event, err := store.GetByID(id)
	require.NoError(t, err)
	return event.RefundStatus
}

func TestRefund_CancelStartsPipeline(t *testing.T) {
	store := newFakeEventStore(activeEvent("evt1"))
	publisher := &recordingPublisher{}
	svc := NewRefundService(store, publisher, refundTestConfig())
	defer svc.Stop()

	event, err := svc.Cancel("evt1")

	require.NoError(t, err)
	assert.Equal(t, models.EventStatusCancelled, event.Status)
	assert.Equal(t, models.RefundStatusPending, event.RefundStatus)
	assert.NotNil(t, event.CancelledAt)
	assert.Contains(t, publisher.channels, "club-club1-events")

	assert.Eventually(t, func() bool {
		return refundStatus(t, store, "evt1") == models.RefundStatusProcessing
	}, time.Second, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		return refundStatus(t, store, "evt1") == models.RefundStatusCompleted
	}, time.Second, 5*time.Millisecond)
}

func TestRefund_CancelRequiresActiveEvent(t *testing.T) {
	event := activeEvent("evt1")
	event.Status = models.EventStatusCancelled
	store := newFakeEventStore(event)
	svc := NewRefundService(store, nil, refundTestConfig())
	defer svc.Stop()

	_, err := svc.Cancel("evt1")

	assert.ErrorIs(t, err, ErrEventNotActive)
}

func TestRefund_CancelUnknownEvent(t *testing.T) {
	svc := NewRefundService(newFakeEventStore(), nil, refundTestConfig())
	defer svc.Stop()

	_, err := svc.Cancel("missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRefund_ReactivateClearsStateAndStopsTimers(t *testing.T) {
	store := newFakeEventStore(activeEvent("evt1"))
	svc := NewRefundService(store, nil, refundTestConfig())
	defer svc.Stop()

	_, err := svc.Cancel("evt1")
	require.NoError(t, err)

	event, err := svc.Reactivate("evt1")
	require.NoError(t, err)

	assert.Equal(t, models.EventStatusActive, event.Status)
	assert.Equal(t, "", event.RefundStatus)
	assert.Nil(t, event.CancelledAt)

	// Let all original timers elapse; the reactivated event must not move.
	time.Sleep(150 * time.Millisecond)
	got, err := store.GetByID("evt1")
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusActive, got.Status)
	assert.Equal(t, "", got.RefundStatus)
}

func TestRefund_ReactivateRequiresCancelledEvent(t *testing.T) {
	store := newFakeEventStore(activeEvent("evt1"))
	svc := NewRefundService(store, nil, refundTestConfig())
	defer svc.Stop()

	_, err := svc.Reactivate("evt1")

	assert.ErrorIs(t, err, ErrEventNotCancelled)
}

func TestRefund_OtherEventsUntouched(t *testing.T) {
	store := newFakeEventStore(activeEvent("evt1"), activeEvent("evt2"))
	svc := NewRefundService(store, nil, refundTestConfig())
	defer svc.Stop()

	_, err := svc.Cancel("evt1")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return refundStatus(t, store, "evt1") == models.RefundStatusCompleted
	}, time.Second, 5*time.Millisecond)

	other, err := store.GetByID("evt2")
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusActive, other.Status)
	assert.Equal(t, "", other.RefundStatus)
}

func TestRefund_StopHaltsProgression(t *testing.T) {
	store := newFakeEventStore(activeEvent("evt1"))
	svc := NewRefundService(store, nil, refundTestConfig())

	_, err := svc.Cancel("evt1")
	require.NoError(t, err)

	svc.Stop()

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, models.RefundStatusPending, refundStatus(t, store, "evt1"))
}

// Resume picks up where a restart left off, including the processing ->
// completed leg on its own.
func TestRefund_ResumeMidPipeline(t *testing.T) {
	cancelledAt := time.Now()
	event := &models.Event{
		ID:           "evt1",
		ClubID:       "club1",
		Status:       models.EventStatusCancelled,
		RefundStatus: models.RefundStatusProcessing,
		CancelledAt:  &cancelledAt,
	}
	store := newFakeEventStore(event)
	svc := NewRefundService(store, nil, refundTestConfig())
	defer svc.Stop()

	svc.Resume([]*models.Event{event})

	assert.Eventually(t, func() bool {
		return refundStatus(t, store, "evt1") == models.RefundStatusCompleted
	}, time.Second, 5*time.Millisecond)
}

// A stale timer whose predecessor status no longer matches is a no-op.
func TestRefund_StaleAdvanceIsNoop(t *testing.T) {
	event := &models.Event{
		ID:           "evt1",
		ClubID:       "club1",
		Status:       models.EventStatusCancelled,
		RefundStatus: models.RefundStatusCompleted,
	}
	store := newFakeEventStore(event)
	svc := NewRefundService(store, nil, refundTestConfig())
	defer svc.Stop()

	svc.advance("evt1", models.RefundStatusPending, models.RefundStatusProcessing)

	assert.Equal(t, models.RefundStatusCompleted, refundStatus(t, store, "evt1"))
}
