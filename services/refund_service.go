package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/pocketbase/pocketbase/tools/types"

	"club-ticketing/config"
	"club-ticketing/models"
	"club-ticketing/monitoring"
)

type eventLifecycle interface {
	GetByID(id string) (*models.Event, error)
	SetLifecycle(id string, fields map[string]any) (*models.Event, error)
}

// RefundService runs the event cancellation pipeline: cancelling an active
// event starts a refund at "pending" which advances to "processing" and
// "completed" after the configured delays, persisted at every step.
//
// Timers are tracked per event and stopped on reactivation and shutdown, so
// no timer outlives the state it was scheduled for. Advancement is guarded
// by the expected predecessor status; a stale timer is a no-op.
type RefundService struct {
	events    eventLifecycle
	publisher Publisher

	processingDelay time.Duration
	completionDelay time.Duration

	mu      sync.Mutex
	timers  map[string][]*time.Timer
	stopped bool
}

func NewRefundService(events eventLifecycle, publisher Publisher, cfg *config.Config) *RefundService {
	return &RefundService{
		events:          events,
		publisher:       publisher,
		processingDelay: cfg.RefundProcessingDelay,
		completionDelay: cfg.RefundCompletionDelay,
		timers:          make(map[string][]*time.Timer),
	}
}

func (s *RefundService) Cancel(eventID string) (*models.Event, error) {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventStatusActive {
		return nil, ErrEventNotActive
	}

	updated, err := s.events.SetLifecycle(eventID, map[string]any{
		"status":        models.EventStatusCancelled,
		"cancelled_at":  types.NowDateTime(),
		"refund_status": models.RefundStatusPending,
	})
	if err != nil {
		return nil, err
	}

	monitoring.TrackRefundTransition(models.RefundStatusPending)
	s.notify(updated, "event_cancelled")

	s.schedule(eventID, s.processingDelay, models.RefundStatusPending, models.RefundStatusProcessing)
	s.schedule(eventID, s.completionDelay, models.RefundStatusProcessing, models.RefundStatusCompleted)

	return updated, nil
}

func (s *RefundService) Reactivate(eventID string) (*models.Event, error) {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventStatusCancelled {
		return nil, ErrEventNotCancelled
	}

	s.cancelTimers(eventID)

	updated, err := s.events.SetLifecycle(eventID, map[string]any{
		"status":        models.EventStatusActive,
		"cancelled_at":  "",
		"refund_status": "",
	})
	if err != nil {
		return nil, err
	}

	s.notify(updated, "event_reactivated")
	return updated, nil
}

// Stop cancels every in-flight progression timer. Pending refund statuses
// stay persisted and are picked up by Resume on the next start.
func (s *RefundService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for eventID, timers := range s.timers {
		for _, timer := range timers {
			timer.Stop()
		}
		delete(s.timers, eventID)
	}
}

// Resume reschedules progression for events left mid-refund by a restart.
func (s *RefundService) Resume(events []*models.Event) {
	for _, event := range events {
		if event.Status != models.EventStatusCancelled {
			continue
		}
		switch event.RefundStatus {
		case models.RefundStatusPending:
			s.schedule(event.ID, s.processingDelay, models.RefundStatusPending, models.RefundStatusProcessing)
			s.schedule(event.ID, s.completionDelay, models.RefundStatusProcessing, models.RefundStatusCompleted)
		case models.RefundStatusProcessing:
			s.schedule(event.ID, s.completionDelay, models.RefundStatusProcessing, models.RefundStatusCompleted)
		}
	}
}

func (s *RefundService) schedule(eventID string, delay time.Duration, from, to string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	timer := time.AfterFunc(delay, func() {
		s.advance(eventID, from, to)
	})
	s.timers[eventID] = append(s.timers[eventID], timer)
}

func (s *RefundService) advance(eventID, from, to string) {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		log.Printf("Error loading event %s for refund advance: %v", eventID, err)
		return
	}

	// Reactivated or already advanced past this step.
	if event.Status != models.EventStatusCancelled || event.RefundStatus != from {
		return
	}

	updated, err := s.events.SetLifecycle(eventID, map[string]any{
		"refund_status": to,
	})
	if err != nil {
		log.Printf("Error advancing refund for event %s to %s: %v", eventID, to, err)
		return
	}

	monitoring.TrackRefundTransition(to)
	s.notify(updated, "refund_"+to)
}

func (s *RefundService) cancelTimers(eventID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, timer := range s.timers[eventID] {
		timer.Stop()
	}
	delete(s.timers, eventID)
}

func (s *RefundService) notify(event *models.Event, messageType string) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(fmt.Sprintf("club-%s-events", event.ClubID), map[string]any{
		"type":          messageType,
		"event_id":      event.ID,
		"status":        event.Status,
		"refund_status": event.RefundStatus,
	})
}
