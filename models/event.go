package models

import (
	"time"

	pbmodels "github.com/pocketbase/pocketbase/models"
	"github.com/shopspring/decimal"
)

const (
	EventStatusActive    = "active"
	EventStatusCancelled = "cancelled"
)

const (
	RefundStatusPending    = "pending"
	RefundStatusProcessing = "processing"
	RefundStatusCompleted  = "completed"
)

type Event struct {
	ID             string          `json:"id"`
	ClubID         string          `json:"club_id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	EventDate      time.Time       `json:"event_date"`
	PresaleEndTime time.Time       `json:"presale_end_time"`
	TicketPrice    decimal.Decimal `json:"ticket_price"`
	MaxCapacity    int             `json:"max_capacity"`
	SoldTickets    int             `json:"sold_tickets"`
	IsActive       bool            `json:"is_active"`
	ImageURL       string          `json:"image_url,omitempty"`
	Status         string          `json:"status"`
	CancelledAt    *time.Time      `json:"cancelled_at,omitempty"`
	RefundStatus   string          `json:"refund_status,omitempty"`
}

// RemainingCapacity is display-only; the sold count is authoritative
// on the store side and never enforced here.
func (e *Event) RemainingCapacity() int {
	remaining := e.MaxCapacity - e.SoldTickets
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (e *Event) PresaleOpen(now time.Time) bool {
	return e.IsActive && now.Before(e.PresaleEndTime)
}

func EventFromRecord(r *pbmodels.Record) *Event {
	event := &Event{
		ID:             r.Id,
		ClubID:         r.GetString("club_id"),
		Name:           r.GetString("name"),
		Description:    r.GetString("description"),
		EventDate:      r.GetDateTime("event_date").Time(),
		PresaleEndTime: r.GetDateTime("presale_end_time").Time(),
		TicketPrice:    decimal.NewFromFloat(r.GetFloat("ticket_price")),
		MaxCapacity:    r.GetInt("max_capacity"),
		SoldTickets:    r.GetInt("sold_tickets"),
		IsActive:       r.GetBool("is_active"),
		ImageURL:       r.GetString("image_url"),
		Status:         r.GetString("status"),
		RefundStatus:   r.GetString("refund_status"),
	}

	if cancelledAt := r.GetDateTime("cancelled_at"); !cancelledAt.IsZero() {
		t := cancelledAt.Time()
		event.CancelledAt = &t
	}

	return event
}

func EventsFromRecords(records []*pbmodels.Record) []*Event {
	events := make([]*Event, 0, len(records))
	for _, r := range records {
		events = append(events, EventFromRecord(r))
	}
	return events
}
