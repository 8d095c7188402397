package models

import (
	"time"

	pbmodels "github.com/pocketbase/pocketbase/models"
	"github.com/shopspring/decimal"
)

const (
	TicketStatusValid    = "valid"
	TicketStatusUsed     = "used"
	TicketStatusRefunded = "refunded"
)

type Ticket struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	EventID      string          `json:"event_id"`
	Price        decimal.Decimal `json:"price"`
	Status       string          `json:"status"`
	IsUsed       bool            `json:"is_used"`
	UsedAt       *time.Time      `json:"used_at,omitempty"`
	PurchaseDate time.Time       `json:"purchase_date"`
}

func TicketFromRecord(r *pbmodels.Record) *Ticket {
	ticket := &Ticket{
		ID:           r.Id,
		UserID:       r.GetString("user_id"),
		EventID:      r.GetString("event_id"),
		Price:        decimal.NewFromFloat(r.GetFloat("price")),
		Status:       r.GetString("status"),
		IsUsed:       r.GetBool("is_used"),
		PurchaseDate: r.GetDateTime("purchase_date").Time(),
	}

	if usedAt := r.GetDateTime("used_at"); !usedAt.IsZero() {
		t := usedAt.Time()
		ticket.UsedAt = &t
	}

	return ticket
}

func TicketsFromRecords(records []*pbmodels.Record) []*Ticket {
	tickets := make([]*Ticket, 0, len(records))
	for _, r := range records {
		tickets = append(tickets, TicketFromRecord(r))
	}
	return tickets
}
