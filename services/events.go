package services

import (
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	pbmodels "github.com/pocketbase/pocketbase/models"
	"github.com/pocketbase/pocketbase/tools/types"
	"github.com/shopspring/decimal"

	"club-ticketing/models"
)

type EventService struct {
	app core.App
}

func NewEventService(app core.App) *EventService {
	return &EventService{app: app}
}

func (s *EventService) GetAll() ([]*models.Event, error) {
	records, err := s.app.Dao().FindRecordsByFilter(
		"event",
		"is_active = true",
		"event_date",
		0,
		0,
	)
	if err != nil {
		return nil, err
	}
	return models.EventsFromRecords(records), nil
}

func (s *EventService) GetClubEvents(clubID string) ([]*models.Event, error) {
	records, err := s.app.Dao().FindRecordsByFilter(
		"event",
		"club_id = {:clubId} && is_active = true",
		"event_date",
		0,
		0,
		dbx.Params{"clubId": clubID},
	)
	if err != nil {
		return nil, err
	}
	return models.EventsFromRecords(records), nil
}

func (s *EventService) GetByID(id string) (*models.Event, error) {
	record, err := s.app.Dao().FindRecordById("event", id)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return models.EventFromRecord(record), nil
}

// GetRefundsInFlight loads cancelled events whose refund pipeline has not
// completed, so progression can be rescheduled after a restart.
func (s *EventService) GetRefundsInFlight() ([]*models.Event, error) {
	records, err := s.app.Dao().FindRecordsByFilter(
		"event",
		"status = {:status} && refund_status != {:completed} && refund_status != ''",
		"-cancelled_at",
		0,
		0,
		dbx.Params{
			"status":    models.EventStatusCancelled,
			"completed": models.RefundStatusCompleted,
		},
	)
	if err != nil {
		return nil, err
	}
	return models.EventsFromRecords(records), nil
}

type CreateEventParams struct {
	ClubID         string
	Name           string
	Description    string
	EventDate      time.Time
	PresaleEndTime time.Time
	TicketPrice    decimal.Decimal
	MaxCapacity    int
	ImageURL       string
}

func (s *EventService) Create(params CreateEventParams) (*models.Event, error) {
	collection, err := s.app.Dao().FindCollectionByNameOrId("event")
	if err != nil {
		return nil, err
	}

	record := pbmodels.NewRecord(collection)
	record.Set("club_id", params.ClubID)
	record.Set("name", params.Name)
	record.Set("description", params.Description)
	record.Set("event_date", params.EventDate)
	record.Set("presale_end_time", params.PresaleEndTime)
	record.Set("ticket_price", params.TicketPrice.InexactFloat64())
	record.Set("max_capacity", params.MaxCapacity)
	record.Set("sold_tickets", 0)
	record.Set("is_active", true)
	record.Set("image_url", params.ImageURL)
	record.Set("status", models.EventStatusActive)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}
	return models.EventFromRecord(record), nil
}

// RecordSale bumps the sold counter after a presale ticket is issued.
func (s *EventService) RecordSale(id string) error {
	record, err := s.app.Dao().FindRecordById("event", id)
	if err != nil {
		return normalizeErr(err)
	}

	record.Set("sold_tickets", record.GetInt("sold_tickets")+1)
	return s.app.Dao().SaveRecord(record)
}

// ClosePresale flags the event so it no longer appears in active listings
// and no further presale tickets can be issued.
func (s *EventService) ClosePresale(id string) (*models.Event, error) {
	record, err := s.app.Dao().FindRecordById("event", id)
	if err != nil {
		return nil, normalizeErr(err)
	}

	record.Set("is_active", false)
	record.Set("presale_end_time", types.NowDateTime())

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}
	return models.EventFromRecord(record), nil
}

// SetLifecycle patches the cancellation/refund columns of one event. The
// refund pipeline is its only caller; fields not present are left untouched.
func (s *EventService) SetLifecycle(id string, fields map[string]any) (*models.Event, error) {
	record, err := s.app.Dao().FindRecordById("event", id)
	if err != nil {
		return nil, normalizeErr(err)
	}

	for field, value := range fields {
		record.Set(field, value)
	}

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}
	return models.EventFromRecord(record), nil
}
