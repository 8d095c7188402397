package services

import (
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	pbmodels "github.com/pocketbase/pocketbase/models"
	"github.com/pocketbase/pocketbase/tools/types"
	"github.com/shopspring/decimal"

	"club-ticketing/models"
)

type TicketService struct {
	app core.App
}

func NewTicketService(app core.App) *TicketService {
	return &TicketService{app: app}
}

func (s *TicketService) GetByID(id string) (*models.Ticket, error) {
	record, err := s.app.Dao().FindRecordById("ticket", id)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return models.TicketFromRecord(record), nil
}

func (s *TicketService) GetAllUserTickets(userID string) ([]*models.Ticket, error) {
	records, err := s.app.Dao().FindRecordsByFilter(
		"ticket",
		"user_id = {:userId}",
		"-purchase_date",
		0,
		0,
		dbx.Params{"userId": userID},
	)
	if err != nil {
		return nil, err
	}
	return models.TicketsFromRecords(records), nil
}

// GetUserTicketsForClub filters through the ticket->event relation so only
// tickets for events owned by the given club come back.
func (s *TicketService) GetUserTicketsForClub(userID, clubID string) ([]*models.Ticket, error) {
	records, err := s.app.Dao().FindRecordsByFilter(
		"ticket",
		"user_id = {:userId} && event_id.club_id = {:clubId}",
		"-purchase_date",
		0,
		0,
		dbx.Params{"userId": userID, "clubId": clubID},
	)
	if err != nil {
		return nil, err
	}
	return models.TicketsFromRecords(records), nil
}

func (s *TicketService) CreatePresale(userID, eventID string, price decimal.Decimal) (*models.Ticket, error) {
	collection, err := s.app.Dao().FindCollectionByNameOrId("ticket")
	if err != nil {
		return nil, err
	}

	record := pbmodels.NewRecord(collection)
	record.Set("user_id", userID)
	record.Set("event_id", eventID)
	record.Set("price", price.InexactFloat64())
	record.Set("status", models.TicketStatusValid)
	record.Set("is_used", false)
	record.Set("purchase_date", types.NowDateTime())

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}
	return models.TicketFromRecord(record), nil
}

// ValidateEntry durably marks the ticket used. A second validation of the
// same ticket fails instead of silently re-validating.
func (s *TicketService) ValidateEntry(id string) (*models.Ticket, error) {
	record, err := s.app.Dao().FindRecordById("ticket", id)
	if err != nil {
		return nil, normalizeErr(err)
	}

	if record.GetBool("is_used") {
		return nil, ErrAlreadyConsumed
	}

	record.Set("is_used", true)
	record.Set("used_at", types.NowDateTime())
	record.Set("status", models.TicketStatusUsed)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}
	return models.TicketFromRecord(record), nil
}

func (s *TicketService) Refund(id string) (*models.Ticket, error) {
	record, err := s.app.Dao().FindRecordById("ticket", id)
	if err != nil {
		return nil, normalizeErr(err)
	}

	record.Set("status", models.TicketStatusRefunded)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}
	return models.TicketFromRecord(record), nil
}
