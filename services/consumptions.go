package services

import (
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"club-ticketing/models"
	"club-ticketing/utils"
)

type ConsumptionTypeService struct {
	app core.App
}

func NewConsumptionTypeService(app core.App) *ConsumptionTypeService {
	return &ConsumptionTypeService{app: app}
}

func (s *ConsumptionTypeService) GetClubTypes(clubID string) ([]*models.ConsumptionTicketType, error) {
	records, err := s.app.Dao().FindRecordsByFilter(
		"consumption_ticket_type",
		"club_id = {:clubId} && is_active = true",
		"category",
		0,
		0,
		dbx.Params{"clubId": clubID},
	)
	if err != nil {
		return nil, err
	}
	return models.ConsumptionTicketTypesFromRecords(records), nil
}

func (s *ConsumptionTypeService) GetByID(id string) (*models.ConsumptionTicketType, error) {
	record, err := s.app.Dao().FindRecordById("consumption_ticket_type", id)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return models.ConsumptionTicketTypeFromRecord(record), nil
}

func (s *ConsumptionTypeService) SetActive(id string, active bool) (*models.ConsumptionTicketType, error) {
	record, err := s.app.Dao().FindRecordById("consumption_ticket_type", id)
	if err != nil {
		return nil, normalizeErr(err)
	}

	record.Set("is_active", active)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}
	return models.ConsumptionTicketTypeFromRecord(record), nil
}

type ConsumptionOrderService struct {
	app core.App
}

func NewConsumptionOrderService(app core.App) *ConsumptionOrderService {
	return &ConsumptionOrderService{app: app}
}

func (s *ConsumptionOrderService) GetByID(id string) (*models.ConsumptionOrder, error) {
	record, err := s.app.Dao().FindRecordById("consumption_order", id)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return models.ConsumptionOrderFromRecord(record), nil
}

func (s *ConsumptionOrderService) GetUserOrdersForClub(userID, clubID string) ([]*models.ConsumptionOrder, error) {
	records, err := s.app.Dao().FindRecordsByFilter(
		"consumption_order",
		"user_id = {:userId} && event_id.club_id = {:clubId}",
		"-order_date",
		0,
		0,
		dbx.Params{"userId": userID, "clubId": clubID},
	)
	if err != nil {
		return nil, err
	}
	return models.ConsumptionOrdersFromRecords(records), nil
}

// CalculateTotal recomputes the order total from its line items and refreshes
// the cached total_amount column when it drifted.
func (s *ConsumptionOrderService) CalculateTotal(id string) (*models.ConsumptionOrder, error) {
	record, err := s.app.Dao().FindRecordById("consumption_order", id)
	if err != nil {
		return nil, normalizeErr(err)
	}

	order := models.ConsumptionOrderFromRecord(record)
	total := order.ComputeTotal()

	if !total.Equal(order.TotalAmount) {
		record.Set("total_amount", total.InexactFloat64())
		if err := s.app.Dao().SaveRecord(record); err != nil {
			return nil, err
		}
		order.TotalAmount = total
	}

	return order, nil
}

func (s *ConsumptionOrderService) Cancel(id string) (*models.ConsumptionOrder, error) {
	record, err := s.app.Dao().FindRecordById("consumption_order", id)
	if err != nil {
		return nil, normalizeErr(err)
	}

	record.Set("status", models.OrderStatusCancelled)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}
	return models.ConsumptionOrderFromRecord(record), nil
}

type ConsumptionTicketService struct {
	app core.App
}

func NewConsumptionTicketService(app core.App) *ConsumptionTicketService {
	return &ConsumptionTicketService{app: app}
}

func (s *ConsumptionTicketService) GetByID(id string) (*models.ConsumptionTicket, error) {
	record, err := s.app.Dao().FindRecordById("consumption_ticket", id)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return models.ConsumptionTicketFromRecord(record), nil
}

func (s *ConsumptionTicketService) Consume(id string) (*models.ConsumptionTicket, error) {
	record, err := s.app.Dao().FindRecordById("consumption_ticket", id)
	if err != nil {
		return nil, normalizeErr(err)
	}

	if record.GetBool("is_consumed") {
		return nil, ErrAlreadyConsumed
	}

	record.Set("is_consumed", true)
	record.Set("consumed_at", types.NowDateTime())

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}
	return models.ConsumptionTicketFromRecord(record), nil
}

// IssueValidationCode attaches a short random code the bar staff can check
// against the one shown on the buyer's screen.
func (s *ConsumptionTicketService) IssueValidationCode(id string) (*models.ConsumptionTicket, error) {
	record, err := s.app.Dao().FindRecordById("consumption_ticket", id)
	if err != nil {
		return nil, normalizeErr(err)
	}

	code, err := utils.GenerateCode(4)
	if err != nil {
		return nil, err
	}

	record.Set("validation_code", code)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}
	return models.ConsumptionTicketFromRecord(record), nil
}
