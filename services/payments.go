package services

import (
	"github.com/pocketbase/pocketbase/core"
	pbmodels "github.com/pocketbase/pocketbase/models"
	"github.com/shopspring/decimal"

	"club-ticketing/models"
	"club-ticketing/utils"
)

type PaymentService struct {
	app core.App
}

func NewPaymentService(app core.App) *PaymentService {
	return &PaymentService{app: app}
}

func (s *PaymentService) GetByID(id string) (*models.Payment, error) {
	record, err := s.app.Dao().FindRecordById("payment", id)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return models.PaymentFromRecord(record), nil
}

func (s *PaymentService) Create(userID, method string, amount decimal.Decimal) (*models.Payment, error) {
	collection, err := s.app.Dao().FindCollectionByNameOrId("payment")
	if err != nil {
		return nil, err
	}

	reference, err := utils.GenerateCode(6)
	if err != nil {
		return nil, err
	}

	record := pbmodels.NewRecord(collection)
	record.Set("user_id", userID)
	record.Set("method", method)
	record.Set("amount", amount.InexactFloat64())
	record.Set("status", models.PaymentStatusPending)
	record.Set("reference", reference)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}
	return models.PaymentFromRecord(record), nil
}

func (s *PaymentService) Process(id string, updates map[string]any) (*models.Payment, error) {
	record, err := s.app.Dao().FindRecordById("payment", id)
	if err != nil {
		return nil, normalizeErr(err)
	}

	for field, value := range updates {
		record.Set(field, value)
	}

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}
	return models.PaymentFromRecord(record), nil
}

func (s *PaymentService) Refund(id, refundID string) (*models.Payment, error) {
	return s.Process(id, map[string]any{
		"status":    models.PaymentStatusRefunded,
		"refund_id": refundID,
	})
}

func (s *PaymentService) Status(id string) (string, error) {
	payment, err := s.GetByID(id)
	if err != nil {
		return "", err
	}
	return payment.Status, nil
}
