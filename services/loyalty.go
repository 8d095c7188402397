package services

import (
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	pbmodels "github.com/pocketbase/pocketbase/models"

	"club-ticketing/models"
)

type LoyaltyTransactionService struct {
	app core.App
}

func NewLoyaltyTransactionService(app core.App) *LoyaltyTransactionService {
	return &LoyaltyTransactionService{app: app}
}

func (s *LoyaltyTransactionService) GetByID(id string) (*models.LoyaltyTransaction, error) {
	record, err := s.app.Dao().FindRecordById("loyalty_transaction", id)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return models.LoyaltyTransactionFromRecord(record), nil
}

func (s *LoyaltyTransactionService) GetUserTransactions(userID string) ([]*models.LoyaltyTransaction, error) {
	records, err := s.app.Dao().FindRecordsByFilter(
		"loyalty_transaction",
		"user_id = {:userId}",
		"-created",
		0,
		0,
		dbx.Params{"userId": userID},
	)
	if err != nil {
		return nil, err
	}

	transactions := make([]*models.LoyaltyTransaction, 0, len(records))
	for _, r := range records {
		transactions = append(transactions, models.LoyaltyTransactionFromRecord(r))
	}
	return transactions, nil
}

func (s *LoyaltyTransactionService) Record(userID, txType string, earned, spent int) (*models.LoyaltyTransaction, error) {
	collection, err := s.app.Dao().FindCollectionByNameOrId("loyalty_transaction")
	if err != nil {
		return nil, err
	}

	record := pbmodels.NewRecord(collection)
	record.Set("user_id", userID)
	record.Set("type", txType)
	record.Set("points_earned", earned)
	record.Set("points_spent", spent)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}
	return models.LoyaltyTransactionFromRecord(record), nil
}

// Cashout records a spend of points against the user's balance. The
// caller is responsible for checking the balance first.
func (s *LoyaltyTransactionService) Cashout(userID string, points int) (*models.LoyaltyTransaction, error) {
	return s.Record(userID, "cashout", 0, points)
}
