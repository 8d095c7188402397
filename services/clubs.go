package services

import (
	"github.com/pocketbase/pocketbase/core"

	"club-ticketing/models"
)

type ClubService struct {
	app core.App
}

func NewClubService(app core.App) *ClubService {
	return &ClubService{app: app}
}

func (s *ClubService) GetActive() ([]*models.Club, error) {
	records, err := s.app.Dao().FindRecordsByFilter(
		"club",
		"is_active = true",
		"name",
		0,
		0,
	)
	if err != nil {
		return nil, err
	}
	return models.ClubsFromRecords(records), nil
}

func (s *ClubService) GetByID(id string) (*models.Club, error) {
	record, err := s.app.Dao().FindRecordById("club", id)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return models.ClubFromRecord(record), nil
}
