package services

import (
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"club-ticketing/models"
)

type ProfileService struct {
	app core.App
}

func NewProfileService(app core.App) *ProfileService {
	return &ProfileService{app: app}
}

func (s *ProfileService) GetByID(id string) (*models.Profile, error) {
	record, err := s.app.Dao().FindRecordById("profile", id)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return models.ProfileFromRecord(record), nil
}

func (s *ProfileService) GetByEmail(email string) (*models.Profile, error) {
	record, err := s.app.Dao().FindFirstRecordByFilter(
		"profile",
		"email = {:email}",
		dbx.Params{"email": email},
	)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return models.ProfileFromRecord(record), nil
}

func (s *ProfileService) Update(id string, updates map[string]any) (*models.Profile, error) {
	record, err := s.app.Dao().FindRecordById("profile", id)
	if err != nil {
		return nil, normalizeErr(err)
	}

	for field, value := range updates {
		record.Set(field, value)
	}

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}
	return models.ProfileFromRecord(record), nil
}

func (s *ProfileService) AddLoyaltyPoints(id string, points int) (*models.Profile, error) {
	record, err := s.app.Dao().FindRecordById("profile", id)
	if err != nil {
		return nil, normalizeErr(err)
	}

	record.Set("loyalty_points", record.GetInt("loyalty_points")+points)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}
	return models.ProfileFromRecord(record), nil
}

func (s *ProfileService) VerifyIdentity(id string) (*models.Profile, error) {
	return s.Update(id, map[string]any{"is_verified": true})
}
