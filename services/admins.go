package services

import (
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"club-ticketing/models"
)

type AdminService struct {
	app core.App
}

func NewAdminService(app core.App) *AdminService {
	return &AdminService{app: app}
}

// GetActiveByEmail is the admin identity lookup. Admin rows are resolved by
// email, not by auth id; see IdentityService.
func (s *AdminService) GetActiveByEmail(email string) (*models.AdminProfile, error) {
	record, err := s.app.Dao().FindFirstRecordByFilter(
		"admin",
		"email = {:email} && is_active = true",
		dbx.Params{"email": email},
	)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return models.AdminProfileFromRecord(record), nil
}

func (s *AdminService) GetByID(id string) (*models.AdminProfile, error) {
	record, err := s.app.Dao().FindRecordById("admin", id)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return models.AdminProfileFromRecord(record), nil
}

func (s *AdminService) Update(id string, updates map[string]any) (*models.AdminProfile, error) {
	record, err := s.app.Dao().FindRecordById("admin", id)
	if err != nil {
		return nil, normalizeErr(err)
	}

	for field, value := range updates {
		record.Set(field, value)
	}

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}
	return models.AdminProfileFromRecord(record), nil
}

type ClubStats struct {
	TotalEvents      int             `json:"total_events"`
	TotalTicketsSold int             `json:"total_tickets_sold"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	AverageCapacity  float64         `json:"average_capacity"`
}

// GetClubStats aggregates the club dashboard numbers: active event count,
// tickets sold, ticket revenue and average fill rate.
func (s *AdminService) GetClubStats(clubID string) (*ClubStats, error) {
	events, err := s.app.Dao().FindRecordsByFilter(
		"event",
		"club_id = {:clubId} && is_active = true",
		"",
		0,
		0,
		dbx.Params{"clubId": clubID},
	)
	if err != nil {
		return nil, err
	}

	tickets, err := s.app.Dao().FindRecordsByFilter(
		"ticket",
		"event_id.club_id = {:clubId}",
		"",
		0,
		0,
		dbx.Params{"clubId": clubID},
	)
	if err != nil {
		return nil, err
	}

	stats := &ClubStats{
		TotalEvents:  len(events),
		TotalRevenue: decimal.Zero,
	}

	fillRateSum := 0.0
	for _, event := range events {
		stats.TotalTicketsSold += event.GetInt("sold_tickets")
		if capacity := event.GetInt("max_capacity"); capacity > 0 {
			fillRateSum += float64(event.GetInt("sold_tickets")) / float64(capacity)
		}
	}
	if len(events) > 0 {
		stats.AverageCapacity = fillRateSum / float64(len(events))
	}

	for _, ticket := range tickets {
		stats.TotalRevenue = stats.TotalRevenue.Add(decimal.NewFromFloat(ticket.GetFloat("price")))
	}

	return stats, nil
}
