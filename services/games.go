package services

import (
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	pbmodels "github.com/pocketbase/pocketbase/models"
	"github.com/pocketbase/pocketbase/tools/types"

	"club-ticketing/models"
)

type GameService struct {
	app core.App
}

func NewGameService(app core.App) *GameService {
	return &GameService{app: app}
}

func (s *GameService) GetByID(id string) (*models.Game, error) {
	record, err := s.app.Dao().FindRecordById("game", id)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return models.GameFromRecord(record), nil
}

func (s *GameService) GetClubGames(clubID string) ([]*models.Game, error) {
	records, err := s.app.Dao().FindRecordsByFilter(
		"game",
		"club_id = {:clubId}",
		"-created",
		0,
		0,
		dbx.Params{"clubId": clubID},
	)
	if err != nil {
		return nil, err
	}

	games := make([]*models.Game, 0, len(records))
	for _, r := range records {
		games = append(games, models.GameFromRecord(r))
	}
	return games, nil
}

func (s *GameService) Start(id string) (*models.Game, error) {
	record, err := s.app.Dao().FindRecordById("game", id)
	if err != nil {
		return nil, normalizeErr(err)
	}

	record.Set("is_active", true)
	record.Set("start_date", types.NowDateTime())

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}
	return models.GameFromRecord(record), nil
}

func (s *GameService) End(id string) (*models.Game, error) {
	record, err := s.app.Dao().FindRecordById("game", id)
	if err != nil {
		return nil, normalizeErr(err)
	}

	record.Set("is_active", false)
	record.Set("end_date", types.NowDateTime())

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}
	return models.GameFromRecord(record), nil
}

func (s *GameService) SelectWinner(id, winnerID string) (*models.Game, error) {
	record, err := s.app.Dao().FindRecordById("game", id)
	if err != nil {
		return nil, normalizeErr(err)
	}

	record.Set("winner_id", winnerID)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}
	return models.GameFromRecord(record), nil
}

type GameParticipationService struct {
	app core.App
}

func NewGameParticipationService(app core.App) *GameParticipationService {
	return &GameParticipationService{app: app}
}

func (s *GameParticipationService) GetByID(id string) (*models.GameParticipation, error) {
	record, err := s.app.Dao().FindRecordById("game_participation", id)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return models.GameParticipationFromRecord(record), nil
}

func (s *GameParticipationService) Participate(gameID, userID string) (*models.GameParticipation, error) {
	collection, err := s.app.Dao().FindCollectionByNameOrId("game_participation")
	if err != nil {
		return nil, err
	}

	record := pbmodels.NewRecord(collection)
	record.Set("game_id", gameID)
	record.Set("user_id", userID)
	record.Set("is_winner", false)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}
	return models.GameParticipationFromRecord(record), nil
}

func (s *GameParticipationService) ClaimPrize(id, prize string) (*models.GameParticipation, error) {
	record, err := s.app.Dao().FindRecordById("game_participation", id)
	if err != nil {
		return nil, normalizeErr(err)
	}

	record.Set("is_winner", true)
	record.Set("prize_won", prize)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}
	return models.GameParticipationFromRecord(record), nil
}
