package services

import (
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"club-ticketing/models"
)

type TableReservationService struct {
	app core.App
}

func NewTableReservationService(app core.App) *TableReservationService {
	return &TableReservationService{app: app}
}

func (s *TableReservationService) GetByID(id string) (*models.TableReservation, error) {
	record, err := s.app.Dao().FindRecordById("table_reservation", id)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return models.TableReservationFromRecord(record), nil
}

func (s *TableReservationService) GetEventReservations(eventID string) ([]*models.TableReservation, error) {
	records, err := s.app.Dao().FindRecordsByFilter(
		"table_reservation",
		"event_id = {:eventId}",
		"table_number",
		0,
		0,
		dbx.Params{"eventId": eventID},
	)
	if err != nil {
		return nil, err
	}

	reservations := make([]*models.TableReservation, 0, len(records))
	for _, r := range records {
		reservations = append(reservations, models.TableReservationFromRecord(r))
	}
	return reservations, nil
}

func (s *TableReservationService) UpdateStatus(id, status string) (*models.TableReservation, error) {
	record, err := s.app.Dao().FindRecordById("table_reservation", id)
	if err != nil {
		return nil, normalizeErr(err)
	}

	record.Set("status", status)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}
	return models.TableReservationFromRecord(record), nil
}

func (s *TableReservationService) Confirm(id string) (*models.TableReservation, error) {
	return s.UpdateStatus(id, models.ReservationStatusConfirmed)
}

func (s *TableReservationService) Cancel(id string) (*models.TableReservation, error) {
	return s.UpdateStatus(id, models.ReservationStatusCancelled)
}
