package services

import (
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	pbmodels "github.com/pocketbase/pocketbase/models"

	"club-ticketing/models"
)

// QRScanService is the audit log behind the scan workflow. Every consumed
// scan leaves a row here regardless of payload type.
type QRScanService struct {
	app core.App
}

func NewQRScanService(app core.App) *QRScanService {
	return &QRScanService{app: app}
}

func (s *QRScanService) GetByID(id string) (*models.QRScan, error) {
	record, err := s.app.Dao().FindRecordById("qr_scan", id)
	if err != nil {
		return nil, normalizeErr(err)
	}
	return models.QRScanFromRecord(record), nil
}

func (s *QRScanService) GetScannerHistory(scannerID string, limit int) ([]*models.QRScan, error) {
	records, err := s.app.Dao().FindRecordsByFilter(
		"qr_scan",
		"scanner_id = {:scannerId}",
		"-scanned_at",
		limit,
		0,
		dbx.Params{"scannerId": scannerID},
	)
	if err != nil {
		return nil, err
	}

	scans := make([]*models.QRScan, 0, len(records))
	for _, r := range records {
		scans = append(scans, models.QRScanFromRecord(r))
	}
	return scans, nil
}

func (s *QRScanService) Log(scannerID, content, payloadType string, isValid bool, scannedAt time.Time) (*models.QRScan, error) {
	collection, err := s.app.Dao().FindCollectionByNameOrId("qr_scan")
	if err != nil {
		return nil, err
	}

	record := pbmodels.NewRecord(collection)
	record.Set("scanner_id", scannerID)
	record.Set("content", content)
	record.Set("payload_type", payloadType)
	record.Set("is_valid", isValid)
	record.Set("scanned_at", scannedAt)

	if err := s.app.Dao().SaveRecord(record); err != nil {
		return nil, err
	}
	return models.QRScanFromRecord(record), nil
}
