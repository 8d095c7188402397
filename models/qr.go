package models

import (
	"time"

	pbmodels "github.com/pocketbase/pocketbase/models"
)

// QRMetadata carries the optional usage constraints embedded in a code.
// MaxUsage == 0 means unlimited; a nil ExpiresAt never expires.
type QRMetadata struct {
	Type       string     `json:"type"`
	Value      string     `json:"value"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	UsageCount int        `json:"usageCount"`
	MaxUsage   int        `json:"maxUsage"`
}

// QRPayload is the decoded content of one scanned code. It lives only for
// the duration of a scan session and is never a collection of its own;
// consumed scans are logged to qr_scan separately.
type QRPayload struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	ScannedAt time.Time  `json:"timestamp"`
	IsValid   bool       `json:"isValid"`
	Metadata  QRMetadata `json:"metadata"`
}

type QRScan struct {
	ID          string    `json:"id"`
	ScannerID   string    `json:"scanner_id"`
	Content     string    `json:"content"`
	PayloadType string    `json:"payload_type"`
	IsValid     bool      `json:"is_valid"`
	ScannedAt   time.Time `json:"scanned_at"`
}

func QRScanFromRecord(r *pbmodels.Record) *QRScan {
	return &QRScan{
		ID:          r.Id,
		ScannerID:   r.GetString("scanner_id"),
		Content:     r.GetString("content"),
		PayloadType: r.GetString("payload_type"),
		IsValid:     r.GetBool("is_valid"),
		ScannedAt:   r.GetDateTime("scanned_at").Time(),
	}
}
