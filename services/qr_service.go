package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"club-ticketing/models"
	"club-ticketing/monitoring"
)

const (
	QRTypeText   = "text"
	QRTypeTicket = "ticket"
)

// qrWire is the base64-encoded JSON shape carried inside a code. Every key
// is optional; metadata may appear either nested or flattened at the top
// level.
type qrWire struct {
	ID         string      `json:"id"`
	IsValid    *bool       `json:"isValid"`
	Metadata   *qrWireMeta `json:"metadata"`
	Type       string      `json:"type"`
	Value      string      `json:"value"`
	ExpiresAt  string      `json:"expiresAt"`
	UsageCount int         `json:"usageCount"`
	MaxUsage   *int        `json:"maxUsage"`
}

type qrWireMeta struct {
	Type       string `json:"type"`
	Value      string `json:"value"`
	ExpiresAt  string `json:"expiresAt"`
	UsageCount int    `json:"usageCount"`
	MaxUsage   *int   `json:"maxUsage"`
}

// DecodePayload interprets raw scanner output. Base64-encoded JSON produces
// a structured payload; anything else is accepted as a valid plain-text
// code rather than rejected.
func DecodePayload(raw string, now time.Time) *models.QRPayload {
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		var wire qrWire
		if err := json.Unmarshal(decoded, &wire); err == nil {
			return payloadFromWire(raw, wire, now)
		}
	}

	return &models.QRPayload{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Content:   raw,
		ScannedAt: now,
		IsValid:   true,
		Metadata: models.QRMetadata{
			Type:  QRTypeText,
			Value: raw,
		},
	}
}

func payloadFromWire(raw string, wire qrWire, now time.Time) *models.QRPayload {
	payload := &models.QRPayload{
		ID:        wire.ID,
		Content:   raw,
		ScannedAt: now,
		IsValid:   wire.IsValid == nil || *wire.IsValid,
	}
	if payload.ID == "" {
		payload.ID = strconv.FormatInt(now.UnixMilli(), 10)
	}

	if wire.Metadata != nil {
		// An absent maxUsage means single use, same as the flat form;
		// zero stays unlimited only when spelled out.
		maxUsage := 1
		if wire.Metadata.MaxUsage != nil {
			maxUsage = *wire.Metadata.MaxUsage
		}
		payload.Metadata = models.QRMetadata{
			Type:       wire.Metadata.Type,
			Value:      wire.Metadata.Value,
			ExpiresAt:  parseExpiry(wire.Metadata.ExpiresAt),
			UsageCount: wire.Metadata.UsageCount,
			MaxUsage:   maxUsage,
		}
		return payload
	}

	// No metadata object: build one from the top-level keys, each
	// independently defaulted.
	payloadType := wire.Type
	if payloadType == "" {
		payloadType = "unknown"
	}
	value := wire.Value
	if value == "" {
		value = "N/A"
	}
	maxUsage := 1
	if wire.MaxUsage != nil {
		maxUsage = *wire.MaxUsage
	}

	payload.Metadata = models.QRMetadata{
		Type:       payloadType,
		Value:      value,
		ExpiresAt:  parseExpiry(wire.ExpiresAt),
		UsageCount: wire.UsageCount,
		MaxUsage:   maxUsage,
	}
	return payload
}

func parseExpiry(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	return &t
}

// ValidatePayload checks consumability. The usage limit takes precedence
// over expiry, and both take precedence over the embedded valid flag.
func ValidatePayload(p *models.QRPayload, now time.Time) error {
	if p.Metadata.MaxUsage > 0 && p.Metadata.UsageCount >= p.Metadata.MaxUsage {
		return ErrUsageLimitReached
	}
	if p.Metadata.ExpiresAt != nil && p.Metadata.ExpiresAt.Before(now) {
		return ErrCodeExpired
	}
	if !p.IsValid {
		return ErrAlreadyConsumed
	}
	return nil
}

type ticketConsumer interface {
	ValidateEntry(id string) (*models.Ticket, error)
}

type scanAuditor interface {
	Log(scannerID, content, payloadType string, isValid bool, scannedAt time.Time) (*models.QRScan, error)
}

// QRService drives one scan session per scanner: scanned -> decoded ->
// valid/invalid -> consumed. The session gate lives in Redis so a second
// camera read is ignored until the scanner resets, and consumption is
// persisted so a re-scan of the same code from any session fails durably.
type QRService struct {
	redis      *redis.Client
	tickets    ticketConsumer
	scans      scanAuditor
	sessionTTL time.Duration
}

func NewQRService(redisClient *redis.Client, tickets ticketConsumer, scans scanAuditor, sessionTTL time.Duration) *QRService {
	return &QRService{
		redis:      redisClient,
		tickets:    tickets,
		scans:      scans,
		sessionTTL: sessionTTL,
	}
}

func sessionKey(scannerID string) string {
	return fmt.Sprintf("qr:session:%s", scannerID)
}

// BeginScan decodes raw scanner output and opens the scan session. While a
// session is open further scans are rejected.
func (s *QRService) BeginScan(ctx context.Context, scannerID, raw string) (*models.QRPayload, error) {
	payload := DecodePayload(raw, time.Now())

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	ok, err := s.redis.SetNX(ctx, sessionKey(scannerID), data, s.sessionTTL).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrScanInProgress
	}

	monitoring.TrackScan("scanned")
	return payload, nil
}

func (s *QRService) CurrentScan(ctx context.Context, scannerID string) (*models.QRPayload, error) {
	data, err := s.redis.Get(ctx, sessionKey(scannerID)).Result()
	if err == redis.Nil {
		return nil, ErrNoActiveScan
	} else if err != nil {
		return nil, err
	}

	var payload models.QRPayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Consume validates the open session's payload and, on success, performs
// the durable consumption: flips validity, bumps the usage count, writes
// the audit row and marks ticket-typed payloads used in the store.
func (s *QRService) Consume(ctx context.Context, scannerID string) (*models.QRPayload, error) {
	payload, err := s.CurrentScan(ctx, scannerID)
	if err != nil {
		return nil, err
	}

	if err := ValidatePayload(payload, time.Now()); err != nil {
		monitoring.TrackScan(scanOutcome(err))
		return payload, err
	}

	if payload.Metadata.Type == QRTypeTicket {
		if _, err := s.tickets.ValidateEntry(payload.Metadata.Value); err != nil {
			monitoring.TrackScan(scanOutcome(err))
			return payload, err
		}
	}

	payload.IsValid = false
	payload.Metadata.UsageCount++

	if _, err := s.scans.Log(scannerID, payload.Content, payload.Metadata.Type, false, payload.ScannedAt); err != nil {
		return nil, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if err := s.redis.Set(ctx, sessionKey(scannerID), data, s.sessionTTL).Err(); err != nil {
		return nil, err
	}

	monitoring.TrackScan("consumed")
	return payload, nil
}

// ResetScan closes the session so the scanner can read the next code.
func (s *QRService) ResetScan(ctx context.Context, scannerID string) error {
	return s.redis.Del(ctx, sessionKey(scannerID)).Err()
}

func scanOutcome(err error) string {
	switch {
	case errors.Is(err, ErrUsageLimitReached):
		return "limit_reached"
	case errors.Is(err, ErrCodeExpired):
		return "expired"
	case errors.Is(err, ErrAlreadyConsumed):
		return "already_consumed"
	default:
		return "error"
	}
}
