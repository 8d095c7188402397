package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"club-ticketing/models"
)

func encodePayload(t *testing.T, wire map[string]any) string {
	t.Helper()
	data, err := json.Marshal(wire)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(data)
}

func TestDecodePayload_StructuredWithMetadata(t *testing.T) {
	now := time.Now()
	raw := encodePayload(t, map[string]any{
		"id":      "qr-1",
		"isValid": true,
		"metadata": map[string]any{
			"type":       "ticket",
			"value":      "tkt123",
			"usageCount": 0,
			"maxUsage":   1,
		},
	})

	payload := DecodePayload(raw, now)

	assert.Equal(t, "qr-1", payload.ID)
	assert.Equal(t, raw, payload.Content)
	assert.True(t, payload.IsValid)
	assert.Equal(t, "ticket", payload.Metadata.Type)
	assert.Equal(t, "tkt123", payload.Metadata.Value)
	assert.Equal(t, 1, payload.Metadata.MaxUsage)
	assert.Nil(t, payload.Metadata.ExpiresAt)
}

// Metadata defaults apply only when no metadata object is present; each
// top-level key is defaulted independently.
func TestDecodePayload_TopLevelDefaults(t *testing.T) {
	now := time.Now()
	raw := encodePayload(t, map[string]any{
		"value": "something",
	})

	payload := DecodePayload(raw, now)

	assert.NotEmpty(t, payload.ID) // generated from the scan time
	assert.True(t, payload.IsValid)
	assert.Equal(t, "unknown", payload.Metadata.Type)
	assert.Equal(t, "something", payload.Metadata.Value)
	assert.Equal(t, 1, payload.Metadata.MaxUsage)
	assert.Equal(t, 0, payload.Metadata.UsageCount)
}

func TestDecodePayload_EmptyObjectDefaults(t *testing.T) {
	payload := DecodePayload(encodePayload(t, map[string]any{}), time.Now())

	assert.True(t, payload.IsValid)
	assert.Equal(t, "unknown", payload.Metadata.Type)
	assert.Equal(t, "N/A", payload.Metadata.Value)
	assert.Equal(t, 1, payload.Metadata.MaxUsage)
}

// A metadata object present in the wire payload is used as-is for type
// and value; the top-level "unknown"/"N/A" defaults do not leak into it.
// An absent maxUsage still defaults to single use, so a code like
// metadata:{type:"drink"} cannot be consumed without limit.
func TestDecodePayload_MetadataWholesale(t *testing.T) {
	raw := encodePayload(t, map[string]any{
		"metadata": map[string]any{
			"type": "drink",
		},
	})

	payload := DecodePayload(raw, time.Now())

	assert.Equal(t, "drink", payload.Metadata.Type)
	assert.Equal(t, "", payload.Metadata.Value)
	assert.Equal(t, 1, payload.Metadata.MaxUsage)
}

// Unlimited usage has to be spelled out; it is never the default.
func TestDecodePayload_ExplicitUnlimitedMaxUsage(t *testing.T) {
	raw := encodePayload(t, map[string]any{
		"metadata": map[string]any{
			"type":     "drink",
			"maxUsage": 0,
		},
	})

	payload := DecodePayload(raw, time.Now())

	assert.Equal(t, 0, payload.Metadata.MaxUsage)
}

// Anything that is not base64 JSON is accepted as a valid plain-text code.
func TestDecodePayload_PlainTextFallback(t *testing.T) {
	now := time.Now()

	payload := DecodePayload("hello world", now)

	assert.True(t, payload.IsValid)
	assert.Equal(t, "hello world", payload.Content)
	assert.Equal(t, QRTypeText, payload.Metadata.Type)
	assert.Equal(t, "hello world", payload.Metadata.Value)
}

// Valid base64 that does not decode to JSON also falls back to text.
func TestDecodePayload_Base64NonJSONFallback(t *testing.T) {
	raw := base64.StdEncoding.EncodeToString([]byte("not json at all"))

	payload := DecodePayload(raw, time.Now())

	assert.Equal(t, QRTypeText, payload.Metadata.Type)
	assert.Equal(t, raw, payload.Metadata.Value)
}

func TestDecodePayload_ExpiryParsing(t *testing.T) {
	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	raw := encodePayload(t, map[string]any{
		"metadata": map[string]any{
			"type":      "ticket",
			"value":     "tkt123",
			"expiresAt": expiry.Format(time.RFC3339),
			"maxUsage":  1,
		},
	})

	payload := DecodePayload(raw, time.Now())

	require.NotNil(t, payload.Metadata.ExpiresAt)
	assert.True(t, payload.Metadata.ExpiresAt.Equal(expiry))
}

func TestDecodePayload_MalformedExpiryIgnored(t *testing.T) {
	raw := encodePayload(t, map[string]any{
		"metadata": map[string]any{
			"type":      "ticket",
			"value":     "tkt123",
			"expiresAt": "tomorrow",
		},
	})

	payload := DecodePayload(raw, time.Now())

	assert.Nil(t, payload.Metadata.ExpiresAt)
}

func TestValidatePayload(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name    string
		payload *models.QRPayload
		wantErr error
	}{
		{
			name: "valid single use",
			payload: &models.QRPayload{
				IsValid:  true,
				Metadata: models.QRMetadata{MaxUsage: 1},
			},
			wantErr: nil,
		},
		{
			name: "usage limit reached",
			payload: &models.QRPayload{
				IsValid:  true,
				Metadata: models.QRMetadata{UsageCount: 1, MaxUsage: 1},
			},
			wantErr: ErrUsageLimitReached,
		},
		{
			name: "expired",
			payload: &models.QRPayload{
				IsValid:  true,
				Metadata: models.QRMetadata{ExpiresAt: &past, MaxUsage: 1},
			},
			wantErr: ErrCodeExpired,
		},
		{
			name: "flagged invalid",
			payload: &models.QRPayload{
				IsValid:  false,
				Metadata: models.QRMetadata{MaxUsage: 1},
			},
			wantErr: ErrAlreadyConsumed,
		},
		{
			// Usage limit wins over expiry when both apply.
			name: "limit beats expiry",
			payload: &models.QRPayload{
				IsValid:  true,
				Metadata: models.QRMetadata{ExpiresAt: &past, UsageCount: 2, MaxUsage: 2},
			},
			wantErr: ErrUsageLimitReached,
		},
		{
			// Expiry wins over the embedded flag.
			name: "expiry beats invalid flag",
			payload: &models.QRPayload{
				IsValid:  false,
				Metadata: models.QRMetadata{ExpiresAt: &past, MaxUsage: 1},
			},
			wantErr: ErrCodeExpired,
		},
		{
			name: "unlimited usage skips limit check",
			payload: &models.QRPayload{
				IsValid:  true,
				Metadata: models.QRMetadata{UsageCount: 99, MaxUsage: 0, ExpiresAt: &future},
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePayload(tt.payload, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

type stubTicketConsumer struct {
	err    error
	called []string
}

func (s *stubTicketConsumer) ValidateEntry(id string) (*models.Ticket, error) {
	s.called = append(s.called, id)
	if s.err != nil {
		return nil, s.err
	}
	return &models.Ticket{ID: id, IsUsed: true}, nil
}

type stubScanAuditor struct {
	logged int
	err    error
}

func (s *stubScanAuditor) Log(scannerID, content, payloadType string, isValid bool, scannedAt time.Time) (*models.QRScan, error) {
	s.logged++
	if s.err != nil {
		return nil, s.err
	}
	return &models.QRScan{ScannerID: scannerID, Content: content}, nil
}

func TestQRService_BeginScan(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewQRService(db, &stubTicketConsumer{}, &stubScanAuditor{}, 15*time.Minute)

	mock.Regexp().ExpectSetNX("qr:session:scanner1", `.*`, 15*time.Minute).SetVal(true)

	payload, err := svc.BeginScan(context.Background(), "scanner1", "hello")

	require.NoError(t, err)
	assert.True(t, payload.IsValid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQRService_BeginScan_SessionAlreadyOpen(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewQRService(db, &stubTicketConsumer{}, &stubScanAuditor{}, 15*time.Minute)

	mock.Regexp().ExpectSetNX("qr:session:scanner1", `.*`, 15*time.Minute).SetVal(false)

	_, err := svc.BeginScan(context.Background(), "scanner1", "hello")

	assert.ErrorIs(t, err, ErrScanInProgress)
}

func TestQRService_CurrentScan_NoSession(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewQRService(db, &stubTicketConsumer{}, &stubScanAuditor{}, 15*time.Minute)

	mock.ExpectGet("qr:session:scanner1").RedisNil()

	_, err := svc.CurrentScan(context.Background(), "scanner1")

	assert.ErrorIs(t, err, ErrNoActiveScan)
}

func sessionJSON(t *testing.T, payload *models.QRPayload) string {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return string(data)
}

func TestQRService_Consume(t *testing.T) {
	db, mock := redismock.NewClientMock()
	tickets := &stubTicketConsumer{}
	scans := &stubScanAuditor{}
	svc := NewQRService(db, tickets, scans, 15*time.Minute)

	stored := &models.QRPayload{
		ID:        "qr-1",
		Content:   "raw",
		ScannedAt: time.Now(),
		IsValid:   true,
		Metadata: models.QRMetadata{
			Type:     QRTypeTicket,
			Value:    "tkt123",
			MaxUsage: 1,
		},
	}

	mock.ExpectGet("qr:session:scanner1").SetVal(sessionJSON(t, stored))
	mock.Regexp().ExpectSet("qr:session:scanner1", `.*`, 15*time.Minute).SetVal("OK")

	payload, err := svc.Consume(context.Background(), "scanner1")

	require.NoError(t, err)
	assert.False(t, payload.IsValid)
	assert.Equal(t, 1, payload.Metadata.UsageCount)
	assert.Equal(t, []string{"tkt123"}, tickets.called)
	assert.Equal(t, 1, scans.logged)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQRService_Consume_TicketAlreadyUsed(t *testing.T) {
	db, mock := redismock.NewClientMock()
	tickets := &stubTicketConsumer{err: ErrAlreadyConsumed}
	scans := &stubScanAuditor{}
	svc := NewQRService(db, tickets, scans, 15*time.Minute)

	stored := &models.QRPayload{
		ID:      "qr-1",
		IsValid: true,
		Metadata: models.QRMetadata{
			Type:     QRTypeTicket,
			Value:    "tkt123",
			MaxUsage: 1,
		},
	}

	mock.ExpectGet("qr:session:scanner1").SetVal(sessionJSON(t, stored))

	_, err := svc.Consume(context.Background(), "scanner1")

	assert.ErrorIs(t, err, ErrAlreadyConsumed)
	assert.Equal(t, 0, scans.logged)
}

func TestQRService_Consume_TextTypeSkipsTicketStore(t *testing.T) {
	db, mock := redismock.NewClientMock()
	tickets := &stubTicketConsumer{}
	scans := &stubScanAuditor{}
	svc := NewQRService(db, tickets, scans, 15*time.Minute)

	stored := &models.QRPayload{
		ID:      "qr-2",
		IsValid: true,
		Metadata: models.QRMetadata{
			Type:     QRTypeText,
			Value:    "hello",
			MaxUsage: 1,
		},
	}

	mock.ExpectGet("qr:session:scanner1").SetVal(sessionJSON(t, stored))
	mock.Regexp().ExpectSet("qr:session:scanner1", `.*`, 15*time.Minute).SetVal("OK")

	payload, err := svc.Consume(context.Background(), "scanner1")

	require.NoError(t, err)
	assert.Empty(t, tickets.called)
	assert.False(t, payload.IsValid)
	assert.Equal(t, 1, scans.logged)
}

func TestQRService_Consume_RejectedPayloadNotLogged(t *testing.T) {
	db, mock := redismock.NewClientMock()
	scans := &stubScanAuditor{}
	svc := NewQRService(db, &stubTicketConsumer{}, scans, 15*time.Minute)

	stored := &models.QRPayload{
		ID:      "qr-3",
		IsValid: true,
		Metadata: models.QRMetadata{
			Type:       QRTypeText,
			Value:      "spent",
			UsageCount: 1,
			MaxUsage:   1,
		},
	}

	mock.ExpectGet("qr:session:scanner1").SetVal(sessionJSON(t, stored))

	_, err := svc.Consume(context.Background(), "scanner1")

	assert.ErrorIs(t, err, ErrUsageLimitReached)
	assert.Equal(t, 0, scans.logged)
}

func TestQRService_ResetScan(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewQRService(db, &stubTicketConsumer{}, &stubScanAuditor{}, 15*time.Minute)

	mock.ExpectDel("qr:session:scanner1").SetVal(1)

	assert.NoError(t, svc.ResetScan(context.Background(), "scanner1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
