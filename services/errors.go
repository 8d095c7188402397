package services

import (
	"database/sql"
	"errors"
)

var (
	// ErrNotFound maps the store's "no row" result so callers can tell it
	// apart from genuine query failures.
	ErrNotFound = errors.New("record not found")

	ErrNoClubs     = errors.New("club: no clubs available")
	ErrUnknownClub = errors.New("club: unknown club id")

	ErrScanInProgress    = errors.New("qr: a scan is already in progress")
	ErrNoActiveScan      = errors.New("qr: no active scan session")
	ErrAlreadyConsumed   = errors.New("qr: code already consumed")
	ErrUsageLimitReached = errors.New("qr: usage limit reached")
	ErrCodeExpired       = errors.New("qr: code expired")

	ErrEventNotActive    = errors.New("event: event is not active")
	ErrEventNotCancelled = errors.New("event: event is not cancelled")
)

func normalizeErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
