package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v5"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"

	"club-ticketing/services"
)

type QRHandler struct {
	app             *pocketbase.PocketBase
	qrService       *services.QRService
	scanService     *services.QRScanService
	identityService *services.IdentityService
}

func NewQRHandler(app *pocketbase.PocketBase, qrService *services.QRService, scanService *services.QRScanService, identityService *services.IdentityService) *QRHandler {
	return &QRHandler{
		app:             app,
		qrService:       qrService,
		scanService:     scanService,
		identityService: identityService,
	}
}

// Scan decodes a raw code and opens the scan session for this scanner.
// Further scans are rejected until the session is reset.
func (h *QRHandler) Scan(c echo.Context) error {
	identity, err := requireAdmin(h.identityService, c)
	if err != nil {
		return err
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.Content == "" {
		return apis.NewBadRequestError("Empty code", nil)
	}

	payload, err := h.qrService.BeginScan(c.Request().Context(), identity.Session.ID, req.Content)
	if err != nil {
		if errors.Is(err, services.ErrScanInProgress) {
			return c.JSON(http.StatusConflict, map[string]string{
				"error": "A scan is already in progress. Reset before scanning again.",
			})
		}
		return apis.NewBadRequestError("Failed to process scan", err)
	}

	return c.JSON(http.StatusOK, payload)
}

func (h *QRHandler) CurrentSession(c echo.Context) error {
	identity, err := requireAdmin(h.identityService, c)
	if err != nil {
		return err
	}

	payload, err := h.qrService.CurrentScan(c.Request().Context(), identity.Session.ID)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveScan) {
			return apis.NewNotFoundError("No active scan", err)
		}
		return apis.NewBadRequestError("Failed to load scan session", err)
	}

	return c.JSON(http.StatusOK, payload)
}

// Consume validates the open session's payload and marks it used.
func (h *QRHandler) Consume(c echo.Context) error {
	identity, err := requireAdmin(h.identityService, c)
	if err != nil {
		return err
	}

	payload, err := h.qrService.Consume(c.Request().Context(), identity.Session.ID)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveScan) {
			return apis.NewNotFoundError("No active scan", err)
		}
		if message, ok := rejectionMessage(err); ok {
			return c.JSON(http.StatusConflict, map[string]any{
				"valid":   false,
				"message": message,
				"payload": payload,
			})
		}
		return apis.NewBadRequestError("Failed to consume code", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"valid":   true,
		"payload": payload,
	})
}

func (h *QRHandler) Reset(c echo.Context) error {
	identity, err := requireAdmin(h.identityService, c)
	if err != nil {
		return err
	}

	if err := h.qrService.ResetScan(c.Request().Context(), identity.Session.ID); err != nil {
		return apis.NewBadRequestError("Failed to reset scan session", err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Scanner ready",
	})
}

// History lists the caller's persisted scans, newest first.
func (h *QRHandler) History(c echo.Context) error {
	identity, err := requireAdmin(h.identityService, c)
	if err != nil {
		return err
	}

	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	scans, err := h.scanService.GetScannerHistory(identity.Session.ID, limit)
	if err != nil {
		return apis.NewBadRequestError("Failed to load scan history", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"scans": scans,
	})
}

// rejectionMessage maps validation failures to the operator-facing text.
func rejectionMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, services.ErrUsageLimitReached):
		return "Ce QR code a atteint sa limite d'utilisation.", true
	case errors.Is(err, services.ErrCodeExpired):
		return "Ce QR code a expiré.", true
	case errors.Is(err, services.ErrAlreadyConsumed):
		return "Ce QR code a déjà été utilisé ou a expiré.", true
	default:
		return "", false
	}
}
