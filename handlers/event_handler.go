package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/shopspring/decimal"

	"club-ticketing/services"
)

type EventHandler struct {
	app             *pocketbase.PocketBase
	eventService    *services.EventService
	refundService   *services.RefundService
	identityService *services.IdentityService
}

func NewEventHandler(app *pocketbase.PocketBase, eventService *services.EventService, refundService *services.RefundService, identityService *services.IdentityService) *EventHandler {
	return &EventHandler{
		app:             app,
		eventService:    eventService,
		refundService:   refundService,
		identityService: identityService,
	}
}

// ListEvents returns active events, optionally scoped to one club.
func (h *EventHandler) ListEvents(c echo.Context) error {
	clubID := c.QueryParam("club_id")

	var (
		events any
		err    error
	)
	if clubID != "" {
		events, err = h.eventService.GetClubEvents(clubID)
	} else {
		events, err = h.eventService.GetAll()
	}
	if err != nil {
		return apis.NewBadRequestError("Failed to load events", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"events": events,
	})
}

func (h *EventHandler) GetEvent(c echo.Context) error {
	event, err := h.eventService.GetByID(c.PathParam("id"))
	if err != nil {
		return notFoundOr(err, "Failed to load event")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"event":              event,
		"remaining_capacity": event.RemainingCapacity(),
		"presale_open":       event.PresaleOpen(time.Now()),
	})
}

func (h *EventHandler) CreateEvent(c echo.Context) error {
	identity, err := requireAdmin(h.identityService, c)
	if err != nil {
		return err
	}

	var req struct {
		Name           string    `json:"name"`
		Description    string    `json:"description"`
		EventDate      time.Time `json:"event_date"`
		PresaleEndTime time.Time `json:"presale_end_time"`
		TicketPrice    string    `json:"ticket_price"`
		MaxCapacity    int       `json:"max_capacity"`
		ImageURL       string    `json:"image_url"`
	}
	if err := c.Bind(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.Name == "" || req.MaxCapacity <= 0 {
		return apis.NewBadRequestError("Name and a positive capacity are required", nil)
	}

	price, err := decimal.NewFromString(req.TicketPrice)
	if err != nil {
		return apis.NewBadRequestError("Invalid ticket price", err)
	}

	// Admins always create events for their own club.
	event, err := h.eventService.Create(services.CreateEventParams{
		ClubID:         identity.Admin.ClubID,
		Name:           req.Name,
		Description:    req.Description,
		EventDate:      req.EventDate,
		PresaleEndTime: req.PresaleEndTime,
		TicketPrice:    price,
		MaxCapacity:    req.MaxCapacity,
		ImageURL:       req.ImageURL,
	})
	if err != nil {
		return apis.NewBadRequestError("Failed to create event", err)
	}

	return c.JSON(http.StatusOK, event)
}

func (h *EventHandler) ClosePresale(c echo.Context) error {
	if _, err := requireAdmin(h.identityService, c); err != nil {
		return err
	}

	event, err := h.eventService.ClosePresale(c.PathParam("id"))
	if err != nil {
		return notFoundOr(err, "Failed to close presale")
	}

	return c.JSON(http.StatusOK, event)
}

// CancelEvent cancels an active event and starts its refund pipeline.
func (h *EventHandler) CancelEvent(c echo.Context) error {
	if _, err := requireAdmin(h.identityService, c); err != nil {
		return err
	}

	event, err := h.refundService.Cancel(c.PathParam("id"))
	if err != nil {
		if errors.Is(err, services.ErrEventNotActive) {
			return apis.NewBadRequestError("Event is not active", err)
		}
		return notFoundOr(err, "Failed to cancel event")
	}

	return c.JSON(http.StatusOK, event)
}

// ReactivateEvent aborts a cancellation, clearing refund state.
func (h *EventHandler) ReactivateEvent(c echo.Context) error {
	if _, err := requireAdmin(h.identityService, c); err != nil {
		return err
	}

	event, err := h.refundService.Reactivate(c.PathParam("id"))
	if err != nil {
		if errors.Is(err, services.ErrEventNotCancelled) {
			return apis.NewBadRequestError("Event is not cancelled", err)
		}
		return notFoundOr(err, "Failed to reactivate event")
	}

	return c.JSON(http.StatusOK, event)
}
