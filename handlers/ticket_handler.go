package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"

	"club-ticketing/services"
)

type TicketHandler struct {
	app             *pocketbase.PocketBase
	ticketService   *services.TicketService
	eventService    *services.EventService
	identityService *services.IdentityService
}

func NewTicketHandler(app *pocketbase.PocketBase, ticketService *services.TicketService, eventService *services.EventService, identityService *services.IdentityService) *TicketHandler {
	return &TicketHandler{
		app:             app,
		ticketService:   ticketService,
		eventService:    eventService,
		identityService: identityService,
	}
}

// ListMyTickets returns the caller's tickets, scoped to one club when
// club_id is given.
func (h *TicketHandler) ListMyTickets(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}

	clubID := c.QueryParam("club_id")

	var tickets any
	if clubID != "" {
		tickets, err = h.ticketService.GetUserTicketsForClub(session.ID, clubID)
	} else {
		tickets, err = h.ticketService.GetAllUserTickets(session.ID)
	}
	if err != nil {
		return apis.NewBadRequestError("Failed to load tickets", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"tickets": tickets,
	})
}

func (h *TicketHandler) GetTicket(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}

	ticket, err := h.ticketService.GetByID(c.PathParam("id"))
	if err != nil {
		return notFoundOr(err, "Failed to load ticket")
	}

	if ticket.UserID != session.ID {
		identity := h.identityService.Resolve(session)
		if !identity.IsAdmin() {
			return apis.NewForbiddenError("Access denied", nil)
		}
	}

	return c.JSON(http.StatusOK, ticket)
}

// PurchasePresale issues a presale ticket while the presale window is
// open and capacity remains.
func (h *TicketHandler) PurchasePresale(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}

	var req struct {
		EventID string `json:"event_id"`
	}
	if err := c.Bind(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	event, err := h.eventService.GetByID(req.EventID)
	if err != nil {
		return notFoundOr(err, "Failed to load event")
	}

	if !event.PresaleOpen(time.Now()) {
		return apis.NewBadRequestError("Presale is closed for this event", nil)
	}
	if event.RemainingCapacity() <= 0 {
		return apis.NewBadRequestError("Event is sold out", nil)
	}

	ticket, err := h.ticketService.CreatePresale(session.ID, event.ID, event.TicketPrice)
	if err != nil {
		return apis.NewBadRequestError("Failed to create ticket", err)
	}

	if err := h.eventService.RecordSale(event.ID); err != nil {
		log.Printf("Error recording sale for event %s: %v", event.ID, err)
	}

	return c.JSON(http.StatusOK, ticket)
}

// ValidateTicket marks a ticket used at the door. Admin only.
func (h *TicketHandler) ValidateTicket(c echo.Context) error {
	if _, err := requireAdmin(h.identityService, c); err != nil {
		return err
	}

	ticket, err := h.ticketService.ValidateEntry(c.PathParam("id"))
	if err != nil {
		if errors.Is(err, services.ErrAlreadyConsumed) {
			return apis.NewBadRequestError("Ticket already used", err)
		}
		return notFoundOr(err, "Failed to validate ticket")
	}

	return c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) RefundTicket(c echo.Context) error {
	if _, err := requireAdmin(h.identityService, c); err != nil {
		return err
	}

	ticket, err := h.ticketService.Refund(c.PathParam("id"))
	if err != nil {
		return notFoundOr(err, "Failed to refund ticket")
	}

	return c.JSON(http.StatusOK, ticket)
}
