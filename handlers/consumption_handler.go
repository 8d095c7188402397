package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v5"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"

	"club-ticketing/services"
)

type ConsumptionHandler struct {
	app             *pocketbase.PocketBase
	typeService     *services.ConsumptionTypeService
	orderService    *services.ConsumptionOrderService
	ticketService   *services.ConsumptionTicketService
	identityService *services.IdentityService
}

func NewConsumptionHandler(app *pocketbase.PocketBase, typeService *services.ConsumptionTypeService, orderService *services.ConsumptionOrderService, ticketService *services.ConsumptionTicketService, identityService *services.IdentityService) *ConsumptionHandler {
	return &ConsumptionHandler{
		app:             app,
		typeService:     typeService,
		orderService:    orderService,
		ticketService:   ticketService,
		identityService: identityService,
	}
}

// ListClubTypes returns the active consumption catalog for a club.
func (h *ConsumptionHandler) ListClubTypes(c echo.Context) error {
	types, err := h.typeService.GetClubTypes(c.PathParam("id"))
	if err != nil {
		return apis.NewBadRequestError("Failed to load consumption types", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"types": types,
	})
}

// SetTypeActive toggles a catalog entry. Admin only.
func (h *ConsumptionHandler) SetTypeActive(c echo.Context) error {
	if _, err := requireAdmin(h.identityService, c); err != nil {
		return err
	}

	var req struct {
		Active bool `json:"active"`
	}
	if err := c.Bind(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	consumptionType, err := h.typeService.SetActive(c.PathParam("id"), req.Active)
	if err != nil {
		return notFoundOr(err, "Failed to update consumption type")
	}

	return c.JSON(http.StatusOK, consumptionType)
}

func (h *ConsumptionHandler) ListMyOrders(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}

	clubID := c.QueryParam("club_id")
	if clubID == "" {
		return apis.NewBadRequestError("club_id is required", nil)
	}

	orders, err := h.orderService.GetUserOrdersForClub(session.ID, clubID)
	if err != nil {
		return apis.NewBadRequestError("Failed to load orders", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"orders": orders,
	})
}

// GetOrder returns one order with its total recomputed from line items.
func (h *ConsumptionHandler) GetOrder(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.CalculateTotal(c.PathParam("id"))
	if err != nil {
		return notFoundOr(err, "Failed to load order")
	}

	if order.UserID != session.ID {
		identity := h.identityService.Resolve(session)
		if !identity.IsAdmin() {
			return apis.NewForbiddenError("Access denied", nil)
		}
	}

	return c.JSON(http.StatusOK, order)
}

func (h *ConsumptionHandler) CancelOrder(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}

	order, err := h.orderService.GetByID(c.PathParam("id"))
	if err != nil {
		return notFoundOr(err, "Failed to load order")
	}
	if order.UserID != session.ID {
		return apis.NewForbiddenError("Access denied", nil)
	}

	cancelled, err := h.orderService.Cancel(order.ID)
	if err != nil {
		return apis.NewBadRequestError("Failed to cancel order", err)
	}

	return c.JSON(http.StatusOK, cancelled)
}

// ConsumeTicket redeems a consumption ticket at the bar. Admin only.
func (h *ConsumptionHandler) ConsumeTicket(c echo.Context) error {
	if _, err := requireAdmin(h.identityService, c); err != nil {
		return err
	}

	ticket, err := h.ticketService.Consume(c.PathParam("id"))
	if err != nil {
		if errors.Is(err, services.ErrAlreadyConsumed) {
			return apis.NewBadRequestError("Ticket already consumed", err)
		}
		return notFoundOr(err, "Failed to consume ticket")
	}

	return c.JSON(http.StatusOK, ticket)
}

// IssueCode attaches a short validation code to a consumption ticket.
func (h *ConsumptionHandler) IssueCode(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}

	ticket, err := h.ticketService.GetByID(c.PathParam("id"))
	if err != nil {
		return notFoundOr(err, "Failed to load ticket")
	}
	if ticket.UserID != session.ID {
		return apis.NewForbiddenError("Access denied", nil)
	}

	issued, err := h.ticketService.IssueValidationCode(ticket.ID)
	if err != nil {
		return apis.NewBadRequestError("Failed to issue validation code", err)
	}

	return c.JSON(http.StatusOK, issued)
}
