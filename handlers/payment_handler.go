package handlers

import (
	"net/http"

	"github.com/labstack/echo/v5"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/shopspring/decimal"

	"club-ticketing/models"
	"club-ticketing/services"
)

type PaymentHandler struct {
	app             *pocketbase.PocketBase
	paymentService  *services.PaymentService
	identityService *services.IdentityService
}

func NewPaymentHandler(app *pocketbase.PocketBase, paymentService *services.PaymentService, identityService *services.IdentityService) *PaymentHandler {
	return &PaymentHandler{
		app:             app,
		paymentService:  paymentService,
		identityService: identityService,
	}
}

func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}

	var req struct {
		Method string `json:"method"`
		Amount string `json:"amount"`
	}
	if err := c.Bind(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() {
		return apis.NewBadRequestError("Invalid amount", err)
	}

	payment, err := h.paymentService.Create(session.ID, req.Method, amount)
	if err != nil {
		return apis.NewBadRequestError("Failed to create payment", err)
	}

	return c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) GetPayment(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}

	payment, err := h.paymentService.GetByID(c.PathParam("id"))
	if err != nil {
		return notFoundOr(err, "Failed to load payment")
	}

	if payment.UserID != session.ID {
		identity := h.identityService.Resolve(session)
		if !identity.IsAdmin() {
			return apis.NewForbiddenError("Access denied", nil)
		}
	}

	return c.JSON(http.StatusOK, payment)
}

// CompletePayment marks a pending payment paid. Admin only.
func (h *PaymentHandler) CompletePayment(c echo.Context) error {
	if _, err := requireAdmin(h.identityService, c); err != nil {
		return err
	}

	payment, err := h.paymentService.Process(c.PathParam("id"), map[string]any{
		"status": models.PaymentStatusCompleted,
	})
	if err != nil {
		return notFoundOr(err, "Failed to complete payment")
	}

	return c.JSON(http.StatusOK, payment)
}

func (h *PaymentHandler) RefundPayment(c echo.Context) error {
	if _, err := requireAdmin(h.identityService, c); err != nil {
		return err
	}

	var req struct {
		RefundID string `json:"refund_id"`
	}
	if err := c.Bind(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	payment, err := h.paymentService.Refund(c.PathParam("id"), req.RefundID)
	if err != nil {
		return notFoundOr(err, "Failed to refund payment")
	}

	return c.JSON(http.StatusOK, payment)
}
