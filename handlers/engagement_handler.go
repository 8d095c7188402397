package handlers

import (
	"net/http"

	"github.com/labstack/echo/v5"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"

	"club-ticketing/models"
	"club-ticketing/services"
)

// EngagementHandler groups the in-club engagement surface: games,
// loyalty points, notifications and table reservations.
type EngagementHandler struct {
	app                  *pocketbase.PocketBase
	gameService          *services.GameService
	participationService *services.GameParticipationService
	loyaltyService       *services.LoyaltyTransactionService
	profileService       *services.ProfileService
	notificationService  *services.NotificationService
	reservationService   *services.TableReservationService
	identityService      *services.IdentityService
}

func NewEngagementHandler(
	app *pocketbase.PocketBase,
	gameService *services.GameService,
	participationService *services.GameParticipationService,
	loyaltyService *services.LoyaltyTransactionService,
	profileService *services.ProfileService,
	notificationService *services.NotificationService,
	reservationService *services.TableReservationService,
	identityService *services.IdentityService,
) *EngagementHandler {
	return &EngagementHandler{
		app:                  app,
		gameService:          gameService,
		participationService: participationService,
		loyaltyService:       loyaltyService,
		profileService:       profileService,
		notificationService:  notificationService,
		reservationService:   reservationService,
		identityService:      identityService,
	}
}

func (h *EngagementHandler) ListClubGames(c echo.Context) error {
	games, err := h.gameService.GetClubGames(c.PathParam("id"))
	if err != nil {
		return apis.NewBadRequestError("Failed to load games", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"games": games,
	})
}

// StartGame opens a game for participation.
func (h *EngagementHandler) StartGame(c echo.Context) error {
	if _, err := requireAdmin(h.identityService, c); err != nil {
		return err
	}

	game, err := h.gameService.Start(c.PathParam("id"))
	if err != nil {
		return notFoundOr(err, "Failed to start game")
	}

	return c.JSON(http.StatusOK, game)
}

func (h *EngagementHandler) Participate(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}

	game, err := h.gameService.GetByID(c.PathParam("id"))
	if err != nil {
		return notFoundOr(err, "Failed to load game")
	}
	if !game.IsActive {
		return apis.NewBadRequestError("Game is not running", nil)
	}

	participation, err := h.participationService.Participate(game.ID, session.ID)
	if err != nil {
		return apis.NewBadRequestError("Failed to join game", err)
	}

	return c.JSON(http.StatusOK, participation)
}

// SelectWinner closes a game and records the winning participation.
func (h *EngagementHandler) SelectWinner(c echo.Context) error {
	if _, err := requireAdmin(h.identityService, c); err != nil {
		return err
	}

	var req struct {
		WinnerID string `json:"winner_id"`
		Prize    string `json:"prize"`
	}
	if err := c.Bind(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	game, err := h.gameService.SelectWinner(c.PathParam("id"), req.WinnerID)
	if err != nil {
		return notFoundOr(err, "Failed to select winner")
	}

	if req.Prize != "" {
		if _, err := h.participationService.ClaimPrize(req.WinnerID, req.Prize); err != nil {
			return apis.NewBadRequestError("Failed to record prize", err)
		}
	}

	if _, err := h.gameService.End(game.ID); err != nil {
		return apis.NewBadRequestError("Failed to end game", err)
	}

	return c.JSON(http.StatusOK, game)
}

func (h *EngagementHandler) ListLoyaltyTransactions(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}

	transactions, err := h.loyaltyService.GetUserTransactions(session.ID)
	if err != nil {
		return apis.NewBadRequestError("Failed to load loyalty transactions", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"transactions": transactions,
		"balance":      loyaltyBalance(transactions),
	})
}

// CashoutLoyalty spends points from the caller's balance. The spend is
// recorded as a transaction and mirrored on the profile's point counter.
func (h *EngagementHandler) CashoutLoyalty(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}

	var req struct {
		Points int `json:"points"`
	}
	if err := c.Bind(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.Points <= 0 {
		return apis.NewBadRequestError("Points must be positive", nil)
	}

	transactions, err := h.loyaltyService.GetUserTransactions(session.ID)
	if err != nil {
		return apis.NewBadRequestError("Failed to load loyalty transactions", err)
	}
	balance := loyaltyBalance(transactions)
	if req.Points > balance {
		return apis.NewBadRequestError("Insufficient loyalty balance", nil)
	}

	transaction, err := h.loyaltyService.Cashout(session.ID, req.Points)
	if err != nil {
		return apis.NewBadRequestError("Failed to cash out points", err)
	}

	if _, err := h.profileService.AddLoyaltyPoints(session.ID, -req.Points); err != nil {
		return apis.NewBadRequestError("Failed to update loyalty balance", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"transaction": transaction,
		"balance":     balance - req.Points,
	})
}

func loyaltyBalance(transactions []*models.LoyaltyTransaction) int {
	balance := 0
	for _, tx := range transactions {
		balance += tx.NetPoints()
	}
	return balance
}

func (h *EngagementHandler) ListNotifications(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}

	notifications, err := h.notificationService.GetUserNotifications(session.ID)
	if err != nil {
		return apis.NewBadRequestError("Failed to load notifications", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"notifications": notifications,
	})
}

func (h *EngagementHandler) MarkNotificationRead(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}

	notification, err := h.notificationService.GetByID(c.PathParam("id"))
	if err != nil {
		return notFoundOr(err, "Failed to load notification")
	}
	if notification.UserID != session.ID {
		return apis.NewForbiddenError("Access denied", nil)
	}

	updated, err := h.notificationService.MarkAsRead(notification.ID)
	if err != nil {
		return apis.NewBadRequestError("Failed to mark notification read", err)
	}

	return c.JSON(http.StatusOK, updated)
}

func (h *EngagementHandler) ListEventReservations(c echo.Context) error {
	if _, err := requireAdmin(h.identityService, c); err != nil {
		return err
	}

	reservations, err := h.reservationService.GetEventReservations(c.PathParam("id"))
	if err != nil {
		return apis.NewBadRequestError("Failed to load reservations", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"reservations": reservations,
	})
}

func (h *EngagementHandler) ConfirmReservation(c echo.Context) error {
	if _, err := requireAdmin(h.identityService, c); err != nil {
		return err
	}

	reservation, err := h.reservationService.Confirm(c.PathParam("id"))
	if err != nil {
		return notFoundOr(err, "Failed to confirm reservation")
	}

	return c.JSON(http.StatusOK, reservation)
}

func (h *EngagementHandler) CancelReservation(c echo.Context) error {
	if _, err := requireAdmin(h.identityService, c); err != nil {
		return err
	}

	reservation, err := h.reservationService.Cancel(c.PathParam("id"))
	if err != nil {
		return notFoundOr(err, "Failed to cancel reservation")
	}

	return c.JSON(http.StatusOK, reservation)
}
