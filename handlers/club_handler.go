package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v5"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"

	"club-ticketing/services"
)

type ClubHandler struct {
	app              *pocketbase.PocketBase
	clubService      *services.ClubService
	selectionService *services.ClubSelectionService
}

func NewClubHandler(app *pocketbase.PocketBase, clubService *services.ClubService, selectionService *services.ClubSelectionService) *ClubHandler {
	return &ClubHandler{
		app:              app,
		clubService:      clubService,
		selectionService: selectionService,
	}
}

func (h *ClubHandler) ListClubs(c echo.Context) error {
	clubs, err := h.clubService.GetActive()
	if err != nil {
		return apis.NewBadRequestError("Failed to load clubs", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"clubs": clubs,
	})
}

func (h *ClubHandler) GetClub(c echo.Context) error {
	club, err := h.clubService.GetByID(c.PathParam("id"))
	if err != nil {
		return notFoundOr(err, "Failed to load club")
	}

	return c.JSON(http.StatusOK, club)
}

// GetSelectedClub returns the caller's active club, falling back to the
// first available club when nothing valid is persisted.
func (h *ClubHandler) GetSelectedClub(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}

	club, err := h.selectionService.Resolve(c.Request().Context(), session.ID)
	if err != nil {
		if errors.Is(err, services.ErrNoClubs) {
			return apis.NewNotFoundError("No clubs available", err)
		}
		return apis.NewBadRequestError("Failed to resolve club selection", err)
	}

	return c.JSON(http.StatusOK, club)
}

func (h *ClubHandler) SelectClub(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}

	var req struct {
		ClubID string `json:"club_id"`
	}
	if err := c.Bind(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	club, err := h.selectionService.Select(c.Request().Context(), session.ID, req.ClubID)
	if err != nil {
		if errors.Is(err, services.ErrUnknownClub) {
			return apis.NewBadRequestError("Unknown club", err)
		}
		return apis.NewBadRequestError("Failed to select club", err)
	}

	return c.JSON(http.StatusOK, club)
}

func (h *ClubHandler) ClearSelection(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}

	if err := h.selectionService.Clear(c.Request().Context(), session.ID); err != nil {
		return apis.NewBadRequestError("Failed to clear club selection", err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Selection cleared",
	})
}
