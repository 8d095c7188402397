package handlers

import (
	"net/http"

	"github.com/labstack/echo/v5"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"

	"club-ticketing/services"
)

type AdminHandler struct {
	app             *pocketbase.PocketBase
	adminService    *services.AdminService
	profileService  *services.ProfileService
	identityService *services.IdentityService
}

func NewAdminHandler(app *pocketbase.PocketBase, adminService *services.AdminService, profileService *services.ProfileService, identityService *services.IdentityService) *AdminHandler {
	return &AdminHandler{
		app:             app,
		adminService:    adminService,
		profileService:  profileService,
		identityService: identityService,
	}
}

// GetClubStats returns the dashboard aggregates for the admin's own club.
func (h *AdminHandler) GetClubStats(c echo.Context) error {
	identity, err := requireAdmin(h.identityService, c)
	if err != nil {
		return err
	}

	stats, err := h.adminService.GetClubStats(identity.Admin.ClubID)
	if err != nil {
		return apis.NewBadRequestError("Failed to load club stats", err)
	}

	return c.JSON(http.StatusOK, stats)
}

// FindProfile looks a user profile up by email, for the identity
// verification flow.
func (h *AdminHandler) FindProfile(c echo.Context) error {
	if _, err := requireAdmin(h.identityService, c); err != nil {
		return err
	}

	email := c.QueryParam("email")
	if email == "" {
		return apis.NewBadRequestError("email is required", nil)
	}

	profile, err := h.profileService.GetByEmail(email)
	if err != nil {
		return notFoundOr(err, "Failed to load profile")
	}

	return c.JSON(http.StatusOK, profile)
}

// VerifyProfile marks a user's identity document as reviewed.
func (h *AdminHandler) VerifyProfile(c echo.Context) error {
	if _, err := requireAdmin(h.identityService, c); err != nil {
		return err
	}

	profile, err := h.profileService.VerifyIdentity(c.PathParam("id"))
	if err != nil {
		return notFoundOr(err, "Failed to verify profile")
	}

	return c.JSON(http.StatusOK, profile)
}
