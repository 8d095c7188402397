package handlers

import (
	"net/http"

	"github.com/labstack/echo/v5"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"

	"club-ticketing/services"
)

type IdentityHandler struct {
	app             *pocketbase.PocketBase
	identityService *services.IdentityService
}

func NewIdentityHandler(app *pocketbase.PocketBase, identityService *services.IdentityService) *IdentityHandler {
	return &IdentityHandler{
		app:             app,
		identityService: identityService,
	}
}

// GetMe resolves the caller's identity: admin, user, or neither.
func (h *IdentityHandler) GetMe(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}

	identity := h.identityService.Resolve(session)

	return c.JSON(http.StatusOK, map[string]any{
		"user_type":     identity.Type,
		"display_name":  identity.DisplayName(),
		"profile":       identity.Profile,
		"admin_profile": identity.Admin,
	})
}

func (h *IdentityHandler) UpdateProfile(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}

	var req struct {
		Firstname       *string `json:"firstname"`
		Lastname        *string `json:"lastname"`
		Phone           *string `json:"phone"`
		IdentityCardURL *string `json:"identity_card_url"`
	}
	if err := c.Bind(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	updates := map[string]any{}
	if req.Firstname != nil {
		updates["firstname"] = *req.Firstname
	}
	if req.Lastname != nil {
		updates["lastname"] = *req.Lastname
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.IdentityCardURL != nil {
		updates["identity_card_url"] = *req.IdentityCardURL
	}
	if len(updates) == 0 {
		return apis.NewBadRequestError("No fields to update", nil)
	}

	h.identityService.Resolve(session)

	profile, err := h.identityService.UpdateProfile(session, updates)
	if err != nil {
		return apis.NewBadRequestError("Failed to update profile", err)
	}

	return c.JSON(http.StatusOK, profile)
}

func (h *IdentityHandler) UpdateAdminProfile(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}

	var req struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
	}
	if err := c.Bind(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	updates := map[string]any{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if len(updates) == 0 {
		return apis.NewBadRequestError("No fields to update", nil)
	}

	h.identityService.Resolve(session)

	admin, err := h.identityService.UpdateAdminProfile(session, updates)
	if err != nil {
		return apis.NewBadRequestError("Failed to update admin profile", err)
	}

	return c.JSON(http.StatusOK, admin)
}

// SignOut releases the cached identity for the session.
func (h *IdentityHandler) SignOut(c echo.Context) error {
	session, err := sessionFrom(c)
	if err != nil {
		return err
	}

	h.identityService.Release(session.ID)

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Signed out",
	})
}
