package handlers

import (
	"errors"

	"github.com/labstack/echo/v5"
	"github.com/pocketbase/pocketbase/apis"
	pbmodels "github.com/pocketbase/pocketbase/models"

	"club-ticketing/services"
)

// sessionFrom extracts the authenticated principal from the request
// context. Handlers never see auth records directly, only sessions.
func sessionFrom(c echo.Context) (services.Session, error) {
	authRecord, _ := c.Get(apis.ContextAuthRecordKey).(*pbmodels.Record)
	if authRecord == nil {
		return services.Session{}, apis.NewUnauthorizedError("Unauthorized", nil)
	}
	return services.Session{ID: authRecord.Id, Email: authRecord.Email()}, nil
}

// requireAdmin resolves the session and rejects non-admin principals.
func requireAdmin(identity *services.IdentityService, c echo.Context) (*services.Identity, error) {
	session, err := sessionFrom(c)
	if err != nil {
		return nil, err
	}

	resolved := identity.Resolve(session)
	if !resolved.IsAdmin() {
		return nil, apis.NewForbiddenError("Admin access required", nil)
	}
	return resolved, nil
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, services.ErrNotFound) {
		return apis.NewNotFoundError("Not found", err)
	}
	return apis.NewBadRequestError(message, err)
}
