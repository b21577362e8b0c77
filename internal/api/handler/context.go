package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medishare/donation-gateway/internal/core/domain"
	"github.com/medishare/donation-gateway/internal/core/service"
)

// ctxStore extracts the session store injected by the Session middleware.
// Its absence means the route table is miswired, not a caller mistake.
func ctxStore(c echo.Context) (*service.SessionStore, error) {
	store, _ := c.Get("session_store").(*service.SessionStore)
	if store == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session middleware not installed")
	}
	return store, nil
}

// ctxIdentity performs the fast-fail check guarded routes rely on: an
// authenticated identity must be present once the Guard has allowed the
// request through.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	state, _ := c.Get("session_state").(domain.SessionState)
	if state.Identity == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session identity")
	}
	return state.Identity, nil
}

// ctxSessionID returns the caller's opaque session ID.
func ctxSessionID(c echo.Context) string {
	sid, _ := c.Get("session_id").(string)
	return sid
}
