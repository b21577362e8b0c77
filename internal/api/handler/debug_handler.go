package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medishare/donation-gateway/internal/core/ports"
	"github.com/medishare/donation-gateway/internal/core/service"
)

// DebugHandler holds the emergency escape hatches. They bypass the session
// store deliberately, so every one of them must end in a full re-init of the
// caller's session rather than leaving stale in-memory state behind.
type DebugHandler struct {
	sessions ports.SessionRepository
	manager  *service.SessionManager
}

func NewDebugHandler(sessions ports.SessionRepository, manager *service.SessionManager) *DebugHandler {
	return &DebugHandler{sessions: sessions, manager: manager}
}

// ClearSession deletes both persisted record keys directly and evicts the
// in-memory store, then sends the caller back to /login so the next request
// rehydrates from empty durable state.
func (h *DebugHandler) ClearSession(c echo.Context) error {
	sid := ctxSessionID(c)
	if sid != "" {
		if err := h.sessions.Clear(c.Request().Context(), sid); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to clear session")
		}
		h.manager.Evict(sid)
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}
