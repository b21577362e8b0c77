package middleware

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medishare/donation-gateway/internal/core/service"
)

// Context keys the Session middleware populates.
const (
	ctxKeySessionStore = "session_store"
	ctxKeySessionState = "session_state"
)

// SessionCookie names the cookie carrying the opaque session ID.
const SessionCookie = "medishare_sid"

// Session resolves the caller's session store (creating a fresh session ID
// when none is presented) and injects the store plus a state snapshot into
// the echo context. Guards and handlers read session state only through
// these keys.
func Session(manager *service.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
				sid = cookie.Value
			}
			if sid == "" {
				sid = newSessionID()
				c.SetCookie(&http.Cookie{
					Name:     SessionCookie,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			store := manager.Store(c.Request().Context(), sid)
			c.Set(ctxKeySessionStore, store)
			c.Set(ctxKeySessionState, store.GetState())
			c.Set("session_id", sid)

			return next(c)
		}
	}
}

// newSessionID returns an opaque session identifier.
func newSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("sid-%x", time.Now().UnixNano())
	}
	return fmt.Sprintf("%x", b)
}
