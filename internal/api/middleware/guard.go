package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medishare/donation-gateway/internal/api/metrics"
	"github.com/medishare/donation-gateway/internal/core/domain"
)

// LoginPath is where every guard denial lands, for unauthenticated and
// wrong-role callers alike. Denial is always a silent redirect; the guard
// never renders an error of its own.
const LoginPath = "/login"

// DecisionKind enumerates guard outcomes.
type DecisionKind int

const (
	// DecisionPending gates first paint: the session is still rehydrating,
	// so no authorization decision is made yet.
	DecisionPending DecisionKind = iota
	DecisionAllow
	DecisionRedirect
)

// Decision is the outcome of one authorization check.
type Decision struct {
	Kind     DecisionKind
	Redirect string
}

func (d Decision) label() string {
	switch d.Kind {
	case DecisionAllow:
		return "allow"
	case DecisionRedirect:
		return "redirect"
	default:
		return "pending"
	}
}

// Authorize decides whether the caller may reach a route requiring the given
// roles. An empty requiredRoles set means any authenticated caller. The rules,
// in order:
//
//   - session still loading: Pending, no decision either way
//   - unauthenticated: redirect to the login path
//   - no required roles, or the caller's role is among them: allow
//   - authenticated but wrong role: redirect to the login path
func Authorize(state domain.SessionState, requiredRoles ...string) Decision {
	if state.Loading {
		return Decision{Kind: DecisionPending}
	}
	if !state.IsAuthenticated() {
		return Decision{Kind: DecisionRedirect, Redirect: LoginPath}
	}
	if len(requiredRoles) == 0 {
		return Decision{Kind: DecisionAllow}
	}

	role := state.Role()
	for _, required := range requiredRoles {
		if required == role && role != "" {
			return Decision{Kind: DecisionAllow}
		}
	}
	return Decision{Kind: DecisionRedirect, Redirect: LoginPath}
}

// Guard converts Authorize into echo middleware over the session state
// injected by the Session middleware.
func Guard(requiredRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state, _ := c.Get(ctxKeySessionState).(domain.SessionState)

			decision := Authorize(state, requiredRoles...)
			metrics.GuardDecisionsTotal.WithLabelValues(decision.label()).Inc()

			switch decision.Kind {
			case DecisionAllow:
				return next(c)
			case DecisionRedirect:
				// 303 responses are never cached.
				return c.Redirect(http.StatusSeeOther, decision.Redirect)
			default:
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "initializing"})
			}
		}
	}
}

// RedirectAuthenticated bounces an already-authenticated visitor off the
// login path to their role's landing page, preventing re-authentication loops.
func RedirectAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state, _ := c.Get(ctxKeySessionState).(domain.SessionState)
			if state.Loading {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "initializing"})
			}
			if state.IsAuthenticated() {
				return c.Redirect(http.StatusSeeOther, domain.RouteFor(state.Identity.Role))
			}
			return next(c)
		}
	}
}
