package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medishare/donation-gateway/internal/api/metrics"
	"github.com/medishare/donation-gateway/internal/core/domain"
	"github.com/medishare/donation-gateway/internal/core/ports"
	"github.com/medishare/donation-gateway/internal/core/service"
)

// AuthHandler exposes the session lifecycle over HTTP. All operations go
// through the caller's session store; results are always the store's tagged
// success/failure shape, never raised errors.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role,omitempty"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

type updateProfileRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

type sessionResponse struct {
	IsAuthenticated bool             `json:"is_authenticated"`
	Loading         bool             `json:"loading"`
	Identity        *domain.Identity `json:"identity,omitempty"`
	LandingPath     string           `json:"landing_path,omitempty"`
}

// Login authenticates the caller's session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  service.Result
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  service.Result
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	store, err := ctxStore(c)
	if err != nil {
		return err
	}

	result := store.Login(c.Request().Context(), ports.Credentials(req))
	if !result.Success {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return c.JSON(http.StatusUnauthorized, result)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, struct {
		service.Result
		LandingPath string `json:"landing_path"`
	}{result, domain.RouteFor(result.Identity.Role)})
}

// Register creates a new account. Registration never logs the caller in.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Profile fields"
// @Success      201   {object}  service.Result
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  service.Result
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	store, err := ctxStore(c)
	if err != nil {
		return err
	}

	result := store.Register(c.Request().Context(), ports.RegistrationInput(req))
	if !result.Success {
		metrics.RegistrationsTotal.WithLabelValues("failure").Inc()
		return c.JSON(http.StatusConflict, result)
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, result)
}

// Logout ends the caller's session. Always succeeds locally.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  service.Result
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	store, err := ctxStore(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, store.Logout(c.Request().Context()))
}

// UpdateProfile applies partial profile fields to the current identity.
//
// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Partial profile fields"
// @Success      200   {object}  service.Result
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  service.Result
// @Router       /profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	store, err := ctxStore(c)
	if err != nil {
		return err
	}

	result := store.UpdateIdentity(c.Request().Context(), ports.ProfileUpdate(req))
	if !result.Success {
		status := http.StatusBadRequest
		if result.Message == domain.ErrNotAuthenticated.Error() {
			status = http.StatusUnauthorized
		}
		return c.JSON(status, result)
	}
	return c.JSON(http.StatusOK, result)
}

// Session reports the caller's current session state.
//
// @Summary      Current session state
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	store, err := ctxStore(c)
	if err != nil {
		return err
	}

	state := store.GetState()
	resp := sessionResponse{
		IsAuthenticated: state.IsAuthenticated(),
		Loading:         state.Loading,
		Identity:        state.Identity.Clone(),
	}
	if state.Identity != nil {
		resp.LandingPath = domain.RouteFor(state.Identity.Role)
	}
	return c.JSON(http.StatusOK, resp)
}

// LoginPage renders the login entry route. Authenticated visitors never see
// it: the RedirectAuthenticated middleware bounces them to their landing page
// before this handler runs.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"page": "login"})
}
