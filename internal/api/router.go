package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/medishare/donation-gateway/docs"
	"github.com/medishare/donation-gateway/internal/api/handler"
	"github.com/medishare/donation-gateway/internal/api/middleware"
	"github.com/medishare/donation-gateway/internal/core/domain"
	"github.com/medishare/donation-gateway/internal/core/ports"
	"github.com/medishare/donation-gateway/internal/core/service"
)

// route is one entry in the declarative path table. roles nil with open false
// means "any authenticated caller"; open true skips the guard entirely.
type route struct {
	method  string
	path    string
	handler echo.HandlerFunc
	roles   []string
	open    bool
}

// Deps carries everything the router needs wired in.
type Deps struct {
	Mongo    *mongo.Database
	Redis    *redis.Client
	Manager  *service.SessionManager
	Sessions ports.SessionRepository
	Medicine ports.MedicineService
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("donation"))
	e.Use(middleware.Session(deps.Manager))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler()
	medicineHandler := handler.NewMedicineHandler(deps.Medicine)
	dashboardHandler := handler.NewDashboardHandler(deps.Medicine)
	debugHandler := handler.NewDebugHandler(deps.Sessions, deps.Manager)
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	// --- Route table ---
	routes := []route{
		// session lifecycle
		{method: http.MethodPost, path: "/auth/login", handler: authHandler.Login, open: true},
		{method: http.MethodPost, path: "/auth/register", handler: authHandler.Register, open: true},
		{method: http.MethodPost, path: "/auth/logout", handler: authHandler.Logout, open: true},
		{method: http.MethodGet, path: "/session", handler: authHandler.Session, open: true},
		{method: http.MethodPut, path: "/profile", handler: authHandler.UpdateProfile},

		// role landing pages
		{method: http.MethodGet, path: "/donor", handler: dashboardHandler.Landing, roles: []string{domain.RoleUser}},
		{method: http.MethodGet, path: "/admin", handler: dashboardHandler.Landing, roles: []string{domain.RoleAdmin}},
		{method: http.MethodGet, path: "/hospital", handler: dashboardHandler.Landing, roles: []string{domain.RoleHospital}},
		{method: http.MethodGet, path: "/ngo", handler: dashboardHandler.Landing, roles: []string{domain.RoleNgo}},

		// donation workflow
		{method: http.MethodGet, path: "/medicines", handler: medicineHandler.List},
		{method: http.MethodPost, path: "/donor/medicines", handler: medicineHandler.Donate, roles: []string{domain.RoleUser}},
		{method: http.MethodPost, path: "/medicines/:reference/request", handler: medicineHandler.Request, roles: []string{domain.RoleHospital, domain.RoleNgo}},
		{method: http.MethodPost, path: "/medicines/:reference/cancel", handler: cancelRoute(medicineHandler), roles: []string{domain.RoleUser, domain.RoleAdmin}},
		{method: http.MethodPost, path: "/admin/medicines/:reference/:status", handler: medicineHandler.Transition, roles: []string{domain.RoleAdmin}},

		// emergency escape hatch: clears durable keys directly, forces re-init
		{method: http.MethodPost, path: "/debug/clear-session", handler: debugHandler.ClearSession, open: true},
	}

	for _, r := range routes {
		if r.open {
			e.Add(r.method, r.path, r.handler)
			continue
		}
		e.Add(r.method, r.path, r.handler, middleware.Guard(r.roles...))
	}

	// The login entry route: authenticated visitors are bounced straight to
	// their role's landing page instead of seeing the form again.
	e.GET(middleware.LoginPath, authHandler.LoginPage, middleware.RedirectAuthenticated())

	// --- Health probes and operational endpoints (no session required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// Unmatched paths land on the login page.
	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
	})

	return e
}

// cancelRoute fixes the target status for the donor-facing cancel endpoint;
// donors never name arbitrary transitions.
func cancelRoute(h *handler.MedicineHandler) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.SetParamNames("reference", "status")
		c.SetParamValues(c.Param("reference"), string(domain.StatusCancelled))
		return h.Transition(c)
	}
}
