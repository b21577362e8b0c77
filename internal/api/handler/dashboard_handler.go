package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medishare/donation-gateway/internal/core/domain"
	"github.com/medishare/donation-gateway/internal/core/ports"
)

// DashboardHandler serves each role's landing page data.
type DashboardHandler struct {
	medicines ports.MedicineService
}

func NewDashboardHandler(medicines ports.MedicineService) *DashboardHandler {
	return &DashboardHandler{medicines: medicines}
}

type dashboardResponse struct {
	Role     string                 `json:"role"`
	Name     string                 `json:"name,omitempty"`
	Counts   *ports.DashboardCounts `json:"counts"`
	Landing  string                 `json:"landing_path"`
	Sections []string               `json:"sections"`
}

// sectionsByRole lists the workflow areas each landing page offers. The
// front end renders these as navigation cards.
var sectionsByRole = map[string][]string{
	domain.RoleUser:     {"my-donations", "donate", "profile"},
	domain.RoleAdmin:    {"all-medicines", "pending-requests", "users", "profile"},
	domain.RoleHospital: {"available-medicines", "my-requests", "profile"},
	domain.RoleNgo:      {"available-medicines", "my-requests", "profile"},
}

// Landing renders the caller's role dashboard.
//
// @Summary      Role dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dashboardResponse
// @Router       /donor [get]
func (h *DashboardHandler) Landing(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	counts, err := h.medicines.Dashboard(c.Request().Context(), identity.Role, identity.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dashboardResponse{
		Role:     identity.Role,
		Name:     identity.Name,
		Counts:   counts,
		Landing:  domain.RouteFor(identity.Role),
		Sections: sectionsByRole[identity.Role],
	})
}
