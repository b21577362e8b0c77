package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medishare/donation-gateway/internal/api/metrics"
	"github.com/medishare/donation-gateway/internal/core/domain"
	"github.com/medishare/donation-gateway/internal/core/ports"
)

// MedicineHandler handles HTTP requests for the donation workflow.
type MedicineHandler struct {
	service ports.MedicineService
}

func NewMedicineHandler(service ports.MedicineService) *MedicineHandler {
	return &MedicineHandler{service: service}
}

// --- Request / Response types ---

type donateRequest struct {
	Name        string `json:"name" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	ExpiresAt   string `json:"expires_at,omitempty"`
}

type donateResponse struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type transitionRequest struct {
	Notes string `json:"notes,omitempty"`
}

type listResponse struct {
	Items      []domain.Medicine `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// Donate registers a new medicine donation for the current donor.
//
// @Summary      Donate a medicine
// @Tags         medicines
// @Accept       json
// @Produce      json
// @Param        body  body      donateRequest  true  "Donation details"
// @Success      201   {object}  donateResponse
// @Failure      400   {object}  map[string]string
// @Router       /donor/medicines [post]
func (h *MedicineHandler) Donate(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req donateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	var expiresAt time.Time
	if req.ExpiresAt != "" {
		expiresAt, err = time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "expires_at must be RFC3339"})
		}
	}

	result, err := h.service.Donate(c.Request().Context(), ports.DonateInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Quantity:    req.Quantity,
		ExpiresAt:   expiresAt,
		DonorID:     identity.ID,
		DonorName:   identity.Name,
	})
	if err != nil {
		return err
	}

	metrics.DonationsCreatedTotal.WithLabelValues(req.Category).Inc()
	return c.JSON(http.StatusCreated, donateResponse{
		Reference: result.Reference,
		Status:    result.Status,
		CreatedAt: result.CreatedAt.Format(time.RFC3339),
	})
}

// List returns the donations visible to the caller's role.
//
// @Summary      List medicines
// @Tags         medicines
// @Produce      json
// @Param        status    query     string  false  "Filter by status"
// @Param        category  query     string  false  "Filter by category"
// @Param        page      query     int     false  "Page number"
// @Param        limit     query     int     false  "Page size"
// @Success      200       {object}  listResponse
// @Router       /medicines [get]
func (h *MedicineHandler) List(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	input := ports.ListMedicinesInput{
		Role:        identity.Role,
		PrincipalID: identity.ID,
		Status:      c.QueryParam("status"),
		Category:    c.QueryParam("category"),
	}
	input.Page, _ = atoiParam(c, "page")
	input.Limit, _ = atoiParam(c, "limit")

	result, err := h.service.ListMedicines(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listResponse{
		Items:      result.Items,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// Request claims an available donation for the caller (hospital or NGO).
//
// @Summary      Request a medicine
// @Tags         medicines
// @Produce      json
// @Param        reference  path      string  true  "Donation reference"
// @Success      200        {object}  domain.Medicine
// @Failure      404        {object}  map[string]string
// @Failure      422        {object}  map[string]string
// @Router       /medicines/{reference}/request [post]
func (h *MedicineHandler) Request(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	medicine, err := h.service.RequestMedicine(c.Request().Context(), ports.RequestInput{
		Reference:   c.Param("reference"),
		Role:        identity.Role,
		PrincipalID: identity.ID,
	})
	if err != nil {
		return err
	}

	metrics.DonationTransitionsTotal.WithLabelValues(string(medicine.Status)).Inc()
	return c.JSON(http.StatusOK, medicine)
}

// Transition advances a donation's lifecycle to the status named in the route.
//
// @Summary      Transition a donation
// @Tags         medicines
// @Accept       json
// @Produce      json
// @Param        reference  path      string             true   "Donation reference"
// @Param        status     path      string             true   "Target status"
// @Param        body       body      transitionRequest  false  "Optional notes"
// @Success      200        {object}  domain.Medicine
// @Failure      403        {object}  map[string]string
// @Failure      422        {object}  map[string]string
// @Router       /medicines/{reference}/{status} [post]
func (h *MedicineHandler) Transition(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req transitionRequest
	_ = c.Bind(&req) // notes are optional; an empty body is fine

	medicine, err := h.service.Transition(c.Request().Context(), ports.TransitionInput{
		Reference:   c.Param("reference"),
		NextStatus:  c.Param("status"),
		Role:        identity.Role,
		PrincipalID: identity.ID,
		Notes:       req.Notes,
	})
	if err != nil {
		return err
	}

	metrics.DonationTransitionsTotal.WithLabelValues(string(medicine.Status)).Inc()
	return c.JSON(http.StatusOK, medicine)
}

func atoiParam(c echo.Context, name string) (int, bool) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
