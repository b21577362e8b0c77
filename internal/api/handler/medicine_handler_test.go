package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medishare/donation-gateway/internal/core/domain"
	"github.com/medishare/donation-gateway/internal/core/ports"
)

type stubMedicineService struct {
	donateFn     func(ctx context.Context, input ports.DonateInput) (*ports.DonateResult, error)
	listFn       func(ctx context.Context, input ports.ListMedicinesInput) (*ports.ListMedicinesResult, error)
	requestFn    func(ctx context.Context, input ports.RequestInput) (*domain.Medicine, error)
	transitionFn func(ctx context.Context, input ports.TransitionInput) (*domain.Medicine, error)
	dashboardFn  func(ctx context.Context, role, principalID string) (*ports.DashboardCounts, error)
}

func (s *stubMedicineService) Donate(ctx context.Context, input ports.DonateInput) (*ports.DonateResult, error) {
	return s.donateFn(ctx, input)
}

func (s *stubMedicineService) ListMedicines(ctx context.Context, input ports.ListMedicinesInput) (*ports.ListMedicinesResult, error) {
	return s.listFn(ctx, input)
}

func (s *stubMedicineService) RequestMedicine(ctx context.Context, input ports.RequestInput) (*domain.Medicine, error) {
	return s.requestFn(ctx, input)
}

func (s *stubMedicineService) Transition(ctx context.Context, input ports.TransitionInput) (*domain.Medicine, error) {
	return s.transitionFn(ctx, input)
}

func (s *stubMedicineService) Dashboard(ctx context.Context, role, principalID string) (*ports.DashboardCounts, error) {
	return s.dashboardFn(ctx, role, principalID)
}

func newMedicineContext(t *testing.T, method, path, body string, identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		c.Set("session_state", domain.SessionState{Identity: identity})
	}
	return c, rec
}

func TestMedicineHandler_Donate_Created(t *testing.T) {
	var gotInput ports.DonateInput
	svc := &stubMedicineService{
		donateFn: func(ctx context.Context, input ports.DonateInput) (*ports.DonateResult, error) {
			gotInput = input
			return &ports.DonateResult{Reference: "MED-AB12CD34", Status: "available", CreatedAt: time.Now()}, nil
		},
	}

	c, rec := newMedicineContext(t, http.MethodPost, "/donor/medicines",
		`{"name":"Paracetamol","category":"analgesic","quantity":30,"expires_at":"2027-01-01T00:00:00Z"}`,
		&domain.Identity{ID: "u1", Name: "Donor One", Role: domain.RoleUser})

	if err := NewMedicineHandler(svc).Donate(c); err != nil {
		t.Fatalf("donate handler: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if gotInput.DonorID != "u1" || gotInput.DonorName != "Donor One" {
		t.Fatalf("donor fields = %+v, must come from the session identity", gotInput)
	}
	if gotInput.ExpiresAt.IsZero() {
		t.Fatalf("expires_at must be parsed")
	}
}

func TestMedicineHandler_Donate_BadExpiry(t *testing.T) {
	svc := &stubMedicineService{
		donateFn: func(ctx context.Context, input ports.DonateInput) (*ports.DonateResult, error) {
			t.Fatal("service must not be called for an invalid payload")
			return nil, nil
		},
	}

	c, rec := newMedicineContext(t, http.MethodPost, "/donor/medicines",
		`{"name":"Paracetamol","category":"analgesic","quantity":30,"expires_at":"tomorrow"}`,
		&domain.Identity{ID: "u1", Role: domain.RoleUser})

	if err := NewMedicineHandler(svc).Donate(c); err != nil {
		t.Fatalf("donate handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMedicineHandler_Donate_MissingIdentityIs401(t *testing.T) {
	c, _ := newMedicineContext(t, http.MethodPost, "/donor/medicines", `{}`, nil)

	err := NewMedicineHandler(&stubMedicineService{}).Donate(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401 HTTPError", err)
	}
}

func TestMedicineHandler_List_ForwardsQueryParams(t *testing.T) {
	var gotInput ports.ListMedicinesInput
	svc := &stubMedicineService{
		listFn: func(ctx context.Context, input ports.ListMedicinesInput) (*ports.ListMedicinesResult, error) {
			gotInput = input
			return &ports.ListMedicinesResult{Items: []domain.Medicine{}, Page: input.Page, Limit: input.Limit}, nil
		},
	}

	c, rec := newMedicineContext(t, http.MethodGet, "/medicines?status=available&category=analgesic&page=2&limit=5", "",
		&domain.Identity{ID: "h1", Role: domain.RoleHospital})

	if err := NewMedicineHandler(svc).List(c); err != nil {
		t.Fatalf("list handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotInput.Status != "available" || gotInput.Category != "analgesic" || gotInput.Page != 2 || gotInput.Limit != 5 {
		t.Fatalf("input = %+v", gotInput)
	}
	if gotInput.Role != domain.RoleHospital || gotInput.PrincipalID != "h1" {
		t.Fatalf("caller scoping = %+v", gotInput)
	}
}

func TestMedicineHandler_Request_UsesRouteReference(t *testing.T) {
	svc := &stubMedicineService{
		requestFn: func(ctx context.Context, input ports.RequestInput) (*domain.Medicine, error) {
			if input.Reference != "MED-1" || input.Role != domain.RoleNgo {
				return nil, errors.New("wrong input")
			}
			return &domain.Medicine{Reference: "MED-1", Status: domain.StatusRequested}, nil
		},
	}

	c, rec := newMedicineContext(t, http.MethodPost, "/medicines/MED-1/request", "",
		&domain.Identity{ID: "n1", Role: domain.RoleNgo})
	c.SetParamNames("reference")
	c.SetParamValues("MED-1")

	if err := NewMedicineHandler(svc).Request(c); err != nil {
		t.Fatalf("request handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var m domain.Medicine
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if m.Status != domain.StatusRequested {
		t.Fatalf("status = %s", m.Status)
	}
}

func TestMedicineHandler_Transition_ForwardsNotes(t *testing.T) {
	var gotInput ports.TransitionInput
	svc := &stubMedicineService{
		transitionFn: func(ctx context.Context, input ports.TransitionInput) (*domain.Medicine, error) {
			gotInput = input
			return &domain.Medicine{Reference: input.Reference, Status: domain.DonationStatus(input.NextStatus)}, nil
		},
	}

	c, rec := newMedicineContext(t, http.MethodPost, "/admin/medicines/MED-1/approved",
		`{"notes":"verified stock"}`,
		&domain.Identity{ID: "admin1", Role: domain.RoleAdmin})
	c.SetParamNames("reference", "status")
	c.SetParamValues("MED-1", "approved")

	if err := NewMedicineHandler(svc).Transition(c); err != nil {
		t.Fatalf("transition handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotInput.NextStatus != "approved" || gotInput.Notes != "verified stock" {
		t.Fatalf("input = %+v", gotInput)
	}
}

func TestMedicineHandler_Transition_EmptyBodyAllowed(t *testing.T) {
	svc := &stubMedicineService{
		transitionFn: func(ctx context.Context, input ports.TransitionInput) (*domain.Medicine, error) {
			return &domain.Medicine{Reference: input.Reference, Status: domain.StatusCancelled}, nil
		},
	}

	c, rec := newMedicineContext(t, http.MethodPost, "/medicines/MED-1/cancel", "",
		&domain.Identity{ID: "u1", Role: domain.RoleUser})
	c.SetParamNames("reference", "status")
	c.SetParamValues("MED-1", "cancelled")

	if err := NewMedicineHandler(svc).Transition(c); err != nil {
		t.Fatalf("transition handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDashboardHandler_Landing(t *testing.T) {
	svc := &stubMedicineService{
		dashboardFn: func(ctx context.Context, role, principalID string) (*ports.DashboardCounts, error) {
			if role != domain.RoleHospital || principalID != "h1" {
				return nil, errors.New("wrong scoping")
			}
			return &ports.DashboardCounts{Available: 3, Requested: 1, Total: 4}, nil
		},
	}

	c, rec := newMedicineContext(t, http.MethodGet, "/hospital", "",
		&domain.Identity{ID: "h1", Name: "Acme Hospital", Role: domain.RoleHospital})

	if err := NewDashboardHandler(svc).Landing(c); err != nil {
		t.Fatalf("landing handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Role != domain.RoleHospital || resp.Landing != "/hospital" {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Counts == nil || resp.Counts.Total != 4 {
		t.Fatalf("counts = %+v", resp.Counts)
	}
	if len(resp.Sections) == 0 {
		t.Fatalf("sections must be populated")
	}
}
