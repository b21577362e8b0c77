package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medishare/donation-gateway/internal/core/domain"
)

func handleError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/medicines", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)
	return rec
}

func TestErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrMedicineNotFound, http.StatusNotFound},
		{domain.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("%w: available -> delivered", domain.ErrInvalidTransition), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: name is required", domain.ErrInvalidDonation), http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrNotAuthenticated, http.StatusUnauthorized},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrUserExists, http.StatusConflict},
	}
	for _, tc := range cases {
		rec := handleError(t, tc.err)
		if rec.Code != tc.want {
			t.Fatalf("%v: status = %d, want %d", tc.err, rec.Code, tc.want)
		}
	}
}

func TestErrorHandler_EchoErrorPassthrough(t *testing.T) {
	rec := handleError(t, echo.NewHTTPError(http.StatusTeapot, "short and stout"))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want 418", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "short and stout") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestErrorHandler_UnexpectedErrorIsOpaque500(t *testing.T) {
	rec := handleError(t, errors.New("mongo: topology closed"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "topology") {
		t.Fatalf("internal details leaked: %s", rec.Body.String())
	}
}
