package ports

import (
	"context"
	"time"

	"github.com/medishare/donation-gateway/internal/core/domain"
)

// DonateInput carries all data needed to register a new donation.
type DonateInput struct {
	Name        string
	Category    string
	Description string
	Quantity    int
	ExpiresAt   time.Time
	DonorID     string
	DonorName   string
}

// DonateResult is returned after registering a donation.
type DonateResult struct {
	Reference string
	Status    string
	CreatedAt time.Time
}

// ListMedicinesInput scopes the list endpoint by caller role:
// donors see their own donations, hospitals and NGOs see available stock plus
// their own requests, admins see everything.
type ListMedicinesInput struct {
	Role        string
	PrincipalID string
	Status      string
	Category    string
	Page        int
	Limit       int
}

// ListMedicinesResult is returned by ListMedicines.
type ListMedicinesResult struct {
	Items      []domain.Medicine
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// RequestInput is a hospital or NGO claiming an available donation.
type RequestInput struct {
	Reference   string
	Role        string
	PrincipalID string
}

// TransitionInput advances a donation's lifecycle. Admins drive
// approve/reject/dispatch/deliver; donors may cancel their own donation.
type TransitionInput struct {
	Reference   string
	NextStatus  string
	Role        string
	PrincipalID string
	Notes       string
}

// DashboardCounts summarizes the platform for a role's landing page.
type DashboardCounts struct {
	Available int64 `json:"available"`
	Requested int64 `json:"requested"`
	Approved  int64 `json:"approved"`
	Delivered int64 `json:"delivered"`
	Total     int64 `json:"total"`
}

// MedicineService defines the donation workflow use cases.
type MedicineService interface {
	Donate(ctx context.Context, input DonateInput) (*DonateResult, error)
	ListMedicines(ctx context.Context, input ListMedicinesInput) (*ListMedicinesResult, error)
	RequestMedicine(ctx context.Context, input RequestInput) (*domain.Medicine, error)
	Transition(ctx context.Context, input TransitionInput) (*domain.Medicine, error)
	Dashboard(ctx context.Context, role, principalID string) (*DashboardCounts, error)
}

// MedicineFilter narrows repository queries. Zero values mean "no filter".
type MedicineFilter struct {
	DonorID  string
	Status   domain.DonationStatus
	Category string
	// VisibleTo, when set, restricts to donations that are still available or
	// were requested by this principal (the hospital/NGO browsing view).
	VisibleTo string
}

// MedicineRepository persists donation aggregates.
type MedicineRepository interface {
	Create(ctx context.Context, m *domain.Medicine) error
	FindByReference(ctx context.Context, reference string) (*domain.Medicine, error)
	Update(ctx context.Context, m *domain.Medicine) error
	List(ctx context.Context, filter MedicineFilter, page, limit int) ([]domain.Medicine, int64, error)
	CountByStatus(ctx context.Context, filter MedicineFilter) (map[domain.DonationStatus]int64, error)
}
