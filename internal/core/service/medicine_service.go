package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medishare/donation-gateway/internal/core/domain"
	"github.com/medishare/donation-gateway/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// MedicineService implements the donation workflow: donors register
// medicines, hospitals and NGOs request them, admins drive the rest of the
// lifecycle.
type MedicineService struct {
	repo   ports.MedicineRepository
	logger zerolog.Logger
}

func NewMedicineService(repo ports.MedicineRepository, logger zerolog.Logger) *MedicineService {
	return &MedicineService{repo: repo, logger: logger}
}

// Donate registers a new donation in the available state.
func (s *MedicineService) Donate(ctx context.Context, input ports.DonateInput) (*ports.DonateResult, error) {
	if input.Name == "" || input.Quantity <= 0 {
		return nil, fmt.Errorf("%w: name and a positive quantity are required", domain.ErrInvalidDonation)
	}

	now := time.Now().UTC()
	medicine := &domain.Medicine{
		Reference:   generateReference(),
		Name:        input.Name,
		Category:    input.Category,
		Description: input.Description,
		Quantity:    input.Quantity,
		ExpiresAt:   input.ExpiresAt,
		DonorID:     input.DonorID,
		DonorName:   input.DonorName,
		Status:      domain.StatusAvailable,
		StatusHistory: []domain.StatusHistoryEntry{
			{Status: domain.StatusAvailable, Timestamp: now, Actor: input.DonorID},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, medicine); err != nil {
		s.logger.Error().Err(err).Msg("failed to create donation")
		return nil, err
	}

	s.logger.Info().Str("reference", medicine.Reference).Str("donor_id", input.DonorID).Msg("donation registered")

	return &ports.DonateResult{
		Reference: medicine.Reference,
		Status:    string(medicine.Status),
		CreatedAt: medicine.CreatedAt,
	}, nil
}

// ListMedicines returns the donations visible to the caller's role.
func (s *MedicineService) ListMedicines(ctx context.Context, input ports.ListMedicinesInput) (*ports.ListMedicinesResult, error) {
	filter := ports.MedicineFilter{
		Status:   domain.DonationStatus(input.Status),
		Category: input.Category,
	}

	switch input.Role {
	case domain.RoleUser:
		filter.DonorID = input.PrincipalID
	case domain.RoleHospital, domain.RoleNgo:
		filter.VisibleTo = input.PrincipalID
	case domain.RoleAdmin:
		// no scoping
	default:
		return nil, domain.ErrForbidden
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, total, err := s.repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListMedicinesResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// RequestMedicine claims an available donation for a hospital or NGO.
func (s *MedicineService) RequestMedicine(ctx context.Context, input ports.RequestInput) (*domain.Medicine, error) {
	if input.Role != domain.RoleHospital && input.Role != domain.RoleNgo {
		return nil, domain.ErrForbidden
	}

	medicine, err := s.repo.FindByReference(ctx, input.Reference)
	if err != nil {
		return nil, err
	}
	if !medicine.Status.CanTransitionTo(domain.StatusRequested) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, medicine.Status, domain.StatusRequested)
	}

	now := time.Now().UTC()
	medicine.Status = domain.StatusRequested
	medicine.RequestedBy = input.PrincipalID
	medicine.RequestedByRole = input.Role
	medicine.UpdatedAt = now
	medicine.StatusHistory = append(medicine.StatusHistory, domain.StatusHistoryEntry{
		Status:    domain.StatusRequested,
		Timestamp: now,
		Actor:     input.PrincipalID,
	})

	if err := s.repo.Update(ctx, medicine); err != nil {
		return nil, err
	}

	s.logger.Info().Str("reference", medicine.Reference).Str("requested_by", input.PrincipalID).Msg("donation requested")
	return medicine, nil
}

// Transition advances a donation's lifecycle. Admins may apply any valid
// transition; donors may only cancel their own donation.
func (s *MedicineService) Transition(ctx context.Context, input ports.TransitionInput) (*domain.Medicine, error) {
	next := domain.DonationStatus(input.NextStatus)

	medicine, err := s.repo.FindByReference(ctx, input.Reference)
	if err != nil {
		return nil, err
	}

	switch input.Role {
	case domain.RoleAdmin:
		// full control
	case domain.RoleUser:
		if next != domain.StatusCancelled || medicine.DonorID != input.PrincipalID {
			return nil, domain.ErrForbidden
		}
	default:
		return nil, domain.ErrForbidden
	}

	if !medicine.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, medicine.Status, next)
	}

	now := time.Now().UTC()
	medicine.Status = next
	medicine.UpdatedAt = now
	medicine.StatusHistory = append(medicine.StatusHistory, domain.StatusHistoryEntry{
		Status:    next,
		Timestamp: now,
		Actor:     input.PrincipalID,
		Notes:     input.Notes,
	})

	if err := s.repo.Update(ctx, medicine); err != nil {
		return nil, err
	}

	s.logger.Info().Str("reference", medicine.Reference).Str("status", string(next)).Msg("donation status updated")
	return medicine, nil
}

// Dashboard summarizes the donations visible to the caller's role.
func (s *MedicineService) Dashboard(ctx context.Context, role, principalID string) (*ports.DashboardCounts, error) {
	filter := ports.MedicineFilter{}
	switch role {
	case domain.RoleUser:
		filter.DonorID = principalID
	case domain.RoleHospital, domain.RoleNgo:
		filter.VisibleTo = principalID
	case domain.RoleAdmin:
		// platform-wide
	default:
		return nil, domain.ErrForbidden
	}

	byStatus, err := s.repo.CountByStatus(ctx, filter)
	if err != nil {
		return nil, err
	}

	counts := &ports.DashboardCounts{
		Available: byStatus[domain.StatusAvailable],
		Requested: byStatus[domain.StatusRequested],
		Approved:  byStatus[domain.StatusApproved],
		Delivered: byStatus[domain.StatusDelivered],
	}
	for _, n := range byStatus {
		counts.Total += n
	}
	return counts, nil
}

// generateReference returns a unique donation reference in the format MED-XXXXXXXX.
func generateReference() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("MED-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("MED-%08X", b)
}
