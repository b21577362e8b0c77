package domain

import "time"

// DonationStatus represents the lifecycle state of a donated medicine.
type DonationStatus string

const (
	StatusAvailable  DonationStatus = "available"
	StatusRequested  DonationStatus = "requested"
	StatusApproved   DonationStatus = "approved"
	StatusDispatched DonationStatus = "dispatched"
	StatusDelivered  DonationStatus = "delivered"
	StatusRejected   DonationStatus = "rejected"
	StatusCancelled  DonationStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
var validTransitions = map[DonationStatus][]DonationStatus{
	StatusAvailable:  {StatusRequested, StatusCancelled},
	StatusRequested:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:   {StatusDispatched},
	StatusDispatched: {StatusDelivered},
}

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s DonationStatus) CanTransitionTo(next DonationStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// StatusHistoryEntry records a single status transition on a donation.
type StatusHistoryEntry struct {
	Status    DonationStatus `json:"status" bson:"status"`
	Timestamp time.Time      `json:"timestamp" bson:"timestamp"`
	Actor     string         `json:"actor,omitempty" bson:"actor,omitempty"`
	Notes     string         `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Medicine is the donation aggregate root. Reference is the stable public
// identifier handed to donors and requesters.
type Medicine struct {
	ID              string               `json:"id" bson:"_id,omitempty"`
	Reference       string               `json:"reference" bson:"reference"`
	Name            string               `json:"name" bson:"name"`
	Category        string               `json:"category" bson:"category"`
	Description     string               `json:"description,omitempty" bson:"description,omitempty"`
	Quantity        int                  `json:"quantity" bson:"quantity"`
	ExpiresAt       time.Time            `json:"expires_at" bson:"expires_at"`
	DonorID         string               `json:"donor_id" bson:"donor_id"`
	DonorName       string               `json:"donor_name,omitempty" bson:"donor_name,omitempty"`
	RequestedBy     string               `json:"requested_by,omitempty" bson:"requested_by,omitempty"`
	RequestedByRole string               `json:"requested_by_role,omitempty" bson:"requested_by_role,omitempty"`
	Status          DonationStatus       `json:"status" bson:"status"`
	StatusHistory   []StatusHistoryEntry `json:"status_history" bson:"status_history"`
	CreatedAt       time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at" bson:"updated_at"`
}
