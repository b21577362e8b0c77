package domain

import "testing"

func TestDonationStatus_CanTransitionTo(t *testing.T) {
	allowed := []struct {
		from, to DonationStatus
	}{
		{StatusAvailable, StatusRequested},
		{StatusAvailable, StatusCancelled},
		{StatusRequested, StatusApproved},
		{StatusRequested, StatusRejected},
		{StatusRequested, StatusCancelled},
		{StatusApproved, StatusDispatched},
		{StatusDispatched, StatusDelivered},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransitionTo(tc.to) {
			t.Fatalf("%s -> %s should be allowed", tc.from, tc.to)
		}
	}

	denied := []struct {
		from, to DonationStatus
	}{
		{StatusAvailable, StatusDelivered},
		{StatusAvailable, StatusApproved},
		{StatusApproved, StatusCancelled},
		{StatusDelivered, StatusAvailable},
		{StatusRejected, StatusApproved},
		{StatusCancelled, StatusRequested},
	}
	for _, tc := range denied {
		if tc.from.CanTransitionTo(tc.to) {
			t.Fatalf("%s -> %s should be denied", tc.from, tc.to)
		}
	}
}
