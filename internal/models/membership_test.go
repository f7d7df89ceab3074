package models

import (
	"testing"
	"time"
)

func TestMembershipStatusTransitions(t *testing.T) {
	tests := []struct {
		from    MembershipStatus
		to      MembershipStatus
		allowed bool
	}{
		{MembershipStatusRequested, MembershipStatusAccepted, true},
		{MembershipStatusRequested, MembershipStatusRejected, true},
		{MembershipStatusRequested, MembershipStatusCompleted, false},
		{MembershipStatusAccepted, MembershipStatusCompleted, true},
		{MembershipStatusAccepted, MembershipStatusRejected, false},
		{MembershipStatusRejected, MembershipStatusAccepted, false},
		{MembershipStatusCompleted, MembershipStatusAccepted, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestCountsAgainstCapacity(t *testing.T) {
	if MembershipStatusRequested.CountsAgainstCapacity() {
		t.Error("requested must not hold a seat")
	}
	if MembershipStatusRejected.CountsAgainstCapacity() {
		t.Error("rejected must not hold a seat")
	}
	if !MembershipStatusAccepted.CountsAgainstCapacity() {
		t.Error("accepted holds a seat")
	}
	if !MembershipStatusCompleted.CountsAgainstCapacity() {
		t.Error("completed still holds its seat for accounting")
	}
}

func TestPaymentStatusForwardOnly(t *testing.T) {
	tests := []struct {
		from    PaymentStatus
		to      PaymentStatus
		allowed bool
	}{
		{PaymentStatusPending, PaymentStatusSplitPending, true},
		{PaymentStatusPending, PaymentStatusPaid, true},
		{PaymentStatusSplitPending, PaymentStatusPaid, true},
		{PaymentStatusSplitPending, PaymentStatusPaidFull, true},
		{PaymentStatusSplitPending, PaymentStatusConfirmed, true},
		{PaymentStatusPaid, PaymentStatusConfirmed, true},
		{PaymentStatusPaidFull, PaymentStatusConfirmed, true},
		// No regressions.
		{PaymentStatusPaid, PaymentStatusSplitPending, false},
		{PaymentStatusConfirmed, PaymentStatusPaid, false},
		{PaymentStatusConfirmed, PaymentStatusPending, false},
		// No lateral moves between the two paid flavors.
		{PaymentStatusPaid, PaymentStatusPaidFull, false},
		{PaymentStatusPaidFull, PaymentStatusPaid, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanAdvanceTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestPaymentOnCompletionNeverRegresses(t *testing.T) {
	tests := []struct {
		from PaymentStatus
		want PaymentStatus
	}{
		{PaymentStatusPending, PaymentStatusSplitPending},
		{PaymentStatusSplitPending, PaymentStatusSplitPending},
		// A passenger who paid ahead of completion keeps their status.
		{PaymentStatusPaid, PaymentStatusPaid},
		{PaymentStatusPaidFull, PaymentStatusPaidFull},
		{PaymentStatusConfirmed, PaymentStatusConfirmed},
	}

	for _, tt := range tests {
		if got := tt.from.OnCompletion(); got != tt.want {
			t.Errorf("%s at completion: got %s, want %s", tt.from, got, tt.want)
		}
	}
}

func TestMembershipCoordinateValidation(t *testing.T) {
	onEquator := RideMembership{PickupLat: 0, PickupLng: 36.8, DropLat: -1.3, DropLng: 36.85}
	if !onEquator.HasValidCoordinates() {
		t.Error("a zero latitude alone is a real place")
	}

	zeroedPickup := RideMembership{DropLat: -1.3, DropLng: 36.85}
	if zeroedPickup.HasValidCoordinates() {
		t.Error("(0,0) pickup should be treated as malformed")
	}

	outOfRange := RideMembership{PickupLat: -1.28, PickupLng: 36.8, DropLat: -1.3, DropLng: 190}
	if outOfRange.HasValidCoordinates() {
		t.Error("longitude beyond 180 should be treated as malformed")
	}
}

func TestCodeMatches(t *testing.T) {
	issued := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	m := RideMembership{
		VerificationCode: "123456",
		CodeExpiresAt:    issued.Add(10 * time.Minute),
	}

	if !m.CodeMatches("123456", issued.Add(5*time.Minute)) {
		t.Error("correct code inside the window must verify")
	}
	if m.CodeMatches("654321", issued.Add(5*time.Minute)) {
		t.Error("wrong code must not verify")
	}
	// Correct code, attempted 11 minutes after issue: expired.
	if m.CodeMatches("123456", issued.Add(11*time.Minute)) {
		t.Error("expired code must fail even on exact match")
	}

	empty := RideMembership{}
	if empty.CodeMatches("", time.Now()) {
		t.Error("membership without an issued code must never verify")
	}
}
