package settlement

import (
	"testing"

	"github.com/magic-peach/greenmobility-sub000/internal/models"
)

func membership(status models.MembershipStatus, payment models.PaymentStatus) models.RideMembership {
	return models.RideMembership{Status: status, PaymentStatus: payment}
}

func TestEligibleRequiresCompletedRide(t *testing.T) {
	ride := models.Ride{Status: models.RideStatusOngoing}
	if err := Eligible(&ride, nil); err != ErrRideNotCompleted {
		t.Errorf("expected ErrRideNotCompleted, got %v", err)
	}
}

func TestEligibleRejectsSecondAward(t *testing.T) {
	ride := models.Ride{Status: models.RideStatusCompleted, PointsAwarded: true}
	if err := Eligible(&ride, nil); err != ErrAlreadyAwarded {
		t.Errorf("expected ErrAlreadyAwarded, got %v", err)
	}
}

func TestEligibleWaitsForAllPayments(t *testing.T) {
	ride := models.Ride{Status: models.RideStatusCompleted}
	memberships := []models.RideMembership{
		membership(models.MembershipStatusCompleted, models.PaymentStatusPaid),
		membership(models.MembershipStatusCompleted, models.PaymentStatusSplitPending),
	}

	if err := Eligible(&ride, memberships); err != ErrPaymentsOutstanding {
		t.Errorf("one unpaid passenger must defer settlement, got %v", err)
	}

	// Second passenger pays; now eligible.
	memberships[1].PaymentStatus = models.PaymentStatusPaidFull
	if err := Eligible(&ride, memberships); err != nil {
		t.Errorf("all paid must be eligible, got %v", err)
	}
}

func TestEligibleAcceptsConfirmedAsPaid(t *testing.T) {
	ride := models.Ride{Status: models.RideStatusCompleted}
	memberships := []models.RideMembership{
		membership(models.MembershipStatusCompleted, models.PaymentStatusConfirmed),
	}
	if err := Eligible(&ride, memberships); err != nil {
		t.Errorf("driver-confirmed payment counts as paid, got %v", err)
	}
}

func TestEligibleDriverOnlyRide(t *testing.T) {
	// Zero passengers: nothing outstanding, settle immediately.
	ride := models.Ride{Status: models.RideStatusCompleted}
	if err := Eligible(&ride, nil); err != nil {
		t.Errorf("driver-only ride should be eligible, got %v", err)
	}
}

func TestBonusConstants(t *testing.T) {
	if DriverBonusPoints != 20 {
		t.Errorf("driver bonus is 20 points, got %d", DriverBonusPoints)
	}
	if PassengerBonusPoints != 10 {
		t.Errorf("passenger bonus is 10 points, got %d", PassengerBonusPoints)
	}
}
