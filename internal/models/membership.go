package models

import (
	"time"

	"gorm.io/gorm"
)

type MembershipStatus string

const (
	MembershipStatusRequested MembershipStatus = "requested"
	MembershipStatusAccepted  MembershipStatus = "accepted"
	MembershipStatusRejected  MembershipStatus = "rejected"
	MembershipStatusCompleted MembershipStatus = "completed"
)

var membershipTransitions = map[MembershipStatus][]MembershipStatus{
	MembershipStatusRequested: {MembershipStatusAccepted, MembershipStatusRejected},
	MembershipStatusAccepted:  {MembershipStatusCompleted},
	MembershipStatusRejected:  {},
	MembershipStatusCompleted: {},
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s MembershipStatus) CanTransitionTo(next MembershipStatus) bool {
	for _, allowed := range membershipTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CountsAgainstCapacity reports whether a membership in this status
// occupies one of the ride's passenger slots.
func (s MembershipStatus) CountsAgainstCapacity() bool {
	return s == MembershipStatusAccepted || s == MembershipStatusCompleted
}

// PaymentStatus advances strictly forward:
// pending -> split_pending -> paid|paid_full -> confirmed.
type PaymentStatus string

const (
	PaymentStatusPending      PaymentStatus = "pending"
	PaymentStatusSplitPending PaymentStatus = "split_pending"
	PaymentStatusPaid         PaymentStatus = "paid"
	PaymentStatusPaidFull     PaymentStatus = "paid_full"
	PaymentStatusConfirmed    PaymentStatus = "confirmed"
)

var paymentRank = map[PaymentStatus]int{
	PaymentStatusPending:      0,
	PaymentStatusSplitPending: 1,
	PaymentStatusPaid:         2,
	PaymentStatusPaidFull:     2,
	PaymentStatusConfirmed:    3,
}

// CanAdvanceTo reports whether next is a strictly forward move.
// Regressions and lateral moves (paid <-> paid_full) are rejected.
func (s PaymentStatus) CanAdvanceTo(next PaymentStatus) bool {
	cur, ok := paymentRank[s]
	if !ok {
		return false
	}
	nxt, ok := paymentRank[next]
	if !ok {
		return false
	}
	return nxt > cur
}

// IsSettledByPassenger reports whether the passenger has reported payment.
// Confirmed implies the driver has also acknowledged it.
func (s PaymentStatus) IsSettledByPassenger() bool {
	return s == PaymentStatusPaid || s == PaymentStatusPaidFull || s == PaymentStatusConfirmed
}

// OnCompletion returns the payment status a membership carries once its
// ride completes. split_pending is owed only by passengers who have not
// paid yet; anyone who paid ahead of completion keeps their status.
func (s PaymentStatus) OnCompletion() PaymentStatus {
	if s.CanAdvanceTo(PaymentStatusSplitPending) {
		return PaymentStatusSplitPending
	}
	return s
}

type RideMembership struct {
	gorm.Model
	RideID           uint             `json:"rideId" gorm:"not null;index"`
	Ride             *Ride            `json:"ride,omitempty"`
	PassengerID      uint             `json:"passengerId" gorm:"not null;index"`
	Passenger        *User            `json:"passenger,omitempty"`
	PickupName       string           `json:"pickupName"`
	PickupLat        float64          `json:"pickupLat"`
	PickupLng        float64          `json:"pickupLng"`
	DropName         string           `json:"dropName"`
	DropLat          float64          `json:"dropLat"`
	DropLng          float64          `json:"dropLng"`
	SubDistanceKm    float64          `json:"subDistanceKm"`
	FareShare        float64          `json:"fareShare"`
	Status           MembershipStatus `json:"status" gorm:"not null;default:'requested';index"`
	VerificationCode string           `json:"-" gorm:"default:''"`
	CodeExpiresAt    time.Time        `json:"-"`
	Verified         bool             `json:"verified" gorm:"not null;default:false"`
	PaymentStatus    PaymentStatus    `json:"paymentStatus" gorm:"not null;default:'pending'"`
}

// HasValidCoordinates reports whether both stop points are usable. The
// equator and prime meridian are legitimate; only (0,0) and out of range
// values are malformed.
func (m *RideMembership) HasValidCoordinates() bool {
	return validCoordinate(m.PickupLat, m.PickupLng) && validCoordinate(m.DropLat, m.DropLng)
}

// CodeMatches checks the supplied pickup code against the stored one.
// An expired code fails even on an exact match.
func (m *RideMembership) CodeMatches(code string, now time.Time) bool {
	if m.VerificationCode == "" {
		return false
	}
	if now.After(m.CodeExpiresAt) {
		return false
	}
	return m.VerificationCode == code
}
