package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type RideStatus string

const (
	RideStatusUpcoming  RideStatus = "upcoming"
	RideStatusOngoing   RideStatus = "ongoing"
	RideStatusCompleted RideStatus = "completed"
	RideStatusClosed    RideStatus = "closed"
	RideStatusCancelled RideStatus = "cancelled"
)

// rideTransitions is the full set of legal ride status transitions.
// Anything not listed here is rejected, no matter which handler asks.
var rideTransitions = map[RideStatus][]RideStatus{
	RideStatusUpcoming:  {RideStatusOngoing, RideStatusCompleted, RideStatusCancelled},
	RideStatusOngoing:   {RideStatusCompleted},
	RideStatusCompleted: {RideStatusClosed},
	RideStatusClosed:    {},
	RideStatusCancelled: {},
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s RideStatus) CanTransitionTo(next RideStatus) bool {
	for _, allowed := range rideTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s RideStatus) IsTerminal() bool {
	return len(rideTransitions[s]) == 0
}

var (
	ErrInvalidTransition = errors.New("invalid ride status transition")
	ErrSeatConfiguration = errors.New("max passengers must leave a seat for the driver")
)

type Ride struct {
	gorm.Model
	DriverID         uint       `json:"driverId" gorm:"not null;index"`
	Driver           *User      `json:"driver,omitempty"`
	Origin           string     `json:"origin" gorm:"not null"`
	Destination      string     `json:"destination" gorm:"not null"`
	OriginLat        float64    `json:"originLat"`
	OriginLng        float64    `json:"originLng"`
	DestLat          float64    `json:"destLat"`
	DestLng          float64    `json:"destLng"`
	DepartureTime    time.Time  `json:"departureTime" gorm:"not null;index"`
	VehicleCategory  string     `json:"vehicleCategory" gorm:"not null"`
	TotalSeats       int        `json:"totalSeats" gorm:"not null"`
	MaxPassengers    int        `json:"maxPassengers" gorm:"not null"`
	AvailableSeats   int        `json:"availableSeats" gorm:"not null"`
	EstimatedFare    float64    `json:"estimatedFare" gorm:"not null"`
	Status           RideStatus `json:"status" gorm:"not null;default:'upcoming';index"`
	DistanceKm       float64    `json:"distanceKm"`
	DurationSec      int        `json:"durationSec"`
	EmissionsKg      float64    `json:"emissionsKg"`
	EmissionsSavedKg float64    `json:"emissionsSavedKg"`
	PointsAwarded    bool       `json:"pointsAwarded" gorm:"not null;default:false"`
}

// ValidateSeating checks the seat configuration a driver supplied at
// creation time. The driver occupies one of the total seats, so at most
// TotalSeats-1 passengers can ever ride.
func (r *Ride) ValidateSeating() error {
	if r.TotalSeats < 2 {
		return ErrSeatConfiguration
	}
	if r.MaxPassengers < 1 || r.MaxPassengers > r.TotalSeats-1 {
		return ErrSeatConfiguration
	}
	return nil
}

// Transition moves the ride to next after consulting the transition table.
func (r *Ride) Transition(next RideStatus) error {
	if !r.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	r.Status = next
	return nil
}

// HasValidCoordinates reports whether all four coordinates are usable.
// Rides synced from older clients occasionally carry zeroed or out of
// range values; the matcher skips those instead of failing the search.
func (r *Ride) HasValidCoordinates() bool {
	return validCoordinate(r.OriginLat, r.OriginLng) && validCoordinate(r.DestLat, r.DestLng)
}

func validCoordinate(lat, lng float64) bool {
	if lat == 0 && lng == 0 {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
