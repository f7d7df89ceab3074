package models

import (
	"testing"
)

func TestRideStatusTransitions(t *testing.T) {
	tests := []struct {
		from    RideStatus
		to      RideStatus
		allowed bool
	}{
		{RideStatusUpcoming, RideStatusOngoing, true},
		{RideStatusUpcoming, RideStatusCompleted, true}, // driver never pressed start
		{RideStatusUpcoming, RideStatusCancelled, true},
		{RideStatusUpcoming, RideStatusClosed, false},
		{RideStatusOngoing, RideStatusCompleted, true},
		{RideStatusOngoing, RideStatusCancelled, false},
		{RideStatusOngoing, RideStatusUpcoming, false},
		{RideStatusCompleted, RideStatusClosed, true},
		{RideStatusCompleted, RideStatusOngoing, false},
		{RideStatusClosed, RideStatusUpcoming, false},
		{RideStatusClosed, RideStatusCompleted, false},
		{RideStatusCancelled, RideStatusUpcoming, false},
		{RideStatusCancelled, RideStatusOngoing, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestRideStatusTerminal(t *testing.T) {
	for _, s := range []RideStatus{RideStatusClosed, RideStatusCancelled} {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []RideStatus{RideStatusUpcoming, RideStatusOngoing, RideStatusCompleted} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestRideTransitionRejectsIllegal(t *testing.T) {
	ride := Ride{Status: RideStatusClosed}
	if err := ride.Transition(RideStatusOngoing); err != ErrInvalidTransition {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
	if ride.Status != RideStatusClosed {
		t.Errorf("status must be untouched on a rejected transition, got %s", ride.Status)
	}
}

func TestValidateSeating(t *testing.T) {
	tests := []struct {
		name       string
		totalSeats int
		maxPax     int
		ok         bool
	}{
		{"standard sedan", 4, 3, true},
		{"cap below seats", 4, 2, true},
		{"cap equals seats", 4, 4, false}, // driver needs a seat
		{"no passenger room", 1, 1, false},
		{"zero cap", 4, 0, false},
		{"negative cap", 4, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ride := Ride{TotalSeats: tt.totalSeats, MaxPassengers: tt.maxPax}
			err := ride.ValidateSeating()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected seat configuration error")
			}
		})
	}
}

func TestHasValidCoordinates(t *testing.T) {
	valid := Ride{OriginLat: -1.28, OriginLng: 36.81, DestLat: -1.30, DestLng: 36.85}
	if !valid.HasValidCoordinates() {
		t.Error("valid coordinates reported invalid")
	}

	zeroed := Ride{DestLat: -1.30, DestLng: 36.85}
	if zeroed.HasValidCoordinates() {
		t.Error("zeroed origin should be treated as malformed")
	}

	outOfRange := Ride{OriginLat: 95, OriginLng: 36.81, DestLat: -1.30, DestLng: 36.85}
	if outOfRange.HasValidCoordinates() {
		t.Error("latitude beyond 90 should be treated as malformed")
	}

	// The equator and prime meridian are real places; only exactly (0,0)
	// is treated as a zeroed record.
	onEquator := Ride{OriginLat: 0, OriginLng: 36.81, DestLat: -1.30, DestLng: 36.85}
	if !onEquator.HasValidCoordinates() {
		t.Error("a zero latitude alone must not be rejected")
	}
}
