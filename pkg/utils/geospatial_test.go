package utils

import (
	"math"
	"testing"
)

func TestHaversineDistance(t *testing.T) {
	// Nairobi CBD to Westlands is roughly 2.4 km as the crow flies.
	d := HaversineDistance(-1.2864, 36.8172, -1.2675, 36.8078)
	if d < 2.0 || d > 3.0 {
		t.Errorf("unexpected distance %v km", d)
	}

	if d := HaversineDistance(-1.2864, 36.8172, -1.2864, 36.8172); d != 0 {
		t.Errorf("same point should be 0 km apart, got %v", d)
	}
}

func TestIsWithinRadius(t *testing.T) {
	if !IsWithinRadius(-1.2864, 36.8172, -1.2675, 36.8078, 5) {
		t.Error("points ~2.4 km apart should be within 5 km")
	}
	if IsWithinRadius(-1.2864, 36.8172, -1.2675, 36.8078, 1) {
		t.Error("points ~2.4 km apart should not be within 1 km")
	}
}

func TestEstimateTravelSeconds(t *testing.T) {
	// 30 km at 30 km/h is an hour.
	if got := EstimateTravelSeconds(30, 30); got != 3600 {
		t.Errorf("expected 3600, got %d", got)
	}

	// Default speed kicks in for non-positive input.
	if got := EstimateTravelSeconds(30, 0); got != 3600 {
		t.Errorf("expected default speed to apply, got %d", got)
	}

	// Very short hops floor at one minute.
	if got := EstimateTravelSeconds(0.01, 60); got != 60 {
		t.Errorf("expected 60s floor, got %d", got)
	}

	if math.Signbit(float64(EstimateTravelSeconds(0, 10))) {
		t.Error("travel time must never be negative")
	}
}
