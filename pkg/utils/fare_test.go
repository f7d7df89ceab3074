package utils

import (
	"math"
	"testing"
)

func TestFareShareZeroDistance(t *testing.T) {
	if share := FareShare(3.5, 0, 500); share != 0 {
		t.Errorf("expected zero share for zero-length ride, got %v", share)
	}
}

func TestFareShareProportional(t *testing.T) {
	// Passenger rides half the trip, pays half the fare.
	if share := FareShare(5, 10, 400); share != 200 {
		t.Errorf("expected 200, got %v", share)
	}
}

func TestFareSharesSumToTotal(t *testing.T) {
	totalFare := 937.50
	totalDistance := 24.6
	subDistances := []float64{24.6 / 3, 24.6 / 3, 24.6 / 3}

	var sum float64
	for _, d := range subDistances {
		sum += FareShare(d, totalDistance, totalFare)
	}

	if math.Abs(sum-totalFare) > 0.05 {
		t.Errorf("shares sum %.2f differs from fare %.2f beyond rounding tolerance", sum, totalFare)
	}
}

func TestFareShareRounding(t *testing.T) {
	share := FareShare(1, 3, 100)
	if share != 33.33 {
		t.Errorf("expected 33.33, got %v", share)
	}
}
