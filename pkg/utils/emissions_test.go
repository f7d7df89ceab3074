package utils

import (
	"math"
	"testing"
)

func TestEmissionFactorFallback(t *testing.T) {
	if f := EmissionFactor("hoverboard"); f != DefaultEmissionFactor {
		t.Errorf("unknown category should use default factor, got %v", f)
	}
	if f := EmissionFactor("  SEDAN "); f != SedanEmissionFactor {
		t.Errorf("category lookup should trim and lowercase, got %v", f)
	}
}

func TestEmittedCO2Proportional(t *testing.T) {
	ten := EmittedCO2("sedan", 10)
	twenty := EmittedCO2("sedan", 20)
	if math.Abs(twenty-2*ten) > 0.01 {
		t.Errorf("emissions should scale linearly with distance: %v vs %v", ten, twenty)
	}
}

func TestSavedCO2ZeroPassengers(t *testing.T) {
	if saved := SavedCO2("sedan", 42, 0); saved != 0 {
		t.Errorf("driver-only trip saves nothing, got %v", saved)
	}
}

func TestSavedCO2(t *testing.T) {
	tests := []struct {
		name       string
		category   string
		distanceKm float64
		passengers int
		want       float64
	}{
		{"sedan one passenger nets zero", "sedan", 10, 1, 0},
		{"sedan two passengers", "sedan", 10, 2, 1.92},
		{"hybrid beats baseline", "hybrid", 10, 1, 0.92},
		{"van dirtier than baseline goes negative", "van", 10, 1, -0.88},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SavedCO2(tt.category, tt.distanceKm, tt.passengers)
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("SavedCO2(%q, %v, %d) = %v, want %v",
					tt.category, tt.distanceKm, tt.passengers, got, tt.want)
			}
		})
	}
}
