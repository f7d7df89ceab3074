package utils

import (
	"math"
	"strings"
)

// Emission factors in kg CO2 per kilometer by vehicle category.
const (
	SedanEmissionFactor   = 0.192
	SUVEmissionFactor     = 0.250
	HatchEmissionFactor   = 0.160
	VanEmissionFactor     = 0.280
	HybridEmissionFactor  = 0.100
	ElectricEmissionFac   = 0.053 // grid-charged average, not zero
	DefaultEmissionFactor = 0.200

	// SoloBaselineFactor is the per-passenger solo-driving alternative
	// used to compute savings. A fixed sedan baseline regardless of what
	// each passenger would actually have driven.
	SoloBaselineFactor = SedanEmissionFactor
)

var emissionFactors = map[string]float64{
	"sedan":     SedanEmissionFactor,
	"suv":       SUVEmissionFactor,
	"hatchback": HatchEmissionFactor,
	"van":       VanEmissionFactor,
	"hybrid":    HybridEmissionFactor,
	"electric":  ElectricEmissionFac,
}

// EmissionFactor returns the kg CO2/km factor for a vehicle category,
// falling back to a default for unknown categories.
func EmissionFactor(category string) float64 {
	if f, ok := emissionFactors[strings.ToLower(strings.TrimSpace(category))]; ok {
		return f
	}
	return DefaultEmissionFactor
}

// EmittedCO2 returns kg of CO2 emitted by a trip.
func EmittedCO2(category string, distanceKm float64) float64 {
	return round2(EmissionFactor(category) * distanceKm)
}

// SavedCO2 returns kg of CO2 saved against each passenger driving the
// sedan baseline solo. Zero passengers saves nothing. A category dirtier
// than the baseline can legitimately come out negative; that is reported
// as-is rather than clamped.
func SavedCO2(category string, distanceKm float64, passengerCount int) float64 {
	if passengerCount <= 0 {
		return 0
	}

	avoided := SoloBaselineFactor * distanceKm * float64(passengerCount)
	actual := EmissionFactor(category) * distanceKm

	return round2(avoided - actual)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
