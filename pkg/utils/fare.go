package utils

import (
	"math"
)

// FareShare computes one passenger's share of a ride's estimated fare,
// proportional to the passenger's sub-distance. A zero-length ride has
// nothing to apportion, so the share is zero.
func FareShare(subDistanceKm, totalDistanceKm, totalFare float64) float64 {
	if totalDistanceKm <= 0 {
		return 0
	}

	share := (subDistanceKm / totalDistanceKm) * totalFare

	// Round to 2 decimal places
	return math.Round(share*100) / 100
}
