package matcher

import (
	"sort"
	"time"

	"github.com/magic-peach/greenmobility-sub000/internal/models"
	"github.com/magic-peach/greenmobility-sub000/pkg/utils"
)

const (
	// DefaultRadiusKm bounds how far a ride's origin and destination may
	// each sit from the searcher's.
	DefaultRadiusKm = 5.0
	// DefaultWindow is applied on both sides of the searcher's time.
	DefaultWindow = 2 * time.Hour
)

// Query describes what a searcher is looking for.
type Query struct {
	OriginLat float64
	OriginLng float64
	DestLat   float64
	DestLng   float64
	RadiusKm  float64
	Window    time.Duration
	Around    time.Time
}

// Match is a ride annotated with how far its endpoints sit from the
// searcher's, and the mean used for ranking.
type Match struct {
	Ride           models.Ride `json:"ride"`
	OriginDistance float64     `json:"originDistanceKm"`
	DestDistance   float64     `json:"destDistanceKm"`
	MeanDistance   float64     `json:"meanDistanceKm"`
}

// RideSource yields open rides departing inside a window: status upcoming
// with at least one available seat.
type RideSource interface {
	OpenRides(from, to time.Time) ([]models.Ride, error)
}

// Service ranks open rides against a searcher's origin and destination.
type Service struct {
	Source RideSource
}

// Search returns rides whose origin and destination both fall within the
// query radius, ranked ascending by the mean of the two distances. An
// empty result is a normal outcome. Rides with malformed coordinates are
// skipped rather than failing the whole search.
func (s *Service) Search(q Query) ([]Match, error) {
	radius := q.RadiusKm
	if radius <= 0 {
		radius = DefaultRadiusKm
	}
	window := q.Window
	if window <= 0 {
		window = DefaultWindow
	}
	around := q.Around
	if around.IsZero() {
		around = time.Now()
	}

	rides, err := s.Source.OpenRides(around.Add(-window), around.Add(window))
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(rides))
	for _, ride := range rides {
		if !ride.HasValidCoordinates() {
			continue
		}

		originDist := utils.HaversineDistance(q.OriginLat, q.OriginLng, ride.OriginLat, ride.OriginLng)
		destDist := utils.HaversineDistance(q.DestLat, q.DestLng, ride.DestLat, ride.DestLng)

		if originDist > radius || destDist > radius {
			continue
		}

		matches = append(matches, Match{
			Ride:           ride,
			OriginDistance: originDist,
			DestDistance:   destDist,
			MeanDistance:   (originDist + destDist) / 2,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].MeanDistance < matches[j].MeanDistance
	})

	return matches, nil
}
