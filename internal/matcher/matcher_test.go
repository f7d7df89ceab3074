package matcher

import (
	"testing"
	"time"

	"github.com/magic-peach/greenmobility-sub000/internal/models"
)

type fakeSource struct {
	rides []models.Ride
	from  time.Time
	to    time.Time
}

func (f *fakeSource) OpenRides(from, to time.Time) ([]models.Ride, error) {
	f.from, f.to = from, to
	return f.rides, nil
}

// Coordinates around Nairobi; ~0.009 degrees of latitude is ~1 km.
func rideAt(id uint, originLat, originLng, destLat, destLng float64) models.Ride {
	r := models.Ride{
		OriginLat: originLat, OriginLng: originLng,
		DestLat: destLat, DestLng: destLng,
		Status: models.RideStatusUpcoming,
	}
	r.ID = id
	return r
}

func TestSearchFiltersByBothEndpoints(t *testing.T) {
	src := &fakeSource{rides: []models.Ride{
		// Both endpoints ~1 km away: in.
		rideAt(1, -1.2954, 36.8172, -1.2585, 36.8078),
		// Origin close, destination ~20 km off: out.
		rideAt(2, -1.2954, 36.8172, -1.45, 36.95),
		// Origin ~20 km off: out.
		rideAt(3, -1.46, 36.8172, -1.2585, 36.8078),
	}}

	svc := Service{Source: src}
	matches, err := svc.Search(Query{
		OriginLat: -1.2864, OriginLng: 36.8172,
		DestLat: -1.2675, DestLng: 36.8078,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Ride.ID != 1 {
		t.Errorf("expected ride 1, got %d", matches[0].Ride.ID)
	}
}

func TestSearchRanksByMeanDistance(t *testing.T) {
	src := &fakeSource{rides: []models.Ride{
		// ~2 km from both endpoints.
		rideAt(1, -1.3044, 36.8172, -1.2495, 36.8078),
		// ~1 km from both endpoints: should rank first.
		rideAt(2, -1.2954, 36.8172, -1.2585, 36.8078),
	}}

	svc := Service{Source: src}
	matches, err := svc.Search(Query{
		OriginLat: -1.2864, OriginLng: 36.8172,
		DestLat: -1.2675, DestLng: 36.8078,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Ride.ID != 2 {
		t.Errorf("closest ride should rank first, got ride %d", matches[0].Ride.ID)
	}
	if matches[0].MeanDistance >= matches[1].MeanDistance {
		t.Errorf("ranking not ascending: %v then %v", matches[0].MeanDistance, matches[1].MeanDistance)
	}
}

func TestSearchSkipsMalformedCoordinates(t *testing.T) {
	src := &fakeSource{rides: []models.Ride{
		rideAt(1, 0, 0, -1.2585, 36.8078), // zeroed origin, legacy record
		rideAt(2, -1.2954, 36.8172, -1.2585, 36.8078),
	}}

	svc := Service{Source: src}
	matches, err := svc.Search(Query{
		OriginLat: -1.2864, OriginLng: 36.8172,
		DestLat: -1.2675, DestLng: 36.8078,
	})
	if err != nil {
		t.Fatalf("malformed coordinates must not fail the search: %v", err)
	}
	if len(matches) != 1 || matches[0].Ride.ID != 2 {
		t.Errorf("malformed ride should be skipped, got %d matches", len(matches))
	}
}

func TestSearchEmptyResultIsSuccess(t *testing.T) {
	svc := Service{Source: &fakeSource{}}
	matches, err := svc.Search(Query{OriginLat: -1.28, OriginLng: 36.81, DestLat: -1.26, DestLng: 36.80})
	if err != nil {
		t.Fatalf("empty result must not be an error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}

func TestSearchDefaultWindow(t *testing.T) {
	src := &fakeSource{}
	svc := Service{Source: src}

	around := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	if _, err := svc.Search(Query{Around: around, OriginLat: -1.28, OriginLng: 36.81, DestLat: -1.26, DestLng: 36.80}); err != nil {
		t.Fatalf("Search: %v", err)
	}

	if !src.from.Equal(around.Add(-DefaultWindow)) || !src.to.Equal(around.Add(DefaultWindow)) {
		t.Errorf("default window not applied: got [%v, %v]", src.from, src.to)
	}
}
