package services

import (
	"context"
	"fmt"
	"log"
	"os"

	"googlemaps.github.io/maps"

	"github.com/magic-peach/greenmobility-sub000/pkg/utils"
)

var mapsClient *maps.Client

// InitDistanceOracle initializes the Google Maps client. Without an API
// key the oracle runs on the great-circle estimate alone.
func InitDistanceOracle() error {
	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if apiKey == "" {
		log.Println("Warning: GOOGLE_MAPS_API_KEY not set. Using great-circle distance estimates.")
		return nil
	}

	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return fmt.Errorf("failed to create maps client: %v", err)
	}

	mapsClient = client
	return nil
}

// DistanceAndDuration returns road distance in kilometers and travel time
// in seconds between two coordinates. When the Distance Matrix API is
// unavailable or errors, it falls back to a great-circle estimate; callers
// never see a failure from here.
func DistanceAndDuration(ctx context.Context, lat1, lng1, lat2, lng2 float64) (float64, int) {
	if mapsClient != nil {
		km, sec, err := distanceMatrix(ctx, lat1, lng1, lat2, lng2)
		if err == nil {
			return km, sec
		}
		log.Printf("Distance Matrix unavailable, using great-circle estimate: %v", err)
	}

	km := utils.HaversineDistance(lat1, lng1, lat2, lng2)
	return km, utils.EstimateTravelSeconds(km, 0)
}

func distanceMatrix(ctx context.Context, lat1, lng1, lat2, lng2 float64) (float64, int, error) {
	req := &maps.DistanceMatrixRequest{
		Origins:      []string{fmt.Sprintf("%f,%f", lat1, lng1)},
		Destinations: []string{fmt.Sprintf("%f,%f", lat2, lng2)},
		Mode:         maps.TravelModeDriving,
	}

	resp, err := mapsClient.DistanceMatrix(ctx, req)
	if err != nil {
		return 0, 0, err
	}

	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return 0, 0, fmt.Errorf("no route found")
	}

	element := resp.Rows[0].Elements[0]
	if element.Status != "OK" {
		return 0, 0, fmt.Errorf("element status %s", element.Status)
	}

	km := float64(element.Distance.Meters) / 1000
	return km, int(element.Duration.Seconds()), nil
}
