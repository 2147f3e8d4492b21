package service

import (
	"context"
	"fmt"

	"vending-locator/internal/models"
	"vending-locator/internal/nearby"

	"github.com/umahmood/haversine"
)

// NearbyService answers radius queries over the location store
type NearbyService struct {
	engine *nearby.Engine
	cache  Cache
}

// NewNearbyService creates a new nearby service. cache may be nil.
func NewNearbyService(repo LocationRepository, cache Cache) *NearbyService {
	return &NearbyService{engine: nearby.NewEngine(repo), cache: cache}
}

// Nearby returns the locations inside the bounding box around (lat, lng), each annotated with its
// great-circle distance from the center. A non-positive radius uses nearby.DefaultRadiusKm.
func (s *NearbyService) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]models.NearbyLocation, error) {
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("service: invalid latitude: %f: %w", lat, ErrInvalidArgument)
	}
	if lng < -180 || lng > 180 {
		return nil, fmt.Errorf("service: invalid longitude: %f: %w", lng, ErrInvalidArgument)
	}
	if radiusKm <= 0 {
		radiusKm = nearby.DefaultRadiusKm
	}

	key := fmt.Sprintf("locations:nearby:%.6f:%.6f:%g", lat, lng, radiusKm)
	return cached(ctx, s.cache, key, func() ([]models.NearbyLocation, error) {
		locations, err := s.engine.Find(ctx, lat, lng, radiusKm)
		if err != nil {
			return nil, fmt.Errorf("service: failed to find nearby locations: %w", err)
		}

		center := haversine.Coord{Lat: lat, Lon: lng}
		results := make([]models.NearbyLocation, 0, len(locations))
		for _, loc := range locations {
			_, km := haversine.Distance(center, haversine.Coord{Lat: loc.Latitude, Lon: loc.Longitude})
			results = append(results, models.NearbyLocation{Location: loc, DistanceKm: km})
		}
		return results, nil
	})
}
