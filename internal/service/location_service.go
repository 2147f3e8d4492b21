package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vending-locator/internal/models"

	"github.com/rs/zerolog/log"
)

// ErrInvalidArgument marks a request the service refuses before touching the store.
var ErrInvalidArgument = errors.New("invalid argument")

// LocationRepository interface for dependency injection
type LocationRepository interface {
	GetAll(ctx context.Context) ([]models.Location, error)
	GetByKey(ctx context.Context, id string) (*models.Location, error)
	GetByState(ctx context.Context, state string) ([]models.Location, error)
	GetBetween(ctx context.Context, latLo, latHi, lngLo, lngHi float64) ([]models.Location, error)
}

// Cache stores query results. A nil Cache disables caching.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
}

// LocationService serves the list and lookup queries of the read API
type LocationService struct {
	repo  LocationRepository
	cache Cache
}

// NewLocationService creates a new location service. cache may be nil.
func NewLocationService(repo LocationRepository, cache Cache) *LocationService {
	return &LocationService{repo: repo, cache: cache}
}

// ListAll returns every location
func (s *LocationService) ListAll(ctx context.Context) ([]models.Location, error) {
	return cached(ctx, s.cache, "locations:all", func() ([]models.Location, error) {
		locations, err := s.repo.GetAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("service: failed to list locations: %w", err)
		}
		return locations, nil
	})
}

// ListByState returns the locations in a state. The code is matched upper-cased.
func (s *LocationService) ListByState(ctx context.Context, state string) ([]models.Location, error) {
	state = strings.ToUpper(strings.TrimSpace(state))
	if state == "" {
		return nil, fmt.Errorf("service: state cannot be empty: %w", ErrInvalidArgument)
	}

	return cached(ctx, s.cache, "locations:state:"+state, func() ([]models.Location, error) {
		locations, err := s.repo.GetByState(ctx, state)
		if err != nil {
			return nil, fmt.Errorf("service: failed to list locations for state %s: %w", state, err)
		}
		return locations, nil
	})
}

// GetByID returns a single location. A missing id yields models.ErrNotFound.
func (s *LocationService) GetByID(ctx context.Context, id string) (*models.Location, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("service: id cannot be empty: %w", ErrInvalidArgument)
	}

	location, err := s.repo.GetByKey(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get location: %w", err)
	}
	return location, nil
}

// cached serves key from c when present, otherwise calls load and stores its result. Cache
// failures are logged and never fail the query.
func cached[T any](ctx context.Context, c Cache, key string, load func() (T, error)) (T, error) {
	if c == nil {
		return load()
	}

	var hit T
	ok, err := c.Get(ctx, key, &hit)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("service: cache read failed")
	} else if ok {
		return hit, nil
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	if err := c.Set(ctx, key, v); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("service: cache write failed")
	}
	return v, nil
}
