// Package nearby answers radius queries with an axis-aligned bounding box.
//
// The box is a coarse filter, not a great-circle radius: it over-includes near its corners and
// widens without bound toward the poles. That trade is accepted for query speed.
package nearby

import (
	"context"
	"fmt"
	"math"

	"vending-locator/internal/models"
)

// DefaultRadiusKm is used when a query gives no positive radius.
const DefaultRadiusKm = 10.0

// kmPerDegree approximates the length of one degree of latitude.
const kmPerDegree = 111.0

// Box is an inclusive latitude/longitude rectangle.
type Box struct {
	LatMin, LatMax float64
	LngMin, LngMax float64
}

// NewBox computes the box around (lat, lng) for a radius in kilometers. Near the poles, where the
// longitude span diverges, the box covers every longitude.
func NewBox(lat, lng, radiusKm float64) Box {
	latSpan := radiusKm / kmPerDegree

	lngMin, lngMax := -180.0, 180.0
	if cos := math.Cos(lat * math.Pi / 180); cos > 1e-9 {
		lngSpan := radiusKm / (kmPerDegree * cos)
		if lngSpan < 180 {
			lngMin, lngMax = lng-lngSpan, lng+lngSpan
		}
	}

	return Box{
		LatMin: lat - latSpan,
		LatMax: lat + latSpan,
		LngMin: lngMin,
		LngMax: lngMax,
	}
}

// Contains reports whether the point lies inside the box, bounds included.
func (b Box) Contains(lat, lng float64) bool {
	return lat >= b.LatMin && lat <= b.LatMax && lng >= b.LngMin && lng <= b.LngMax
}

// Filter returns the records inside the box, in input order.
func (b Box) Filter(records []models.Location) []models.Location {
	out := []models.Location{}
	for _, loc := range records {
		if b.Contains(loc.Latitude, loc.Longitude) {
			out = append(out, loc)
		}
	}
	return out
}

// Ranger is the store lookup a box query translates into.
type Ranger interface {
	GetBetween(ctx context.Context, latLo, latHi, lngLo, lngHi float64) ([]models.Location, error)
}

// Engine runs nearby queries against a Ranger.
type Engine struct {
	store Ranger
}

// NewEngine creates an engine over store.
func NewEngine(store Ranger) *Engine {
	return &Engine{store: store}
}

// Find returns every record inside the box around (lat, lng). A non-positive radius falls back to
// DefaultRadiusKm. No match yields an empty slice.
func (e *Engine) Find(ctx context.Context, lat, lng, radiusKm float64) ([]models.Location, error) {
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("nearby: invalid latitude: %f", lat)
	}
	if lng < -180 || lng > 180 {
		return nil, fmt.Errorf("nearby: invalid longitude: %f", lng)
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}

	box := NewBox(lat, lng, radiusKm)
	locations, err := e.store.GetBetween(ctx, box.LatMin, box.LatMax, box.LngMin, box.LngMax)
	if err != nil {
		return nil, fmt.Errorf("nearby: failed to query store: %w", err)
	}
	if locations == nil {
		locations = []models.Location{}
	}
	return locations, nil
}
