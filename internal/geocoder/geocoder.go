// Package geocoder resolves location addresses to coordinates through an external search service,
// one request at a time and no faster than the service's usage policy allows.
package geocoder

import (
	"context"
	"fmt"
	"time"

	"vending-locator/internal/dataset"
	"vending-locator/internal/models"
	"vending-locator/pkg/nominatim"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

//go:generate mockgen -source=geocoder.go -destination=mocks/mock_lookup.go -package=mocks

// Lookup is the external search service. Candidates come back best first.
type Lookup interface {
	Search(ctx context.Context, query string) ([]nominatim.Candidate, error)
}

// Geocoder owns the rate gate in front of a Lookup.
type Geocoder struct {
	lookup  Lookup
	limiter *rate.Limiter
}

// New creates a geocoder that waits at least minDelay between consecutive lookups.
// A zero delay disables the gate.
func New(lookup Lookup, minDelay time.Duration) *Geocoder {
	limit := rate.Inf
	if minDelay > 0 {
		limit = rate.Every(minDelay)
	}
	return &Geocoder{
		lookup:  lookup,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Query builds the free-text search string for an address.
func Query(address, city, state string) string {
	return fmt.Sprintf("%s, %s, %s, USA", address, city, state)
}

// Resolve looks up one address. Any failure (transport, status, empty result, or a sentinel top
// candidate) is logged and reported as (Sentinel, false).
func (g *Geocoder) Resolve(ctx context.Context, address, city, state string) (models.Coordinates, bool) {
	query := Query(address, city, state)

	if err := g.limiter.Wait(ctx); err != nil {
		log.Warn().Err(err).Str("query", query).Msg("geocoder: rate gate aborted")
		return models.Sentinel, false
	}

	candidates, err := g.lookup.Search(ctx, query)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("geocoder: lookup failed")
		return models.Sentinel, false
	}
	if len(candidates) == 0 {
		log.Debug().Str("query", query).Msg("geocoder: no match")
		return models.Sentinel, false
	}

	top := models.Coordinates{Latitude: candidates[0].Latitude, Longitude: candidates[0].Longitude}
	if !top.IsResolved() {
		log.Warn().Str("query", query).Float64("lat", top.Latitude).Float64("lon", top.Longitude).
			Msg("geocoder: top candidate has a zero coordinate")
		return models.Sentinel, false
	}
	return top, true
}

// Summary reports the outcome of a batch.
type Summary struct {
	Total     int
	Attempted int
	Succeeded int
	Failed    int
	// Skipped counts records that were already resolved.
	Skipped int
	// Anomalies counts records with exactly one zero coordinate; they are left untouched.
	Anomalies int
	// Remaining counts unresolved records not attempted because the batch was cancelled.
	Remaining int
}

// Interrupted reports whether the batch stopped before visiting every unresolved record.
func (s Summary) Interrupted() bool {
	return s.Remaining > 0
}

// Run geocodes every unresolved record in place. Resolved records are never queried again, so
// running a batch twice is safe. Lookups are sequential.
func (g *Geocoder) Run(ctx context.Context, records []models.Location) Summary {
	s := Summary{Total: len(records)}

	for i := range records {
		loc := &records[i]

		switch loc.Coordinates().State() {
		case models.Resolved:
			s.Skipped++
			continue
		case models.Partial:
			s.Anomalies++
			log.Warn().Str("id", loc.ID).Float64("lat", loc.Latitude).Float64("lon", loc.Longitude).
				Msg("geocoder: partially resolved coordinates, skipping")
			continue
		}

		if ctx.Err() != nil {
			s.Remaining++
			continue
		}

		s.Attempted++
		log.Info().Int("n", i+1).Int("of", len(records)).Str("id", loc.ID).Str("city", loc.City).
			Msg("geocoder: resolving")

		coords, ok := g.Resolve(ctx, loc.Address, loc.City, loc.State)
		if !ok {
			if ctx.Err() != nil {
				// The gate was interrupted, not the lookup.
				s.Attempted--
				s.Remaining++
				continue
			}
			s.Failed++
			log.Warn().Str("id", loc.ID).Str("address", loc.Address).Msg("geocoder: failed to geocode")
			continue
		}
		loc.SetCoordinates(coords)
		s.Succeeded++
	}

	return s
}

// RunFile geocodes the dataset at in and writes the full dataset, resolved and unresolved records
// together, to out. The snapshot is written even if ctx is cancelled mid-batch.
func (g *Geocoder) RunFile(ctx context.Context, in, out string) (Summary, error) {
	records, err := dataset.Load(in)
	if err != nil {
		return Summary{}, fmt.Errorf("geocoder: %w", err)
	}

	s := g.Run(ctx, records)

	if err := dataset.Save(out, records); err != nil {
		return s, fmt.Errorf("geocoder: %w", err)
	}
	return s, nil
}
