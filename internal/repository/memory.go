package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"vending-locator/internal/dataset"
	"vending-locator/internal/models"

	"github.com/dhconnelly/rtreego"
	"github.com/rs/zerolog/log"
)

// pointSize is the edge of the square each location occupies in the index. Points sit at the
// square's center so box queries touching a point on either edge still intersect it.
const pointSize = 1e-9

type indexedLocation struct {
	rect rtreego.Rect
	loc  models.Location
}

func (l *indexedLocation) Bounds() rtreego.Rect {
	return l.rect
}

// MemoryRepository serves locations from memory, with an R-tree over their coordinates for box
// queries. It is safe for concurrent use.
type MemoryRepository struct {
	mu    sync.RWMutex
	tree  *rtreego.Rtree
	byID  map[string]*indexedLocation
	order []*indexedLocation
}

// NewMemoryRepository indexes records. Later records replace earlier ones with the same id.
func NewMemoryRepository(records []models.Location) (*MemoryRepository, error) {
	r := &MemoryRepository{
		tree: rtreego.NewTree(2, 25, 50),
		byID: make(map[string]*indexedLocation, len(records)),
	}
	if _, err := r.Upsert(context.Background(), records); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadMemoryRepository indexes the dataset file at path.
func LoadMemoryRepository(path string) (*MemoryRepository, error) {
	records, err := dataset.Load(path)
	if err != nil {
		return nil, fmt.Errorf("repository: memory: %w", err)
	}
	r, err := NewMemoryRepository(records)
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", path).Int("records", len(records)).Int("locations", r.Len()).Msg("Loaded locations into memory")
	return r, nil
}

func pointRect(lat, lng float64) (rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{lng - pointSize/2, lat - pointSize/2},
		[]float64{pointSize, pointSize},
	)
}

// GetAll returns every location ordered by id.
func (r *MemoryRepository) GetAll(_ context.Context) ([]models.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	locations := make([]models.Location, 0, len(r.order))
	for _, item := range r.order {
		locations = append(locations, item.loc)
	}
	sortByID(locations)
	return locations, nil
}

// GetByKey returns the location with the given id, or models.ErrNotFound.
func (r *MemoryRepository) GetByKey(_ context.Context, id string) (*models.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	loc := item.loc
	return &loc, nil
}

// GetByState returns the locations whose state matches exactly, ordered by id.
func (r *MemoryRepository) GetByState(_ context.Context, state string) ([]models.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	locations := []models.Location{}
	for _, item := range r.order {
		if item.loc.State == state {
			locations = append(locations, item.loc)
		}
	}
	sortByID(locations)
	return locations, nil
}

// GetBetween returns the locations inside the inclusive latitude/longitude box, ordered by id.
func (r *MemoryRepository) GetBetween(_ context.Context, latLo, latHi, lngLo, lngHi float64) ([]models.Location, error) {
	if latHi < latLo || lngHi < lngLo {
		return []models.Location{}, nil
	}

	query, err := rtreego.NewRect(
		rtreego.Point{lngLo - pointSize, latLo - pointSize},
		[]float64{lngHi - lngLo + 2*pointSize, latHi - latLo + 2*pointSize},
	)
	if err != nil {
		return nil, fmt.Errorf("repository: memory: invalid box: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	locations := []models.Location{}
	for _, s := range r.tree.SearchIntersect(query) {
		loc := s.(*indexedLocation).loc
		if loc.Latitude >= latLo && loc.Latitude <= latHi && loc.Longitude >= lngLo && loc.Longitude <= lngHi {
			locations = append(locations, loc)
		}
	}
	sortByID(locations)
	return locations, nil
}

// Upsert inserts each record or replaces the one with the same id, re-indexing its coordinates.
func (r *MemoryRepository) Upsert(_ context.Context, records []models.Location) (UpsertSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var summary UpsertSummary
	for _, loc := range records {
		rect, err := pointRect(loc.Latitude, loc.Longitude)
		if err != nil {
			log.Error().Err(err).Str("id", loc.ID).Msg("repository: memory: failed to index location")
			summary.Errors++
			continue
		}

		if item, ok := r.byID[loc.ID]; ok {
			r.tree.Delete(item)
			item.loc = loc
			item.rect = rect
			r.tree.Insert(item)
			summary.Updated++
			continue
		}

		item := &indexedLocation{rect: rect, loc: loc}
		r.byID[loc.ID] = item
		r.order = append(r.order, item)
		r.tree.Insert(item)
		summary.Inserted++
	}
	return summary, nil
}

// Len returns the number of indexed locations.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func sortByID(locations []models.Location) {
	sort.Slice(locations, func(i, j int) bool {
		return locations[i].ID < locations[j].ID
	})
}
