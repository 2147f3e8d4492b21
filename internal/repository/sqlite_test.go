package repository

import (
	"context"
	"path/filepath"
	"testing"

	"vending-locator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLocations() []models.Location {
	return []models.Location{
		{ID: "frys_101", Retailer: "Frys", MachineID: "101", Name: "Frys Tempe", Address: "1 Main St", City: "Tempe", State: "AZ", Latitude: 33.42, Longitude: -111.94, Type: "grocery", LastVerified: "2024-06-01", IsActive: true},
		{ID: "safeway_7", Retailer: "Safeway", MachineID: "7", Name: "Safeway Phoenix", Address: "2 Central Ave", City: "Phoenix", State: "AZ", Latitude: 33.45, Longitude: -112.07, Type: "grocery", LastVerified: "2024-06-01", IsActive: true},
		{ID: "walmart_9", Retailer: "Walmart", MachineID: "9", Name: "Walmart Denver", Address: "3 Colfax Ave", City: "Denver", State: "CO", Latitude: 39.74, Longitude: -104.99, Type: "retail", LastVerified: "2024-06-01", IsActive: false},
		{ID: "target_3", Retailer: "Target", MachineID: "3", Name: "Target Mesa", Address: "4 Main St", City: "Mesa", State: "AZ", Type: "retail", IsActive: true},
	}
}

func newSQLiteRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(context.Background(), filepath.Join(t.TempDir(), "data", "locations.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepository_UpsertAndQuery(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepository(t)

	summary, err := repo.Upsert(ctx, seedLocations())
	require.NoError(t, err)
	assert.Equal(t, UpsertSummary{Inserted: 4}, summary)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "frys_101", all[0].ID)
	assert.Equal(t, seedLocations()[0], all[0])

	az, err := repo.GetByState(ctx, "AZ")
	require.NoError(t, err)
	assert.Len(t, az, 3)

	box, err := repo.GetBetween(ctx, 33.0, 34.0, -112.5, -111.5)
	require.NoError(t, err)
	require.Len(t, box, 2)
	assert.Equal(t, "frys_101", box[0].ID)
	assert.Equal(t, "safeway_7", box[1].ID)

	denver, err := repo.GetByKey(ctx, "walmart_9")
	require.NoError(t, err)
	assert.False(t, denver.IsActive)

	_, err = repo.GetByKey(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSQLiteRepository_UpsertUpdatesExisting(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepository(t)

	_, err := repo.Upsert(ctx, seedLocations())
	require.NoError(t, err)

	updated := seedLocations()[3]
	updated.Latitude, updated.Longitude = 33.41, -111.83
	summary, err := repo.Upsert(ctx, []models.Location{updated})
	require.NoError(t, err)
	assert.Equal(t, UpsertSummary{Updated: 1}, summary)

	got, err := repo.GetByKey(ctx, "target_3")
	require.NoError(t, err)
	assert.Equal(t, updated, *got)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestSQLiteRepository_EmptyResults(t *testing.T) {
	repo := newSQLiteRepository(t)

	got, err := repo.GetByState(context.Background(), "NV")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
