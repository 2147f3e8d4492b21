package repository

import (
	"context"
	"testing"

	"vending-locator/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var locationColumns = []string{
	"id", "retailer", "machine_id", "name", "address", "city", "state", "zip_code",
	"latitude", "longitude", "type", "last_verified", "is_active",
}

func newMockRepository(t *testing.T, table string) (*Repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewRepository(mock, table), mock
}

func frysRow(rows *pgxmock.Rows) *pgxmock.Rows {
	return rows.AddRow("frys_101", "Frys", "101", "Frys Tempe", "1 Main St", "Tempe", "AZ", "",
		33.42, -111.94, "grocery", "2024-06-01", true)
}

func TestRepository_GetByState(t *testing.T) {
	repo, mock := newMockRepository(t, "")

	mock.ExpectQuery(`FROM "vending_locations" WHERE state = \$1 ORDER BY id`).
		WithArgs("AZ").
		WillReturnRows(frysRow(pgxmock.NewRows(locationColumns)))

	got, err := repo.GetByState(context.Background(), "AZ")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.Location{
		ID: "frys_101", Retailer: "Frys", MachineID: "101", Name: "Frys Tempe", Address: "1 Main St",
		City: "Tempe", State: "AZ", Latitude: 33.42, Longitude: -111.94, Type: "grocery",
		LastVerified: "2024-06-01", IsActive: true,
	}, got[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetAll_EmptyIsNotNil(t *testing.T) {
	repo, mock := newMockRepository(t, "")

	mock.ExpectQuery(`FROM "vending_locations" ORDER BY id`).
		WillReturnRows(pgxmock.NewRows(locationColumns))

	got, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Location{}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetBetween(t *testing.T) {
	repo, mock := newMockRepository(t, "")

	mock.ExpectQuery(`WHERE latitude BETWEEN \$1 AND \$2 AND longitude BETWEEN \$3 AND \$4`).
		WithArgs(33.0, 34.0, -112.5, -111.5).
		WillReturnRows(frysRow(pgxmock.NewRows(locationColumns)))

	got, err := repo.GetBetween(context.Background(), 33.0, 34.0, -112.5, -111.5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "frys_101", got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByKey(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantID  string
		wantErr error
	}{
		{
			name: "found",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`WHERE id = \$1`).WithArgs("frys_101").
					WillReturnRows(frysRow(pgxmock.NewRows(locationColumns)))
			},
			wantID: "frys_101",
		},
		{
			name: "not found",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`WHERE id = \$1`).WithArgs("frys_101").WillReturnError(pgx.ErrNoRows)
			},
			wantErr: models.ErrNotFound,
		},
		{
			name: "database error",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`WHERE id = \$1`).WithArgs("frys_101").WillReturnError(assert.AnError)
			},
			wantErr: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t, "")
			tt.setup(mock)

			got, err := repo.GetByKey(context.Background(), "frys_101")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, got.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_QuotesTableName(t *testing.T) {
	repo, mock := newMockRepository(t, "vending locations")

	mock.ExpectQuery(`FROM "vending locations" ORDER BY id`).
		WillReturnRows(pgxmock.NewRows(locationColumns))

	_, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Upsert(t *testing.T) {
	repo, mock := newMockRepository(t, "")

	records := []models.Location{
		{ID: "frys_101", Retailer: "Frys", MachineID: "101", Name: "Frys Tempe", State: "AZ", Latitude: 33.42, Longitude: -111.94, LastVerified: "2024-06-01", IsActive: true},
		{ID: "frys_102", Retailer: "Frys", MachineID: "102", Name: "Frys Mesa", State: "AZ", IsActive: true},
		{ID: "frys_103", Retailer: "Frys", MachineID: "103", Name: "Frys Chandler", State: "AZ", IsActive: true},
	}

	mock.ExpectQuery(`INSERT INTO "vending_locations"`).
		WithArgs("frys_101", "Frys", "101", "Frys Tempe", "", "", "AZ", "", 33.42, -111.94, "", "2024-06-01", true).
		WillReturnRows(pgxmock.NewRows([]string{"inserted"}).AddRow(true))
	mock.ExpectQuery(`ON CONFLICT \(id\) DO UPDATE`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"inserted"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO "vending_locations"`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(assert.AnError)

	summary, err := repo.Upsert(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, UpsertSummary{Inserted: 1, Updated: 1, Errors: 1}, summary)
	assert.Equal(t, 3, summary.Total())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Upsert_Cancelled(t *testing.T) {
	repo, mock := newMockRepository(t, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Upsert(ctx, []models.Location{{ID: "frys_101"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, mock.ExpectationsWereMet())
}
