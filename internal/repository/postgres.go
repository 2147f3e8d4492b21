package repository

import (
	"context"
	"errors"
	"fmt"

	"vending-locator/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// DefaultTable is the table created by the embedded migrations.
const DefaultTable = "vending_locations"

// DB is the subset of *pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UpsertSummary counts the outcome of an Upsert.
type UpsertSummary struct {
	Inserted int
	Updated  int
	Errors   int
}

// Total is the number of records processed.
func (s UpsertSummary) Total() int {
	return s.Inserted + s.Updated + s.Errors
}

// Repository implements the location store for PostgreSQL
type Repository struct {
	db        DB
	table     string
	selectSQL string
}

// NewRepository creates a new PostgreSQL repository over table. An empty table name selects
// DefaultTable.
func NewRepository(db DB, table string) *Repository {
	if table == "" {
		table = DefaultTable
	}
	quoted := pq.QuoteIdentifier(table)
	return &Repository{
		db:        db,
		table:     quoted,
		selectSQL: `SELECT id, retailer, machine_id, name, address, city, state, COALESCE(zip_code, ''), ` +
			`COALESCE(latitude, 0)::float8, COALESCE(longitude, 0)::float8, COALESCE(type, ''), ` +
			`COALESCE(to_char(last_verified, 'YYYY-MM-DD'), ''), COALESCE(is_active, TRUE) ` +
			`FROM ` + quoted,
	}
}

// GetAll returns every location ordered by id.
func (r *Repository) GetAll(ctx context.Context) ([]models.Location, error) {
	return r.query(ctx, r.selectSQL+` ORDER BY id`)
}

// GetByKey returns the location with the given id, or models.ErrNotFound.
func (r *Repository) GetByKey(ctx context.Context, id string) (*models.Location, error) {
	loc, err := scanLocation(r.db.QueryRow(ctx, r.selectSQL+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to get location %q: %w", id, err)
	}
	return &loc, nil
}

// GetByState returns the locations whose state matches exactly.
func (r *Repository) GetByState(ctx context.Context, state string) ([]models.Location, error) {
	return r.query(ctx, r.selectSQL+` WHERE state = $1 ORDER BY id`, state)
}

// GetBetween returns the locations inside the inclusive latitude/longitude box.
func (r *Repository) GetBetween(ctx context.Context, latLo, latHi, lngLo, lngHi float64) ([]models.Location, error) {
	return r.query(ctx,
		r.selectSQL+` WHERE latitude BETWEEN $1 AND $2 AND longitude BETWEEN $3 AND $4 ORDER BY id`,
		latLo, latHi, lngLo, lngHi)
}

func (r *Repository) query(ctx context.Context, sql string, args ...any) ([]models.Location, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute query: %w", err)
	}
	defer rows.Close()

	locations := []models.Location{}
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan location: %w", err)
		}
		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return locations, nil
}

func scanLocation(row pgx.Row) (models.Location, error) {
	var loc models.Location
	err := row.Scan(
		&loc.ID,
		&loc.Retailer,
		&loc.MachineID,
		&loc.Name,
		&loc.Address,
		&loc.City,
		&loc.State,
		&loc.ZipCode,
		&loc.Latitude,
		&loc.Longitude,
		&loc.Type,
		&loc.LastVerified,
		&loc.IsActive,
	)
	return loc, err
}

// Upsert inserts each record, or replaces every column of the existing row with the same id. A
// failing record is logged and counted; the rest are still written. Only a cancelled context
// aborts the run.
func (r *Repository) Upsert(ctx context.Context, records []models.Location) (UpsertSummary, error) {
	sql := `INSERT INTO ` + r.table + ` (id, retailer, machine_id, name, address, city, state, zip_code, latitude, longitude, type, last_verified, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12::text, '')::date, $13)
		ON CONFLICT (id) DO UPDATE SET
			retailer = EXCLUDED.retailer,
			machine_id = EXCLUDED.machine_id,
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zip_code = EXCLUDED.zip_code,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			type = EXCLUDED.type,
			last_verified = EXCLUDED.last_verified,
			is_active = EXCLUDED.is_active
		RETURNING (xmax = 0) AS inserted`

	var summary UpsertSummary
	for _, loc := range records {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("repository: upsert interrupted: %w", err)
		}

		var inserted bool
		err := r.db.QueryRow(ctx, sql,
			loc.ID, loc.Retailer, loc.MachineID, loc.Name, loc.Address, loc.City, loc.State,
			loc.ZipCode, loc.Latitude, loc.Longitude, loc.Type, loc.LastVerified, loc.IsActive,
		).Scan(&inserted)
		if err != nil {
			log.Error().Err(err).Str("id", loc.ID).Msg("repository: failed to upsert location")
			summary.Errors++
			continue
		}

		if inserted {
			summary.Inserted++
		} else {
			summary.Updated++
		}
	}

	return summary, nil
}
