package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"vending-locator/internal/models"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteRepository implements the location store on a local SQLite file.
type SQLiteRepository struct {
	db        *sql.DB
	table     string
	selectSQL string
}

// NewSQLiteRepository opens the SQLite database at path, configures WAL mode, and creates the
// locations table if it does not exist.
func NewSQLiteRepository(ctx context.Context, path, table string) (*SQLiteRepository, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("repository: sqlite: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("repository: sqlite: open: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("repository: sqlite: exec %s: %w", pragma, err)
		}
	}

	if table == "" {
		table = DefaultTable
	}
	quoted := pq.QuoteIdentifier(table)
	r := &SQLiteRepository{
		db:    db,
		table: quoted,
		selectSQL: `SELECT id, retailer, machine_id, name, address, city, state, COALESCE(zip_code, ''), ` +
			`COALESCE(latitude, 0), COALESCE(longitude, 0), COALESCE(type, ''), ` +
			`COALESCE(last_verified, ''), COALESCE(is_active, 1) FROM ` + quoted,
	}
	if err := r.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *SQLiteRepository) migrate(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS ` + r.table + ` (
	id            TEXT PRIMARY KEY,
	retailer      TEXT NOT NULL,
	machine_id    TEXT NOT NULL,
	name          TEXT NOT NULL,
	address       TEXT NOT NULL,
	city          TEXT NOT NULL,
	state         TEXT NOT NULL,
	zip_code      TEXT,
	latitude      REAL,
	longitude     REAL,
	type          TEXT,
	last_verified TEXT,
	is_active     INTEGER DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_locations_state ON ` + r.table + ` (state);
CREATE INDEX IF NOT EXISTS idx_locations_lat_lng ON ` + r.table + ` (latitude, longitude);
`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("repository: sqlite: migrate: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// GetAll returns every location ordered by id.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Location, error) {
	return r.query(ctx, r.selectSQL+` ORDER BY id`)
}

// GetByKey returns the location with the given id, or models.ErrNotFound.
func (r *SQLiteRepository) GetByKey(ctx context.Context, id string) (*models.Location, error) {
	loc, err := scanSQLLocation(r.db.QueryRowContext(ctx, r.selectSQL+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository: sqlite: get location %q: %w", id, err)
	}
	return &loc, nil
}

// GetByState returns the locations whose state matches exactly.
func (r *SQLiteRepository) GetByState(ctx context.Context, state string) ([]models.Location, error) {
	return r.query(ctx, r.selectSQL+` WHERE state = ? ORDER BY id`, state)
}

// GetBetween returns the locations inside the inclusive latitude/longitude box.
func (r *SQLiteRepository) GetBetween(ctx context.Context, latLo, latHi, lngLo, lngHi float64) ([]models.Location, error) {
	return r.query(ctx,
		r.selectSQL+` WHERE latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ? ORDER BY id`,
		latLo, latHi, lngLo, lngHi)
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]models.Location, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: sqlite: query: %w", err)
	}
	defer rows.Close()

	locations := []models.Location{}
	for rows.Next() {
		loc, err := scanSQLLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: sqlite: scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: sqlite: iterate rows: %w", err)
	}
	return locations, nil
}

type sqlScanner interface {
	Scan(dest ...any) error
}

func scanSQLLocation(row sqlScanner) (models.Location, error) {
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

// Upsert inserts or replaces each record by id, with the same per-record error handling as the
// PostgreSQL repository.
func (r *SQLiteRepository) Upsert(ctx context.Context, records []models.Location) (UpsertSummary, error) {
	existsSQL := `SELECT COUNT(*) FROM ` + r.table + ` WHERE id = ?`
	upsertSQL := `INSERT INTO ` + r.table + ` (id, retailer, machine_id, name, address, city, state, zip_code, latitude, longitude, type, last_verified, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''), ?)
		ON CONFLICT (id) DO UPDATE SET
			retailer = excluded.retailer,
			machine_id = excluded.machine_id,
			name = excluded.name,
			address = excluded.address,
			city = excluded.city,
			state = excluded.state,
			zip_code = excluded.zip_code,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			type = excluded.type,
			last_verified = excluded.last_verified,
			is_active = excluded.is_active`

	var summary UpsertSummary
	for _, loc := range records {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("repository: sqlite: upsert interrupted: %w", err)
		}

		var existing int
		if err := r.db.QueryRowContext(ctx, existsSQL, loc.ID).Scan(&existing); err != nil {
			log.Error().Err(err).Str("id", loc.ID).Msg("repository: sqlite: failed to check location")
			summary.Errors++
			continue
		}

		_, err := r.db.ExecContext(ctx, upsertSQL,
			loc.ID, loc.Retailer, loc.MachineID, loc.Name, loc.Address, loc.City, loc.State,
			loc.ZipCode, loc.Latitude, loc.Longitude, loc.Type, loc.LastVerified, loc.IsActive,
		)
		if err != nil {
			log.Error().Err(err).Str("id", loc.ID).Msg("repository: sqlite: failed to upsert location")
			summary.Errors++
			continue
		}

		if existing == 0 {
			summary.Inserted++
		} else {
			summary.Updated++
		}
	}
	return summary, nil
}
