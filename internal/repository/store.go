package repository

import (
	"context"
	"fmt"

	"vending-locator/internal/config"
	"vending-locator/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Store is the keyed location table every backend provides.
type Store interface {
	GetAll(ctx context.Context) ([]models.Location, error)
	GetByKey(ctx context.Context, id string) (*models.Location, error)
	GetByState(ctx context.Context, state string) ([]models.Location, error)
	GetBetween(ctx context.Context, latLo, latHi, lngLo, lngHi float64) ([]models.Location, error)
	Upsert(ctx context.Context, records []models.Location) (UpsertSummary, error)
}

var (
	_ Store = (*Repository)(nil)
	_ Store = (*SQLiteRepository)(nil)
	_ Store = (*MemoryRepository)(nil)
)

// Open connects the backend selected by cfg.DBDriver. PostgreSQL is migrated before use. The
// returned func releases the backend's resources.
func Open(ctx context.Context, cfg config.Config) (Store, func(), error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		if cfg.DBSource == "" {
			return nil, nil, fmt.Errorf("repository: DB_SOURCE is required for the %s driver", cfg.DBDriver)
		}
		if err := RunMigrations(cfg.DBSource); err != nil {
			return nil, nil, err
		}

		pool, err := pgxpool.New(ctx, cfg.DBSource)
		if err != nil {
			return nil, nil, fmt.Errorf("repository: cannot connect to db: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("repository: cannot reach db: %w", err)
		}
		log.Info().Str("table", cfg.DBTable).Msg("Connected to PostgreSQL")
		return NewRepository(pool, cfg.DBTable), pool.Close, nil

	case config.DriverSQLite:
		repo, err := NewSQLiteRepository(ctx, cfg.SQLitePath, cfg.DBTable)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("Opened SQLite database")
		return repo, func() { repo.Close() }, nil

	case config.DriverMemory:
		repo, err := LoadMemoryRepository(cfg.SeedFile)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("repository: unknown driver %q", cfg.DBDriver)
	}
}
