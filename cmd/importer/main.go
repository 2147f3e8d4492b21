package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vending-locator/internal/cache"
	"vending-locator/internal/config"
	"vending-locator/internal/dataset"
	"vending-locator/internal/models"
	"vending-locator/internal/repository"

	"github.com/rs/zerolog/log"
)

func main() {
	file := flag.String("file", "", "Path to the authoritative dataset (default SEED_FILE)")
	configDir := flag.String("config", "configs", "Directory holding app.env")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.InitLogger(cfg)

	if *file == "" {
		*file = cfg.SeedFile
	}
	if cfg.DBDriver == config.DriverMemory {
		fmt.Println("Error: DB_DRIVER=memory has nothing to import into; use postgres or sqlite")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *file); err != nil {
		fmt.Printf("Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, path string) error {
	fmt.Printf("Starting import from file: %s\n", path)

	records, err := dataset.Load(path)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}
	fmt.Printf("Loaded %d records\n", len(records))

	warnUnresolved(records)

	store, closeStore, err := repository.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	summary, err := store.Upsert(ctx, records)
	printSummary(summary)
	if err != nil {
		return err
	}

	if err := verifyImport(ctx, store, records, summary); err != nil {
		return err
	}

	if cfg.RedisEnabled {
		purgeCache(ctx, cfg)
	}
	return nil
}

// purgeCache drops cached API query results so the next requests see the imported data. A
// failure only leaves entries to expire on their TTL.
func purgeCache(ctx context.Context, cfg config.Config) {
	rdb, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Warn().Err(err).Msg("cannot connect to redis, cached queries expire on their TTL")
		return
	}
	defer rdb.Close()

	n, err := cache.NewRedisCache(rdb, cfg.CacheTTL).Invalidate(ctx, "locations:")
	if err != nil {
		log.Warn().Err(err).Msg("failed to purge cached queries")
		return
	}
	fmt.Printf("Purged %d cached queries\n", n)
}

// warnUnresolved logs records that would be served without usable coordinates. They are imported
// anyway.
func warnUnresolved(records []models.Location) {
	for _, loc := range records {
		switch loc.Coordinates().State() {
		case models.Unresolved:
			log.Warn().Str("id", loc.ID).Msg("importing location without coordinates")
		case models.Partial:
			log.Warn().Str("id", loc.ID).Float64("latitude", loc.Latitude).Float64("longitude", loc.Longitude).
				Msg("importing location with partially resolved coordinates")
		}
	}
}

func printSummary(s repository.UpsertSummary) {
	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("Inserted: %d\n", s.Inserted)
	fmt.Printf("Updated:  %d\n", s.Updated)
	fmt.Printf("Errors:   %d\n", s.Errors)
	fmt.Println("======================")
}

// verifyImport looks up every distinct id of the imported records. Only as many may be missing as
// records failed to upsert.
func verifyImport(ctx context.Context, store repository.Store, records []models.Location, summary repository.UpsertSummary) error {
	seen := make(map[string]struct{}, len(records))
	var missing []string
	for _, loc := range records {
		if _, ok := seen[loc.ID]; ok {
			continue
		}
		seen[loc.ID] = struct{}{}

		_, err := store.GetByKey(ctx, loc.ID)
		if errors.Is(err, models.ErrNotFound) {
			missing = append(missing, loc.ID)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to verify %s: %w", loc.ID, err)
		}
	}

	if len(missing) > summary.Errors {
		return fmt.Errorf("record count mismatch: %d of %d ids missing from the store, %d upsert errors: %v",
			len(missing), len(seen), summary.Errors, missing)
	}

	locations, err := store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}
	fmt.Printf("Verified %d of %d ids, store now holds %d records\n", len(seen)-len(missing), len(seen), len(locations))
	return nil
}
