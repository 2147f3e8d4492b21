package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "vending-locator/docs"
	"vending-locator/internal/cache"
	"vending-locator/internal/config"
	"vending-locator/internal/handler"
	"vending-locator/internal/repository"
	"vending-locator/internal/service"

	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// @title Vending Locator API
// @version 1.0
// @description Read-only API over the geocoded vending-machine location dataset.
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	config.InitLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage
	store, closeStore, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("cannot open store")
	}
	defer closeStore()

	// Optional query cache
	var queryCache service.Cache
	if cfg.RedisEnabled {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot connect to redis")
		}
		defer rdb.Close()
		queryCache = cache.NewRedisCache(rdb, cfg.CacheTTL)
		log.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.CacheTTL).Msg("Query cache enabled")
	}

	// Initialize layers
	locationService := service.NewLocationService(store, queryCache)
	nearbyService := service.NewNearbyService(store, queryCache)

	router := handler.NewRouter(
		handler.NewLocationHandler(locationService),
		handler.NewNearbyHandler(nearbyService),
	)

	withCORS := cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           withCORS(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.ServerAddress).Msg("HTTP server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return
	}
	log.Info().Msg("Server exited properly")
}
