package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quakefeed/quakefeed/internal/adapters/database"
	"github.com/quakefeed/quakefeed/internal/adapters/events"
	"github.com/quakefeed/quakefeed/internal/api/handlers"
	"github.com/quakefeed/quakefeed/internal/api/routes"
	"github.com/quakefeed/quakefeed/internal/application/services"
	"github.com/quakefeed/quakefeed/internal/domain/entities"
	"github.com/quakefeed/quakefeed/internal/domain/providers"
	"github.com/quakefeed/quakefeed/internal/domain/repositories"
	"github.com/quakefeed/quakefeed/internal/geo"
	"github.com/quakefeed/quakefeed/internal/infrastructure/clients/postgres"
	redisclient "github.com/quakefeed/quakefeed/internal/infrastructure/clients/redis"
	"github.com/quakefeed/quakefeed/internal/infrastructure/clients/usgs"
	"github.com/quakefeed/quakefeed/internal/infrastructure/observability"
	"github.com/quakefeed/quakefeed/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger("quakefeed", cfg.Environment)
	logger := *observability.GetLogger()
	logger.Info().Msg("starting quakefeed api")

	// Event store
	var repo repositories.EarthquakeRepository
	var closers []func() error
	var healthChecks []handlers.HealthCheck
	if cfg.Database.Driver == "memory" {
		logger.Warn().Msg("using in-memory event store")
		repo = database.NewMemoryEarthquakeAdapter()
	} else {
		pgClient, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
		}
		closers = append(closers, pgClient.Close)
		healthChecks = append(healthChecks, handlers.HealthCheck{Name: "postgres", Check: pgClient.Ping})
		repo = database.NewEarthquakeAdapter(pgClient)
	}

	// Broadcast channel
	var bus providers.EventBus
	if cfg.Redis.Driver == "memory" {
		logger.Warn().Msg("using in-process event bus")
		bus = events.NewMemoryEventBus()
	} else {
		rdClient, err := redisclient.NewClient(&cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize Redis client")
		}
		closers = append(closers, rdClient.Close)
		healthChecks = append(healthChecks, handlers.HealthCheck{Name: "redis", Check: rdClient.Ping})
		bus = events.NewRedisEventBus(rdClient, logger)
	}
	closers = append(closers, bus.Close)

	// Plate boundaries (optional; proximity endpoint reports zero boundaries
	// when no file is configured)
	var boundaries []entities.BoundarySegment
	if cfg.Proximity.BoundaryFile != "" {
		boundaries, err = geo.LoadBoundariesFile(cfg.Proximity.BoundaryFile)
		if err != nil {
			logger.Fatal().Err(err).Str("file", cfg.Proximity.BoundaryFile).Msg("failed to load plate boundaries")
		}
		logger.Info().Int("segments", len(boundaries)).Msg("plate boundaries loaded")
	}
	analyzer := geo.NewProximityAnalyzer(boundaries, logger)

	// Feed + services
	feed := usgs.NewClient(cfg.Feed.BaseURL, logger)
	ingestion := services.NewIngestionService(
		feed, repo, bus,
		cfg.Feed.WindowMinutes, cfg.Feed.SnapshotLimit,
		logger,
	)
	scheduler := services.NewSessionScheduler(
		ingestion,
		time.Duration(cfg.Scheduler.IntervalSeconds)*time.Second,
		logger,
	)

	// HTTP surface
	earthquakeHandler := handlers.NewEarthquakeHandler(ingestion, scheduler, repo, analyzer, logger)
	sseHandler := handlers.NewSSEHandler(bus, scheduler, logger)
	healthHandler := handlers.NewHealthHandler(logger, healthChecks...)

	router := routes.NewRouter(earthquakeHandler, sseHandler, healthHandler)
	router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // No timeout for SSE streaming
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", serverAddr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Error().Err(err).Msg("error closing resource")
		}
	}

	logger.Info().Msg("stopped")
}
