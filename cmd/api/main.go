package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/medmatch/internal/adapters/cache"
	"github.com/zatekoja/medmatch/internal/adapters/database"
	"github.com/zatekoja/medmatch/internal/adapters/providers/geolocation"
	"github.com/zatekoja/medmatch/internal/adapters/source"
	"github.com/zatekoja/medmatch/internal/api/handlers"
	"github.com/zatekoja/medmatch/internal/api/routes"
	"github.com/zatekoja/medmatch/internal/application/services"
	"github.com/zatekoja/medmatch/internal/domain/providers"
	"github.com/zatekoja/medmatch/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/medmatch/internal/infrastructure/clients/redis"
	"github.com/zatekoja/medmatch/internal/infrastructure/observability"
	"github.com/zatekoja/medmatch/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger("medmatch-api", cfg.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// OpenTelemetry is optional, the service runs fine without a collector
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				shCtx, shCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shCancel()
				if err := shutdown(shCtx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Redis backs the geocoding side-cache, optional
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, geocoding responses will not be cached")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		log.Info().Msg("Redis client initialized")
	}

	// PostgreSQL backs search analytics, optional
	var analyticsService *services.SearchAnalyticsService
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Warn().Err(err).Msg("PostgreSQL unavailable, search analytics disabled")
	} else {
		defer pgClient.Close()
		analyticsService = services.NewSearchAnalyticsService(database.NewSearchAnalyticsAdapter(pgClient))
		log.Info().Msg("PostgreSQL client initialized")
	}

	// Dataset pipeline
	store := cache.NewMemoryStore(time.Duration(cfg.Data.CacheTTLSeconds) * time.Second)
	datasetService := services.NewDatasetService(
		cfg.Data,
		store,
		source.NewFileReader(),
		services.NewSchemaNormalizer(),
		metrics,
	)
	recommendationService := services.NewRecommendationService(
		datasetService,
		services.NewScoringService(),
		analyticsService,
		metrics,
	)

	var geolocationProvider providers.GeolocationProvider
	switch cfg.Geolocation.Provider {
	case "nominatim":
		searchURL := strings.TrimSuffix(cfg.Geolocation.BaseURL, "/") + "/search"
		geolocationProvider = geolocation.NewNominatimProviderWithOptions(cacheProvider, searchURL, cfg.Geolocation.UserAgent, nil)
	default:
		geolocationProvider = geolocation.NewMockProvider()
	}

	// Run the daily refresh check once at startup, then warm the cache
	// in the background so the server accepts traffic immediately.
	datasetService.CheckAndRefreshDaily(ctx)
	warmupService := services.NewWarmupService(datasetService, cfg.Data.StatusFile)
	warmupService.Start(ctx)

	recommendationHandler := handlers.NewRecommendationHandler(recommendationService)
	datasetHandler := handlers.NewDatasetHandler(datasetService, warmupService)
	geolocationHandler := handlers.NewGeolocationHandler(geolocationProvider)

	var analyticsHandler *handlers.AnalyticsHandler
	if analyticsService != nil {
		analyticsHandler = handlers.NewAnalyticsHandler(analyticsService)
	}

	router := routes.NewRouter(
		recommendationHandler,
		datasetHandler,
		geolocationHandler,
		analyticsHandler,
		cfg.Server.AllowedOrigins,
		metrics,
	)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
