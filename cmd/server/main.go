package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"rideshare/internal/app"
	"rideshare/internal/config"
	"rideshare/internal/handler"
	"rideshare/internal/metrics"
	"rideshare/internal/pricing"
	internalRedis "rideshare/internal/redis"
	"rideshare/internal/repository/postgres"
	"rideshare/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.Warn("failed to initialize New Relic", slog.Any("error", err))
			nrApp = nil
		} else {
			logger.Info("New Relic enabled", slog.String("app", cfg.NewRelic.AppName))
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to PostgreSQL", slog.String("host", cfg.Database.Host))

	if cfg.Database.Migrate {
		if err := app.RunMigrations(db, logger); err != nil {
			logger.Error("failed to migrate database", slog.Any("error", err))
			os.Exit(1)
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer redisClient.Close()
		logger.Info("connected to Redis", slog.String("addr", cfg.Redis.Addr))
	}

	server := wireServer(db, redisClient, nrApp, cfg, logger)

	go func() {
		logger.Info("starting server", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", slog.Any("error", err))
	}
	if nrApp != nil {
		nrApp.Shutdown(cfg.Server.ShutdownTimeout)
	}

	logger.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
// redisClient and nrApp may be nil.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config, logger *slog.Logger) *http.Server {
	store := postgres.NewStore(db)
	m := metrics.New(metrics.WithProcessMetrics())

	// The claim lock is only taken when Redis is configured.
	var lockStore internalRedis.LockStoreInterface
	if redisClient != nil {
		lockStore = internalRedis.NewLockStore(redisClient)
	}

	index := service.NewAvailabilityIndex(lockStore, service.AvailabilityOptions{
		CandidateLimit: cfg.Allocation.CandidateLimit,
		LockTTL:        cfg.Allocation.LockTTL,
	}, logger)
	calculator := pricing.NonNegative(pricing.NewFlatFare(cfg.Pricing.BaseFareAmount()))

	allocationService := service.NewAllocationService(store, index, calculator, m, logger, service.AllocationOptions{
		MaxAttempts: cfg.Allocation.MaxAttempts,
	})
	tripService := service.NewTripService(store, logger)
	driverService := service.NewDriverService(store, logger)
	passengerService := service.NewPassengerService(store, logger)
	homeService := service.NewHomeService(store)

	router := app.NewRouter(app.RouterDeps{
		HomeHandler:      handler.NewHomeHandler(homeService),
		DriverHandler:    handler.NewDriverHandler(driverService),
		PassengerHandler: handler.NewPassengerHandler(passengerService),
		TripHandler:      handler.NewTripHandler(tripService, allocationService, driverService, passengerService),
		RedisClient:      redisClient,
		NewRelicApp:      nrApp,
		Metrics:          m,
		Logger:           logger,
		AllowedOrigins:   cfg.AllowedOrigins(),
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
