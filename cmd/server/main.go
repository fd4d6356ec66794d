package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"fleetflow/internal/app"
	"fleetflow/internal/config"
	"fleetflow/internal/handler"
	internalRedis "fleetflow/internal/redis"
	"fleetflow/internal/repository/postgres"
	"fleetflow/internal/service"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// New Relic first so the database and Redis clients can be instrumented.
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.WithError(err).Warn("failed to initialize New Relic")
		} else {
			log.WithField("app", cfg.NewRelic.AppName).Info("New Relic enabled")
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()
	log.Info("connected to PostgreSQL")

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info("connected to Redis")

	server := wireServer(db, redisClient, nrApp, cfg, log)

	go func() {
		log.WithField("port", cfg.Server.Port).Info("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config, log *logrus.Logger) *http.Server {
	lockStore := internalRedis.NewLockStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	atomic := postgres.NewAtomic(db)
	vehicleRepo := postgres.NewVehicleRepository(db)
	driverRepo := postgres.NewDriverRepository(db)
	tripRepo := postgres.NewTripRepository(db)
	cargoRepo := postgres.NewCargoRepository(db)
	fuelRepo := postgres.NewFuelLogRepository(db)
	maintRepo := postgres.NewMaintenanceLogRepository(db)
	expenseRepo := postgres.NewExpenseRepository(db)

	tripService := service.NewTripService(atomic, tripRepo, vehicleRepo, driverRepo, cargoRepo, lockStore, cacheStore, log)
	maintenanceService := service.NewMaintenanceService(atomic, vehicleRepo, maintRepo, cacheStore, log)
	analyticsService := service.NewAnalyticsService(vehicleRepo, tripRepo, fuelRepo, maintRepo, expenseRepo, cargoRepo, cacheStore, log)
	alertService := service.NewAlertService(tripRepo, vehicleRepo, driverRepo, fuelRepo, maintRepo, expenseRepo, cacheStore, log)

	tripHandler := handler.NewTripHandler(tripService)
	vehicleHandler := handler.NewVehicleHandler(vehicleRepo)
	driverHandler := handler.NewDriverHandler(driverRepo)
	cargoHandler := handler.NewCargoHandler(cargoRepo)
	logHandler := handler.NewLogHandler(fuelRepo, maintRepo, expenseRepo, vehicleRepo, maintenanceService, cacheStore)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, alertService)

	router := app.NewRouter(app.RouterDeps{
		TripHandler:      tripHandler,
		VehicleHandler:   vehicleHandler,
		DriverHandler:    driverHandler,
		CargoHandler:     cargoHandler,
		LogHandler:       logHandler,
		AnalyticsHandler: analyticsHandler,
		RedisClient:      redisClient,
		NewRelicApp:      nrApp,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
