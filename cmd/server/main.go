package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"rideshare/internal/app"
	"rideshare/internal/config"
	"rideshare/internal/dispatch"
	"rideshare/internal/handler"
	"rideshare/internal/messaging"
	"rideshare/internal/middleware"
	internalRedis "rideshare/internal/redis"
	"rideshare/internal/repository"
	"rideshare/internal/repository/postgres"
	"rideshare/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Dispatch.StartupTimeout)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
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
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Redis is optional: without it there is no cross-instance dispatch lock
	// and no idempotency keys.
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Connected to Redis")
	}

	var publisher messaging.Publisher = messaging.NoopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		rabbit, err := messaging.NewRabbitMQPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		publisher = rabbit
		log.Printf("Publishing trip events to exchange %s", cfg.RabbitMQ.Exchange)
	}
	defer publisher.Close()

	// Load the ledger.
	loadCtx, loadCancel := context.WithTimeout(context.Background(), cfg.Dispatch.LoadTimeout)
	store, err := app.LoadLedger(loadCtx, postgres.NewSource(db))
	loadCancel()
	if err != nil {
		log.Fatalf("failed to load ledger: %v", err)
	}
	log.Printf("Loaded ledger: %d drivers, %d passengers, %d trips",
		len(store.Drivers()), len(store.Passengers()), len(store.Trips()))

	dispatcher := dispatch.New(store)

	server := wireServer(db, redisClient, publisher, dispatcher, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(
	db *sql.DB,
	redisClient *redis.Client,
	publisher messaging.Publisher,
	dispatcher *dispatch.Dispatcher,
	nrApp *newrelic.Application,
	cfg *config.Config,
) *http.Server {
	var (
		lockStore     internalRedis.LockStoreInterface
		responseCache middleware.ResponseCache
		tripRepo      repository.TripRepository
		tripFeed      repository.TripFeed
	)
	if redisClient != nil {
		lockStore = internalRedis.NewLockStore(redisClient)
		responseCache = middleware.NewRedisResponseCache(redisClient)
	}
	if cfg.Dispatch.PersistTrips {
		tripRepo = postgres.NewTripRepository(db)
		tripFeed = postgres.NewSource(db)
	}

	// Initialize services.
	tripService := service.NewTripService(service.TripServiceDeps{
		Dispatcher: dispatcher,
		LockStore:  lockStore,
		TripRepo:   tripRepo,
		TripFeed:   tripFeed,
		Publisher:  publisher,
		LockTTL:    cfg.Dispatch.LockTTL,
	})

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		DriverHandler:    handler.NewDriverHandler(dispatcher, tripService),
		PassengerHandler: handler.NewPassengerHandler(dispatcher),
		TripHandler:      handler.NewTripHandler(tripService, dispatcher),
		ResponseCache:    responseCache,
		NewRelicApp:      nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
