package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/ridewithus/carpool/internal/api/handlers"
	"github.com/ridewithus/carpool/internal/api/routes"
	"github.com/ridewithus/carpool/internal/config"
	"github.com/ridewithus/carpool/internal/service/bookings"
	"github.com/ridewithus/carpool/internal/service/emergency"
	"github.com/ridewithus/carpool/internal/service/geocode"
	"github.com/ridewithus/carpool/internal/service/rides"
	"github.com/ridewithus/carpool/internal/store"
	"github.com/ridewithus/carpool/pkg/cache"
	"github.com/ridewithus/carpool/pkg/database"
	"github.com/ridewithus/carpool/pkg/logger"
	"github.com/ridewithus/carpool/pkg/monitoring"
	"github.com/ridewithus/carpool/pkg/notify"
	"github.com/ridewithus/carpool/pkg/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting RideWithUs Carpool Application",
		logger.String("env", cfg.Server.Env),
		logger.String("port", cfg.Server.Port),
		logger.String("store_backend", cfg.Store.Backend),
	)

	// Initialize New Relic
	nrApp, err := monitoring.New(monitoring.Config{
		LicenseKey: cfg.NewRelic.LicenseKey,
		AppName:    cfg.NewRelic.AppName,
		Enabled:    cfg.NewRelic.Enabled,
		LogLevel:   cfg.NewRelic.LogLevel,
	})
	if err != nil {
		log.Fatalf("Failed to initialize New Relic: %v", err)
	}
	if nrApp.IsEnabled() {
		appLogger.Info("New Relic APM initialized",
			logger.String("app_name", cfg.NewRelic.AppName))
	}
	defer nrApp.Shutdown(10 * time.Second)

	// Select the app-state backend. All three hold the same single
	// JSON document; only durability differs.
	backend, cleanup, err := newBackend(cfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize store backend", logger.Err(err))
	}
	defer cleanup()

	appLogger.Info("Store backend ready", logger.String("backend", backend.Name()))

	st := store.New(backend, appLogger)
	if cfg.Store.Seed {
		if _, err := st.Seed(context.Background()); err != nil {
			appLogger.Fatal("Failed to seed store", logger.Err(err))
		}
	}

	// Initialize WebSocket hub
	wsHub := websocket.NewHub(appLogger)
	go wsHub.Run()

	// Notifications go to the log and to connected clients as toasts
	notifier := notify.Multi{
		&notify.LogNotifier{Logger: appLogger},
		&notify.HubNotifier{Hub: wsHub},
	}

	// Initialize services
	geocoder := geocode.NewDemo(geocode.Config{
		CenterLat: cfg.Geocoder.CenterLat,
		CenterLng: cfg.Geocoder.CenterLng,
		Jitter:    cfg.Geocoder.Jitter,
		Delay:     cfg.Geocoder.Delay,
	})

	ridesSvc := rides.NewService(st, geocoder, notifier, appLogger, rides.Config{
		PriceCeiling: cfg.Rides.PriceCeiling,
		MaxSeats:     cfg.Rides.MaxSeats,
	})
	bookingsSvc := bookings.NewService(st, notifier, appLogger)
	emergencySvc := emergency.NewService(st, wsHub, notifier, appLogger, emergency.Config{
		StepInterval: cfg.Simulation.StepInterval,
		RouteSteps:   cfg.Simulation.RouteSteps,
	})
	defer emergencySvc.Stop()

	// Initialize handlers with dependencies
	h := handlers.NewHandlers(st, ridesSvc, bookingsSvc, emergencySvc, wsHub, appLogger, nrApp)

	// Initialize Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Setup all routes
	var nrApplication *newrelic.Application
	if nrApp.IsEnabled() {
		nrApplication = nrApp.Application
	}
	routes.SetupRoutes(router, h, nrApplication)

	appLogger.Info("Routes configured successfully")

	// Create HTTP server
	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info("Server starting", logger.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", logger.Err(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.Err(err))
	}

	appLogger.Info("Server stopped gracefully")
}

// newBackend builds the configured store backend and a cleanup for
// whatever connection it holds
func newBackend(cfg *config.Config) (store.Backend, func(), error) {
	switch cfg.Store.Backend {
	case "redis":
		client, err := cache.NewRedisClient(cache.Config{
			Host:        cfg.Redis.Host,
			Port:        cfg.Redis.Port,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			MaxRetries:  cfg.Redis.MaxRetries,
			PoolSize:    cfg.Redis.PoolSize,
			DialTimeout: cfg.Redis.DialTimeout,
			ReadTimeout: cfg.Redis.ReadTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedisBackend(client, cfg.Store.Key), func() { cache.Close(client) }, nil

	case "postgres":
		db, err := database.NewPostgresDB(database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.Name,
			SSLMode:  cfg.Database.SSLMode,
			MaxConns: cfg.Database.MaxConns,
			MaxIdle:  cfg.Database.MaxIdle,
		})
		if err != nil {
			return nil, nil, err
		}
		backend, err := store.NewPostgresBackend(db, cfg.Store.Key)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return backend, func() { db.Close() }, nil

	default:
		backend, err := store.NewFileBackend(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return backend, func() {}, nil
	}
}
