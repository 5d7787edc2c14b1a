package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"schedulepro/internal/analytics"
	"schedulepro/internal/caching"
	"schedulepro/internal/handlers"
	"schedulepro/internal/jobs/background"
	"schedulepro/internal/metrics"
	"schedulepro/internal/middleware"
	"schedulepro/internal/repositories"
	"schedulepro/internal/server"
	"schedulepro/internal/services"
	"schedulepro/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	shutdownTimeout     = 15 * time.Second
	identityHTTPTimeout = 10 * time.Second
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, log := app.cfg, app.logger

	pool, err := database.NewPool(ctx, cfg.Database.URL, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	cache, err := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
	if err != nil {
		return fmt.Errorf("failed to create cache service: %w", err)
	}
	defer cache.Close()

	storage, err := services.NewMinioService(cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.UseSSL)
	if err != nil {
		return fmt.Errorf("failed to create object storage client: %w", err)
	}
	if err := storage.EnsureBucketExists(ctx, cfg.Storage.ExportBucket); err != nil {
		log.Warn("export bucket is not available", zap.String("bucket", cfg.Storage.ExportBucket), zap.Error(err))
	}

	keys, err := middleware.NewKeySource(cfg.Auth.JWKSURL, cfg.Auth.JWTSecret, log)
	if err != nil {
		return fmt.Errorf("failed to set up token verification: %w", err)
	}
	defer keys.Close()

	m := metrics.New(serviceName)

	// Repositories
	personRepo := repositories.NewPersonRepository(pool)
	vehicleRepo := repositories.NewVehicleRepository(pool)
	equipmentRepo := repositories.NewEquipmentRepository(pool)
	bookingRepo := repositories.NewBookingRepository(pool)
	companyRepo := repositories.NewCompanyRepository(pool)
	analyticsRepo := repositories.NewAnalyticsRepository(pool)

	tracker := analytics.NewBufferedTracker(analyticsRepo, log, m, cfg.Analytics.BufferSize)

	// Services
	identity := services.NewIdentityProvider(cfg.Auth.URL, cfg.Auth.AnonKey, &http.Client{Timeout: identityHTTPTimeout})
	resolver := services.NewPrincipalResolver(personRepo, cache, cfg.Auth.PrincipalCacheTTL, log)
	authService := services.NewAuthService(identity, companyRepo, personRepo, cache, tracker, log)
	personService := services.NewPersonService(personRepo, cache, tracker, log)
	vehicleService := services.NewVehicleService(vehicleRepo, tracker)
	equipmentService := services.NewEquipmentService(equipmentRepo, tracker)
	bookingService := services.NewBookingService(bookingRepo, tracker)
	exportService := services.NewExportService(bookingRepo, storage, cfg.Storage.ExportBucket, tracker)

	scheduler, err := background.NewJobScheduler(tracker, cfg.Analytics.FlushInterval, log)
	if err != nil {
		return fmt.Errorf("failed to create job scheduler: %w", err)
	}

	e := server.New(server.Dependencies{
		Logger:         log,
		Metrics:        m,
		AuthGate:       middleware.NewAuthGate(keys, cache, resolver, log),
		Auth:           handlers.NewAuthHandlers(authService),
		People:         handlers.NewPersonHandlers(personService),
		Vehicles:       handlers.NewVehicleHandlers(vehicleService),
		Equipment:      handlers.NewEquipmentHandlers(equipmentService),
		Bookings:       handlers.NewBookingHandlers(bookingService, exportService),
		Health:         handlers.NewHealthHandlers(pool, cache),
		AllowedOrigins: cfg.AllowedOrigins(),
		APIVersion:     cfg.Server.APIVersion,
	})

	scheduler.Start()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", zap.String("address", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case runErr = <-serverErr:
		if runErr != nil {
			log.Error("HTTP server failed", zap.Error(runErr))
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if err := scheduler.Stop(shutdownCtx); err != nil {
		log.Error("final analytics flush failed", zap.Error(err))
	}

	log.Info("server stopped")
	return runErr
}
