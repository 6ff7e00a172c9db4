package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentfleet/internal/api"
	"rentfleet/internal/auth"
	"rentfleet/internal/cache"
	"rentfleet/internal/config"
	"rentfleet/internal/logging"
	"rentfleet/internal/metrics"
	"rentfleet/internal/repository"
	"rentfleet/internal/service"

	"github.com/gorilla/handlers"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/stripe/stripe-go/v78"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName)

	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	database, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("opening database")
	}
	defer database.Close()
	if err := database.Ping(); err != nil {
		log.Fatal().Err(err).Msg("pinging database")
	}

	if err := repository.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		log.Fatal().Err(err).Msg("running migrations")
	}

	metrics.Register()

	userRepo := repository.NewUserRepository(database)
	vehicleRepo := repository.NewVehicleRepository(database)
	bookingRepo := repository.NewBookingRepository(database)
	jobRepo := repository.NewJobRepository(database)

	var vehicleCache *cache.VehicleCache
	if cfg.RedisAddr != "" {
		vehicleCache = cache.NewVehicleCache(cfg.RedisAddr, cfg.RedisPassword, cfg.VehicleCacheTTL, log)
		defer vehicleCache.Close()
	}

	var payments service.Payments
	if cfg.StripeKey != "" {
		stripe.Key = cfg.StripeKey
		payments = service.NewStripeService(cfg.StripeSuccessURL, cfg.StripeCancelURL)
	}

	notifier := service.NewNotifyService(cfg, userRepo, log)
	userService := service.NewUserService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	vehicleService := service.NewVehicleService(vehicleRepo, bookingRepo, vehicleCache)
	bookingService := service.NewBookingService(bookingRepo, vehicleRepo, notifier, payments, log)
	jobService := service.NewJobService(jobRepo, log)

	scheduler := cron.New()
	schedule := fmt.Sprintf("@every %s", cfg.JobInterval)
	if _, err := scheduler.AddFunc(schedule, func() {
		if err := jobService.CompleteFinishedBookings(); err != nil {
			log.Error().Err(err).Msg("complete finished bookings")
		}
		if err := jobService.CancelStalePending(cfg.PendingBookingTTL); err != nil {
			log.Error().Err(err).Msg("cancel stale pending bookings")
		}
	}); err != nil {
		log.Fatal().Err(err).Msg("scheduling jobs")
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := api.NewRouter(api.RouterDeps{
		Users:         userService,
		Vehicles:      vehicleService,
		Bookings:      bookingService,
		Auth:          auth.NewMiddleware(cfg.JWTSecret, userRepo),
		Log:           log,
		AuthRateRPS:   cfg.AuthRateRPS,
		AuthRateBurst: cfg.AuthRateBurst,
	})

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      handlers.RecoveryHandler()(cors(router)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
