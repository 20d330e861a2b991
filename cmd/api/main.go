package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/inkbookhq/inkbook-platform/cmd/mainconfig"
	"github.com/inkbookhq/inkbook-platform/internal/api/router"
	"github.com/inkbookhq/inkbook-platform/internal/artists"
	"github.com/inkbookhq/inkbook-platform/internal/availability"
	"github.com/inkbookhq/inkbook-platform/internal/booking"
	"github.com/inkbookhq/inkbook-platform/internal/calendar"
	appconfig "github.com/inkbookhq/inkbook-platform/internal/config"
	"github.com/inkbookhq/inkbook-platform/internal/http/handlers"
	"github.com/inkbookhq/inkbook-platform/internal/notify"
	"github.com/inkbookhq/inkbook-platform/internal/observability/metrics"
	"github.com/inkbookhq/inkbook-platform/internal/overlap"
	"github.com/inkbookhq/inkbook-platform/internal/store"
	"github.com/inkbookhq/inkbook-platform/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting inkbook API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	repo := store.NewRepository(pool)

	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	rdb := redis.NewClient(redisOpts)
	defer func() { _ = rdb.Close() }()
	profiles := artists.NewStore(rdb)

	scheduling := metrics.NewSchedulingMetrics(nil)

	detector := overlap.NewDetector(repo, logger, scheduling)
	calc := availability.NewCalculator(repo, profiles, detector, logger, scheduling)
	calc.SlotIntervalMinutes = cfg.SlotIntervalMinutes
	calc.DayStart = calendar.ClockTime(cfg.DayStartMinutes)
	calc.DayEnd = calendar.ClockTime(cfg.DayEndMinutes)

	confirmer := notify.NewService(newEmailSender(ctx, cfg, logger), logger)
	composer := booking.NewComposer(repo, detector, profiles, confirmer, logger, scheduling)

	routerCfg := &router.Config{
		Logger:             logger,
		Availability:       handlers.NewAvailabilityHandler(calc, logger),
		Overlap:            handlers.NewOverlapHandler(detector, logger),
		Bookings:           handlers.NewBookingHandler(composer, logger),
		ArtistAuthSecret:   cfg.ArtistJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		MetricsHandler:     promhttp.Handler(),
		WriteRateLimit:     5,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// newEmailSender picks the confirmation delivery channel from config.
func newEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sender != nil {
			return sender
		}
		logger.Warn("sendgrid selected but not configured, falling back to stub sender")
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Warn("failed to load AWS config, falling back to stub sender", "error", err)
			break
		}
		if sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger); sender != nil {
			return sender
		}
	}
	return notify.NewStubEmailSender(logger)
}
