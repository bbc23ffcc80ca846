package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dukkan/internal/cache"
	"dukkan/internal/config"
	"dukkan/internal/database"
	"dukkan/internal/handler"
	"dukkan/internal/notify"
	"dukkan/internal/ordernum"
	"dukkan/internal/pricing"
	"dukkan/internal/repository"
	"dukkan/internal/router"
	"dukkan/internal/service"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting dukkan API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize repositories
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	tripRepo := repository.NewTripRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	shiftRepo := repository.NewShiftRepository(pool, logger)
	notificationRepo := repository.NewNotificationRepository(pool, logger)

	// Pricing settings: compiled-in defaults, overridable at startup
	// from a local file or S3.
	settings := loadPricingSettings(ctx, cfg.Pricing, logger)

	// Redis backs the realtime dashboard channel and cache
	// invalidation; both degrade to no-ops when disabled.
	var realtime notify.Realtime
	invalidator := cache.NewNopInvalidator()
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		realtime = notify.NewRedisRealtime(redisClient, cfg.Redis.Channel, logger)
		invalidator = cache.NewRedisInvalidator(redisClient, logger)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("redis enabled")
	}

	var pusher notify.Pusher
	if cfg.Push.Enabled {
		pusher = notify.NewHTTPPusher(cfg.Push.BaseURL, cfg.Push.APIKey, logger)
	}

	dispatcher := notify.NewDispatcher(
		notificationRepo,
		pusher,
		realtime,
		time.Duration(cfg.Push.Timeout)*time.Second,
		logger,
	)

	// Initialize services
	generator := ordernum.NewGenerator(pool, logger)
	cartService := service.NewCartService(cartRepo, logger)
	checkoutService := service.NewCheckoutService(
		userRepo, cartRepo, shiftRepo, orderRepo,
		generator, settings, dispatcher, invalidator, logger,
	)
	fulfillmentService := service.NewFulfillmentService(
		orderRepo, tripRepo, userRepo, dispatcher, invalidator, logger,
	)

	// Initialize HTTP handlers
	cartHandler := handler.NewCartHandler(cartService, logger)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, logger)
	fulfillmentHandler := handler.NewFulfillmentHandler(fulfillmentService, logger)

	// Initialize router
	mux := router.New(cartHandler, checkoutHandler, fulfillmentHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// loadPricingSettings resolves the pricing settings override source.
// A broken source is logged and the compiled-in defaults apply; pricing
// must never keep the server from starting.
func loadPricingSettings(ctx context.Context, cfg config.PricingConfig, logger zerolog.Logger) pricing.Settings {
	if cfg.S3Enabled {
		loader, err := pricing.NewS3Loader(ctx, cfg.S3Bucket, cfg.S3Region, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialise S3 pricing loader, using defaults")
			return pricing.DefaultSettings()
		}
		settings, err := loader.Load(ctx, cfg.S3Key)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to load pricing settings from S3, using defaults")
			return pricing.DefaultSettings()
		}
		return settings
	}

	if cfg.SettingsFile != "" {
		settings, err := pricing.NewFileLoader(logger).Load(ctx, cfg.SettingsFile)
		if err != nil {
			logger.Warn().Err(err).Str("file", cfg.SettingsFile).Msg("failed to load pricing settings file, using defaults")
			return pricing.DefaultSettings()
		}
		return settings
	}

	return pricing.DefaultSettings()
}
