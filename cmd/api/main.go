package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkout-wizard/internal/address"
	"checkout-wizard/internal/cart"
	"checkout-wizard/internal/checkout"
	"checkout-wizard/internal/config"
	"checkout-wizard/internal/coupon"
	"checkout-wizard/internal/database"
	"checkout-wizard/internal/events"
	"checkout-wizard/internal/handler"
	"checkout-wizard/internal/payment"
	"checkout-wizard/internal/repository"
	"checkout-wizard/internal/router"
	"checkout-wizard/internal/service"
	"checkout-wizard/internal/shipping"
	"checkout-wizard/internal/validation"

	"github.com/redis/go-redis/v9"
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
	logger.Info().Msg("starting checkout wizard API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	policy := checkout.Policy{
		PixDiscountEnabled:  cfg.Checkout.PixDiscountEnabled,
		PixDiscountPercent:  cfg.Checkout.PixDiscountPercent,
		InstallmentsEnabled: cfg.Checkout.InstallmentsEnabled,
		MaxInstallments:     cfg.Checkout.MaxInstallments,
		MinInstallmentValue: cfg.Checkout.MinInstallmentValue,
	}

	// Payment processor, optionally recording orders in PostgreSQL
	var processor payment.Processor = payment.NewSimulatedProcessor(payment.SimulatorConfig{
		DeclineRate: cfg.Payment.DeclineRate,
		Delay:       cfg.Payment.Delay,
	}, logger)

	// Cart source: PostgreSQL when enabled, the demo cart otherwise
	carts := cart.NewStaticSource(cart.DemoProducts())
	if cfg.Database.Enabled {
		if cfg.Database.Migrate {
			if err := database.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
		}

		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()

		carts = cart.NewRepositorySource(repository.NewCartRepository(pool, logger), logger)
		processor = payment.NewRecordingProcessor(processor, repository.NewOrderRepository(pool, logger), logger)
	} else {
		logger.Info().Msg("database disabled, serving the demo cart")
	}

	// Postal code lookup, cached in Redis when enabled
	addresses := address.NewViaCEPClient(address.ViaCEPConfig{
		BaseURL: cfg.Address.BaseURL,
		Timeout: cfg.Address.Timeout,
	}, logger)
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable, address lookups will bypass the cache until it recovers")
		}
		addresses = address.NewCachedLookup(addresses, rdb, cfg.Address.CacheTTL, logger)
	}

	// Coupon catalogue
	catalogue, err := newCouponCatalogue(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize coupon catalogue: %w", err)
	}
	defer catalogue.Close()

	// Order events
	var publisher events.Publisher
	if cfg.Kafka.Enabled {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	} else {
		publisher = events.NewNoopPublisher(logger)
	}
	defer publisher.Close()

	// Session store and idle sweeper
	store := service.NewMemorySessionStore(policy, cfg.Session.IdleTimeout, logger)
	go store.Run(ctx, cfg.Session.SweepInterval)

	// Initialize services
	opts := service.Options{
		CouponEnabled:     cfg.Checkout.CouponEnabled,
		ShippingEnabled:   cfg.Checkout.ShippingEnabled,
		AutofillOverwrite: cfg.Address.AutofillOverwrite,
		DefaultCartID:     cfg.Checkout.DefaultCartID,
		DefaultLocale:     cfg.Checkout.DefaultLocale,
		PaymentMethods:    cfg.Checkout.PaymentMethods,
	}
	checkoutService := service.NewCheckoutService(service.Dependencies{
		Store:    store,
		Cart:     carts,
		Address:  addresses,
		Shipping: shipping.NewStaticQuoter(shipping.DefaultOptions(), logger),
		Coupons:  coupon.NewResolver(catalogue, cfg.Coupon.EnforceMinPurchase, logger),
		Validator: validation.New(validation.Options{
			ShippingEnabled: cfg.Checkout.ShippingEnabled,
			PaymentMethods:  cfg.Checkout.PaymentMethods,
			Policy:          policy,
		}),
	}, opts, logger)
	orderService := service.NewOrderService(store, carts, processor, publisher, opts, logger)

	// Initialize HTTP handlers
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)

	// Initialize router
	mux := router.New(checkoutHandler, orderHandler, cfg.Auth.APIKey, logger)

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

// newCouponCatalogue loads the configured coupon files, trying S3 first when
// enabled and the local file system otherwise.
func newCouponCatalogue(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (coupon.Catalogue, error) {
	fileLoader := coupon.NewFileLoader(logger)

	var s3Loader coupon.Loader
	if cfg.S3.Enabled {
		l, err := coupon.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = l
		}
	} else {
		logger.Info().Msg("using local file system for coupon files (S3 disabled)")
	}

	loader := coupon.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, s3Loader != nil, logger)
	return coupon.NewCatalogue(ctx, &coupon.CatalogueConfig{FilePaths: cfg.Coupon.Files}, loader, logger)
}
