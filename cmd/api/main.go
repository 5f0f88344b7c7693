package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fg-storefront/internal/cart"
	"fg-storefront/internal/config"
	"fg-storefront/internal/database"
	"fg-storefront/internal/events"
	"fg-storefront/internal/handler"
	"fg-storefront/internal/pricing"
	"fg-storefront/internal/repository"
	"fg-storefront/internal/router"
	"fg-storefront/internal/service"
	"fg-storefront/internal/session"

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
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger, "fg-storefront-api")
	logger.Info().Msg("starting storefront API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Database.MigrationsEnabled {
		if err := database.RunMigrations(cfg.Database.ConnectionString(), logger); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	customerRepo := repository.NewCustomerRepository(pool, logger)
	sequenceRepo := repository.NewSequenceRepository(logger)

	carts, closeCarts, err := newCartRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCarts()

	publisher, err := newPublisher(cfg.Events, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close event publisher")
		}
	}()

	inside, outside, err := cfg.Delivery.Charges()
	if err != nil {
		return err
	}
	surcharges := pricing.Surcharges{Inside: inside, Outside: outside}

	// Services
	productService := service.NewProductService(productRepo, logger)
	orderService := service.NewOrderService(orderRepo, publisher, logger)
	cartLocks := service.NewKeyedMutex()
	cartService := service.NewCartService(carts, productRepo, surcharges, cartLocks, logger)
	customerService := service.NewCustomerService(customerRepo, logger)
	checkoutService := service.NewCheckoutService(service.CheckoutDeps{
		Carts:      carts,
		Products:   productRepo,
		Orders:     orderRepo,
		Customers:  customerRepo,
		Sequences:  sequenceRepo,
		Publisher:  publisher,
		Surcharges: surcharges,
		Locks:      cartLocks,
	}, logger)

	sessions := session.NewManager(cfg.Session, logger)

	mux := router.New(router.Handlers{
		Products:  handler.NewProductHandler(productService, logger),
		Orders:    handler.NewOrderHandler(orderService, logger),
		Cart:      handler.NewCartHandler(cartService, logger),
		Checkout:  handler.NewCheckoutHandler(checkoutService, logger),
		Customers: handler.NewCustomerHandler(customerService, cartService, sessions, logger),
	}, router.Options{
		APIKey:        cfg.Auth.APIKey,
		AllowedOrigin: cfg.Server.AllowedOrigin,
		Session:       sessions.Middleware,
	}, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newCartRepository selects the cart backend. The returned func releases it.
func newCartRepository(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (cart.Repository, func(), error) {
	if cfg.Cart.Backend != "redis" {
		logger.Info().Msg("using in-memory cart storage")
		return cart.NewMemoryRepository(logger), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info().Str("addr", cfg.Redis.Addr).Msg("using redis cart storage")
	ttl := time.Duration(cfg.Cart.TTLMinutes) * time.Minute
	return cart.NewRedisRepository(client, ttl, logger), func() {
		if err := client.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close redis client")
		}
	}, nil
}

func newPublisher(cfg config.EventsConfig, logger zerolog.Logger) (events.Publisher, error) {
	if !cfg.Enabled {
		logger.Info().Msg("order events disabled")
		return events.NewNopPublisher(), nil
	}

	publisher, err := events.NewRabbitPublisher(cfg.URL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise event publisher: %w", err)
	}
	return publisher, nil
}
