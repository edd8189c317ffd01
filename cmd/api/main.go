// @title                       Storefront API
// @version                     1.0
// @description                 Event listings, cart and checkout, orders, feedback and admin moderation.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	_ "github.com/eventhub/storefront/docs"
	"github.com/eventhub/storefront/internal/api"
	"github.com/eventhub/storefront/internal/api/handler"
	"github.com/eventhub/storefront/internal/core/ports"
	"github.com/eventhub/storefront/internal/core/service"
	"github.com/eventhub/storefront/internal/infrastructure/catalog"
	"github.com/eventhub/storefront/internal/infrastructure/config"
	mongodb "github.com/eventhub/storefront/internal/infrastructure/db/mongo"
	redisdb "github.com/eventhub/storefront/internal/infrastructure/db/redis"
	"github.com/eventhub/storefront/internal/infrastructure/events"
	"github.com/eventhub/storefront/internal/infrastructure/identity"
	"github.com/eventhub/storefront/internal/infrastructure/queue"
	"github.com/eventhub/storefront/pkg/logger"
)

const (
	serviceName     = "storefront-api"
	initTimeout     = 30 * time.Second
	shutdownTimeout = 10 * time.Second
	// readinessTimeout bounds each dependency ping in /health/ready.
	readinessTimeout = 2 * time.Second
)

type eventPublisher interface {
	ports.OrderEventPublisher
	Close() error
}

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{Service: serviceName})
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		File:    cfg.LogFile,
		Service: serviceName,
	})

	if err := run(ctx, cfg, *log); err != nil {
		log.Fatal().Err(err).Msg("storefront stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	initCtx, cancel := context.WithTimeout(ctx, initTimeout)
	defer cancel()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(initCtx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(initCtx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()
	stores := redisdb.NewStores(rdb, cfg.CheckoutGuardTTL)

	profiles := mongodb.NewProfileRepository(db)
	credentials := mongodb.NewCredentialRepository(db)
	cartRepo := mongodb.NewCartRepository(db)
	orderRepo := mongodb.NewOrderRepository(db)
	feedbackRepo := mongodb.NewFeedbackRepository(db)
	contactRepo := mongodb.NewContactRepository(db)

	if err := mongodb.EnsureIndexes(initCtx, profiles, credentials, cartRepo, orderRepo, feedbackRepo, contactRepo); err != nil {
		return err
	}

	listings, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}

	// --- Events ---
	var sink eventPublisher = events.NopPublisher{}
	if brokers := cfg.Kafka.BrokerList(); len(brokers) > 0 {
		sink = events.NewKafkaPublisher(brokers, cfg.Kafka.OrderTopic)
		log.Info().Strs("brokers", brokers).Str("topic", cfg.Kafka.OrderTopic).Msg("publishing order events to kafka")
	}
	defer func() {
		if err := sink.Close(); err != nil {
			log.Warn().Err(err).Msg("event publisher close failed")
		}
	}()

	// Deferred after the sink so queued events drain before the writer closes.
	publisher := queue.NewDispatcher(cfg.Kafka.Workers, sink, log)
	publisher.Start(ctx)
	defer publisher.Close()
	log.Info().Int("workers", cfg.Kafka.Workers).Msg("order event dispatcher started")

	// --- Identity ---
	provider := identity.New(
		credentials,
		stores.Tokens,
		identity.NewLogMailer(log),
		identity.Config{
			JWTSecret:       cfg.Auth.JWTSecret,
			TokenTTL:        cfg.Auth.TokenTTL,
			FederatedSecret: cfg.Auth.FederatedSecret,
			ResetTTL:        cfg.Auth.PasswordResetTTL,
		},
		log,
	)

	// --- Services ---
	authService := service.NewAuthService(provider, profiles, cfg.Auth.AdminAccessKey, log)
	cartService := service.NewCartService(cartRepo, listings, log)
	checkoutService := service.NewCheckoutService(
		cartRepo,
		orderRepo,
		stores.Guard,
		publisher,
		log,
	)
	orderService := service.NewOrderService(orderRepo, profiles, feedbackRepo, publisher, log)
	feedbackService := service.NewFeedbackService(feedbackRepo, listings, log)
	contactService := service.NewContactService(contactRepo, log)
	adminService := service.NewAdminService(profiles, contactRepo, feedbackRepo, orderService, log)

	e := api.NewRouter(api.Dependencies{
		Provider: provider,
		Profiles: profiles,
		Catalog:  listings,
		Auth:     authService,
		Cart:     cartService,
		Checkout: checkoutService,
		Orders:   orderService,
		Feedback: feedbackService,
		Contacts: contactService,
		Admin:    adminService,
		Checks: map[string]handler.DependencyCheck{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return redisdb.Ping(ctx, rdb, readinessTimeout) },
		},
		Logger: log,
	})
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting storefront api")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
