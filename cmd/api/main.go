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

	"qrcode-shopify-layer/internal/application"
	"qrcode-shopify-layer/internal/application/webhook_handlers"
	"qrcode-shopify-layer/internal/config"
	"qrcode-shopify-layer/internal/infrastructure/api"
	"qrcode-shopify-layer/internal/infrastructure/database"
	"qrcode-shopify-layer/internal/infrastructure/metrics"
	"qrcode-shopify-layer/internal/infrastructure/pubsub"
	"qrcode-shopify-layer/internal/infrastructure/repository"
	shopifyinfra "qrcode-shopify-layer/internal/infrastructure/shopify"
	"qrcode-shopify-layer/internal/ports"
	"qrcode-shopify-layer/internal/validation"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger = logger.Level(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("Server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	m := metrics.New()

	// Open the pool, then bootstrap the schema in the background; stores wait for it
	db, err := database.Connect(ctx, database.Config{
		Driver:          cfg.Database.Driver,
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	m.WatchSchema(db.Ready())
	go bootstrapSchema(ctx, db, logger)

	sessionStorage, closeSessions, err := openSessionStorage(ctx, cfg, db, logger)
	if err != nil {
		return err
	}
	defer closeSessions()
	sessions := metrics.InstrumentSessionStorage(sessionStorage, m)

	// Initialize repositories
	qrcodeRepo := repository.NewQRCodeRepository(db)
	accountRepo := repository.NewAccountRepository(db)

	urls, err := shopifyinfra.NewURLResolver(cfg.Server.AppURL)
	if err != nil {
		return err
	}
	validator := validation.New()
	scans := pubsub.NewScanPubSub(logger.With().Str("component", "scans").Logger())

	// Initialize application services
	qrcodeService := application.NewQRCodeService(qrcodeRepo, urls, validator, scans, m, logger)
	accountService := application.NewAccountService(accountRepo, validator, cfg.Auth.BcryptCost, logger)

	// Initialize webhook dispatcher and register handlers
	webhookDispatcher := application.NewWebhookDispatcher(logger)
	webhookDispatcher.RegisterHandler(webhook_handlers.NewAppUninstalledHandler(logger, sessions))
	webhookDispatcher.RegisterHandler(webhook_handlers.NewShopRedactHandler(logger, qrcodeRepo, sessions))
	webhookDispatcher.RegisterHandler(webhook_handlers.NewCustomerPrivacyHandler(logger))
	webhookDispatcher.RegisterHandler(webhook_handlers.NewProductDeleteHandler(logger, qrcodeRepo))

	if cfg.Shopify.APISecret == "" {
		logger.Warn().Msg("SHOPIFY_API_SECRET is not set, webhooks will be rejected")
	}

	router := api.NewRouter(api.Dependencies{
		QRCodes:  qrcodeService,
		Accounts: accountService,
		Webhooks: webhookDispatcher,
		Verifier: shopifyinfra.NewWebhookVerifier(cfg.Shopify.APIKey, cfg.Shopify.APISecret),
		Tokens:   shopifyinfra.NewSessionTokens(sessions, logger),
		Scans:    scans,
		Metrics:  m,
		Ready:    db.Ready(),
		Logger:   logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Server.Port).Str("appUrl", cfg.Server.AppURL).Msg("Starting API server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// bootstrapSchema retries the schema bootstrap until it succeeds or ctx ends
func bootstrapSchema(ctx context.Context, db *database.DB, logger zerolog.Logger) {
	backoff := time.Second
	for {
		err := db.EnsureSchema(ctx)
		if err == nil {
			logger.Info().Msg("Database schema ready")
			return
		}
		logger.Error().Err(err).Dur("retryIn", backoff).Msg("Schema bootstrap failed")

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

// openSessionStorage returns the session backend selected by SESSION_BACKEND and a function
// releasing its connection
func openSessionStorage(ctx context.Context, cfg *config.Config, db *database.DB, logger zerolog.Logger) (ports.SessionStorage, func(), error) {
	switch cfg.Sessions.Backend {
	case config.SessionBackendRedis:
		opts, err := redis.ParseURL(cfg.Sessions.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to ping Redis: %w", err)
		}

		logger.Info().Msg("Using Redis session storage")
		return repository.NewRedisSessionRepository(client, cfg.Sessions.RedisPrefix), func() { client.Close() }, nil

	case config.SessionBackendMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Sessions.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		closeFn := func() { client.Disconnect(context.Background()) }

		store := repository.NewMongoSessionRepository(client.Database(cfg.Sessions.MongoDatabase))
		if err := store.EnsureIndexes(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}

		logger.Info().Str("database", cfg.Sessions.MongoDatabase).Msg("Using MongoDB session storage")
		return store, closeFn, nil
	}

	logger.Info().Str("driver", db.Dialect.Name).Msg("Using SQL session storage")
	return repository.NewSQLSessionRepository(db), func() {}, nil
}
