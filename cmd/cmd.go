package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"volunteer-network-backend/internal/config"
	"volunteer-network-backend/internal/handlers"
	"volunteer-network-backend/internal/repository"
	"volunteer-network-backend/internal/services"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.Log.Level)

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer closeStore()

	if cfg.Store.Seed {
		if err := repository.Seed(ctx, store); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed store")
		}
	}

	// Optional integrations
	var publisher services.EventPublisher = services.NoopPublisher{}
	if cfg.NATS.URL != "" {
		nc, err := nats.Connect(cfg.NATS.URL, nats.Name("volunteer-network-backend"))
		if err != nil {
			log.Fatal().Err(err).Str("url", cfg.NATS.URL).Msg("Failed to connect to NATS")
		}
		defer nc.Close()
		publisher = services.NewNatsPublisher(nc)
		log.Info().Str("url", cfg.NATS.URL).Msg("NATS connection established")
	}

	// a nil *PushService must not end up inside the interface
	var pusher services.Pusher
	if cfg.APNS.CertFile != "" {
		pushService, err := services.NewPushService(services.PushConfig{
			CertFile:     cfg.APNS.CertFile,
			CertPassword: cfg.APNS.CertPassword,
			Topic:        cfg.APNS.Topic,
			Production:   cfg.APNS.Production,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create push service")
		}
		pusher = pushService
	}

	var mediaService *services.MediaService
	if cfg.AWS.S3Bucket != "" {
		mediaService, err = services.NewMediaService(ctx, services.MediaConfig{
			Region:    cfg.AWS.Region,
			Bucket:    cfg.AWS.S3Bucket,
			AccessKey: cfg.AWS.AccessKey,
			SecretKey: cfg.AWS.SecretKey,
			Endpoint:  cfg.AWS.Endpoint,
			PublicURL: cfg.AWS.PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create media service")
		}
	}

	// Initialize services
	identityService := services.NewIdentityService(cfg.Auth.JWTSecret)
	connectionService := services.NewConnectionService(store.Users, store.Connections)
	feedService := services.NewFeedService(store, services.FeedOptions{
		ActivityCap:   cfg.Feed.ActivityCap,
		ConnectionCap: cfg.Feed.ConnectionCap,
		SortBeforeCap: cfg.Feed.SortBeforeCap,
	})
	wsHub := services.NewWSHub()
	notifier := services.NewNotifier(wsHub, pusher, publisher, store.Users)

	if !identityService.Enabled() && !cfg.Auth.AllowHeaderIdentity {
		log.Warn().Msg("No JWT secret and header identity disabled; every API request will be rejected")
	}

	router := &handlers.Router{
		Connections:         handlers.NewConnectionHandler(connectionService, notifier),
		Feed:                handlers.NewFeedHandler(feedService, mediaService, notifier),
		Users:               handlers.NewUserHandler(connectionService),
		WebSocket:           handlers.NewWebSocketHandler(wsHub, identityService, connectionService, cfg.Auth.AllowHeaderIdentity),
		Identity:            identityService,
		AllowHeaderIdentity: cfg.Auth.AllowHeaderIdentity,
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Str("store", cfg.Store.Driver).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// hijacked websocket connections are not closed by Shutdown
	wsHub.Close()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// openStore returns the configured store and a function releasing it
func openStore(ctx context.Context, cfg *config.Config) (*repository.Store, func(), error) {
	if cfg.Store.Driver != config.DriverPostgres {
		log.Info().Msg("Using in-memory store")
		return repository.NewMemoryStore(), func() {}, nil
	}

	db, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info().Msg("Database connection established")

	if err := repository.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}

	return repository.NewPostgresStore(db), db.Close, nil
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
