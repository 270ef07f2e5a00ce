package main

import (
	"context"
	"encoding/json"
	"errors"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/logger"
	"storefront/pkg/cache"
	"storefront/pkg/rabbitmq"

	"github.com/rs/zerolog"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg.LogLevel, cfg.IsDevelopment(), os.Stdout)
	ctx := context.Background()

	// --- Database ---
	db, err := database.Open(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	deps := Dependencies{Config: cfg, DB: db, Log: log}

	// --- RabbitMQ (optional) ---
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize RabbitMQ client")
		}
		defer mqClient.Close()
		deps.Publisher = mqClient

		if err := mqClient.Consume(auditHandler(log), func(err error) {
			log.Warn().Err(err).Msg("audit consumer error")
		}); err != nil {
			log.Error().Err(err).Msg("failed to start audit consumer")
		}
	}

	// --- Redis (optional) ---
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer client.Close()
		deps.Cache = cache.NewRedisCache(client, "storefront")
	}

	app, err := NewApp(ctx, deps)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build application")
	}

	// --- Start HTTP Server ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", cfg.Port).Msg("starting server")
		if err := app.Listen(cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server gracefully stopped")
}

// auditHandler writes every domain event to the log.
func auditHandler(log zerolog.Logger) rabbitmq.Handler {
	return func(routingKey string, body []byte) error {
		if !json.Valid(body) {
			return errors.New("event body is not valid JSON")
		}
		log.Info().
			Str("event", routingKey).
			RawJSON("payload", body).
			Msg("audit")
		return nil
	}
}

