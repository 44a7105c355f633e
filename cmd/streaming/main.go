package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/veritas-labs/safety-agent/internal/config"
	"github.com/veritas-labs/safety-agent/internal/setup"
	"github.com/veritas-labs/safety-agent/internal/setup/logger"
	"github.com/veritas-labs/safety-agent/internal/stream"
	"github.com/veritas-labs/safety-agent/internal/stream/redis"
)

func resultsStream() string {
	if value := os.Getenv("SAFETY_AGENT_RESULTS_STREAM"); value != "" {
		return value
	}
	return "safety-results"
}

func main() {
	// Setup logging
	logger := logger.New(os.Getenv("LOG_LEVEL"))
	log.Logger = logger

	// Load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	deps, err := setup.Wire(ctx, cfg, setup.LoadEnv(), &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer deps.Close()

	streamCfg := &stream.StreamConfig{
		Provider: os.Getenv("STREAM_PROVIDER"),
		RedisConfig: redis.NewRedisStreamConfig(
			os.Getenv("REDIS_ADDR"),
			os.Getenv("REDIS_PASSWORD"),
			"safety-queries",
			"safety-group",
			os.Getenv("HOSTNAME"),
			resultsStream(),
		),
	}

	consumer, err := stream.NewStreamConsumer(ctx, streamCfg, deps.Pipeline, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create stream consumer")
	}

	if err := consumer.Setup(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to setup consumer")
	}

	go func() {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Consumer stopped with error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down...")

	log.Info().Msg("Safety Agent stopped")
}
