package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/veritas-labs/safety-agent/internal/setup/logger"
	red "github.com/veritas-labs/safety-agent/internal/stream/redis"
)

func main() {
	query := flag.String("q", "", "Query text to publish")
	id := flag.String("id", "", "Optional message id")
	groundTruth := flag.String("ground-truth", "", "Optional reference answer for evaluation")
	stream := flag.String("stream", "safety-queries", "Stream name")
	flag.Parse()

	if *query == "" {
		fmt.Fprintln(os.Stderr, "Usage: producer -q '<query>'")
		flag.PrintDefaults()
		os.Exit(1)
	}

	log.Logger = logger.New(os.Getenv("LOG_LEVEL"))

	if err := run(*query, *id, *groundTruth, *stream); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(query, id, groundTruth, stream string) error {
	_ = godotenv.Load()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx := context.Background()
	client, err := red.ConnectRedis(ctx, addr, os.Getenv("REDIS_PASSWORD"), 3)
	if err != nil {
		return err
	}
	defer client.Close()

	message := map[string]string{
		"id":    id,
		"query": query,
	}
	if groundTruth != "" {
		message["ground_truth"] = groundTruth
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}

	msgID, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"payload": string(payload)},
	}).Result()
	if err != nil {
		return err
	}

	log.Info().Str("stream", stream).Str("id", msgID).Msg("Published successfully!")
	return nil
}
