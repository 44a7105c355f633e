package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/veritas-labs/safety-agent/internal/config"
	"github.com/veritas-labs/safety-agent/internal/setup"
	"github.com/veritas-labs/safety-agent/internal/setup/logger"
)

// One-shot CLI: run a single query through the safety pipeline and
// print the result as JSON.
func main() {
	query := flag.String("q", "", "Query to process")
	groundTruth := flag.String("ground-truth", "", "Optional reference answer for evaluation")
	flag.Parse()

	logger := logger.New(os.Getenv("LOG_LEVEL"))
	log.Logger = logger

	if *query == "" {
		fmt.Fprintln(os.Stderr, "Usage: query -q '<text>'")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	deps, err := setup.Wire(ctx, cfg, setup.LoadEnv(), &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer deps.Close()

	result, err := deps.Pipeline.ProcessQuery(ctx, *query, *groundTruth)
	if err != nil {
		log.Fatal().Err(err).Msg("Query processing failed")
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode result")
	}

	fmt.Println(string(encoded))
}
