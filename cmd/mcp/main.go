package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
	"github.com/veritas-labs/safety-agent/internal/config"
	"github.com/veritas-labs/safety-agent/internal/mcpadapter"
	"github.com/veritas-labs/safety-agent/internal/setup"
	"github.com/veritas-labs/safety-agent/internal/setup/logger"
)

func main() {
	// Setup logging
	logger := logger.New(os.Getenv("LOG_LEVEL"))
	log.Logger = logger

	// Load env
	_ = godotenv.Load()

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error().Err(err).Msg("Unable to load config")
		os.Exit(1)
	}

	deps, err := setup.Wire(ctx, cfg, setup.LoadEnv(), &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}
	defer deps.Close()

	server := createMCPServer(deps)

	// Run over stdio
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		// EOF / "server is closing" is expected when stdin closes
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			logger.Debug().Err(err).Msg("MCP server stopped")
			return
		}
		logger.Error().Err(err).Msg("Failed to run mcp server")
		os.Exit(1)
	}
}

func createMCPServer(deps *setup.Dependencies) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "safety-agent",
			Version: "1.0.0",
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_input_safety",
		Description: "Check a user query for prompt injection, toxic language, and off-topic content before it reaches an assistant",
	}, mcpadapter.NewCheckInputHandler(deps.Manager))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_output_safety",
		Description: "Check a generated response for PII, harmful content, factual inconsistency, and bias",
	}, mcpadapter.NewCheckOutputHandler(deps.Manager))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "evaluate_response",
		Description: "Score a response against the configured quality criteria from multiple judging perspectives",
	}, mcpadapter.NewEvaluateHandler(deps.Judge))

	return server
}
