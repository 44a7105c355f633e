package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"github.com/veritas-labs/safety-agent/internal/api"
	"github.com/veritas-labs/safety-agent/internal/api/middleware"
	"github.com/veritas-labs/safety-agent/internal/config"
	"github.com/veritas-labs/safety-agent/internal/setup"
	"github.com/veritas-labs/safety-agent/internal/setup/logger"
)

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "Safety Agent API",
			Description: "Safety and quality control plane for LLM responses",
			Version:     "1.0.0",
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "safety", Description: "Guardrail checks and safety events"}},
		{TagProps: spec.TagProps{Name: "pipeline", Description: "Full query pipeline"}},
		{TagProps: spec.TagProps{Name: "evaluate", Description: "Response evaluation"}},
	}
}

func main() {
	// Setup logging
	logger := logger.New(os.Getenv("LOG_LEVEL"))
	log.Logger = logger

	// Load env
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

	// API
	handler := api.NewHandler(deps.Manager, deps.Pipeline, deps.Judge, &logger)
	container := restful.NewContainer()
	container.Filter(middleware.Logger(&logger))
	container.Filter(middleware.RecoverPanic(&logger))
	api.RegisterRoutes(container, handler)

	openAPIConfig := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       "/api/v1/openapi.json",
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}
	container.Add(restfulspec.NewOpenAPIService(openAPIConfig))

	// CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	// Server
	port := os.Getenv("SAFETY_AGENT_API_PORT")
	if port == "" {
		port = "18082"
	}

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("address", addr).Msg("Starting Safety Agent API")

	server := http.Server{
		Addr:    addr,
		Handler: corsHandler.Handler(container),
	}

	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
