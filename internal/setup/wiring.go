// Package setup loads runtime settings and wires the control plane
// together for the entrypoints.
package setup

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/veritas-labs/safety-agent/internal/config"
	"github.com/veritas-labs/safety-agent/internal/guardrail"
	"github.com/veritas-labs/safety-agent/internal/judge"
	"github.com/veritas-labs/safety-agent/internal/llm"
	"github.com/veritas-labs/safety-agent/internal/llm/bedrock"
	"github.com/veritas-labs/safety-agent/internal/llm/openai"
	"github.com/veritas-labs/safety-agent/internal/pipeline"
	"github.com/veritas-labs/safety-agent/internal/safety"
	"github.com/veritas-labs/safety-agent/internal/workflow"
)

// Env carries the credential settings that never live in the YAML
// config file.
type Env struct {
	AWSRegion     string
	ClaudeModelID string
	OpenAIKey     string
	OpenAIModelID string
}

type Dependencies struct {
	Config   *config.Config
	Manager  *safety.Manager
	Judge    *judge.MultiPerspectiveJudge
	Pipeline *pipeline.Pipeline
	Logger   *zerolog.Logger

	eventSink io.Closer
}

func LoadEnv() *Env {
	return &Env{
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID: getEnv("CLAUDE_MODEL_ID", ""),
		OpenAIKey:     getEnv("OPEN_AI_KEY", ""),
		OpenAIModelID: getEnv("OPEN_AI_MODEL_ID", ""),
	}
}

// Wire builds the full dependency graph. A missing LLM credential is
// not fatal: the guardrails degrade to pattern-only checks and the
// judge endpoint reports unavailability per call.
func Wire(ctx context.Context, cfg *config.Config, env *Env, logger *zerolog.Logger) (*Dependencies, error) {
	defaultClient := createLLMClient(ctx, cfg.Models.Default, env, logger)
	judgeClient := createLLMClient(ctx, cfg.Models.Judge, env, logger)

	pattern := guardrail.NewPatternValidator(cfg.Safety.MinInputLength, cfg.Safety.MaxInputLength)
	checker := safety.NewContentSafetyChecker(defaultClient, cfg.Models.Default, cfg.System.Topic, logger)

	inputGuardrail := guardrail.NewInputGuardrail(pattern, checker, cfg.Safety.FailClosed, logger)
	outputGuardrail := guardrail.NewOutputGuardrail(pattern, checker, cfg.Safety.FailClosed, logger)

	var eventSink io.WriteCloser
	if cfg.Safety.LogEvents && cfg.Safety.EventLogFile != "" {
		f, err := os.OpenFile(cfg.Safety.EventLogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open event log file: %w", err)
		}
		eventSink = f
	}

	var sink io.Writer
	if eventSink != nil {
		sink = eventSink
	}
	eventLog := safety.NewEventLog(sink, logger)

	manager := safety.NewManager(cfg.Safety, inputGuardrail, outputGuardrail, checker, eventLog, logger)

	multiJudge := judge.NewMultiPerspectiveJudge(judgeClient, cfg.Models.Judge, cfg.Evaluation.Criteria, logger)

	runner := workflow.NewLLMRunner(defaultClient, cfg.Models.Default, cfg.System.Topic, logger)

	var evaluator pipeline.Evaluator
	if judgeClient != nil {
		evaluator = multiJudge
	}
	pipe := pipeline.New(manager, runner, evaluator, cfg.System.PipelineTimeout, logger)

	return &Dependencies{
		Config:    cfg,
		Manager:   manager,
		Judge:     multiJudge,
		Pipeline:  pipe,
		Logger:    logger,
		eventSink: eventSink,
	}, nil
}

// Close releases resources held by the dependency graph.
func (d *Dependencies) Close() error {
	if d.eventSink != nil {
		return d.eventSink.Close()
	}
	return nil
}

// createLLMClient returns nil when no credentials are configured so
// callers can run in degraded pattern-only mode.
func createLLMClient(ctx context.Context, model config.ModelConfig, env *Env, logger *zerolog.Logger) llm.Client {
	switch model.Provider {
	case "bedrock":
		modelID := model.Name
		if modelID == "" {
			modelID = env.ClaudeModelID
		}
		client, err := bedrock.NewClient(ctx, env.AWSRegion, modelID)
		if err != nil {
			logger.Warn().Err(err).Msg("Bedrock client unavailable, running without LLM checks")
			return nil
		}
		return client
	case "openai":
		modelID := model.Name
		if modelID == "" {
			modelID = env.OpenAIModelID
		}
		client, err := openai.NewClient(env.OpenAIKey, modelID)
		if err != nil {
			logger.Warn().Err(err).Msg("OpenAI client unavailable, running without LLM checks")
			return nil
		}
		return client
	default:
		logger.Warn().Str("provider", model.Provider).Msg("unknown LLM provider, running without LLM checks")
		return nil
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}
