// Package workflow is the seam to the agent that actually answers
// queries. The control plane treats it as opaque: anything that can
// turn a query into a WorkflowResult can sit behind Runner.
package workflow

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/veritas-labs/safety-agent/internal/config"
	"github.com/veritas-labs/safety-agent/internal/llm"
	"github.com/veritas-labs/safety-agent/internal/models"
)

type Runner interface {
	Run(ctx context.Context, query string) (models.WorkflowResult, error)
}

// LLMRunner answers queries with a single completion call against the
// default model. It stands in for a full agent workflow when the
// pipeline runs standalone.
type LLMRunner struct {
	client llm.Client
	model  config.ModelConfig
	topic  string
	logger *zerolog.Logger
}

func NewLLMRunner(client llm.Client, model config.ModelConfig, topic string, logger *zerolog.Logger) *LLMRunner {
	return &LLMRunner{
		client: client,
		model:  model,
		topic:  topic,
		logger: logger,
	}
}

func (r *LLMRunner) Run(ctx context.Context, query string) (models.WorkflowResult, error) {
	if r.client == nil {
		return models.WorkflowResult{}, llm.ErrNoCredentials
	}

	request := llm.CompletionRequest{
		System:      fmt.Sprintf("You are a research assistant focused on %s. Answer concisely and cite sources when you can.", r.topic),
		Prompt:      query,
		Temperature: r.model.Temperature,
		MaxTokens:   r.model.MaxTokens,
	}

	var response *llm.CompletionResponse
	var err error
	if r.model.Retry {
		response, err = r.client.CompleteWithRetry(ctx, request)
	} else {
		response, err = r.client.Complete(ctx, request)
	}
	if err != nil {
		return models.WorkflowResult{}, fmt.Errorf("workflow completion failed: %w", err)
	}

	r.logger.Debug().Int("response_length", len(response.Content)).Msg("workflow completed")

	return models.WorkflowResult{
		Response:        response.Content,
		RawConversation: []string{query, response.Content},
	}, nil
}
