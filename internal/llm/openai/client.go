package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/veritas-labs/safety-agent/internal/llm"
)

type Client struct {
	client       openai.Client
	modelID      string
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
}

// NewClient builds an OpenAI-backed completion client. A missing API
// key returns llm.ErrNoCredentials so callers can degrade to
// "unavailable" instead of treating it as a call failure.
func NewClient(apiKey string, model string) (*Client, error) {
	if apiKey == "" {
		return nil, llm.ErrNoCredentials
	}
	if model == "" {
		return nil, fmt.Errorf("OpenAI model ID is required")
	}

	openaiClient := openai.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &Client{
		client:       openaiClient,
		modelID:      model,
		maxRetries:   3,
		initialDelay: 100 * time.Millisecond,
		maxDelay:     12 * time.Second,
	}, nil
}

func (c *Client) Complete(ctx context.Context, request llm.CompletionRequest) (*llm.CompletionResponse, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if request.System != "" {
		messages = append(messages, openai.SystemMessage(request.System))
	}
	messages = append(messages, openai.UserMessage(request.Prompt))

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.modelID),
		Messages:    messages,
		Temperature: openai.Float(request.Temperature),
		MaxTokens:   openai.Int(int64(request.MaxTokens)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call OpenAI model %s: %w", c.modelID, err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("OpenAI model %s returned no choices", c.modelID)
	}

	choice := completion.Choices[0]
	return &llm.CompletionResponse{
		Content:    choice.Message.Content,
		StopReason: string(choice.FinishReason),
	}, nil
}

func (c *Client) CompleteWithRetry(ctx context.Context, request llm.CompletionRequest) (*llm.CompletionResponse, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		response, err := c.Complete(ctx, request)
		if err == nil {
			return response, nil
		}

		lastErr = err

		if !llm.IsRetryableError(err) {
			return nil, fmt.Errorf("non-retryable error: %w", err)
		}

		delay := llm.Backoff(attempt, c.initialDelay, c.maxDelay)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
			continue
		}
	}

	return nil, fmt.Errorf("max retries %d exceeded: %w", c.maxRetries, lastErr)
}
