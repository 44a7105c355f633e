package bedrock

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/veritas-labs/safety-agent/internal/llm"
)

type Client struct {
	client       *bedrockruntime.Client
	modelID      string
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
}

// NewClient builds a Bedrock-backed completion client. An empty model
// ID means Bedrock is not configured for this deployment and maps to
// llm.ErrNoCredentials.
func NewClient(ctx context.Context, region string, modelID string) (*Client, error) {
	if modelID == "" {
		return nil, llm.ErrNoCredentials
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return &Client{
		client:       bedrockruntime.NewFromConfig(cfg),
		modelID:      modelID,
		maxRetries:   3,
		initialDelay: 100 * time.Millisecond,
		maxDelay:     12 * time.Second,
	}, nil
}
