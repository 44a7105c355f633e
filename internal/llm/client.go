package llm

import (
	"context"
	"errors"
)

// ErrNoCredentials marks a client that could not be constructed
// because no API credentials are configured. Callers use this to
// distinguish "unavailable" (fail-open for secondary checks) from a
// mid-call failure (logged and surfaced in statistics).
var ErrNoCredentials = errors.New("llm: no credentials configured")

// Client is the single capability the control plane consumes from a
// language model provider. Implementations must be safe for
// concurrent use.
type Client interface {
	Complete(ctx context.Context, request CompletionRequest) (*CompletionResponse, error)
	CompleteWithRetry(ctx context.Context, request CompletionRequest) (*CompletionResponse, error)
}
