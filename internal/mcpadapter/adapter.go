// Package mcpadapter exposes the safety control plane as MCP tools.
package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/veritas-labs/safety-agent/internal/models"
)

// SafetyService is the coordinator surface the tools call.
type SafetyService interface {
	CheckInput(ctx context.Context, query string) models.SafetyDecision
	CheckOutput(ctx context.Context, response string, sources []models.Source) models.SafetyDecision
}

// EvaluationService scores a (query, response) pair with optional
// sources and reference answer.
type EvaluationService interface {
	Evaluate(ctx context.Context, query, response string, sources []models.Source, groundTruth string) (models.EvaluationResult, error)
}

// CheckInputInput is the MCP tool input schema (matches HTTP API field names).
type CheckInputInput struct {
	Query string `json:"query" jsonschema:"user query to check"`
}

// CheckOutputInput is the MCP tool input schema for output checks.
type CheckOutputInput struct {
	Response string          `json:"response" jsonschema:"generated response to check"`
	Sources  []models.Source `json:"sources,omitempty" jsonschema:"optional sources the response was built from"`
}

// EvaluateInput is the MCP tool input schema for response evaluation.
type EvaluateInput struct {
	Query       string          `json:"query" jsonschema:"user's original query"`
	Response    string          `json:"response" jsonschema:"response to evaluate"`
	Sources     []models.Source `json:"sources,omitempty" jsonschema:"optional sources the response cited"`
	GroundTruth string          `json:"ground_truth,omitempty" jsonschema:"optional reference answer to compare against"`
}

// NewCheckInputHandler returns a tool handler for input safety checks.
// Pass the returned function to mcp.AddTool.
func NewCheckInputHandler(safety SafetyService) func(context.Context, *mcp.CallToolRequest, CheckInputInput) (*mcp.CallToolResult, models.SafetyDecision, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CheckInputInput) (*mcp.CallToolResult, models.SafetyDecision, error) {
		return nil, safety.CheckInput(ctx, input.Query), nil
	}
}

// NewCheckOutputHandler returns a tool handler for output safety checks.
func NewCheckOutputHandler(safety SafetyService) func(context.Context, *mcp.CallToolRequest, CheckOutputInput) (*mcp.CallToolResult, models.SafetyDecision, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CheckOutputInput) (*mcp.CallToolResult, models.SafetyDecision, error) {
		return nil, safety.CheckOutput(ctx, input.Response, input.Sources), nil
	}
}

// NewEvaluateHandler returns a tool handler that scores a response
// against the configured criteria.
func NewEvaluateHandler(evaluator EvaluationService) func(context.Context, *mcp.CallToolRequest, EvaluateInput) (*mcp.CallToolResult, models.EvaluationResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input EvaluateInput) (*mcp.CallToolResult, models.EvaluationResult, error) {
		result, err := evaluator.Evaluate(ctx, input.Query, input.Response, input.Sources, input.GroundTruth)
		return nil, result, err
	}
}
