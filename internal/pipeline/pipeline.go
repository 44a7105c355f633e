// Package pipeline wires the safety gates, the agent workflow, and the
// judge into one end-to-end query path.
package pipeline

//go:generate mockgen -source=pipeline.go -destination=mocks/pipeline_mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/veritas-labs/safety-agent/internal/models"
)

// SafetyGate is the coordinator surface the pipeline depends on.
type SafetyGate interface {
	CheckInput(ctx context.Context, query string) models.SafetyDecision
	CheckOutput(ctx context.Context, response string, sources []models.Source) models.SafetyDecision
}

// Runner produces a response for a query.
type Runner interface {
	Run(ctx context.Context, query string) (models.WorkflowResult, error)
}

// Evaluator scores a (query, response) pair, optionally informed by
// the sources the response cited and a reference answer.
type Evaluator interface {
	Evaluate(ctx context.Context, query, response string, sources []models.Source, groundTruth string) (models.EvaluationResult, error)
}

// Pipeline runs input gate -> workflow -> output gate -> evaluation
// for one query at a time. evaluator may be nil, which skips scoring.
type Pipeline struct {
	safety    SafetyGate
	runner    Runner
	evaluator Evaluator
	timeout   time.Duration
	logger    *zerolog.Logger
}

func New(safety SafetyGate, runner Runner, evaluator Evaluator, timeout time.Duration, logger *zerolog.Logger) *Pipeline {
	return &Pipeline{
		safety:    safety,
		runner:    runner,
		evaluator: evaluator,
		timeout:   timeout,
		logger:    logger,
	}
}

// ProcessQuery runs the full pipeline under the configured timeout. A
// refused input short-circuits before the workflow runs; a refused or
// sanitized output replaces the workflow response. Evaluation scores
// whatever text the caller will actually see. groundTruth is an
// optional reference answer forwarded to the evaluator; empty means
// none.
func (p *Pipeline) ProcessQuery(ctx context.Context, query, groundTruth string) (models.QueryResult, error) {
	requestID := uuid.NewString()
	p.logger.Info().Str("request_id", requestID).Msg("processing query")

	return Await(ctx, p.timeout, func(ctx context.Context) (models.QueryResult, error) {
		return p.process(ctx, requestID, query, groundTruth)
	})
}

func (p *Pipeline) process(ctx context.Context, requestID, query, groundTruth string) (models.QueryResult, error) {
	result := models.QueryResult{
		RequestID: requestID,
		Query:     query,
	}

	inputDecision := p.safety.CheckInput(ctx, query)
	if !inputDecision.Safe {
		p.logger.Warn().
			Str("request_id", requestID).
			Str("action", string(inputDecision.Action)).
			Msg("input rejected by safety gate")

		result.Response = inputDecision.Response
		result.Action = inputDecision.Action
		result.Violations = inputDecision.Violations
		result.CompletedAt = time.Now().UTC()
		return result, nil
	}

	workflowResult, err := p.runner.Run(ctx, query)
	if err != nil {
		return models.QueryResult{}, err
	}

	outputDecision := p.safety.CheckOutput(ctx, workflowResult.Response, workflowResult.Sources)

	result.Response = outputDecision.Response
	result.Action = outputDecision.Action
	result.Sources = workflowResult.Sources
	result.Violations = outputDecision.Violations

	if p.evaluator != nil {
		evaluation, err := p.evaluator.Evaluate(ctx, query, result.Response, workflowResult.Sources, groundTruth)
		if err != nil {
			p.logger.Warn().Err(err).Str("request_id", requestID).Msg("evaluation failed, returning unscored result")
		} else {
			result.Evaluation = &evaluation
		}
	}

	result.CompletedAt = time.Now().UTC()
	return result, nil
}
