// Package guardrail inspects user inputs and assistant outputs and
// reports pass/fail verdicts with zero or more violations. Guardrails
// are pure compositions of independent sub-checks: a failing sub-check
// is logged and contributes no violations, it never blocks the others.
package guardrail

import (
	"context"

	"github.com/veritas-labs/safety-agent/internal/judgment"
	"github.com/veritas-labs/safety-agent/internal/models"
)

// SafetyChecker is the LLM-backed confirmation surface guardrails
// consume. Available reports whether a model client is configured;
// check methods fail open and return llm.ErrNoCredentials or the call
// error alongside their fallback judgment.
type SafetyChecker interface {
	Available() bool
	CheckInput(ctx context.Context, content string) (judgment.SafetyJudgment, error)
	CheckOutput(ctx context.Context, content string) (judgment.SafetyJudgment, error)
	CheckRelevance(ctx context.Context, query string) (judgment.RelevanceJudgment, error)
	CheckConsistency(ctx context.Context, response string, sources []models.Source) (judgment.ConsistencyJudgment, error)
	CheckBias(ctx context.Context, text string) (judgment.BiasJudgment, error)
}
