package guardrail

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/veritas-labs/safety-agent/internal/models"
)

// OutputGuardrail composes the PII check, the harmful-content check, a
// source-consistency check, and a bias check into one output verdict,
// and produces a redacted variant of the text when PII is found.
type OutputGuardrail struct {
	pattern    *PatternValidator
	checker    SafetyChecker
	failClosed bool
	logger     *zerolog.Logger
}

func NewOutputGuardrail(pattern *PatternValidator, checker SafetyChecker, failClosed bool, logger *zerolog.Logger) *OutputGuardrail {
	return &OutputGuardrail{
		pattern:    pattern,
		checker:    checker,
		failClosed: failClosed,
		logger:     logger,
	}
}

// Validate checks a generated response. PII detection always runs;
// the LLM-backed checks run only when a client is configured. The
// sanitized text redacts PII matches; other violation kinds do not
// rewrite the text.
func (g *OutputGuardrail) Validate(ctx context.Context, response string, sources []models.Source) models.GuardrailVerdict {
	violations := g.pattern.CheckPII(response)

	degraded := false

	if g.available() {
		harmful, err := g.checkHarmfulContent(ctx, response)
		if err != nil {
			g.logger.Warn().Err(err).Msg("harmful content check failed")
			degraded = true
		}
		violations = append(violations, harmful...)

		if len(sources) > 0 {
			inconsistent, err := g.checkFactualConsistency(ctx, response, sources)
			if err != nil {
				g.logger.Warn().Err(err).Msg("factual consistency check failed")
				degraded = true
			}
			violations = append(violations, inconsistent...)
		}

		biased, err := g.checkBias(ctx, response)
		if err != nil {
			g.logger.Warn().Err(err).Msg("bias check failed")
			degraded = true
		}
		violations = append(violations, biased...)
	} else {
		degraded = true
	}

	if degraded && g.failClosed {
		violations = append(violations, models.Violation{
			Validator: "llm_unavailable",
			Reason:    "LLM safety checks unavailable and fail-closed mode is enabled",
			Severity:  models.SeverityMedium,
		})
	}

	sanitized := response
	if len(violations) > 0 {
		sanitized = Redact(response, violations)
	}

	return models.GuardrailVerdict{
		Valid:         len(violations) == 0,
		Violations:    violations,
		SanitizedText: sanitized,
	}
}

func (g *OutputGuardrail) checkHarmfulContent(ctx context.Context, response string) ([]models.Violation, error) {
	result, err := g.checker.CheckOutput(ctx, response)
	if err != nil {
		return nil, err
	}

	if result.Safe {
		return nil, nil
	}

	severity := severityOrDefault(result.Severity, models.SeverityMedium)

	var violations []models.Violation
	for _, kind := range result.Violations {
		reason := result.Reasoning
		if reason == "" {
			reason = fmt.Sprintf("LLM detected: %s", kind)
		}
		violations = append(violations, models.Violation{
			Validator: "harmful_content",
			Reason:    reason,
			Severity:  severity,
		})
	}

	return violations, nil
}

func (g *OutputGuardrail) checkFactualConsistency(ctx context.Context, response string, sources []models.Source) ([]models.Violation, error) {
	result, err := g.checker.CheckConsistency(ctx, response, sources)
	if err != nil {
		return nil, err
	}

	if result.Consistent {
		return nil, nil
	}

	var violations []models.Violation
	for _, inconsistency := range result.Inconsistencies {
		violations = append(violations, models.Violation{
			Validator: "factual_consistency",
			Reason:    inconsistency,
			Severity:  models.SeverityHigh,
		})
	}

	return violations, nil
}

func (g *OutputGuardrail) checkBias(ctx context.Context, response string) ([]models.Violation, error) {
	result, err := g.checker.CheckBias(ctx, response)
	if err != nil {
		return nil, err
	}

	if !result.HasBias {
		return nil, nil
	}

	reason := result.Reasoning
	if reason == "" {
		reason = fmt.Sprintf("Detected bias: %v", result.BiasTypes)
	}

	return []models.Violation{{
		Validator: "bias",
		Reason:    reason,
		Severity:  severityOrDefault(result.Severity, models.SeverityMedium),
		BiasTypes: result.BiasTypes,
	}}, nil
}

func (g *OutputGuardrail) available() bool {
	return g.checker != nil && g.checker.Available()
}
