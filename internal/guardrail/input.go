package guardrail

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/veritas-labs/safety-agent/internal/models"
)

// relevanceConfidenceFloor: a query is only flagged off-topic when the
// checker is confident it does not belong (confidence below this).
const relevanceConfidenceFloor = 0.3

// InputGuardrail composes the pattern validator, the content safety
// checker, and a topic-relevance check into one input verdict.
type InputGuardrail struct {
	pattern    *PatternValidator
	checker    SafetyChecker
	failClosed bool
	logger     *zerolog.Logger
}

func NewInputGuardrail(pattern *PatternValidator, checker SafetyChecker, failClosed bool, logger *zerolog.Logger) *InputGuardrail {
	return &InputGuardrail{
		pattern:    pattern,
		checker:    checker,
		failClosed: failClosed,
		logger:     logger,
	}
}

// Validate runs every applicable sub-check over the query and
// concatenates their violations. Sub-check order is an implementation
// detail; callers must rely on set membership only.
func (g *InputGuardrail) Validate(ctx context.Context, query string) models.GuardrailVerdict {
	violations := g.pattern.CheckLength(query)

	violations = append(violations, g.checkPromptInjection(ctx, query)...)

	degraded := false

	if g.available() {
		toxic, err := g.checkToxicLanguage(ctx, query)
		if err != nil {
			g.logger.Warn().Err(err).Msg("toxic language check failed")
			degraded = true
		}
		violations = append(violations, toxic...)

		offTopic, err := g.checkRelevance(ctx, query)
		if err != nil {
			g.logger.Warn().Err(err).Msg("relevance check failed")
			degraded = true
		}
		violations = append(violations, offTopic...)
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

	return models.GuardrailVerdict{
		Valid:         len(violations) == 0,
		Violations:    violations,
		SanitizedText: query,
	}
}

// checkPromptInjection screens for injection phrases and promotes a
// match to a violation: directly at high severity when no confirmation
// path exists, otherwise only on a categorical PROMPT_INJECTION
// confirmation from the checker.
func (g *InputGuardrail) checkPromptInjection(ctx context.Context, query string) []models.Violation {
	found := g.pattern.InjectionMatches(query)
	if len(found) == 0 {
		return nil
	}

	patternReason := fmt.Sprintf("Potential prompt injection patterns detected: %s", strings.Join(found, ", "))

	if !g.available() {
		return []models.Violation{{
			Validator: "prompt_injection",
			Reason:    patternReason,
			Severity:  models.SeverityHigh,
		}}
	}

	result, err := g.checker.CheckInput(ctx, query)
	if err != nil {
		g.logger.Warn().Err(err).Msg("LLM prompt injection check failed, using pattern match")
		return []models.Violation{{
			Validator: "prompt_injection",
			Reason:    patternReason,
			Severity:  models.SeverityHigh,
		}}
	}

	if result.Category == "PROMPT_INJECTION" {
		reason := result.Reasoning
		if reason == "" {
			reason = fmt.Sprintf("Detected prompt injection patterns: %s", strings.Join(found, ", "))
		}
		return []models.Violation{{
			Validator: "prompt_injection",
			Reason:    reason,
			Severity:  models.SeverityHigh,
		}}
	}

	return nil
}

func (g *InputGuardrail) checkToxicLanguage(ctx context.Context, query string) ([]models.Violation, error) {
	result, err := g.checker.CheckInput(ctx, query)
	if err != nil {
		return nil, err
	}

	if result.Safe || result.Category != "HARMFUL" {
		return nil, nil
	}

	reason := result.Reasoning
	if reason == "" {
		reason = "Contains toxic or harmful language"
	}

	return []models.Violation{{
		Validator: "toxic_language",
		Reason:    reason,
		Severity:  severityOrDefault(result.Severity, models.SeverityHigh),
	}}, nil
}

func (g *InputGuardrail) checkRelevance(ctx context.Context, query string) ([]models.Violation, error) {
	result, err := g.checker.CheckRelevance(ctx, query)
	if err != nil {
		return nil, err
	}

	if result.Relevant || result.Confidence >= relevanceConfidenceFloor {
		return nil, nil
	}

	reason := result.Reasoning
	if reason == "" {
		reason = "Query may not be relevant to the system topic"
	}

	return []models.Violation{{
		Validator: "relevance",
		Reason:    reason,
		Severity:  models.SeverityLow,
	}}, nil
}

func (g *InputGuardrail) available() bool {
	return g.checker != nil && g.checker.Available()
}

func severityOrDefault(raw string, fallback models.Severity) models.Severity {
	switch models.Severity(raw) {
	case models.SeverityLow, models.SeverityMedium, models.SeverityHigh:
		return models.Severity(raw)
	default:
		return fallback
	}
}
