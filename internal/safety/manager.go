// Package safety hosts the control-plane coordinator: the LLM-backed
// content checker, the append-only event log, and the Manager that
// turns guardrail verdicts into accept/sanitize/refuse decisions.
package safety

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/veritas-labs/safety-agent/internal/config"
	"github.com/veritas-labs/safety-agent/internal/guardrail"
	"github.com/veritas-labs/safety-agent/internal/models"
)

const eventPreviewLimit = 100

// Manager coordinates the input and output guardrails, applies the
// configured violation policy, and records refused or sanitized
// outcomes in the event log. It is safe for concurrent use.
type Manager struct {
	cfg     config.SafetyConfig
	input   *guardrail.InputGuardrail
	output  *guardrail.OutputGuardrail
	checker guardrail.SafetyChecker
	events  *EventLog
	logger  *zerolog.Logger

	mu           sync.Mutex
	totalChecks  int
	inputChecks  int
	outputChecks int
	violations   int
}

func NewManager(cfg config.SafetyConfig, input *guardrail.InputGuardrail, output *guardrail.OutputGuardrail, checker guardrail.SafetyChecker, events *EventLog, logger *zerolog.Logger) *Manager {
	return &Manager{
		cfg:     cfg,
		input:   input,
		output:  output,
		checker: checker,
		events:  events,
		logger:  logger,
	}
}

// CheckInput validates a user query before it reaches the workflow.
// When safety is disabled the query passes through unchanged.
func (m *Manager) CheckInput(ctx context.Context, query string) models.SafetyDecision {
	if !m.cfg.Enabled {
		return models.SafetyDecision{Safe: true, Action: models.ActionAccepted, Response: query}
	}

	verdict := m.input.Validate(ctx, query)
	violations := verdict.Violations

	// The direct confirmation call can only add violations: it may
	// catch unsafe content the pattern checks missed, but it never
	// clears a verdict the guardrail already flagged.
	if verdict.Valid && m.checkerAvailable() {
		judgment, err := m.checker.CheckInput(ctx, query)
		if err != nil {
			m.logger.Warn().Err(err).Msg("input confirmation check failed, keeping guardrail verdict")
		} else if !judgment.Safe && !hasValidator(violations, "llm_safety_check") {
			violations = append(violations, models.Violation{
				Validator: "llm_safety_check",
				Reason:    confirmationReason(judgment.Reasoning, judgment.Category),
				Severity:  confirmationSeverity(judgment.Severity),
			})
		}
	}

	return m.decide(models.DirectionInput, query, query, violations)
}

// CheckOutput validates a generated response before it is returned to
// the caller. The guardrail's sanitized text is used when the policy
// is sanitize.
func (m *Manager) CheckOutput(ctx context.Context, response string, sources []models.Source) models.SafetyDecision {
	if !m.cfg.Enabled {
		return models.SafetyDecision{Safe: true, Action: models.ActionAccepted, Response: response}
	}

	verdict := m.output.Validate(ctx, response, sources)
	violations := verdict.Violations

	if verdict.Valid && m.checkerAvailable() {
		judgment, err := m.checker.CheckOutput(ctx, response)
		if err != nil {
			m.logger.Warn().Err(err).Msg("output confirmation check failed, keeping guardrail verdict")
		} else if !judgment.Safe && !hasValidator(violations, "llm_safety_check") {
			violations = append(violations, models.Violation{
				Validator: "llm_safety_check",
				Reason:    confirmationReason(judgment.Reasoning, judgment.Category),
				Severity:  confirmationSeverity(judgment.Severity),
			})
		}
	}

	return m.decide(models.DirectionOutput, response, verdict.SanitizedText, violations)
}

// decide applies the violation policy, updates the counters, and logs
// an event for every non-accepted outcome.
func (m *Manager) decide(direction models.Direction, original, sanitized string, violations []models.Violation) models.SafetyDecision {
	safe := len(violations) == 0

	m.record(direction, safe)

	if safe {
		return models.SafetyDecision{
			Safe:     true,
			Action:   models.ActionAccepted,
			Response: original,
		}
	}

	decision := models.SafetyDecision{
		Safe:       false,
		Violations: violations,
	}

	switch m.cfg.OnViolation.Action {
	case config.PolicySanitize:
		decision.Action = models.ActionSanitized
		decision.Response = sanitized
	default:
		decision.Action = models.ActionRefused
		decision.Response = m.refusalMessage()
	}

	if m.cfg.LogEvents {
		m.events.Append(models.SafetyEvent{
			Timestamp:      time.Now().UTC(),
			Direction:      direction,
			Safe:           false,
			Violations:     violations,
			ContentPreview: eventPreview(original),
		})
	}

	m.logger.Info().
		Str("direction", string(direction)).
		Str("action", string(decision.Action)).
		Int("violations", len(violations)).
		Msg("unsafe content handled")

	return decision
}

// Events returns the last limit safety events; limit <= 0 returns all.
func (m *Manager) Events(limit int) []models.SafetyEvent {
	return m.events.Events(limit)
}

// Stats returns aggregate counters over every check since startup,
// accepted ones included.
func (m *Manager) Stats() models.SafetyStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := models.SafetyStats{
		TotalChecks:  m.totalChecks,
		InputChecks:  m.inputChecks,
		OutputChecks: m.outputChecks,
		Violations:   m.violations,
	}
	if stats.TotalChecks > 0 {
		stats.ViolationRate = float64(stats.Violations) / float64(stats.TotalChecks)
	}
	return stats
}

func (m *Manager) record(direction models.Direction, safe bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalChecks++
	if direction == models.DirectionInput {
		m.inputChecks++
	} else {
		m.outputChecks++
	}
	if !safe {
		m.violations++
	}
}

func (m *Manager) refusalMessage() string {
	if m.cfg.OnViolation.Message != "" {
		return m.cfg.OnViolation.Message
	}
	return config.DefaultRefusalMessage
}

func (m *Manager) checkerAvailable() bool {
	return m.checker != nil && m.checker.Available()
}

func hasValidator(violations []models.Violation, name string) bool {
	for _, v := range violations {
		if v.Validator == name {
			return true
		}
	}
	return false
}

func confirmationReason(reasoning, category string) string {
	if reasoning != "" {
		return reasoning
	}
	if category != "" {
		return "LLM safety check flagged content as " + category
	}
	return "LLM safety check flagged content as unsafe"
}

func confirmationSeverity(raw string) models.Severity {
	switch models.Severity(raw) {
	case models.SeverityLow, models.SeverityMedium, models.SeverityHigh:
		return models.Severity(raw)
	default:
		return models.SeverityMedium
	}
}

func eventPreview(text string) string {
	if len(text) <= eventPreviewLimit {
		return text
	}
	return text[:eventPreviewLimit] + "..."
}
