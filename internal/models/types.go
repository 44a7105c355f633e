package models

import (
	"time"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type Direction string

const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
)

// Action is the terminal outcome of a safety check.
type Action string

const (
	ActionAccepted  Action = "accepted"
	ActionSanitized Action = "sanitized"
	ActionRefused   Action = "refused"
)

// Violation is one specific reason a text failed a check. It is
// produced by exactly one validator call and never mutated afterwards.
type Violation struct {
	Validator string   `json:"validator"`
	Reason    string   `json:"reason"`
	Severity  Severity `json:"severity"`
	PIIType   string   `json:"pii_type,omitempty"`
	Matches   []string `json:"matches,omitempty"`
	BiasTypes []string `json:"bias_types,omitempty"`
}

// GuardrailVerdict is the combined result of all sub-checks of one
// guardrail call. Valid is true iff Violations is empty. SanitizedText
// carries the possibly-rewritten text (PII redacted for outputs).
type GuardrailVerdict struct {
	Valid         bool        `json:"valid"`
	Violations    []Violation `json:"violations"`
	SanitizedText string      `json:"sanitized_text"`
}

// SafetyEvent is an audit record of a non-trivial guardrail outcome.
// Events are append-only; ContentPreview is bounded at creation time.
type SafetyEvent struct {
	Timestamp      time.Time   `json:"timestamp"`
	Direction      Direction   `json:"direction"`
	Safe           bool        `json:"safe"`
	Violations     []Violation `json:"violations"`
	ContentPreview string      `json:"content_preview"`
}

// SafetyDecision is the coordinator's verdict for one input or output
// check. Response is the text downstream consumers must act on: the
// original content, the sanitized variant, or the refusal message.
type SafetyDecision struct {
	Safe       bool        `json:"safe"`
	Action     Action      `json:"action"`
	Violations []Violation `json:"violations"`
	Response   string      `json:"response"`
}

// SafetyStats aggregates the coordinator's check history.
type SafetyStats struct {
	TotalChecks   int     `json:"total_checks"`
	InputChecks   int     `json:"input_checks"`
	OutputChecks  int     `json:"output_checks"`
	Violations    int     `json:"violations"`
	ViolationRate float64 `json:"violation_rate"`
}

// PerspectiveScore is one judging persona's score for one criterion.
type PerspectiveScore struct {
	Perspective string  `json:"perspective"`
	Score       float64 `json:"score"`
	Reasoning   string  `json:"reasoning"`
}

// CriterionScore averages all perspective scores for one criterion.
// Perspectives always holds at least one entry; if every perspective
// call failed a single fallback entry with score 0.0 is substituted.
type CriterionScore struct {
	Criterion    string             `json:"criterion"`
	Score        float64            `json:"score"`
	Reasoning    string             `json:"reasoning"`
	Perspectives []PerspectiveScore `json:"perspectives"`
}

// EvaluationResult is the judge's output for one (query, response)
// pair. OverallScore is the weight-normalized average over criteria.
type EvaluationResult struct {
	Query           string                    `json:"query"`
	OverallScore    float64                   `json:"overall_score"`
	CriterionScores map[string]CriterionScore `json:"criterion_scores"`
}

// Source is one reference the agent workflow used for its response.
type Source struct {
	Title   string `json:"title"`
	URL     string `json:"url,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// WorkflowResult is the opaque shape produced by the external agent
// workflow for one query.
type WorkflowResult struct {
	Response        string   `json:"response"`
	Sources         []Source `json:"sources"`
	RawConversation []string `json:"raw_conversation,omitempty"`
}

// QueryResult is the pipeline's end-to-end output for one query.
type QueryResult struct {
	RequestID   string            `json:"request_id"`
	Query       string            `json:"query"`
	Response    string            `json:"response"`
	Action      Action            `json:"action"`
	Sources     []Source          `json:"sources,omitempty"`
	Evaluation  *EvaluationResult `json:"evaluation,omitempty"`
	Violations  []Violation       `json:"violations,omitempty"`
	CompletedAt time.Time         `json:"completed_at"`
}
