package guardrail

import (
	"context"
	"strings"
	"testing"

	"github.com/veritas-labs/safety-agent/internal/judgment"
	"github.com/veritas-labs/safety-agent/internal/models"
)

func TestOutputGuardrail_CleanResponse(t *testing.T) {
	g := NewOutputGuardrail(NewPatternValidator(5, 2000), safeStub(), false, newTestLogger())

	verdict := g.Validate(context.Background(), "Usability testing measures how easily users complete tasks.", nil)

	if !verdict.Valid {
		t.Errorf("expected valid verdict, got %v", verdict.Violations)
	}
	if verdict.SanitizedText != "Usability testing measures how easily users complete tasks." {
		t.Errorf("clean response must pass through unchanged")
	}
}

func TestOutputGuardrail_PIISanitized(t *testing.T) {
	g := NewOutputGuardrail(NewPatternValidator(5, 2000), safeStub(), false, newTestLogger())

	verdict := g.Validate(context.Background(), "Reach the author at a@b.com for the dataset.", nil)

	if verdict.Valid {
		t.Fatal("expected invalid verdict")
	}
	if findViolation(verdict.Violations, "pii") == nil {
		t.Fatalf("expected pii violation, got %v", verdict.Violations)
	}
	if strings.Contains(verdict.SanitizedText, "a@b.com") {
		t.Errorf("sanitized text still contains PII: %q", verdict.SanitizedText)
	}
	if !strings.Contains(verdict.SanitizedText, RedactionMarker) {
		t.Errorf("expected redaction marker in %q", verdict.SanitizedText)
	}
}

func TestOutputGuardrail_PIIWithoutLLM(t *testing.T) {
	// PII detection is lexical and must work with no checker at all.
	g := NewOutputGuardrail(NewPatternValidator(5, 2000), nil, false, newTestLogger())

	verdict := g.Validate(context.Background(), "Call 212-555-0100 for details.", nil)

	if findViolation(verdict.Violations, "pii") == nil {
		t.Fatalf("expected pii violation without LLM, got %v", verdict.Violations)
	}
}

func TestOutputGuardrail_HarmfulContent(t *testing.T) {
	checker := safeStub()
	checker.outputJudgment = judgment.SafetyJudgment{
		Safe:       false,
		Violations: []string{"dangerous_instructions", "misinformation"},
		Reasoning:  "response explains a dangerous procedure",
		Severity:   "high",
	}

	g := NewOutputGuardrail(NewPatternValidator(5, 2000), checker, false, newTestLogger())

	verdict := g.Validate(context.Background(), "a response with problems", nil)

	count := 0
	for _, v := range verdict.Violations {
		if v.Validator == "harmful_content" {
			count++
			if v.Severity != models.SeverityHigh {
				t.Errorf("expected high severity, got '%s'", v.Severity)
			}
		}
	}
	if count != 2 {
		t.Errorf("expected one harmful_content violation per kind, got %d", count)
	}
}

func TestOutputGuardrail_ConsistencyOnlyWithSources(t *testing.T) {
	checker := safeStub()
	checker.consistencyJudgment = judgment.ConsistencyJudgment{
		Consistent:      false,
		Inconsistencies: []string{"claims the study had 200 participants, source says 20"},
	}

	g := NewOutputGuardrail(NewPatternValidator(5, 2000), checker, false, newTestLogger())

	// Without sources the consistency check must not run.
	verdict := g.Validate(context.Background(), "The study had 200 participants.", nil)
	if findViolation(verdict.Violations, "factual_consistency") != nil {
		t.Errorf("consistency must not run without sources, got %v", verdict.Violations)
	}

	sources := []models.Source{{Title: "Study report", Snippet: "20 participants were recruited"}}
	verdict = g.Validate(context.Background(), "The study had 200 participants.", sources)

	violation := findViolation(verdict.Violations, "factual_consistency")
	if violation == nil {
		t.Fatalf("expected factual_consistency violation, got %v", verdict.Violations)
	}
	if violation.Severity != models.SeverityHigh {
		t.Errorf("expected high severity, got '%s'", violation.Severity)
	}
}

func TestOutputGuardrail_Bias(t *testing.T) {
	checker := safeStub()
	checker.biasJudgment = judgment.BiasJudgment{
		HasBias:   true,
		BiasTypes: []string{"gender"},
		Reasoning: "assumes all engineers are men",
		Severity:  "medium",
	}

	g := NewOutputGuardrail(NewPatternValidator(5, 2000), checker, false, newTestLogger())

	verdict := g.Validate(context.Background(), "a biased response", nil)

	violation := findViolation(verdict.Violations, "bias")
	if violation == nil {
		t.Fatalf("expected bias violation, got %v", verdict.Violations)
	}
	if len(violation.BiasTypes) != 1 || violation.BiasTypes[0] != "gender" {
		t.Errorf("expected bias types carried over, got %v", violation.BiasTypes)
	}
}

func TestOutputGuardrail_FailClosedWithoutLLM(t *testing.T) {
	g := NewOutputGuardrail(NewPatternValidator(5, 2000), nil, true, newTestLogger())

	verdict := g.Validate(context.Background(), "a perfectly fine response", nil)

	if findViolation(verdict.Violations, "llm_unavailable") == nil {
		t.Errorf("expected llm_unavailable violation in fail-closed mode, got %v", verdict.Violations)
	}
}
