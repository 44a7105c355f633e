package guardrail

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/veritas-labs/safety-agent/internal/models"
)

// RedactionMarker replaces matched PII spans in sanitized output.
const RedactionMarker = "[REDACTED]"

// piiPattern is one category of the fixed PII catalog. Categories are
// checked independently; order only affects reporting, not semantics.
type piiPattern struct {
	category string
	pattern  *regexp.Regexp
}

var piiCatalog = []piiPattern{
	{"email", regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)},
	{"phone_us", regexp.MustCompile(`\b(\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}\b`)},
	{"phone_international", regexp.MustCompile(`\+\d{1,3}[-.\s]?\d{1,4}[-.\s]?\d{1,4}[-.\s]?\d{1,9}\b`)},
	{"ssn", regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{"credit_card", regexp.MustCompile(`\b\d{4}[-.\s]?\d{4}[-.\s]?\d{4}[-.\s]?\d{4}\b`)},
	{"ip_address", regexp.MustCompile(`\b(\d{1,3}\.){3}\d{1,3}\b`)},
}

// injectionPhrases is the lexical screen for prompt injection. A match
// alone is not a violation; the input guardrail promotes matches after
// LLM confirmation, or directly when no confirmation path exists.
var injectionPhrases = []string{
	"ignore previous instructions",
	"disregard",
	"forget everything",
	"system:",
	"sudo",
	"override",
	"new instructions",
	"you are now",
	"pretend to be",
	"act as if",
}

const maxRecordedMatches = 5

// PatternValidator runs the stateless lexical checks: length bounds
// and PII detection. It is pure, synchronous, and total — it never
// returns an error for any input text.
type PatternValidator struct {
	MinLength int
	MaxLength int
}

func NewPatternValidator(minLength, maxLength int) *PatternValidator {
	return &PatternValidator{
		MinLength: minLength,
		MaxLength: maxLength,
	}
}

// CheckLength reports length-bound violations. A too-short text is a
// low-severity nudge; a too-long one is medium (likely abuse or paste
// accidents).
func (v *PatternValidator) CheckLength(text string) []models.Violation {
	var violations []models.Violation

	if v.MinLength > 0 && len(text) < v.MinLength {
		violations = append(violations, models.Violation{
			Validator: "length",
			Reason:    fmt.Sprintf("Query too short (minimum %d characters)", v.MinLength),
			Severity:  models.SeverityLow,
		})
	}

	if v.MaxLength > 0 && len(text) > v.MaxLength {
		violations = append(violations, models.Violation{
			Validator: "length",
			Reason:    fmt.Sprintf("Query too long (maximum %d characters)", v.MaxLength),
			Severity:  models.SeverityMedium,
		})
	}

	return violations
}

// CheckPII reports one violation per PII category with matches found.
// IPv4 candidates are range-checked per octet to drop version strings
// and other numeric noise.
func (v *PatternValidator) CheckPII(text string) []models.Violation {
	var violations []models.Violation

	for _, entry := range piiCatalog {
		matches := entry.pattern.FindAllString(text, -1)
		if entry.category == "ip_address" {
			matches = filterValidIPv4(matches)
		}
		if len(matches) == 0 {
			continue
		}

		recorded := matches
		if len(recorded) > maxRecordedMatches {
			recorded = recorded[:maxRecordedMatches]
		}

		violations = append(violations, models.Violation{
			Validator: "pii",
			PIIType:   entry.category,
			Reason:    fmt.Sprintf("Contains %s", entry.category),
			Severity:  models.SeverityHigh,
			Matches:   recorded,
		})
	}

	return violations
}

// InjectionMatches returns the injection phrases present in text,
// case-insensitively. Promotion to a violation is the caller's job.
func (v *PatternValidator) InjectionMatches(text string) []string {
	lowered := strings.ToLower(text)

	var found []string
	for _, phrase := range injectionPhrases {
		if strings.Contains(lowered, phrase) {
			found = append(found, phrase)
		}
	}

	return found
}

// Redact replaces every match of each flagged PII category with the
// redaction marker, not just the matches recorded on the violation.
// Re-running the PII check on the result yields no matches for the
// redacted categories.
func Redact(text string, violations []models.Violation) string {
	sanitized := text

	for _, violation := range violations {
		if violation.Validator != "pii" {
			continue
		}
		for _, entry := range piiCatalog {
			if entry.category != violation.PIIType {
				continue
			}
			sanitized = entry.pattern.ReplaceAllStringFunc(sanitized, func(match string) string {
				if entry.category == "ip_address" && len(filterValidIPv4([]string{match})) == 0 {
					return match
				}
				return RedactionMarker
			})
		}
	}

	return sanitized
}

func filterValidIPv4(matches []string) []string {
	var valid []string
	for _, match := range matches {
		parts := strings.Split(match, ".")
		if len(parts) != 4 {
			continue
		}
		ok := true
		for _, part := range parts {
			octet, err := strconv.Atoi(part)
			if err != nil || octet < 0 || octet > 255 {
				ok = false
				break
			}
		}
		if ok {
			valid = append(valid, match)
		}
	}
	return valid
}
