// Package judgment turns raw scorer text into structured verdicts.
// Every parse function is total: malformed input produces a
// best-effort result with an explanatory reason, never an error.
package judgment

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ScoreJudgment is a scalar judgment: a clamped score plus the
// judge's reasoning.
type ScoreJudgment struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// SafetyJudgment is a categorical judgment. Category is set for input
// checks (SAFE/HARMFUL/OFF_TOPIC/PROMPT_INJECTION), Violations for
// output checks. Fallback marks a result synthesized after a parse
// failure; such results are fail-open (Safe=true) by construction.
type SafetyJudgment struct {
	Safe       bool     `json:"safe"`
	Category   string   `json:"category,omitempty"`
	Violations []string `json:"violations,omitempty"`
	Reasoning  string   `json:"reasoning"`
	Severity   string   `json:"severity,omitempty"`
	Fallback   bool     `json:"-"`
}

// RelevanceJudgment reports whether a query fits the system topic.
type RelevanceJudgment struct {
	Relevant   bool    `json:"relevant"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
	Fallback   bool    `json:"-"`
}

var scorePattern = regexp.MustCompile(`(?i)score["']?\s*[:=]\s*(-?[0-9]*\.?[0-9]+)`)

// ParseScore extracts a (score, reasoning) pair from raw judge output.
// Strategy: strict JSON parse of the cleaned text, then a regex score
// extraction, then a zero-score default naming the parse error. The
// returned score is always within [0,1].
func ParseScore(raw string) ScoreJudgment {
	cleaned := extractJSON(raw)

	var parsed struct {
		Score     float64 `json:"score"`
		Reasoning string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err == nil {
		return ScoreJudgment{
			Score:     Clamp(parsed.Score),
			Reasoning: parsed.Reasoning,
		}
	}

	if match := scorePattern.FindStringSubmatch(raw); match != nil {
		if score, err := strconv.ParseFloat(match[1], 64); err == nil {
			return ScoreJudgment{
				Score:     Clamp(score),
				Reasoning: fmt.Sprintf("Extracted score from text (JSON parse failed): %s", preview(raw, 200)),
			}
		}
	}

	return ScoreJudgment{
		Score:     0.0,
		Reasoning: fmt.Sprintf("Error parsing judgment: invalid JSON in %s", preview(raw, 200)),
	}
}

// ParseSafety decodes a categorical safety judgment. Unparseable
// output fails open with a Fallback marker so callers can log the
// parse error without blocking content on scorer noise.
func ParseSafety(raw string) SafetyJudgment {
	cleaned := extractJSON(raw)

	var parsed struct {
		Safe       *bool    `json:"safe"`
		Category   string   `json:"category"`
		Violations []string `json:"violations"`
		Reasoning  string   `json:"reasoning"`
		Severity   string   `json:"severity"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return SafetyJudgment{
			Safe:      true,
			Reasoning: fmt.Sprintf("Failed to parse safety check, defaulting to safe: %v", err),
			Fallback:  true,
		}
	}

	safe := true
	if parsed.Safe != nil {
		safe = *parsed.Safe
	}

	return SafetyJudgment{
		Safe:       safe,
		Category:   strings.ToUpper(strings.TrimSpace(parsed.Category)),
		Violations: parsed.Violations,
		Reasoning:  parsed.Reasoning,
		Severity:   parsed.Severity,
	}
}

// ParseRelevance decodes a topic-relevance judgment, failing open to
// relevant when the output cannot be parsed.
func ParseRelevance(raw string) RelevanceJudgment {
	cleaned := extractJSON(raw)

	var parsed struct {
		Relevant   *bool   `json:"relevant"`
		Confidence float64 `json:"confidence"`
		Reasoning  string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return RelevanceJudgment{
			Relevant:   true,
			Confidence: 1.0,
			Reasoning:  fmt.Sprintf("Failed to parse relevance check: %v", err),
			Fallback:   true,
		}
	}

	relevant := true
	if parsed.Relevant != nil {
		relevant = *parsed.Relevant
	}

	return RelevanceJudgment{
		Relevant:   relevant,
		Confidence: Clamp(parsed.Confidence),
		Reasoning:  parsed.Reasoning,
	}
}

// ConsistencyJudgment reports whether a response contradicts its
// sources.
type ConsistencyJudgment struct {
	Consistent      bool     `json:"consistent"`
	Inconsistencies []string `json:"inconsistencies"`
	Reasoning       string   `json:"reasoning"`
	Fallback        bool     `json:"-"`
}

// BiasJudgment reports biased or discriminatory language.
type BiasJudgment struct {
	HasBias   bool     `json:"has_bias"`
	BiasTypes []string `json:"bias_types"`
	Reasoning string   `json:"reasoning"`
	Severity  string   `json:"severity"`
	Fallback  bool     `json:"-"`
}

// ParseConsistency decodes a source-consistency judgment, failing open
// to consistent on parse failure.
func ParseConsistency(raw string) ConsistencyJudgment {
	cleaned := extractJSON(raw)

	var parsed struct {
		Consistent      *bool    `json:"consistent"`
		Inconsistencies []string `json:"inconsistencies"`
		Reasoning       string   `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return ConsistencyJudgment{
			Consistent: true,
			Reasoning:  fmt.Sprintf("Failed to parse consistency check: %v", err),
			Fallback:   true,
		}
	}

	consistent := true
	if parsed.Consistent != nil {
		consistent = *parsed.Consistent
	}

	return ConsistencyJudgment{
		Consistent:      consistent,
		Inconsistencies: parsed.Inconsistencies,
		Reasoning:       parsed.Reasoning,
	}
}

// ParseBias decodes a bias judgment, failing open to unbiased on
// parse failure.
func ParseBias(raw string) BiasJudgment {
	cleaned := extractJSON(raw)

	var parsed BiasJudgment
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return BiasJudgment{
			Reasoning: fmt.Sprintf("Failed to parse bias check: %v", err),
			Fallback:  true,
		}
	}

	return parsed
}

// Clamp bounds a score to [0,1].
func Clamp(score float64) float64 {
	if score < 0.0 {
		return 0.0
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}

// extractJSON strips markdown code fences and, when braces are
// present, slices from the first '{' to the last '}' so prose wrapped
// around the payload does not break decoding.
func extractJSON(raw string) string {
	cleaned := strings.TrimSpace(raw)

	if strings.HasPrefix(cleaned, "```") {
		firstNewline := strings.Index(cleaned, "\n")
		closing := strings.LastIndex(cleaned, "```")
		if firstNewline != -1 && closing > firstNewline {
			cleaned = strings.TrimSpace(cleaned[firstNewline+1 : closing])
		}
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start != -1 && end > start {
		cleaned = cleaned[start : end+1]
	}

	return cleaned
}

func preview(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
