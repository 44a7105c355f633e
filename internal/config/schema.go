package config

import "time"

// Config is the complete resolved configuration. It is loaded once at
// startup and treated as immutable by every component that receives it.
type Config struct {
	System     SystemConfig     `yaml:"system"`
	Models     ModelsConfig     `yaml:"models"`
	Safety     SafetyConfig     `yaml:"safety"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
}

type SystemConfig struct {
	Topic           string        `yaml:"topic"`
	PipelineTimeout time.Duration `yaml:"pipeline_timeout"`
}

type ModelsConfig struct {
	Default ModelConfig `yaml:"default"`
	Judge   ModelConfig `yaml:"judge"`
}

// ModelConfig carries the per-call settings for one model role.
type ModelConfig struct {
	Provider    string  `yaml:"provider"`
	Name        string  `yaml:"name"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	Retry       bool    `yaml:"retry"`
}

type SafetyConfig struct {
	Enabled              bool            `yaml:"enabled"`
	LogEvents            bool            `yaml:"log_events"`
	EventLogFile         string          `yaml:"event_log_file"`
	FailClosed           bool            `yaml:"fail_closed"`
	ProhibitedCategories []string        `yaml:"prohibited_categories"`
	OnViolation          ViolationPolicy `yaml:"on_violation"`
	MinInputLength       int             `yaml:"min_input_length"`
	MaxInputLength       int             `yaml:"max_input_length"`
}

// ViolationPolicy decides what the coordinator does with unsafe
// content: "refuse" replaces it with Message, "sanitize" returns the
// guardrail's redacted variant.
type ViolationPolicy struct {
	Action  string `yaml:"action"`
	Message string `yaml:"message"`
}

type EvaluationConfig struct {
	Criteria []Criterion `yaml:"criteria"`
}

// Criterion is one weighted quality dimension scored on [0,1].
type Criterion struct {
	Name        string  `yaml:"name"`
	Weight      float64 `yaml:"weight"`
	Description string  `yaml:"description"`
}
