package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	PolicyRefuse   = "refuse"
	PolicySanitize = "sanitize"
)

// DefaultRefusalMessage mirrors the message used when no override is
// configured under safety.on_violation.message.
const DefaultRefusalMessage = "I cannot provide this response due to safety policies."

// Load reads and resolves the configuration file. The path can be
// overridden with SAFETY_AGENT_CONFIG_PATH.
func Load() (*Config, error) {
	path := os.Getenv("SAFETY_AGENT_CONFIG_PATH")
	if path == "" {
		path = "configs/config.yaml"
	}

	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.System.Topic == "" {
		cfg.System.Topic = "HCI Research"
	}
	if cfg.System.PipelineTimeout == 0 {
		cfg.System.PipelineTimeout = 2 * time.Minute
	}

	if cfg.Models.Default.Provider == "" {
		cfg.Models.Default.Provider = "openai"
	}
	if cfg.Models.Default.MaxTokens == 0 {
		cfg.Models.Default.MaxTokens = 512
	}
	if cfg.Models.Default.Temperature == 0 {
		cfg.Models.Default.Temperature = 0.3
	}

	if cfg.Models.Judge.Provider == "" {
		cfg.Models.Judge.Provider = cfg.Models.Default.Provider
	}
	if cfg.Models.Judge.Name == "" {
		cfg.Models.Judge.Name = cfg.Models.Default.Name
	}
	if cfg.Models.Judge.MaxTokens == 0 {
		cfg.Models.Judge.MaxTokens = 1024
	}
	if cfg.Models.Judge.Temperature == 0 {
		cfg.Models.Judge.Temperature = 0.3
	}

	if cfg.Safety.OnViolation.Action == "" {
		cfg.Safety.OnViolation.Action = PolicyRefuse
	}
	if cfg.Safety.OnViolation.Message == "" {
		cfg.Safety.OnViolation.Message = DefaultRefusalMessage
	}
	if len(cfg.Safety.ProhibitedCategories) == 0 {
		cfg.Safety.ProhibitedCategories = []string{
			"harmful_content",
			"personal_attacks",
			"misinformation",
			"off_topic_queries",
		}
	}
	if cfg.Safety.MinInputLength == 0 {
		cfg.Safety.MinInputLength = 5
	}
	if cfg.Safety.MaxInputLength == 0 {
		cfg.Safety.MaxInputLength = 2000
	}
}

// Validate rejects configurations that would violate component
// contracts at runtime. Called once at load; downstream code assumes
// a validated config.
func (c *Config) Validate() error {
	switch c.Safety.OnViolation.Action {
	case PolicyRefuse, PolicySanitize:
	default:
		return fmt.Errorf("invalid safety.on_violation.action %q (want %q or %q)",
			c.Safety.OnViolation.Action, PolicyRefuse, PolicySanitize)
	}

	if c.Safety.MinInputLength > c.Safety.MaxInputLength {
		return fmt.Errorf("safety.min_input_length %d exceeds max_input_length %d",
			c.Safety.MinInputLength, c.Safety.MaxInputLength)
	}

	for _, criterion := range c.Evaluation.Criteria {
		if criterion.Name == "" {
			return fmt.Errorf("evaluation criterion with empty name")
		}
		if criterion.Weight <= 0 {
			return fmt.Errorf("evaluation criterion %s has non-positive weight %f",
				criterion.Name, criterion.Weight)
		}
	}

	return nil
}
