package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
safety:
  enabled: true
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.System.Topic != "HCI Research" {
		t.Errorf("expected default topic, got %q", cfg.System.Topic)
	}
	if cfg.System.PipelineTimeout != 2*time.Minute {
		t.Errorf("expected default timeout 2m, got %v", cfg.System.PipelineTimeout)
	}
	if cfg.Safety.MinInputLength != 5 || cfg.Safety.MaxInputLength != 2000 {
		t.Errorf("expected default length bounds 5/2000, got %d/%d",
			cfg.Safety.MinInputLength, cfg.Safety.MaxInputLength)
	}
	if cfg.Safety.OnViolation.Action != PolicyRefuse {
		t.Errorf("expected default refuse policy, got %q", cfg.Safety.OnViolation.Action)
	}
	if cfg.Safety.OnViolation.Message != DefaultRefusalMessage {
		t.Errorf("expected default refusal message, got %q", cfg.Safety.OnViolation.Message)
	}
	if len(cfg.Safety.ProhibitedCategories) == 0 {
		t.Error("expected default prohibited categories")
	}
	if cfg.Safety.FailClosed {
		t.Error("fail_closed must default to false")
	}
}

func TestLoadFile_JudgeInheritsDefaultModel(t *testing.T) {
	path := writeConfig(t, `
models:
  default:
    provider: bedrock
    name: claude-model
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Models.Judge.Provider != "bedrock" {
		t.Errorf("judge must inherit default provider, got %q", cfg.Models.Judge.Provider)
	}
	if cfg.Models.Judge.Name != "claude-model" {
		t.Errorf("judge must inherit default model name, got %q", cfg.Models.Judge.Name)
	}
}

func TestLoadFile_InvalidPolicyAction(t *testing.T) {
	path := writeConfig(t, `
safety:
  on_violation:
    action: explode
`)

	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for invalid policy action")
	}
}

func TestLoadFile_LengthBoundsInverted(t *testing.T) {
	path := writeConfig(t, `
safety:
  min_input_length: 500
  max_input_length: 100
`)

	if _, err := LoadFile(path); err == nil {
		t.Error("expected error when min exceeds max")
	}
}

func TestLoadFile_NonPositiveCriterionWeight(t *testing.T) {
	path := writeConfig(t, `
evaluation:
  criteria:
    - name: relevance
      weight: -1.0
`)

	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for non-positive weight")
	}
}

func TestLoadFile_EmptyCriterionName(t *testing.T) {
	path := writeConfig(t, `
evaluation:
  criteria:
    - name: ""
      weight: 1.0
`)

	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for empty criterion name")
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
system:
  topic: "Custom Topic"
`)
	t.Setenv("SAFETY_AGENT_CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.System.Topic != "Custom Topic" {
		t.Errorf("expected env-selected config, got %q", cfg.System.Topic)
	}
}
