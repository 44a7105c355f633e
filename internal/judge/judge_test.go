package judge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/veritas-labs/safety-agent/internal/config"
	"github.com/veritas-labs/safety-agent/internal/llm"
	"github.com/veritas-labs/safety-agent/internal/models"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

// mockLLMClient returns a canned score per criterion, keyed on the
// criterion name appearing in the prompt.
type mockLLMClient struct {
	mu             sync.Mutex
	scoreByKeyword map[string]float64
	errToReturn    error
	calls          int
	prompts        []string
}

func (m *mockLLMClient) Complete(ctx context.Context, request llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.prompts = append(m.prompts, request.Prompt)

	if m.errToReturn != nil {
		return nil, m.errToReturn
	}

	for keyword, score := range m.scoreByKeyword {
		if strings.Contains(request.Prompt, keyword) {
			return &llm.CompletionResponse{
				Content: fmt.Sprintf(`{"score": %.2f, "reasoning": "scored %s"}`, score, keyword),
			}, nil
		}
	}

	return &llm.CompletionResponse{Content: `{"score": 0.5, "reasoning": "default"}`}, nil
}

func (m *mockLLMClient) CompleteWithRetry(ctx context.Context, request llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return m.Complete(ctx, request)
}

func testModelConfig() config.ModelConfig {
	return config.ModelConfig{
		Provider:    "openai",
		Name:        "test-model",
		Temperature: 0.3,
		MaxTokens:   1024,
	}
}

func TestEvaluate_WeightedAggregation(t *testing.T) {
	client := &mockLLMClient{
		scoreByKeyword: map[string]float64{
			"relevance": 0.8,
			"clarity":   0.4,
		},
	}

	criteria := []config.Criterion{
		{Name: "relevance", Weight: 1.0},
		{Name: "clarity", Weight: 3.0},
	}

	judge := NewMultiPerspectiveJudge(client, testModelConfig(), criteria, newTestLogger())

	result, err := judge.Evaluate(context.Background(), "what is usability?", "Usability is how easily users complete tasks.", nil, "")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	// (0.8*1 + 0.4*3) / 4 = 0.5
	if result.OverallScore != 0.5 {
		t.Errorf("expected overall score 0.5, got %f", result.OverallScore)
	}

	if len(result.CriterionScores) != 2 {
		t.Fatalf("expected 2 criterion scores, got %d", len(result.CriterionScores))
	}

	relevance := result.CriterionScores["relevance"]
	if relevance.Score != 0.8 {
		t.Errorf("expected relevance score 0.8, got %f", relevance.Score)
	}
	if len(relevance.Perspectives) != 2 {
		t.Errorf("expected 2 perspective entries, got %d", len(relevance.Perspectives))
	}
	if !strings.Contains(relevance.Reasoning, " | ") {
		t.Errorf("expected joined perspective reasoning, got %q", relevance.Reasoning)
	}
}

func TestEvaluate_AllPerspectivesFailed(t *testing.T) {
	client := &mockLLMClient{errToReturn: errors.New("model unavailable")}

	criteria := []config.Criterion{{Name: "relevance", Weight: 1.0}}
	judge := NewMultiPerspectiveJudge(client, testModelConfig(), criteria, newTestLogger())

	result, err := judge.Evaluate(context.Background(), "query", "response", nil, "")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	score := result.CriterionScores["relevance"]
	if score.Score != 0.0 {
		t.Errorf("expected 0.0 score when all perspectives fail, got %f", score.Score)
	}
	if len(score.Perspectives) != 1 {
		t.Fatalf("expected a single fallback perspective entry, got %d", len(score.Perspectives))
	}
	if score.Perspectives[0].Reasoning != "All judge perspectives failed" {
		t.Errorf("unexpected fallback reasoning: %q", score.Perspectives[0].Reasoning)
	}
	if result.OverallScore != 0.0 {
		t.Errorf("expected overall score 0.0, got %f", result.OverallScore)
	}
}

func TestEvaluate_NoCriteria(t *testing.T) {
	client := &mockLLMClient{}
	judge := NewMultiPerspectiveJudge(client, testModelConfig(), nil, newTestLogger())

	result, err := judge.Evaluate(context.Background(), "query", "response", nil, "")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if result.OverallScore != 0.0 {
		t.Errorf("expected 0.0 with no criteria, got %f", result.OverallScore)
	}
	if len(result.CriterionScores) != 0 {
		t.Errorf("expected empty criterion scores, got %d", len(result.CriterionScores))
	}
	if client.calls != 0 {
		t.Errorf("expected no LLM calls, got %d", client.calls)
	}
}

func TestEvaluate_NilClient(t *testing.T) {
	judge := NewMultiPerspectiveJudge(nil, testModelConfig(), nil, newTestLogger())

	if _, err := judge.Evaluate(context.Background(), "query", "response", nil, ""); !errors.Is(err, llm.ErrNoCredentials) {
		t.Errorf("expected ErrNoCredentials, got %v", err)
	}
}

func TestEvaluate_BothPerspectivesCalled(t *testing.T) {
	client := &mockLLMClient{scoreByKeyword: map[string]float64{"relevance": 0.9}}

	criteria := []config.Criterion{{Name: "relevance", Weight: 1.0}}
	judge := NewMultiPerspectiveJudge(client, testModelConfig(), criteria, newTestLogger())

	result, err := judge.Evaluate(context.Background(), "query", "response", nil, "")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if client.calls != 2 {
		t.Errorf("expected one call per perspective, got %d", client.calls)
	}

	perspectives := result.CriterionScores["relevance"].Perspectives
	if perspectives[0].Perspective != "academic" || perspectives[1].Perspective != "user_experience" {
		t.Errorf("expected stable perspective ordering, got %v", perspectives)
	}
}

func TestEvaluate_SourcesAndGroundTruthInPrompt(t *testing.T) {
	client := &mockLLMClient{}

	criteria := []config.Criterion{{Name: "evidence_quality", Weight: 1.0}}
	judge := NewMultiPerspectiveJudge(client, testModelConfig(), criteria, newTestLogger())

	sources := []models.Source{
		{Title: "Handbook of Usability Testing", URL: "https://example.org/handbook"},
		{Snippet: "untitled source"},
	}
	groundTruth := "Usability testing observes representative users completing tasks."

	if _, err := judge.Evaluate(context.Background(), "query", "response", sources, groundTruth); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if len(client.prompts) != 2 {
		t.Fatalf("expected one prompt per perspective, got %d", len(client.prompts))
	}

	for _, prompt := range client.prompts {
		if !strings.Contains(prompt, "Sources Used (2 total):") {
			t.Errorf("prompt missing sources section: %q", prompt)
		}
		if !strings.Contains(prompt, "- Handbook of Usability Testing: https://example.org/handbook") {
			t.Errorf("prompt missing source line: %q", prompt)
		}
		if !strings.Contains(prompt, "- Unknown: No URL") {
			t.Errorf("prompt missing placeholder for untitled source: %q", prompt)
		}
		if !strings.Contains(prompt, "Expected Response (for reference):\n"+groundTruth) {
			t.Errorf("prompt missing ground truth section: %q", prompt)
		}
	}
}

func TestEvaluate_NoSourcesOmitsSections(t *testing.T) {
	client := &mockLLMClient{}

	criteria := []config.Criterion{{Name: "relevance", Weight: 1.0}}
	judge := NewMultiPerspectiveJudge(client, testModelConfig(), criteria, newTestLogger())

	if _, err := judge.Evaluate(context.Background(), "query", "response", nil, ""); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	for _, prompt := range client.prompts {
		if strings.Contains(prompt, "Sources Used") || strings.Contains(prompt, "Expected Response") {
			t.Errorf("prompt must omit optional sections when absent: %q", prompt)
		}
	}
}

func TestRubricFor_KnownAndUnknown(t *testing.T) {
	if rubricFor("relevance") == genericRubric {
		t.Error("expected a specific rubric for relevance")
	}
	if rubricFor("made_up_criterion") != genericRubric {
		t.Error("expected the generic rubric for unknown criteria")
	}
}
