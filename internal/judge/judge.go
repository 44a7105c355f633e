// Package judge scores (query, response) pairs against weighted
// quality criteria, asking the model once per criterion and judging
// perspective and averaging what comes back.
package judge

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/veritas-labs/safety-agent/internal/config"
	"github.com/veritas-labs/safety-agent/internal/judgment"
	"github.com/veritas-labs/safety-agent/internal/llm"
	"github.com/veritas-labs/safety-agent/internal/models"
)

// perspectives are the judging personas every criterion is scored
// from. Order matters only for deterministic reasoning output.
var perspectives = []struct {
	Name        string
	Description string
}{
	{
		Name:        "academic",
		Description: "a rigorous academic researcher who values precision, evidence, and methodological soundness",
	},
	{
		Name:        "user_experience",
		Description: "an everyday user who values clarity, practical usefulness, and approachable language",
	},
}

// MultiPerspectiveJudge evaluates responses criterion by criterion,
// fanning the perspectives out concurrently per criterion. A failed
// perspective call is dropped from the average; when every perspective
// fails the criterion scores 0.0 with a single fallback entry.
type MultiPerspectiveJudge struct {
	client   llm.Client
	model    config.ModelConfig
	criteria []config.Criterion
	logger   *zerolog.Logger
}

func NewMultiPerspectiveJudge(client llm.Client, model config.ModelConfig, criteria []config.Criterion, logger *zerolog.Logger) *MultiPerspectiveJudge {
	return &MultiPerspectiveJudge{
		client:   client,
		model:    model,
		criteria: criteria,
		logger:   logger,
	}
}

// Evaluate scores the response against every configured criterion.
// Sources and ground truth are optional context: when present they are
// shown to every perspective prompt. OverallScore is the
// weight-normalized average; zero total weight yields 0.0.
func (j *MultiPerspectiveJudge) Evaluate(ctx context.Context, query, response string, sources []models.Source, groundTruth string) (models.EvaluationResult, error) {
	if j.client == nil {
		return models.EvaluationResult{}, llm.ErrNoCredentials
	}

	result := models.EvaluationResult{
		Query:           query,
		CriterionScores: make(map[string]models.CriterionScore, len(j.criteria)),
	}

	var weightedSum, totalWeight float64
	for _, criterion := range j.criteria {
		score := j.evaluateCriterion(ctx, criterion, query, response, sources, groundTruth)
		result.CriterionScores[criterion.Name] = score

		weightedSum += score.Score * criterion.Weight
		totalWeight += criterion.Weight
	}

	if totalWeight > 0 {
		result.OverallScore = weightedSum / totalWeight
	}

	j.logger.Debug().
		Float64("overall_score", result.OverallScore).
		Int("criteria", len(j.criteria)).
		Msg("evaluation completed")

	return result, nil
}

func (j *MultiPerspectiveJudge) evaluateCriterion(ctx context.Context, criterion config.Criterion, query, response string, sources []models.Source, groundTruth string) models.CriterionScore {
	scores := make(chan models.PerspectiveScore, len(perspectives))
	var wg sync.WaitGroup

	for _, perspective := range perspectives {
		wg.Add(1)
		go func(name, description string) {
			defer wg.Done()

			judged, err := j.judgeOnce(ctx, criterion, name, description, query, response, sources, groundTruth)
			if err != nil {
				j.logger.Warn().Err(err).
					Str("criterion", criterion.Name).
					Str("perspective", name).
					Msg("perspective evaluation failed")
				return
			}
			scores <- judged
		}(perspective.Name, perspective.Description)
	}

	wg.Wait()
	close(scores)

	collected := make(map[string]models.PerspectiveScore, len(perspectives))
	for score := range scores {
		collected[score.Perspective] = score
	}

	// Keep config-independent ordering so reasoning output is stable.
	var ordered []models.PerspectiveScore
	for _, perspective := range perspectives {
		if score, ok := collected[perspective.Name]; ok {
			ordered = append(ordered, score)
		}
	}

	if len(ordered) == 0 {
		return models.CriterionScore{
			Criterion: criterion.Name,
			Score:     0.0,
			Reasoning: "All judge perspectives failed",
			Perspectives: []models.PerspectiveScore{{
				Perspective: "fallback",
				Score:       0.0,
				Reasoning:   "All judge perspectives failed",
			}},
		}
	}

	var sum float64
	reasons := make([]string, 0, len(ordered))
	for _, score := range ordered {
		sum += score.Score
		reasons = append(reasons, fmt.Sprintf("[%s] %s", score.Perspective, score.Reasoning))
	}

	return models.CriterionScore{
		Criterion:    criterion.Name,
		Score:        sum / float64(len(ordered)),
		Reasoning:    strings.Join(reasons, " | "),
		Perspectives: ordered,
	}
}

func (j *MultiPerspectiveJudge) judgeOnce(ctx context.Context, criterion config.Criterion, perspective, description, query, response string, sources []models.Source, groundTruth string) (models.PerspectiveScore, error) {
	request := llm.CompletionRequest{
		System:      fmt.Sprintf("You are an expert evaluator judging responses as %s. Always respond in valid JSON format.", description),
		Prompt:      j.buildPrompt(criterion, query, response, sources, groundTruth),
		Temperature: j.model.Temperature,
		MaxTokens:   j.model.MaxTokens,
	}

	var resp *llm.CompletionResponse
	var err error
	if j.model.Retry {
		resp, err = j.client.CompleteWithRetry(ctx, request)
	} else {
		resp, err = j.client.Complete(ctx, request)
	}
	if err != nil {
		return models.PerspectiveScore{}, err
	}

	judged := judgment.ParseScore(resp.Content)

	return models.PerspectiveScore{
		Perspective: perspective,
		Score:       judged.Score,
		Reasoning:   judged.Reasoning,
	}, nil
}

const maxPromptSources = 10

func (j *MultiPerspectiveJudge) buildPrompt(criterion config.Criterion, query, response string, sources []models.Source, groundTruth string) string {
	description := criterion.Description
	if description == "" {
		description = criterion.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Evaluate the following response on the criterion "%s": %s

%s

Query: %s

Response: %s`, criterion.Name, description, rubricFor(criterion.Name), query, response)

	if len(sources) > 0 {
		fmt.Fprintf(&b, "\n\nSources Used (%d total):\n", len(sources))
		listed := sources
		if len(listed) > maxPromptSources {
			listed = listed[:maxPromptSources]
		}
		for _, source := range listed {
			title := source.Title
			if title == "" {
				title = "Unknown"
			}
			url := source.URL
			if url == "" {
				url = "No URL"
			}
			fmt.Fprintf(&b, "- %s: %s\n", title, url)
		}
	}

	if groundTruth != "" {
		fmt.Fprintf(&b, "\n\nExpected Response (for reference):\n%s", groundTruth)
	}

	b.WriteString(`

Respond in JSON format:
{
    "score": 0.0-1.0,
    "reasoning": "brief explanation"
}`)

	return b.String()
}
