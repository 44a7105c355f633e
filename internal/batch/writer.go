package batch

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/veritas-labs/safety-agent/internal/models"
)

const (
	FormatJSONL   = "jsonl"
	FormatSummary = "summary"
)

// Writer emits batch results in one of two formats: "jsonl" streams
// one result object per line, "summary" accumulates counters and
// writes a single JSON document on Close.
type Writer struct {
	out     io.Writer
	format  string
	logger  *zerolog.Logger
	summary summaryStats
}

type summaryStats struct {
	Total       int                `json:"total"`
	Accepted    int                `json:"accepted"`
	Sanitized   int                `json:"sanitized"`
	Refused     int                `json:"refused"`
	Errors      int                `json:"errors"`
	ScoredCount int                `json:"scored_count"`
	AvgScore    float64            `json:"avg_overall_score"`
	AvgCriteria map[string]float64 `json:"avg_criterion_scores,omitempty"`

	scoreSum     float64
	criterionSum map[string]float64
}

func NewWriter(out io.Writer, format string, logger *zerolog.Logger) (*Writer, error) {
	switch format {
	case FormatJSONL, FormatSummary:
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	return &Writer{
		out:    out,
		format: format,
		logger: logger,
	}, nil
}

func (w *Writer) Write(result Result) error {
	w.accumulate(result)

	if w.format != FormatJSONL {
		return nil
	}

	line := struct {
		LineNumber int                 `json:"line_number"`
		ID         string              `json:"id,omitempty"`
		Error      string              `json:"error,omitempty"`
		Result     *models.QueryResult `json:"result,omitempty"`
	}{
		LineNumber: result.LineNumber,
		ID:         result.ID,
	}

	if result.Err != nil {
		line.Error = result.Err.Error()
	} else {
		line.Result = &result.QueryResult
	}

	encoded, err := json.Marshal(line)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	_, err = w.out.Write(append(encoded, '\n'))
	return err
}

// Close flushes the summary document when the writer runs in summary
// mode. JSONL mode has nothing buffered.
func (w *Writer) Close() error {
	if w.format != FormatSummary {
		return nil
	}

	if w.summary.ScoredCount > 0 {
		w.summary.AvgScore = w.summary.scoreSum / float64(w.summary.ScoredCount)

		w.summary.AvgCriteria = make(map[string]float64, len(w.summary.criterionSum))
		for name, sum := range w.summary.criterionSum {
			w.summary.AvgCriteria[name] = sum / float64(w.summary.ScoredCount)
		}
	}

	encoded, err := json.MarshalIndent(w.summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	_, err = w.out.Write(append(encoded, '\n'))
	return err
}

func (w *Writer) accumulate(result Result) {
	w.summary.Total++

	if result.Err != nil {
		w.summary.Errors++
		return
	}

	switch result.QueryResult.Action {
	case models.ActionAccepted:
		w.summary.Accepted++
	case models.ActionSanitized:
		w.summary.Sanitized++
	case models.ActionRefused:
		w.summary.Refused++
	}

	if result.QueryResult.Evaluation != nil {
		w.summary.ScoredCount++
		w.summary.scoreSum += result.QueryResult.Evaluation.OverallScore

		if w.summary.criterionSum == nil {
			w.summary.criterionSum = make(map[string]float64)
		}
		for name, score := range result.QueryResult.Evaluation.CriterionScores {
			w.summary.criterionSum[name] += score.Score
		}
	}
}
