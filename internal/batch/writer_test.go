package batch

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/veritas-labs/safety-agent/internal/models"
)

func TestWriter_RejectsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if _, err := NewWriter(&buf, "xml", newTestLogger()); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriter_JSONL(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf, FormatJSONL, newTestLogger())
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	ok := Result{
		LineNumber:  1,
		ID:          "a",
		QueryResult: models.QueryResult{Response: "answer", Action: models.ActionAccepted},
	}
	failed := Result{LineNumber: 2, Err: errors.New("bad line")}

	if err := writer.Write(ok); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := writer.Write(failed); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 JSONL lines, got %d", len(lines))
	}

	var first struct {
		Result *models.QueryResult `json:"result"`
		Error  string              `json:"error"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("invalid JSONL line: %v", err)
	}
	if first.Result == nil || first.Result.Response != "answer" {
		t.Errorf("unexpected first line: %s", lines[0])
	}

	var second struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("invalid JSONL line: %v", err)
	}
	if second.Error != "bad line" {
		t.Errorf("expected error field, got %s", lines[1])
	}
}

func TestWriter_Summary(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf, FormatSummary, newTestLogger())
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	evaluation := &models.EvaluationResult{
		OverallScore: 0.8,
		CriterionScores: map[string]models.CriterionScore{
			"relevance": {Criterion: "relevance", Score: 0.9},
			"clarity":   {Criterion: "clarity", Score: 0.7},
		},
	}
	results := []Result{
		{LineNumber: 1, QueryResult: models.QueryResult{Action: models.ActionAccepted, Evaluation: evaluation}},
		{LineNumber: 2, QueryResult: models.QueryResult{Action: models.ActionRefused}},
		{LineNumber: 3, QueryResult: models.QueryResult{Action: models.ActionSanitized}},
		{LineNumber: 4, Err: errors.New("bad line")},
	}

	for _, result := range results {
		if err := writer.Write(result); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	// Summary mode buffers everything until Close.
	if buf.Len() != 0 {
		t.Error("summary writer must not emit per-result output")
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	var summary struct {
		Total       int                `json:"total"`
		Accepted    int                `json:"accepted"`
		Sanitized   int                `json:"sanitized"`
		Refused     int                `json:"refused"`
		Errors      int                `json:"errors"`
		AvgScore    float64            `json:"avg_overall_score"`
		AvgCriteria map[string]float64 `json:"avg_criterion_scores"`
	}
	if err := json.Unmarshal(buf.Bytes(), &summary); err != nil {
		t.Fatalf("invalid summary JSON: %v", err)
	}

	if summary.Total != 4 || summary.Accepted != 1 || summary.Refused != 1 || summary.Sanitized != 1 || summary.Errors != 1 {
		t.Errorf("unexpected summary counts: %+v", summary)
	}
	if summary.AvgScore != 0.8 {
		t.Errorf("expected avg score 0.8, got %f", summary.AvgScore)
	}
	if summary.AvgCriteria["relevance"] != 0.9 || summary.AvgCriteria["clarity"] != 0.7 {
		t.Errorf("unexpected criterion averages: %v", summary.AvgCriteria)
	}
}
