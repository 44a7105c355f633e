// Package batch runs many queries through the pipeline from a JSONL
// file: a streaming reader, a worker-pool processor, and result
// writers.
package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// QueryRequest is one input line: an optional caller-supplied id, the
// query text, and an optional reference answer the evaluator compares
// the pipeline response against.
type QueryRequest struct {
	ID          string `json:"id,omitempty"`
	Query       string `json:"query"`
	GroundTruth string `json:"ground_truth,omitempty"`
}

// InputRecord is one parsed line. Error is set for malformed lines so
// callers can count or skip them without losing line positions.
type InputRecord struct {
	LineNumber int
	Request    QueryRequest
	Error      error
}

type Reader struct {
	source io.Reader
	logger *zerolog.Logger
}

func NewReader(source io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{
		source: source,
		logger: logger,
	}
}

// ReadAll streams records line by line. Blank lines are skipped but
// still counted, so LineNumber always matches the source file. The
// channel closes on EOF or context cancellation.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	records := make(chan InputRecord)

	go func() {
		defer close(records)

		scanner := bufio.NewScanner(r.source)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		lineNumber := 0
		for scanner.Scan() {
			lineNumber++

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			record := InputRecord{LineNumber: lineNumber}

			var request QueryRequest
			if err := json.Unmarshal([]byte(line), &request); err != nil {
				record.Error = fmt.Errorf("line %d: invalid JSON: %w", lineNumber, err)
			} else if request.Query == "" {
				record.Error = fmt.Errorf("line %d: missing query field", lineNumber)
			} else {
				record.Request = request
			}

			select {
			case records <- record:
			case <-ctx.Done():
				r.logger.Warn().Int("line", lineNumber).Msg("reader stopped by context cancellation")
				return
			}
		}

		if err := scanner.Err(); err != nil {
			r.logger.Error().Err(err).Msg("failed to read input")
		}
	}()

	return records
}
