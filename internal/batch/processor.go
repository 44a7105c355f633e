package batch

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/veritas-labs/safety-agent/internal/models"
)

// QueryProcessor is the pipeline surface the batch harness drives.
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, query, groundTruth string) (models.QueryResult, error)
}

// Result pairs one input record with its pipeline outcome. Exactly one
// of QueryResult and Err is meaningful.
type Result struct {
	LineNumber  int                `json:"line_number"`
	ID          string             `json:"id,omitempty"`
	QueryResult models.QueryResult `json:"result"`
	Err         error              `json:"-"`
}

// Processor fans records out over a fixed worker pool.
type Processor struct {
	pipeline QueryProcessor
	workers  int
	logger   *zerolog.Logger
}

func NewProcessor(pipeline QueryProcessor, workers int, logger *zerolog.Logger) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{
		pipeline: pipeline,
		workers:  workers,
		logger:   logger,
	}
}

// Process consumes records and emits one Result per valid record.
// Records that failed to parse are forwarded with their parse error so
// downstream counting stays accurate. The result channel closes once
// every worker has drained.
func (p *Processor) Process(ctx context.Context, records []InputRecord) <-chan Result {
	work := make(chan InputRecord)
	results := make(chan Result, p.workers)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for record := range work {
				results <- p.processRecord(ctx, record)
			}
		}()
	}

	go func() {
		defer close(work)
		for _, record := range records {
			select {
			case work <- record:
			case <-ctx.Done():
				p.logger.Warn().Msg("batch processing stopped by context cancellation")
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func (p *Processor) processRecord(ctx context.Context, record InputRecord) Result {
	result := Result{
		LineNumber: record.LineNumber,
		ID:         record.Request.ID,
	}

	if record.Error != nil {
		result.Err = record.Error
		return result
	}

	queryResult, err := p.pipeline.ProcessQuery(ctx, record.Request.Query, record.Request.GroundTruth)
	if err != nil {
		p.logger.Error().Err(err).Int("line", record.LineNumber).Msg("query processing failed")
		result.Err = err
		return result
	}

	result.QueryResult = queryResult
	return result
}
