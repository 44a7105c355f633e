package pipeline

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout reports that a pipeline run exceeded its deadline. The
// underlying goroutine keeps running until its derived context cancels
// it; the caller just stops waiting.
var ErrTimeout = errors.New("pipeline: processing timed out")

// Await runs fn on its own goroutine under a derived deadline context
// and blocks until it finishes, the deadline passes, or the parent
// context is done. Timeouts map to ErrTimeout so callers can tell them
// apart from fn's own failures.
func Await[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	runCtx := ctx
	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	type outcome struct {
		value T
		err   error
	}

	done := make(chan outcome, 1)
	go func() {
		value, err := fn(runCtx)
		done <- outcome{value: value, err: err}
	}()

	select {
	case result := <-done:
		return result.value, result.err
	case <-runCtx.Done():
		var zero T
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return zero, ErrTimeout
		}
		return zero, runCtx.Err()
	}
}
