package llm

import (
	"errors"
	"testing"
	"time"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"throttling", errors.New("ThrottlingException: Rate exceeded"), true},
		{"too many requests", errors.New("TooManyRequestsException"), true},
		{"http 429", errors.New("status code: 429"), true},
		{"internal server", errors.New("InternalServerException"), true},
		{"service unavailable", errors.New("503 Service Unavailable"), true},
		{"connection reset", errors.New("read: connection reset by peer"), true},
		{"timeout", errors.New("context deadline exceeded (Client.Timeout)"), false},
		{"timeout keyword", errors.New("dial tcp: i/o timeout"), true},
		{"validation error", errors.New("ValidationException: invalid model id"), false},
		{"auth error", errors.New("403 Forbidden"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryableError(tt.err); got != tt.want {
				t.Errorf("IsRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestBackoff_GrowsExponentially(t *testing.T) {
	initial := 100 * time.Millisecond
	max := 12 * time.Second

	// Jitter is +-20%, so bound checks use the widest window.
	for attempt := 0; attempt < 4; attempt++ {
		delay := Backoff(attempt, initial, max)

		base := initial * (1 << uint(attempt))
		low := time.Duration(float64(base) * 0.8)
		high := time.Duration(float64(base) * 1.2)

		if delay < low || delay > high {
			t.Errorf("attempt %d: delay %v outside [%v, %v]", attempt, delay, low, high)
		}
	}
}

func TestBackoff_CappedAtMax(t *testing.T) {
	max := time.Second

	delay := Backoff(20, 100*time.Millisecond, max)

	if delay > time.Duration(float64(max)*1.2) {
		t.Errorf("delay %v exceeds cap with jitter", delay)
	}
}
