package safety

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"github.com/veritas-labs/safety-agent/internal/models"
)

// EventLog is the append-only safety event history. It is owned by
// exactly one Manager and is the only mutable shared state in the
// control plane; appends are mutex-serialized so concurrent query
// processing stays safe. Events are never mutated after creation.
type EventLog struct {
	mu     sync.Mutex
	events []models.SafetyEvent
	sink   io.Writer
	logger *zerolog.Logger
}

// NewEventLog builds a log. sink may be nil; when set, every event is
// mirrored to it as one JSON object per line.
func NewEventLog(sink io.Writer, logger *zerolog.Logger) *EventLog {
	return &EventLog{
		sink:   sink,
		logger: logger,
	}
}

func (l *EventLog) Append(event models.SafetyEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, event)

	if l.sink == nil {
		return
	}

	line, err := json.Marshal(event)
	if err != nil {
		l.logger.Error().Err(err).Msg("failed to encode safety event")
		return
	}
	if _, err := l.sink.Write(append(line, '\n')); err != nil {
		l.logger.Error().Err(err).Msg("failed to write safety event to sink")
	}
}

// Events returns a copy of the last limit events in append order.
// limit <= 0 returns everything.
func (l *EventLog) Events(limit int) []models.SafetyEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := 0
	if limit > 0 && len(l.events) > limit {
		start = len(l.events) - limit
	}

	out := make([]models.SafetyEvent, len(l.events)-start)
	copy(out, l.events[start:])
	return out
}

func (l *EventLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

func (l *EventLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}
