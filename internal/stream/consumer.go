// Package stream consumes queries from a message stream and feeds
// them through the safety pipeline.
package stream

import "context"

type StreamConsumer interface {
	Setup(ctx context.Context) error
	Start(ctx context.Context) error
	Stop() error
}
