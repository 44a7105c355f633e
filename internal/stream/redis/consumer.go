package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/veritas-labs/safety-agent/internal/models"
)

// QueryProcessor is the pipeline surface the consumer drives.
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, query, groundTruth string) (models.QueryResult, error)
}

// queryMessage is the payload shape producers put on the stream.
type queryMessage struct {
	ID          string `json:"id,omitempty"`
	Query       string `json:"query"`
	GroundTruth string `json:"ground_truth,omitempty"`
}

type Consumer struct {
	client        *redis.Client
	stream        string
	groupID       string
	consumerName  string
	resultsStream string
	pipeline      QueryProcessor
	logger        *zerolog.Logger
}

func NewConsumer(client *redis.Client, stream string, groupID string, consumerName string, resultsStream string, pipeline QueryProcessor, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:        client,
		stream:        stream,
		groupID:       groupID,
		consumerName:  consumerName,
		resultsStream: resultsStream,
		pipeline:      pipeline,
		logger:        logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// timeout, no message -> loop again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err() // context cancelled during block
			}

			c.logger.Error().Err(err).Msg("failed to read from stream")
			continue
		}

		for _, msg := range msgs[0].Messages {
			c.process(ctx, msg)
		}
	}
}

func (c *Consumer) Stop() error {
	// No-op
	return nil
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("message received")

	payload, ok := msg.Values["payload"].(string)
	if !ok {
		c.logger.Error().Str("id", msg.ID).Msg("missing payload field")
		c.ack(ctx, msg.ID)
		return
	}

	var message queryMessage
	if err := json.Unmarshal([]byte(payload), &message); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("failed to decode message")
		c.ack(ctx, msg.ID) // bad message — ACK to skip it
		return
	}

	if message.Query == "" {
		c.logger.Error().Str("id", msg.ID).Msg("empty query in message")
		c.ack(ctx, msg.ID)
		return
	}

	result, err := c.pipeline.ProcessQuery(ctx, message.Query, message.GroundTruth)
	if err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("query processing failed")
		c.ack(ctx, msg.ID)
		return
	}

	c.logger.Info().
		Str("id", msg.ID).
		Str("request_id", result.RequestID).
		Str("action", string(result.Action)).
		Int("violations", len(result.Violations)).
		Msg("query processed")

	c.publish(ctx, message.ID, result)
	c.ack(ctx, msg.ID)
}

// publish pushes the result onto the results stream when one is
// configured. A publish failure is logged, not retried: the message is
// still ACKed so it cannot wedge the group.
func (c *Consumer) publish(ctx context.Context, requestID string, result models.QueryResult) {
	if c.resultsStream == "" {
		return
	}

	if requestID == "" {
		requestID = result.RequestID
	}

	payload, err := json.Marshal(result)
	if err != nil {
		c.logger.Error().Err(err).Str("request_id", requestID).Msg("failed to encode result")
		return
	}

	err = c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.resultsStream,
		Values: map[string]interface{}{
			"request_id": requestID,
			"payload":    string(payload),
		},
	}).Err()
	if err != nil {
		c.logger.Error().Err(err).Str("request_id", requestID).Msg("failed to publish result")
	}
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("failed to ACK message")
	}
}
