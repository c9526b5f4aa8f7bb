package queue

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gmviana11/fornecedor-conecta/internal/config"
)

const (
	readCount            = 10
	readBlock            = 5 * time.Second
	retryBackoff         = 2 * time.Second
	defaultClaimInterval = 30 * time.Second
)

// ErrUnprocessable marks a handler failure that no retry can fix, such as
// an undecodable message. Such messages are dead-lettered and acked at once.
var ErrUnprocessable = errors.New("queue: unprocessable message")

type MessageHandler interface {
	Handle(ctx context.Context, msg redis.XMessage) error
}

// Consumer reads the marketplace event stream as a member of a consumer
// group. Messages are acked only after the handler succeeds; entries left
// pending longer than minIdle are claimed and retried until they have been
// delivered maxDeliveries times, after which they go to the dead-letter
// stream.
type Consumer struct {
	client        redis.Cmdable
	stream        string
	group         string
	consumer      string
	claimInterval time.Duration
	minIdle       time.Duration
	maxDeliveries int64
	deadStream    string
	logger        zerolog.Logger
	handler       MessageHandler
}

func NewConsumer(client redis.Cmdable, cfg config.RedisConfig, logger zerolog.Logger, handler MessageHandler) *Consumer {
	claimInterval := cfg.ClaimInterval
	if claimInterval <= 0 {
		claimInterval = defaultClaimInterval
	}
	return &Consumer{
		client:        client,
		stream:        cfg.Stream,
		group:         cfg.Group,
		consumer:      cfg.Consumer,
		claimInterval: claimInterval,
		minIdle:       cfg.ClaimMinIdle,
		maxDeliveries: cfg.MaxDeliveries,
		deadStream:    cfg.DeadLetterStream,
		logger:        logger.With().Str("stream", cfg.Stream).Str("group", cfg.Group).Logger(),
		handler:       handler,
	}
}

// EnsureGroup creates the stream and consumer group when missing.
func (c *Consumer) EnsureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	if err := c.EnsureGroup(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(c.claimInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := c.read(ctx); err != nil && ctx.Err() == nil {
				c.logger.Error().Err(err).Msg("stream read error")
				sleep(ctx, retryBackoff)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := c.claimStalled(ctx); err != nil && ctx.Err() == nil {
				c.logger.Error().Err(err).Msg("claim stalled error")
			}
		default:
		}
	}
}

func (c *Consumer) read(ctx context.Context) error {
	result, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.group,
		Consumer: c.consumer,
		Streams:  []string{c.stream, ">"},
		Count:    readCount,
		Block:    readBlock,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	for _, stream := range result {
		for _, msg := range stream.Messages {
			c.process(ctx, msg)
		}
	}
	return nil
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	err := c.handler.Handle(ctx, msg)
	switch {
	case err == nil:
		c.ack(ctx, msg.ID)
	case errors.Is(err, ErrUnprocessable):
		c.deadLetter(ctx, msg, err)
	default:
		c.logger.Error().
			Err(err).
			Str("message_id", msg.ID).
			Msg("handle message failed")
	}
}

func (c *Consumer) ack(ctx context.Context, id string) {
	if err := c.client.XAck(ctx, c.stream, c.group, id).Err(); err != nil {
		c.logger.Error().Err(err).Str("message_id", id).Msg("ack failed")
	}
}

// deadLetter copies msg to the dead-letter stream, when one is configured,
// and acks it. If the copy fails the message stays pending.
func (c *Consumer) deadLetter(ctx context.Context, msg redis.XMessage, cause error) {
	if c.deadStream != "" {
		values := make(map[string]any, len(msg.Values)+3)
		for k, v := range msg.Values {
			values[k] = v
		}
		values["dead_error"] = cause.Error()
		values["dead_source_id"] = msg.ID
		values["dead_source_stream"] = c.stream
		if err := c.client.XAdd(ctx, &redis.XAddArgs{Stream: c.deadStream, Values: values}).Err(); err != nil {
			c.logger.Error().Err(err).Str("message_id", msg.ID).Msg("dead-letter failed")
			return
		}
	}
	c.logger.Warn().
		Err(cause).
		Str("message_id", msg.ID).
		Str("dead_stream", c.deadStream).
		Msg("message dead-lettered")
	c.ack(ctx, msg.ID)
}

func (c *Consumer) claimStalled(ctx context.Context) error {
	pending, err := c.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: c.stream,
		Group:  c.group,
		Idle:   c.minIdle,
		Start:  "-",
		End:    "+",
		Count:  readCount,
	}).Result()
	if err != nil {
		return err
	}

	for _, entry := range pending {
		msgs, err := c.client.XClaim(ctx, &redis.XClaimArgs{
			Stream:   c.stream,
			Group:    c.group,
			Consumer: c.consumer,
			MinIdle:  c.minIdle,
			Messages: []string{entry.ID},
		}).Result()
		if err != nil {
			c.logger.Error().Err(err).Str("message_id", entry.ID).Msg("claim error")
			continue
		}
		if len(msgs) == 0 {
			// trimmed from the stream; nothing left to retry
			c.ack(ctx, entry.ID)
			continue
		}

		exhausted := c.maxDeliveries > 0 && entry.RetryCount >= c.maxDeliveries
		for _, msg := range msgs {
			if exhausted {
				c.deadLetter(ctx, msg, errors.New("delivery limit reached"))
				continue
			}
			c.logger.Warn().Str("message_id", msg.ID).Int64("deliveries", entry.RetryCount).Msg("retrying stalled message")
			c.process(ctx, msg)
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
