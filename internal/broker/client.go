package broker

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// ErrReplyChannelClosed is returned when the broker closes the reply consumer mid-call.
var ErrReplyChannelClosed = errors.New("reply channel closed")

// Client performs request/reply calls over a RabbitMQ connection.
type Client struct {
	conn   *amqp.Connection
	logger zerolog.Logger
}

// NewClient creates a new RPC client on an open connection.
func NewClient(conn *amqp.Connection, logger zerolog.Logger) *Client {
	return &Client{
		conn:   conn,
		logger: logger.With().Str("component", "rpc-client").Logger(),
	}
}

// Call publishes pattern/data to queue and blocks until the matching reply arrives
// or ctx is done. The reply payload is decoded into out.
func (c *Client) Call(ctx context.Context, queue, pattern string, data, out any) error {
	body, err := EncodeRequest(pattern, data)
	if err != nil {
		return err
	}

	// One channel per call keeps concurrent calls isolated on direct reply-to.
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	replies, err := ch.Consume(DirectReplyTo, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume replies: %w", err)
	}

	correlationID := uuid.NewString()

	err = ch.PublishWithContext(ctx,
		"",
		queue,
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			CorrelationId: correlationID,
			ReplyTo:       DirectReplyTo,
			Body:          body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish request: %w", err)
	}

	c.logger.Debug().
		Str("queue", queue).
		Str("pattern", pattern).
		Str("correlation_id", correlationID).
		Msg("request published")

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %s reply: %w", pattern, ctx.Err())
		case d, ok := <-replies:
			if !ok {
				return ErrReplyChannelClosed
			}
			if d.CorrelationId != correlationID {
				continue
			}
			return DecodeReply(d.Body, out)
		}
	}
}
