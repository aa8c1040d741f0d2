package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// HandlerFunc answers one request. A returned error is converted with the server's ErrorMapper.
type HandlerFunc func(ctx context.Context, pattern string, data json.RawMessage) (any, error)

// ErrorMapper turns a handler error into the status and message sent to the caller.
type ErrorMapper func(err error) (status int, message string)

// Server consumes requests from a queue and publishes replies.
type Server struct {
	conn     *amqp.Connection
	queue    string
	handler  HandlerFunc
	mapError ErrorMapper
	logger   zerolog.Logger
}

// NewServer creates a new RPC server for queue.
func NewServer(conn *amqp.Connection, queue string, handler HandlerFunc, mapError ErrorMapper, logger zerolog.Logger) *Server {
	return &Server{
		conn:     conn,
		queue:    queue,
		handler:  handler,
		mapError: mapError,
		logger:   logger.With().Str("component", "rpc-server").Str("queue", queue).Logger(),
	}
}

// Serve processes requests until ctx is cancelled or the delivery channel closes.
func (s *Server) Serve(ctx context.Context) error {
	ch, err := s.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(s.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err = ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(s.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume: %w", err)
	}

	s.logger.Info().Msg("RPC server started, waiting for requests")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("RPC server stopping")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			s.handleDelivery(ctx, ch, d)
		}
	}
}

func (s *Server) handleDelivery(ctx context.Context, ch *amqp.Channel, d amqp.Delivery) {
	reply := s.Dispatch(ctx, d.Body)

	if d.ReplyTo != "" {
		err := ch.PublishWithContext(ctx,
			"",
			d.ReplyTo,
			false,
			false,
			amqp.Publishing{
				ContentType:   "application/json",
				CorrelationId: d.CorrelationId,
				Body:          reply,
			},
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("correlation_id", d.CorrelationId).
				Msg("failed to publish reply")
			_ = d.Nack(false, true)
			return
		}
	}

	_ = d.Ack(false)
}

// Dispatch decodes a raw request, runs the handler and returns the encoded reply.
func (s *Server) Dispatch(ctx context.Context, body []byte) []byte {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil || req.Pattern == "" {
		s.logger.Warn().Err(err).Msg("invalid request envelope")
		return s.errorReply(http.StatusBadRequest, "invalid request envelope")
	}

	result, err := s.handler(ctx, req.Pattern, req.Data)
	if err != nil {
		status, message := s.mapError(err)
		s.logger.Debug().
			Err(err).
			Str("pattern", req.Pattern).
			Int("status", status).
			Msg("request failed")
		return s.errorReply(status, message)
	}

	reply, err := EncodeReply(result)
	if err != nil {
		s.logger.Error().Err(err).Str("pattern", req.Pattern).Msg("failed to encode reply")
		return s.errorReply(http.StatusInternalServerError, "internal server error")
	}
	return reply
}

func (s *Server) errorReply(status int, message string) []byte {
	reply, _ := EncodeErrorReply(status, message)
	return reply
}
