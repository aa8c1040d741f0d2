// Package broker implements request/reply messaging over RabbitMQ.
//
// Requests are JSON envelopes {"pattern": ..., "data": ...} published to a named
// queue with a correlation ID and a reply-to address. Replies carry either
// {"data": ...} or {"error": {"status": ..., "message": ...}}.
package broker

import (
	"encoding/json"
	"fmt"
	"net/url"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// DirectReplyTo is RabbitMQ's pseudo-queue for replies without a declared queue.
const DirectReplyTo = "amq.rabbitmq.reply-to"

// Request is the envelope of an RPC request.
type Request struct {
	Pattern string          `json:"pattern"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Reply is the envelope of an RPC reply.
type Reply struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Error *ReplyError     `json:"error,omitempty"`
}

// ReplyError is an error reported by the remote side of a call.
type ReplyError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *ReplyError) Error() string {
	return fmt.Sprintf("remote error (status %d): %s", e.Status, e.Message)
}

// Dial connects to the first reachable broker in urls.
func Dial(urls []string, logger zerolog.Logger) (*amqp.Connection, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("no broker URLs configured")
	}

	var lastErr error
	for _, raw := range urls {
		conn, err := amqp.Dial(raw)
		if err != nil {
			logger.Warn().
				Err(err).
				Str("broker", redact(raw)).
				Msg("failed to connect to broker, trying next")
			lastErr = err
			continue
		}

		logger.Info().Str("broker", redact(raw)).Msg("connected to broker")
		return conn, nil
	}

	return nil, fmt.Errorf("failed to connect to any broker: %w", lastErr)
}

// EncodeRequest builds a request envelope for pattern with data as payload.
func EncodeRequest(pattern string, data any) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request data: %w", err)
	}
	return json.Marshal(Request{Pattern: pattern, Data: payload})
}

// EncodeReply builds a successful reply envelope.
func EncodeReply(data any) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode reply data: %w", err)
	}
	return json.Marshal(Reply{Data: payload})
}

// EncodeErrorReply builds an error reply envelope.
func EncodeErrorReply(status int, message string) ([]byte, error) {
	return json.Marshal(Reply{Error: &ReplyError{Status: status, Message: message}})
}

// DecodeReply unpacks a reply envelope into out. A remote error is returned as *ReplyError.
func DecodeReply(body []byte, out any) error {
	var reply Reply
	if err := json.Unmarshal(body, &reply); err != nil {
		return fmt.Errorf("failed to decode reply: %w", err)
	}

	if reply.Error != nil {
		return reply.Error
	}

	if out == nil || len(reply.Data) == 0 {
		return nil
	}

	if err := json.Unmarshal(reply.Data, out); err != nil {
		return fmt.Errorf("failed to decode reply data: %w", err)
	}
	return nil
}

func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Redacted()
}
