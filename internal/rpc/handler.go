// Package rpc exposes the order workflow as message patterns served over the broker.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"orders-ms/internal/model"
	"orders-ms/internal/service"
	"orders-ms/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Message patterns served on the orders queue.
const (
	PatternCreateOrder       = "create_order"
	PatternFindAllOrders     = "find_all_orders"
	PatternFindOneOrder      = "find_one_order"
	PatternChangeOrderStatus = "change_order_status"
)

const errCodeUnknownPattern = "UNKNOWN_PATTERN"

// findOneRequest is the payload of find_one_order.
type findOneRequest struct {
	ID string `json:"id" validate:"required,uuid"`
}

// OrderHandler dispatches broker requests to the order service.
type OrderHandler struct {
	service   service.OrderService
	validator *validation.Validator
	logger    zerolog.Logger
}

// NewOrderHandler creates a new RPC order handler.
func NewOrderHandler(service service.OrderService, validator *validation.Validator, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("handler", "order-rpc").Logger(),
	}
}

// Handle answers one request for pattern. It satisfies broker.HandlerFunc.
func (h *OrderHandler) Handle(ctx context.Context, pattern string, data json.RawMessage) (any, error) {
	h.logger.Debug().Str("pattern", pattern).Msg("rpc request")

	switch pattern {
	case PatternCreateOrder:
		var req model.CreateOrderRequest
		if err := h.decode(data, &req); err != nil {
			return nil, err
		}
		return h.service.Create(ctx, &req)

	case PatternFindAllOrders:
		var query model.OrderQuery
		if len(data) > 0 && string(data) != "null" {
			if err := h.decode(data, &query); err != nil {
				return nil, err
			}
		} else if err := h.validator.Struct(&query); err != nil {
			return nil, err
		}
		return h.service.FindAll(ctx, &query)

	case PatternFindOneOrder:
		var req findOneRequest
		if err := h.decode(data, &req); err != nil {
			return nil, err
		}
		return h.service.FindOne(ctx, uuid.MustParse(req.ID))

	case PatternChangeOrderStatus:
		var req model.ChangeOrderStatusRequest
		if err := h.decode(data, &req); err != nil {
			return nil, err
		}
		return h.service.ChangeStatus(ctx, uuid.MustParse(req.ID), req.Status)

	default:
		return nil, model.NewDomainError(http.StatusNotFound, errCodeUnknownPattern,
			fmt.Sprintf("no handler for pattern %q", pattern))
	}
}

// decode unmarshals and validates a request payload.
func (h *OrderHandler) decode(data json.RawMessage, dst any) error {
	if len(data) == 0 {
		return model.NewDomainError(http.StatusBadRequest, model.ErrCodeInvalidJSON, "request data is required")
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return model.NewDomainError(http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request data")
	}
	return h.validator.Struct(dst)
}

// MapError converts a handler error into the status and message of an error reply.
// It satisfies broker.ErrorMapper.
func MapError(err error) (int, string) {
	domainErr := model.AsDomainError(err)
	return domainErr.Status, domainErr.Message
}
