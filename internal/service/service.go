package service

import (
	"context"

	"orders-ms/internal/model"

	"github.com/google/uuid"
)

// OrderService defines the order workflow. Every returned error is a *model.DomainError.
type OrderService interface {
	// Create prices the requested items against the product catalogue and
	// persists the order and its items atomically.
	Create(ctx context.Context, req *model.CreateOrderRequest) (*model.Order, error)

	// FindAll returns one page of orders, newest first, optionally filtered by status.
	FindAll(ctx context.Context, query *model.OrderQuery) (*model.OrderPage, error)

	// FindOne retrieves an order with its items and their product names.
	FindOne(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ChangeStatus sets the status of an order. Setting the current status is a no-op.
	ChangeStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)
}
