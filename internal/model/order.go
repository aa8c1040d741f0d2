package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// OrderStatuses is the fixed set of legal order statuses.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusPaid,
	StatusDelivered,
	StatusCancelled,
}

// Valid reports whether s is one of OrderStatuses.
func (s OrderStatus) Valid() bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts a raw value into an OrderStatus, rejecting unknown values.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(raw)
	if !status.Valid() {
		return "", fmt.Errorf("status must be one of the following: %s", StatusList())
	}
	return status, nil
}

// StatusList returns the legal statuses joined for use in messages.
func StatusList() string {
	names := make([]string, len(OrderStatuses))
	for i, status := range OrderStatuses {
		names[i] = string(status)
	}
	return strings.Join(names, ", ")
}

// Order represents a purchase order together with its line items.
type Order struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	TotalAmount decimal.Decimal `json:"totalAmount" db:"total_amount"`
	TotalItems  int             `json:"totalItems" db:"total_items"`
	Status      OrderStatus     `json:"status" db:"status"`
	Paid        bool            `json:"paid" db:"paid"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
	Items       []OrderItem     `json:"items,omitempty" db:"-"`
}

// PriceScale is the number of decimal places money is stored with.
const PriceScale = 2

// Money is written to JSON as a number.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// OrderItem represents a line item in an order. Price is the catalogue price at purchase time.
type OrderItem struct {
	ID        uuid.UUID       `json:"-" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID string          `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Name      string          `json:"name,omitempty" db:"-"`
}

// ProductIDs returns the distinct product IDs referenced by the items, in first-seen order.
func ProductIDs(items []OrderItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	return distinct(ids)
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// CreateOrderRequest represents the request payload for creating an order.
// Totals are always computed server-side and are not part of the payload.
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderItemRequest represents a single item in an order request.
type OrderItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

// ProductIDs returns the distinct product IDs referenced by the request, in first-seen order.
func (r *CreateOrderRequest) ProductIDs() []string {
	ids := make([]string, len(r.Items))
	for i, item := range r.Items {
		ids[i] = item.ProductID
	}
	return distinct(ids)
}

// ChangeOrderStatusRequest represents the request payload for a status transition.
type ChangeOrderStatusRequest struct {
	ID     string      `json:"id" validate:"required,uuid"`
	Status OrderStatus `json:"status" validate:"required,orderstatus"`
}
