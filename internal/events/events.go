package events

import (
	"context"
	"time"

	"orders-ms/internal/model"

	"github.com/shopspring/decimal"
)

// Event types, also carried in the "type" message header.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// Event is the envelope written to the events topic. Key is the order ID.
type Event struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// OrderItem is a priced line item inside an OrderCreated payload.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// OrderCreated is the payload of an order.created event.
type OrderCreated struct {
	TotalAmount decimal.Decimal   `json:"total_amount"`
	TotalItems  int               `json:"total_items"`
	Status      model.OrderStatus `json:"status"`
	Items       []OrderItem       `json:"items"`
}

// OrderStatusChanged is the payload of an order.status_changed event.
type OrderStatusChanged struct {
	From model.OrderStatus `json:"from"`
	To   model.OrderStatus `json:"to"`
}

// Publisher emits order lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NewOrderCreated builds the event emitted after an order is committed.
func NewOrderCreated(order *model.Order) Event {
	items := make([]OrderItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	return Event{
		Type:       EventOrderCreated,
		OrderID:    order.ID.String(),
		OccurredAt: order.CreatedAt,
		Payload: OrderCreated{
			TotalAmount: order.TotalAmount,
			TotalItems:  order.TotalItems,
			Status:      order.Status,
			Items:       items,
		},
	}
}

// NewOrderStatusChanged builds the event emitted after a status update.
func NewOrderStatusChanged(order *model.Order, from model.OrderStatus) Event {
	return Event{
		Type:       EventOrderStatusChanged,
		OrderID:    order.ID.String(),
		OccurredAt: order.UpdatedAt,
		Payload: OrderStatusChanged{
			From: from,
			To:   order.Status,
		},
	}
}

type nopPublisher struct{}

// NewNopPublisher returns a Publisher that drops every event.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, Event) error { return nil }

func (nopPublisher) Close() error { return nil }
