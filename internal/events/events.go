// Package events publishes order lifecycle notifications for the admin panel
// and any other interested consumers.
package events

import (
	"context"
	"time"

	"fg-storefront/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	Exchange = "storefront.events"

	OrderPlacedRoutingKey        = "order.placed.v1"
	OrderStatusChangedRoutingKey = "order.status_changed.v1"

	producer = "fg-storefront"
)

// Publisher emits order events. Implementations must be safe for concurrent use.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, ev OrderPlaced) error
	PublishOrderStatusChanged(ctx context.Context, ev OrderStatusChanged) error
	Close() error
}

// Envelope is the wire wrapper shared by every event.
type Envelope[T any] struct {
	EventName    string    `json:"eventName"`
	EventVersion int       `json:"eventVersion"`
	EventID      string    `json:"eventId"`
	Producer     string    `json:"producer"`
	PartitionKey string    `json:"partitionKey"`
	OccurredAt   time.Time `json:"occurredAt"`
	Payload      T         `json:"payload"`
}

func newEnvelope[T any](name, partitionKey string, payload T) Envelope[T] {
	return Envelope[T]{
		EventName:    name,
		EventVersion: 1,
		EventID:      uuid.NewString(),
		Producer:     producer,
		PartitionKey: partitionKey,
		OccurredAt:   time.Now().UTC(),
		Payload:      payload,
	}
}

// OrderPlaced is emitted once an order has been committed.
type OrderPlaced struct {
	OrderID       uuid.UUID           `json:"orderId"`
	HumanOrderID  string              `json:"humanOrderId"`
	CustomerID    *uuid.UUID          `json:"customerId,omitempty"`
	CustomerName  string              `json:"customerName"`
	Zone          model.Zone          `json:"zone"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	ItemCount     int                 `json:"itemCount"`
}

// NewOrderPlaced builds the event for a freshly committed order.
func NewOrderPlaced(o *model.Order, items []model.OrderItem) OrderPlaced {
	count := 0
	for _, it := range items {
		count += it.Quantity
	}
	return OrderPlaced{
		OrderID:       o.ID,
		HumanOrderID:  o.HumanOrderID,
		CustomerID:    o.CustomerID,
		CustomerName:  o.CustomerName,
		Zone:          o.Zone,
		PaymentMethod: o.PaymentMethod,
		TotalAmount:   o.TotalAmount,
		ItemCount:     count,
	}
}

// OrderStatusChanged is emitted when an admin moves an order to a new status.
type OrderStatusChanged struct {
	OrderID      uuid.UUID    `json:"orderId"`
	HumanOrderID string       `json:"humanOrderId"`
	From         model.Status `json:"from"`
	To           model.Status `json:"to"`
}

type nopPublisher struct{}

// NewNopPublisher returns a Publisher that drops every event.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }

func (nopPublisher) PublishOrderStatusChanged(context.Context, OrderStatusChanged) error {
	return nil
}

func (nopPublisher) Close() error { return nil }
