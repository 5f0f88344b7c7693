package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the fulfilment status of an order.
type Status string

const (
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// ParseStatus accepts a status name in any letter case.
func ParseStatus(s string) (Status, error) {
	for _, st := range []Status{StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// StatusLookup is the result of a tracking lookup: either a found status or
// nothing. The zero value is NotFound.
type StatusLookup struct {
	status Status
	found  bool
}

// Found wraps a status that exists.
func Found(status Status) StatusLookup {
	return StatusLookup{status: status, found: true}
}

// NotFound is the lookup result for an unknown order.
func NotFound() StatusLookup {
	return StatusLookup{}
}

// Status returns the status and whether the order exists.
func (l StatusLookup) Status() (Status, bool) {
	return l.status, l.found
}

// IsFound reports whether the lookup matched an order.
func (l StatusLookup) IsFound() bool {
	return l.found
}

// Zone selects the delivery surcharge tier.
type Zone string

const (
	ZoneInside  Zone = "inside"
	ZoneOutside Zone = "outside"
)

// ParseZone validates a delivery zone name.
func ParseZone(s string) (Zone, error) {
	switch Zone(strings.ToLower(strings.TrimSpace(s))) {
	case ZoneInside:
		return ZoneInside, nil
	case ZoneOutside:
		return ZoneOutside, nil
	}
	return "", ErrInvalidZone
}

// PaymentMethod is one of the supported ways to pay.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentBKash          PaymentMethod = "bkash"
	PaymentNagad          PaymentMethod = "nagad"
)

// ParsePaymentMethod validates a payment method name.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(s))) {
	case PaymentCashOnDelivery:
		return PaymentCashOnDelivery, nil
	case PaymentBKash:
		return PaymentBKash, nil
	case PaymentNagad:
		return PaymentNagad, nil
	}
	return "", ErrInvalidPaymentMethod
}

// Order represents a placed customer order.
type Order struct {
	ID              uuid.UUID       `json:"id"`
	HumanOrderID    string          `json:"humanOrderId"`
	CustomerID      *uuid.UUID      `json:"customerId,omitempty"`
	CustomerName    string          `json:"customerName"`
	Phone           string          `json:"phone"`
	ShippingAddress string          `json:"shippingAddress"`
	Zone            Zone            `json:"zone"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryCharge  decimal.Decimal `json:"deliveryCharge"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          Status          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderItem represents a line item in an order. PriceAtPurchase is frozen when
// the order is placed and never re-read from the catalogue.
type OrderItem struct {
	ID              uuid.UUID       `json:"-"`
	OrderID         uuid.UUID       `json:"-"`
	ProductID       string          `json:"productId"`
	ProductName     string          `json:"productName"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
}

// ShippingDetails are the checkout form fields.
type ShippingDetails struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Zone    string `json:"zone"`
}

// CheckoutRequest represents the request payload for placing an order.
type CheckoutRequest struct {
	Shipping      ShippingDetails `json:"shipping"`
	PaymentMethod string          `json:"paymentMethod"`
}

// OrderConfirmation is returned after a successful checkout.
type OrderConfirmation struct {
	OrderID      uuid.UUID       `json:"orderId"`
	HumanOrderID string          `json:"humanOrderId"`
	CustomerName string          `json:"customerName"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

// OrderResponse represents the response payload for an order.
type OrderResponse struct {
	Order
	Items []OrderItem `json:"items"`
}

// OrderFilter narrows an admin order listing.
type OrderFilter struct {
	Status *Status
	Limit  int
	Offset int
}

// StatusUpdateRequest is the admin payload for changing an order's status.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// TrackingResponse is the public order tracking payload.
type TrackingResponse struct {
	HumanOrderID string  `json:"humanOrderId"`
	Found        bool    `json:"found"`
	Status       *Status `json:"status,omitempty"`
}

// OrderPage is one page of an admin order listing.
type OrderPage struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}
