package service

import (
	"context"

	"fg-storefront/internal/model"
	"fg-storefront/internal/pricing"

	"github.com/google/uuid"
)

// ProductService defines operations for catalogue browsing and administration.
type ProductService interface {
	// GetAll retrieves products with pagination, optionally for one category.
	GetAll(ctx context.Context, limit, offset int, category string) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Create adds a product to the catalogue.
	Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error)

	// Update replaces an existing product.
	Update(ctx context.Context, id string, req *model.ProductRequest) (*model.Product, error)

	// Delete removes a product. Orders already placed are unaffected.
	Delete(ctx context.Context, id string) error
}

// CartView is a cart as shown to the shopper: priced lines and totals.
type CartView struct {
	pricing.Quote
	ItemCount int `json:"itemCount"`
}

// CartService defines operations on a visitor's cart.
type CartService interface {
	// View prices the cart for zone.
	View(ctx context.Context, sessionID string, zone model.Zone) (*CartView, error)

	// AddItem adds quantity of a product, merging with any existing line.
	AddItem(ctx context.Context, sessionID, productID string, quantity int, zone model.Zone) (*CartView, error)

	// UpdateItem sets a line's quantity. Zero or less removes the line.
	UpdateItem(ctx context.Context, sessionID, productID string, quantity int, zone model.Zone) (*CartView, error)

	// RemoveItem drops a line.
	RemoveItem(ctx context.Context, sessionID, productID string, zone model.Zone) (*CartView, error)

	// Clear empties the cart.
	Clear(ctx context.Context, sessionID string) error

	// Transfer merges the cart held under one session id into another's and
	// drops the source, e.g. when sign-in rotates the session id.
	Transfer(ctx context.Context, fromSessionID, toSessionID string) error
}

// CheckoutService turns a cart into an order.
type CheckoutService interface {
	// Submit places an order for the session's cart. customerID is nil for
	// guest checkout.
	Submit(ctx context.Context, sessionID string, customerID *uuid.UUID, req *model.CheckoutRequest) (*model.OrderConfirmation, error)
}

// OrderService defines operations for order tracking and administration.
type OrderService interface {
	// LookupStatus reports the status of an order by its display id.
	LookupStatus(ctx context.Context, humanOrderID string) (model.StatusLookup, error)

	// GetByID retrieves an order with its items. Returns nil if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)

	// GetByHumanID retrieves an order with its items by display id. Returns nil if absent.
	GetByHumanID(ctx context.Context, humanOrderID string) (*model.OrderResponse, error)

	// List returns a page of orders, newest first.
	List(ctx context.Context, filter model.OrderFilter) (*model.OrderPage, error)

	// UpdateStatus moves an order to status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Order, error)
}

// CustomerService defines account operations.
type CustomerService interface {
	// Register creates an account.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.Customer, error)

	// Authenticate checks an email and password pair.
	Authenticate(ctx context.Context, req *model.LoginRequest) (*model.Customer, error)

	// Profile returns the customer with their order ids.
	Profile(ctx context.Context, id uuid.UUID) (*model.CustomerProfile, error)
}
