package repository

import (
	"context"

	"fg-storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves products with pagination, optionally limited to one category.
	GetAll(ctx context.Context, limit, offset int, category string) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil if absent.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves the products that exist among ids.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// Create inserts a new product. Returns model.ErrProductExists on a duplicate id.
	Create(ctx context.Context, product *model.Product) error

	// Update overwrites a product. Reports false when the product does not exist.
	Update(ctx context.Context, product *model.Product) (bool, error)

	// Delete removes a product. Reports false when the product does not exist.
	Delete(ctx context.Context, id string) (bool, error)

	// Upsert inserts or replaces products in a single batch.
	Upsert(ctx context.Context, products []model.Product) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// GetByHumanID retrieves an order by its display identifier along with its items.
	GetByHumanID(ctx context.Context, humanOrderID string) (*model.Order, []model.OrderItem, error)

	// GetStatusByHumanID reads only the status of an order.
	GetStatusByHumanID(ctx context.Context, humanOrderID string) (model.StatusLookup, error)

	// List returns orders newest first together with the total matching count.
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, int, error)

	// UpdateStatus sets an order's status and reports the status it replaced,
	// read under the same row lock. Returns a nil order when it does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) (*model.Order, model.Status, error)
}

// CustomerRepository defines the interface for customer data access operations.
type CustomerRepository interface {
	// Create inserts a customer. Returns model.ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, customer *model.Customer) error

	// GetByEmail retrieves a customer by email. Returns nil if absent.
	GetByEmail(ctx context.Context, email string) (*model.Customer, error)

	// GetByID retrieves a customer by id. Returns nil if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)

	// ApplyOrder records orderID against the customer and bumps their order
	// count and spend. Applying the same order twice changes nothing and
	// reports false.
	ApplyOrder(ctx context.Context, tx pgx.Tx, customerID, orderID uuid.UUID, amount decimal.Decimal) (bool, error)

	// ListOrderIDs returns the customer's order ids, oldest first.
	ListOrderIDs(ctx context.Context, customerID uuid.UUID) ([]uuid.UUID, error)
}

// SequenceRepository hands out monotonically increasing numbers per key.
type SequenceRepository interface {
	// Next returns the next number for key, starting at 1.
	Next(ctx context.Context, tx pgx.Tx, key string) (int64, error)
}
