package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fg-storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const customerColumns = `id, name, email, phone, password_hash, total_orders, total_spent, created_at`

type customerRepository struct {
	pool   DB
	logger zerolog.Logger
}

// NewCustomerRepository creates a new PostgreSQL-backed customer repository.
func NewCustomerRepository(pool DB, logger zerolog.Logger) CustomerRepository {
	return &customerRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "customer").Logger(),
	}
}

func scanCustomer(row pgx.Row) (model.Customer, error) {
	var (
		c     model.Customer
		spent pgtype.Numeric
	)
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.PasswordHash, &c.TotalOrders, &spent, &c.CreatedAt)
	if err != nil {
		return model.Customer{}, err
	}
	c.TotalSpent = fromNumeric(spent)
	return c, nil
}

// Create inserts a customer. Emails are stored lower-cased.
func (r *customerRepository) Create(ctx context.Context, c *model.Customer) error {
	c.Email = strings.ToLower(c.Email)

	query := `
		INSERT INTO customers (id, name, email, phone, password_hash, total_orders, total_spent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, c.PasswordHash, c.TotalOrders, toNumeric(c.TotalSpent), c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrEmailTaken
		}
		r.logger.Error().Err(err).Str("customer_id", c.ID.String()).Msg("failed to create customer")
		return fmt.Errorf("failed to create customer: %w", err)
	}

	r.logger.Debug().Str("customer_id", c.ID.String()).Msg("customer created successfully")
	return nil
}

// GetByEmail retrieves a customer by email.
func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email = $1`

	c, err := scanCustomer(r.pool.QueryRow(ctx, query, strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query customer by email")
		return nil, fmt.Errorf("failed to query customer: %w", err)
	}
	return &c, nil
}

// GetByID retrieves a customer by id.
func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	c, err := scanCustomer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("customer_id", id.String()).Msg("failed to query customer")
		return nil, fmt.Errorf("failed to query customer: %w", err)
	}
	return &c, nil
}

// ApplyOrder links an order to a customer and bumps their totals. The link
// table is the ledger: totals only move when a new link row is written.
func (r *customerRepository) ApplyOrder(ctx context.Context, tx pgx.Tx, customerID, orderID uuid.UUID, amount decimal.Decimal) (bool, error) {
	tag, err := tx.Exec(ctx, `
		INSERT INTO customer_orders (customer_id, order_id)
		VALUES ($1, $2)
		ON CONFLICT (customer_id, order_id) DO NOTHING
	`, customerID, orderID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("customer_id", customerID.String()).
			Str("order_id", orderID.String()).
			Msg("failed to link order to customer")
		return false, fmt.Errorf("failed to link order to customer: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().
			Str("customer_id", customerID.String()).
			Str("order_id", orderID.String()).
			Msg("order already applied to customer")
		return false, nil
	}

	tag, err = tx.Exec(ctx, `
		UPDATE customers
		SET total_orders = total_orders + 1, total_spent = total_spent + $2
		WHERE id = $1
	`, customerID, toNumeric(amount))
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID.String()).Msg("failed to update customer totals")
		return false, fmt.Errorf("failed to update customer totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, fmt.Errorf("customer %s not found", customerID)
	}

	return true, nil
}

// ListOrderIDs returns the customer's order ids, oldest first.
func (r *customerRepository) ListOrderIDs(ctx context.Context, customerID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT order_id FROM customer_orders
		WHERE customer_id = $1
		ORDER BY created_at, order_id
	`, customerID)
	if err != nil {
		r.logger.Error().Err(err).Str("customer_id", customerID.String()).Msg("failed to query customer orders")
		return nil, fmt.Errorf("failed to query customer orders: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan customer order: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer orders: %w", err)
	}
	return ids, nil
}
