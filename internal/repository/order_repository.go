package repository

import (
	"context"
	"errors"
	"fmt"

	"fg-storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
)

const orderColumns = `id, human_order_id, customer_id, customer_name, phone, shipping_address,
	zone, payment_method, subtotal, delivery_charge, total_amount, status, created_at, updated_at`

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   DB
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool DB, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

func scanOrder(row pgx.Row) (model.Order, error) {
	var (
		o                        model.Order
		subtotal, charge, amount pgtype.Numeric
	)
	err := row.Scan(
		&o.ID,
		&o.HumanOrderID,
		&o.CustomerID,
		&o.CustomerName,
		&o.Phone,
		&o.ShippingAddress,
		&o.Zone,
		&o.PaymentMethod,
		&subtotal,
		&charge,
		&amount,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return model.Order{}, err
	}
	o.Subtotal = fromNumeric(subtotal)
	o.DeliveryCharge = fromNumeric(charge)
	o.TotalAmount = fromNumeric(amount)
	return o, nil
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := tx.Exec(ctx, query,
		order.ID,
		order.HumanOrderID,
		order.CustomerID,
		order.CustomerName,
		order.Phone,
		order.ShippingAddress,
		order.Zone,
		order.PaymentMethod,
		toNumeric(order.Subtotal),
		toNumeric(order.DeliveryCharge),
		toNumeric(order.TotalAmount),
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Str("human_order_id", order.HumanOrderID).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("human_order_id", order.HumanOrderID).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, product_name, quantity, price_at_purchase)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.ProductName, item.Quantity, toNumeric(item.PriceAtPurchase))
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error) {
	return r.getOne(ctx, "id = $1", id, id.String())
}

// GetByHumanID retrieves an order by its display identifier along with its items.
func (r *orderRepository) GetByHumanID(ctx context.Context, humanOrderID string) (*model.Order, []model.OrderItem, error) {
	return r.getOne(ctx, "human_order_id = $1", humanOrderID, humanOrderID)
}

func (r *orderRepository) getOne(ctx context.Context, where string, arg any, ref string) (*model.Order, []model.OrderItem, error) {
	orderQuery := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE ` + where

	order, err := scanOrder(r.pool.QueryRow(ctx, orderQuery, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_ref", ref).Msg("order not found")
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("order_ref", ref).Msg("failed to query order")
		return nil, nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.getItems(ctx, order.ID)
	if err != nil {
		return nil, nil, err
	}

	return &order, items, nil
}

func (r *orderRepository) getItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	itemsQuery := `
		SELECT id, order_id, product_id, product_name, quantity, price_at_purchase
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_name, id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, orderID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	items := []model.OrderItem{}
	for rows.Next() {
		var (
			item  model.OrderItem
			price pgtype.Numeric
		)
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &price)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		item.PriceAtPurchase = fromNumeric(price)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

// GetStatusByHumanID reads only the status of an order.
func (r *orderRepository) GetStatusByHumanID(ctx context.Context, humanOrderID string) (model.StatusLookup, error) {
	var status model.Status
	err := r.pool.QueryRow(ctx, `SELECT status FROM orders WHERE human_order_id = $1`, humanOrderID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.NotFound(), nil
		}
		r.logger.Error().Err(err).Str("human_order_id", humanOrderID).Msg("failed to query order status")
		return model.NotFound(), fmt.Errorf("failed to query order status: %w", err)
	}
	return model.Found(status), nil
}

// List returns orders newest first together with the total matching count.
func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, int, error) {
	var status string
	if filter.Status != nil {
		status = string(*filter.Status)
	}

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE ($1 = '' OR status = $1)`, status).Scan(&total)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count orders")
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC, human_order_id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, status, filter.Limit, filter.Offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to list orders")
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, 0, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, total, nil
}

// UpdateStatus sets an order's status and returns the order together with
// the status it replaced. The row is locked while the old status is read, so
// concurrent updates each see the status the other one left behind.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) (*model.Order, model.Status, error) {
	query := `
		UPDATE orders o
		SET status = $2, updated_at = NOW()
		FROM (SELECT id, status FROM orders WHERE id = $1 FOR UPDATE) prev
		WHERE o.id = prev.id
		RETURNING o.id, o.human_order_id, o.customer_id, o.customer_name, o.phone, o.shipping_address,
			o.zone, o.payment_method, o.subtotal, o.delivery_charge, o.total_amount, o.status,
			o.created_at, o.updated_at, prev.status`

	var (
		o                        model.Order
		previous                 model.Status
		subtotal, charge, amount pgtype.Numeric
	)
	err := r.pool.QueryRow(ctx, query, id, status).Scan(
		&o.ID,
		&o.HumanOrderID,
		&o.CustomerID,
		&o.CustomerName,
		&o.Phone,
		&o.ShippingAddress,
		&o.Zone,
		&o.PaymentMethod,
		&subtotal,
		&charge,
		&amount,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
		&previous,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return nil, "", fmt.Errorf("failed to update order status: %w", err)
	}
	o.Subtotal = fromNumeric(subtotal)
	o.DeliveryCharge = fromNumeric(charge)
	o.TotalAmount = fromNumeric(amount)

	r.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(previous)).
		Str("status", string(status)).
		Msg("order status updated")

	return &o, previous, nil
}
