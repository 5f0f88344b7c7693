package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fg-storefront/internal/cart"
	"fg-storefront/internal/events"
	"fg-storefront/internal/model"
	"fg-storefront/internal/orderid"
	"fg-storefront/internal/pricing"
	"fg-storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// CheckoutDeps groups the collaborators of the checkout service.
type CheckoutDeps struct {
	Carts      cart.Repository
	Products   repository.ProductRepository
	Orders     repository.OrderRepository
	Customers  repository.CustomerRepository
	Sequences  repository.SequenceRepository
	Publisher  events.Publisher
	Surcharges pricing.Surcharges
	// Locks is shared with the cart service; nil gets a private one.
	Locks *KeyedMutex
}

// checkoutService implements CheckoutService.
//
// Submission is not idempotent: two submissions of the same cart that both
// read it before either clears it place two orders with distinct ids.
type checkoutService struct {
	CheckoutDeps
	now    func() time.Time
	logger zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(deps CheckoutDeps, logger zerolog.Logger) CheckoutService {
	if deps.Publisher == nil {
		deps.Publisher = events.NewNopPublisher()
	}
	if deps.Locks == nil {
		deps.Locks = NewKeyedMutex()
	}
	return &checkoutService{
		CheckoutDeps: deps,
		now:          time.Now,
		logger:       logger.With().Str("service", "checkout").Logger(),
	}
}

// Submit places an order for the session's cart.
func (s *checkoutService) Submit(ctx context.Context, sessionID string, customerID *uuid.UUID, req *model.CheckoutRequest) (*model.OrderConfirmation, error) {
	shipping, zone, method, err := validateCheckout(req)
	if err != nil {
		s.logger.Debug().Err(err).Str("session_id", sessionID).Msg("checkout rejected")
		return nil, err
	}

	store, err := s.Carts.Load(ctx, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if store.IsEmpty() {
		return nil, model.ErrEmptyCart
	}
	ordered := store.Lines()

	products, err := s.Products.GetByIDs(ctx, store.ProductIDs())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load cart products")
		return nil, fmt.Errorf("failed to load cart products: %w", err)
	}

	quote, err := pricing.Resolve(ordered, model.IndexProducts(products), zone, s.Surcharges)
	if err != nil {
		return nil, err
	}
	if quote.IsEmpty() {
		s.logger.Warn().
			Str("session_id", sessionID).
			Strs("missing", quote.Missing).
			Msg("no cart line is still in the catalogue")
		return nil, model.ErrEmptyCart
	}

	customerID, err = s.activeCustomer(ctx, sessionID, customerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrOrderPersistence, err)
	}

	now := s.now().UTC()
	order := &model.Order{
		ID:              uuid.New(),
		CustomerID:      customerID,
		CustomerName:    shipping.Name,
		Phone:           shipping.Phone,
		ShippingAddress: shipping.Address,
		Zone:            zone,
		PaymentMethod:   method,
		Subtotal:        quote.Subtotal,
		DeliveryCharge:  quote.DeliveryCharge,
		TotalAmount:     quote.Total,
		Status:          model.StatusProcessing,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	items := make([]model.OrderItem, len(quote.Lines))
	for i, line := range quote.Lines {
		items[i] = model.OrderItem{
			ID:              uuid.New(),
			OrderID:         order.ID,
			ProductID:       line.ProductID,
			ProductName:     line.Name,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.UnitPrice,
		}
	}

	if err := s.persist(ctx, order, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Str("session_id", sessionID).
			Msg("failed to place order, cart kept")
		return nil, fmt.Errorf("%w: %v", model.ErrOrderPersistence, err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("human_order_id", order.HumanOrderID).
		Int("item_count", len(items)).
		Str("total", order.TotalAmount.String()).
		Msg("order placed")

	// The order is committed; anything failing from here on is only logged.
	if err := s.clearOrdered(ctx, sessionID, ordered); err != nil {
		s.logger.Warn().
			Err(err).
			Str("order_id", order.ID.String()).
			Str("session_id", sessionID).
			Msg("order placed but cart could not be cleared")
	}
	if err := s.Publisher.PublishOrderPlaced(ctx, events.NewOrderPlaced(order, items)); err != nil {
		s.logger.Warn().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("order placed but notification could not be published")
	}

	return &model.OrderConfirmation{
		OrderID:      order.ID,
		HumanOrderID: order.HumanOrderID,
		CustomerName: order.CustomerName,
		TotalAmount:  order.TotalAmount,
	}, nil
}

// clearOrdered takes the ordered lines off the session's cart under its lock,
// so anything added while the order was being placed stays in the cart.
func (s *checkoutService) clearOrdered(ctx context.Context, sessionID string, ordered []cart.Line) error {
	unlock := s.Locks.Lock(sessionID)
	defer unlock()

	current, err := s.Carts.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	current.Subtract(ordered)
	return s.Carts.Save(ctx, sessionID, current)
}

// activeCustomer returns customerID if the account still exists. A session
// pointing at a removed account checks out as a guest.
func (s *checkoutService) activeCustomer(ctx context.Context, sessionID string, customerID *uuid.UUID) (*uuid.UUID, error) {
	if customerID == nil {
		return nil, nil
	}
	customer, err := s.Customers.GetByID(ctx, *customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		s.logger.Warn().
			Str("session_id", sessionID).
			Str("customer_id", customerID.String()).
			Msg("session customer no longer exists, placing guest order")
		return nil, nil
	}
	return customerID, nil
}

// persist writes the order, its items and the customer's stats in one
// transaction. order.HumanOrderID is assigned here.
func (s *checkoutService) persist(ctx context.Context, order *model.Order, items []model.OrderItem) (err error) {
	tx, err := s.Orders.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	seq, err := s.Sequences.Next(ctx, tx, orderid.SequenceKey(order.CreatedAt))
	if err != nil {
		return err
	}
	order.HumanOrderID = orderid.Format(order.CreatedAt, seq)

	if err = s.Orders.CreateOrder(ctx, tx, order); err != nil {
		return err
	}

	if err = s.Orders.CreateOrderItems(ctx, tx, items); err != nil {
		return err
	}

	if order.CustomerID != nil {
		applied, applyErr := s.Customers.ApplyOrder(ctx, tx, *order.CustomerID, order.ID, order.TotalAmount)
		if applyErr != nil {
			err = applyErr
			return err
		}
		if !applied {
			s.logger.Warn().
				Str("order_id", order.ID.String()).
				Str("customer_id", order.CustomerID.String()).
				Msg("customer stats already include this order")
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func validateCheckout(req *model.CheckoutRequest) (model.ShippingDetails, model.Zone, model.PaymentMethod, error) {
	if req == nil {
		return model.ShippingDetails{}, "", "", model.ErrMissingField
	}

	shipping := model.ShippingDetails{
		Name:    strings.TrimSpace(req.Shipping.Name),
		Phone:   strings.TrimSpace(req.Shipping.Phone),
		Address: strings.TrimSpace(req.Shipping.Address),
		Zone:    strings.TrimSpace(req.Shipping.Zone),
	}
	if shipping.Name == "" || shipping.Phone == "" || shipping.Address == "" ||
		shipping.Zone == "" || strings.TrimSpace(req.PaymentMethod) == "" {
		return model.ShippingDetails{}, "", "", model.ErrMissingField
	}

	zone, err := model.ParseZone(shipping.Zone)
	if err != nil {
		return model.ShippingDetails{}, "", "", err
	}

	method, err := model.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return model.ShippingDetails{}, "", "", err
	}

	return shipping, zone, method, nil
}
