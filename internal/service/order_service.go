package service

import (
	"context"
	"fmt"
	"strings"

	"fg-storefront/internal/events"
	"fg-storefront/internal/model"
	"fg-storefront/internal/orderid"
	"fg-storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultOrderPageSize = 20
	maxOrderPageSize     = 100
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	publisher events.Publisher,
	logger zerolog.Logger,
) OrderService {
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}
	return &orderService{
		orderRepo: orderRepo,
		publisher: publisher,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// LookupStatus reports the status of an order by its display id. Ids that
// cannot exist are answered without touching the store.
func (s *orderService) LookupStatus(ctx context.Context, humanOrderID string) (model.StatusLookup, error) {
	humanOrderID = strings.ToUpper(strings.TrimSpace(humanOrderID))
	if !orderid.Valid(humanOrderID) {
		return model.NotFound(), nil
	}

	lookup, err := s.orderRepo.GetStatusByHumanID(ctx, humanOrderID)
	if err != nil {
		s.logger.Error().Err(err).Str("human_order_id", humanOrderID).Msg("failed to look up order status")
		return model.NotFound(), fmt.Errorf("failed to look up order status: %w", err)
	}
	return lookup, nil
}

// GetByID retrieves an order by its ID with all items.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, nil
	}

	return &model.OrderResponse{Order: *order, Items: items}, nil
}

// GetByHumanID retrieves an order by its display id with all items.
func (s *orderService) GetByHumanID(ctx context.Context, humanOrderID string) (*model.OrderResponse, error) {
	humanOrderID = strings.ToUpper(strings.TrimSpace(humanOrderID))
	if !orderid.Valid(humanOrderID) {
		return nil, nil
	}

	order, items, err := s.orderRepo.GetByHumanID(ctx, humanOrderID)
	if err != nil {
		s.logger.Error().Err(err).Str("human_order_id", humanOrderID).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, nil
	}

	return &model.OrderResponse{Order: *order, Items: items}, nil
}

// List returns a page of orders, newest first.
func (s *orderService) List(ctx context.Context, filter model.OrderFilter) (*model.OrderPage, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultOrderPageSize
	}
	if filter.Limit > maxOrderPageSize {
		filter.Limit = maxOrderPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return &model.OrderPage{
		Orders: orders,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

// UpdateStatus moves an order to status. Any known status may follow any
// other; admins correct mistakes by setting the status again.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.Order, error) {
	next, err := model.ParseStatus(strings.TrimSpace(status))
	if err != nil {
		return nil, err
	}

	updated, previous, err := s.orderRepo.UpdateStatus(ctx, id, next)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if updated == nil {
		return nil, model.ErrOrderNotFound
	}

	if previous != next {
		ev := events.OrderStatusChanged{
			OrderID:      updated.ID,
			HumanOrderID: updated.HumanOrderID,
			From:         previous,
			To:           next,
		}
		if err := s.publisher.PublishOrderStatusChanged(ctx, ev); err != nil {
			s.logger.Warn().
				Err(err).
				Str("order_id", id.String()).
				Msg("status updated but notification could not be published")
		}
	}

	return updated, nil
}
