package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fg-storefront/internal/events"
	"fg-storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testOrder(status model.Status) *model.Order {
	return &model.Order{
		ID:           uuid.New(),
		HumanOrderID: "FG-261017-00042",
		CustomerName: "Rahim Uddin",
		Zone:         model.ZoneInside,
		TotalAmount:  dec(1070),
		Status:       status,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func TestOrderService_LookupStatus(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	tests := []struct {
		name        string
		input       string
		repoID      string
		mockReturn  model.StatusLookup
		mockError   error
		expectFound bool
		expectError bool
	}{
		{
			name:        "Found",
			input:       "FG-261017-00042",
			repoID:      "FG-261017-00042",
			mockReturn:  model.Found(model.StatusShipped),
			expectFound: true,
		},
		{
			name:        "Lower case and padded input is normalised",
			input:       "  fg-261017-00042 ",
			repoID:      "FG-261017-00042",
			mockReturn:  model.Found(model.StatusShipped),
			expectFound: true,
		},
		{
			name:       "Unknown id",
			input:      "FG-261017-99999",
			repoID:     "FG-261017-99999",
			mockReturn: model.NotFound(),
		},
		{
			name:  "Malformed id never reaches the store",
			input: "ORDER-1",
		},
		{
			name:  "Empty id",
			input: "",
		},
		{
			name:        "Repository error",
			input:       "FG-261017-00042",
			repoID:      "FG-261017-00042",
			mockReturn:  model.NotFound(),
			mockError:   errors.New("database error"),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockOrderRepository)
			service := NewOrderService(mockRepo, nil, logger)

			if tt.repoID != "" {
				mockRepo.On("GetStatusByHumanID", ctx, tt.repoID).Return(tt.mockReturn, tt.mockError)
			}

			lookup, err := service.LookupStatus(ctx, tt.input)

			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expectFound, lookup.IsFound())
			if tt.expectFound {
				status, _ := lookup.Status()
				assert.Equal(t, model.StatusShipped, status)
			}

			if tt.repoID == "" {
				mockRepo.AssertNotCalled(t, "GetStatusByHumanID")
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestOrderService_GetByID(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	order := testOrder(model.StatusProcessing)
	items := []model.OrderItem{
		{ID: uuid.New(), OrderID: order.ID, ProductID: "TSHIRT-01", ProductName: "Linen Shirt", Quantity: 1, PriceAtPurchase: dec(990)},
	}

	tests := []struct {
		name        string
		mockOrder   *model.Order
		mockItems   []model.OrderItem
		mockError   error
		expectNil   bool
		expectError bool
	}{
		{name: "Success", mockOrder: order, mockItems: items},
		{name: "Order not found", expectNil: true},
		{name: "Repository error", mockError: errors.New("database error"), expectNil: true, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockOrderRepository)
			service := NewOrderService(mockRepo, nil, logger)

			if tt.mockOrder != nil {
				mockRepo.On("GetByID", ctx, order.ID).Return(tt.mockOrder, tt.mockItems, tt.mockError)
			} else {
				mockRepo.On("GetByID", ctx, order.ID).Return(nil, nil, tt.mockError)
			}

			resp, err := service.GetByID(ctx, order.ID)

			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			if tt.expectNil {
				assert.Nil(t, resp)
			} else {
				require.NotNil(t, resp)
				assert.Equal(t, order.ID, resp.ID)
				assert.Equal(t, items, resp.Items)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestOrderService_GetByHumanID(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	order := testOrder(model.StatusDelivered)
	mockRepo := new(MockOrderRepository)
	service := NewOrderService(mockRepo, nil, logger)

	mockRepo.On("GetByHumanID", ctx, "FG-261017-00042").Return(order, []model.OrderItem{}, nil)

	resp, err := service.GetByHumanID(ctx, "fg-261017-00042")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, order.ID, resp.ID)

	resp, err = service.GetByHumanID(ctx, "not-an-order")
	require.NoError(t, err)
	assert.Nil(t, resp)

	mockRepo.AssertNumberOfCalls(t, "GetByHumanID", 1)
}

func TestOrderService_List(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	shipped := model.StatusShipped

	tests := []struct {
		name     string
		filter   model.OrderFilter
		expected model.OrderFilter
	}{
		{
			name:     "Defaults",
			filter:   model.OrderFilter{},
			expected: model.OrderFilter{Limit: 20},
		},
		{
			name:     "Caps limit and clamps offset",
			filter:   model.OrderFilter{Limit: 500, Offset: -3},
			expected: model.OrderFilter{Limit: 100},
		},
		{
			name:     "Status filter passes through",
			filter:   model.OrderFilter{Status: &shipped, Limit: 5, Offset: 10},
			expected: model.OrderFilter{Status: &shipped, Limit: 5, Offset: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockOrderRepository)
			service := NewOrderService(mockRepo, nil, logger)

			orders := []model.Order{*testOrder(model.StatusShipped)}
			mockRepo.On("List", ctx, tt.expected).Return(orders, 31, nil)

			page, err := service.List(ctx, tt.filter)

			require.NoError(t, err)
			assert.Equal(t, orders, page.Orders)
			assert.Equal(t, 31, page.Total)
			assert.Equal(t, tt.expected.Limit, page.Limit)
			assert.Equal(t, tt.expected.Offset, page.Offset)
			mockRepo.AssertExpectations(t)
		})
	}

	t.Run("Repository error", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		service := NewOrderService(mockRepo, nil, logger)
		mockRepo.On("List", ctx, mock.Anything).Return(nil, 0, errors.New("database error"))

		page, err := service.List(ctx, model.OrderFilter{})

		require.Error(t, err)
		assert.Nil(t, page)
	})
}

func TestOrderService_UpdateStatus(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	t.Run("Publishes when the status changes", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockPub := new(MockPublisher)
		service := NewOrderService(mockRepo, mockPub, logger)

		updated := testOrder(model.StatusShipped)
		mockRepo.On("UpdateStatus", ctx, updated.ID, model.StatusShipped).Return(updated, model.StatusProcessing, nil)
		mockPub.On("PublishOrderStatusChanged", ctx, events.OrderStatusChanged{
			OrderID:      updated.ID,
			HumanOrderID: updated.HumanOrderID,
			From:         model.StatusProcessing,
			To:           model.StatusShipped,
		}).Return(nil)

		order, err := service.UpdateStatus(ctx, updated.ID, "shipped")

		require.NoError(t, err)
		assert.Equal(t, model.StatusShipped, order.Status)
		mockRepo.AssertExpectations(t)
		mockPub.AssertExpectations(t)
	})

	// The previous status comes from the locked update itself, not from an
	// earlier read another admin may already have overtaken.
	t.Run("From is the status the update replaced", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockPub := new(MockPublisher)
		service := NewOrderService(mockRepo, mockPub, logger)

		updated := testOrder(model.StatusDelivered)
		mockRepo.On("UpdateStatus", ctx, updated.ID, model.StatusDelivered).Return(updated, model.StatusShipped, nil)
		mockPub.On("PublishOrderStatusChanged", ctx, mock.MatchedBy(func(ev events.OrderStatusChanged) bool {
			return ev.From == model.StatusShipped && ev.To == model.StatusDelivered
		})).Return(nil)

		_, err := service.UpdateStatus(ctx, updated.ID, "delivered")

		require.NoError(t, err)
		mockPub.AssertExpectations(t)
		mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Same status is saved but not published", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockPub := new(MockPublisher)
		service := NewOrderService(mockRepo, mockPub, logger)

		current := testOrder(model.StatusShipped)
		mockRepo.On("UpdateStatus", ctx, current.ID, model.StatusShipped).Return(current, model.StatusShipped, nil)

		_, err := service.UpdateStatus(ctx, current.ID, "Shipped")

		require.NoError(t, err)
		mockPub.AssertNotCalled(t, "PublishOrderStatusChanged")
	})

	t.Run("Publish failure does not fail the update", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockPub := new(MockPublisher)
		service := NewOrderService(mockRepo, mockPub, logger)

		updated := testOrder(model.StatusCancelled)
		mockRepo.On("UpdateStatus", ctx, updated.ID, model.StatusCancelled).Return(updated, model.StatusShipped, nil)
		mockPub.On("PublishOrderStatusChanged", ctx, mock.Anything).Return(errors.New("broker down"))

		order, err := service.UpdateStatus(ctx, updated.ID, "cancelled")

		require.NoError(t, err)
		assert.Equal(t, model.StatusCancelled, order.Status)
	})

	t.Run("Unknown status", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		service := NewOrderService(mockRepo, nil, logger)

		order, err := service.UpdateStatus(ctx, uuid.New(), "Lost")

		assert.Equal(t, model.ErrInvalidStatus, err)
		assert.Nil(t, order)
		mockRepo.AssertNotCalled(t, "UpdateStatus")
	})

	t.Run("Order not found", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockPub := new(MockPublisher)
		service := NewOrderService(mockRepo, mockPub, logger)

		id := uuid.New()
		mockRepo.On("UpdateStatus", ctx, id, model.StatusDelivered).Return(nil, model.Status(""), nil)

		order, err := service.UpdateStatus(ctx, id, "Delivered")

		assert.Equal(t, model.ErrOrderNotFound, err)
		assert.Nil(t, order)
		mockPub.AssertNotCalled(t, "PublishOrderStatusChanged")
	})

	t.Run("Repository error", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		service := NewOrderService(mockRepo, nil, logger)

		id := uuid.New()
		mockRepo.On("UpdateStatus", ctx, id, model.StatusShipped).Return(nil, model.Status(""), errors.New("deadlock detected"))

		order, err := service.UpdateStatus(ctx, id, "shipped")

		require.Error(t, err)
		assert.Nil(t, order)
		_, isDomain := model.AsDomainError(err)
		assert.False(t, isDomain)
	})
}
