package service

import (
	"context"
	"errors"
	"testing"

	"fg-storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestCustomerService(repo *MockCustomerRepository) *customerService {
	return newCustomerService(repo, bcrypt.MinCost, zerolog.Nop())
}

func TestCustomerService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := newTestCustomerService(mockRepo)

		mockRepo.On("Create", ctx, mock.MatchedBy(func(c *model.Customer) bool {
			return c.Email == "rahim@example.com" &&
				bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte("s3cret-pass")) == nil
		})).Return(nil)

		customer, err := service.Register(ctx, &model.RegisterRequest{
			Name:     "Rahim Uddin",
			Email:    " Rahim@Example.com ",
			Phone:    "01700000000",
			Password: "s3cret-pass",
		})

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, customer.ID)
		assert.Equal(t, "rahim@example.com", customer.Email)
		assert.Zero(t, customer.TotalOrders)
		assert.True(t, customer.TotalSpent.IsZero())
		mockRepo.AssertExpectations(t)
	})

	t.Run("Email taken", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := newTestCustomerService(mockRepo)
		mockRepo.On("Create", ctx, mock.Anything).Return(model.ErrEmailTaken)

		customer, err := service.Register(ctx, &model.RegisterRequest{
			Name: "Rahim", Email: "rahim@example.com", Password: "s3cret-pass",
		})

		assert.Equal(t, model.ErrEmailTaken, err)
		assert.Nil(t, customer)
	})

	tests := []struct {
		name     string
		req      *model.RegisterRequest
		wantCode string
	}{
		{"nil request", nil, model.ErrCodeMissingField},
		{"missing name", &model.RegisterRequest{Email: "a@b.com", Password: "12345678"}, model.ErrCodeMissingField},
		{"missing password", &model.RegisterRequest{Name: "A", Email: "a@b.com"}, model.ErrCodeMissingField},
		{"bad email", &model.RegisterRequest{Name: "A", Email: "not-an-email", Password: "12345678"}, model.ErrCodeMissingField},
		{"short password", &model.RegisterRequest{Name: "A", Email: "a@b.com", Password: "1234567"}, model.ErrCodeWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCustomerRepository)
			service := newTestCustomerService(mockRepo)

			customer, err := service.Register(ctx, tt.req)

			require.Error(t, err)
			assert.Nil(t, customer)
			de, ok := model.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, de.Code)
			mockRepo.AssertNotCalled(t, "Create")
		})
	}
}

func TestCustomerService_Authenticate(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &model.Customer{ID: uuid.New(), Email: "rahim@example.com", PasswordHash: string(hash)}

	tests := []struct {
		name        string
		req         *model.LoginRequest
		mockReturn  *model.Customer
		mockError   error
		expectedErr error
		expectError bool
	}{
		{
			name:       "Success",
			req:        &model.LoginRequest{Email: "rahim@example.com", Password: "s3cret-pass"},
			mockReturn: stored,
		},
		{
			name:        "Wrong password",
			req:         &model.LoginRequest{Email: "rahim@example.com", Password: "guess"},
			mockReturn:  stored,
			expectError: true,
			expectedErr: model.ErrInvalidCredentials,
		},
		{
			name:        "Unknown email",
			req:         &model.LoginRequest{Email: "rahim@example.com", Password: "s3cret-pass"},
			expectError: true,
			expectedErr: model.ErrInvalidCredentials,
		},
		{
			name:        "Repository error",
			req:         &model.LoginRequest{Email: "rahim@example.com", Password: "s3cret-pass"},
			mockError:   errors.New("database error"),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCustomerRepository)
			service := newTestCustomerService(mockRepo)
			mockRepo.On("GetByEmail", ctx, "rahim@example.com").Return(tt.mockReturn, tt.mockError)

			customer, err := service.Authenticate(ctx, tt.req)

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, customer)
				if tt.expectedErr != nil {
					assert.Equal(t, tt.expectedErr, err)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, stored.ID, customer.ID)
			}
		})
	}

	t.Run("Missing fields", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := newTestCustomerService(mockRepo)

		_, err := service.Authenticate(ctx, &model.LoginRequest{Email: "rahim@example.com"})

		assert.Equal(t, model.ErrMissingField, err)
		mockRepo.AssertNotCalled(t, "GetByEmail")
	})
}

func TestCustomerService_Profile(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	orderIDs := []uuid.UUID{uuid.New(), uuid.New()}

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := newTestCustomerService(mockRepo)
		mockRepo.On("GetByID", ctx, id).Return(&model.Customer{ID: id, TotalOrders: 2}, nil)
		mockRepo.On("ListOrderIDs", ctx, id).Return(orderIDs, nil)

		profile, err := service.Profile(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, 2, profile.TotalOrders)
		assert.Equal(t, orderIDs, profile.OrderIDs)
	})

	t.Run("Customer gone", func(t *testing.T) {
		mockRepo := new(MockCustomerRepository)
		service := newTestCustomerService(mockRepo)
		mockRepo.On("GetByID", ctx, id).Return(nil, nil)

		profile, err := service.Profile(ctx, id)

		assert.Equal(t, model.ErrUnauthorised, err)
		assert.Nil(t, profile)
		mockRepo.AssertNotCalled(t, "ListOrderIDs")
	})
}
