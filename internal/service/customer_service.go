package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"fg-storefront/internal/model"
	"fg-storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// customerService implements CustomerService.
type customerService struct {
	customerRepo repository.CustomerRepository
	bcryptCost   int
	logger       zerolog.Logger
}

// NewCustomerService creates a new customer service.
func NewCustomerService(customerRepo repository.CustomerRepository, logger zerolog.Logger) CustomerService {
	return newCustomerService(customerRepo, bcrypt.DefaultCost, logger)
}

func newCustomerService(customerRepo repository.CustomerRepository, cost int, logger zerolog.Logger) *customerService {
	return &customerService{
		customerRepo: customerRepo,
		bcryptCost:   cost,
		logger:       logger.With().Str("service", "customer").Logger(),
	}
}

// Register creates an account with a bcrypt-hashed password.
func (s *customerService) Register(ctx context.Context, req *model.RegisterRequest) (*model.Customer, error) {
	if req == nil {
		return nil, model.ErrMissingField
	}

	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" || req.Password == "" {
		return nil, model.ErrMissingField
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "A valid email address is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, model.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	customer := &model.Customer{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: string(hash),
		TotalSpent:   decimal.Zero,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return nil, err
		}
		s.logger.Error().Err(err).Msg("failed to register customer")
		return nil, fmt.Errorf("failed to register customer: %w", err)
	}

	s.logger.Info().Str("customer_id", customer.ID.String()).Msg("customer registered")
	return customer, nil
}

// Authenticate returns the customer whose email and password match.
func (s *customerService) Authenticate(ctx context.Context, req *model.LoginRequest) (*model.Customer, error) {
	if req == nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, model.ErrMissingField
	}

	customer, err := s.customerRepo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}
	if customer == nil {
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Debug().Str("customer_id", customer.ID.String()).Msg("password mismatch")
		return nil, model.ErrInvalidCredentials
	}

	return customer, nil
}

// Profile returns the customer together with their order ids.
func (s *customerService) Profile(ctx context.Context, id uuid.UUID) (*model.CustomerProfile, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, model.ErrUnauthorised
	}

	orderIDs, err := s.customerRepo.ListOrderIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer orders: %w", err)
	}

	return &model.CustomerProfile{Customer: *customer, OrderIDs: orderIDs}, nil
}
