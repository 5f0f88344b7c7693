package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is a registered storefront account.
type Customer struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	PasswordHash string          `json:"-"`
	TotalOrders  int             `json:"totalOrders"`
	TotalSpent   decimal.Decimal `json:"totalSpent"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// CustomerProfile is a customer together with the ids of their orders.
type CustomerProfile struct {
	Customer
	OrderIDs []uuid.UUID `json:"orderIds"`
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// LoginRequest is the payload for signing in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
