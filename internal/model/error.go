package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeMissingField         = "MISSING_FIELD"
	ErrCodeEmptyCart            = "EMPTY_CART"
	ErrCodeProductNotFound      = "PRODUCT_NOT_FOUND"
	ErrCodeProductExists        = "PRODUCT_EXISTS"
	ErrCodeOrderNotFound        = "ORDER_NOT_FOUND"
	ErrCodeInvalidQuantity      = "INVALID_QUANTITY"
	ErrCodeInvalidZone          = "INVALID_ZONE"
	ErrCodeInvalidPaymentMethod = "INVALID_PAYMENT_METHOD"
	ErrCodeInvalidStatus        = "INVALID_STATUS"
	ErrCodeInvalidPrice         = "INVALID_PRICE"
	ErrCodeInvalidProduct       = "INVALID_PRODUCT"
	ErrCodeOrderPersistence     = "ORDER_PERSISTENCE_FAILED"
	ErrCodeEmailTaken           = "EMAIL_TAKEN"
	ErrCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	ErrCodeWeakPassword         = "WEAK_PASSWORD"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// AsDomainError unwraps err to a *DomainError if one is in the chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Common domain errors
var (
	ErrEmptyCart            = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrMissingField         = NewDomainError(ErrCodeMissingField, "One or more required fields are missing")
	ErrProductNotFound      = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrProductExists        = NewDomainError(ErrCodeProductExists, "A product with this id already exists")
	ErrOrderNotFound        = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrInvalidQuantity      = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidZone          = NewDomainError(ErrCodeInvalidZone, "Delivery zone must be inside or outside")
	ErrInvalidPaymentMethod = NewDomainError(ErrCodeInvalidPaymentMethod, "Unsupported payment method")
	ErrInvalidStatus        = NewDomainError(ErrCodeInvalidStatus, "Unknown order status")
	ErrInvalidPrice         = NewDomainError(ErrCodeInvalidPrice, "Price must be positive and not above the original price")
	ErrInvalidProduct       = NewDomainError(ErrCodeInvalidProduct, "Product name, category and non-negative stock are required")
	ErrOrderPersistence     = NewDomainError(ErrCodeOrderPersistence, "Could not place the order, please try again")
	ErrEmailTaken           = NewDomainError(ErrCodeEmailTaken, "An account with this email already exists")
	ErrInvalidCredentials   = NewDomainError(ErrCodeInvalidCredentials, "Invalid email or password")
	ErrWeakPassword         = NewDomainError(ErrCodeWeakPassword, "Password must be at least 8 characters")
	ErrUnauthorised         = NewDomainError(ErrCodeUnauthorised, "Login required")
)
