package handler

import (
	"net/http"

	"fg-storefront/internal/model"
	"fg-storefront/internal/service"

	"github.com/rs/zerolog"
)

// CheckoutHandler places orders from the visitor's cart.
type CheckoutHandler struct {
	service service.CheckoutService
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service service.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// Submit handles POST /api/checkout.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	state, ok := visitor(w, r, h.logger)
	if !ok {
		return
	}

	var req model.CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err, h.logger)
		return
	}

	confirmation, err := h.service.Submit(r.Context(), state.SessionID, state.CustomerID, &req)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, confirmation)
}
