package handler

import (
	"context"
	"net/http"

	"fg-storefront/internal/model"
	"fg-storefront/internal/service"
	"fg-storefront/internal/session"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionWriter records sign-in state on the visitor's session. Login
// returns the session id issued in place of the current one.
type SessionWriter interface {
	Login(w http.ResponseWriter, r *http.Request, customerID uuid.UUID) (string, error)
	Logout(w http.ResponseWriter, r *http.Request) error
}

// CartTransferer moves a cart between session ids.
type CartTransferer interface {
	Transfer(ctx context.Context, fromSessionID, toSessionID string) error
}

// CustomerHandler handles account requests.
type CustomerHandler struct {
	service  service.CustomerService
	carts    CartTransferer
	sessions SessionWriter
	logger   zerolog.Logger
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(service service.CustomerService, carts CartTransferer, sessions SessionWriter, logger zerolog.Logger) *CustomerHandler {
	return &CustomerHandler{
		service:  service,
		carts:    carts,
		sessions: sessions,
		logger:   logger.With().Str("handler", "customer").Logger(),
	}
}

// Register handles POST /api/customers/register and signs the new customer in.
func (h *CustomerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err, h.logger)
		return
	}

	customer, err := h.service.Register(r.Context(), &req)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	if err := h.signIn(w, r, customer.ID); err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, customer)
}

// Login handles POST /api/customers/login.
func (h *CustomerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err, h.logger)
		return
	}

	customer, err := h.service.Authenticate(r.Context(), &req)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	if err := h.signIn(w, r, customer.ID); err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, customer)
}

// signIn rotates the session id and carries the visitor's cart over to it.
// A cart that cannot be moved is logged, not fatal.
func (h *CustomerHandler) signIn(w http.ResponseWriter, r *http.Request, customerID uuid.UUID) error {
	sid, err := h.sessions.Login(w, r, customerID)
	if err != nil {
		return err
	}

	state, ok := session.FromContext(r.Context())
	if !ok || state.SessionID == "" {
		return nil
	}
	if err := h.carts.Transfer(r.Context(), state.SessionID, sid); err != nil {
		h.logger.Warn().
			Err(err).
			Str("customer_id", customerID.String()).
			Msg("signed in but cart could not be carried over")
	}
	return nil
}

// Logout handles POST /api/customers/logout. The cart survives.
func (h *CustomerHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		respondError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/customers/me.
func (h *CustomerHandler) Me(w http.ResponseWriter, r *http.Request) {
	state, ok := visitor(w, r, h.logger)
	if !ok {
		return
	}
	if state.CustomerID == nil {
		respondError(w, model.ErrUnauthorised, h.logger)
		return
	}

	profile, err := h.service.Profile(r.Context(), *state.CustomerID)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
