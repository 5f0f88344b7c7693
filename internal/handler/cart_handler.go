package handler

import (
	"net/http"

	"fg-storefront/internal/model"
	"fg-storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CartItemRequest is the payload for adding or updating a cart line.
type CartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CartHandler serves the visitor's cart.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// zone reads ?zone=, defaulting to inside.
func zone(r *http.Request) (model.Zone, error) {
	raw := r.URL.Query().Get("zone")
	if raw == "" {
		return model.ZoneInside, nil
	}
	return model.ParseZone(raw)
}

// View handles GET /api/cart.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	state, ok := visitor(w, r, h.logger)
	if !ok {
		return
	}
	z, err := zone(r)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	view, err := h.service.View(r.Context(), state.SessionID, z)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	state, ok := visitor(w, r, h.logger)
	if !ok {
		return
	}
	z, err := zone(r)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	var req CartItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err, h.logger)
		return
	}

	view, err := h.service.AddItem(r.Context(), state.SessionID, req.ProductID, req.Quantity, z)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// UpdateItem handles PUT /api/cart/items/{productId}.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	state, ok := visitor(w, r, h.logger)
	if !ok {
		return
	}
	z, err := zone(r)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	var req CartItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err, h.logger)
		return
	}

	view, err := h.service.UpdateItem(r.Context(), state.SessionID, chi.URLParam(r, "productId"), req.Quantity, z)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// RemoveItem handles DELETE /api/cart/items/{productId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	state, ok := visitor(w, r, h.logger)
	if !ok {
		return
	}
	z, err := zone(r)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	view, err := h.service.RemoveItem(r.Context(), state.SessionID, chi.URLParam(r, "productId"), z)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	state, ok := visitor(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.Clear(r.Context(), state.SessionID); err != nil {
		respondError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
