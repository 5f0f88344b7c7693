package handler

import (
	"net/http"

	"fg-storefront/internal/model"
	"fg-storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order tracking and order administration requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Track handles GET /api/orders/track/{humanOrderId}. Unknown orders are a
// normal answer, not an error.
func (h *OrderHandler) Track(w http.ResponseWriter, r *http.Request) {
	humanID := chi.URLParam(r, "humanOrderId")

	lookup, err := h.service.LookupStatus(r.Context(), humanID)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	resp := model.TrackingResponse{HumanOrderID: humanID, Found: lookup.IsFound()}
	if status, ok := lookup.Status(); ok {
		resp.Status = &status
	}

	writeJSON(w, http.StatusOK, resp)
}

// List handles GET /api/admin/orders. Accepts limit with either offset or a
// 1-based page, and an optional status.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	page, err := queryInt(r, "page", 0)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	if page > 0 && limit > 0 {
		offset = (page - 1) * limit
	}

	filter := model.OrderFilter{Limit: limit, Offset: offset}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := model.ParseStatus(raw)
		if err != nil {
			respondError(w, err, h.logger)
			return
		}
		filter.Status = &status
	}

	result, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	if result.Orders == nil {
		result.Orders = []model.Order{}
	}

	writeJSON(w, http.StatusOK, result)
}

// GetByID handles GET /api/admin/orders/{id}. The id may be the order's uuid
// or its display id.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "id")

	var (
		order *model.OrderResponse
		err   error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		order, err = h.service.GetByID(r.Context(), id)
	} else {
		order, err = h.service.GetByHumanID(r.Context(), ref)
	}
	if err != nil {
		respondError(w, err, h.logger)
		return
	}
	if order == nil {
		respondError(w, model.ErrOrderNotFound, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// UpdateStatus handles PATCH /api/admin/orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid order ID format", h.logger)
		return
	}

	var req model.StatusUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err, h.logger)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
