package handler

import (
	"net/http"

	"orders-ms/internal/model"
	"orders-ms/internal/service"
	"orders-ms/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service   service.OrderService
	validator *validation.Validator
	logger    zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, validator *validation.Validator, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	order, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// FindAll handles GET /api/orders requests.
func (h *OrderHandler) FindAll(w http.ResponseWriter, r *http.Request) {
	var query model.OrderQuery
	var err error

	if query.Take, err = queryInt(r, "take"); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if query.Skip, err = queryInt(r, "skip"); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := model.ParseOrderStatus(raw)
		if err != nil {
			writeError(w, r, model.NewValidationError(err.Error()), h.logger)
			return
		}
		query.Status = &status
	}

	if err := h.validator.Struct(&query); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	page, err := h.service.FindAll(r.Context(), &query)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// FindOne handles GET /api/orders/{id} requests.
func (h *OrderHandler) FindOne(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	order, err := h.service.FindOne(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// changeStatusBody is the body of PATCH /api/orders/{id}/status.
type changeStatusBody struct {
	Status model.OrderStatus `json:"status"`
}

// ChangeStatus handles PATCH /api/orders/{id}/status requests.
func (h *OrderHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var body changeStatusBody
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	req := model.ChangeOrderStatusRequest{
		ID:     chi.URLParam(r, "id"),
		Status: body.Status,
	}
	if err := h.validator.Struct(&req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	order, err := h.service.ChangeStatus(r.Context(), uuid.MustParse(req.ID), req.Status)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func orderID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, model.NewValidationError("id must be a UUID")
	}
	return id, nil
}
