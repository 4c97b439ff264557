package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/esencia-ar/backend/internal/domain"
	"github.com/esencia-ar/backend/internal/repository"
	"github.com/go-chi/chi/v5"
)

// OrderReader is the read/admin slice of the order repository.
type OrderReader interface {
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error
}

type OrdersHandler struct {
	orders OrderReader
}

func NewOrdersHandler(orders OrderReader) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrderByID(r.Context(), chi.URLParam(r, "order_id"))
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "order_not_found", "unknown order")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load order")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// UpdateStatus is the admin collaborator's endpoint. Status moves forward
// only; regressions are rejected.
func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	status := domain.OrderStatus(req.Status)
	if !status.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_status", "status must be pending, shipped, delivered or cancelled")
		return
	}

	err := h.orders.UpdateOrderStatus(r.Context(), chi.URLParam(r, "order_id"), status)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			respondError(w, http.StatusNotFound, "order_not_found", "unknown order")
		case errors.Is(err, repository.ErrStatusRegression):
			respondError(w, http.StatusConflict, "status_regression", "order status can only advance")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to update status")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}
