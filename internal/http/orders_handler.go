package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

type OrderService interface {
	GetOrderByCode(ctx context.Context, code string) (*domain.Order, error)
}

type OrdersHandler struct {
	svc     OrderService
	timeout time.Duration
}

func NewOrdersHandler(svc OrderService, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		svc:     svc,
		timeout: timeout,
	}
}

// GET /api/v1/orders/{code}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	code := chi.URLParam(r, "code")
	if code == "" {
		respondError(w, http.StatusBadRequest, "missing_order_code", "order code is required")
		return
	}

	o, err := h.svc.GetOrderByCode(ctx, code)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertOrder(o))
}
