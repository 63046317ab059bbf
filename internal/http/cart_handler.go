package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/storefront"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CartService interface {
	GetCart(ctx context.Context, sid string) (*storefront.View, error)
	AddItem(ctx context.Context, sid string, req cart.AddItemRequest) (*storefront.View, error)
	UpdateQuantity(ctx context.Context, sid string, index, delta int) (*storefront.View, error)
	SetQuantity(ctx context.Context, sid string, index, quantity int) (*storefront.View, error)
	RemoveItem(ctx context.Context, sid string, index int) (*storefront.View, error)
	ClearCart(ctx context.Context, sid string) (*storefront.View, error)
	OpenCart(ctx context.Context, sid string) (*storefront.View, error)
	CloseCart(ctx context.Context, sid string) (*storefront.View, error)
	ToggleCart(ctx context.Context, sid string) (*storefront.View, error)
}

type CartHandler struct {
	svc     CartService
	timeout time.Duration
	logger  *zap.Logger
}

func NewCartHandler(svc CartService, timeout time.Duration, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		svc:     svc,
		timeout: timeout,
		logger:  logger,
	}
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, http.StatusOK, h.svc.GetCart)
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	h.run(w, r, http.StatusCreated, func(ctx context.Context, sid string) (*storefront.View, error) {
		return h.svc.AddItem(ctx, sid, cart.AddItemRequest{
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			SizeID:    req.SizeID,
			ColorID:   req.ColorID,
		})
	})
}

// PATCH /api/v1/cart/items/{index}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	index, ok := lineIndex(w, r)
	if !ok {
		return
	}
	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	h.run(w, r, http.StatusOK, func(ctx context.Context, sid string) (*storefront.View, error) {
		return h.svc.UpdateQuantity(ctx, sid, index, req.Delta)
	})
}

// PUT /api/v1/cart/items/{index}
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	index, ok := lineIndex(w, r)
	if !ok {
		return
	}
	var req SetQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	h.run(w, r, http.StatusOK, func(ctx context.Context, sid string) (*storefront.View, error) {
		return h.svc.SetQuantity(ctx, sid, index, req.Quantity)
	})
}

// DELETE /api/v1/cart/items/{index}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	index, ok := lineIndex(w, r)
	if !ok {
		return
	}

	h.run(w, r, http.StatusOK, func(ctx context.Context, sid string) (*storefront.View, error) {
		return h.svc.RemoveItem(ctx, sid, index)
	})
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, http.StatusOK, h.svc.ClearCart)
}

func (h *CartHandler) Open(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, http.StatusOK, h.svc.OpenCart)
}

func (h *CartHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, http.StatusOK, h.svc.CloseCart)
}

func (h *CartHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, http.StatusOK, h.svc.ToggleCart)
}

func (h *CartHandler) run(w http.ResponseWriter, r *http.Request, status int, call func(context.Context, string) (*storefront.View, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	view, err := call(ctx, getSessionID(r.Context()))
	if err != nil {
		h.logger.Debug("cart request failed",
			zap.String("request_id", getRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		handleServiceError(w, err)
		return
	}

	respondJSON(w, status, convertView(view))
}

func lineIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		respondError(w, http.StatusBadRequest, "invalid_index", "index must be a non-negative integer")
		return 0, false
	}
	return index, true
}
