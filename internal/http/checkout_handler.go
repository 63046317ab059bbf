package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/storefront"
	"go.uber.org/zap"
)

type CheckoutService interface {
	GetCheckout(ctx context.Context, sid string) (*storefront.View, error)
	SetCustomer(ctx context.Context, sid string, c domain.CustomerInfo) (*storefront.View, error)
	SetShipping(ctx context.Context, sid string, info domain.ShippingInfo) (*storefront.View, error)
	SetPayment(ctx context.Context, sid string, p domain.PaymentInfo) (*storefront.View, error)
	NextStep(ctx context.Context, sid string) (*storefront.View, error)
	PreviousStep(ctx context.Context, sid string) (*storefront.View, error)
	RestartCheckout(ctx context.Context, sid string) (*storefront.View, error)
	Submit(ctx context.Context, sid string, payment *domain.PaymentInfo) (*storefront.SubmitResult, error)
}

type CheckoutHandler struct {
	svc     CheckoutService
	timeout time.Duration
	logger  *zap.Logger
}

func NewCheckoutHandler(svc CheckoutService, timeout time.Duration, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		svc:     svc,
		timeout: timeout,
		logger:  logger,
	}
}

// GET /api/v1/checkout
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.svc.GetCheckout)
}

// PUT /api/v1/checkout/customer
func (h *CheckoutHandler) SetCustomer(w http.ResponseWriter, r *http.Request) {
	var req domain.CustomerInfo
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	h.run(w, r, func(ctx context.Context, sid string) (*storefront.View, error) {
		return h.svc.SetCustomer(ctx, sid, req)
	})
}

// PUT /api/v1/checkout/shipping
func (h *CheckoutHandler) SetShipping(w http.ResponseWriter, r *http.Request) {
	var req domain.ShippingInfo
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	h.run(w, r, func(ctx context.Context, sid string) (*storefront.View, error) {
		return h.svc.SetShipping(ctx, sid, req)
	})
}

// PUT /api/v1/checkout/payment
func (h *CheckoutHandler) SetPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	h.run(w, r, func(ctx context.Context, sid string) (*storefront.View, error) {
		return h.svc.SetPayment(ctx, sid, req.toDomain())
	})
}

// POST /api/v1/checkout/next
func (h *CheckoutHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.svc.NextStep)
}

// POST /api/v1/checkout/back
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.svc.PreviousStep)
}

// POST /api/v1/checkout/restart
func (h *CheckoutHandler) Restart(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.svc.RestartCheckout)
}

// POST /api/v1/checkout/submit
//
// The body is optional. Card details are only accepted here because they are
// never stored with the session.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var payment *domain.PaymentInfo
	var req PaymentRequestDTO
	err := json.NewDecoder(r.Body).Decode(&req)
	switch {
	case errors.Is(err, io.EOF):
	case err != nil:
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	default:
		p := req.toDomain()
		payment = &p
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	res, err := h.svc.Submit(ctx, getSessionID(r.Context()), payment)
	if err != nil {
		h.logger.Info("checkout submit rejected",
			zap.String("request_id", getRequestID(r.Context())),
			zap.Error(err))
		handleServiceError(w, err)
		return
	}

	status := http.StatusCreated
	if res.Receipt.Replayed {
		status = http.StatusOK
	}
	respondJSON(w, status, convertSubmit(res))
}

func (h *CheckoutHandler) run(w http.ResponseWriter, r *http.Request, call func(context.Context, string) (*storefront.View, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	view, err := call(ctx, getSessionID(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, convertView(view))
}
