package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/fjod/go_cart/storefront/internal/order"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/fjod/go_cart/storefront/internal/storefront"
	"go.uber.org/zap"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError converts storefront errors to HTTP status codes.
func handleServiceError(w http.ResponseWriter, err error) {
	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error: verr.Error(),
			Code:  "validation_failed",
			Step:  verr.Step,
			Field: verr.Field,
		})
		return
	}

	var perr *order.PersistenceError
	var httpStatus int
	var code string

	switch {
	case errors.Is(err, storefront.ErrMissingSession):
		httpStatus, code = http.StatusBadRequest, "missing_session"
	case errors.Is(err, catalog.ErrProductNotFound):
		httpStatus, code = http.StatusNotFound, "product_not_found"
	case errors.Is(err, catalog.ErrCatalogUnavailable):
		httpStatus, code = http.StatusServiceUnavailable, "catalog_unavailable"
	case errors.Is(err, cart.ErrOutOfStock):
		httpStatus, code = http.StatusConflict, "out_of_stock"
	case errors.Is(err, cart.ErrInvalidQuantity):
		httpStatus, code = http.StatusBadRequest, "invalid_quantity"
	case errors.Is(err, cart.ErrInvalidVariant):
		httpStatus, code = http.StatusBadRequest, "invalid_variant"
	case errors.Is(err, cart.ErrLineNotFound):
		httpStatus, code = http.StatusNotFound, "line_not_found"
	case errors.Is(err, checkout.ErrInvalidTransition):
		httpStatus, code = http.StatusConflict, "invalid_transition"
	case errors.Is(err, checkout.ErrSessionClosed):
		httpStatus, code = http.StatusConflict, "checkout_closed"
	case errors.Is(err, order.ErrEmptyCart):
		httpStatus, code = http.StatusConflict, "empty_cart"
	case errors.Is(err, repository.ErrOrderNotFound):
		httpStatus, code = http.StatusNotFound, "order_not_found"
	case errors.Is(err, order.ErrDuplicateOrderCode), errors.As(err, &perr):
		httpStatus, code = http.StatusServiceUnavailable, "order_not_saved"
	case errors.Is(err, context.DeadlineExceeded):
		httpStatus, code = http.StatusGatewayTimeout, "timeout"
	default:
		zap.L().Error("unhandled service error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondError(w, httpStatus, code, err.Error())
}
