package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/pricing"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const requestIDKey = "request-id"

type OrdersHandler struct {
	repo   repository.OrderRepository
	logger *zap.Logger
}

func NewOrdersHandler(repo repository.OrderRepository, logger *zap.Logger) *OrdersHandler {
	return &OrdersHandler{repo: repo, logger: logger}
}

func (h *OrdersHandler) GetOrder(ctx context.Context, req *GetOrderRequest) (*OrderResponse, error) {
	id, err := uuid.Parse(req.OrderID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid order_id: %v", err)
	}

	order, err := h.repo.LoadOrder(ctx, id)
	if err != nil {
		return nil, h.toStatus(ctx, err, req.OrderID)
	}

	return &OrderResponse{Order: convertOrder(order)}, nil
}

func (h *OrdersHandler) GetOrderByCode(ctx context.Context, req *GetOrderByCodeRequest) (*OrderResponse, error) {
	if req.Code == "" {
		return nil, status.Error(codes.InvalidArgument, "code is required")
	}

	order, err := h.repo.LoadOrderByCode(ctx, req.Code)
	if err != nil {
		return nil, h.toStatus(ctx, err, req.Code)
	}

	return &OrderResponse{Order: convertOrder(order)}, nil
}

func (h *OrdersHandler) toStatus(ctx context.Context, err error, ref string) error {
	if errors.Is(err, repository.ErrOrderNotFound) {
		return status.Errorf(codes.NotFound, "order not found: %s", ref)
	}
	h.logger.Error("failed to load order",
		zap.String("ref", ref),
		zap.String("request_id", requestID(ctx)),
		zap.Error(err))
	return status.Errorf(codes.Internal, "failed to get order: %v", err)
}

func convertOrder(order *domain.Order) *Order {
	items := make([]OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItem{
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Name:      item.Name,
			Size:      item.SizeCode,
			Color:     item.ColorName,
			Quantity:  int32(item.Quantity),
			UnitPrice: pricing.Format(item.UnitPrice),
		})
	}
	return &Order{
		ID:           order.ID.String(),
		Code:         order.Code,
		CheckoutID:   order.CheckoutID.String(),
		Status:       string(order.Status),
		Email:        order.Customer.Email,
		DeliveryMode: string(order.DeliveryMode),
		Items:        items,
		Subtotal:     pricing.Format(order.Totals.Subtotal),
		Shipping:     pricing.Format(order.Totals.Shipping),
		Tax:          pricing.Format(order.Totals.Tax),
		Total:        pricing.Format(order.Totals.Total),
		CreatedAt:    order.CreatedAt.Format(time.RFC3339),
	}
}

// requestID reads the caller's request-id metadata, if it sent one.
func requestID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if v := md.Get(requestIDKey); len(v) > 0 {
		return v[0]
	}
	return ""
}
