package repository

import (
	"context"
	"testing"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(code string) *domain.Order {
	return &domain.Order{
		ID:         uuid.New(),
		Code:       code,
		CheckoutID: uuid.New(),
		Status:     domain.OrderStatusPending,
		Customer: domain.CustomerInfo{
			Name: "Ana", Surname: "Quispe", Email: "ana@example.com", Phone: "987654321",
		},
		DeliveryMode: domain.DeliveryHome,
		Address: &domain.Address{
			Street: "Av. Arequipa 123", District: "Miraflores", Province: "Lima", Department: "Lima",
		},
		Payment: domain.OrderPayment{Method: domain.PaymentCard, CardLast4: "1111", CardholderName: "ANA Q"},
		Items: []domain.OrderItem{
			{ProductID: 1, SKU: "JEAN-MOM-01", Name: "Jean Mom", UnitPrice: decimal.RequireFromString("120.00"), SizeCode: "28", Quantity: 1},
		},
		Totals: domain.Totals{
			Subtotal: decimal.RequireFromString("120.00"),
			Shipping: decimal.RequireFromString("9.90"),
			Tax:      decimal.RequireFromString("23.382"),
			Total:    decimal.RequireFromString("129.90"),
		},
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

type statusStore interface {
	OrderRepository
	StatusUpdater
}

func checkStatusTransitions(t *testing.T, repo statusStore) {
	t.Helper()
	ctx := context.Background()
	order := newTestOrder("ORD-20260101-000777")
	require.NoError(t, repo.SaveOrder(ctx, order))

	changed, err := repo.UpdateOrderStatus(ctx, order.ID, domain.OrderStatusPending, domain.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.UpdateOrderStatus(ctx, order.ID, domain.OrderStatusPending, domain.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.False(t, changed, "second confirmation is a no-op")

	got, err := repo.LoadOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, got.Status)

	_, err = repo.UpdateOrderStatus(ctx, uuid.New(), domain.OrderStatusPending, domain.OrderStatusConfirmed)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
