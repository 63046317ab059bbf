package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_SaveAndLoad(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	order := newTestOrder("ORD-20260101-000001")

	require.NoError(t, repo.SaveOrder(ctx, order))

	byID, err := repo.LoadOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order, byID)

	byCode, err := repo.LoadOrderByCode(ctx, order.Code)
	require.NoError(t, err)
	assert.Equal(t, order.ID, byCode.ID)

	byCheckout, err := repo.LoadOrderByCheckout(ctx, order.CheckoutID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, byCheckout.ID)
}

func TestMemoryRepository_StoresCopies(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	order := newTestOrder("ORD-20260101-000001")
	require.NoError(t, repo.SaveOrder(ctx, order))

	order.Items[0].Quantity = 99
	order.Address.Street = "changed"

	loaded, err := repo.LoadOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Items[0].Quantity)
	assert.Equal(t, "Av. Arequipa 123", loaded.Address.Street)
}

func TestMemoryRepository_Duplicates(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	first := newTestOrder("ORD-20260101-000001")
	require.NoError(t, repo.SaveOrder(ctx, first))

	sameCode := newTestOrder(first.Code)
	assert.ErrorIs(t, repo.SaveOrder(ctx, sameCode), ErrDuplicateOrderCode)

	sameCheckout := newTestOrder("ORD-20260101-000002")
	sameCheckout.CheckoutID = first.CheckoutID
	assert.ErrorIs(t, repo.SaveOrder(ctx, sameCheckout), ErrDuplicateCheckout)

	assert.Equal(t, 1, repo.Count())
}

func TestMemoryRepository_NotFound(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	_, err := repo.LoadOrder(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)
	_, err = repo.LoadOrderByCode(ctx, "nope")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	_, err = repo.LoadOrderByCheckout(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestMemoryRepository_UpdateOrderStatus(t *testing.T) {
	checkStatusTransitions(t, NewMemoryRepository())
}
