package catalog

import (
	"context"
	"testing"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCatalog(t *testing.T) {
	sale := decimal.RequireFromString("10")
	m := NewMemoryCatalog(
		domain.Product{ID: 2, Name: "b", SalePrice: &sale, Sizes: []domain.Size{{ID: 1, Code: "M"}}},
		domain.Product{ID: 1, Name: "a"},
	)
	ctx := context.Background()

	p, err := m.GetProduct(ctx, 2)
	require.NoError(t, err)
	p.Sizes[0].Code = "XL"
	*p.SalePrice = decimal.Zero

	again, err := m.GetProduct(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "M", again.Sizes[0].Code, "returned products are copies")
	assert.Equal(t, "10", again.SalePrice.String())

	_, err = m.GetProduct(ctx, 99)
	assert.ErrorIs(t, err, ErrProductNotFound)

	list, err := m.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].ID)
}

func TestMemoryCatalog_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryCatalog().GetProduct(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
