package cart

import (
	"context"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

type MockLookup struct {
	products map[int64]*domain.Product
	err      error
	calls    int
}

func NewMockLookup(products ...*domain.Product) *MockLookup {
	m := &MockLookup{products: make(map[int64]*domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *MockLookup) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}
