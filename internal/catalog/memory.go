package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

type MemoryCatalog struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
}

func NewMemoryCatalog(products ...domain.Product) *MemoryCatalog {
	m := &MemoryCatalog{products: make(map[int64]domain.Product, len(products))}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *MemoryCatalog) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return clone(p), nil
}

func (m *MemoryCatalog) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, clone(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Put adds or replaces a product.
func (m *MemoryCatalog) Put(p domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}

func clone(p domain.Product) *domain.Product {
	c := p
	if p.SalePrice != nil {
		sp := *p.SalePrice
		c.SalePrice = &sp
	}
	c.Sizes = append([]domain.Size(nil), p.Sizes...)
	c.Colors = append([]domain.Color(nil), p.Colors...)
	return &c
}
