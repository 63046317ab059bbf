package catalog

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

type MockCatalog struct {
	mu       sync.Mutex
	products map[int64]*domain.Product
	err      error
	calls    atomic.Int32
	gate     chan struct{}
}

func NewMockCatalog(products ...*domain.Product) *MockCatalog {
	m := &MockCatalog{products: make(map[int64]*domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *MockCatalog) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockCatalog) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	m.calls.Add(1)
	if m.gate != nil {
		<-m.gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (m *MockCatalog) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	m.calls.Add(1)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Product
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}
