package order

import (
	"context"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/repository"
)

// MockRepository wraps the in-memory store and lets tests inject save errors.
type MockRepository struct {
	*repository.MemoryRepository

	mu        sync.Mutex
	saveErrs  []error // consumed one per SaveOrder call
	saveCalls int
	saved     []*domain.Order
	gate      chan struct{}
}

func NewMockRepository(saveErrs ...error) *MockRepository {
	return &MockRepository{
		MemoryRepository: repository.NewMemoryRepository(),
		saveErrs:         saveErrs,
	}
}

func (m *MockRepository) SaveOrder(ctx context.Context, order *domain.Order) error {
	if m.gate != nil {
		<-m.gate
	}

	m.mu.Lock()
	m.saveCalls++
	var err error
	if len(m.saveErrs) > 0 {
		err, m.saveErrs = m.saveErrs[0], m.saveErrs[1:]
	}
	m.mu.Unlock()

	if err != nil {
		return err
	}
	if err := m.MemoryRepository.SaveOrder(ctx, order); err != nil {
		return err
	}

	m.mu.Lock()
	m.saved = append(m.saved, order)
	m.mu.Unlock()
	return nil
}

func (m *MockRepository) SaveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveCalls
}

type MockLookup struct {
	products map[int64]*domain.Product
}

func (m *MockLookup) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return p, nil
}

var _ repository.OrderRepository = (*MockRepository)(nil)
