package repository

import (
	"context"
	"sync"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]*domain.Order
	byCode     map[string]uuid.UUID
	byCheckout map[uuid.UUID]uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:       make(map[uuid.UUID]*domain.Order),
		byCode:     make(map[string]uuid.UUID),
		byCheckout: make(map[uuid.UUID]uuid.UUID),
	}
}

func (m *MemoryRepository) SaveOrder(ctx context.Context, order *domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byCheckout[order.CheckoutID]; ok {
		return ErrDuplicateCheckout
	}
	if _, ok := m.byCode[order.Code]; ok {
		return ErrDuplicateOrderCode
	}

	m.byID[order.ID] = copyOrder(order)
	m.byCode[order.Code] = order.ID
	m.byCheckout[order.CheckoutID] = order.ID
	return nil
}

func (m *MemoryRepository) LoadOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.byID[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return copyOrder(o), nil
}

func (m *MemoryRepository) LoadOrderByCode(ctx context.Context, code string) (*domain.Order, error) {
	m.mu.RLock()
	id, ok := m.byCode[code]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrOrderNotFound
	}
	return m.LoadOrder(ctx, id)
}

func (m *MemoryRepository) LoadOrderByCheckout(ctx context.Context, checkoutID uuid.UUID) (*domain.Order, error) {
	m.mu.RLock()
	id, ok := m.byCheckout[checkoutID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrOrderNotFound
	}
	return m.LoadOrder(ctx, id)
}

func (m *MemoryRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.byID[id]
	if !ok {
		return false, ErrOrderNotFound
	}
	if o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (m *MemoryRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

func copyOrder(o *domain.Order) *domain.Order {
	c := *o
	c.Items = append([]domain.OrderItem(nil), o.Items...)
	if o.Address != nil {
		a := *o.Address
		c.Address = &a
	}
	return &c
}
