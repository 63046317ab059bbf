package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testProduct(id int64) *domain.Product {
	return &domain.Product{ID: id, SKU: "SKU", Name: "Polo", ListPrice: decimal.RequireFromString("20.00"), Stock: 3}
}

func testSettings() BreakerSettings {
	return BreakerSettings{MaxRequests: 1, Interval: time.Minute, Timeout: time.Hour, ConsecutiveFailures: 2}
}

func TestGuarded_GetProduct_PassesThrough(t *testing.T) {
	mock := NewMockCatalog(testProduct(1))
	g := NewGuarded(mock, testSettings(), zap.NewNop())

	p, err := g.GetProduct(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.NotSame(t, mock.products[1], p)
}

func TestGuarded_NotFoundDoesNotTrip(t *testing.T) {
	g := NewGuarded(NewMockCatalog(), testSettings(), zap.NewNop())

	for i := 0; i < 5; i++ {
		_, err := g.GetProduct(context.Background(), 42)
		assert.ErrorIs(t, err, ErrProductNotFound)
	}

	assert.Equal(t, gobreaker.StateClosed, g.State())
}

func TestGuarded_OpensAfterFailures(t *testing.T) {
	mock := NewMockCatalog(testProduct(1))
	mock.SetError(errors.New("connection refused"))
	g := NewGuarded(mock, testSettings(), zap.NewNop())

	for i := 0; i < 2; i++ {
		_, err := g.GetProduct(context.Background(), 1)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrCatalogUnavailable)
	}

	_, err := g.GetProduct(context.Background(), 1)
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.Equal(t, gobreaker.StateOpen, g.State())
	assert.Equal(t, int32(2), mock.calls.Load(), "open breaker must not reach the backend")
}

func TestGuarded_CollapsesConcurrentLookups(t *testing.T) {
	mock := NewMockCatalog(testProduct(7))
	mock.gate = make(chan struct{})
	g := NewGuarded(mock, testSettings(), zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := g.GetProduct(context.Background(), 7)
			assert.NoError(t, err)
			assert.Equal(t, int64(7), p.ID)
		}()
	}

	require.Eventually(t, func() bool { return mock.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(mock.gate)
	wg.Wait()

	assert.Less(t, mock.calls.Load(), int32(10))
}
