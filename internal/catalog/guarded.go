package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type BreakerSettings struct {
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             10 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// Guarded wraps a Catalog with a circuit breaker and collapses concurrent
// lookups of the same product into one backend call.
type Guarded struct {
	next   Catalog
	cb     *gobreaker.CircuitBreaker[any]
	sfg    singleflight.Group
	logger *zap.Logger
}

func NewGuarded(next Catalog, s BreakerSettings, logger *zap.Logger) *Guarded {
	g := &Guarded{next: next, logger: logger}
	g.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "catalog",
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		// a missing product is an answer, not a backend failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrProductNotFound) || errors.Is(err, context.Canceled)
		},
	})
	return g
}

func (g *Guarded) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	v, err, _ := g.sfg.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {
		return g.cb.Execute(func() (any, error) {
			return g.next.GetProduct(ctx, id)
		})
	})
	if err != nil {
		return nil, g.translate(err)
	}

	// callers sharing a singleflight result must not share the pointer
	return clone(*v.(*domain.Product)), nil
}

func (g *Guarded) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	v, err := g.cb.Execute(func() (any, error) {
		return g.next.ListProducts(ctx)
	})
	if err != nil {
		return nil, g.translate(err)
	}
	return v.([]*domain.Product), nil
}

func (g *Guarded) State() gobreaker.State {
	return g.cb.State()
}

func (g *Guarded) translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		g.logger.Warn("catalog call rejected", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return err
}
