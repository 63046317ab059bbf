// Package storefront wires the cart, checkout and order commit together for a
// shopper session. Every call loads the session, applies one change and saves
// it back while holding the session's lock.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/metrics"
	"github.com/fjod/go_cart/storefront/internal/order"
	"github.com/fjod/go_cart/storefront/internal/pricing"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/fjod/go_cart/storefront/internal/session"
	"go.uber.org/zap"
)

var ErrMissingSession = errors.New("session id is required")

// View is what the shopper sees after each call.
type View struct {
	SessionID string
	Cart      domain.Cart
	Quote     pricing.Quote
	Checkout  checkout.State
}

type SubmitResult struct {
	Receipt *order.Receipt
	View    *View
}

type Service struct {
	catalog   catalog.Catalog
	sessions  session.Store
	orders    repository.OrderRepository
	committer *order.Committer
	policy    pricing.Policy
	metrics   *metrics.Metrics
	logger    *zap.Logger
	locks     stripedMutex
	now       func() time.Time
}

func NewService(
	cat catalog.Catalog,
	sessions session.Store,
	orders repository.OrderRepository,
	committer *order.Committer,
	policy pricing.Policy,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		catalog:   cat,
		sessions:  sessions,
		orders:    orders,
		committer: committer,
		policy:    policy,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

type shopper struct {
	cart     *cart.Store
	checkout *checkout.Session
}

func (s *Service) load(ctx context.Context, sid string) (*shopper, error) {
	st, err := s.sessions.Get(ctx, sid)
	if errors.Is(err, session.ErrSessionNotFound) {
		return &shopper{
			cart:     cart.New(s.catalog, s.logger),
			checkout: checkout.NewSession(),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	return &shopper{
		cart:     cart.Restore(s.catalog, s.logger, st.Cart),
		checkout: checkout.Restore(st.Checkout),
	}, nil
}

func (s *Service) save(ctx context.Context, sid string, sh *shopper) error {
	st := &session.State{
		ID:        sid,
		Cart:      sh.cart.Snapshot(),
		Checkout:  sh.checkout.State(),
		UpdatedAt: s.now().UTC(),
	}
	if err := s.sessions.Set(ctx, st); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Service) view(sid string, sh *shopper) *View {
	return &View{
		SessionID: sid,
		Cart:      sh.cart.Snapshot(),
		Quote:     s.policy.Quote(sh.cart.Items(), sh.checkout.DeliveryMode()),
		Checkout:  sh.checkout.State(),
	}
}

// mutate runs fn against the session and persists the result only when fn succeeds.
func (s *Service) mutate(ctx context.Context, sid string, fn func(*shopper) error) (*View, error) {
	if sid == "" {
		return nil, ErrMissingSession
	}
	unlock := s.locks.lock(sid)
	defer unlock()

	sh, err := s.load(ctx, sid)
	if err != nil {
		return nil, err
	}
	if err := fn(sh); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sid, sh); err != nil {
		return nil, err
	}
	return s.view(sid, sh), nil
}

func (s *Service) read(ctx context.Context, sid string) (*View, error) {
	if sid == "" {
		return nil, ErrMissingSession
	}
	unlock := s.locks.lock(sid)
	defer unlock()

	sh, err := s.load(ctx, sid)
	if err != nil {
		return nil, err
	}
	return s.view(sid, sh), nil
}

func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.catalog.ListProducts(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.catalog.GetProduct(ctx, id)
}

func (s *Service) GetCart(ctx context.Context, sid string) (*View, error) {
	return s.read(ctx, sid)
}

func (s *Service) AddItem(ctx context.Context, sid string, req cart.AddItemRequest) (*View, error) {
	return s.mutate(ctx, sid, func(sh *shopper) error {
		line, err := sh.cart.AddItem(ctx, req)
		if err != nil {
			return err
		}
		// a submitted checkout belongs to its order; new items start a new one
		if sh.checkout.IsSubmitted() {
			sh.checkout = checkout.NewSession()
			logger.WithContext(ctx, s.logger).Info("new checkout started after submitted order",
				zap.String("session_id", sid),
				zap.String("checkout_id", sh.checkout.ID().String()))
		}
		added := req.Quantity
		if added == 0 {
			added = 1
		}
		s.metrics.ItemsAdded.Add(float64(added))
		logger.WithContext(ctx, s.logger).Info("item added to cart",
			zap.String("session_id", sid),
			zap.Int64("product_id", line.ProductID),
			zap.Int("quantity", line.Quantity))
		return nil
	})
}

func (s *Service) UpdateQuantity(ctx context.Context, sid string, index, delta int) (*View, error) {
	return s.mutate(ctx, sid, func(sh *shopper) error {
		return sh.cart.UpdateQuantity(index, delta)
	})
}

func (s *Service) SetQuantity(ctx context.Context, sid string, index, quantity int) (*View, error) {
	return s.mutate(ctx, sid, func(sh *shopper) error {
		return sh.cart.SetQuantity(index, quantity)
	})
}

func (s *Service) RemoveItem(ctx context.Context, sid string, index int) (*View, error) {
	return s.mutate(ctx, sid, func(sh *shopper) error {
		sh.cart.RemoveItem(index)
		return nil
	})
}

func (s *Service) ClearCart(ctx context.Context, sid string) (*View, error) {
	return s.mutate(ctx, sid, func(sh *shopper) error {
		sh.cart.Clear()
		return nil
	})
}

func (s *Service) OpenCart(ctx context.Context, sid string) (*View, error) {
	return s.mutate(ctx, sid, func(sh *shopper) error {
		sh.cart.Open()
		return nil
	})
}

func (s *Service) CloseCart(ctx context.Context, sid string) (*View, error) {
	return s.mutate(ctx, sid, func(sh *shopper) error {
		sh.cart.Close()
		return nil
	})
}

func (s *Service) ToggleCart(ctx context.Context, sid string) (*View, error) {
	return s.mutate(ctx, sid, func(sh *shopper) error {
		sh.cart.Toggle()
		return nil
	})
}

func (s *Service) GetCheckout(ctx context.Context, sid string) (*View, error) {
	return s.read(ctx, sid)
}

func (s *Service) SetCustomer(ctx context.Context, sid string, c domain.CustomerInfo) (*View, error) {
	return s.mutate(ctx, sid, func(sh *shopper) error {
		return sh.checkout.SetCustomer(c)
	})
}

func (s *Service) SetShipping(ctx context.Context, sid string, info domain.ShippingInfo) (*View, error) {
	return s.mutate(ctx, sid, func(sh *shopper) error {
		return sh.checkout.SetShipping(info)
	})
}

func (s *Service) SetPayment(ctx context.Context, sid string, p domain.PaymentInfo) (*View, error) {
	return s.mutate(ctx, sid, func(sh *shopper) error {
		return sh.checkout.SetPayment(p)
	})
}

func (s *Service) NextStep(ctx context.Context, sid string) (*View, error) {
	return s.mutate(ctx, sid, func(sh *shopper) error {
		err := sh.checkout.Next()
		s.countValidation(err)
		return err
	})
}

func (s *Service) PreviousStep(ctx context.Context, sid string) (*View, error) {
	return s.mutate(ctx, sid, func(sh *shopper) error {
		return sh.checkout.Back()
	})
}

// RestartCheckout discards the current checkout and starts a new one at the
// customer step. The cart is kept.
func (s *Service) RestartCheckout(ctx context.Context, sid string) (*View, error) {
	return s.mutate(ctx, sid, func(sh *shopper) error {
		sh.checkout = checkout.NewSession()
		return nil
	})
}

// Submit commits the session's cart as an order. Payment details, when given,
// are applied first; card data is only ever held for this call.
func (s *Service) Submit(ctx context.Context, sid string, payment *domain.PaymentInfo) (*SubmitResult, error) {
	if sid == "" {
		return nil, ErrMissingSession
	}
	unlock := s.locks.lock(sid)
	defer unlock()

	log := logger.WithContext(ctx, s.logger).With(zap.String("session_id", sid))

	sh, err := s.load(ctx, sid)
	if err != nil {
		return nil, err
	}
	if payment != nil && !sh.checkout.IsSubmitted() {
		if err := sh.checkout.SetPayment(*payment); err != nil {
			return nil, err
		}
	}

	receipt, err := s.committer.Submit(ctx, sh.cart, sh.checkout)
	if err != nil {
		s.countValidation(err)
		s.metrics.CommitFailures.WithLabelValues(failureReason(err)).Inc()
		log.Warn("order submit failed", zap.Error(err))
		return nil, err
	}

	if receipt.Replayed {
		s.metrics.OrderReplays.Inc()
	} else {
		s.metrics.OrdersCommitted.Inc()
		s.metrics.OrderValue.Observe(receipt.Totals.Total.InexactFloat64())
	}

	// the order exists now; a failed session save is repaired by the replay path on the next submit
	if err := s.save(ctx, sid, sh); err != nil {
		log.Error("order committed but session not saved", zap.String("code", receipt.Code), zap.Error(err))
	}

	return &SubmitResult{Receipt: receipt, View: s.view(sid, sh)}, nil
}

func (s *Service) GetOrderByCode(ctx context.Context, code string) (*domain.Order, error) {
	return s.orders.LoadOrderByCode(ctx, code)
}

func (s *Service) countValidation(err error) {
	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		s.metrics.ValidationFailures.WithLabelValues(verr.Step, verr.Field).Inc()
	}
}

func failureReason(err error) string {
	var verr *checkout.ValidationError
	var perr *order.PersistenceError
	switch {
	case errors.Is(err, order.ErrEmptyCart):
		return "empty_cart"
	case errors.As(err, &verr):
		return "validation"
	case errors.Is(err, checkout.ErrInvalidTransition):
		return "wrong_step"
	case errors.Is(err, checkout.ErrSessionClosed):
		return "closed"
	case errors.Is(err, order.ErrDuplicateOrderCode):
		return "code_exhausted"
	case errors.As(err, &perr):
		return "persistence"
	default:
		return "other"
	}
}
