// Package order turns a validated checkout into a persisted order.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cart"
	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/pricing"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const maxCodeAttempts = 5

type Receipt struct {
	OrderID  uuid.UUID
	Code     string
	Totals   domain.Totals
	Replayed bool
}

type Option func(*Committer)

func WithClock(now func() time.Time) Option {
	return func(c *Committer) { c.now = now }
}

func WithCodeGenerator(gen CodeGenerator) Option {
	return func(c *Committer) { c.code = gen }
}

type Committer struct {
	repo   repository.OrderRepository
	policy pricing.Policy
	logger *zap.Logger
	now    func() time.Time
	code   CodeGenerator
	sfg    singleflight.Group
}

func NewCommitter(repo repository.OrderRepository, policy pricing.Policy, logger *zap.Logger, opts ...Option) *Committer {
	c := &Committer{
		repo:   repo,
		policy: policy,
		logger: logger,
		now:    time.Now,
		code:   RandomCode,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit commits the cart as an order. The order is persisted before the cart
// is cleared and the session marked submitted, so a failed save loses nothing.
// Submitting an already submitted session returns the original receipt, as
// long as the cart is still the emptied one from that commit.
func (c *Committer) Submit(ctx context.Context, items *cart.Store, session *checkout.Session) (*Receipt, error) {
	if session.IsSubmitted() {
		if !items.IsEmpty() {
			return nil, checkout.ErrSessionClosed
		}
		return c.replay(ctx, session)
	}

	// Concurrent submits of one checkout share the first caller's result.
	// Only the caller that ran the commit mutates its own cart and session.
	v, err, shared := c.sfg.Do(session.ID().String(), func() (interface{}, error) {
		return c.commit(ctx, items, session)
	})
	if err != nil {
		return nil, err
	}

	receipt := *v.(*Receipt)
	if shared && !session.IsSubmitted() {
		items.Clear()
		session.AttachOrder(receipt.OrderID, receipt.Code)
		receipt.Replayed = true
	}
	return &receipt, nil
}

func (c *Committer) commit(ctx context.Context, items *cart.Store, session *checkout.Session) (*Receipt, error) {
	if items.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if err := session.ValidateSubmission(); err != nil {
		return nil, err
	}

	quote := c.policy.Quote(items.Items(), session.DeliveryMode())
	order := c.buildOrder(items.Items(), session, quote)

	replayed := false
	err := c.save(ctx, order)
	if errors.Is(err, repository.ErrDuplicateCheckout) {
		existing, loadErr := c.repo.LoadOrderByCheckout(ctx, session.ID())
		if loadErr != nil {
			return nil, &PersistenceError{Err: loadErr}
		}
		c.logger.Info("checkout already committed, replaying order",
			zap.String("checkout_id", session.ID().String()),
			zap.String("code", existing.Code))
		order = existing
		replayed = true
	} else if err != nil {
		return nil, err
	}

	if err := session.MarkSubmitted(order.ID, order.Code); err != nil {
		return nil, fmt.Errorf("mark submitted: %w", err)
	}
	items.Clear()

	c.logger.Info("order committed",
		zap.String("order_id", order.ID.String()),
		zap.String("code", order.Code),
		zap.String("total", order.Totals.Total.StringFixed(2)),
		zap.Bool("replayed", replayed))

	return &Receipt{
		OrderID:  order.ID,
		Code:     order.Code,
		Totals:   order.Totals,
		Replayed: replayed,
	}, nil
}

// save retries with a fresh code when the generated one is already taken.
func (c *Committer) save(ctx context.Context, order *domain.Order) error {
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		err := c.repo.SaveOrder(ctx, order)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, repository.ErrDuplicateOrderCode):
			c.logger.Warn("order code collision",
				zap.String("code", order.Code),
				zap.Int("attempt", attempt))
			order.Code = c.code(c.now())
		case errors.Is(err, repository.ErrDuplicateCheckout):
			return err
		default:
			c.logger.Error("failed to persist order", zap.Error(err))
			return &PersistenceError{Err: err}
		}
	}
	return ErrDuplicateOrderCode
}

func (c *Committer) replay(ctx context.Context, session *checkout.Session) (*Receipt, error) {
	id, _, _ := session.SubmittedOrder()
	order, err := c.repo.LoadOrder(ctx, id)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}
	return &Receipt{
		OrderID:  order.ID,
		Code:     order.Code,
		Totals:   order.Totals,
		Replayed: true,
	}, nil
}

func (c *Committer) buildOrder(lines []domain.LineItem, session *checkout.Session, quote pricing.Quote) *domain.Order {
	now := c.now().UTC()
	shipping := session.Shipping()
	payment := session.Payment()

	o := &domain.Order{
		ID:           uuid.New(),
		Code:         c.code(now),
		CheckoutID:   session.ID(),
		Status:       domain.OrderStatusPending,
		Customer:     session.Customer(),
		DeliveryMode: session.DeliveryMode(),
		Payment: domain.OrderPayment{
			Method:          payment.Method,
			CardholderName:  payment.CardholderName,
			OperationCode:   payment.OperationCode,
			BankName:        payment.BankName,
			OperationNumber: payment.OperationNumber,
		},
		Totals:    quote.Totals(),
		CreatedAt: now,
	}
	if payment.Method == domain.PaymentCard {
		o.Payment.CardLast4 = domain.MaskCard(payment.CardNumber)
	}
	if o.DeliveryMode == domain.DeliveryHome {
		o.Address = &domain.Address{
			Street:     shipping.Address,
			District:   shipping.District,
			Province:   shipping.Province,
			Department: shipping.Department,
			Reference:  shipping.Reference,
		}
	}

	for _, l := range lines {
		o.Items = append(o.Items, domain.OrderItem{
			ProductID: l.ProductID,
			SKU:       l.SKU,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			SizeCode:  l.SizeCode,
			ColorName: l.ColorName,
			Quantity:  l.Quantity,
		})
	}
	return o
}
