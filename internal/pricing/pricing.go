// Package pricing derives cart totals. Every function here is pure and
// works on exact decimals; rounding happens only in Format.
package pricing

import (
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

type Policy struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	TaxRate               decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{
		FreeShippingThreshold: decimal.RequireFromString("150.00"),
		FlatShippingFee:       decimal.RequireFromString("9.90"),
		TaxRate:               decimal.RequireFromString("0.18"),
	}
}

// Quote is the derived pricing snapshot of a cart. It is never stored on the cart.
type Quote struct {
	Subtotal             decimal.Decimal
	Shipping             decimal.Decimal
	Tax                  decimal.Decimal
	Total                decimal.Decimal
	AmountToFreeShipping decimal.Decimal
	FreeShipping         bool
}

func Subtotal(items []domain.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

func Total(subtotal, shipping decimal.Decimal) decimal.Decimal {
	return subtotal.Add(shipping)
}

// Shipping is free for store pickup and for subtotals at or above the threshold.
func (p Policy) Shipping(subtotal decimal.Decimal, mode domain.DeliveryMode) decimal.Decimal {
	if mode == domain.DeliveryPickup || subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.FlatShippingFee
}

func (p Policy) AmountToFreeShipping(subtotal decimal.Decimal) decimal.Decimal {
	left := p.FreeShippingThreshold.Sub(subtotal)
	if left.IsNegative() {
		return decimal.Zero
	}
	return left
}

// Tax is TaxRate applied to the post-shipping total. It is shown alongside the
// quote and never added to the total.
func (p Policy) Tax(total decimal.Decimal) decimal.Decimal {
	return total.Mul(p.TaxRate)
}

func (p Policy) Quote(items []domain.LineItem, mode domain.DeliveryMode) Quote {
	sub := Subtotal(items)
	ship := p.Shipping(sub, mode)
	total := Total(sub, ship)
	return Quote{
		Subtotal:             sub,
		Shipping:             ship,
		Tax:                  p.Tax(total),
		Total:                total,
		AmountToFreeShipping: p.AmountToFreeShipping(sub),
		FreeShipping:         ship.IsZero(),
	}
}

func (q Quote) Totals() domain.Totals {
	return domain.Totals{
		Subtotal: q.Subtotal,
		Shipping: q.Shipping,
		Tax:      q.Tax,
		Total:    q.Total,
	}
}

// Format renders an amount with two decimals for presentation.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
