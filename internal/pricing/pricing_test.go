package pricing

import (
	"testing"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(price string, qty int) domain.LineItem {
	return domain.LineItem{UnitPrice: d(price), Quantity: qty}
}

func TestSubtotal(t *testing.T) {
	assert.True(t, Subtotal(nil).IsZero())

	items := []domain.LineItem{item("59.90", 2), item("0.10", 3)}
	assert.True(t, Subtotal(items).Equal(d("120.10")))
}

func TestSubtotal_NoFloatDrift(t *testing.T) {
	items := make([]domain.LineItem, 0, 10)
	for i := 0; i < 10; i++ {
		items = append(items, item("0.10", 1))
	}
	assert.Equal(t, "1", Subtotal(items).String())
}

func TestShipping(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name     string
		subtotal string
		mode     domain.DeliveryMode
		want     string
	}{
		{"below threshold home", "149.99", domain.DeliveryHome, "9.90"},
		{"at threshold home", "150.00", domain.DeliveryHome, "0"},
		{"above threshold home", "160.00", domain.DeliveryHome, "0"},
		{"pickup is free", "1.00", domain.DeliveryPickup, "0"},
		{"empty cart home", "0", domain.DeliveryHome, "9.90"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Shipping(d(tt.subtotal), tt.mode)
			assert.True(t, got.Equal(d(tt.want)), "got %s", got)
		})
	}
}

func TestAmountToFreeShipping(t *testing.T) {
	p := DefaultPolicy()

	assert.True(t, p.AmountToFreeShipping(d("150")).IsZero())
	assert.True(t, p.AmountToFreeShipping(d("200")).IsZero())
	assert.True(t, p.AmountToFreeShipping(d("0")).Equal(d("150")))
	assert.True(t, p.AmountToFreeShipping(d("120.00")).Equal(d("30")))
}

func TestTax_IsInformational(t *testing.T) {
	p := DefaultPolicy()
	q := p.Quote([]domain.LineItem{item("120.00", 1)}, domain.DeliveryHome)

	assert.True(t, q.Total.Equal(d("129.90")))
	assert.True(t, q.Tax.Equal(d("23.382")), "got %s", q.Tax)
	assert.True(t, q.Total.Equal(q.Subtotal.Add(q.Shipping)), "tax must not be added to the total")
}

func TestQuote_Progression(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		items    []domain.LineItem
		subtotal string
		shipping string
		total    string
	}{
		{[]domain.LineItem{item("120.00", 1)}, "120.00", "9.90", "129.90"},
		{[]domain.LineItem{item("120.00", 1), item("20.00", 1)}, "140.00", "9.90", "149.90"},
		{[]domain.LineItem{item("120.00", 1), item("20.00", 2)}, "160.00", "0", "160.00"},
	}

	for _, tt := range tests {
		q := p.Quote(tt.items, domain.DeliveryHome)
		assert.Equal(t, Format(d(tt.subtotal)), Format(q.Subtotal))
		assert.Equal(t, Format(d(tt.shipping)), Format(q.Shipping))
		assert.Equal(t, Format(d(tt.total)), Format(q.Total))
	}
}

func TestQuote_ProgressionWithMultiUnitLine(t *testing.T) {
	p := DefaultPolicy()
	jeans := item("50.00", 2)

	tests := []struct {
		poloQty  int
		subtotal string
		shipping string
		total    string
	}{
		{1, "120.00", "9.90", "129.90"},
		{2, "140.00", "9.90", "149.90"},
		{3, "160.00", "0.00", "160.00"},
	}

	for _, tt := range tests {
		q := p.Quote([]domain.LineItem{jeans, item("20.00", tt.poloQty)}, domain.DeliveryHome)
		assert.Equal(t, tt.subtotal, Format(q.Subtotal), "polo qty %d", tt.poloQty)
		assert.Equal(t, tt.shipping, Format(q.Shipping), "polo qty %d", tt.poloQty)
		assert.Equal(t, tt.total, Format(q.Total), "polo qty %d", tt.poloQty)
	}
}

func TestQuote_Pickup(t *testing.T) {
	q := DefaultPolicy().Quote([]domain.LineItem{item("10.00", 1)}, domain.DeliveryPickup)

	assert.True(t, q.FreeShipping)
	assert.True(t, q.Shipping.IsZero())
	assert.True(t, q.AmountToFreeShipping.Equal(d("140")), "progress is independent of delivery mode")
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "23.38", Format(d("23.382")))
	assert.Equal(t, "0.00", Format(decimal.Zero))
	assert.Equal(t, "9.90", Format(d("9.9")))
}
