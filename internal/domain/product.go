package domain

import "github.com/shopspring/decimal"

type Size struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
}

type Color struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Hex  string `json:"hex,omitempty"`
}

// Product is the catalog view of a sellable item as seen by the cart.
type Product struct {
	ID        int64            `json:"id"`
	SKU       string           `json:"sku"`
	Name      string           `json:"name"`
	ListPrice decimal.Decimal  `json:"list_price"`
	SalePrice *decimal.Decimal `json:"sale_price,omitempty"`
	OnSale    bool             `json:"on_sale"`
	Stock     int              `json:"stock"`
	Sizes     []Size           `json:"sizes,omitempty"`
	Colors    []Color          `json:"colors,omitempty"`
	Thumbnail string           `json:"thumbnail,omitempty"`
}

// EffectivePrice is the sale price when the product is on sale, otherwise the list price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.OnSale && p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.ListPrice
}

func (p *Product) FindSize(id int64) (Size, bool) {
	for _, s := range p.Sizes {
		if s.ID == id {
			return s, true
		}
	}
	return Size{}, false
}

func (p *Product) FindColor(id int64) (Color, bool) {
	for _, c := range p.Colors {
		if c.ID == id {
			return c, true
		}
	}
	return Color{}, false
}
