package domain

import "github.com/shopspring/decimal"

// LineItem is one row of the cart. UnitPrice is captured when the item is
// added and is never re-derived from the catalog afterwards.
// SizeID and ColorID are zero when no variant was selected.
type LineItem struct {
	ProductID int64           `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	SizeID    int64           `json:"size_id,omitempty"`
	SizeCode  string          `json:"size_code,omitempty"`
	ColorID   int64           `json:"color_id,omitempty"`
	ColorName string          `json:"color_name,omitempty"`
	Quantity  int             `json:"quantity"`
	Thumbnail string          `json:"thumbnail,omitempty"`
}

// LineKey identifies a line within a cart.
type LineKey struct {
	ProductID int64
	SizeID    int64
	ColorID   int64
}

func (l LineItem) Key() LineKey {
	return LineKey{ProductID: l.ProductID, SizeID: l.SizeID, ColorID: l.ColorID}
}

// LineTotal is UnitPrice * Quantity.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is a value snapshot of the cart state.
type Cart struct {
	Items []LineItem `json:"items"`
	Open  bool       `json:"open"`
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}
