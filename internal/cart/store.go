// Package cart holds the shopper's cart state. A Store has a single owner and
// is not safe for concurrent use; callers serialise access per session.
package cart

import (
	"context"
	"fmt"

	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"go.uber.org/zap"
)

// MaxLineQuantity caps a single line.
const MaxLineQuantity = 999

type AddItemRequest struct {
	ProductID int64
	Quantity  int // 0 means 1
	SizeID    int64
	ColorID   int64
}

type Store struct {
	catalog catalog.Lookup
	items   []domain.LineItem
	open    bool
	logger  *zap.Logger
}

func New(lookup catalog.Lookup, logger *zap.Logger) *Store {
	return &Store{
		catalog: lookup,
		logger:  logger,
	}
}

// Restore rebuilds a store from a previously taken snapshot.
func Restore(lookup catalog.Lookup, logger *zap.Logger, snapshot domain.Cart) *Store {
	s := New(lookup, logger)
	s.items = append([]domain.LineItem(nil), snapshot.Items...)
	s.open = snapshot.Open
	return s
}

// AddItem adds a product to the cart, merging with an existing line that has
// the same product, size and color. The unit price is captured now.
// On error the cart is unchanged.
func (s *Store) AddItem(ctx context.Context, req AddItemRequest) (domain.LineItem, error) {
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 || qty > MaxLineQuantity {
		return domain.LineItem{}, ErrInvalidQuantity
	}

	product, err := s.catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("lookup product %d: %w", req.ProductID, err)
	}
	if product.Stock <= 0 {
		return domain.LineItem{}, ErrOutOfStock
	}

	line := domain.LineItem{
		ProductID: product.ID,
		SKU:       product.SKU,
		Name:      product.Name,
		UnitPrice: product.EffectivePrice(),
		Quantity:  qty,
		Thumbnail: product.Thumbnail,
	}

	if req.SizeID != 0 {
		size, ok := product.FindSize(req.SizeID)
		if !ok {
			return domain.LineItem{}, fmt.Errorf("size %d: %w", req.SizeID, ErrInvalidVariant)
		}
		line.SizeID, line.SizeCode = size.ID, size.Code
	}
	if req.ColorID != 0 {
		color, ok := product.FindColor(req.ColorID)
		if !ok {
			return domain.LineItem{}, fmt.Errorf("color %d: %w", req.ColorID, ErrInvalidVariant)
		}
		line.ColorID, line.ColorName = color.ID, color.Name
	}

	i := s.indexOf(line.Key())
	if i >= 0 && s.items[i].Quantity > MaxLineQuantity-qty {
		return domain.LineItem{}, fmt.Errorf("merge into line %d: %w", i, ErrInvalidQuantity)
	}

	s.open = true

	if i >= 0 {
		s.items[i].Quantity += qty
		s.logger.Debug("cart line merged",
			zap.Int64("product_id", line.ProductID),
			zap.Int("quantity", s.items[i].Quantity))
		return s.items[i], nil
	}

	s.items = append(s.items, line)
	s.logger.Debug("cart line added",
		zap.Int64("product_id", line.ProductID),
		zap.String("unit_price", line.UnitPrice.String()),
		zap.Int("quantity", qty))
	return line, nil
}

// UpdateQuantity adds delta to the line quantity. A change that would take
// the quantity below 1 is ignored; one above MaxLineQuantity is rejected.
func (s *Store) UpdateQuantity(index, delta int) error {
	if index < 0 || index >= len(s.items) {
		return ErrLineNotFound
	}

	if delta > MaxLineQuantity-s.items[index].Quantity {
		return ErrInvalidQuantity
	}
	next := s.items[index].Quantity + delta
	if next < 1 {
		return nil
	}
	s.items[index].Quantity = next
	return nil
}

func (s *Store) SetQuantity(index, quantity int) error {
	if index < 0 || index >= len(s.items) {
		return ErrLineNotFound
	}
	if quantity < 1 || quantity > MaxLineQuantity {
		return ErrInvalidQuantity
	}
	s.items[index].Quantity = quantity
	return nil
}

// RemoveItem deletes the line at index. Out of range indexes are ignored.
func (s *Store) RemoveItem(index int) {
	if index < 0 || index >= len(s.items) {
		return
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
}

func (s *Store) Clear() {
	s.items = nil
}

func (s *Store) Open() {
	s.open = true
}

func (s *Store) Close() {
	s.open = false
}

func (s *Store) Toggle() {
	s.open = !s.open
}

func (s *Store) IsOpen() bool {
	return s.open
}

func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) IsEmpty() bool {
	return len(s.items) == 0
}

// Items returns a copy of the lines in display order.
func (s *Store) Items() []domain.LineItem {
	return append([]domain.LineItem(nil), s.items...)
}

func (s *Store) Snapshot() domain.Cart {
	return domain.Cart{
		Items: s.Items(),
		Open:  s.open,
	}
}

func (s *Store) indexOf(key domain.LineKey) int {
	for i, it := range s.items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}
