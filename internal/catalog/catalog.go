// Package catalog provides product lookups for the cart.
package catalog

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// Lookup is the only thing the cart needs from the catalog.
type Lookup interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}

type Catalog interface {
	Lookup
	ListProducts(ctx context.Context) ([]*domain.Product, error)
}
