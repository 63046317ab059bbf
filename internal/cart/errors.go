package cart

import (
	"errors"

	"github.com/fjod/go_cart/storefront/internal/catalog"
)

var (
	ErrProductNotFound = catalog.ErrProductNotFound
	ErrOutOfStock      = errors.New("product is out of stock")
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 999")
	ErrInvalidVariant  = errors.New("variant not offered for product")
	ErrLineNotFound    = errors.New("cart line not found")
)
