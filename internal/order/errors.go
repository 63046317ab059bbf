package order

import (
	"errors"

	"github.com/fjod/go_cart/storefront/internal/repository"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrDuplicateOrderCode = repository.ErrDuplicateOrderCode
)

// PersistenceError is returned when the order store rejects a commit.
// The cart and checkout session are left as they were.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "persist order: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
