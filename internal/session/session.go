// Package session persists a shopper's cart and checkout progress between requests.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/fjod/go_cart/storefront/internal/domain"
)

var ErrSessionNotFound = errors.New("session not found")

type State struct {
	ID        string         `json:"id"`
	Cart      domain.Cart    `json:"cart"`
	Checkout  checkout.State `json:"checkout"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type Store interface {
	Get(ctx context.Context, id string) (*State, error)
	Set(ctx context.Context, st *State) error
	Delete(ctx context.Context, id string) error
}
