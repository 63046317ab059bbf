package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrDuplicateOrderCode = errors.New("order code already exists")
	ErrDuplicateCheckout  = errors.New("checkout already committed")
)

// OrderRepository persists committed orders.
type OrderRepository interface {
	SaveOrder(ctx context.Context, order *domain.Order) error
	LoadOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	LoadOrderByCode(ctx context.Context, code string) (*domain.Order, error)
	LoadOrderByCheckout(ctx context.Context, checkoutID uuid.UUID) (*domain.Order, error)
}

// StatusUpdater moves an order from one status to another. It reports false
// when the order was not in the expected status.
type StatusUpdater interface {
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) (bool, error)
}

// OutboxRepository is implemented by stores that write an outbox row in the
// same transaction as the order.
type OutboxRepository interface {
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int64) error
}

type OutboxEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     json.RawMessage
	CreatedAt   time.Time
}

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}
