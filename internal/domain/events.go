package domain

import (
	"time"

	"github.com/google/uuid"
)

const EventTypeOrderPlaced = "OrderPlaced"

// OrderPlaced is published once an order has been committed.
type OrderPlaced struct {
	OrderID      uuid.UUID    `json:"order_id"`
	Code         string       `json:"code"`
	CheckoutID   uuid.UUID    `json:"checkout_id"`
	Email        string       `json:"email"`
	DeliveryMode DeliveryMode `json:"delivery_mode"`
	Items        []OrderItem  `json:"items"`
	Total        string       `json:"total"`
	PlacedAt     time.Time    `json:"placed_at"`
}

func NewOrderPlaced(o *Order) OrderPlaced {
	return OrderPlaced{
		OrderID:      o.ID,
		Code:         o.Code,
		CheckoutID:   o.CheckoutID,
		Email:        o.Customer.Email,
		DeliveryMode: o.DeliveryMode,
		Items:        o.Items,
		Total:        o.Totals.Total.StringFixed(2),
		PlacedAt:     o.CreatedAt,
	}
}
