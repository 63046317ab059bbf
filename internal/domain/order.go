package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

type OrderItem struct {
	ProductID int64           `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	SizeCode  string          `json:"size_code,omitempty"`
	ColorName string          `json:"color_name,omitempty"`
	Quantity  int             `json:"quantity"`
}

type Address struct {
	Street     string `json:"address"`
	District   string `json:"district"`
	Province   string `json:"province"`
	Department string `json:"department"`
	Reference  string `json:"reference,omitempty"`
}

// OrderPayment is the persisted payment summary. Only the last four card
// digits are kept.
type OrderPayment struct {
	Method          PaymentMethod `json:"method"`
	CardLast4       string        `json:"card_last4,omitempty"`
	CardholderName  string        `json:"cardholder_name,omitempty"`
	OperationCode   string        `json:"operation_code,omitempty"`
	BankName        string        `json:"bank_name,omitempty"`
	OperationNumber string        `json:"operation_number,omitempty"`
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Order is immutable once committed.
type Order struct {
	ID           uuid.UUID    `json:"id"`
	Code         string       `json:"code"`
	CheckoutID   uuid.UUID    `json:"checkout_id"`
	Status       OrderStatus  `json:"status"`
	Customer     CustomerInfo `json:"customer"`
	DeliveryMode DeliveryMode `json:"delivery_mode"`
	Address      *Address     `json:"address,omitempty"`
	Payment      OrderPayment `json:"payment"`
	Items        []OrderItem  `json:"items"`
	Totals       Totals       `json:"totals"`
	CreatedAt    time.Time    `json:"created_at"`
}

// MaskCard keeps only the last four digits of a card number.
func MaskCard(number string) string {
	digits := make([]byte, 0, len(number))
	for i := 0; i < len(number); i++ {
		if number[i] >= '0' && number[i] <= '9' {
			digits = append(digits, number[i])
		}
	}
	if len(digits) <= 4 {
		return string(digits)
	}
	return string(digits[len(digits)-4:])
}
