package http

import (
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/pricing"
	"github.com/fjod/go_cart/storefront/internal/storefront"
	"github.com/shopspring/decimal"
)

// Amounts are rendered as fixed two-decimal strings.

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	SizeID    int64 `json:"size_id"`
	ColorID   int64 `json:"color_id"`
}

type UpdateQuantityRequestDTO struct {
	Delta int `json:"delta"`
}

type SetQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type PaymentRequestDTO struct {
	Method          string `json:"method"`
	CardNumber      string `json:"card_number"`
	CardholderName  string `json:"cardholder_name"`
	Expiry          string `json:"expiry"`
	CVV             string `json:"cvv"`
	OperationCode   string `json:"operation_code"`
	BankName        string `json:"bank_name"`
	OperationNumber string `json:"operation_number"`
}

func (p PaymentRequestDTO) toDomain() domain.PaymentInfo {
	return domain.PaymentInfo{
		Method:          domain.PaymentMethod(p.Method),
		CardNumber:      p.CardNumber,
		CardholderName:  p.CardholderName,
		Expiry:          p.Expiry,
		CVV:             p.CVV,
		OperationCode:   p.OperationCode,
		BankName:        p.BankName,
		OperationNumber: p.OperationNumber,
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
	Step    string `json:"step,omitempty"`
	Field   string `json:"field,omitempty"`
}

type ProductResponse struct {
	ID        int64          `json:"id"`
	SKU       string         `json:"sku"`
	Name      string         `json:"name"`
	Price     string         `json:"price"`
	ListPrice string         `json:"list_price"`
	OnSale    bool           `json:"on_sale"`
	InStock   bool           `json:"in_stock"`
	Sizes     []domain.Size  `json:"sizes"`
	Colors    []domain.Color `json:"colors"`
	Thumbnail string         `json:"thumbnail,omitempty"`
}

type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
}

func convertProduct(p *domain.Product) ProductResponse {
	dto := ProductResponse{
		ID:        p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		Price:     pricing.Format(p.EffectivePrice()),
		ListPrice: pricing.Format(p.ListPrice),
		OnSale:    p.OnSale && p.SalePrice != nil,
		InStock:   p.Stock > 0,
		Sizes:     p.Sizes,
		Colors:    p.Colors,
		Thumbnail: p.Thumbnail,
	}
	if dto.Sizes == nil {
		dto.Sizes = []domain.Size{}
	}
	if dto.Colors == nil {
		dto.Colors = []domain.Color{}
	}
	return dto
}

type LineItemDTO struct {
	Index     int    `json:"index"`
	ProductID int64  `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	SizeID    int64  `json:"size_id,omitempty"`
	Size      string `json:"size,omitempty"`
	ColorID   int64  `json:"color_id,omitempty"`
	Color     string `json:"color,omitempty"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

type CartDTO struct {
	Items     []LineItemDTO `json:"items"`
	ItemCount int           `json:"item_count"`
	Open      bool          `json:"open"`
}

type QuoteDTO struct {
	Subtotal             string `json:"subtotal"`
	Shipping             string `json:"shipping"`
	Tax                  string `json:"tax"`
	Total                string `json:"total"`
	FreeShipping         bool   `json:"free_shipping"`
	AmountToFreeShipping string `json:"amount_to_free_shipping"`
}

type CheckoutDTO struct {
	CheckoutID string              `json:"checkout_id"`
	Step       int                 `json:"step"`
	StepName   string              `json:"step_name"`
	Customer   domain.CustomerInfo `json:"customer"`
	Shipping   domain.ShippingInfo `json:"shipping"`
	Payment    domain.PaymentInfo  `json:"payment"`
	OrderID    string              `json:"order_id,omitempty"`
	OrderCode  string              `json:"order_code,omitempty"`
}

type ViewResponse struct {
	SessionID string      `json:"session_id"`
	Cart      CartDTO     `json:"cart"`
	Totals    QuoteDTO    `json:"totals"`
	Checkout  CheckoutDTO `json:"checkout"`
}

func convertView(v *storefront.View) ViewResponse {
	items := make([]LineItemDTO, 0, len(v.Cart.Items))
	for i, it := range v.Cart.Items {
		items = append(items, LineItemDTO{
			Index:     i,
			ProductID: it.ProductID,
			SKU:       it.SKU,
			Name:      it.Name,
			UnitPrice: pricing.Format(it.UnitPrice),
			SizeID:    it.SizeID,
			Size:      it.SizeCode,
			ColorID:   it.ColorID,
			Color:     it.ColorName,
			Quantity:  it.Quantity,
			LineTotal: pricing.Format(it.LineTotal()),
			Thumbnail: it.Thumbnail,
		})
	}

	q := v.Quote
	co := CheckoutDTO{
		CheckoutID: v.Checkout.ID.String(),
		Step:       int(v.Checkout.Step),
		StepName:   v.Checkout.Step.String(),
		Customer:   v.Checkout.Customer,
		Shipping:   v.Checkout.Shipping,
		Payment:    v.Checkout.Payment,
		OrderCode:  v.Checkout.OrderCode,
	}
	if v.Checkout.OrderCode != "" {
		co.OrderID = v.Checkout.OrderID.String()
	}

	return ViewResponse{
		SessionID: v.SessionID,
		Cart: CartDTO{
			Items:     items,
			ItemCount: v.Cart.ItemCount(),
			Open:      v.Cart.Open,
		},
		Totals: QuoteDTO{
			Subtotal:             pricing.Format(q.Subtotal),
			Shipping:             pricing.Format(q.Shipping),
			Tax:                  pricing.Format(q.Tax),
			Total:                pricing.Format(q.Total),
			FreeShipping:         q.FreeShipping,
			AmountToFreeShipping: pricing.Format(q.AmountToFreeShipping),
		},
		Checkout: co,
	}
}

type ReceiptDTO struct {
	OrderID  string `json:"order_id"`
	Code     string `json:"code"`
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
	Replayed bool   `json:"replayed"`
}

type SubmitResponse struct {
	Receipt ReceiptDTO   `json:"receipt"`
	View    ViewResponse `json:"view"`
}

func convertSubmit(res *storefront.SubmitResult) SubmitResponse {
	r := res.Receipt
	return SubmitResponse{
		Receipt: ReceiptDTO{
			OrderID:  r.OrderID.String(),
			Code:     r.Code,
			Subtotal: pricing.Format(r.Totals.Subtotal),
			Shipping: pricing.Format(r.Totals.Shipping),
			Tax:      pricing.Format(r.Totals.Tax),
			Total:    pricing.Format(r.Totals.Total),
			Replayed: r.Replayed,
		},
		View: convertView(res.View),
	}
}

type OrderItemDTO struct {
	ProductID int64  `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

type OrderResponseDTO struct {
	ID           string              `json:"id"`
	Code         string              `json:"code"`
	CheckoutID   string              `json:"checkout_id"`
	Status       string              `json:"status"`
	Customer     domain.CustomerInfo `json:"customer"`
	DeliveryMode string              `json:"delivery_mode"`
	Address      *domain.Address     `json:"address,omitempty"`
	Payment      domain.OrderPayment `json:"payment"`
	Items        []OrderItemDTO      `json:"items"`
	Subtotal     string              `json:"subtotal"`
	Shipping     string              `json:"shipping"`
	Tax          string              `json:"tax"`
	Total        string              `json:"total"`
	CreatedAt    string              `json:"created_at"`
}

func convertOrder(o *domain.Order) OrderResponseDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemDTO{
			ProductID: it.ProductID,
			SKU:       it.SKU,
			Name:      it.Name,
			Size:      it.SizeCode,
			Color:     it.ColorName,
			Quantity:  it.Quantity,
			UnitPrice: pricing.Format(it.UnitPrice),
			LineTotal: pricing.Format(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))),
		})
	}

	return OrderResponseDTO{
		ID:           o.ID.String(),
		Code:         o.Code,
		CheckoutID:   o.CheckoutID.String(),
		Status:       string(o.Status),
		Customer:     o.Customer,
		DeliveryMode: string(o.DeliveryMode),
		Address:      o.Address,
		Payment:      o.Payment,
		Items:        items,
		Subtotal:     pricing.Format(o.Totals.Subtotal),
		Shipping:     pricing.Format(o.Totals.Shipping),
		Tax:          pricing.Format(o.Totals.Tax),
		Total:        pricing.Format(o.Totals.Total),
		CreatedAt:    o.CreatedAt.UTC().Format(time.RFC3339),
	}
}
