package domain

type DeliveryMode string

const (
	DeliveryHome   DeliveryMode = "home"
	DeliveryPickup DeliveryMode = "pickup"
)

func (m DeliveryMode) IsValid() bool {
	return m == DeliveryHome || m == DeliveryPickup
}

type PaymentMethod string

const (
	PaymentCard     PaymentMethod = "card"
	PaymentYape     PaymentMethod = "yape"
	PaymentPlin     PaymentMethod = "plin"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCash     PaymentMethod = "cash"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCard, PaymentYape, PaymentPlin, PaymentTransfer, PaymentCash:
		return true
	}
	return false
}

// CheckoutStep is the position of a checkout session in the step machine.
type CheckoutStep int

const (
	StepCustomerInfo CheckoutStep = iota + 1
	StepShipping
	StepPayment
	StepSubmitted
)

func (s CheckoutStep) String() string {
	switch s {
	case StepCustomerInfo:
		return "customer_info"
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

func (s CheckoutStep) IsTerminal() bool {
	return s == StepSubmitted
}

type CustomerInfo struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

type ShippingInfo struct {
	Mode       DeliveryMode `json:"mode"`
	Address    string       `json:"address,omitempty"`
	District   string       `json:"district,omitempty"`
	Province   string       `json:"province,omitempty"`
	Department string       `json:"department,omitempty"`
	Reference  string       `json:"reference,omitempty"`
}

// PaymentInfo holds what the shopper typed on the payment step.
// Card number, expiry and CVV never leave the process.
type PaymentInfo struct {
	Method          PaymentMethod `json:"method"`
	CardNumber      string        `json:"-"`
	CardholderName  string        `json:"cardholder_name,omitempty"`
	Expiry          string        `json:"-"`
	CVV             string        `json:"-"`
	OperationCode   string        `json:"operation_code,omitempty"`
	BankName        string        `json:"bank_name,omitempty"`
	OperationNumber string        `json:"operation_number,omitempty"`
}
