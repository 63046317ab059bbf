// Package checkout implements the step-wise checkout flow:
// customer info, shipping, payment, then submitted.
//
// A Session only moves forward when the data for the current step is
// complete. Moving back is always allowed and never clears entered data.
// Once submitted, the session is read-only.
package checkout

import (
	"strings"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/google/uuid"
)

type Session struct {
	id       uuid.UUID
	step     domain.CheckoutStep
	customer domain.CustomerInfo
	shipping domain.ShippingInfo
	payment  domain.PaymentInfo

	orderID   uuid.UUID
	orderCode string
}

// State is the persisted form of a Session.
type State struct {
	ID        uuid.UUID           `json:"id"`
	Step      domain.CheckoutStep `json:"step"`
	Customer  domain.CustomerInfo `json:"customer"`
	Shipping  domain.ShippingInfo `json:"shipping"`
	Payment   domain.PaymentInfo  `json:"payment"`
	OrderID   uuid.UUID           `json:"order_id"`
	OrderCode string              `json:"order_code,omitempty"`
}

func NewSession() *Session {
	return &Session{
		id:   uuid.New(),
		step: domain.StepCustomerInfo,
		shipping: domain.ShippingInfo{
			Mode: domain.DeliveryHome,
		},
	}
}

func Restore(st State) *Session {
	s := &Session{
		id:        st.ID,
		step:      st.Step,
		customer:  st.Customer,
		shipping:  st.Shipping,
		payment:   st.Payment,
		orderID:   st.OrderID,
		orderCode: st.OrderCode,
	}
	if s.id == uuid.Nil {
		s.id = uuid.New()
	}
	if s.step < domain.StepCustomerInfo || s.step > domain.StepSubmitted {
		s.step = domain.StepCustomerInfo
	}
	return s
}

func (s *Session) State() State {
	return State{
		ID:        s.id,
		Step:      s.step,
		Customer:  s.customer,
		Shipping:  s.shipping,
		Payment:   s.payment,
		OrderID:   s.orderID,
		OrderCode: s.orderCode,
	}
}

// ID is stable for the life of the session and doubles as the idempotency key
// of the order it produces.
func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) Step() domain.CheckoutStep {
	return s.step
}

func (s *Session) Customer() domain.CustomerInfo {
	return s.customer
}

func (s *Session) Shipping() domain.ShippingInfo {
	return s.shipping
}

func (s *Session) Payment() domain.PaymentInfo {
	return s.payment
}

func (s *Session) IsSubmitted() bool {
	return s.step == domain.StepSubmitted
}

// DeliveryMode falls back to home delivery until the shopper chooses.
func (s *Session) DeliveryMode() domain.DeliveryMode {
	if s.shipping.Mode == "" {
		return domain.DeliveryHome
	}
	return s.shipping.Mode
}

func (s *Session) SubmittedOrder() (uuid.UUID, string, bool) {
	return s.orderID, s.orderCode, s.IsSubmitted()
}

func (s *Session) SetCustomer(c domain.CustomerInfo) error {
	if s.IsSubmitted() {
		return ErrSessionClosed
	}
	s.customer = domain.CustomerInfo{
		Name:    strings.TrimSpace(c.Name),
		Surname: strings.TrimSpace(c.Surname),
		Email:   strings.TrimSpace(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
	}
	return nil
}

func (s *Session) SetShipping(sh domain.ShippingInfo) error {
	if s.IsSubmitted() {
		return ErrSessionClosed
	}
	s.shipping = domain.ShippingInfo{
		Mode:       domain.DeliveryMode(strings.ToLower(strings.TrimSpace(string(sh.Mode)))),
		Address:    strings.TrimSpace(sh.Address),
		District:   strings.TrimSpace(sh.District),
		Province:   strings.TrimSpace(sh.Province),
		Department: strings.TrimSpace(sh.Department),
		Reference:  strings.TrimSpace(sh.Reference),
	}
	return nil
}

func (s *Session) SetPayment(p domain.PaymentInfo) error {
	if s.IsSubmitted() {
		return ErrSessionClosed
	}
	s.payment = domain.PaymentInfo{
		Method:          domain.PaymentMethod(strings.ToLower(strings.TrimSpace(string(p.Method)))),
		CardNumber:      strings.TrimSpace(p.CardNumber),
		CardholderName:  strings.TrimSpace(p.CardholderName),
		Expiry:          strings.TrimSpace(p.Expiry),
		CVV:             strings.TrimSpace(p.CVV),
		OperationCode:   strings.TrimSpace(p.OperationCode),
		BankName:        strings.TrimSpace(p.BankName),
		OperationNumber: strings.TrimSpace(p.OperationNumber),
	}
	return nil
}

// Next advances one step if the current step's data is complete. Submission
// from the payment step goes through order commit instead.
func (s *Session) Next() error {
	switch s.step {
	case domain.StepCustomerInfo:
		if err := validateCustomer(s.customer); err != nil {
			return err
		}
		s.step = domain.StepShipping
	case domain.StepShipping:
		if err := validateShipping(s.shipping); err != nil {
			return err
		}
		s.step = domain.StepPayment
	case domain.StepSubmitted:
		return ErrSessionClosed
	default:
		return ErrInvalidTransition
	}
	return nil
}

func (s *Session) Back() error {
	switch s.step {
	case domain.StepShipping:
		s.step = domain.StepCustomerInfo
	case domain.StepPayment:
		s.step = domain.StepShipping
	default:
		return ErrInvalidTransition
	}
	return nil
}

// ValidateSubmission checks that the session is on the payment step and that
// every step's data is complete.
func (s *Session) ValidateSubmission() error {
	if s.step == domain.StepSubmitted {
		return ErrSessionClosed
	}
	if s.step != domain.StepPayment {
		return ErrInvalidTransition
	}
	if err := validateCustomer(s.customer); err != nil {
		return err
	}
	if err := validateShipping(s.shipping); err != nil {
		return err
	}
	return validatePayment(s.payment)
}

func (s *Session) MarkSubmitted(orderID uuid.UUID, code string) error {
	if err := s.ValidateSubmission(); err != nil {
		return err
	}
	s.step = domain.StepSubmitted
	s.orderID = orderID
	s.orderCode = code
	// card data is no longer needed once the order exists
	s.payment.CardNumber = ""
	s.payment.Expiry = ""
	s.payment.CVV = ""
	return nil
}

// AttachOrder closes the session against an order that was already committed
// for this checkout elsewhere. No step validation is done.
func (s *Session) AttachOrder(orderID uuid.UUID, code string) {
	s.step = domain.StepSubmitted
	s.orderID = orderID
	s.orderCode = code
	s.payment.CardNumber = ""
	s.payment.Expiry = ""
	s.payment.CVV = ""
}
