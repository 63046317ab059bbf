package checkout

import (
	"strings"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func validateCustomer(c domain.CustomerInfo) error {
	step := domain.StepCustomerInfo.String()
	switch {
	case blank(c.Name):
		return required(step, "name")
	case blank(c.Surname):
		return required(step, "surname")
	case blank(c.Email):
		return required(step, "email")
	case blank(c.Phone):
		return required(step, "phone")
	}
	return nil
}

func validateShipping(s domain.ShippingInfo) error {
	step := domain.StepShipping.String()
	switch s.Mode {
	case domain.DeliveryPickup:
		return nil
	case domain.DeliveryHome:
	default:
		return &ValidationError{Step: step, Field: "deliveryMode", Message: "must be home or pickup"}
	}

	switch {
	case blank(s.Address):
		return required(step, "address")
	case blank(s.District):
		return required(step, "district")
	case blank(s.Province):
		return required(step, "province")
	case blank(s.Department):
		return required(step, "department")
	}
	return nil
}

func validatePayment(p domain.PaymentInfo) error {
	step := domain.StepPayment.String()
	switch p.Method {
	case domain.PaymentCard:
		switch {
		case blank(p.CardNumber):
			return required(step, "cardNumber")
		case blank(p.CardholderName):
			return required(step, "cardholderName")
		case blank(p.Expiry):
			return required(step, "expiry")
		case blank(p.CVV):
			return required(step, "cvv")
		}
	case domain.PaymentYape, domain.PaymentPlin:
		if blank(p.OperationCode) {
			return required(step, "operationCode")
		}
	case domain.PaymentTransfer:
		switch {
		case blank(p.BankName):
			return required(step, "bankName")
		case blank(p.OperationNumber):
			return required(step, "operationNumber")
		}
	case domain.PaymentCash:
	default:
		return &ValidationError{Step: step, Field: "paymentMethod", Message: "must be card, yape, plin, transfer or cash"}
	}
	return nil
}
