package checkout

import (
	"encoding/json"
	"testing"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCustomer() domain.CustomerInfo {
	return domain.CustomerInfo{Name: "Ana", Surname: "Quispe", Email: "ana@example.com", Phone: "987654321"}
}

func validHome() domain.ShippingInfo {
	return domain.ShippingInfo{
		Mode:       domain.DeliveryHome,
		Address:    "Av. Arequipa 123",
		District:   "Miraflores",
		Province:   "Lima",
		Department: "Lima",
	}
}

func sessionAtPayment(t *testing.T) *Session {
	t.Helper()
	s := NewSession()
	require.NoError(t, s.SetCustomer(validCustomer()))
	require.NoError(t, s.Next())
	require.NoError(t, s.SetShipping(validHome()))
	require.NoError(t, s.Next())
	require.Equal(t, domain.StepPayment, s.Step())
	return s
}

func assertField(t *testing.T, err error, field string) {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, field, verr.Field)
}

func TestNewSession(t *testing.T) {
	s := NewSession()

	assert.Equal(t, domain.StepCustomerInfo, s.Step())
	assert.NotEqual(t, uuid.Nil, s.ID())
	assert.Equal(t, domain.DeliveryHome, s.DeliveryMode())
}

func TestNext_CustomerInfoRequiresAllFields(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*domain.CustomerInfo)
	}{
		{"name", func(c *domain.CustomerInfo) { c.Name = "" }},
		{"surname", func(c *domain.CustomerInfo) { c.Surname = "   " }},
		{"email", func(c *domain.CustomerInfo) { c.Email = "" }},
		{"phone", func(c *domain.CustomerInfo) { c.Phone = "\t" }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			s := NewSession()
			c := validCustomer()
			tt.mutate(&c)
			require.NoError(t, s.SetCustomer(c))

			assertField(t, s.Next(), tt.field)
			assert.Equal(t, domain.StepCustomerInfo, s.Step())
		})
	}
}

func TestNext_HomeDeliveryRequiresAddress(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.SetCustomer(validCustomer()))
	require.NoError(t, s.Next())
	require.NoError(t, s.SetShipping(domain.ShippingInfo{Mode: domain.DeliveryHome}))

	assertField(t, s.Next(), "address")
	assert.Equal(t, domain.StepShipping, s.Step())
}

func TestNext_ShippingFieldOrder(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*domain.ShippingInfo)
	}{
		{"address", func(sh *domain.ShippingInfo) { sh.Address = "" }},
		{"district", func(sh *domain.ShippingInfo) { sh.District = "" }},
		{"province", func(sh *domain.ShippingInfo) { sh.Province = "" }},
		{"department", func(sh *domain.ShippingInfo) { sh.Department = "" }},
		{"deliveryMode", func(sh *domain.ShippingInfo) { sh.Mode = "drone" }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			s := NewSession()
			require.NoError(t, s.SetCustomer(validCustomer()))
			require.NoError(t, s.Next())
			sh := validHome()
			tt.mutate(&sh)
			require.NoError(t, s.SetShipping(sh))

			assertField(t, s.Next(), tt.field)
		})
	}
}

func TestNext_PickupNeedsNoAddress(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.SetCustomer(validCustomer()))
	require.NoError(t, s.Next())
	require.NoError(t, s.SetShipping(domain.ShippingInfo{Mode: " Pickup "}))

	require.NoError(t, s.Next())
	assert.Equal(t, domain.StepPayment, s.Step())
	assert.Equal(t, domain.DeliveryPickup, s.DeliveryMode())
}

func TestNext_FromPaymentIsRejected(t *testing.T) {
	s := sessionAtPayment(t)

	assert.ErrorIs(t, s.Next(), ErrInvalidTransition)
	assert.Equal(t, domain.StepPayment, s.Step())
}

func TestBack(t *testing.T) {
	s := sessionAtPayment(t)

	require.NoError(t, s.Back())
	assert.Equal(t, domain.StepShipping, s.Step())
	require.NoError(t, s.Back())
	assert.Equal(t, domain.StepCustomerInfo, s.Step())
	assert.ErrorIs(t, s.Back(), ErrInvalidTransition)

	assert.Equal(t, validCustomer(), s.Customer(), "going back keeps entered data")
	assert.Equal(t, validHome(), s.Shipping())
}

func TestBack_NotValidated(t *testing.T) {
	s := sessionAtPayment(t)
	require.NoError(t, s.SetShipping(domain.ShippingInfo{Mode: domain.DeliveryHome}))

	require.NoError(t, s.Back())
}

func TestValidateSubmission_PaymentMethods(t *testing.T) {
	tests := []struct {
		name    string
		payment domain.PaymentInfo
		field   string
	}{
		{"card complete", domain.PaymentInfo{Method: domain.PaymentCard, CardNumber: "4111111111111111", CardholderName: "ANA Q", Expiry: "12/29", CVV: "123"}, ""},
		{"card missing cvv", domain.PaymentInfo{Method: domain.PaymentCard, CardNumber: "4111111111111111", CardholderName: "ANA Q", Expiry: "12/29"}, "cvv"},
		{"card missing number", domain.PaymentInfo{Method: domain.PaymentCard}, "cardNumber"},
		{"yape without code", domain.PaymentInfo{Method: domain.PaymentYape}, "operationCode"},
		{"yape with code", domain.PaymentInfo{Method: domain.PaymentYape, OperationCode: "123456"}, ""},
		{"plin without code", domain.PaymentInfo{Method: domain.PaymentPlin, OperationCode: " "}, "operationCode"},
		{"transfer missing bank", domain.PaymentInfo{Method: domain.PaymentTransfer, OperationNumber: "99"}, "bankName"},
		{"transfer missing number", domain.PaymentInfo{Method: domain.PaymentTransfer, BankName: "BCP"}, "operationNumber"},
		{"transfer complete", domain.PaymentInfo{Method: domain.PaymentTransfer, BankName: "BCP", OperationNumber: "99"}, ""},
		{"cash", domain.PaymentInfo{Method: domain.PaymentCash}, ""},
		{"no method", domain.PaymentInfo{}, "paymentMethod"},
		{"unknown method", domain.PaymentInfo{Method: "bitcoin"}, "paymentMethod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sessionAtPayment(t)
			require.NoError(t, s.SetPayment(tt.payment))

			err := s.ValidateSubmission()

			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			assertField(t, err, tt.field)
		})
	}
}

func TestValidateSubmission_WrongStep(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.SetCustomer(validCustomer()))
	require.NoError(t, s.SetPayment(domain.PaymentInfo{Method: domain.PaymentCash}))

	assert.ErrorIs(t, s.ValidateSubmission(), ErrInvalidTransition)
}

func TestValidateSubmission_RevalidatesEarlierSteps(t *testing.T) {
	s := sessionAtPayment(t)
	require.NoError(t, s.SetCustomer(domain.CustomerInfo{Name: "Ana"}))
	require.NoError(t, s.SetPayment(domain.PaymentInfo{Method: domain.PaymentCash}))

	assertField(t, s.ValidateSubmission(), "surname")
}

func TestMarkSubmitted(t *testing.T) {
	s := sessionAtPayment(t)
	require.NoError(t, s.SetPayment(domain.PaymentInfo{Method: domain.PaymentCard, CardNumber: "4111111111111111", CardholderName: "ANA", Expiry: "12/29", CVV: "123"}))
	orderID := uuid.New()

	require.NoError(t, s.MarkSubmitted(orderID, "ORD-20260101-000001"))

	id, code, ok := s.SubmittedOrder()
	assert.True(t, ok)
	assert.Equal(t, orderID, id)
	assert.Equal(t, "ORD-20260101-000001", code)
	assert.Empty(t, s.Payment().CardNumber)
	assert.Empty(t, s.Payment().CVV)

	assert.ErrorIs(t, s.SetCustomer(validCustomer()), ErrSessionClosed)
	assert.ErrorIs(t, s.SetShipping(validHome()), ErrSessionClosed)
	assert.ErrorIs(t, s.SetPayment(domain.PaymentInfo{}), ErrSessionClosed)
	assert.ErrorIs(t, s.Next(), ErrSessionClosed)
	assert.ErrorIs(t, s.Back(), ErrInvalidTransition)
	assert.ErrorIs(t, s.MarkSubmitted(uuid.New(), "X"), ErrSessionClosed)
}

func TestMarkSubmitted_RequiresValidPayment(t *testing.T) {
	s := sessionAtPayment(t)
	require.NoError(t, s.SetPayment(domain.PaymentInfo{Method: domain.PaymentYape}))

	assertField(t, s.MarkSubmitted(uuid.New(), "X"), "operationCode")
	assert.Equal(t, domain.StepPayment, s.Step())
}

func TestStateRoundTripDropsCardSecrets(t *testing.T) {
	s := sessionAtPayment(t)
	require.NoError(t, s.SetPayment(domain.PaymentInfo{Method: domain.PaymentCard, CardNumber: "4111111111111111", CardholderName: "ANA", Expiry: "12/29", CVV: "123"}))

	raw, err := json.Marshal(s.State())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "4111111111111111")
	assert.NotContains(t, string(raw), "12/29")

	var st State
	require.NoError(t, json.Unmarshal(raw, &st))
	restored := Restore(st)

	assert.Equal(t, s.ID(), restored.ID())
	assert.Equal(t, domain.StepPayment, restored.Step())
	assert.Equal(t, "ANA", restored.Payment().CardholderName)
	assertField(t, restored.ValidateSubmission(), "cardNumber")
}

func TestRestore_RepairsInvalidState(t *testing.T) {
	s := Restore(State{})

	assert.NotEqual(t, uuid.Nil, s.ID())
	assert.Equal(t, domain.StepCustomerInfo, s.Step())
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Step: "shipping", Field: "address", Message: "is required"}
	assert.Equal(t, "shipping: address is required", err.Error())
}

func TestAttachOrder(t *testing.T) {
	s := NewSession()
	id := uuid.New()

	s.AttachOrder(id, "ORD-20260101-000009")

	got, code, ok := s.SubmittedOrder()
	assert.True(t, ok)
	assert.Equal(t, id, got)
	assert.Equal(t, "ORD-20260101-000009", code)
}
