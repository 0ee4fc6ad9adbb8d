package checkout

import (
	"encoding/json"
	"errors"
	"testing"

	"storefront/domain/cart"
	"storefront/domain/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAddress() *Address {
	return &Address{Departamento: "Lima", Provincia: "Lima", Distrito: "Miraflores", Calle: "Av. Larco", Numero: "123"}
}

func validDraft() Draft {
	d := Draft{
		Address:        validAddress(),
		DeliveryOption: &DeliveryOption{Kind: DeliveryExpress},
		TermsAccepted:  true,
		Shipping:       5.99,
	}
	return d.WithPayment(Payment{Method: MethodCard, Card: &CardDetails{
		CardNumber: "4242 4242 4242 4242", CardExpiry: "12/30", CardCVV: "123",
	}})
}

func field(t *testing.T, err error) string {
	t.Helper()
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
	return de.Field
}

func TestAddressValidate(t *testing.T) {
	assert.NoError(t, validAddress().Validate())

	a := *validAddress()
	a.Distrito = "   "
	err := a.Validate()
	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.Equal(t, "distrito", field(t, err))
}

func TestDeliveryOptionValidate(t *testing.T) {
	cases := []struct {
		name string
		opt  DeliveryOption
		ok   bool
	}{
		{"pickup", DeliveryOption{Kind: DeliveryPickup}, true},
		{"express", DeliveryOption{Kind: DeliveryExpress}, true},
		{"scheduled", DeliveryOption{Kind: DeliveryScheduled, Date: "2026-12-24"}, true},
		{"scheduled without date", DeliveryOption{Kind: DeliveryScheduled}, false},
		{"range", DeliveryOption{Kind: DeliveryDateRange, From: "2026-12-01", To: "2026-12-03"}, true},
		{"range reversed", DeliveryOption{Kind: DeliveryDateRange, From: "2026-12-03", To: "2026-12-01"}, false},
		{"unknown", DeliveryOption{Kind: "drone"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.opt.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, shared.ErrValidation)
			}
		})
	}
}

func TestDeliveryOptionNormalize(t *testing.T) {
	padded := DeliveryOption{Kind: " Pickup ", Date: " 2026-12-24 "}
	n := padded.Normalize()

	assert.Equal(t, DeliveryPickup, n.Kind)
	assert.Equal(t, "2026-12-24", n.Date)
	assert.False(t, padded.Shipped())
	assert.NoError(t, padded.Validate())
	assert.True(t, DeliveryOption{Kind: " express"}.Shipped())
}

func TestCardDetailsValidate(t *testing.T) {
	ok := CardDetails{CardNumber: "4242 4242 4242 4242", CardExpiry: "01/29", CardCVV: "1234"}
	assert.NoError(t, ok.Validate())

	bare := ok
	bare.CardNumber = "4242424242424242"
	assert.NoError(t, bare.Validate())

	cases := map[string]CardDetails{
		"cardNumber": {CardNumber: "4242-4242", CardExpiry: "01/29", CardCVV: "123"},
		"cardExpiry": {CardNumber: "4242424242424242", CardExpiry: "13/29", CardCVV: "123"},
		"cardCVV":    {CardNumber: "4242424242424242", CardExpiry: "01/29", CardCVV: "12"},
	}
	for want, card := range cases {
		assert.Equal(t, want, field(t, card.Validate()))
	}
}

func TestPaymentValidate(t *testing.T) {
	assert.Equal(t, "paymentMethod", field(t, Payment{}.Validate()))
	assert.Equal(t, "cardDetails", field(t, Payment{Method: MethodCard}.Validate()))
	assert.Equal(t, "paymentToken", field(t, Payment{Method: MethodYape}.Validate()))
	assert.NoError(t, Payment{Method: MethodPayPal, Token: "EC-123"}.Validate())
}

func TestDraftValidateOrder(t *testing.T) {
	assert.NoError(t, validDraft().Validate())

	d := validDraft()
	d.TermsAccepted = false
	assert.Equal(t, "termsAccepted", field(t, d.Validate()))

	d = validDraft()
	d.DeliveryOption = nil
	d.TermsAccepted = false
	assert.Equal(t, "deliveryOption", field(t, d.Validate()), "earlier step reported first")

	d = validDraft().WithPayment(Payment{Method: MethodCMR, Token: "cmr-1"})
	assert.Equal(t, "cmrTermsAccepted", field(t, d.Validate()))
	accepted := true
	d.CMRTermsAccepted = &accepted
	assert.NoError(t, d.Validate())
}

func TestNewRequestSnapshotsCart(t *testing.T) {
	lines := cart.Lines{{ID: "1", Name: "Quinua", UnitPrice: 10.005, Quantity: 2}}

	req, err := NewRequest(validDraft(), lines)
	require.NoError(t, err)

	lines[0].Quantity = 99
	assert.Equal(t, 2, req.Items[0].Quantity)
	assert.Equal(t, 20.01, req.Subtotal)
	assert.Equal(t, 5.99, req.Shipping)
	assert.Equal(t, 26.0, req.Total)
	assert.Equal(t, DeliveryExpress, req.DeliveryOption)
	assert.Equal(t, "card", req.PaymentMethod)
}

func TestNewRequestPickupShipsFree(t *testing.T) {
	d := validDraft()
	d.DeliveryOption = &DeliveryOption{Kind: DeliveryPickup}

	req, err := NewRequest(d, cart.Lines{{ID: "1", UnitPrice: 3, Quantity: 1}})
	require.NoError(t, err)
	assert.Zero(t, req.Shipping)
	assert.Equal(t, 3.0, req.Total)
}

func TestNewRequestRejectsEmptyCart(t *testing.T) {
	_, err := NewRequest(validDraft(), nil)
	assert.Equal(t, "items", field(t, err))
}

func TestRequestWireFormat(t *testing.T) {
	req, err := NewRequest(validDraft(), cart.Lines{{ID: "1", Name: "Maca", UnitPrice: 2, Quantity: 1}})
	require.NoError(t, err)

	raw, err := json.Marshal(req)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "express", body["deliveryOption"])
	assert.Equal(t, true, body["termsAccepted"])
	assert.Contains(t, body, "cardDetails")
	assert.NotContains(t, body, "cmrTermsAccepted")
	items := body["items"].([]any)
	assert.Equal(t, map[string]any{"id": "1", "nombre": "Maca", "cantidad": float64(1), "precio": float64(2)}, items[0])
}

func TestDraftCloneIsDeep(t *testing.T) {
	d := validDraft()
	c := d.Clone()
	c.Address.Calle = "changed"
	c.CardDetails.CardCVV = "999"
	assert.Equal(t, "Av. Larco", d.Address.Calle)
	assert.Equal(t, "123", d.CardDetails.CardCVV)
}

func TestParseConfirmation(t *testing.T) {
	c := ParseConfirmation([]byte(`{"orderId":"mock123","emailSent":true}`))
	assert.Equal(t, "mock123", c.OrderID)
	assert.Equal(t, OutcomeSuccess, c.Outcome())

	c = ParseConfirmation([]byte(`{"order_id":4821,"emailSent":false}`))
	assert.Equal(t, "4821", c.OrderID)
	assert.Equal(t, OutcomePartialSuccess, c.Outcome())

	c = ParseConfirmation([]byte(`{"orderId":"A1","emailError":"smtp timeout"}`))
	assert.Equal(t, OutcomePartialSuccess, c.Outcome())

	c = ParseConfirmation([]byte(`"ok"`))
	assert.Equal(t, Confirmation{}, c)
	assert.Equal(t, OutcomeSuccess, c.Outcome())
}

func TestIsUnimplemented(t *testing.T) {
	assert.True(t, IsUnimplemented(shared.NewServerError(404, "Not Found", "", nil)))
	assert.True(t, IsUnimplemented(shared.NewServerError(501, "Not Implemented", "", nil)))
	assert.True(t, IsUnimplemented(shared.NewTransportError("quote", errors.New("refused"))))
	assert.False(t, IsUnimplemented(shared.NewServerError(422, "Unprocessable Entity", "bad address", nil)))
}
