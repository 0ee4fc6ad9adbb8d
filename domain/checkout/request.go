package checkout

import (
	"math"

	"storefront/domain/cart"
	"storefront/domain/shared"
)

// RequestItem 随订单提交的购物车行
type RequestItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"nombre,omitempty"`
	Quantity int     `json:"cantidad"`
	Price    float64 `json:"precio"`
}

// Request 订单提交载荷，提交时构建的不可变快照
type Request struct {
	Address          Address        `json:"address"`
	DeliveryOption   DeliveryKind   `json:"deliveryOption"`
	Delivery         DeliveryOption `json:"delivery"`
	PaymentMethod    string         `json:"paymentMethod"`
	CardDetails      *CardDetails   `json:"cardDetails,omitempty"`
	PaymentToken     string         `json:"paymentToken,omitempty"`
	Items            []RequestItem  `json:"items"`
	Subtotal         float64        `json:"subtotal"`
	Shipping         float64        `json:"shipping"`
	Total            float64        `json:"total"`
	Currency         string         `json:"currency,omitempty"`
	TermsAccepted    bool           `json:"termsAccepted"`
	CMRTermsAccepted *bool          `json:"cmrTermsAccepted,omitempty"`
}

// NewRequest 校验 draft 并对购物车行做快照
func NewRequest(d Draft, lines cart.Lines) (Request, error) {
	if err := d.Validate(); err != nil {
		return Request{}, err
	}
	if len(lines) == 0 {
		return Request{}, shared.NewValidationError(entity, "items", "cart is empty")
	}

	d = d.Clone()
	payment := d.Payment()
	items := make([]RequestItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, RequestItem{ID: l.ID, Name: l.Name, Quantity: l.Quantity, Price: l.UnitPrice})
	}

	delivery := d.DeliveryOption.Normalize()
	subtotal := roundCents(lines.Subtotal())
	shipping := 0.0
	if delivery.Shipped() {
		shipping = roundCents(d.Shipping)
	}

	return Request{
		Address:          d.Address.Normalize(),
		DeliveryOption:   delivery.Kind,
		Delivery:         delivery,
		PaymentMethod:    payment.Method,
		CardDetails:      payment.Card,
		PaymentToken:     payment.Token,
		Items:            items,
		Subtotal:         subtotal,
		Shipping:         shipping,
		Total:            roundCents(subtotal + shipping),
		Currency:         d.Currency,
		TermsAccepted:    d.TermsAccepted,
		CMRTermsAccepted: d.CMRTermsAccepted,
	}, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
