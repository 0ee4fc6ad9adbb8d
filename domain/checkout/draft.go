package checkout

import (
	"strings"

	"storefront/domain/shared"
)

// Draft 一次结算尝试中累积的状态，从不持久化
type Draft struct {
	Address          *Address        `json:"address,omitempty"`
	DeliveryOption   *DeliveryOption `json:"deliveryOption,omitempty"`
	PaymentMethod    *string         `json:"paymentMethod,omitempty"`
	CardDetails      *CardDetails    `json:"cardDetails,omitempty"`
	PaymentToken     string          `json:"-"`
	TermsAccepted    bool            `json:"termsAccepted"`
	CMRTermsAccepted *bool           `json:"cmrTermsAccepted,omitempty"`
	// Shipping 所选方式的运费报价，自提或报价失败时为 0
	Shipping float64 `json:"shipping"`
	Currency string  `json:"currency,omitempty"`
}

// Payment 已录入的支付方式，第 3 步之前为 nil
func (d Draft) Payment() *Payment {
	if d.PaymentMethod == nil {
		return nil
	}
	p := &Payment{Method: *d.PaymentMethod, Token: d.PaymentToken}
	if d.CardDetails != nil {
		card := *d.CardDetails
		p.Card = &card
	}
	return p
}

// WithPayment 返回携带 p 的副本
func (d Draft) WithPayment(p Payment) Draft {
	out := d.Clone()
	method := strings.ToLower(strings.TrimSpace(p.Method))
	out.PaymentMethod = &method
	out.CardDetails = nil
	out.PaymentToken = ""
	if method == MethodCard && p.Card != nil {
		card := *p.Card
		out.CardDetails = &card
	} else {
		out.PaymentToken = strings.TrimSpace(p.Token)
	}
	return out
}

// Clone 深拷贝
func (d Draft) Clone() Draft {
	out := d
	if d.Address != nil {
		a := *d.Address
		out.Address = &a
	}
	if d.DeliveryOption != nil {
		o := *d.DeliveryOption
		out.DeliveryOption = &o
	}
	if d.PaymentMethod != nil {
		m := *d.PaymentMethod
		out.PaymentMethod = &m
	}
	if d.CardDetails != nil {
		c := *d.CardDetails
		out.CardDetails = &c
	}
	if d.CMRTermsAccepted != nil {
		v := *d.CMRTermsAccepted
		out.CMRTermsAccepted = &v
	}
	return out
}

// Validate 按流程顺序校验每一步，返回第一个失败
func (d Draft) Validate() error {
	if d.Address == nil {
		return shared.NewValidationError(entity, "address", "shipping address is required")
	}
	if err := d.Address.Validate(); err != nil {
		return err
	}
	if d.DeliveryOption == nil {
		return shared.NewValidationError(entity, "deliveryOption", "delivery option is required")
	}
	if err := d.DeliveryOption.Validate(); err != nil {
		return err
	}
	payment := d.Payment()
	if payment == nil {
		return shared.NewValidationError(entity, "paymentMethod", "payment method is required")
	}
	if err := payment.Validate(); err != nil {
		return err
	}
	if !d.TermsAccepted {
		return shared.NewValidationError(entity, "termsAccepted", "terms and conditions must be accepted")
	}
	if payment.Method == MethodCMR && (d.CMRTermsAccepted == nil || !*d.CMRTermsAccepted) {
		return shared.NewValidationError(entity, "cmrTermsAccepted", "CMR card terms must be accepted")
	}
	return nil
}
