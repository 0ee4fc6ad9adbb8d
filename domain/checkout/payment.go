package checkout

import (
	"regexp"
	"strings"

	"storefront/domain/shared"
)

// 支付方式
const (
	MethodCard   = "card"
	MethodPayPal = "paypal"
	MethodYape   = "yape"
	MethodPlin   = "plin"
	MethodCMR    = "cmr"
)

var (
	// 4242 4242 4242 4242 或 13-19 位纯数字
	groupedCardPattern = regexp.MustCompile(`^\d{4}( \d{4}){3}$`)
	bareCardPattern    = regexp.MustCompile(`^\d{13,19}$`)
	expiryPattern      = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern         = regexp.MustCompile(`^\d{3,4}$`)
)

// CardDetails 用户输入的卡信息，仅校验格式
type CardDetails struct {
	CardNumber string `json:"cardNumber"`
	CardExpiry string `json:"cardExpiry"`
	CardCVV    string `json:"cardCVV"`
}

// Validate 数字分组、MM/YY、3-4 位 CVV
func (c CardDetails) Validate() error {
	number := strings.TrimSpace(c.CardNumber)
	if !groupedCardPattern.MatchString(number) && !bareCardPattern.MatchString(number) {
		return shared.NewValidationError(entity, "cardNumber", "card number format is invalid")
	}
	if !expiryPattern.MatchString(strings.TrimSpace(c.CardExpiry)) {
		return shared.NewValidationError(entity, "cardExpiry", "card expiry must be MM/YY")
	}
	if !cvvPattern.MatchString(strings.TrimSpace(c.CardCVV)) {
		return shared.NewValidationError(entity, "cardCVV", "card CVV must be 3 or 4 digits")
	}
	return nil
}

// Payment 第 3 步录入的支付方式
type Payment struct {
	Method string       `json:"method"`
	Card   *CardDetails `json:"card,omitempty"`
	// Token 其他支付方式的凭证（钱包引用、授权码）
	Token string `json:"token,omitempty"`
}

// Validate 银行卡需要有效卡信息，其他方式需要 token
func (p Payment) Validate() error {
	method := strings.ToLower(strings.TrimSpace(p.Method))
	switch method {
	case "":
		return shared.NewValidationError(entity, "paymentMethod", "payment method is required")
	case MethodCard:
		if p.Card == nil {
			return shared.NewValidationError(entity, "cardDetails", "card details are required")
		}
		return p.Card.Validate()
	default:
		if strings.TrimSpace(p.Token) == "" {
			return shared.NewValidationError(entity, "paymentToken", "payment token is required for "+method)
		}
		return nil
	}
}
