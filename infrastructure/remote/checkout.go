package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"storefront/domain/checkout"
	"storefront/domain/shared"
)

var checkoutMessageKeys = []string{"message", "error"}

// Submit POST /checkout/process-order，从不重试
func (c *Client) Submit(ctx context.Context, token string, req checkout.Request) (json.RawMessage, error) {
	body, err := c.do(ctx, call{
		op:          "process-order",
		method:      http.MethodPost,
		url:         c.baseURL + "/checkout/process-order",
		token:       token,
		body:        req,
		messageKeys: checkoutMessageKeys,
	})
	if err != nil {
		return nil, err
	}
	return rawPayload(body), nil
}

// rawPayload 原样保留 2xx 响应体，非 JSON 内容保存为 JSON 字符串
func rawPayload(body []byte) json.RawMessage {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil
	}
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	quoted, _ := json.Marshal(trimmed)
	return quoted
}

type addressVerdict struct {
	Valid   *bool  `json:"valid"`
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

// ValidateAddress POST /validateAddress，{"valid": false} 视为校验错误
func (c *Client) ValidateAddress(ctx context.Context, addr checkout.Address) error {
	body, err := c.do(ctx, call{
		op:          "validate-address",
		method:      http.MethodPost,
		url:         c.baseURL + "/validateAddress",
		body:        addr,
		messageKeys: checkoutMessageKeys,
	})
	if err != nil {
		return err
	}

	var verdict addressVerdict
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := decode("validate-address", body, &verdict); err != nil {
			return err
		}
	}
	if (verdict.Valid != nil && !*verdict.Valid) || (verdict.Success != nil && !*verdict.Success) {
		reason := verdict.Message
		if reason == "" {
			reason = "address rejected"
		}
		return shared.NewValidationError("checkout", "address", reason)
	}
	return nil
}

type shippingRequest struct {
	checkout.Address
	DeliveryOption checkout.DeliveryKind   `json:"deliveryOption"`
	Delivery       checkout.DeliveryOption `json:"delivery"`
}

type shippingResponse struct {
	Cost     json.Number `json:"cost"`
	Currency string      `json:"currency"`
}

// QuoteShipping POST /calculateShipping -> {cost, currency}
func (c *Client) QuoteShipping(ctx context.Context, addr checkout.Address, option checkout.DeliveryOption) (checkout.Quote, error) {
	body, err := c.do(ctx, call{
		op:          "calculate-shipping",
		method:      http.MethodPost,
		url:         c.baseURL + "/calculateShipping",
		body:        shippingRequest{Address: addr, DeliveryOption: option.Kind, Delivery: option},
		messageKeys: checkoutMessageKeys,
	})
	if err != nil {
		return checkout.Quote{}, err
	}

	var resp shippingResponse
	if err := decode("calculate-shipping", body, &resp); err != nil {
		return checkout.Quote{}, err
	}
	cost, err := resp.Cost.Float64()
	if err != nil || cost < 0 {
		return checkout.Quote{}, shared.NewDecodeError("calculate-shipping", err)
	}
	return checkout.Quote{Cost: cost, Currency: resp.Currency}, nil
}

// DeliveryOptions GET /checkout/delivery-options，裸数组或 {"options": [...]}
func (c *Client) DeliveryOptions(ctx context.Context) ([]checkout.OptionInfo, error) {
	body, err := c.do(ctx, call{
		op:          "delivery-options",
		method:      http.MethodGet,
		url:         c.baseURL + "/checkout/delivery-options",
		messageKeys: checkoutMessageKeys,
	})
	if err != nil {
		return nil, err
	}

	var options []checkout.OptionInfo
	if err := json.Unmarshal(body, &options); err == nil {
		return options, nil
	}
	var wrapped struct {
		Options []checkout.OptionInfo `json:"options"`
	}
	if err := decode("delivery-options", body, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Options, nil
}

var _ checkout.Gateway = (*Client)(nil)
