package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"storefront/domain/cart"
	"storefront/domain/shared"
)

// Gateway 远程结算接口
type Gateway interface {
	// Submit 携带 bearer token 提交一次订单，原样返回 2xx 响应体
	Submit(ctx context.Context, token string, req Request) (json.RawMessage, error)
	ValidateAddress(ctx context.Context, addr Address) error
	QuoteShipping(ctx context.Context, addr Address, option DeliveryOption) (Quote, error)
	DeliveryOptions(ctx context.Context) ([]OptionInfo, error)
}

// TokenSource 当前会话的 bearer token，匿名时为 ""
type TokenSource interface {
	Token() string
}

// CartSource 当前购物车行
type CartSource interface {
	Items() cart.Lines
}

// IsUnimplemented err 是否表示后端未提供该接口或完全无法连接
func IsUnimplemented(err error) bool {
	var serverErr *shared.ServerError
	if errors.As(err, &serverErr) {
		switch serverErr.Status {
		case http.StatusNotFound, http.StatusMethodNotAllowed, http.StatusNotImplemented:
			return true
		}
		return false
	}
	return errors.Is(err, shared.ErrTransport)
}
