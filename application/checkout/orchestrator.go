/*
Package checkout 应用层 - 结算编排

流程（每一步以上一步为前提）：
 1. SetAddress      格式校验，可选远程校验（仅警告）
 2. SelectDelivery  需要地址；运费报价旁路查询（仅警告）
 3. SetPayment      需要配送方式
 4. AcceptTerms     为 false 时本地拒绝提交
 5. Submit          先认证守卫，再校验，最后一次 POST

Orchestrator 不保存单次尝试的状态：Submit(ctx, draft) 可调用任意次且从不去重。
Attempt 只为一次结算累积 draft。
*/
package checkout

import (
	"context"
	"errors"

	"storefront/domain/checkout"
	"storefront/domain/shared"
	"storefront/pkg/logger"

	"go.uber.org/zap"
)

// Options 编排器选项
type Options struct {
	// MockFallback 地址/运费接口缺失或不可达时使用固定桩数据
	// 提交永不回退
	MockFallback bool
	Currency     string
}

// MockShippingCost 桩回退使用的报价
const MockShippingCost = 5.99

// Orchestrator 结算编排器
type Orchestrator struct {
	gateway checkout.Gateway
	tokens  checkout.TokenSource
	cart    checkout.CartSource
	opts    Options
}

// NewOrchestrator 创建结算编排器
func NewOrchestrator(gateway checkout.Gateway, tokens checkout.TokenSource, cart checkout.CartSource, opts Options) *Orchestrator {
	if opts.Currency == "" {
		opts.Currency = "USD"
	}
	return &Orchestrator{gateway: gateway, tokens: tokens, cart: cart, opts: opts}
}

// Begin 开始一次新的结算尝试
func (o *Orchestrator) Begin() *Attempt {
	return &Attempt{orchestrator: o}
}

// Submit 先检查会话再校验 draft，然后对购物车做快照并恰好提交一次订单
func (o *Orchestrator) Submit(ctx context.Context, draft checkout.Draft) checkout.Result {
	token := ""
	if o.tokens != nil {
		token = o.tokens.Token()
	}
	if token == "" {
		return failure(shared.NewAuthRequiredError("checkout"))
	}
	if err := draft.Validate(); err != nil {
		return failure(err)
	}

	if draft.Currency == "" {
		draft.Currency = o.opts.Currency
	}
	req, err := checkout.NewRequest(draft, o.cart.Items())
	if err != nil {
		return failure(err)
	}

	payload, err := o.gateway.Submit(ctx, token, req)
	if err != nil {
		logger.Warn("Order submission failed",
			zap.Float64("total", req.Total),
			zap.Int("items", len(req.Items)),
			zap.Error(err))
		return failure(err)
	}

	confirmation := checkout.ParseConfirmation(payload)
	result := checkout.Result{
		Outcome:    confirmation.Outcome(),
		OrderID:    confirmation.OrderID,
		EmailSent:  confirmation.EmailSent,
		EmailError: confirmation.EmailError,
		Payload:    payload,
	}
	if result.Outcome == checkout.OutcomePartialSuccess {
		result.Message = "order placed, but the confirmation email could not be sent"
	}
	logger.Info("Order placed",
		zap.String("order_id", result.OrderID),
		zap.String("outcome", string(result.Outcome)),
		zap.Float64("total", req.Total))
	return result
}

// ValidateAddress 先做格式校验，远程校验结果只作为警告
func (o *Orchestrator) ValidateAddress(ctx context.Context, addr checkout.Address) (warnings []string, err error) {
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	if o.gateway == nil {
		return nil, nil
	}
	if err := o.gateway.ValidateAddress(ctx, addr.Normalize()); err != nil {
		if o.fallback(err) {
			logger.Debug("Address validation unavailable, accepted by stub", zap.Error(err))
			return nil, nil
		}
		return []string{"address could not be verified: " + shared.UserMessage(err)}, nil
	}
	return nil, nil
}

// QuoteShipping 自提免运费；报价失败记为警告，运费为 0
func (o *Orchestrator) QuoteShipping(ctx context.Context, addr checkout.Address, option checkout.DeliveryOption) (checkout.Quote, []string) {
	free := checkout.Quote{Cost: 0, Currency: o.opts.Currency}
	if !option.Shipped() || o.gateway == nil {
		return free, nil
	}
	quote, err := o.gateway.QuoteShipping(ctx, addr.Normalize(), option)
	if err != nil {
		if o.fallback(err) {
			logger.Debug("Shipping quote unavailable, using stub", zap.Error(err))
			return checkout.Quote{Cost: MockShippingCost, Currency: o.opts.Currency}, nil
		}
		logger.Warn("Shipping quote failed", zap.String("option", string(option.Kind)), zap.Error(err))
		return free, []string{"shipping cost could not be calculated: " + shared.UserMessage(err)}
	}
	if quote.Currency == "" {
		quote.Currency = o.opts.Currency
	}
	return quote, nil
}

// DeliveryOptions 远程列表，不可用或为空时使用固定集合
func (o *Orchestrator) DeliveryOptions(ctx context.Context) []checkout.OptionInfo {
	if o.gateway == nil {
		return checkout.DefaultDeliveryOptions()
	}
	options, err := o.gateway.DeliveryOptions(ctx)
	if err != nil || len(options) == 0 {
		if err != nil {
			logger.Debug("Delivery options unavailable, using defaults", zap.Error(err))
		}
		return checkout.DefaultDeliveryOptions()
	}
	return options
}

func (o *Orchestrator) fallback(err error) bool {
	return o.opts.MockFallback && checkout.IsUnimplemented(err)
}

func failure(err error) checkout.Result {
	return checkout.Result{
		Outcome: checkout.OutcomeFailure,
		Message: shared.UserMessage(err),
		Err:     err,
	}
}

// IsLocalRejection 结果是否在任何网络调用之前就已失败
func IsLocalRejection(r checkout.Result) bool {
	return errors.Is(r.Err, shared.ErrValidation) || errors.Is(r.Err, shared.ErrAuthRequired)
}
