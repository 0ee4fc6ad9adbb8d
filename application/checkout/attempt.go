package checkout

import (
	"context"
	"sync"

	"storefront/domain/checkout"
	"storefront/domain/shared"
)

// Attempt 一次结算的 Draft 容器
type Attempt struct {
	mu           sync.Mutex
	orchestrator *Orchestrator
	draft        checkout.Draft
	warnings     []string
}

// Draft 已累积 draft 的副本
func (a *Attempt) Draft() checkout.Draft {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.draft.Clone()
}

// Warnings 目前收集到的非致命问题
func (a *Attempt) Warnings() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.warnings...)
}

// SetAddress 第 1 步
// 地址变化时对已选配送方式重新报价
func (a *Attempt) SetAddress(ctx context.Context, addr checkout.Address) ([]string, error) {
	warnings, err := a.orchestrator.ValidateAddress(ctx, addr)
	if err != nil {
		return nil, err
	}
	normalized := addr.Normalize()

	a.mu.Lock()
	a.draft.Address = &normalized
	option := a.draft.DeliveryOption
	a.mu.Unlock()

	if option != nil {
		quoteWarnings := a.quote(ctx, normalized, *option)
		warnings = append(warnings, quoteWarnings...)
	}
	a.addWarnings(warnings)
	return warnings, nil
}

// SelectDelivery 第 2 步，需要先有地址
func (a *Attempt) SelectDelivery(ctx context.Context, option checkout.DeliveryOption) ([]string, error) {
	a.mu.Lock()
	addr := a.draft.Address
	a.mu.Unlock()

	if addr == nil {
		return nil, shared.NewValidationError("checkout", "address", "enter a shipping address first")
	}
	option = option.Normalize()
	if err := option.Validate(); err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.draft.DeliveryOption = &option
	a.mu.Unlock()

	warnings := a.quote(ctx, *addr, option)
	a.addWarnings(warnings)
	return warnings, nil
}

func (a *Attempt) quote(ctx context.Context, addr checkout.Address, option checkout.DeliveryOption) []string {
	quote, warnings := a.orchestrator.QuoteShipping(ctx, addr, option)

	a.mu.Lock()
	defer a.mu.Unlock()
	// 更新的选择已取代本次报价
	if a.draft.DeliveryOption == nil || *a.draft.DeliveryOption != option {
		return warnings
	}
	a.draft.Shipping = quote.Cost
	a.draft.Currency = quote.Currency
	return warnings
}

// SetPayment 第 3 步，需要先选配送方式
func (a *Attempt) SetPayment(p checkout.Payment) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.draft.DeliveryOption == nil {
		return shared.NewValidationError("checkout", "deliveryOption", "select a delivery option first")
	}
	if err := p.Validate(); err != nil {
		return err
	}
	a.draft = a.draft.WithPayment(p)
	return nil
}

// AcceptTerms 第 4 步
func (a *Attempt) AcceptTerms(accepted bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.draft.TermsAccepted = accepted
}

// AcceptCMRTerms CMR 卡条款，使用 cmr 支付时必需
func (a *Attempt) AcceptCMRTerms(accepted bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.draft.CMRTermsAccepted = &accepted
}

// Submit 第 5 步，下单成功后重置 draft
// 清空购物车由调用方负责
func (a *Attempt) Submit(ctx context.Context) checkout.Result {
	draft := a.Draft()
	result := a.orchestrator.Submit(ctx, draft)
	result.Warnings = a.Warnings()
	if result.Placed() {
		a.Reset()
	}
	return result
}

// Reset 丢弃 draft
func (a *Attempt) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.draft = checkout.Draft{}
	a.warnings = nil
}

// Abandon 不提交直接丢弃 draft
func (a *Attempt) Abandon() { a.Reset() }

func (a *Attempt) addWarnings(w []string) {
	if len(w) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.warnings = append(a.warnings, w...)
}
