/*
Package checkout - 结账 API 控制器

每个 Controller 持有一个进行中的结账 Attempt（本地引擎只服务一个用户）。
下单成功（含部分成功）后清空购物车，Attempt 自行重置。
*/
package checkout

import (
	"net/http"

	"storefront/api/ctxutil"
	"storefront/api/response"
	cartapp "storefront/application/cart"
	checkoutapp "storefront/application/checkout"
	"storefront/domain/checkout"
	"storefront/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Controller 结账控制器
type Controller struct {
	orchestrator *checkoutapp.Orchestrator
	attempt      *checkoutapp.Attempt
	cart         *cartapp.Store
}

// NewController 创建结账控制器
func NewController(orchestrator *checkoutapp.Orchestrator, cart *cartapp.Store) *Controller {
	return &Controller{
		orchestrator: orchestrator,
		attempt:      orchestrator.Begin(),
		cart:         cart,
	}
}

// RegisterRoutes 注册结账路由
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	checkoutGroup := router.Group("/checkout")
	{
		checkoutGroup.GET("", c.GetDraft)
		checkoutGroup.DELETE("", c.Abandon)
		checkoutGroup.GET("/delivery-options", c.DeliveryOptions)
		checkoutGroup.POST("/address", c.SetAddress)
		checkoutGroup.POST("/delivery", c.SelectDelivery)
		checkoutGroup.POST("/payment", c.SetPayment)
		checkoutGroup.POST("/terms", c.AcceptTerms)
		checkoutGroup.POST("/submit", c.Submit)
	}
}

// DraftView 草稿视图，卡号只返回后四位
type DraftView struct {
	Address          *checkout.Address        `json:"address,omitempty"`
	DeliveryOption   *checkout.DeliveryOption `json:"deliveryOption,omitempty"`
	PaymentMethod    *string                  `json:"paymentMethod,omitempty"`
	CardLast4        string                   `json:"cardLast4,omitempty"`
	TermsAccepted    bool                     `json:"termsAccepted"`
	CMRTermsAccepted *bool                    `json:"cmrTermsAccepted,omitempty"`
	Shipping         float64                  `json:"shipping"`
	Subtotal         float64                  `json:"subtotal"`
	Warnings         []string                 `json:"warnings,omitempty"`
}

func (c *Controller) view() DraftView {
	draft := c.attempt.Draft()
	v := DraftView{
		Address:          draft.Address,
		DeliveryOption:   draft.DeliveryOption,
		PaymentMethod:    draft.PaymentMethod,
		TermsAccepted:    draft.TermsAccepted,
		CMRTermsAccepted: draft.CMRTermsAccepted,
		Shipping:         draft.Shipping,
		Subtotal:         c.cart.Subtotal(),
		Warnings:         c.attempt.Warnings(),
	}
	if draft.CardDetails != nil {
		v.CardLast4 = last4(draft.CardDetails.CardNumber)
	}
	return v
}

func last4(number string) string {
	digits := make([]rune, 0, len(number))
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) <= 4 {
		return string(digits)
	}
	return string(digits[len(digits)-4:])
}

// GetDraft 当前草稿
// GET /api/v1/checkout
func (c *Controller) GetDraft(ctx *gin.Context) {
	response.HandleSuccess(ctx, c.view(), "checkout retrieved")
}

// DeliveryOptions 配送方式列表
// GET /api/v1/checkout/delivery-options
func (c *Controller) DeliveryOptions(ctx *gin.Context) {
	response.HandleSuccess(ctx, c.orchestrator.DeliveryOptions(ctxutil.WithRequestID(ctx)), "delivery options retrieved")
}

// SetAddress 第一步：地址
// POST /api/v1/checkout/address
func (c *Controller) SetAddress(ctx *gin.Context) {
	var addr checkout.Address
	if err := ctx.ShouldBindJSON(&addr); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}
	if _, err := c.attempt.SetAddress(ctxutil.WithRequestID(ctx), addr); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, c.view(), "address saved")
}

// SelectDelivery 第二步：配送方式
// POST /api/v1/checkout/delivery
func (c *Controller) SelectDelivery(ctx *gin.Context) {
	var option checkout.DeliveryOption
	if err := ctx.ShouldBindJSON(&option); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}
	if _, err := c.attempt.SelectDelivery(ctxutil.WithRequestID(ctx), option); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, c.view(), "delivery option saved")
}

// SetPayment 第三步：支付方式
// POST /api/v1/checkout/payment
func (c *Controller) SetPayment(ctx *gin.Context) {
	var payment checkout.Payment
	if err := ctx.ShouldBindJSON(&payment); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}
	if err := c.attempt.SetPayment(payment); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, c.view(), "payment method saved")
}

// TermsRequest 条款确认
type TermsRequest struct {
	Accepted    bool  `json:"accepted"`
	CMRAccepted *bool `json:"cmrAccepted"`
}

// AcceptTerms 第四步：条款
// POST /api/v1/checkout/terms
func (c *Controller) AcceptTerms(ctx *gin.Context) {
	var req TermsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}
	c.attempt.AcceptTerms(req.Accepted)
	if req.CMRAccepted != nil {
		c.attempt.AcceptCMRTerms(*req.CMRAccepted)
	}
	response.HandleSuccess(ctx, c.view(), "terms saved")
}

// Submit 第五步：下单
// POST /api/v1/checkout/submit
// 失败时 data 仍返回结果，message 为可展示文本
func (c *Controller) Submit(ctx *gin.Context) {
	reqCtx := ctxutil.WithRequestID(ctx)
	result := c.attempt.Submit(reqCtx)

	if result.Placed() {
		c.cart.Clear(reqCtx)
		message := result.Message
		if message == "" {
			message = "order placed"
		}
		response.HandleResult(ctx, http.StatusCreated, true, result, "", message)
		return
	}

	appErr := errors.FromDomainError(result.Err)
	if appErr == nil {
		appErr = errors.Internal(result.Message)
	}
	response.HandleResult(ctx, response.StatusFor(appErr.Code), false, result, string(appErr.Code), result.Message)
}

// Abandon 放弃当前结账
// DELETE /api/v1/checkout
func (c *Controller) Abandon(ctx *gin.Context) {
	c.attempt.Abandon()
	response.HandleSuccess(ctx, c.view(), "checkout abandoned")
}
