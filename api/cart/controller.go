/*
Package cart - 购物车 API 控制器

参数绑定错误直接返回 400；被拒绝的加购（价格无效、缺 id）返回 VALIDATION_ERROR。
所有成功响应都返回最新的购物车快照。
*/
package cart

import (
	"net/http"

	"storefront/api/ctxutil"
	"storefront/api/response"
	cartapp "storefront/application/cart"
	"storefront/domain/cart"
	"storefront/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Controller 购物车控制器
type Controller struct {
	store *cartapp.Store
}

// NewController 创建购物车控制器
func NewController(store *cartapp.Store) *Controller {
	return &Controller{store: store}
}

// RegisterRoutes 注册购物车路由
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	cartGroup := router.Group("/cart")
	{
		cartGroup.GET("", c.GetCart)
		cartGroup.DELETE("", c.ClearCart)
		cartGroup.POST("/items", c.AddItem)
		cartGroup.DELETE("/items/:id", c.RemoveItem)
		cartGroup.POST("/items/:id/decrease", c.DecreaseItem)
	}
}

// AddItemRequest 加购请求，precio 接受数字或字符串
type AddItemRequest struct {
	ID       string `json:"id" binding:"required"`
	Name     string `json:"nombre"`
	Price    any    `json:"precio" binding:"required"`
	ImageRef string `json:"imagen"`
}

// GetCart 获取购物车
// GET /api/v1/cart
func (c *Controller) GetCart(ctx *gin.Context) {
	response.HandleSuccess(ctx, c.store.Snapshot(), "cart retrieved")
}

// AddItem 加购一件
// POST /api/v1/cart/items
func (c *Controller) AddItem(ctx *gin.Context) {
	var req AddItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	ok := c.store.AddItem(ctxutil.WithRequestID(ctx), cart.ProductInput{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		ImageRef: req.ImageRef,
	})
	if !ok {
		response.HandleAppError(ctx, errors.Validation("product has no valid id or price"))
		return
	}
	response.HandleSuccess(ctx, c.store.Snapshot(), "item added")
}

// RemoveItem 删除一行，不存在时为空操作
// DELETE /api/v1/cart/items/:id
func (c *Controller) RemoveItem(ctx *gin.Context) {
	c.store.RemoveItem(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	response.HandleSuccess(ctx, c.store.Snapshot(), "item removed")
}

// DecreaseItem 数量减一，到 0 时删除
// POST /api/v1/cart/items/:id/decrease
func (c *Controller) DecreaseItem(ctx *gin.Context) {
	c.store.DecreaseQuantity(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	response.HandleSuccess(ctx, c.store.Snapshot(), "item decreased")
}

// ClearCart 清空购物车
// DELETE /api/v1/cart
func (c *Controller) ClearCart(ctx *gin.Context) {
	c.store.Clear(ctxutil.WithRequestID(ctx))
	response.HandleSuccess(ctx, c.store.Snapshot(), "cart cleared")
}
