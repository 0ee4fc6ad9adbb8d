// Package catalog - 商品目录 API 控制器
package catalog

import (
	"strings"

	"storefront/api/ctxutil"
	"storefront/api/response"
	catalogapp "storefront/application/catalog"
	"storefront/domain/catalog"
	"storefront/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Controller 目录控制器
type Controller struct {
	service *catalogapp.Service
	store   *catalogapp.Store
}

// NewController 创建目录控制器
func NewController(service *catalogapp.Service, store *catalogapp.Store) *Controller {
	return &Controller{service: service, store: store}
}

// RegisterRoutes 注册目录路由
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	catalogGroup := router.Group("/catalog")
	{
		catalogGroup.GET("/products", c.ListProducts)
		catalogGroup.GET("/products/:id", c.GetProduct)
	}
}

// ListingView 商品列表视图
type ListingView struct {
	Products []catalog.Product `json:"products"`
	Category string            `json:"category"`
	Fallback bool              `json:"fallback"`
	Error    string            `json:"error,omitempty"`
}

// ListProducts 商品列表
// GET /api/v1/catalog/products[?category=]
// 每次请求重新加载；后端不可达时返回占位商品并标记 fallback
func (c *Controller) ListProducts(ctx *gin.Context) {
	c.store.SetSelectedCategory(ctx.Query("category"))
	state := c.store.Load(ctxutil.WithRequestID(ctx))

	products := state.Filtered()

	if state.Error != "" && !state.Fallback && len(state.Products) == 0 {
		response.HandleResult(ctx, response.StatusFor(errors.CodeServer), false, ListingView{
			Products: products,
			Category: state.SelectedCategory,
			Error:    state.Error,
		}, string(errors.CodeServer), state.Error)
		return
	}

	response.HandleSuccess(ctx, ListingView{
		Products: products,
		Category: state.SelectedCategory,
		Fallback: state.Fallback,
		Error:    state.Error,
	}, "products retrieved")
}

// GetProduct 商品详情
// GET /api/v1/catalog/products/:id
func (c *Controller) GetProduct(ctx *gin.Context) {
	product, err := c.service.GetProduct(ctxutil.WithRequestID(ctx), strings.TrimSpace(ctx.Param("id")))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, product, "product retrieved")
}
