// Package preferences - 偏好设置 API 控制器
package preferences

import (
	"net/http"

	"storefront/api/ctxutil"
	"storefront/api/response"
	prefapp "storefront/application/preferences"

	"github.com/gin-gonic/gin"
)

// Controller 偏好控制器
type Controller struct {
	store *prefapp.Store
}

// NewController 创建偏好控制器
func NewController(store *prefapp.Store) *Controller {
	return &Controller{store: store}
}

// RegisterRoutes 注册偏好路由
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	prefGroup := router.Group("/preferences")
	{
		prefGroup.GET("/language", c.GetLanguage)
		prefGroup.PUT("/language", c.SetLanguage)
		prefGroup.POST("/language/toggle", c.ToggleLanguage)
	}
}

// LanguageRequest 语言设置请求
type LanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

// LanguageView 语言视图
type LanguageView struct {
	Language string `json:"language"`
}

// GetLanguage GET /api/v1/preferences/language
func (c *Controller) GetLanguage(ctx *gin.Context) {
	response.HandleSuccess(ctx, LanguageView{Language: c.store.Language()}, "language retrieved")
}

// SetLanguage PUT /api/v1/preferences/language
func (c *Controller) SetLanguage(ctx *gin.Context) {
	var req LanguageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}
	lang, err := c.store.Set(ctxutil.WithRequestID(ctx), req.Language)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, LanguageView{Language: lang}, "language updated")
}

// ToggleLanguage POST /api/v1/preferences/language/toggle
func (c *Controller) ToggleLanguage(ctx *gin.Context) {
	lang := c.store.Toggle(ctxutil.WithRequestID(ctx))
	response.HandleSuccess(ctx, LanguageView{Language: lang}, "language updated")
}
