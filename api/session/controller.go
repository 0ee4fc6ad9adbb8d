// Package session - 会话 API 控制器
package session

import (
	stdErrors "errors"
	"net/http"
	"time"

	"storefront/api/ctxutil"
	"storefront/api/response"
	sessionapp "storefront/application/session"
	"storefront/domain/session"
	"storefront/domain/shared"
	"storefront/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Controller 会话控制器
type Controller struct {
	store *sessionapp.Store
}

// NewController 创建会话控制器
func NewController(store *sessionapp.Store) *Controller {
	return &Controller{store: store}
}

// RegisterRoutes 注册会话路由
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	sessionGroup := router.Group("/session")
	{
		sessionGroup.GET("", c.GetSession)
		sessionGroup.POST("/login", c.Login)
		sessionGroup.POST("/logout", c.Logout)
	}
}

// View 会话视图，令牌本身从不返回
type View struct {
	Status         session.Status `json:"status"`
	Authenticated  bool           `json:"authenticated"`
	DisplayName    string         `json:"display_name,omitempty"`
	ExpiresAt      *time.Time     `json:"expires_at,omitempty"`
	RememberedName string         `json:"remembered_name,omitempty"`
}

func (c *Controller) view(ctx *gin.Context, state session.State) View {
	return View{
		Status:         state.Status(),
		Authenticated:  state.Authenticated(),
		DisplayName:    state.DisplayName(),
		ExpiresAt:      state.ExpiresAt,
		RememberedName: c.store.RememberedName(ctxutil.WithRequestID(ctx)),
	}
}

// GetSession 当前会话
// GET /api/v1/session
func (c *Controller) GetSession(ctx *gin.Context) {
	response.HandleSuccess(ctx, c.view(ctx, c.store.State()), "session retrieved")
}

// Login 登录
// POST /api/v1/session/login
// 失败时 message 为可直接展示的错误文本，状态码按错误类型映射
func (c *Controller) Login(ctx *gin.Context) {
	var creds session.Credentials
	if err := ctx.ShouldBindJSON(&creds); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	result := c.store.Login(ctxutil.WithRequestID(ctx), creds.Identifier, creds.Secret)
	if !result.Success {
		appErr := errors.FromDomainError(result.Err)
		if appErr == nil {
			appErr = errors.Internal(result.Error)
		}
		status := response.StatusFor(appErr.Code)
		// 后端的 4xx（凭证错误等）原样透传
		var serverErr *shared.ServerError
		if stdErrors.As(result.Err, &serverErr) && serverErr.Status >= 400 && serverErr.Status < 500 {
			status = serverErr.Status
		}
		response.HandleResult(ctx, status, false, c.view(ctx, c.store.State()), string(appErr.Code), result.Error)
		return
	}
	response.HandleSuccess(ctx, c.view(ctx, result.State), "logged in")
}

// Logout 登出，总是成功
// POST /api/v1/session/logout
func (c *Controller) Logout(ctx *gin.Context) {
	result := c.store.Logout(ctxutil.WithRequestID(ctx))
	response.HandleSuccess(ctx, result, "logged out")
}
