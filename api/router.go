package api

import (
	"storefront/api/cart"
	"storefront/api/catalog"
	"storefront/api/checkout"
	"storefront/api/health"
	"storefront/api/middleware"
	"storefront/api/preferences"
	"storefront/api/session"
	"storefront/config"

	"github.com/gin-gonic/gin"
)

// Controllers 挂载在 /api/v1 下的全部控制器
type Controllers struct {
	Health      *health.Controller
	Cart        *cart.Controller
	Session     *session.Controller
	Checkout    *checkout.Controller
	Catalog     *catalog.Controller
	Preferences *preferences.Controller
}

// Router 路由配置
type Router struct {
	engine      *gin.Engine
	config      *config.Config
	controllers Controllers
}

// NewRouter 创建路由配置
func NewRouter(cfg *config.Config, controllers Controllers) *Router {
	// 根据环境设置 Gin 模式
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// 添加中间件（顺序很重要）
	engine.Use(middleware.RequestIDMiddleware())                      // 1. 最先生成请求 ID
	engine.Use(middleware.RecoveryMiddleware())                       // 2. 恢复中间件
	engine.Use(middleware.LoggingMiddleware())                        // 3. 日志中间件
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))                  // 4. CORS
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit)) // 5. 限流

	return &Router{
		engine:      engine,
		config:      cfg,
		controllers: controllers,
	}
}

// SetupRoutes 设置全部路由
func (r *Router) SetupRoutes() {
	apiGroup := r.engine.Group("/api/v1")
	{
		r.controllers.Health.RegisterRoutes(apiGroup)
		r.controllers.Cart.RegisterRoutes(apiGroup)
		r.controllers.Session.RegisterRoutes(apiGroup)
		r.controllers.Checkout.RegisterRoutes(apiGroup)
		r.controllers.Catalog.RegisterRoutes(apiGroup)
		r.controllers.Preferences.RegisterRoutes(apiGroup)
	}

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/api/v1/health",
		})
	})
}

// GetEngine 获取 Gin 引擎
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
