package health

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"storefront/config"

	"github.com/gin-gonic/gin"
)

const checkTimeout = 2 * time.Second

// Pinger 能报告自身可达性的依赖
type Pinger interface {
	Ping(ctx context.Context) error
}

// Controller 健康检查控制器
type Controller struct {
	config    *config.Config
	checks    map[string]Pinger
	startTime time.Time
}

// NewController 创建健康检查控制器
// checks 依赖名（"persistent"、"session"）到后端的映射，nil 项跳过
func NewController(cfg *config.Config, checks map[string]Pinger) *Controller {
	filtered := make(map[string]Pinger, len(checks))
	for name, p := range checks {
		if p != nil {
			filtered[name] = p
		}
	}
	return &Controller{
		config:    cfg,
		checks:    filtered,
		startTime: time.Now(),
	}
}

// RegisterRoutes 注册健康检查路由
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", c.Health)
	router.GET("/health/live", c.Liveness)
	router.GET("/health/ready", c.Readiness)
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status    string           `json:"status"`
	Version   string           `json:"version"`
	Uptime    string           `json:"uptime"`
	Timestamp string           `json:"timestamp"`
	Checks    map[string]Check `json:"checks,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check 检查项
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo 系统信息
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumCPU       int    `json:"num_cpu"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
}

// Health 完整健康检查
// 存储故障会使引擎降级（读取回退为空状态），但不会使其停止
func (c *Controller) Health(ctx *gin.Context) {
	checks := c.runChecks(ctx.Request.Context())
	overallStatus := "healthy"
	for _, check := range checks {
		if check.Status != "healthy" {
			overallStatus = "degraded"
		}
	}

	response := HealthResponse{
		Status:    overallStatus,
		Version:   c.config.App.Version,
		Uptime:    time.Since(c.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	// 仅在开发模式下暴露系统信息
	if c.config.IsDevelopment() {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)
		response.System = &SystemInfo{
			GoVersion:    runtime.Version(),
			NumCPU:       runtime.NumCPU(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAlloc:     memStats.Alloc,
		}
	}

	ctx.JSON(http.StatusOK, response)
}

// Liveness 存活检查（Kubernetes liveness）
func (c *Controller) Liveness(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

// Readiness 就绪检查（Kubernetes readiness）
func (c *Controller) Readiness(ctx *gin.Context) {
	checks := c.runChecks(ctx.Request.Context())

	var failing []string
	for name, check := range checks {
		if check.Status != "healthy" {
			failing = append(failing, name)
		}
	}
	if len(failing) > 0 {
		sort.Strings(failing)
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not_ready",
			"message": "storage not available",
			"failing": failing,
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

func (c *Controller) runChecks(ctx context.Context) map[string]Check {
	checks := make(map[string]Check, len(c.checks))
	for name, p := range c.checks {
		checks[name] = ping(ctx, p)
	}
	return checks
}

func ping(ctx context.Context, p Pinger) Check {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{
			Status:  "unhealthy",
			Message: err.Error(),
			Latency: latency.String(),
		}
	}
	return Check{
		Status:  "healthy",
		Latency: latency.String(),
	}
}
