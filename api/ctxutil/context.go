package ctxutil

import (
	"context"

	"storefront/api/response"
	"storefront/infrastructure/persistence"

	"github.com/gin-gonic/gin"
)

// WithRequestID 携带 gin 请求 id 的请求 context
func WithRequestID(ctx *gin.Context) context.Context {
	return persistence.ContextWithRequestID(ctx.Request.Context(), response.GetRequestID(ctx))
}
