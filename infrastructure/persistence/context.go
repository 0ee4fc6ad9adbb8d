package persistence

import "context"

// requestIDKey 请求 id 的 context 键
type requestIDKey struct{}

// legacyRequestIDKey gin 的 c.Set 以字符串 key 存储请求 ID
const legacyRequestIDKey = "request_id"

// ContextWithRequestID 返回携带请求 id 的新 context
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext 从 context 中读取请求 id
// 不存在时返回 ""
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	if id, ok := ctx.Value(legacyRequestIDKey).(string); ok {
		return id
	}
	return ""
}
