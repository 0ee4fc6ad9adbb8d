package storage

import (
	"context"
	"encoding/json"
	"errors"

	"storefront/domain/shared"
	"storefront/pkg/logger"

	"go.uber.org/zap"
)

// Bridge 失败软化的键值桥接
//
// 读永不失败：任何后端或解码错误都返回 ("", false)；写失败只记录日志。
// backend 为 nil（或 *Bridge 为 nil）表示存储不可用，读返回空，写为空操作。
type Bridge struct {
	scope   Scope
	backend Backend
	log     *zap.Logger
}

// NewBridge 创建指定作用域的桥接
func NewBridge(scope Scope, backend Backend) *Bridge {
	return &Bridge{scope: scope, backend: backend}
}

// WithLogger 指定日志记录器（默认使用全局 logger）
func (b *Bridge) WithLogger(l *zap.Logger) *Bridge {
	b.log = l
	return b
}

// Scope 返回作用域
func (b *Bridge) Scope() Scope {
	if b == nil {
		return ""
	}
	return b.scope
}

// Available 后端是否可用
func (b *Bridge) Available() bool {
	return b != nil && b.backend != nil
}

// Get 读取字符串值
func (b *Bridge) Get(ctx context.Context, key string) (string, bool) {
	if !b.Available() {
		return "", false
	}
	value, err := b.backend.Get(ctx, b.scope, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			b.report(ctx, "get", key, err)
		}
		return "", false
	}
	return value, true
}

// Set 写入字符串值
func (b *Bridge) Set(ctx context.Context, key, value string) {
	if !b.Available() {
		return
	}
	if err := b.backend.Set(ctx, b.scope, key, value); err != nil {
		b.report(ctx, "set", key, err)
	}
}

// Remove 删除 key，不存在时为空操作
func (b *Bridge) Remove(ctx context.Context, key string) {
	if !b.Available() {
		return
	}
	if err := b.backend.Remove(ctx, b.scope, key); err != nil && !errors.Is(err, ErrKeyNotFound) {
		b.report(ctx, "remove", key, err)
	}
}

// GetJSON 读取并解码 JSON，任何失败返回 false
func (b *Bridge) GetJSON(ctx context.Context, key string, v any) bool {
	raw, ok := b.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		b.report(ctx, "decode", key, err)
		return false
	}
	return true
}

// SetJSON 编码并写入 JSON，编码失败为空操作
func (b *Bridge) SetJSON(ctx context.Context, key string, v any) {
	if !b.Available() {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		b.report(ctx, "encode", key, err)
		return
	}
	b.Set(ctx, key, string(raw))
}

func (b *Bridge) report(ctx context.Context, op, key string, cause error) {
	err := shared.NewPersistenceError(string(b.scope), key, cause)
	fields := []zap.Field{
		zap.String("scope", string(b.scope)),
		zap.String("key", key),
		zap.String("op", op),
		zap.Error(err),
	}
	if b.log != nil {
		b.log.Warn("storage operation failed", fields...)
		return
	}
	logger.FromContext(ctx, "storage").Warn("storage operation failed", fields...)
}
