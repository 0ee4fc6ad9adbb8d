/*
Package storage - 本地键值存储桥接

两种作用域:
- ScopePersistent: 跨进程重启保留，由用户或运维显式清除
- ScopeSession:    会话结束（进程退出或会话过期）即清除

每个 key 只属于一个 store：购物车、会话、语言偏好各自写自己的 key，
其他组件只读。
*/
package storage

import (
	"context"
	"errors"
)

// Scope 存储作用域
type Scope string

const (
	ScopePersistent Scope = "persistent"
	ScopeSession    Scope = "session"
)

// 固定 key
const (
	KeyCart        = "cart"      // persistent，购物车 store
	KeyAuthToken   = "authToken" // session，会话 store
	KeyUsername    = "username"  // session，会话 store
	KeyDisplayName = "nombre"    // persistent，会话 store
	KeyLanguage    = "language"  // persistent，偏好 store
)

// ErrKeyNotFound 后端中不存在该 key
var ErrKeyNotFound = errors.New("key not found")

// Backend 原始键值后端，返回错误由 Bridge 吞掉
// 实现: memory (测试、会话), sqlite/mysql (持久), redis (会话)
type Backend interface {
	// Get 返回 ErrKeyNotFound 表示 key 不存在
	Get(ctx context.Context, scope Scope, key string) (string, error)
	Set(ctx context.Context, scope Scope, key, value string) error
	Remove(ctx context.Context, scope Scope, key string) error
}
