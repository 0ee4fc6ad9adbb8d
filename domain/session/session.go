/*
Package session 会话子域

状态机：

	ANONYMOUS --Login ok--> AUTHENTICATED --Logout--> ANONYMOUS

Token 与 Identity 同时设置、同时清除。早先进程在没有 token 的情况下
持久化的显示名不算身份：状态仍为 ANONYMOUS，该名称只作为登录表单的提示。
*/
package session

import (
	"context"
	"strings"
	"time"

	"storefront/domain/shared"
)

// Status 会话状态
type Status string

const (
	StatusAnonymous     Status = "ANONYMOUS"
	StatusAuthenticated Status = "AUTHENTICATED"
)

// LoginPath 登出后调用方应跳转的路径
const LoginPath = "/login"

// Identity 界面上展示的已认证用户
type Identity struct {
	DisplayName string `json:"display_name"`
}

// State 会话状态
type State struct {
	Token    string    `json:"-"`
	Identity *Identity `json:"identity,omitempty"`
	// ExpiresAt 声明中的过期时间，仅供参考
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Status 持有非空 token 时当且仅当为 AUTHENTICATED
func (s State) Status() Status {
	if s.Token != "" {
		return StatusAuthenticated
	}
	return StatusAnonymous
}

// Authenticated 等价于 Status() == StatusAuthenticated
func (s State) Authenticated() bool {
	return s.Status() == StatusAuthenticated
}

// DisplayName 匿名时为 ""
func (s State) DisplayName() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.DisplayName
}

// Credentials 登录表单输入
type Credentials struct {
	Identifier string `json:"username"`
	Secret     string `json:"password"`
}

// Validate 两个字段都不能为空白
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Identifier) == "" {
		return shared.NewValidationError("session", "username", "username is required")
	}
	if c.Secret == "" {
		return shared.NewValidationError("session", "password", "password is required")
	}
	return nil
}

// Grant 凭据交换成功的结果
type Grant struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Authenticator 远程认证接口
type Authenticator interface {
	// Login 用凭据换取 token
	Login(ctx context.Context, creds Credentials) (Grant, error)
	// Invalidate 尽力而为的服务端登出
	Invalidate(ctx context.Context, token string) error
}

// LoginResult 登录结果
type LoginResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	// Err 类型化的错误原因，成功时为 nil
	Err   error `json:"-"`
	State State `json:"-"`
}

// LogoutResult 登出结果
type LogoutResult struct {
	RedirectTo string `json:"redirect_to"`
	// Invalidated 服务端是否确认了登出
	Invalidated bool `json:"invalidated"`
}
