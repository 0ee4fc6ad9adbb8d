/*
Package session 应用层 - 会话/认证 store

键归属：
- 会话作用域：authToken, username
- 持久作用域：nombre（跨重启记住的显示名）

只有 Login 和启动恢复会设置 token。持有 token 时只有 Logout 会清除身份。
*/
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/domain/session"
	"storefront/domain/shared"
	"storefront/domain/storage"
	"storefront/pkg/logger"

	"go.uber.org/zap"
)

// Store 会话 store
type Store struct {
	auth      session.Authenticator
	state     *shared.Observable[session.State]
	sessionKV *storage.Bridge
	persistKV *storage.Bridge
}

// NewStore 创建会话 store，从会话作用域重建状态
func NewStore(ctx context.Context, auth session.Authenticator, sessionKV, persistKV *storage.Bridge) *Store {
	s := &Store{
		auth:      auth,
		sessionKV: sessionKV,
		persistKV: persistKV,
	}
	s.state = shared.NewObservable(s.hydrate(ctx))
	return s
}

func (s *Store) hydrate(ctx context.Context) session.State {
	token, _ := s.sessionKV.Get(ctx, storage.KeyAuthToken)
	token = strings.TrimSpace(token)
	if token == "" {
		return session.State{}
	}

	state := session.State{Token: token}
	name, _ := s.sessionKV.Get(ctx, storage.KeyUsername)
	claims, hasClaims := session.ParseClaims(token)
	if name == "" && hasClaims {
		name = claims.Name()
	}
	if name == "" {
		name, _ = s.persistKV.Get(ctx, storage.KeyDisplayName)
	}
	state.Identity = &session.Identity{DisplayName: name}
	if hasClaims {
		state.ExpiresAt = claims.ExpiresAt
	}
	return state
}

// State 当前会话状态
func (s *Store) State() session.State { return s.state.GetState() }

// Status ANONYMOUS 或 AUTHENTICATED
func (s *Store) Status() session.Status { return s.state.GetState().Status() }

// Token 匿名时为 ""
func (s *Store) Token() string { return s.state.GetState().Token }

// Identity 匿名时为 nil
func (s *Store) Identity() *session.Identity {
	id := s.state.GetState().Identity
	if id == nil {
		return nil
	}
	cp := *id
	return &cp
}

// RememberedName 之前登录持久化的显示名（如有）
func (s *Store) RememberedName(ctx context.Context) string {
	name, _ := s.persistKV.Get(ctx, storage.KeyDisplayName)
	return name
}

// Subscribe 监听会话变化
func (s *Store) Subscribe(listener func(session.State)) (unsubscribe func()) {
	return s.state.Subscribe(shared.Listener[session.State](listener))
}

// Login 用凭据换取 token
// 失败时状态保持不变
func (s *Store) Login(ctx context.Context, identifier, secret string) session.LoginResult {
	creds := session.Credentials{Identifier: strings.TrimSpace(identifier), Secret: secret}
	if err := creds.Validate(); err != nil {
		return failure(err)
	}
	if s.auth == nil {
		return failure(shared.NewTransportError("login", errors.New("no authenticator configured")))
	}

	grant, err := s.auth.Login(ctx, creds)
	if err != nil {
		logger.Warn("Login failed",
			zap.String("username", creds.Identifier),
			zap.Error(err))
		return failure(err)
	}
	if grant.Token == "" {
		return failure(shared.NewDecodeError("login", errors.New("response carried no token")))
	}

	claims, hasClaims := session.ParseClaims(grant.Token)
	name := grant.Username
	if name == "" && hasClaims {
		name = claims.Name()
	}
	if name == "" {
		name = creds.Identifier
	}

	next := session.State{
		Token:    grant.Token,
		Identity: &session.Identity{DisplayName: name},
	}
	if hasClaims {
		next.ExpiresAt = claims.ExpiresAt
	}

	s.state.Update(func(session.State) session.State {
		s.sessionKV.Set(ctx, storage.KeyAuthToken, next.Token)
		s.sessionKV.Set(ctx, storage.KeyUsername, name)
		s.persistKV.Set(ctx, storage.KeyDisplayName, name)
		return next
	})

	logger.Info("Login succeeded", zap.String("username", name))
	return session.LoginResult{Success: true, State: next}
}

// Logout 尽力通知服务端失效，然后无条件清除本地状态
func (s *Store) Logout(ctx context.Context) session.LogoutResult {
	result := session.LogoutResult{RedirectTo: session.LoginPath}

	if token := s.Token(); token != "" && s.auth != nil {
		if err := s.auth.Invalidate(ctx, token); err != nil {
			logger.Warn("Failed to invalidate token on server", zap.Error(err))
		} else {
			result.Invalidated = true
		}
	}

	s.state.Update(func(session.State) session.State {
		s.sessionKV.Remove(ctx, storage.KeyAuthToken)
		s.sessionKV.Remove(ctx, storage.KeyUsername)
		return session.State{}
	})
	return result
}

func failure(err error) session.LoginResult {
	return session.LoginResult{Success: false, Error: loginMessage(err), Err: err}
}

// loginMessage 优先取后端 error/message，否则为 "Error <code>: <status text>"
func loginMessage(err error) string {
	var serverErr *shared.ServerError
	if errors.As(err, &serverErr) {
		if serverErr.Message != "" {
			return serverErr.Message
		}
		return fmt.Sprintf("Error %d: %s", serverErr.Status, serverErr.StatusText)
	}
	return shared.UserMessage(err)
}
