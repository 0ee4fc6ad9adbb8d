package session

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims 从未校验的 bearer token 中读取的声明
type TokenClaims struct {
	Subject   string
	Username  string
	ExpiresAt *time.Time
}

// Name 用户名声明，缺失时回退到 subject
func (c TokenClaims) Name() string {
	if c.Username != "" {
		return c.Username
	}
	return c.Subject
}

// ParseClaims 解码 token 载荷，不校验签名
// 只有服务端负责校验，客户端仅读取提示信息
// 不透明（非 JWT）token 返回 false
func ParseClaims(token string) (TokenClaims, bool) {
	if strings.Count(token, ".") != 2 {
		return TokenClaims{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return TokenClaims{}, false
	}

	var out TokenClaims
	out.Subject, _ = claims.GetSubject()
	out.Username, _ = claims["username"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		out.ExpiresAt = &t
	}
	return out, true
}
