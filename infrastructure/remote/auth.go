package remote

import (
	"context"
	"net/http"
	"strings"

	"storefront/domain/session"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Login POST {auth}/login_check
func (c *Client) Login(ctx context.Context, creds session.Credentials) (session.Grant, error) {
	body, err := c.do(ctx, call{
		op:          "login",
		method:      http.MethodPost,
		url:         c.authURL + "/login_check",
		body:        loginRequest{Username: creds.Identifier, Password: creds.Secret},
		messageKeys: []string{"error", "message"},
	})
	if err != nil {
		return session.Grant{}, err
	}

	var resp loginResponse
	if err := decode("login", body, &resp); err != nil {
		return session.Grant{}, err
	}
	return session.Grant{
		Token:    strings.TrimSpace(resp.Token),
		Username: strings.TrimSpace(resp.Username),
	}, nil
}

// Invalidate 携带 bearer token 调用 GET {auth}/logout，忽略响应体
func (c *Client) Invalidate(ctx context.Context, token string) error {
	_, err := c.do(ctx, call{
		op:     "logout",
		method: http.MethodGet,
		url:    c.authURL + "/logout",
		token:  token,
	})
	return err
}

var _ session.Authenticator = (*Client)(nil)
