package api

import (
	"context"
	"net/http"

	"omonat/internal/core"
)

type AuthAPI struct {
	c *Client
}

// Register creates an account. The upstream answers with the new user and
// sets the session cookie.
func (a *AuthAPI) Register(ctx context.Context, in core.Registration) (core.User, error) {
	var u core.User
	err := a.c.do(ctx, http.MethodPost, "/auth/register", nil, in, &u)
	return u, err
}

func (a *AuthAPI) Login(ctx context.Context, in core.Credentials) (core.User, error) {
	var u core.User
	err := a.c.do(ctx, http.MethodPost, "/auth/login", nil, in, &u)
	return u, err
}

func (a *AuthAPI) Logout(ctx context.Context) error {
	return a.c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

// Me resolves the identity behind the current session cookie.
func (a *AuthAPI) Me(ctx context.Context) (core.User, error) {
	var u core.User
	err := a.c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &u)
	return u, err
}

func (a *AuthAPI) UpdateProfile(ctx context.Context, in core.ProfileInput) (core.User, error) {
	var u core.User
	err := a.c.do(ctx, http.MethodPut, "/auth/profile", nil, in, &u)
	return u, err
}
