package api

import (
	"context"
	"net/http"

	"omonat/internal/core"
)

type AdminAPI struct {
	c *Client
}

func (a *AdminAPI) Stats(ctx context.Context) (core.AdminStats, error) {
	var out core.AdminStats
	err := a.c.do(ctx, http.MethodGet, "/admin/stats", nil, nil, &out)
	return out, err
}

func (a *AdminAPI) Users(ctx context.Context) ([]core.User, error) {
	var out []core.User
	if err := a.c.do(ctx, http.MethodGet, "/admin/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// User returns one user with all of their records.
func (a *AdminAPI) User(ctx context.Context, id string) (core.AdminUserDetail, error) {
	var out core.AdminUserDetail
	err := a.c.do(ctx, http.MethodGet, "/admin/users/"+escape(id), nil, nil, &out)
	return out, err
}

func (a *AdminAPI) ToggleBlock(ctx context.Context, id string) (core.ToggleResult, error) {
	var out core.ToggleResult
	err := a.c.do(ctx, http.MethodPatch, "/admin/users/"+escape(id)+"/toggle-block", nil, nil, &out)
	return out, err
}
