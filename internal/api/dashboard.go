package api

import (
	"context"
	"net/http"

	"omonat/internal/core"
)

type DashboardAPI struct {
	c *Client
}

func (d *DashboardAPI) Stats(ctx context.Context) (core.DashboardStats, error) {
	var out core.DashboardStats
	err := d.c.do(ctx, http.MethodGet, "/dashboard/stats", nil, nil, &out)
	return out, err
}
