package api

import (
	"context"
	"net/http"
	"net/url"

	"omonat/internal/core"
)

type ExpenseAPI struct {
	c *Client
}

func (e *ExpenseAPI) List(ctx context.Context, params url.Values) ([]core.Expense, error) {
	var out []core.Expense
	if err := e.c.do(ctx, http.MethodGet, "/expenses", params, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *ExpenseAPI) Get(ctx context.Context, id string) (core.Expense, error) {
	var out core.Expense
	err := e.c.do(ctx, http.MethodGet, "/expenses/"+escape(id), nil, nil, &out)
	return out, err
}

func (e *ExpenseAPI) Create(ctx context.Context, in core.ExpenseInput) (core.Expense, error) {
	var out core.Expense
	err := e.c.do(ctx, http.MethodPost, "/expenses", nil, in, &out)
	return out, err
}

func (e *ExpenseAPI) Update(ctx context.Context, id string, in core.ExpenseInput) (core.Expense, error) {
	var out core.Expense
	err := e.c.do(ctx, http.MethodPut, "/expenses/"+escape(id), nil, in, &out)
	return out, err
}

func (e *ExpenseAPI) Delete(ctx context.Context, id string) error {
	return e.c.do(ctx, http.MethodDelete, "/expenses/"+escape(id), nil, nil, nil)
}
