package api

import (
	"context"
	"net/http"
	"net/url"

	"omonat/internal/core"
)

type DebtAPI struct {
	c *Client
}

func (d *DebtAPI) List(ctx context.Context, params url.Values) ([]core.Debt, error) {
	var out []core.Debt
	if err := d.c.do(ctx, http.MethodGet, "/debts", params, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *DebtAPI) Get(ctx context.Context, id string) (core.Debt, error) {
	var out core.Debt
	err := d.c.do(ctx, http.MethodGet, "/debts/"+escape(id), nil, nil, &out)
	return out, err
}

func (d *DebtAPI) Create(ctx context.Context, in core.DebtInput) (core.Debt, error) {
	var out core.Debt
	err := d.c.do(ctx, http.MethodPost, "/debts", nil, in, &out)
	return out, err
}

func (d *DebtAPI) Update(ctx context.Context, id string, in core.DebtInput) (core.Debt, error) {
	var out core.Debt
	err := d.c.do(ctx, http.MethodPut, "/debts/"+escape(id), nil, in, &out)
	return out, err
}

func (d *DebtAPI) Delete(ctx context.Context, id string) error {
	return d.c.do(ctx, http.MethodDelete, "/debts/"+escape(id), nil, nil, nil)
}

// Pay records a payment and returns the updated debt.
func (d *DebtAPI) Pay(ctx context.Context, id string, in core.PaymentInput) (core.Debt, error) {
	var out core.Debt
	err := d.c.do(ctx, http.MethodPost, "/debts/"+escape(id)+"/pay", nil, in, &out)
	return out, err
}

// DeleteHistory removes one payment; the upstream lowers paidAmount accordingly.
func (d *DebtAPI) DeleteHistory(ctx context.Context, id, historyID string) (core.Debt, error) {
	var out core.Debt
	err := d.c.do(ctx, http.MethodDelete, "/debts/"+escape(id)+"/history/"+escape(historyID), nil, nil, &out)
	return out, err
}
