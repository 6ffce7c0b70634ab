package api

import (
	"context"
	"net/http"
	"net/url"

	"omonat/internal/core"
)

type ReceivableAPI struct {
	c *Client
}

func (r *ReceivableAPI) List(ctx context.Context, params url.Values) ([]core.Receivable, error) {
	var out []core.Receivable
	if err := r.c.do(ctx, http.MethodGet, "/receivables", params, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReceivableAPI) Get(ctx context.Context, id string) (core.Receivable, error) {
	var out core.Receivable
	err := r.c.do(ctx, http.MethodGet, "/receivables/"+escape(id), nil, nil, &out)
	return out, err
}

func (r *ReceivableAPI) Create(ctx context.Context, in core.ReceivableInput) (core.Receivable, error) {
	var out core.Receivable
	err := r.c.do(ctx, http.MethodPost, "/receivables", nil, in, &out)
	return out, err
}

func (r *ReceivableAPI) Update(ctx context.Context, id string, in core.ReceivableInput) (core.Receivable, error) {
	var out core.Receivable
	err := r.c.do(ctx, http.MethodPut, "/receivables/"+escape(id), nil, in, &out)
	return out, err
}

func (r *ReceivableAPI) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, http.MethodDelete, "/receivables/"+escape(id), nil, nil, nil)
}

// ReceivePayment records money received. The upstream route is /pay, the
// same as for debts.
func (r *ReceivableAPI) ReceivePayment(ctx context.Context, id string, in core.PaymentInput) (core.Receivable, error) {
	var out core.Receivable
	err := r.c.do(ctx, http.MethodPost, "/receivables/"+escape(id)+"/pay", nil, in, &out)
	return out, err
}

func (r *ReceivableAPI) DeleteHistory(ctx context.Context, id, historyID string) (core.Receivable, error) {
	var out core.Receivable
	err := r.c.do(ctx, http.MethodDelete, "/receivables/"+escape(id)+"/history/"+escape(historyID), nil, nil, &out)
	return out, err
}
