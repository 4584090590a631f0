package backend

import (
	"context"
	"net/http"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/model"
)

func (c *Client) ListPayments(ctx context.Context) ([]model.Payment, error) {
	var out []model.Payment
	if err := c.do(ctx, http.MethodGet, "/payments", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	var p model.Payment
	if err := c.do(ctx, http.MethodGet, "/payments/"+escape(id), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePayment changes status, delivery status or notes. Payments are
// created by the payment provider, never from the dashboard.
func (c *Client) UpdatePayment(ctx context.Context, id string, p *model.Payment) (*model.Payment, error) {
	var out model.Payment
	if err := c.do(ctx, http.MethodPut, "/payments/"+escape(id), nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
