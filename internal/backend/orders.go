package backend

import (
	"context"
	"net/http"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/model"
)

func (c *Client) ListOrders(ctx context.Context) ([]model.Order, error) {
	var out []model.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+escape(id), nil, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOrder sends o with its totals already computed. The remote API does
// not recompute them.
func (c *Client) CreateOrder(ctx context.Context, o *model.Order) (*model.Order, error) {
	var out model.Order
	if err := c.do(ctx, http.MethodPost, "/orders", nil, o, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateOrder(ctx context.Context, id string, o *model.Order) (*model.Order, error) {
	var out model.Order
	if err := c.do(ctx, http.MethodPut, "/orders/"+escape(id), nil, o, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
