package backend

import (
	"context"
	"net/http"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/model"
)

func (c *Client) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	var out []model.Customer
	if err := c.do(ctx, http.MethodGet, "/customers", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	var cu model.Customer
	if err := c.do(ctx, http.MethodGet, "/customers/"+escape(id), nil, nil, &cu); err != nil {
		return nil, err
	}
	return &cu, nil
}

func (c *Client) CreateCustomer(ctx context.Context, cu *model.Customer) (*model.Customer, error) {
	var out model.Customer
	if err := c.do(ctx, http.MethodPost, "/customers", nil, cu, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, cu *model.Customer) (*model.Customer, error) {
	var out model.Customer
	if err := c.do(ctx, http.MethodPut, "/customers/"+escape(id), nil, cu, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
