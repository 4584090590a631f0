package backend

import (
	"context"
	"net/http"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/model"
)

func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+escape(id), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProductByCode looks a product up by its SKU, as typed by a shopper.
func (c *Client) GetProductByCode(ctx context.Context, code string) (*model.Product, error) {
	var p model.Product
	if err := c.do(ctx, http.MethodGet, "/products/code/"+escape(code), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	var out model.Product
	if err := c.do(ctx, http.MethodPost, "/products", nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, p *model.Product) (*model.Product, error) {
	var out model.Product
	if err := c.do(ctx, http.MethodPut, "/products/"+escape(id), nil, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+escape(id), nil, nil, nil)
}
