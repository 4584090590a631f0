package backend

import (
	"context"
	"net/http"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/model"
)

func (c *Client) ListEvents(ctx context.Context) ([]model.LiveEvent, error) {
	var out []model.LiveEvent
	if err := c.do(ctx, http.MethodGet, "/events", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetEvent(ctx context.Context, id string) (*model.LiveEvent, error) {
	var e model.LiveEvent
	if err := c.do(ctx, http.MethodGet, "/events/"+escape(id), nil, nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) CreateEvent(ctx context.Context, e *model.LiveEvent) (*model.LiveEvent, error) {
	var out model.LiveEvent
	if err := c.do(ctx, http.MethodPost, "/events", nil, e, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id string, e *model.LiveEvent) (*model.LiveEvent, error) {
	var out model.LiveEvent
	if err := c.do(ctx, http.MethodPut, "/events/"+escape(id), nil, e, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/events/"+escape(id), nil, nil, nil)
}
