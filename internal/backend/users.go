package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/model"
)

// LoginResult is what the remote admin login returns.
type LoginResult struct {
	Token string      `json:"token"`
	Admin model.Admin `json:"admin"`
}

func (c *Client) AdminLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/admin/login", nil, body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// FindUserByEmail searches the remote user directory. A missing account is
// ErrNotFound.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return c.findUser(ctx, url.Values{"email": {email}})
}

// FindUserByPhone is FindUserByEmail keyed on the phone number.
func (c *Client) FindUserByPhone(ctx context.Context, phone string) (*model.User, error) {
	return c.findUser(ctx, url.Values{"phone": {phone}})
}

func (c *Client) findUser(ctx context.Context, q url.Values) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodGet, "/users/search", q, nil, &u); err != nil {
		return nil, err
	}
	if u.ID == "" {
		return nil, ErrNotFound
	}
	return &u, nil
}

// SendVerificationCode asks the remote notification service to deliver code
// to contact over channel (EMAIL or SMS).
func (c *Client) SendVerificationCode(ctx context.Context, channel, contact, code string) error {
	body := map[string]string{"channel": channel, "to": contact, "code": code}
	return c.do(ctx, http.MethodPost, "/notifications/verification", nil, body, nil)
}
