package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/backend"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/enum"
)

// Authenticator checks admin credentials against the remote API.
// Satisfied by *backend.Client.
type Authenticator interface {
	AdminLogin(ctx context.Context, email, password string) (*backend.LoginResult, error)
}

type ManagerConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	SessionTTL time.Duration
}

// Manager is the only component that creates, extends or ends admin
// sessions. Handlers, middleware and the websocket endpoint all go through it.
type Manager struct {
	store SessionStore
	login Authenticator
	cfg   ManagerConfig
	now   func() time.Time
}

func NewManager(store SessionStore, login Authenticator, cfg ManagerConfig) *Manager {
	return &Manager{store: store, login: login, cfg: cfg, now: time.Now}
}

// Tokens is the pair handed to the dashboard after login or refresh.
type Tokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Login authenticates against the remote API and opens a session.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, Tokens, error) {
	res, err := m.login.AdminLogin(ctx, email, password)
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && isCredentialStatus(apiErr.Status) {
			return nil, Tokens{}, ErrInvalidCredentials
		}
		return nil, Tokens{}, fmt.Errorf("admin login: %w", err)
	}

	role := strings.ToUpper(strings.TrimSpace(res.Admin.Role))
	if role == "" {
		role = enum.RoleStaff
	}

	now := m.now()
	s := &Session{
		ID:           uuid.NewString(),
		AdminID:      res.Admin.ID,
		Email:        res.Admin.Email,
		Name:         res.Admin.Name,
		Role:         role,
		BackendToken: res.Token,
		IssuedAt:     now,
		ExpiresAt:    now.Add(m.cfg.SessionTTL),
	}
	if s.Email == "" {
		s.Email = email
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, Tokens{}, fmt.Errorf("save session: %w", err)
	}

	tokens, err := m.issue(s, now)
	if err != nil {
		return nil, Tokens{}, err
	}
	return s, tokens, nil
}

// Refresh exchanges a refresh token for a new pair and slides the session
// expiry forward.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (*Session, Tokens, error) {
	claims, err := ValidateToken(m.cfg.Secret, refreshToken, TokenRefresh)
	if err != nil {
		return nil, Tokens{}, err
	}
	s, err := m.live(ctx, claims.SessionID)
	if err != nil {
		return nil, Tokens{}, err
	}

	now := m.now()
	s.ExpiresAt = now.Add(m.cfg.SessionTTL)
	if err := m.store.Save(ctx, s); err != nil {
		return nil, Tokens{}, fmt.Errorf("save session: %w", err)
	}

	tokens, err := m.issue(s, now)
	if err != nil {
		return nil, Tokens{}, err
	}
	return s, tokens, nil
}

// Resolve returns the live session behind an access token.
func (m *Manager) Resolve(ctx context.Context, accessToken string) (*Session, error) {
	claims, err := ValidateToken(m.cfg.Secret, accessToken, TokenAccess)
	if err != nil {
		return nil, err
	}
	return m.live(ctx, claims.SessionID)
}

// Logout ends the session. Unknown sessions are not an error.
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	err := m.store.Delete(ctx, sessionID)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// live loads a session and deletes it if it has expired.
func (m *Manager) live(ctx context.Context, id string) (*Session, error) {
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Expired(m.now()) {
		if err := m.store.Delete(ctx, id); err != nil && !errors.Is(err, ErrSessionNotFound) {
			return nil, fmt.Errorf("delete expired session: %w", err)
		}
		return nil, ErrSessionExpired
	}
	return s, nil
}

func (m *Manager) issue(s *Session, now time.Time) (Tokens, error) {
	access, err := GenerateToken(m.cfg.Secret, s, TokenAccess, now, m.cfg.AccessTTL)
	if err != nil {
		return Tokens{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := GenerateToken(m.cfg.Secret, s, TokenRefresh, now, m.cfg.RefreshTTL)
	if err != nil {
		return Tokens{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(m.cfg.AccessTTL),
	}, nil
}

func isCredentialStatus(status int) bool {
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden,
		http.StatusNotFound, http.StatusUnprocessableEntity:
		return true
	}
	return false
}
