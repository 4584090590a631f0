package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/auth"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/logger"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/middleware"
)

// AuthManager defines the session operations needed by auth handlers.
// Satisfied by *auth.Manager; narrow interface for testability.
type AuthManager interface {
	Login(ctx context.Context, email, password string) (*auth.Session, auth.Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (*auth.Session, auth.Tokens, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	sessions AuthManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions AuthManager) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// RegisterRoutes registers the public auth endpoints on the given Chi router.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
	r.Post("/auth/refresh", h.Refresh)
}

// RegisterProtectedRoutes registers the endpoints that need a live session.
// Expected to be mounted behind middleware.Authenticate.
func (h *AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/auth/logout", h.Logout)
	r.Get("/auth/me", h.Me)
}

// --- Request / Response types ---

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type tokenResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresAt    time.Time       `json:"expires_at"`
	Admin        sessionResponse `json:"admin"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"session_expires_at"`
}

func toTokenResponse(s *auth.Session, t auth.Tokens) tokenResponse {
	return tokenResponse{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    t.ExpiresAt,
		Admin:        toSessionResponse(s),
	}
}

func toSessionResponse(s *auth.Session) sessionResponse {
	return sessionResponse{
		ID:        s.AdminID,
		Email:     s.Email,
		Name:      s.Name,
		Role:      s.Role,
		ExpiresAt: s.ExpiresAt,
	}
}

// --- Handlers ---

// Login checks email + password against the remote API and opens a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sess, tokens, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		writeError(w, r, "admin", err)
		return
	}

	logger.FromContext(r.Context()).Info("admin logged in", zap.String("admin_id", sess.AdminID))
	writeJSON(w, http.StatusOK, toTokenResponse(sess, tokens))
}

// Refresh exchanges a refresh token for a new token pair.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sess, tokens, err := h.sessions.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrSessionExpired):
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session expired"})
		case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrSessionNotFound):
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid refresh token"})
		default:
			logger.FromContext(r.Context()).Error("failed to refresh session", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, toTokenResponse(sess, tokens))
}

// Logout ends the caller's session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	if err := h.sessions.Logout(r.Context(), sess.ID); err != nil {
		logger.FromContext(r.Context()).Error("failed to end session", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the operator behind the caller's session.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}
