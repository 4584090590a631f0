package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/auth"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/backend"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/logger"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionResolver turns an access token into a live session.
// Satisfied by *auth.Manager.
type SessionResolver interface {
	Resolve(ctx context.Context, accessToken string) (*auth.Session, error)
}

// Authenticate requires a Bearer access token backed by a live session. The
// session goes into the context, and its remote API token is forwarded on
// every backend call made with that context.
func Authenticate(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing authorization header"})
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid authorization format"})
				return
			}

			sess, err := sessions.Resolve(r.Context(), parts[1])
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrSessionExpired):
					writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session expired"})
				case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrSessionNotFound):
					writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
				default:
					logger.FromContext(r.Context()).Error("resolve session", zap.Error(err))
					writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
				}
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			if sess.BackendToken != "" {
				ctx = backend.WithToken(ctx, sess.BackendToken)
			}
			ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(zap.String("admin_id", sess.AdminID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromContext(r.Context())
			if sess == nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
				return
			}

			for _, role := range roles {
				if sess.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeJSON(w, http.StatusForbidden, map[string]string{"error": "insufficient permissions"})
		})
	}
}

func SessionFromContext(ctx context.Context) *auth.Session {
	sess, _ := ctx.Value(sessionKey).(*auth.Session)
	return sess
}

// WithSession stores sess in ctx. Used by tests of handlers mounted behind
// Authenticate.
func WithSession(ctx context.Context, sess *auth.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
