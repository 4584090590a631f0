package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/auth"
)

func testSession() *auth.Session {
	return &auth.Session{ID: "sess-1", AdminID: "adm-1", Role: "ADMIN"}
}

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret"

	token, err := auth.GenerateToken(secret, testSession(), auth.TokenAccess, time.Now(), 15*time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := auth.ValidateToken(secret, token, auth.TokenAccess)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}

	if claims.SessionID != "sess-1" {
		t.Errorf("session ID: got %v, want sess-1", claims.SessionID)
	}
	if claims.AdminID != "adm-1" {
		t.Errorf("admin ID: got %v, want adm-1", claims.AdminID)
	}
	if claims.Role != "ADMIN" {
		t.Errorf("role: got %v, want ADMIN", claims.Role)
	}
}

func TestValidateTokenWithWrongSecret(t *testing.T) {
	token, err := auth.GenerateToken("secret-a", testSession(), auth.TokenAccess, time.Now(), time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	_, err = auth.ValidateToken("secret-b", token, auth.TokenAccess)
	if !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateTokenWrongKind(t *testing.T) {
	token, err := auth.GenerateToken("secret", testSession(), auth.TokenRefresh, time.Now(), time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := auth.ValidateToken("secret", token, auth.TokenAccess); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := auth.GenerateToken("secret", testSession(), auth.TokenAccess, time.Now().Add(-time.Hour), time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := auth.ValidateToken("secret", token, auth.TokenAccess); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestValidateTokenWithInvalidString(t *testing.T) {
	_, err := auth.ValidateToken("secret", "not-a-jwt", auth.TokenAccess)
	if err == nil {
		t.Fatal("expected error validating invalid token string")
	}
}
