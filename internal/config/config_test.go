package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.App.Port)
	assert.Equal(t, "http://localhost:4000/api", cfg.Backend.URL)
	assert.Equal(t, 15*time.Minute, cfg.Checkout.TTL)
	assert.Equal(t, "https://pay.ladolcevita.shop/card", cfg.Checkout.PaymentURLs["CARD"])
	assert.Contains(t, cfg.Checkout.PaymentURLs, "BANK_TRANSFER")
	assert.Empty(t, cfg.Database.URL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LDV_APP_PORT", "9090")
	t.Setenv("LDV_BACKEND_URL", "https://api.ladolcevita.shop/v1/")
	t.Setenv("LDV_CHECKOUT_TTL", "5m")
	t.Setenv("LDV_LOG_OUTPUT", "/var/log/ldv/out.log")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "https://api.ladolcevita.shop/v1", cfg.Backend.URL)
	assert.Equal(t, 5*time.Minute, cfg.Checkout.TTL)
	assert.Equal(t, "/var/log/ldv/out.log", cfg.Log.Output)
}

func TestLoad_EnvOverridesPaymentURLsAndOrigins(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LDV_CHECKOUT_PAYMENT_URLS_CARD", "https://psp.example.com/card")
	t.Setenv("LDV_HTTP_CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://psp.example.com/card", cfg.Checkout.PaymentURLs["CARD"])
	assert.Equal(t, "https://pay.ladolcevita.shop/paypal", cfg.Checkout.PaymentURLs["PAYPAL"])
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.CORSAllowOrigins)
}

func TestLoad_RejectsRelativeBackendURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LDV_BACKEND_URL", "localhost")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LDV_APP_ENV", "production")

	_, err := Load()
	assert.ErrorContains(t, err, "jwt.secret")

	t.Setenv("LDV_JWT_SECRET", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}
