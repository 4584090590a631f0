package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/enum"
)

type Config struct {
	App      AppConfig
	Backend  BackendConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Session  SessionConfig
	Checkout CheckoutConfig
	Log      LogConfig
	HTTP     HTTPConfig
}

type AppConfig struct {
	Name string
	Env  string
	Port string
}

// BackendConfig points at the remote shop API. Every screen goes through
// this one base URL.
type BackendConfig struct {
	URL          string
	Timeout      time.Duration
	ServiceToken string
}

// DatabaseConfig is optional. An empty URL keeps admin sessions in memory.
type DatabaseConfig struct {
	URL string
}

// RedisConfig is optional. An empty Addr keeps checkout sessions in memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type SessionConfig struct {
	TTL time.Duration
}

type CheckoutConfig struct {
	TTL         time.Duration
	PaymentURLs map[string]string // payment method -> hosted payment page
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

type HTTPConfig struct {
	CORSAllowOrigins []string
}

// Load reads configuration with this priority (highest first):
//  1. Environment variables prefixed LDV_ (e.g. LDV_BACKEND_URL)
//  2. config.yaml in the working directory
//  3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("LDV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "ldv-admin")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8081")
	v.SetDefault("backend.url", "http://localhost:4000/api")
	v.SetDefault("backend.timeout", 15*time.Second)
	v.SetDefault("backend.service_token", "")
	v.SetDefault("database.url", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "dev-secret-change-in-production")
	v.SetDefault("jwt.access_ttl", 15*time.Minute)
	v.SetDefault("jwt.refresh_ttl", 7*24*time.Hour)
	v.SetDefault("session.ttl", 12*time.Hour)
	v.SetDefault("checkout.ttl", 15*time.Minute)
	v.SetDefault("checkout.payment_urls.card", "https://pay.ladolcevita.shop/card")
	v.SetDefault("checkout.payment_urls.paypal", "https://pay.ladolcevita.shop/paypal")
	v.SetDefault("checkout.payment_urls.bank_transfer", "https://pay.ladolcevita.shop/bank-transfer")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("http.cors_allow_origins", []string{"http://localhost:5173"})
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Backend: BackendConfig{
			URL:          strings.TrimRight(v.GetString("backend.url"), "/"),
			Timeout:      v.GetDuration("backend.timeout"),
			ServiceToken: v.GetString("backend.service_token"),
		},
		Database: DatabaseConfig{
			URL: v.GetString("database.url"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			AccessTTL:  v.GetDuration("jwt.access_ttl"),
			RefreshTTL: v.GetDuration("jwt.refresh_ttl"),
		},
		Session: SessionConfig{
			TTL: v.GetDuration("session.ttl"),
		},
		Checkout: CheckoutConfig{
			TTL:         v.GetDuration("checkout.ttl"),
			PaymentURLs: make(map[string]string),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			CORSAllowOrigins: splitList(v.GetStringSlice("http.cors_allow_origins")),
		},
	}

	// Leaf reads so LDV_CHECKOUT_PAYMENT_URLS_<METHOD> overrides apply.
	for _, method := range enum.PaymentMethods {
		if u := v.GetString("checkout.payment_urls." + strings.ToLower(method)); u != "" {
			cfg.Checkout.PaymentURLs[method] = u
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.App.Port == "" {
		return errors.New("app.port is required")
	}
	u, err := url.Parse(c.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend.url must be an absolute URL, got %q", c.Backend.URL)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if c.App.Env == "production" && c.JWT.Secret == "dev-secret-change-in-production" {
		return errors.New("jwt.secret must be changed in production")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 || c.Session.TTL <= 0 {
		return errors.New("jwt and session TTLs must be positive")
	}
	if c.Checkout.TTL <= 0 {
		return errors.New("checkout.ttl must be positive")
	}
	for method, raw := range c.Checkout.PaymentURLs {
		if pu, err := url.Parse(raw); err != nil || pu.Scheme == "" || pu.Host == "" {
			return fmt.Errorf("checkout.payment_urls.%s must be an absolute URL", strings.ToLower(method))
		}
	}
	return nil
}

// IsProduction reports whether the app runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// splitList accepts both a YAML list and a comma-separated env value.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
