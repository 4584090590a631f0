package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/auth"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/backend"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/checkout"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/config"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/logger"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/router"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/store"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/ws"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()
	zap.ReplaceGlobals(zl)

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	remote := backend.New(backend.Config{
		BaseURL:      cfg.Backend.URL,
		Timeout:      cfg.Backend.Timeout,
		ServiceToken: cfg.Backend.ServiceToken,
	})

	var sweepers []func(context.Context)

	// Admin sessions: Postgres when configured, memory otherwise.
	var sessionStore auth.SessionStore
	if cfg.Database.URL != "" {
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}
		pg := store.NewPostgresSessionStore(pool)
		sessionStore = pg
		sweepers = append(sweepers, sessionSweeper(zl, pg))
		zl.Info("admin sessions stored in postgres")
	} else {
		mem := store.NewMemorySessionStore()
		sessionStore = mem
		sweepers = append(sweepers, sessionSweeper(zl, mem))
		zl.Warn("database.url not set, admin sessions kept in memory")
	}

	// Checkout sessions: Redis when configured, memory otherwise.
	var checkoutStore checkout.Store
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		checkoutStore = store.NewRedisCheckoutStore(rdb, "")
		zl.Info("checkout sessions stored in redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		mem := store.NewMemoryCheckoutStore()
		checkoutStore = mem
		sweepers = append(sweepers, func(context.Context) {
			if n := mem.Sweep(); n > 0 {
				zl.Debug("dropped expired checkout sessions", zap.Int("count", n))
			}
		})
		zl.Warn("redis.addr not set, checkout sessions kept in memory")
	}

	sessions := auth.NewManager(sessionStore, remote, auth.ManagerConfig{
		Secret:     cfg.JWT.Secret,
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
		SessionTTL: cfg.Session.TTL,
	})
	checkoutSvc := checkout.NewService(checkoutStore, remote, checkout.Config{
		TTL:         cfg.Checkout.TTL,
		PaymentURLs: cfg.Checkout.PaymentURLs,
	})

	hub := ws.NewHub(zl)
	go hub.Run(ctx)
	go sweep(ctx, sweepers)

	srv := &http.Server{
		Addr: ":" + cfg.App.Port,
		Handler: router.New(router.Deps{
			Config:   cfg,
			Logger:   zl,
			Remote:   remote,
			Sessions: sessions,
			Checkout: checkoutSvc,
			Hub:      hub,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("starting server",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Env),
			zap.String("backend", cfg.Backend.URL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// sweep runs every cleanup func once per sweepInterval until ctx is done.
func sweep(ctx context.Context, fns []func(context.Context)) {
	if len(fns) == 0 {
		return
	}
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, fn := range fns {
				fn(ctx)
			}
		}
	}
}

type expiringStore interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

func sessionSweeper(zl *zap.Logger, s expiringStore) func(context.Context) {
	return func(ctx context.Context) {
		n, err := s.DeleteExpired(ctx, time.Now())
		if err != nil {
			zl.Warn("failed to delete expired admin sessions", zap.Error(err))
			return
		}
		if n > 0 {
			zl.Debug("deleted expired admin sessions", zap.Int64("count", n))
		}
	}
}
