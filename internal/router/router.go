package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/auth"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/backend"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/checkout"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/config"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/enum"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/handler"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/logger"
	mw "github.com/pamsartech/ldv-admin-panel-sub001/internal/middleware"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/service"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/ws"
)

// Deps are the long-lived components the routes are built from.
type Deps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Remote   *backend.Client
	Sessions *auth.Manager
	Checkout *checkout.Service
	Hub      *ws.Hub
}

// New creates a Chi router with all application routes wired up.
// Dashboard routes live under /admin and need a live admin session; the
// checkout funnel and auth endpoints are public.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(logger.Middleware(d.Logger))
	r.Use(logger.Recoverer(d.Logger))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Config.HTTP.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", logger.RequestIDHeader},
		ExposedHeaders:   []string{logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"` + d.Config.App.Name + `"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(d.Sessions)
	authHandler.RegisterRoutes(r)

	// Checkout funnel (public, keyed by checkout session id)
	checkoutHandler := handler.NewCheckoutHandler(d.Checkout)
	r.Route("/checkout", checkoutHandler.RegisterRoutes)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/{topic}", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(d.Hub, d.Sessions, w, r)
	})

	// Protected routes (require authentication)
	r.Route("/admin", func(r chi.Router) {
		r.Use(mw.Authenticate(d.Sessions))
		r.Use(mw.RequireRole(enum.RoleAdmin, enum.RoleStaff))

		authHandler.RegisterProtectedRoutes(r)

		dashboardHandler := handler.NewDashboardHandler(d.Remote)
		r.Route("/dashboard", dashboardHandler.RegisterRoutes)

		productHandler := handler.NewProductHandler(d.Remote)
		r.Route("/products", productHandler.RegisterRoutes)

		orderService := service.NewOrderService(d.Remote, d.Hub)
		orderHandler := handler.NewOrderHandler(d.Remote, orderService)
		r.Route("/orders", orderHandler.RegisterRoutes)

		customerHandler := handler.NewCustomerHandler(d.Remote)
		r.Route("/customers", customerHandler.RegisterRoutes)

		paymentHandler := handler.NewPaymentHandler(d.Remote, d.Hub)
		r.Route("/payments", paymentHandler.RegisterRoutes)

		eventHandler := handler.NewEventHandler(d.Remote, d.Hub)
		r.Route("/events", eventHandler.RegisterRoutes)
	})

	return r
}
