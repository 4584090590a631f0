package handler

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/enum"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/format"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/model"
)

const upcomingEventLimit = 5

// --- Store interface ---

// DashboardStore defines the remote API reads needed by the dashboard.
// Satisfied by *backend.Client.
type DashboardStore interface {
	ListOrders(ctx context.Context) ([]model.Order, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	ListEvents(ctx context.Context) ([]model.LiveEvent, error)
}

// --- DashboardHandler ---

// DashboardHandler serves the admin landing page summary.
type DashboardHandler struct {
	store DashboardStore
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(store DashboardStore) *DashboardHandler {
	return &DashboardHandler{store: store}
}

// RegisterRoutes registers dashboard endpoints.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.GetDashboard)
}

// --- Response types ---

type dashboardResponse struct {
	Counts         countsResponse     `json:"counts"`
	PaymentStatus  []statusCount      `json:"payment_status"`
	ShippingStatus []statusCount      `json:"shipping_status"`
	Revenue        revenueResponse    `json:"revenue"`
	UpcomingEvents []upcomingResponse `json:"upcoming_events"`
}

type countsResponse struct {
	Orders         int `json:"orders"`
	Products       int `json:"products"`
	ActiveProducts int `json:"active_products"`
	Customers      int `json:"customers"`
	Events         int `json:"events"`
}

type statusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Badge  string `json:"badge"`
}

type revenueResponse struct {
	PaidOrders int    `json:"paid_orders"`
	Total      string `json:"total"`
	Label      string `json:"label"`
}

type upcomingResponse struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	HostName string    `json:"host_name"`
	StartsAt time.Time `json:"starts_at"`
	Starts   string    `json:"starts"`
	Link     string    `json:"link,omitempty"`
}

// --- Handlers ---

// GetDashboard returns entity counts, order status breakdowns, paid revenue
// and the next scheduled live events.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orders, err := h.store.ListOrders(ctx)
	if err != nil {
		writeError(w, r, "order", err)
		return
	}
	products, err := h.store.ListProducts(ctx)
	if err != nil {
		writeError(w, r, "product", err)
		return
	}
	customers, err := h.store.ListCustomers(ctx)
	if err != nil {
		writeError(w, r, "customer", err)
		return
	}
	events, err := h.store.ListEvents(ctx)
	if err != nil {
		writeError(w, r, "event", err)
		return
	}

	resp := dashboardResponse{
		Counts: countsResponse{
			Orders:    len(orders),
			Products:  len(products),
			Customers: len(customers),
			Events:    len(events),
		},
		UpcomingEvents: []upcomingResponse{},
	}
	for _, p := range products {
		if p.Status == enum.ProductStatusActive {
			resp.Counts.ActiveProducts++
		}
	}

	payment := []string{enum.PaymentStatusPending, enum.PaymentStatusPaid, enum.PaymentStatusFailed, enum.PaymentStatusRefunded}
	shipping := []string{enum.ShippingStatusPending, enum.ShippingStatusShipped, enum.ShippingStatusDelivered, enum.ShippingStatusReturned}
	resp.PaymentStatus = countStatuses(orders, payment, func(o model.Order) string { return o.PaymentStatus })
	resp.ShippingStatus = countStatuses(orders, shipping, func(o model.Order) string { return o.ShippingStatus })

	revenue := decimal.Zero
	for _, o := range orders {
		if o.PaymentStatus == enum.PaymentStatusPaid {
			revenue = revenue.Add(o.Total)
			resp.Revenue.PaidOrders++
		}
	}
	resp.Revenue.Total = revenue.StringFixed(2)
	resp.Revenue.Label = format.Currency(revenue)

	for _, e := range upcomingEvents(events, time.Now(), upcomingEventLimit) {
		resp.UpcomingEvents = append(resp.UpcomingEvents, upcomingResponse{
			ID:       e.ID,
			Name:     e.Name,
			HostName: e.HostName,
			StartsAt: e.StartsAt,
			Starts:   format.Date(e.StartsAt),
			Link:     e.Link,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

// countStatuses counts orders per status in the order of known. Statuses
// outside known are counted under their own name after the known ones.
func countStatuses(orders []model.Order, known []string, status func(model.Order) string) []statusCount {
	counts := make(map[string]int, len(known))
	var extra []string
	for _, o := range orders {
		s := normalizeStatus(status(o))
		if s == "" {
			continue
		}
		if _, seen := counts[s]; !seen && !slices.Contains(known, s) {
			extra = append(extra, s)
		}
		counts[s]++
	}

	out := make([]statusCount, 0, len(known)+len(extra))
	for _, s := range append(append([]string{}, known...), extra...) {
		out = append(out, statusCount{Status: s, Count: counts[s], Badge: format.BadgeColor(s)})
	}
	return out
}
