package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/enum"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/format"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/model"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/table"
)

// EventPaymentUpdated is broadcast on the payments topic after an update.
const EventPaymentUpdated = "payment.updated"

// PaymentStore defines the remote API methods needed by payment handlers.
// Satisfied by *backend.Client; narrow interface for testability.
type PaymentStore interface {
	ListPayments(ctx context.Context) ([]model.Payment, error)
	GetPayment(ctx context.Context, id string) (*model.Payment, error)
	UpdatePayment(ctx context.Context, id string, p *model.Payment) (*model.Payment, error)
}

var paymentTable = table.New(listPageSize,
	[]table.Column[model.Payment]{
		{Name: "transaction_id", Value: func(p model.Payment) string { return p.TransactionID }},
		{Name: "order_id", Value: func(p model.Payment) string { return p.OrderID }},
		{Name: "customer_id", Value: func(p model.Payment) string { return p.CustomerID }},
		{Name: "method", Value: func(p model.Payment) string { return p.Method }},
		{Name: "status", Value: func(p model.Payment) string { return p.Status }},
		{Name: "delivery_status", Value: func(p model.Payment) string { return p.DeliveryStatus }},
		{Name: "amount", Kind: table.Numeric, Value: func(p model.Payment) string { return p.Amount.String() }},
	},
	[]string{"transaction_id", "order_id", "customer_id"},
	[]string{"method", "status", "delivery_status"},
)

// PaymentHandler handles payment endpoints. Payments are never created here.
type PaymentHandler struct {
	store PaymentStore
	hub   Broadcaster
}

// NewPaymentHandler creates a new PaymentHandler. hub may be nil.
func NewPaymentHandler(store PaymentStore, hub Broadcaster) *PaymentHandler {
	return &PaymentHandler{store: store, hub: hub}
}

// RegisterRoutes registers payment endpoints on the given Chi router.
// Expected to be mounted at /admin/payments.
func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Patch("/", h.Update)
	})
}

// --- Request / Response types ---

type updatePaymentRequest struct {
	Status         string  `json:"status" validate:"omitempty,oneof=PENDING PAID FAILED REFUNDED"`
	DeliveryStatus string  `json:"delivery_status" validate:"omitempty,oneof=PENDING SHIPPED DELIVERED RETURNED"`
	Notes          *string `json:"notes"`
}

type paymentResponse struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"order_id"`
	CustomerID     string    `json:"customer_id"`
	TransactionID  string    `json:"transaction_id"`
	Method         string    `json:"method"`
	Status         string    `json:"status"`
	DeliveryStatus string    `json:"delivery_status"`
	Amount         string    `json:"amount"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type paymentRow struct {
	paymentResponse
	AmountLabel   string `json:"amount_label"`
	Badge         string `json:"badge"`
	DeliveryBadge string `json:"delivery_badge"`
	Created       string `json:"created"`
}

func toPaymentResponse(p model.Payment) paymentResponse {
	return paymentResponse{
		ID:             p.ID,
		OrderID:        p.OrderID,
		CustomerID:     p.CustomerID,
		TransactionID:  p.TransactionID,
		Method:         p.Method,
		Status:         p.Status,
		DeliveryStatus: p.DeliveryStatus,
		Amount:         p.Amount.StringFixed(2),
		Notes:          p.Notes,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toPaymentRow(p model.Payment) paymentRow {
	return paymentRow{
		paymentResponse: toPaymentResponse(p),
		AmountLabel:     format.Currency(p.Amount),
		Badge:           format.BadgeColor(p.Status),
		DeliveryBadge:   format.BadgeColor(p.DeliveryStatus),
		Created:         format.Date(p.CreatedAt),
	}
}

// --- Handlers ---

// List returns one page of payments with search, filter and sort applied.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	payments, err := h.store.ListPayments(r.Context())
	if err != nil {
		writeError(w, r, "payment", err)
		return
	}
	listPage(w, r, paymentTable, payments, toPaymentRow)
}

// Get returns a single payment.
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "payment", err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentResponse(*p))
}

// Update changes status, delivery status or notes. Omitted fields keep their
// current value.
func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updatePaymentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	p, err := h.store.GetPayment(r.Context(), id)
	if err != nil {
		writeError(w, r, "payment", err)
		return
	}
	if req.Status != "" {
		p.Status = req.Status
	}
	if req.DeliveryStatus != "" {
		p.DeliveryStatus = req.DeliveryStatus
	}
	if req.Notes != nil {
		p.Notes = *req.Notes
	}

	updated, err := h.store.UpdatePayment(r.Context(), id, p)
	if err != nil {
		writeError(w, r, "payment", err)
		return
	}
	notify(h.hub, enum.TopicPayments, EventPaymentUpdated, updated)
	writeJSON(w, http.StatusOK, toPaymentResponse(*updated))
}
