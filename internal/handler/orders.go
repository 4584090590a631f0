package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/format"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/model"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/pricing"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/table"
)

// OrderStore defines the remote API reads needed by order handlers.
// Satisfied by *backend.Client; narrow interface for testability.
type OrderStore interface {
	ListOrders(ctx context.Context) ([]model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
}

// OrderServicer defines the order writes. Satisfied by *service.OrderService.
type OrderServicer interface {
	Create(ctx context.Context, o *model.Order) (*model.Order, error)
	Update(ctx context.Context, id string, o *model.Order) (*model.Order, error)
	Quote(policy string, items []model.LineItem, shippingMethod string) (pricing.Totals, error)
}

var orderTable = table.New(listPageSize,
	[]table.Column[model.Order]{
		{Name: "order_number", Value: func(o model.Order) string { return o.OrderNumber }},
		{Name: "customer", Value: func(o model.Order) string { return o.CustomerName() }},
		{Name: "email", Value: func(o model.Order) string { return o.Email }},
		{Name: "payment_status", Value: func(o model.Order) string { return o.PaymentStatus }},
		{Name: "shipping_status", Value: func(o model.Order) string { return o.ShippingStatus }},
		{Name: "payment_method", Value: func(o model.Order) string { return o.PaymentMethod }},
		{Name: "total", Kind: table.Numeric, Value: func(o model.Order) string { return o.Total.String() }},
		{Name: "created_at", Value: func(o model.Order) string { return o.CreatedAt.UTC().Format(time.RFC3339) }},
	},
	[]string{"order_number", "customer", "email"},
	[]string{"payment_status", "shipping_status", "payment_method"},
)

// OrderHandler handles order endpoints. Writes go through the order service
// so totals are computed server-side.
type OrderHandler struct {
	store   OrderStore
	service OrderServicer
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(store OrderStore, svc OrderServicer) *OrderHandler {
	return &OrderHandler{store: store, service: svc}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted at /admin/orders.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/quote", h.Quote)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
	})
}

// --- Request / Response types ---

type lineItemRequest struct {
	Code     string          `json:"code" validate:"required"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity" validate:"min=1"`
	Price    decimal.Decimal `json:"price"`
}

type orderRequest struct {
	CustomerID     string            `json:"customer_id"`
	FirstName      string            `json:"first_name" validate:"required"`
	LastName       string            `json:"last_name" validate:"required"`
	Email          string            `json:"email" validate:"required,email"`
	Phone          string            `json:"phone" validate:"required,phone"`
	Address        addressRequest    `json:"address"`
	Items          []lineItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod  string            `json:"payment_method" validate:"required,oneof=CARD PAYPAL BANK_TRANSFER"`
	PaymentStatus  string            `json:"payment_status" validate:"omitempty,oneof=PENDING PAID FAILED REFUNDED"`
	ShippingMethod string            `json:"shipping_method" validate:"required,oneof='Free Shipping' 'Flat Rate'"`
	ShippingStatus string            `json:"shipping_status" validate:"omitempty,oneof=PENDING SHIPPED DELIVERED RETURNED"`
	Notes          string            `json:"notes"`
}

type quoteRequest struct {
	Policy         string            `json:"policy" validate:"required,oneof=create update"`
	Items          []lineItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingMethod string            `json:"shipping_method" validate:"required"`
}

type lineItemResponse struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type orderResponse struct {
	ID             string             `json:"id"`
	OrderNumber    string             `json:"order_number,omitempty"`
	CustomerID     string             `json:"customer_id,omitempty"`
	FirstName      string             `json:"first_name"`
	LastName       string             `json:"last_name"`
	Email          string             `json:"email"`
	Phone          string             `json:"phone"`
	Address        model.Address      `json:"address"`
	Items          []lineItemResponse `json:"items"`
	PaymentMethod  string             `json:"payment_method"`
	PaymentStatus  string             `json:"payment_status"`
	ShippingMethod string             `json:"shipping_method"`
	ShippingStatus string             `json:"shipping_status"`
	Subtotal       string             `json:"subtotal"`
	Tax            string             `json:"tax"`
	ShippingFee    string             `json:"shipping_fee"`
	Discount       string             `json:"discount"`
	Total          string             `json:"total"`
	Notes          string             `json:"notes,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

type orderRow struct {
	ID             string `json:"id"`
	OrderNumber    string `json:"order_number"`
	Customer       string `json:"customer"`
	Email          string `json:"email"`
	PaymentMethod  string `json:"payment_method"`
	PaymentStatus  string `json:"payment_status"`
	PaymentBadge   string `json:"payment_badge"`
	ShippingStatus string `json:"shipping_status"`
	ShippingBadge  string `json:"shipping_badge"`
	Total          string `json:"total"`
	Created        string `json:"created"`
}

type totalsResponse struct {
	Subtotal    string `json:"subtotal"`
	Tax         string `json:"tax"`
	ShippingFee string `json:"shipping_fee"`
	Discount    string `json:"discount"`
	Total       string `json:"total"`
}

func toTotalsResponse(t pricing.Totals) totalsResponse {
	return totalsResponse{
		Subtotal:    t.Subtotal.StringFixed(2),
		Tax:         t.Tax.StringFixed(2),
		ShippingFee: t.ShippingFee.StringFixed(2),
		Discount:    t.Discount.StringFixed(2),
		Total:       t.Total.StringFixed(2),
	}
}

func toOrderResponse(o model.Order) orderResponse {
	items := make([]lineItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = lineItemResponse{
			Code:     it.Code,
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price.StringFixed(2),
		}
	}
	return orderResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		CustomerID:     o.CustomerID,
		FirstName:      o.FirstName,
		LastName:       o.LastName,
		Email:          o.Email,
		Phone:          o.Phone,
		Address:        o.Address,
		Items:          items,
		PaymentMethod:  o.PaymentMethod,
		PaymentStatus:  o.PaymentStatus,
		ShippingMethod: o.ShippingMethod,
		ShippingStatus: o.ShippingStatus,
		Subtotal:       o.Subtotal.StringFixed(2),
		Tax:            o.Tax.StringFixed(2),
		ShippingFee:    o.ShippingFee.StringFixed(2),
		Discount:       o.Discount.StringFixed(2),
		Total:          o.Total.StringFixed(2),
		Notes:          o.Notes,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func toOrderRow(o model.Order) orderRow {
	return orderRow{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		Customer:       o.CustomerName(),
		Email:          o.Email,
		PaymentMethod:  o.PaymentMethod,
		PaymentStatus:  o.PaymentStatus,
		PaymentBadge:   format.BadgeColor(o.PaymentStatus),
		ShippingStatus: o.ShippingStatus,
		ShippingBadge:  format.BadgeColor(o.ShippingStatus),
		Total:          format.Currency(o.Total),
		Created:        format.Date(o.CreatedAt),
	}
}

func toLineItems(reqs []lineItemRequest) []model.LineItem {
	items := make([]model.LineItem, len(reqs))
	for i, it := range reqs {
		items[i] = model.LineItem{
			Code:     strings.TrimSpace(it.Code),
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
		}
	}
	return items
}

func (req orderRequest) toModel() *model.Order {
	return &model.Order{
		CustomerID:     req.CustomerID,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          strings.TrimSpace(req.Email),
		Phone:          strings.TrimSpace(req.Phone),
		Address:        req.Address.toModel(),
		Items:          toLineItems(req.Items),
		PaymentMethod:  req.PaymentMethod,
		PaymentStatus:  req.PaymentStatus,
		ShippingMethod: req.ShippingMethod,
		ShippingStatus: req.ShippingStatus,
		Notes:          req.Notes,
	}
}

// --- Handlers ---

// List returns one page of orders with search, filter and sort applied.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListOrders(r.Context())
	if err != nil {
		writeError(w, r, "order", err)
		return
	}
	listPage(w, r, orderTable, orders, toOrderRow)
}

// Get returns a single order with its line items.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.store.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "order", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*o))
}

// Create validates the form, computes totals and writes the order once.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.service.Create(r.Context(), req.toModel())
	if err != nil {
		writeError(w, r, "order", err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(*created))
}

// Update validates the form and writes the repriced order.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.toModel())
	if err != nil {
		writeError(w, r, "order", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*updated))
}

// Quote returns the totals a form would produce, without writing anything.
func (h *OrderHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	totals, err := h.service.Quote(req.Policy, toLineItems(req.Items), req.ShippingMethod)
	if err != nil {
		writeError(w, r, "order", err)
		return
	}
	writeJSON(w, http.StatusOK, toTotalsResponse(totals))
}
