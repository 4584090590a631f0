package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/enum"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/format"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/model"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/table"
)

// CustomerStore defines the remote API methods needed by customer handlers.
// Satisfied by *backend.Client; narrow interface for testability.
type CustomerStore interface {
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	GetCustomer(ctx context.Context, id string) (*model.Customer, error)
	CreateCustomer(ctx context.Context, c *model.Customer) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id string, c *model.Customer) (*model.Customer, error)
}

var customerTable = table.New(listPageSize,
	[]table.Column[model.Customer]{
		{Name: "name", Value: func(c model.Customer) string { return c.FirstName + " " + c.LastName }},
		{Name: "email", Value: func(c model.Customer) string { return c.Email }},
		{Name: "phone", Value: func(c model.Customer) string { return c.Phone }},
		{Name: "city", Value: func(c model.Customer) string { return c.Address.City }},
		{Name: "status", Value: func(c model.Customer) string { return c.Status }},
		{Name: "communication_method", Value: func(c model.Customer) string { return c.CommunicationMethod }},
	},
	[]string{"name", "email", "phone"},
	[]string{"status", "communication_method", "city"},
)

// CustomerHandler handles customer CRUD endpoints.
type CustomerHandler struct {
	store CustomerStore
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(store CustomerStore) *CustomerHandler {
	return &CustomerHandler{store: store}
}

// RegisterRoutes registers customer CRUD endpoints on the given Chi router.
// Expected to be mounted at /admin/customers.
func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
	})
}

// --- Request / Response types ---

type customerRequest struct {
	FirstName           string         `json:"first_name" validate:"required"`
	LastName            string         `json:"last_name" validate:"required"`
	Email               string         `json:"email" validate:"required,email"`
	Phone               string         `json:"phone" validate:"required,phone"`
	Address             addressRequest `json:"address"`
	MarketingEmail      bool           `json:"marketing_email"`
	MarketingSMS        bool           `json:"marketing_sms"`
	CommunicationMethod string         `json:"communication_method" validate:"omitempty,oneof=EMAIL SMS PHONE WHATSAPP"`
	Status              string         `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

type customerResponse struct {
	ID                  string        `json:"id"`
	FirstName           string        `json:"first_name"`
	LastName            string        `json:"last_name"`
	Email               string        `json:"email"`
	Phone               string        `json:"phone"`
	Address             model.Address `json:"address"`
	MarketingEmail      bool          `json:"marketing_email"`
	MarketingSMS        bool          `json:"marketing_sms"`
	CommunicationMethod string        `json:"communication_method"`
	Status              string        `json:"status"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

type customerRow struct {
	customerResponse
	Name    string `json:"name"`
	Badge   string `json:"badge"`
	Created string `json:"created"`
}

func toCustomerResponse(c model.Customer) customerResponse {
	return customerResponse{
		ID:                  c.ID,
		FirstName:           c.FirstName,
		LastName:            c.LastName,
		Email:               c.Email,
		Phone:               c.Phone,
		Address:             c.Address,
		MarketingEmail:      c.MarketingEmail,
		MarketingSMS:        c.MarketingSMS,
		CommunicationMethod: c.CommunicationMethod,
		Status:              c.Status,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}

func toCustomerRow(c model.Customer) customerRow {
	return customerRow{
		customerResponse: toCustomerResponse(c),
		Name:             strings.TrimSpace(c.FirstName + " " + c.LastName),
		Badge:            format.BadgeColor(c.Status),
		Created:          format.Date(c.CreatedAt),
	}
}

func (req customerRequest) toModel() *model.Customer {
	status := req.Status
	if status == "" {
		status = enum.CustomerStatusActive
	}
	method := req.CommunicationMethod
	if method == "" {
		method = enum.CommunicationEmail
	}
	return &model.Customer{
		FirstName:           strings.TrimSpace(req.FirstName),
		LastName:            strings.TrimSpace(req.LastName),
		Email:               strings.TrimSpace(req.Email),
		Phone:               strings.TrimSpace(req.Phone),
		Address:             req.Address.toModel(),
		MarketingEmail:      req.MarketingEmail,
		MarketingSMS:        req.MarketingSMS,
		CommunicationMethod: method,
		Status:              status,
	}
}

// --- Handlers ---

// List returns one page of customers with search, filter and sort applied.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.store.ListCustomers(r.Context())
	if err != nil {
		writeError(w, r, "customer", err)
		return
	}
	listPage(w, r, customerTable, customers, toCustomerRow)
}

// Get returns a single customer.
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "customer", err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(*c))
}

// Create validates and writes a new customer.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.store.CreateCustomer(r.Context(), req.toModel())
	if err != nil {
		writeError(w, r, "customer", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerResponse(*created))
}

// Update validates and writes the whole customer back.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	c := req.toModel()
	c.ID = id
	updated, err := h.store.UpdateCustomer(r.Context(), id, c)
	if err != nil {
		writeError(w, r, "customer", err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(*updated))
}
