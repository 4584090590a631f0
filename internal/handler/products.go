package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/enum"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/format"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/model"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/table"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/validation"
)

// ProductStore defines the remote API methods needed by product handlers.
// Satisfied by *backend.Client; narrow interface for testability.
type ProductStore interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	GetProductByCode(ctx context.Context, code string) (*model.Product, error)
	CreateProduct(ctx context.Context, p *model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, p *model.Product) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

var productTable = table.New(listPageSize,
	[]table.Column[model.Product]{
		{Name: "name", Value: func(p model.Product) string { return p.Name }},
		{Name: "sku", Value: func(p model.Product) string { return p.SKU }},
		{Name: "category", Value: func(p model.Product) string { return p.Category }},
		{Name: "price", Kind: table.Numeric, Value: func(p model.Product) string { return p.Price.String() }},
		{Name: "status", Value: func(p model.Product) string { return p.Status }},
	},
	[]string{"name", "sku", "category"},
	[]string{"category", "status"},
)

// ProductHandler handles product CRUD endpoints.
type ProductHandler struct {
	store ProductStore
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(store ProductStore) *ProductHandler {
	return &ProductHandler{store: store}
}

// RegisterRoutes registers product endpoints on the given Chi router.
// Expected to be mounted at /admin/products.
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/lookup/{code}", h.Lookup)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
	})
}

// --- Request / Response types ---

type productRequest struct {
	Name      string          `json:"name" validate:"required"`
	Price     decimal.Decimal `json:"price"`
	Category  string          `json:"category" validate:"required"`
	SKU       string          `json:"sku" validate:"required"`
	SessionID string          `json:"session_id"`
	Status    string          `json:"status" validate:"omitempty,oneof=ACTIVE ARCHIVED"`
}

type productResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Category  string    `json:"category"`
	SKU       string    `json:"sku"`
	SessionID string    `json:"session_id,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type productRow struct {
	productResponse
	PriceLabel string `json:"price_label"`
	Badge      string `json:"badge"`
	Created    string `json:"created"`
}

func toProductResponse(p model.Product) productResponse {
	return productResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price.StringFixed(2),
		Category:  p.Category,
		SKU:       p.SKU,
		SessionID: p.SessionID,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toProductRow(p model.Product) productRow {
	return productRow{
		productResponse: toProductResponse(p),
		PriceLabel:      format.Currency(p.Price),
		Badge:           format.BadgeColor(p.Status),
		Created:         format.Date(p.CreatedAt),
	}
}

func (req *productRequest) normalize() {
	req.Status = normalizeStatus(req.Status)
}

func (req productRequest) toModel() *model.Product {
	status := req.Status
	if status == "" {
		status = enum.ProductStatusActive
	}
	return &model.Product{
		Name:      strings.TrimSpace(req.Name),
		Price:     req.Price,
		Category:  strings.TrimSpace(req.Category),
		SKU:       strings.TrimSpace(req.SKU),
		SessionID: req.SessionID,
		Status:    status,
	}
}

// --- Handlers ---

// List returns one page of products with search, filter and sort applied.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		writeError(w, r, "product", err)
		return
	}
	listPage(w, r, productTable, products, toProductRow)
}

// Get returns a single product.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, "product", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(*p))
}

// Lookup finds a product by its code, as typed on the checkout screen.
func (h *ProductHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetProductByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, r, "product", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(*p))
}

// Create validates and writes a new product.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.Price.IsNegative() {
		writeValidation(w, validation.FieldErrors{"price": "must be at least 0"})
		return
	}

	created, err := h.store.CreateProduct(r.Context(), req.toModel())
	if err != nil {
		writeError(w, r, "product", err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(*created))
}

// Update validates and writes the whole product back.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.Price.IsNegative() {
		writeValidation(w, validation.FieldErrors{"price": "must be at least 0"})
		return
	}

	id := chi.URLParam(r, "id")
	p := req.toModel()
	p.ID = id
	updated, err := h.store.UpdateProduct(r.Context(), id, p)
	if err != nil {
		writeError(w, r, "product", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(*updated))
}

// Delete removes a product.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, "product", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
