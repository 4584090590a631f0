package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/checkout"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/model"
)

// CheckoutServicer defines the checkout funnel operations.
// Satisfied by *checkout.Service; narrow interface for testability.
type CheckoutServicer interface {
	Start(ctx context.Context, code string, quantity int) (*checkout.Session, error)
	Get(ctx context.Context, id string) (*checkout.Session, error)
	ChooseProduct(ctx context.Context, id, code string, quantity int) (*checkout.Session, error)
	RequestVerification(ctx context.Context, id, channel, contact string) (*checkout.Session, error)
	ConfirmVerification(ctx context.Context, id, code string) (*checkout.Session, error)
	ChooseDelivery(ctx context.Context, id, method string, addr model.Address) (*checkout.Session, error)
	ChoosePayment(ctx context.Context, id, method string) (*checkout.Session, error)
	Back(ctx context.Context, id string) (*checkout.Session, error)
	Abandon(ctx context.Context, id string) error
}

// CheckoutHandler serves the public checkout funnel. No admin session is
// needed; the session id in the path is the shopper's only credential.
type CheckoutHandler struct {
	service CheckoutServicer
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(svc CheckoutServicer) *CheckoutHandler {
	return &CheckoutHandler{service: svc}
}

// RegisterRoutes registers checkout endpoints on the given Chi router.
// Expected to be mounted at /checkout.
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Start)
	r.Route("/{sid}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Delete("/", h.Abandon)
		r.Post("/product", h.Product)
		r.Post("/verification", h.RequestVerification)
		r.Post("/verification/confirm", h.ConfirmVerification)
		r.Post("/delivery", h.Delivery)
		r.Post("/payment", h.Payment)
		r.Post("/back", h.Back)
	})
}

// --- Request / Response types ---

type productStepRequest struct {
	Code     string `json:"code"`
	Quantity int    `json:"quantity"`
}

type verificationRequest struct {
	Channel string `json:"channel"`
	Contact string `json:"contact"`
}

type confirmRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

type deliveryRequest struct {
	ShippingMethod string        `json:"shipping_method"`
	Address        model.Address `json:"address"`
}

type paymentStepRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type checkoutProduct struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// checkoutResponse is the shopper's view of a session. The code hash and
// account id never leave the server.
type checkoutResponse struct {
	ID               string           `json:"id"`
	Step             checkout.Step    `json:"step"`
	Product          *checkoutProduct `json:"product,omitempty"`
	Quantity         int              `json:"quantity"`
	Channel          string           `json:"channel,omitempty"`
	Contact          string           `json:"contact,omitempty"`
	Verified         bool             `json:"verified"`
	CodeSent         bool             `json:"code_sent"`
	ShippingMethod   string           `json:"shipping_method,omitempty"`
	Address          model.Address    `json:"address"`
	Totals           *totalsResponse  `json:"totals,omitempty"`
	PaymentMethod    string           `json:"payment_method,omitempty"`
	RedirectURL      string           `json:"redirect_url,omitempty"`
	ExpiresAt        time.Time        `json:"expires_at"`
	RemainingSeconds int              `json:"remaining_seconds"`
}

func toCheckoutResponse(s *checkout.Session) checkoutResponse {
	resp := checkoutResponse{
		ID:             s.ID,
		Step:           s.Step,
		Quantity:       s.Quantity,
		Channel:        s.Channel,
		Contact:        s.Contact,
		Verified:       s.Verified,
		CodeSent:       s.CodeHash != "",
		ShippingMethod: s.ShippingMethod,
		Address:        s.Address,
		PaymentMethod:  s.PaymentMethod,
		RedirectURL:    s.RedirectURL,
		ExpiresAt:      s.ExpiresAt,
	}
	if remaining := time.Until(s.ExpiresAt); remaining > 0 {
		resp.RemainingSeconds = int(remaining.Seconds())
	}
	if s.Product != nil {
		resp.Product = &checkoutProduct{
			Code:  s.Product.SKU,
			Name:  s.Product.Name,
			Price: s.Product.Price.StringFixed(2),
		}
	}
	if s.Totals != nil {
		t := toTotalsResponse(*s.Totals)
		resp.Totals = &t
	}
	return resp
}

// --- Handlers ---

// Start opens a checkout session with the product step done.
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req productStepRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sess, err := h.service.Start(r.Context(), req.Code, req.Quantity)
	if err != nil {
		writeCheckoutError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCheckoutResponse(sess))
}

// Get returns the session, e.g. after a page reload.
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Get(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		writeCheckoutError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckoutResponse(sess))
}

// Product redoes the product step after going back to it.
func (h *CheckoutHandler) Product(w http.ResponseWriter, r *http.Request) {
	var req productStepRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sess, err := h.service.ChooseProduct(r.Context(), chi.URLParam(r, "sid"), req.Code, req.Quantity)
	if err != nil {
		writeCheckoutError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckoutResponse(sess))
}

// RequestVerification sends a code to the shopper's email or phone.
func (h *CheckoutHandler) RequestVerification(w http.ResponseWriter, r *http.Request) {
	var req verificationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sess, err := h.service.RequestVerification(r.Context(), chi.URLParam(r, "sid"), req.Channel, req.Contact)
	if err != nil {
		writeCheckoutError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckoutResponse(sess))
}

// ConfirmVerification checks the code the shopper typed.
func (h *CheckoutHandler) ConfirmVerification(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sess, err := h.service.ConfirmVerification(r.Context(), chi.URLParam(r, "sid"), req.Code)
	if err != nil {
		writeCheckoutError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckoutResponse(sess))
}

// Delivery records the shipping method and address and prices the order.
func (h *CheckoutHandler) Delivery(w http.ResponseWriter, r *http.Request) {
	var req deliveryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sess, err := h.service.ChooseDelivery(r.Context(), chi.URLParam(r, "sid"), req.ShippingMethod, req.Address)
	if err != nil {
		writeCheckoutError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckoutResponse(sess))
}

// Payment picks the payment method and returns the hosted payment redirect.
func (h *CheckoutHandler) Payment(w http.ResponseWriter, r *http.Request) {
	var req paymentStepRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sess, err := h.service.ChoosePayment(r.Context(), chi.URLParam(r, "sid"), req.PaymentMethod)
	if err != nil {
		writeCheckoutError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckoutResponse(sess))
}

// Back returns to the previous step. Entered data is kept.
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Back(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		writeCheckoutError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCheckoutResponse(sess))
}

// Abandon drops the session so the next visit starts clean.
func (h *CheckoutHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Abandon(r.Context(), chi.URLParam(r, "sid")); err != nil {
		writeCheckoutError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

func writeCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	status := 0
	switch {
	case errors.Is(err, checkout.ErrSessionNotFound),
		errors.Is(err, checkout.ErrProductNotFound),
		errors.Is(err, checkout.ErrAccountNotFound):
		status = http.StatusNotFound
	case errors.Is(err, checkout.ErrStepOutOfOrder),
		errors.Is(err, checkout.ErrVerificationNotRequested):
		status = http.StatusConflict
	case errors.Is(err, checkout.ErrProductUnavailable),
		errors.Is(err, checkout.ErrInvalidCode),
		errors.Is(err, checkout.ErrUnsupportedPayment):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, checkout.ErrTooManyAttempts):
		status = http.StatusTooManyRequests
	}
	if status != 0 {
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeError(w, r, "checkout", err)
}
