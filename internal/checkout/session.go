// Package checkout runs the public checkout funnel: product, account
// verification, delivery and payment, ending in a redirect to the hosted
// payment page.
package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/model"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/pricing"
)

type Step string

const (
	StepProduct      Step = "PRODUCT"
	StepVerification Step = "VERIFICATION"
	StepDelivery     Step = "DELIVERY"
	StepPayment      Step = "PAYMENT"
	StepRedirected   Step = "REDIRECTED"
)

var stepOrder = []Step{StepProduct, StepVerification, StepDelivery, StepPayment, StepRedirected}

// Index returns the position of s in the funnel, or -1.
func (s Step) Index() int {
	for i, st := range stepOrder {
		if st == s {
			return i
		}
	}
	return -1
}

var (
	ErrSessionNotFound          = errors.New("checkout session not found or expired")
	ErrStepOutOfOrder           = errors.New("checkout step out of order")
	ErrProductNotFound          = errors.New("product not found")
	ErrProductUnavailable       = errors.New("product is not available")
	ErrAccountNotFound          = errors.New("account does not exist")
	ErrVerificationNotRequested = errors.New("no verification code was requested")
	ErrInvalidCode              = errors.New("verification code is incorrect")
	ErrTooManyAttempts          = errors.New("too many verification attempts")
	ErrUnsupportedPayment       = errors.New("payment method is not supported")
)

// Session is one shopper's pass through the funnel. Whatever was entered at
// an earlier step stays on the session when moving back and forth.
type Session struct {
	ID   string `json:"id"`
	Step Step   `json:"step"`

	Product  *model.Product `json:"product,omitempty"`
	Quantity int            `json:"quantity"`

	Channel  string `json:"channel,omitempty"`
	Contact  string `json:"contact,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	CodeHash string `json:"code_hash,omitempty"`
	Attempts int    `json:"attempts"`
	Verified bool   `json:"verified"`

	ShippingMethod string          `json:"shipping_method,omitempty"`
	Address        model.Address   `json:"address"`
	Totals         *pricing.Totals `json:"totals,omitempty"`

	PaymentMethod string `json:"payment_method,omitempty"`
	RedirectURL   string `json:"redirect_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Items returns the session's single product as order line items.
func (s *Session) Items() []model.LineItem {
	if s.Product == nil {
		return nil
	}
	return []model.LineItem{{
		Code:     s.Product.SKU,
		Name:     s.Product.Name,
		Quantity: s.Quantity,
		Price:    s.Product.Price,
	}}
}

// Store keeps sessions for at most ttl. Get returns ErrSessionNotFound for
// unknown or expired ids.
type Store interface {
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
