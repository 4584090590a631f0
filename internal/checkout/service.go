package checkout

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/backend"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/enum"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/logger"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/model"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/pricing"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/validation"
)

// Backend is the slice of the remote API the funnel needs.
// Satisfied by *backend.Client.
type Backend interface {
	GetProductByCode(ctx context.Context, code string) (*model.Product, error)
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	FindUserByPhone(ctx context.Context, phone string) (*model.User, error)
	SendVerificationCode(ctx context.Context, channel, contact, code string) error
}

const (
	defaultTTL         = 15 * time.Minute
	defaultMaxAttempts = 5
)

type Config struct {
	TTL         time.Duration     // checkout window, fixed at session start
	PaymentURLs map[string]string // payment method -> hosted payment page
	MaxAttempts int               // verification attempts per code
}

type Service struct {
	store   Store
	remote  Backend
	cfg     Config
	now     func() time.Time
	newCode func() (string, error)
}

func NewService(store Store, remote Backend, cfg Config) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	return &Service{
		store:   store,
		remote:  remote,
		cfg:     cfg,
		now:     time.Now,
		newCode: generateCode,
	}
}

// Start opens a new session and performs the product step.
func (s *Service) Start(ctx context.Context, code string, quantity int) (*Session, error) {
	now := s.now()
	sess := &Session{
		ID:        uuid.NewString(),
		Step:      StepProduct,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.TTL),
	}
	if err := s.selectProduct(ctx, sess, code, quantity); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get returns a live session.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	return s.load(ctx, id)
}

// ChooseProduct redoes the product step after Back.
func (s *Service) ChooseProduct(ctx context.Context, id, code string, quantity int) (*Session, error) {
	sess, err := s.loadAt(ctx, id, StepProduct)
	if err != nil {
		return nil, err
	}
	if err := s.selectProduct(ctx, sess, code, quantity); err != nil {
		return nil, err
	}
	return sess, s.save(ctx, sess)
}

func (s *Service) selectProduct(ctx context.Context, sess *Session, code string, quantity int) error {
	code = strings.TrimSpace(code)
	fields := validation.FieldErrors{}
	if code == "" {
		fields["code"] = "this field is required"
	}
	if quantity < 1 {
		fields["quantity"] = "must be at least 1"
	}
	if len(fields) > 0 {
		return fields
	}

	p, err := s.remote.GetProductByCode(ctx, code)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("lookup product %q: %w", code, err)
	}
	if p.Status == enum.ProductStatusArchived {
		return ErrProductUnavailable
	}

	sess.Product = p
	sess.Quantity = quantity
	sess.Step = StepVerification
	return nil
}

// RequestVerification looks the shopper's account up by email or phone and
// sends a fresh 6-digit code. Earlier codes stop working.
func (s *Service) RequestVerification(ctx context.Context, id, channel, contact string) (*Session, error) {
	sess, err := s.loadAt(ctx, id, StepVerification)
	if err != nil {
		return nil, err
	}

	channel = strings.ToUpper(strings.TrimSpace(channel))
	contact = strings.TrimSpace(contact)

	var user *model.User
	switch channel {
	case enum.ChannelEmail:
		if !validation.IsEmail(contact) {
			return nil, validation.FieldErrors{"contact": "must be a valid email address"}
		}
		user, err = s.remote.FindUserByEmail(ctx, contact)
	case enum.ChannelSMS:
		if !validation.IsPhone(contact) {
			return nil, validation.FieldErrors{"contact": "must be a valid phone number"}
		}
		user, err = s.remote.FindUserByPhone(ctx, contact)
	default:
		return nil, validation.FieldErrors{"channel": "must be one of: EMAIL SMS"}
	}
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	code, err := s.newCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash code: %w", err)
	}
	if err := s.remote.SendVerificationCode(ctx, channel, contact, code); err != nil {
		return nil, fmt.Errorf("send code: %w", err)
	}

	sess.Channel = channel
	sess.Contact = contact
	sess.UserID = user.ID
	sess.CodeHash = string(hash)
	sess.Attempts = 0
	sess.Verified = false
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("verification code sent",
		zap.String("checkout_id", sess.ID),
		zap.String("channel", channel),
	)
	return sess, nil
}

// ConfirmVerification checks a code. After MaxAttempts wrong codes the code
// is discarded and a new one must be requested.
func (s *Service) ConfirmVerification(ctx context.Context, id, code string) (*Session, error) {
	sess, err := s.loadAt(ctx, id, StepVerification)
	if err != nil {
		return nil, err
	}
	if sess.CodeHash == "" {
		return nil, ErrVerificationNotRequested
	}

	sess.Attempts++
	if bcrypt.CompareHashAndPassword([]byte(sess.CodeHash), []byte(strings.TrimSpace(code))) != nil {
		if sess.Attempts >= s.cfg.MaxAttempts {
			sess.CodeHash = ""
			if err := s.save(ctx, sess); err != nil {
				return nil, err
			}
			return nil, ErrTooManyAttempts
		}
		if err := s.save(ctx, sess); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCode
	}

	sess.CodeHash = ""
	sess.Verified = true
	sess.Step = StepDelivery
	return sess, s.save(ctx, sess)
}

type deliveryForm struct {
	ShippingMethod string `json:"shipping_method" validate:"required,oneof='Free Shipping' 'Flat Rate'"`
}

type addressRules struct {
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// ChooseDelivery records the shipping choice and computes the totals shown
// on the payment step.
func (s *Service) ChooseDelivery(ctx context.Context, id, method string, addr model.Address) (*Session, error) {
	sess, err := s.loadAt(ctx, id, StepDelivery)
	if err != nil {
		return nil, err
	}

	fields := validation.Struct(deliveryForm{ShippingMethod: method})
	if addrFields := validation.Struct(addressRules(addr)); addrFields != nil {
		if fields == nil {
			fields = validation.FieldErrors{}
		}
		for k, v := range addrFields {
			fields["address."+k] = v
		}
	}
	if len(fields) > 0 {
		return nil, fields
	}

	totals := pricing.CreatePolicy.Compute(sess.Items(), method)
	sess.ShippingMethod = method
	sess.Address = addr
	sess.Totals = &totals
	sess.Step = StepPayment
	return sess, s.save(ctx, sess)
}

// ChoosePayment builds the hosted payment redirect. No order is created
// here; the payment provider reports back to the remote API.
func (s *Service) ChoosePayment(ctx context.Context, id, method string) (*Session, error) {
	sess, err := s.loadAt(ctx, id, StepPayment)
	if err != nil {
		return nil, err
	}

	method = strings.ToUpper(strings.TrimSpace(method))
	base, ok := s.cfg.PaymentURLs[method]
	if !ok || !enum.IsPaymentMethod(method) {
		return nil, ErrUnsupportedPayment
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("payment url for %s: %w", method, err)
	}
	q := u.Query()
	q.Set("reference", sess.ID)
	q.Set("amount", sess.Totals.Total.StringFixed(2))
	u.RawQuery = q.Encode()

	sess.PaymentMethod = method
	sess.RedirectURL = u.String()
	sess.Step = StepRedirected
	return sess, s.save(ctx, sess)
}

// Back moves one step back. Entered data is kept.
func (s *Service) Back(ctx context.Context, id string) (*Session, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	i := sess.Step.Index()
	if i <= 0 || sess.Step == StepRedirected {
		return nil, ErrStepOutOfOrder
	}
	sess.Step = stepOrder[i-1]
	return sess, s.save(ctx, sess)
}

// Abandon drops the session. Re-entering the funnel starts clean.
func (s *Service) Abandon(ctx context.Context, id string) error {
	err := s.store.Delete(ctx, id)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("delete checkout session: %w", err)
	}
	return nil
}

// --- Helpers ---

func (s *Service) load(ctx context.Context, id string) (*Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.now().Before(sess.ExpiresAt) {
		_ = s.store.Delete(ctx, id)
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *Service) loadAt(ctx context.Context, id string, step Step) (*Session, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Step != step {
		return nil, fmt.Errorf("%w: session is at %s, not %s", ErrStepOutOfOrder, sess.Step, step)
	}
	return sess, nil
}

// save stores the session for whatever is left of its checkout window.
func (s *Service) save(ctx context.Context, sess *Session) error {
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return ErrSessionNotFound
	}
	if err := s.store.Save(ctx, sess, ttl); err != nil {
		return fmt.Errorf("save checkout session: %w", err)
	}
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
