package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/enum"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/logger"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/model"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/pricing"
)

// Errors returned by the order service.
var (
	ErrInvalidShippingMethod = errors.New("invalid shipping_method")
	ErrInvalidPaymentMethod  = errors.New("invalid payment_method")
	ErrUnknownPolicy         = errors.New("unknown pricing policy")
)

// Realtime event types.
const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
)

// OrderBackend defines the remote API methods needed to write orders.
// Satisfied by *backend.Client.
type OrderBackend interface {
	CreateOrder(ctx context.Context, o *model.Order) (*model.Order, error)
	UpdateOrder(ctx context.Context, id string, o *model.Order) (*model.Order, error)
}

// Broadcaster pushes change notifications to dashboards. Satisfied by *ws.Hub.
type Broadcaster interface {
	Broadcast(topic, eventType string, payload any)
}

// OrderService handles order business logic. Totals are always computed
// here and never taken from the client.
type OrderService struct {
	remote OrderBackend
	hub    Broadcaster
}

// NewOrderService creates a new OrderService. hub may be nil.
func NewOrderService(remote OrderBackend, hub Broadcaster) *OrderService {
	return &OrderService{remote: remote, hub: hub}
}

// Create validates the order, prices it with the creation policy and writes
// it once. Failures are returned as-is; nothing is retried.
func (s *OrderService) Create(ctx context.Context, o *model.Order) (*model.Order, error) {
	if err := validateOrder(o); err != nil {
		return nil, err
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = enum.PaymentStatusPending
	}
	if o.ShippingStatus == "" {
		o.ShippingStatus = enum.ShippingStatusPending
	}
	pricing.CreatePolicy.Compute(o.Items, o.ShippingMethod).Apply(o)

	created, err := s.remote.CreateOrder(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	logger.FromContext(ctx).Info("order created",
		zap.String("order_id", created.ID),
		zap.String("total", created.Total.StringFixed(2)),
	)
	s.notify(EventOrderCreated, created)
	return created, nil
}

// Update validates and reprices the order with the update policy.
func (s *OrderService) Update(ctx context.Context, id string, o *model.Order) (*model.Order, error) {
	if err := validateOrder(o); err != nil {
		return nil, err
	}
	o.ID = id
	pricing.UpdatePolicy.Compute(o.Items, o.ShippingMethod).Apply(o)

	updated, err := s.remote.UpdateOrder(ctx, id, o)
	if err != nil {
		return nil, fmt.Errorf("update order %s: %w", id, err)
	}

	logger.FromContext(ctx).Info("order updated", zap.String("order_id", id))
	s.notify(EventOrderUpdated, updated)
	return updated, nil
}

// Quote prices items without writing anything, for the live totals shown
// while an order form is being edited.
func (s *OrderService) Quote(policy string, items []model.LineItem, shippingMethod string) (pricing.Totals, error) {
	p, ok := pricing.PolicyByName(policy)
	if !ok {
		return pricing.Totals{}, ErrUnknownPolicy
	}
	if err := pricing.Validate(items); err != nil {
		return pricing.Totals{}, err
	}
	if !enum.IsShippingMethod(shippingMethod) {
		return pricing.Totals{}, ErrInvalidShippingMethod
	}
	return p.Compute(items, shippingMethod), nil
}

func (s *OrderService) notify(eventType string, o *model.Order) {
	if s.hub != nil {
		s.hub.Broadcast(enum.TopicOrders, eventType, o)
	}
}

func validateOrder(o *model.Order) error {
	if err := pricing.Validate(o.Items); err != nil {
		return err
	}
	if !enum.IsShippingMethod(o.ShippingMethod) {
		return ErrInvalidShippingMethod
	}
	if !enum.IsPaymentMethod(o.PaymentMethod) {
		return ErrInvalidPaymentMethod
	}
	return nil
}
