package pricing

import (
	"errors"
	"fmt"

	"github.com/pamsartech/ldv-admin-panel-sub001/internal/enum"
	"github.com/pamsartech/ldv-admin-panel-sub001/internal/model"
	"github.com/shopspring/decimal"
)

// Errors returned by Validate.
var (
	ErrEmptyItems      = errors.New("items are required")
	ErrInvalidQuantity = errors.New("quantity must be >= 1")
	ErrNegativePrice   = errors.New("price must be >= 0")
)

// TaxRate is applied to every subtotal. It is fixed, not configurable.
var TaxRate = decimal.RequireFromString("0.10")

// Policy holds the per-screen shipping fee and discount rate.
type Policy struct {
	Name            string
	TaxRate         decimal.Decimal
	FlatShippingFee decimal.Decimal
	DiscountRate    decimal.Decimal
}

// The order-creation and order-update screens charge different flat fees and
// only the update screen applies a discount. Both are kept as observed.
var (
	CreatePolicy = Policy{
		Name:            "create",
		TaxRate:         TaxRate,
		FlatShippingFee: decimal.NewFromInt(7),
		DiscountRate:    decimal.Zero,
	}
	UpdatePolicy = Policy{
		Name:            "update",
		TaxRate:         TaxRate,
		FlatShippingFee: decimal.NewFromInt(5),
		DiscountRate:    decimal.RequireFromString("0.05"),
	}
)

// PolicyByName returns the named policy. ok is false for unknown names.
func PolicyByName(name string) (Policy, bool) {
	switch name {
	case CreatePolicy.Name:
		return CreatePolicy, true
	case UpdatePolicy.Name:
		return UpdatePolicy, true
	}
	return Policy{}, false
}

// Totals is the computed breakdown of an order.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// Validate checks every line item. Errors are wrapped with the item index.
func Validate(items []model.LineItem) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}
	for i, item := range items {
		if item.Quantity < 1 {
			return fmt.Errorf("items[%d]: %w", i, ErrInvalidQuantity)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("items[%d]: %w", i, ErrNegativePrice)
		}
	}
	return nil
}

// Subtotal returns the sum of price * quantity over all items.
func Subtotal(items []model.LineItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal
}

// ShippingFee returns zero for the free-shipping option and the policy's
// flat fee for anything else.
func (p Policy) ShippingFee(method string) decimal.Decimal {
	if method == enum.ShippingFree {
		return decimal.Zero
	}
	return p.FlatShippingFee
}

// Compute derives the totals for the given items and shipping method.
// total = subtotal + tax - discount + shippingFee
func (p Policy) Compute(items []model.LineItem, shippingMethod string) Totals {
	subtotal := Subtotal(items)
	tax := subtotal.Mul(p.TaxRate)
	discount := subtotal.Mul(p.DiscountRate)
	fee := p.ShippingFee(shippingMethod)

	return Totals{
		Subtotal:    subtotal,
		Tax:         tax,
		ShippingFee: fee,
		Discount:    discount,
		Total:       subtotal.Add(tax).Sub(discount).Add(fee),
	}
}

// Apply writes computed totals onto an order.
func (t Totals) Apply(o *model.Order) {
	o.Subtotal = t.Subtotal
	o.Tax = t.Tax
	o.ShippingFee = t.ShippingFee
	o.Discount = t.Discount
	o.Total = t.Total
}
