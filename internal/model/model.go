// Package model holds the records exchanged with the remote shop API.
// None of them are owned here: they are fetched, edited and written back
// within a single request.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one product entry within an order.
type LineItem struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Address is a postal address shared by customers, orders and checkout.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type Order struct {
	ID             string          `json:"id"`
	OrderNumber    string          `json:"order_number,omitempty"`
	CustomerID     string          `json:"customer_id,omitempty"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Address        Address         `json:"address"`
	Items          []LineItem      `json:"items"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentStatus  string          `json:"payment_status"`
	ShippingMethod string          `json:"shipping_method"`
	ShippingStatus string          `json:"shipping_status"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Tax            decimal.Decimal `json:"tax"`
	ShippingFee    decimal.Decimal `json:"shipping_fee"`
	Discount       decimal.Decimal `json:"discount"`
	Total          decimal.Decimal `json:"total"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CustomerName joins the order's first and last name.
func (o Order) CustomerName() string {
	switch {
	case o.FirstName == "":
		return o.LastName
	case o.LastName == "":
		return o.FirstName
	}
	return o.FirstName + " " + o.LastName
}

type Customer struct {
	ID                  string    `json:"id"`
	FirstName           string    `json:"first_name"`
	LastName            string    `json:"last_name"`
	Email               string    `json:"email"`
	Phone               string    `json:"phone"`
	Address             Address   `json:"address"`
	MarketingEmail      bool      `json:"marketing_email"`
	MarketingSMS        bool      `json:"marketing_sms"`
	CommunicationMethod string    `json:"communication_method"`
	Status              string    `json:"status"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Category  string          `json:"category"`
	SKU       string          `json:"sku"`
	SessionID string          `json:"session_id,omitempty"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Payment struct {
	ID             string          `json:"id"`
	OrderID        string          `json:"order_id"`
	CustomerID     string          `json:"customer_id"`
	TransactionID  string          `json:"transaction_id"`
	Method         string          `json:"method"`
	Status         string          `json:"status"`
	DeliveryStatus string          `json:"delivery_status"`
	Amount         decimal.Decimal `json:"amount"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// LiveEvent is a scheduled live-streamed selling session.
type LiveEvent struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	HostName    string    `json:"host_name"`
	HostEmail   string    `json:"host_email"`
	Link        string    `json:"link"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// User is the account record returned by the remote user search.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Admin is a dashboard operator as returned by the remote admin login.
type Admin struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}
