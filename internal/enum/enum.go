package enum

// ── Group A: Statuses owned by the remote API ──

const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusPaid     = "PAID"
	PaymentStatusFailed   = "FAILED"
	PaymentStatusRefunded = "REFUNDED"
)

const (
	ShippingStatusPending   = "PENDING"
	ShippingStatusShipped   = "SHIPPED"
	ShippingStatusDelivered = "DELIVERED"
	ShippingStatusReturned  = "RETURNED"
)

const (
	ProductStatusActive   = "ACTIVE"
	ProductStatusArchived = "ARCHIVED"
)

const (
	CustomerStatusActive   = "ACTIVE"
	CustomerStatusInactive = "INACTIVE"
)

const (
	EventStatusScheduled = "SCHEDULED"
	EventStatusLive      = "LIVE"
	EventStatusEnded     = "ENDED"
	EventStatusCancelled = "CANCELLED"
)

// ── Group B: Selectable options ──

// Shipping methods are matched literally; only ShippingFree waives the fee.
const (
	ShippingFree     = "Free Shipping"
	ShippingFlatRate = "Flat Rate"
)

const (
	PaymentMethodCard         = "CARD"
	PaymentMethodPayPal       = "PAYPAL"
	PaymentMethodBankTransfer = "BANK_TRANSFER"
)

// PaymentMethods lists every supported payment method.
var PaymentMethods = []string{PaymentMethodCard, PaymentMethodPayPal, PaymentMethodBankTransfer}

const (
	CommunicationEmail    = "EMAIL"
	CommunicationSMS      = "SMS"
	CommunicationPhone    = "PHONE"
	CommunicationWhatsApp = "WHATSAPP"
)

const (
	ChannelEmail = "EMAIL"
	ChannelSMS   = "SMS"
)

// ── Group C: Dashboard access ──

const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

// ── Realtime topics ──

const (
	TopicOrders   = "orders"
	TopicEvents   = "events"
	TopicPayments = "payments"
)

// IsPaymentMethod reports whether s is a supported payment method.
func IsPaymentMethod(s string) bool {
	switch s {
	case PaymentMethodCard, PaymentMethodPayPal, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// IsShippingMethod reports whether s is a selectable shipping method.
func IsShippingMethod(s string) bool {
	switch s {
	case ShippingFree, ShippingFlatRate:
		return true
	}
	return false
}

// IsTopic reports whether s is a realtime topic clients may subscribe to.
func IsTopic(s string) bool {
	switch s {
	case TopicOrders, TopicEvents, TopicPayments:
		return true
	}
	return false
}
