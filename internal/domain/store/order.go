package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound         = errors.New("store: order not found")
	ErrCustomerNotFound      = errors.New("store: customer not found")
	ErrProductNotFound       = errors.New("store: product not found")
	ErrVariantNotFound       = errors.New("store: variant not found")
	ErrCategoryNotFound      = errors.New("store: category not found")
	ErrAttributeNotFound     = errors.New("store: attribute not found")
	ErrTermNotFound          = errors.New("store: attribute term not found")
	ErrPaymentMethodNotFound = errors.New("store: payment method not found")
)

// SalesOrder is a sale imported from the storefront.
type SalesOrder struct {
	ID         uuid.UUID
	Number     string
	CustomerID uuid.UUID
	// BillingAddressID and ShippingAddressID may equal the customer's
	// defaults when the order carried no distinct addresses
	BillingAddressID  *uuid.UUID
	ShippingAddressID *uuid.UUID
	// Status is the host-side order status (draft, confirmed, done, cancel)
	Status          OrderStatus
	PaymentMethodID *uuid.UUID
	CarrierID       *uuid.UUID
	Currency        string
	AmountTotal     decimal.Decimal
	OrderedAt       time.Time
	// ShippedAt is set when the delivery leaves the warehouse; it drives
	// the order state export back to the storefront
	ShippedAt *time.Time
	Lines     []OrderLine
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderStatus is the host-side lifecycle status of a sales order.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusDone      OrderStatus = "done"
	OrderStatusCancelled OrderStatus = "cancel"
)

// OrderLine is one line of a sales order.
type OrderLine struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID *uuid.UUID
	VariantID *uuid.UUID
	Name      string
	Qty       decimal.Decimal
	UnitPrice decimal.Decimal
	// Kind distinguishes product lines from shipping and fee lines
	Kind OrderLineKind
}

// OrderLineKind is the closed set of order line kinds.
type OrderLineKind string

const (
	OrderLineProduct  OrderLineKind = "product"
	OrderLineShipping OrderLineKind = "shipping"
	OrderLineFee      OrderLineKind = "fee"
)

// Confirm moves a draft order to confirmed. Confirming a non-draft order
// is a no-op so re-imported orders stay idempotent.
func (o *SalesOrder) Confirm() {
	if o.Status == OrderStatusDraft {
		o.Status = OrderStatusConfirmed
	}
}
