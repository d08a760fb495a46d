package store

import (
	"time"

	"github.com/google/uuid"
)

// ImportRule decides whether an order paid with a given method may be
// imported yet.
type ImportRule string

const (
	// ImportAlways imports the order regardless of payment state
	ImportAlways ImportRule = "always"
	// ImportNever refuses orders paid with this method
	ImportNever ImportRule = "never"
	// ImportPaid waits until the storefront reports the order as paid
	ImportPaid ImportRule = "paid"
	// ImportAuthorized waits until the payment is authorized
	ImportAuthorized ImportRule = "authorized"
)

// IsValid reports whether r is one of the known rules.
func (r ImportRule) IsValid() bool {
	switch r {
	case ImportAlways, ImportNever, ImportPaid, ImportAuthorized:
		return true
	}
	return false
}

// PaymentMethod maps a storefront payment gateway code to an import rule.
type PaymentMethod struct {
	ID   uuid.UUID
	Name string
	// Code is the storefront gateway identifier (e.g. "bacs", "paypal")
	Code       string
	ImportRule ImportRule
	// DaysBeforeCancel caps how long an unpaid order stays importable.
	// Zero disables the cutoff for this method.
	DaysBeforeCancel int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DeliveryCarrier is a shipping method. Carriers are created on demand
// when an order references an unknown shipping code.
type DeliveryCarrier struct {
	ID        uuid.UUID
	Name      string
	Code      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
