package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/connector/internal/domain/connector"
)

// Upserter writes mapped values into one kind of host record. Values keys
// are the record's column names; unknown keys are an error.
type Upserter interface {
	CreateFromValues(ctx context.Context, vals connector.Values) (uuid.UUID, error)
	UpdateFromValues(ctx context.Context, id uuid.UUID, vals connector.Values) error
}

// CategoryStore persists categories.
type CategoryStore interface {
	Upserter
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
}

// ProductStore persists templates and exposes the hooks the product and
// inventory importers and exporters need.
type ProductStore interface {
	Upserter
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	SaveImage(ctx context.Context, id uuid.UUID, image []byte) error
	SetAttributeLine(ctx context.Context, line AttributeLine) error
	// MarkExported records the quantity last pushed to the storefront
	MarkExported(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error
}

// VariantStore persists variants of a template.
type VariantStore interface {
	Upserter
	FindByID(ctx context.Context, id uuid.UUID) (*Variant, error)
	VariantsOf(ctx context.Context, templateID uuid.UUID) ([]Variant, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// AttributeStore persists attributes.
type AttributeStore interface {
	Upserter
	FindByName(ctx context.Context, name string) (*Attribute, error)
}

// TermStore persists attribute terms.
type TermStore interface {
	Upserter
	FindByName(ctx context.Context, attributeID uuid.UUID, name string) (*AttributeTerm, error)
}

// CustomerStore persists customers and their addresses.
type CustomerStore interface {
	Upserter
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	SaveAddress(ctx context.Context, addr *Address) (uuid.UUID, error)
}

// PaymentMethodStore resolves storefront gateway codes.
type PaymentMethodStore interface {
	FindByCode(ctx context.Context, code string) (*PaymentMethod, error)
}

// CarrierStore resolves shipping codes, creating unknown carriers.
type CarrierStore interface {
	FindOrCreate(ctx context.Context, code, name string) (*DeliveryCarrier, error)
}

// OrderStore persists sales orders.
type OrderStore interface {
	Upserter
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)
	FindByNumber(ctx context.Context, number string) (*SalesOrder, error)
	AddLine(ctx context.Context, line *OrderLine) (uuid.UUID, error)
	Confirm(ctx context.Context, id uuid.UUID) error
}

// Registry aggregates the per-entity stores. Implementations hand out
// stores bound to the ambient transaction of the calling context.
type Registry interface {
	Categories() CategoryStore
	Products() ProductStore
	Variants() VariantStore
	Attributes() AttributeStore
	Terms() TermStore
	Customers() CustomerStore
	PaymentMethods() PaymentMethodStore
	Carriers() CarrierStore
	Orders() OrderStore

	// UpserterFor returns the Upserter matching an entity type, or nil
	// when the entity has no direct upsert mapping.
	UpserterFor(t connector.EntityType) Upserter
}
