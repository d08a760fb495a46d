package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Catalog entities
// ---------------------------------------------------------------------------

// Category is a product category. Categories form a tree through ParentID.
type Category struct {
	ID        uuid.UUID
	Name      string
	ParentID  *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductKind distinguishes simple products from templates with variants.
type ProductKind string

const (
	// ProductKindSimple is a product without variants
	ProductKindSimple ProductKind = "simple"
	// ProductKindVariable is a template whose variants carry the stock
	ProductKindVariable ProductKind = "variable"
)

// Product is a product template.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	SKU         string
	Kind        ProductKind
	Active      bool
	ListPrice   decimal.Decimal
	Weight      decimal.Decimal
	// CategoryID is the main category; SecondaryCategoryIDs the rest
	CategoryID           *uuid.UUID
	SecondaryCategoryIDs []uuid.UUID
	// Image is the primary product image, if one could be downloaded
	Image []byte

	// Stock bookkeeping for the inventory exporter.
	// ForecastQty and OnHandQty are maintained by the host inventory system;
	// ExportedQty is the quantity last pushed to the storefront.
	ForecastQty decimal.Decimal
	OnHandQty   decimal.Decimal
	ExportedQty decimal.Decimal
	// NoStockSync excludes the product from stock synchronization
	NoStockSync bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Qty returns the quantity selected by the backend's stock field.
func (p *Product) Qty(field string) decimal.Decimal {
	if field == "on_hand_qty" {
		return p.OnHandQty
	}
	return p.ForecastQty
}

// Variant is one product variation under a template.
type Variant struct {
	ID         uuid.UUID
	TemplateID uuid.UUID
	SKU        string
	Active     bool
	ListPrice  decimal.Decimal
	// TermIDs are the attribute terms identifying the variant
	// (e.g. colour=red, size=L)
	TermIDs   []uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPlaceholder reports whether the variant is the attribute-less default
// record a template starts with. Placeholder variants are deactivated once
// real variants have been imported.
func (v *Variant) IsPlaceholder() bool {
	return len(v.TermIDs) == 0
}

// Attribute is a product attribute (colour, size, ...).
type Attribute struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AttributeTerm is one value of an attribute.
type AttributeTerm struct {
	ID          uuid.UUID
	AttributeID uuid.UUID
	Name        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AttributeLine links a template to an attribute and the subset of its
// terms the template's variants use.
type AttributeLine struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	AttributeID uuid.UUID
	TermIDs     []uuid.UUID
}
