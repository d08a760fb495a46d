package connector

// ---------------------------------------------------------------------------
// EntityType represents one synchronized record type
// ---------------------------------------------------------------------------

// EntityType identifies a kind of record that is synchronized with the
// storefront. Bindings, advisory locks and import jobs are all scoped by it.
type EntityType string

const (
	// EntityCategory represents a product category
	EntityCategory EntityType = "product.category"
	// EntityProduct represents a product template
	EntityProduct EntityType = "product.template"
	// EntityVariant represents a product variation under a template
	EntityVariant EntityType = "product.variant"
	// EntityAttribute represents a product attribute
	EntityAttribute EntityType = "product.attribute"
	// EntityAttributeTerm represents a value of a product attribute
	EntityAttributeTerm EntityType = "product.attribute.term"
	// EntityCustomer represents a storefront customer
	EntityCustomer EntityType = "customer"
	// EntityOrder represents a storefront order
	EntityOrder EntityType = "order"
)

// IsValid returns true if the entity type is valid
func (t EntityType) IsValid() bool {
	switch t {
	case EntityCategory, EntityProduct, EntityVariant, EntityAttribute,
		EntityAttributeTerm, EntityCustomer, EntityOrder:
		return true
	default:
		return false
	}
}

// String returns the string representation of EntityType
func (t EntityType) String() string {
	return string(t)
}

// ---------------------------------------------------------------------------
// ExternalID
// ---------------------------------------------------------------------------

// ExternalID is a remote record identifier. The storefront uses numeric ids
// but the connector also synthesizes string ids (e.g. guest customers), so
// the external id is kept as an opaque string.
type ExternalID string

// String returns the string representation of ExternalID
func (id ExternalID) String() string {
	return string(id)
}

// IsZero returns true when the id is empty
func (id ExternalID) IsZero() bool {
	return id == ""
}
