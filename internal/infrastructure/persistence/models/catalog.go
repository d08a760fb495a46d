package models

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/connector/internal/domain/store"
)

// CategoryModel is the persistence model for a product category.
type CategoryModel struct {
	BaseModel
	Name     string     `gorm:"type:varchar(255);not null"`
	ParentID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category.
func (m *CategoryModel) ToDomain() *store.Category {
	return &store.Category{
		ID:        m.ID,
		Name:      m.Name,
		ParentID:  m.ParentID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ProductModel is the persistence model for a product template.
type ProductModel struct {
	BaseModel
	Name        string          `gorm:"type:varchar(255);not null"`
	Description string          `gorm:"type:text"`
	SKU         string          `gorm:"type:varchar(100);index"`
	Kind        string          `gorm:"type:varchar(20);not null;default:'simple'"`
	Active      bool            `gorm:"not null;default:true"`
	ListPrice   decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	Weight      decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	// SecondaryCategoryIDsJSON holds the non-main category ids
	SecondaryCategoryIDsJSON string          `gorm:"type:jsonb;column:secondary_category_ids"`
	Image                    []byte          `gorm:"type:bytea"`
	ForecastQty              decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	OnHandQty                decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	ExportedQty              decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	NoStockSync              bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *store.Product {
	p := &store.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		SKU:         m.SKU,
		Kind:        store.ProductKind(m.Kind),
		Active:      m.Active,
		ListPrice:   m.ListPrice,
		Weight:      m.Weight,
		CategoryID:  m.CategoryID,
		Image:       m.Image,
		ForecastQty: m.ForecastQty,
		OnHandQty:   m.OnHandQty,
		ExportedQty: m.ExportedQty,
		NoStockSync: m.NoStockSync,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	p.SecondaryCategoryIDs = DecodeIDList(m.SecondaryCategoryIDsJSON)
	return p
}

// VariantModel is the persistence model for a product variation.
type VariantModel struct {
	BaseModel
	TemplateID uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU        string          `gorm:"type:varchar(100);index"`
	Active     bool            `gorm:"not null;default:true"`
	ListPrice  decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	// TermIDsJSON holds the attribute term ids identifying the variant
	TermIDsJSON string `gorm:"type:jsonb;column:term_ids"`
}

// TableName returns the table name for GORM
func (VariantModel) TableName() string {
	return "product_variants"
}

// ToDomain converts the persistence model to a domain Variant.
func (m *VariantModel) ToDomain() *store.Variant {
	return &store.Variant{
		ID:         m.ID,
		TemplateID: m.TemplateID,
		SKU:        m.SKU,
		Active:     m.Active,
		ListPrice:  m.ListPrice,
		TermIDs:    DecodeIDList(m.TermIDsJSON),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// AttributeModel is the persistence model for a product attribute.
type AttributeModel struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (AttributeModel) TableName() string {
	return "product_attributes"
}

// ToDomain converts the persistence model to a domain Attribute.
func (m *AttributeModel) ToDomain() *store.Attribute {
	return &store.Attribute{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// AttributeTermModel is the persistence model for an attribute term.
type AttributeTermModel struct {
	BaseModel
	AttributeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_term_attr_name,priority:1"`
	Name        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_term_attr_name,priority:2"`
}

// TableName returns the table name for GORM
func (AttributeTermModel) TableName() string {
	return "product_attribute_terms"
}

// ToDomain converts the persistence model to a domain AttributeTerm.
func (m *AttributeTermModel) ToDomain() *store.AttributeTerm {
	return &store.AttributeTerm{
		ID:          m.ID,
		AttributeID: m.AttributeID,
		Name:        m.Name,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// AttributeLineModel links a template to an attribute and the terms its
// variants use.
type AttributeLineModel struct {
	BaseModel
	ProductID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attr_line,priority:1"`
	AttributeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attr_line,priority:2"`
	TermIDsJSON string    `gorm:"type:jsonb;column:term_ids"`
}

// TableName returns the table name for GORM
func (AttributeLineModel) TableName() string {
	return "product_attribute_lines"
}

// ToDomain converts the persistence model to a domain AttributeLine.
func (m *AttributeLineModel) ToDomain() *store.AttributeLine {
	return &store.AttributeLine{
		ID:          m.ID,
		ProductID:   m.ProductID,
		AttributeID: m.AttributeID,
		TermIDs:     DecodeIDList(m.TermIDsJSON),
	}
}

// EncodeIDList serializes a uuid list to JSON for storage.
func EncodeIDList(ids []uuid.UUID) string {
	if len(ids) == 0 {
		return "[]"
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// DecodeIDList parses a stored JSON uuid list.
func DecodeIDList(raw string) []uuid.UUID {
	if raw == "" {
		return nil
	}
	var ids []uuid.UUID
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil
	}
	if len(ids) == 0 {
		return nil
	}
	return ids
}
