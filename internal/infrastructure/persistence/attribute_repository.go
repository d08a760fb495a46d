package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/connector/internal/domain/connector"
	"github.com/erp/connector/internal/domain/store"
	"github.com/erp/connector/internal/infrastructure/persistence/models"
)

// GormAttributeStore implements AttributeStore using GORM
type GormAttributeStore struct {
	db *gorm.DB
}

// NewGormAttributeStore creates a new GormAttributeStore
func NewGormAttributeStore(db *gorm.DB) *GormAttributeStore {
	return &GormAttributeStore{db: db}
}

// FindByName finds an attribute by its name
func (r *GormAttributeStore) FindByName(ctx context.Context, name string) (*store.Attribute, error) {
	var model models.AttributeModel
	if err := r.db.WithContext(ctx).First(&model, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrAttributeNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// CreateFromValues creates an attribute from mapped values
func (r *GormAttributeStore) CreateFromValues(ctx context.Context, vals connector.Values) (uuid.UUID, error) {
	cols, err := r.columns(vals)
	if err != nil {
		return uuid.Nil, err
	}
	return createRow(ctx, r.db, &models.AttributeModel{}, cols)
}

// UpdateFromValues updates an attribute from mapped values
func (r *GormAttributeStore) UpdateFromValues(ctx context.Context, id uuid.UUID, vals connector.Values) error {
	cols, err := r.columns(vals)
	if err != nil {
		return err
	}
	return updateRow(ctx, r.db, &models.AttributeModel{}, id, cols, store.ErrAttributeNotFound)
}

func (r *GormAttributeStore) columns(vals connector.Values) (map[string]any, error) {
	const table = "product_attributes"
	cols := make(map[string]any, len(vals))
	for key, v := range vals {
		switch key {
		case "name":
			s, err := asString(table, key, v)
			if err != nil {
				return nil, err
			}
			cols[key] = s
		default:
			return nil, fieldError(table, key, v)
		}
	}
	return cols, nil
}

// GormTermStore implements TermStore using GORM
type GormTermStore struct {
	db *gorm.DB
}

// NewGormTermStore creates a new GormTermStore
func NewGormTermStore(db *gorm.DB) *GormTermStore {
	return &GormTermStore{db: db}
}

// FindByName finds a term of an attribute by its name
func (r *GormTermStore) FindByName(ctx context.Context, attributeID uuid.UUID, name string) (*store.AttributeTerm, error) {
	var model models.AttributeTermModel
	err := r.db.WithContext(ctx).
		First(&model, "attribute_id = ? AND name = ?", attributeID, name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrTermNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// CreateFromValues creates a term from mapped values
func (r *GormTermStore) CreateFromValues(ctx context.Context, vals connector.Values) (uuid.UUID, error) {
	cols, err := r.columns(vals)
	if err != nil {
		return uuid.Nil, err
	}
	return createRow(ctx, r.db, &models.AttributeTermModel{}, cols)
}

// UpdateFromValues updates a term from mapped values
func (r *GormTermStore) UpdateFromValues(ctx context.Context, id uuid.UUID, vals connector.Values) error {
	cols, err := r.columns(vals)
	if err != nil {
		return err
	}
	return updateRow(ctx, r.db, &models.AttributeTermModel{}, id, cols, store.ErrTermNotFound)
}

func (r *GormTermStore) columns(vals connector.Values) (map[string]any, error) {
	const table = "product_attribute_terms"
	cols := make(map[string]any, len(vals))
	for key, v := range vals {
		switch key {
		case "name":
			s, err := asString(table, key, v)
			if err != nil {
				return nil, err
			}
			cols[key] = s
		case "attribute_id":
			id, err := asUUID(table, key, v)
			if err != nil {
				return nil, err
			}
			cols[key] = id
		default:
			return nil, fieldError(table, key, v)
		}
	}
	return cols, nil
}
