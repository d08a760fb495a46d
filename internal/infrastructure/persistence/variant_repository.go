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

// GormVariantStore implements VariantStore using GORM
type GormVariantStore struct {
	db *gorm.DB
}

// NewGormVariantStore creates a new GormVariantStore
func NewGormVariantStore(db *gorm.DB) *GormVariantStore {
	return &GormVariantStore{db: db}
}

// FindByID finds a variant by its ID
func (r *GormVariantStore) FindByID(ctx context.Context, id uuid.UUID) (*store.Variant, error) {
	var model models.VariantModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrVariantNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// VariantsOf returns every variant of a template
func (r *GormVariantStore) VariantsOf(ctx context.Context, templateID uuid.UUID) ([]store.Variant, error) {
	var variantModels []models.VariantModel
	if err := r.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Find(&variantModels).Error; err != nil {
		return nil, err
	}
	variants := make([]store.Variant, 0, len(variantModels))
	for i := range variantModels {
		variants = append(variants, *variantModels[i].ToDomain())
	}
	return variants, nil
}

// Deactivate retires a variant
func (r *GormVariantStore) Deactivate(ctx context.Context, id uuid.UUID) error {
	return updateRow(ctx, r.db, &models.VariantModel{}, id,
		map[string]any{"active": false}, store.ErrVariantNotFound)
}

// CreateFromValues creates a variant from mapped values
func (r *GormVariantStore) CreateFromValues(ctx context.Context, vals connector.Values) (uuid.UUID, error) {
	cols, err := r.columns(vals)
	if err != nil {
		return uuid.Nil, err
	}
	return createRow(ctx, r.db, &models.VariantModel{}, cols)
}

// UpdateFromValues updates a variant from mapped values
func (r *GormVariantStore) UpdateFromValues(ctx context.Context, id uuid.UUID, vals connector.Values) error {
	cols, err := r.columns(vals)
	if err != nil {
		return err
	}
	return updateRow(ctx, r.db, &models.VariantModel{}, id, cols, store.ErrVariantNotFound)
}

func (r *GormVariantStore) columns(vals connector.Values) (map[string]any, error) {
	const table = "product_variants"
	cols := make(map[string]any, len(vals))
	for key, v := range vals {
		switch key {
		case "sku":
			s, err := asString(table, key, v)
			if err != nil {
				return nil, err
			}
			cols[key] = s
		case "active":
			b, err := asBool(table, key, v)
			if err != nil {
				return nil, err
			}
			cols[key] = b
		case "list_price":
			d, err := asDecimal(table, key, v)
			if err != nil {
				return nil, err
			}
			cols[key] = d
		case "template_id":
			id, err := asUUID(table, key, v)
			if err != nil {
				return nil, err
			}
			cols[key] = id
		case "term_ids":
			ids, err := asIDList(table, key, v)
			if err != nil {
				return nil, err
			}
			cols[key] = models.EncodeIDList(ids)
		default:
			return nil, fieldError(table, key, v)
		}
	}
	return cols, nil
}
