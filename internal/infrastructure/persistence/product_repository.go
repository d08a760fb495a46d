package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/erp/connector/internal/domain/connector"
	"github.com/erp/connector/internal/domain/store"
	"github.com/erp/connector/internal/infrastructure/persistence/models"
)

// GormProductStore implements ProductStore using GORM
type GormProductStore struct {
	db *gorm.DB
}

// NewGormProductStore creates a new GormProductStore
func NewGormProductStore(db *gorm.DB) *GormProductStore {
	return &GormProductStore{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductStore) FindByID(ctx context.Context, id uuid.UUID) (*store.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrProductNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySKU finds a product by its SKU
func (r *GormProductStore) FindBySKU(ctx context.Context, sku string) (*store.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrProductNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SaveImage stores the primary image of a product
func (r *GormProductStore) SaveImage(ctx context.Context, id uuid.UUID, image []byte) error {
	return updateRow(ctx, r.db, &models.ProductModel{}, id,
		map[string]any{"image": image}, store.ErrProductNotFound)
}

// SetAttributeLine records which attribute terms a template's variants
// use. The terms of an existing line are merged, not replaced.
func (r *GormProductStore) SetAttributeLine(ctx context.Context, line store.AttributeLine) error {
	db := r.db.WithContext(ctx)
	var model models.AttributeLineModel
	err := db.First(&model, "product_id = ? AND attribute_id = ?", line.ProductID, line.AttributeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		model = models.AttributeLineModel{
			ProductID:   line.ProductID,
			AttributeID: line.AttributeID,
			TermIDsJSON: models.EncodeIDList(line.TermIDs),
		}
		return db.Create(&model).Error
	}
	if err != nil {
		return err
	}
	merged := mergeIDs(model.ToDomain().TermIDs, line.TermIDs)
	return db.Model(&model).Update("term_ids", models.EncodeIDList(merged)).Error
}

// MarkExported records the quantity last pushed to the storefront
func (r *GormProductStore) MarkExported(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error {
	return updateRow(ctx, r.db, &models.ProductModel{}, id,
		map[string]any{"exported_qty": qty}, store.ErrProductNotFound)
}

// CreateFromValues creates a product from mapped values
func (r *GormProductStore) CreateFromValues(ctx context.Context, vals connector.Values) (uuid.UUID, error) {
	cols, err := r.columns(vals)
	if err != nil {
		return uuid.Nil, err
	}
	return createRow(ctx, r.db, &models.ProductModel{}, cols)
}

// UpdateFromValues updates a product from mapped values
func (r *GormProductStore) UpdateFromValues(ctx context.Context, id uuid.UUID, vals connector.Values) error {
	cols, err := r.columns(vals)
	if err != nil {
		return err
	}
	return updateRow(ctx, r.db, &models.ProductModel{}, id, cols, store.ErrProductNotFound)
}

func (r *GormProductStore) columns(vals connector.Values) (map[string]any, error) {
	const table = "products"
	cols := make(map[string]any, len(vals))
	for key, v := range vals {
		switch key {
		case "name", "description", "sku", "kind":
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
		case "list_price", "weight":
			d, err := asDecimal(table, key, v)
			if err != nil {
				return nil, err
			}
			cols[key] = d
		case "category_id":
			id, err := asUUIDPtr(table, key, v)
			if err != nil {
				return nil, err
			}
			cols[key] = id
		case "secondary_category_ids":
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
