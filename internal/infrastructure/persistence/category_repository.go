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

// GormCategoryStore implements CategoryStore using GORM
type GormCategoryStore struct {
	db *gorm.DB
}

// NewGormCategoryStore creates a new GormCategoryStore
func NewGormCategoryStore(db *gorm.DB) *GormCategoryStore {
	return &GormCategoryStore{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*store.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrCategoryNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// CreateFromValues creates a category from mapped values
func (r *GormCategoryStore) CreateFromValues(ctx context.Context, vals connector.Values) (uuid.UUID, error) {
	cols, err := r.columns(vals)
	if err != nil {
		return uuid.Nil, err
	}
	return createRow(ctx, r.db, &models.CategoryModel{}, cols)
}

// UpdateFromValues updates a category from mapped values
func (r *GormCategoryStore) UpdateFromValues(ctx context.Context, id uuid.UUID, vals connector.Values) error {
	cols, err := r.columns(vals)
	if err != nil {
		return err
	}
	return updateRow(ctx, r.db, &models.CategoryModel{}, id, cols, store.ErrCategoryNotFound)
}

func (r *GormCategoryStore) columns(vals connector.Values) (map[string]any, error) {
	const table = "categories"
	cols := make(map[string]any, len(vals))
	for key, v := range vals {
		switch key {
		case "name":
			s, err := asString(table, key, v)
			if err != nil {
				return nil, err
			}
			cols["name"] = s
		case "parent_id":
			id, err := asUUIDPtr(table, key, v)
			if err != nil {
				return nil, err
			}
			cols["parent_id"] = id
		default:
			return nil, fieldError(table, key, v)
		}
	}
	return cols, nil
}
