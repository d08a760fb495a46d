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

// GormOrderStore implements OrderStore using GORM
type GormOrderStore struct {
	db *gorm.DB
}

// NewGormOrderStore creates a new GormOrderStore
func NewGormOrderStore(db *gorm.DB) *GormOrderStore {
	return &GormOrderStore{db: db}
}

// FindByID finds an order with its lines by ID
func (r *GormOrderStore) FindByID(ctx context.Context, id uuid.UUID) (*store.SalesOrder, error) {
	var model models.SalesOrderModel
	err := r.db.WithContext(ctx).Preload("Lines").First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrOrderNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an order by its storefront number
func (r *GormOrderStore) FindByNumber(ctx context.Context, number string) (*store.SalesOrder, error) {
	var model models.SalesOrderModel
	err := r.db.WithContext(ctx).Preload("Lines").First(&model, "number = ?", number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrOrderNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// AddLine appends a line to an order
func (r *GormOrderStore) AddLine(ctx context.Context, line *store.OrderLine) (uuid.UUID, error) {
	var model models.OrderLineModel
	model.FromDomain(line)
	model.ID = uuid.New()
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return uuid.Nil, err
	}
	return model.ID, nil
}

// Confirm moves a draft order to confirmed. Non-draft orders are left
// alone so re-imports stay idempotent.
func (r *GormOrderStore) Confirm(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.SalesOrderModel{}).
		Where("id = ? AND status = ?", id, string(store.OrderStatusDraft)).
		Update("status", string(store.OrderStatusConfirmed))
	if res.Error != nil {
		return res.Error
	}
	return nil
}

// CreateFromValues creates an order header from mapped values
func (r *GormOrderStore) CreateFromValues(ctx context.Context, vals connector.Values) (uuid.UUID, error) {
	cols, err := r.columns(vals)
	if err != nil {
		return uuid.Nil, err
	}
	return createRow(ctx, r.db, &models.SalesOrderModel{}, cols)
}

// UpdateFromValues updates an order header from mapped values
func (r *GormOrderStore) UpdateFromValues(ctx context.Context, id uuid.UUID, vals connector.Values) error {
	cols, err := r.columns(vals)
	if err != nil {
		return err
	}
	return updateRow(ctx, r.db, &models.SalesOrderModel{}, id, cols, store.ErrOrderNotFound)
}

func (r *GormOrderStore) columns(vals connector.Values) (map[string]any, error) {
	const table = "sales_orders"
	cols := make(map[string]any, len(vals))
	for key, v := range vals {
		switch key {
		case "number", "currency", "status":
			s, err := asString(table, key, v)
			if err != nil {
				return nil, err
			}
			cols[key] = s
		case "amount_total":
			d, err := asDecimal(table, key, v)
			if err != nil {
				return nil, err
			}
			cols[key] = d
		case "ordered_at":
			t, err := asTime(table, key, v)
			if err != nil {
				return nil, err
			}
			cols[key] = t
		case "customer_id":
			id, err := asUUID(table, key, v)
			if err != nil {
				return nil, err
			}
			cols[key] = id
		case "billing_address_id", "shipping_address_id", "payment_method_id", "carrier_id":
			id, err := asUUIDPtr(table, key, v)
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
