package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/connector/internal/domain/connector"
	"github.com/erp/connector/internal/domain/store"
)

// GormStoreRegistry implements store.Registry on one gorm handle. Handing
// it a transaction handle scopes every store to that transaction.
type GormStoreRegistry struct {
	db *gorm.DB
}

// NewGormStoreRegistry creates the registry.
func NewGormStoreRegistry(db *gorm.DB) *GormStoreRegistry {
	return &GormStoreRegistry{db: db}
}

func (r *GormStoreRegistry) Categories() store.CategoryStore { return NewGormCategoryStore(r.db) }
func (r *GormStoreRegistry) Products() store.ProductStore    { return NewGormProductStore(r.db) }
func (r *GormStoreRegistry) Variants() store.VariantStore    { return NewGormVariantStore(r.db) }
func (r *GormStoreRegistry) Attributes() store.AttributeStore {
	return NewGormAttributeStore(r.db)
}
func (r *GormStoreRegistry) Terms() store.TermStore         { return NewGormTermStore(r.db) }
func (r *GormStoreRegistry) Customers() store.CustomerStore { return NewGormCustomerStore(r.db) }
func (r *GormStoreRegistry) PaymentMethods() store.PaymentMethodStore {
	return NewGormPaymentMethodStore(r.db)
}
func (r *GormStoreRegistry) Carriers() store.CarrierStore { return NewGormCarrierStore(r.db) }
func (r *GormStoreRegistry) Orders() store.OrderStore     { return NewGormOrderStore(r.db) }

// UpserterFor returns the Upserter matching an entity type.
func (r *GormStoreRegistry) UpserterFor(t connector.EntityType) store.Upserter {
	switch t {
	case connector.EntityCategory:
		return r.Categories()
	case connector.EntityProduct:
		return r.Products()
	case connector.EntityVariant:
		return r.Variants()
	case connector.EntityAttribute:
		return r.Attributes()
	case connector.EntityAttributeTerm:
		return r.Terms()
	case connector.EntityCustomer:
		return r.Customers()
	case connector.EntityOrder:
		return r.Orders()
	}
	return nil
}

// createRow inserts a column map into the model's table with a fresh id.
func createRow(ctx context.Context, db *gorm.DB, model any, cols map[string]any) (uuid.UUID, error) {
	id := uuid.New()
	now := time.Now().UTC()
	cols["id"] = id
	cols["created_at"] = now
	cols["updated_at"] = now
	if err := db.WithContext(ctx).Model(model).Create(cols).Error; err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// updateRow applies a column map to one row; notFound is returned when the
// row does not exist.
func updateRow(ctx context.Context, db *gorm.DB, model any, id uuid.UUID, cols map[string]any, notFound error) error {
	if len(cols) == 0 {
		return nil
	}
	cols["updated_at"] = time.Now().UTC()
	res := db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}
