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

// GormCustomerStore implements CustomerStore using GORM
type GormCustomerStore struct {
	db *gorm.DB
}

// NewGormCustomerStore creates a new GormCustomerStore
func NewGormCustomerStore(db *gorm.DB) *GormCustomerStore {
	return &GormCustomerStore{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerStore) FindByID(ctx context.Context, id uuid.UUID) (*store.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrCustomerNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a non-guest customer by email. Guests are excluded so
// a registered account is never silently merged with a guest checkout.
func (r *GormCustomerStore) FindByEmail(ctx context.Context, email string) (*store.Customer, error) {
	var model models.CustomerModel
	err := r.db.WithContext(ctx).
		First(&model, "email = ? AND guest = ?", email, false).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrCustomerNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SaveAddress stores an address, reusing an identical existing one.
func (r *GormCustomerStore) SaveAddress(ctx context.Context, addr *store.Address) (uuid.UUID, error) {
	db := r.db.WithContext(ctx)

	var existing models.AddressModel
	err := db.First(&existing,
		"customer_id = ? AND kind = ? AND street = ? AND city = ? AND zip = ? AND country = ?",
		addr.CustomerID, string(addr.Kind), addr.Street, addr.City, addr.Zip, addr.Country).Error
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, err
	}

	var model models.AddressModel
	model.FromDomain(addr)
	model.ID = uuid.New()
	if err := db.Create(&model).Error; err != nil {
		return uuid.Nil, err
	}
	return model.ID, nil
}

// CreateFromValues creates a customer from mapped values
func (r *GormCustomerStore) CreateFromValues(ctx context.Context, vals connector.Values) (uuid.UUID, error) {
	cols, err := r.columns(vals)
	if err != nil {
		return uuid.Nil, err
	}
	return createRow(ctx, r.db, &models.CustomerModel{}, cols)
}

// UpdateFromValues updates a customer from mapped values
func (r *GormCustomerStore) UpdateFromValues(ctx context.Context, id uuid.UUID, vals connector.Values) error {
	cols, err := r.columns(vals)
	if err != nil {
		return err
	}
	return updateRow(ctx, r.db, &models.CustomerModel{}, id, cols, store.ErrCustomerNotFound)
}

func (r *GormCustomerStore) columns(vals connector.Values) (map[string]any, error) {
	const table = "customers"
	cols := make(map[string]any, len(vals))
	for key, v := range vals {
		switch key {
		case "name", "email", "phone":
			s, err := asString(table, key, v)
			if err != nil {
				return nil, err
			}
			cols[key] = s
		case "guest", "active":
			b, err := asBool(table, key, v)
			if err != nil {
				return nil, err
			}
			cols[key] = b
		default:
			return nil, fieldError(table, key, v)
		}
	}
	return cols, nil
}
