package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/erp/connector/internal/domain/store"
	"github.com/erp/connector/internal/infrastructure/persistence/models"
)

// GormPaymentMethodStore implements PaymentMethodStore using GORM
type GormPaymentMethodStore struct {
	db *gorm.DB
}

// NewGormPaymentMethodStore creates a new GormPaymentMethodStore
func NewGormPaymentMethodStore(db *gorm.DB) *GormPaymentMethodStore {
	return &GormPaymentMethodStore{db: db}
}

// FindByCode finds a payment method by its storefront gateway code
func (r *GormPaymentMethodStore) FindByCode(ctx context.Context, code string) (*store.PaymentMethod, error) {
	var model models.PaymentMethodModel
	if err := r.db.WithContext(ctx).First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrPaymentMethodNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GormCarrierStore implements CarrierStore using GORM
type GormCarrierStore struct {
	db *gorm.DB
}

// NewGormCarrierStore creates a new GormCarrierStore
func NewGormCarrierStore(db *gorm.DB) *GormCarrierStore {
	return &GormCarrierStore{db: db}
}

// FindOrCreate resolves a shipping code, creating the carrier on first use
func (r *GormCarrierStore) FindOrCreate(ctx context.Context, code, name string) (*store.DeliveryCarrier, error) {
	db := r.db.WithContext(ctx)

	var model models.DeliveryCarrierModel
	err := db.First(&model, "code = ?", code).Error
	if err == nil {
		return model.ToDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if name == "" {
		name = code
	}
	model = models.DeliveryCarrierModel{Name: name, Code: code}
	if err := db.Create(&model).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}
