package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/connector/internal/domain/connector"
	"github.com/erp/connector/internal/infrastructure/persistence/models"
)

// GormBinder implements the Binder port for one (backend, entity type)
// pair against the bindings table.
type GormBinder struct {
	db         *gorm.DB
	backendID  uuid.UUID
	entityType connector.EntityType
}

// NewGormBinder creates a binder scoped to one backend and entity type.
func NewGormBinder(db *gorm.DB, backendID uuid.UUID, entityType connector.EntityType) *GormBinder {
	return &GormBinder{db: db, backendID: backendID, entityType: entityType}
}

// ToInternal resolves an external id to its binding.
func (b *GormBinder) ToInternal(ctx context.Context, externalID connector.ExternalID) (*connector.Binding, error) {
	var model models.BindingModel
	err := b.db.WithContext(ctx).
		First(&model, "backend_id = ? AND entity_type = ? AND external_id = ?",
			b.backendID, b.entityType, externalID.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, connector.ErrNotBound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ToExternal resolves a local record id to its external id.
func (b *GormBinder) ToExternal(ctx context.Context, localID uuid.UUID) (connector.ExternalID, error) {
	var model models.BindingModel
	err := b.db.WithContext(ctx).
		First(&model, "backend_id = ? AND entity_type = ? AND local_id = ?",
			b.backendID, b.entityType, localID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", connector.ErrNotBound
		}
		return "", err
	}
	return connector.ExternalID(model.ExternalID), nil
}

// Bind records the association between an external and a local id.
// Re-binding the same pair refreshes the sync timestamp; binding either
// side to a different partner is a conflict.
func (b *GormBinder) Bind(ctx context.Context, externalID connector.ExternalID, localID uuid.UUID) error {
	now := time.Now().UTC()
	db := b.db.WithContext(ctx)

	var existing models.BindingModel
	err := db.First(&existing, "backend_id = ? AND entity_type = ? AND external_id = ?",
		b.backendID, b.entityType, externalID.String()).Error
	switch {
	case err == nil:
		if existing.LocalID != localID {
			return connector.ErrBindingConflict
		}
		return db.Model(&existing).Update("last_sync_at", now).Error
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	// The local record must not be bound to another external id either.
	var count int64
	if err := db.Model(&models.BindingModel{}).
		Where("backend_id = ? AND entity_type = ? AND local_id = ?",
			b.backendID, b.entityType, localID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return connector.ErrBindingConflict
	}

	model := models.BindingModel{
		BackendID:  b.backendID,
		EntityType: string(b.entityType),
		ExternalID: externalID.String(),
		LocalID:    localID,
		LastSyncAt: &now,
	}
	return db.Create(&model).Error
}

// GormBinderRegistry hands out binders for one backend.
type GormBinderRegistry struct {
	db        *gorm.DB
	backendID uuid.UUID
}

// NewGormBinderRegistry creates the registry.
func NewGormBinderRegistry(db *gorm.DB, backendID uuid.UUID) *GormBinderRegistry {
	return &GormBinderRegistry{db: db, backendID: backendID}
}

// BinderFor returns the binder for an entity type.
func (r *GormBinderRegistry) BinderFor(entityType connector.EntityType) connector.Binder {
	return NewGormBinder(r.db, r.backendID, entityType)
}
